package php

import "testing"

func TestConvertArraySyntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nested", "array(1,2,array(3,4))", "[1,2,[3,4]]"},
		{"quoted delimiters", "array('a,b', 'c)d')", "['a,b', 'c)d']"},
		{"empty", "array()", "[]"},
		{"case and spacing", "ARRAY (1, Array\t(2))", "[1, [2]]"},
		{
			name:  "var_export dump",
			input: "array (\n  'k' => 'v',\n  'n' => \n  array (\n    0 => NULL,\n  ),\n)",
			want:  "[\n  'k' => 'v',\n  'n' => \n  [\n    0 => NULL,\n  ],\n]",
		},
		{"escaped quote", `array('it\'s (', "\"a)")`, `['it\'s (', "\"a)"]`},
		{"parentheses in code", "array(1, (2 + 3), 4)", "[1, (2 + 3), 4]"},
		{"surrounding text", "$x = array(1); foo(bar);", "$x = [1]; foo(bar);"},
		{"no literal", "return [1, 2];", "return [1, 2];"},
		{"not a call", "arrays(1) array", "arrays(1) array"},
		{"unbalanced", "array(1, (2", "[1, (2"},
		{"unterminated string", "array('a)", "['a)"},
		{"window too short for keyword", "array" + "                    (", "array                    ("},
		{"multibyte outside", "é array('ü')", "é ['ü']"},
		{"function call suffix", "in_array($x, array(1))", "in_array($x, [1])"},
		{"call inside literal", "array(is_array(1), 2)", "[is_array(1), 2]"},
		{"variable call", "$array(1)", "$array(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertArraySyntax(tt.input); got != tt.want {
				t.Errorf("ConvertArraySyntax(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchArrayOpen(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		want  int
	}{
		{"array(", 0, 6},
		{"x array (", 2, 7},
		{"Array", 0, 0},
		{"abc(", 0, 0},
		{"barray(", 0, 0},
		{"barray(", 1, 0},
		{"in_array(", 3, 0},
		{"(array(", 1, 6},
	}

	for _, tt := range tests {
		if got := matchArrayOpen(tt.input, tt.pos); got != tt.want {
			t.Errorf("matchArrayOpen(%q, %d) = %d, want %d", tt.input, tt.pos, got, tt.want)
		}
	}
}
