package php

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/zoobzio/interchange"
)

func TestParseArrayLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"list", "[1, 2, 3]", `[1,2,3]`},
		{"keyed", "['a' => 1, 'b' => [true, null]]", `{"a":1,"b":[true,null]}`},
		{"auto index after int key", "[5 => 'x', 'y']", `{"5":"x","6":"y"}`},
		{"numeric string keys", "['0' => 'a', '1' => 'b']", `["a","b"]`},
		{"empty", "[]", `{}`},
		{"trailing comma", "[1, 2,]", `[1,2]`},
		{"php wrapper", "<?php\nreturn ['debug' => FALSE];\n", `{"debug":false}`},
		{"variable assignment", "$config = ['k' => 'v'];", `{"k":"v"}`},
		{"comments", "[\n  // one\n  1, # two\n  /* three */ 3,\n]", `[1,3]`},
		{"single quoted escapes", `['it\'s', 'c:\\dir', 'raw\n']`, `["it's","c:\\dir","raw\\n"]`},
		{"double quoted escapes", `["tab\there", "\x41\101\u{1F600}", "\$x"]`, `["tab\there","AA😀","$x"]`},
		{"numbers", "[-1, 0x1F, 0b11, 017, 1_000, 1.5, -2e3, .5]", `[-1,31,3,15,1000,1.5,-2000,0.5]`},
		{"special floats", "[NAN, INF, -INF]", `[NaN,Infinity,-Infinity]`},
		{"scalar", "'plain'", `"plain"`},
		{"mixed keys", "[0 => 'a', 'x' => 'b']", `{"0":"a","x":"b"}`},
		{"duplicate key", "['a' => 1, 'a' => 2]", `{"a":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseArrayLiteral(tt.input)
			if err != nil {
				t.Fatalf("ParseArrayLiteral(%q) error: %v", tt.input, err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("ParseArrayLiteral(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseArrayLiteral_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"empty", "", ErrTruncated},
		{"unclosed", "[1, 2", ErrTruncated},
		{"unterminated string", "['abc", ErrTruncated},
		{"missing comma", "[1 2]", ErrSyntax},
		{"unknown constant", "[FOO]", ErrSyntax},
		{"array key", "[[1] => 2]", ErrSyntax},
		{"trailing data", "[1] [2]", ErrSyntax},
		{"legacy syntax", "array(1)", ErrSyntax},
		{"too deep", strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1), ErrDepthExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArrayLiteral(tt.input)
			if !errors.Is(err, tt.target) {
				t.Errorf("ParseArrayLiteral(%.40q) error = %v, want %v", tt.input, err, tt.target)
			}
		})
	}
}

func TestFormatArrayLiteral(t *testing.T) {
	inner := interchange.NewMapping()
	inner.Set("it's", interchange.Float(2))
	inner.Set("7", interchange.Null())

	m := interchange.NewMapping()
	m.Set("list", interchange.Sequence(interchange.Int(1), interchange.String(`a\b`)))
	m.Set("map", interchange.Map(inner))
	m.Set("empty", interchange.Sequence())
	m.Set("nan", interchange.Float(math.NaN()))

	want := `[
    'list' => [
        1,
        'a\\b',
    ],
    'map' => [
        'it\'s' => 2.0,
        7 => null,
    ],
    'empty' => [],
    'nan' => NAN,
]`
	if got := FormatArrayLiteral(interchange.Map(m)); got != want {
		t.Errorf("FormatArrayLiteral() =\n%s\nwant\n%s", got, want)
	}
}

func TestArrayCodec(t *testing.T) {
	c := NewArrayCodec()
	if c.Format() != interchange.FormatPHPArray {
		t.Errorf("Format() = %q, want %q", c.Format(), interchange.FormatPHPArray)
	}

	v, err := c.Unmarshal([]byte("array (\n  'a' => array (0 => 1, 1 => 'x'),\n  'b' => true,\n)"))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got, want := v.String(), `{"a":[1,"x"],"b":true}`; got != want {
		t.Errorf("Unmarshal() = %s, want %s", got, want)
	}

	data, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	restored, err := c.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal(Marshal()) error: %v", err)
	}
	if !interchange.Equal(v, restored) {
		t.Errorf("round-trip = %s, want %s", restored, v)
	}
}
