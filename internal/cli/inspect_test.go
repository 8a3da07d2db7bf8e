package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJava(t *testing.T) {
	out, _, err := run(t, "", "java", "aced000573720003466f6f0000000000000001020000")
	require.NoError(t, err)

	v := parseJSON(t, out)
	assert.Equal(t,
		`{"version":5,"className":"Foo","fields":[],"serialVersionUID":1,"flags":2,"fieldDescriptors":[]}`,
		v.String())
}

func TestJava_Stdin(t *testing.T) {
	out, _, err := run(t, "ac ed 00 05 74 00 01 61\n", "java")
	require.NoError(t, err)
	assert.Contains(t, parseJSON(t, out).String(), `"className":""`)
}

func TestJava_MissingMagic(t *testing.T) {
	_, _, err := run(t, "", "java", "cafebabe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing magic bytes")
}

func TestPickle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"protocol 4", "80049500", `{"pickle":true,"protocol":4,"name":"Pickle v4"}`},
		{"protocol 0", "28lp0", `{"pickle":true}`},
		{"not pickle", "ffeeaabb", `{"pickle":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "", "pickle", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parseJSON(t, out).String())
		})
	}
}

func TestPHPArray(t *testing.T) {
	out, _, err := run(t, "array(1, 'a)b', array('k' => 2))", "php-array")
	require.NoError(t, err)
	assert.Equal(t, "[1, 'a)b', ['k' => 2]]\n", out)
}
