package interchange

import (
	"errors"
	"testing"
)

func TestCodecError_Is(t *testing.T) {
	cause := errors.New("unexpected end of input")
	err := NewCodecError(ErrUnmarshal, FormatJSON, cause)

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}
	if !errors.Is(err, cause) {
		t.Error("CodecError should unwrap to its cause")
	}
	if errors.Is(err, ErrMarshal) {
		t.Error("CodecError should not match ErrMarshal")
	}
}

func TestCodecError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with cause",
			err:  NewCodecError(ErrUnmarshal, FormatYAML, errors.New("bad indent")),
			want: "yaml unmarshal failed: bad indent",
		},
		{
			name: "without cause",
			err:  NewCodecError(ErrMarshal, FormatTOML, nil),
			want: "toml marshal failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShapeError(t *testing.T) {
	err := NewShapeError(FormatCSV, KindString, KindSequence, KindMapping)

	if !errors.Is(err, ErrUnsupportedShape) {
		t.Error("ShapeError should unwrap to ErrUnsupportedShape")
	}

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("errors.As(*ShapeError) failed for %T", err)
	}
	if shapeErr.Got != KindString {
		t.Errorf("Got = %s, want %s", shapeErr.Got, KindString)
	}

	want := "unsupported content shape: csv requires sequence or mapping, got string"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindList(t *testing.T) {
	got := kindList([]Kind{KindInt, KindFloat, KindString})
	if got != "int, float or string" {
		t.Errorf("kindList() = %q", got)
	}
}
