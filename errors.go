package interchange

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnmarshal indicates a codec failed to decode input text.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates a codec failed to encode a value.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnsupportedShape indicates a value parsed fine but has the wrong
	// shape for the requested output.
	ErrUnsupportedShape = errors.New("unsupported content shape")

	// ErrUnknownFormat indicates a format name that has no codec.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrNotContainer indicates decoded content is neither a sequence nor a
	// mapping.
	ErrNotContainer = errors.New("input parse fail")

	// ErrUnsupportedType indicates a Go value that has no canonical
	// representation (channels, funcs, complex numbers).
	ErrUnsupportedType = errors.New("unsupported type")
)

// CodecError represents a marshal/unmarshal error of one format.
type CodecError struct {
	Err    error  // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Format Format // Format whose codec failed
	Cause  error  // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Format, e.Err.Error(), e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Format, e.Err.Error())
}

func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// ShapeError reports a value of the wrong kind for an output format.
type ShapeError struct {
	Format Format // Output format that rejected the value
	Want   []Kind // Accepted kinds
	Got    Kind   // Kind that was supplied
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s requires %s, got %s",
		ErrUnsupportedShape.Error(), e.Format, kindList(e.Want), e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

// NewCodecError creates a CodecError for marshal/unmarshal failures.
func NewCodecError(sentinel error, format Format, cause error) error {
	return &CodecError{
		Err:    sentinel,
		Format: format,
		Cause:  cause,
	}
}

// NewShapeError creates a ShapeError for the given format.
func NewShapeError(format Format, got Kind, want ...Kind) error {
	return &ShapeError{
		Format: format,
		Want:   want,
		Got:    got,
	}
}

func kindList(kinds []Kind) string {
	switch len(kinds) {
	case 0:
		return "a different value"
	case 1:
		return kinds[0].String()
	}
	s := ""
	for i, k := range kinds {
		switch {
		case i == 0:
		case i == len(kinds)-1:
			s += " or "
		default:
			s += ", "
		}
		s += k.String()
	}
	return s
}
