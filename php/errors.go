package php

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTag indicates a serialize type tag outside N, b, i, d,
	// s, a and O.
	ErrUnsupportedTag = errors.New("unsupported PHP serialize type tag")

	// ErrTruncated indicates input that ends before the value is complete,
	// including string lengths that run past the end.
	ErrTruncated = errors.New("unexpected end of input")

	// ErrMalformed indicates a missing delimiter or an unreadable number.
	ErrMalformed = errors.New("malformed input")

	// ErrDepthExceeded indicates nesting deeper than MaxDepth.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrSyntax indicates an array literal that cannot be parsed.
	ErrSyntax = errors.New("invalid array literal")
)

// MaxDepth is the deepest container nesting either parser accepts.
const MaxDepth = 512

// SyntaxError records where parsing stopped.
type SyntaxError struct {
	Pos int    // byte offset into the input
	Msg string // description of the problem
	Err error  // one of the package sentinels
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxErr(sentinel error, pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...), Err: sentinel}
}
