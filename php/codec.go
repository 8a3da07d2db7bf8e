// Package php reads and writes the two PHP data dialects: array literals as
// printed by var_export, and serialize() text.
package php

import "github.com/zoobzio/interchange"

// arrayCodec implements interchange.Codec for PHP array literals.
type arrayCodec struct{}

// NewArrayCodec returns a codec for PHP array literals. Both array(...) and
// short [...] syntax are read; output uses short syntax.
func NewArrayCodec() interchange.Codec {
	return arrayCodec{}
}

// Format returns interchange.FormatPHPArray.
func (arrayCodec) Format() interchange.Format {
	return interchange.FormatPHPArray
}

// Marshal writes v as a short array literal.
func (arrayCodec) Marshal(v interchange.Value) ([]byte, error) {
	return []byte(FormatArrayLiteral(v)), nil
}

// Unmarshal converts legacy syntax and parses the literal.
func (arrayCodec) Unmarshal(data []byte) (interchange.Value, error) {
	return ParseArrayLiteral(ConvertArraySyntax(string(data)))
}

// serializeCodec implements interchange.Codec for serialize() text.
type serializeCodec struct {
	opts SerializeOptions
}

// NewSerializeCodec returns a codec for PHP serialize() text.
func NewSerializeCodec(opts SerializeOptions) interchange.Codec {
	return serializeCodec{opts: opts}
}

// Format returns interchange.FormatPHPSerialize.
func (serializeCodec) Format() interchange.Format {
	return interchange.FormatPHPSerialize
}

// Marshal encodes v in serialize() format.
func (c serializeCodec) Marshal(v interchange.Value) ([]byte, error) {
	return []byte(c.opts.Serialize(v)), nil
}

// Unmarshal decodes serialize() text.
func (c serializeCodec) Unmarshal(data []byte) (interchange.Value, error) {
	return c.opts.Unserialize(string(data))
}
