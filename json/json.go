// Package json provides a JSON codec that preserves object key order.
package json

import (
	"errors"
	"fmt"
	"io"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/zoobzio/interchange"
)

// Options configures JSON output.
type Options struct {
	// Indent is the number of spaces per nesting level. Zero writes compact
	// output.
	Indent int
}

// DefaultIndent is the indentation used by New.
const DefaultIndent = 4

// jsonCodec implements interchange.Codec for JSON.
type jsonCodec struct {
	api jsoniter.API
}

// New returns a JSON codec that writes output indented by DefaultIndent.
func New() interchange.Codec {
	return NewWithOptions(Options{Indent: DefaultIndent})
}

// NewWithOptions returns a JSON codec with custom output options.
func NewWithOptions(opts Options) interchange.Codec {
	return &jsonCodec{
		api: jsoniter.Config{
			IndentionStep:          opts.Indent,
			EscapeHTML:             false,
			UseNumber:              true,
			ValidateJsonRawMessage: true,
		}.Froze(),
	}
}

// Compact returns a JSON codec that writes single-line output.
func Compact() interchange.Codec {
	return NewWithOptions(Options{})
}

// Format returns interchange.FormatJSON.
func (c *jsonCodec) Format() interchange.Format {
	return interchange.FormatJSON
}

// Marshal encodes v as JSON. Mapping keys keep their insertion order.
// NaN and infinities have no JSON form and are written as null.
func (c *jsonCodec) Marshal(v interchange.Value) ([]byte, error) {
	stream := c.api.BorrowStream(nil)
	defer c.api.ReturnStream(stream)

	writeValue(stream, v)
	if stream.Error != nil {
		return nil, stream.Error
	}

	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out, nil
}

// Unmarshal decodes JSON data into a Value. Input that ends inside a value
// is an error, as is any data after the top-level value.
func (c *jsonCodec) Unmarshal(data []byte) (interchange.Value, error) {
	iter := c.api.BorrowIterator(data)
	defer c.api.ReturnIterator(iter)

	if iter.WhatIsNext() == jsoniter.InvalidValue {
		if errors.Is(iter.Error, io.EOF) {
			return interchange.Value{}, io.ErrUnexpectedEOF
		}
		return interchange.Value{}, fmt.Errorf("invalid character at start of JSON input")
	}

	v, ok := readValue(iter)
	if !ok {
		if iter.Error == nil || errors.Is(iter.Error, io.EOF) {
			return interchange.Value{}, io.ErrUnexpectedEOF
		}
		return interchange.Value{}, iter.Error
	}
	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || !errors.Is(iter.Error, io.EOF) {
		return interchange.Value{}, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// readValue reads one complete value. It reports false when the input ends
// or breaks before the value is complete.
func readValue(iter *jsoniter.Iterator) (interchange.Value, bool) {
	var v interchange.Value
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		v = interchange.Null()
	case jsoniter.BoolValue:
		v = interchange.Bool(iter.ReadBool())
	case jsoniter.StringValue:
		v = interchange.String(iter.ReadString())
	case jsoniter.NumberValue:
		num := iter.ReadNumber()
		// a top-level number may end exactly at the end of input
		if errors.Is(iter.Error, io.EOF) && num != "" {
			iter.Error = nil
		}
		if iter.Error != nil {
			return interchange.Value{}, false
		}
		n, err := interchange.FromAny(num)
		if err != nil {
			iter.ReportError("readNumber", err.Error())
			return interchange.Value{}, false
		}
		v = n
	case jsoniter.ArrayValue:
		items := []interchange.Value{}
		complete := iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			item, ok := readValue(iter)
			if !ok {
				return false
			}
			items = append(items, item)
			return true
		})
		if !complete {
			return interchange.Value{}, false
		}
		v = interchange.Sequence(items...)
	case jsoniter.ObjectValue:
		m := interchange.NewMapping()
		complete := iter.ReadObjectCB(func(iter *jsoniter.Iterator, key string) bool {
			item, ok := readValue(iter)
			if !ok {
				return false
			}
			m.Set(key, item)
			return true
		})
		if !complete {
			return interchange.Value{}, false
		}
		v = interchange.Map(m)
	default:
		if iter.Error == nil {
			iter.ReportError("readValue", "expected JSON value")
		}
		return interchange.Value{}, false
	}
	if iter.Error != nil {
		return interchange.Value{}, false
	}
	return v, true
}

func writeValue(stream *jsoniter.Stream, v interchange.Value) {
	switch v.Kind() {
	case interchange.KindNull:
		stream.WriteNil()
	case interchange.KindBool:
		b, _ := v.AsBool()
		stream.WriteBool(b)
	case interchange.KindInt:
		i, _ := v.AsInt()
		stream.WriteInt64(i)
	case interchange.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			stream.WriteNil()
			return
		}
		stream.WriteFloat64(f)
	case interchange.KindString:
		s, _ := v.AsString()
		stream.WriteString(s)
	case interchange.KindSequence:
		items := v.Items()
		if len(items) == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i, item := range items {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, item)
		}
		stream.WriteArrayEnd()
	case interchange.KindMapping:
		m := v.Mapping()
		if m.Len() == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		i := 0
		for k, item := range m.All() {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(k)
			writeValue(stream, item)
			i++
		}
		stream.WriteObjectEnd()
	}
}
