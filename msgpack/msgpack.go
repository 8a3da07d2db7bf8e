// Package msgpack provides a MessagePack codec that preserves map order.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/interchange"
)

// maxDepth bounds container nesting on decode.
const maxDepth = 512

// msgpackCodec implements interchange.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() interchange.Codec {
	return &msgpackCodec{}
}

// Format returns interchange.FormatMsgpack.
func (c *msgpackCodec) Format() interchange.Format {
	return interchange.FormatMsgpack
}

// Marshal encodes v as MessagePack. Integers use the most compact encoding
// and maps are written in key order.
func (c *msgpackCodec) Marshal(v interchange.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encode(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(enc *msgpack.Encoder, v interchange.Value) error {
	switch v.Kind() {
	case interchange.KindNull:
		return enc.EncodeNil()
	case interchange.KindBool:
		b, _ := v.AsBool()
		return enc.EncodeBool(b)
	case interchange.KindInt:
		i, _ := v.AsInt()
		return enc.EncodeInt(i)
	case interchange.KindFloat:
		f, _ := v.AsFloat()
		return enc.EncodeFloat64(f)
	case interchange.KindString:
		s, _ := v.AsString()
		return enc.EncodeString(s)
	case interchange.KindSequence:
		if err := enc.EncodeArrayLen(v.Len()); err != nil {
			return err
		}
		for _, item := range v.Items() {
			if err := encode(enc, item); err != nil {
				return err
			}
		}
		return nil
	default:
		if err := enc.EncodeMapLen(v.Len()); err != nil {
			return err
		}
		for k, item := range v.Mapping().All() {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encode(enc, item); err != nil {
				return err
			}
		}
		return nil
	}
}

// Unmarshal decodes a single MessagePack value. Trailing bytes are an error.
func (c *msgpackCodec) Unmarshal(data []byte) (interchange.Value, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)

	v, err := decode(dec, 0)
	if err != nil {
		return interchange.Value{}, err
	}
	if r.Len() > 0 {
		return interchange.Value{}, fmt.Errorf("msgpack: %d trailing bytes after value", r.Len())
	}
	return v, nil
}

func decode(dec *msgpack.Decoder, depth int) (interchange.Value, error) {
	if depth > maxDepth {
		return interchange.Value{}, errors.New("msgpack: nesting too deep")
	}

	code, err := dec.PeekCode()
	if err != nil {
		return interchange.Value{}, err
	}

	switch {
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return interchange.Value{}, err
		}
		m := interchange.NewMapping()
		for range n {
			key, err := decode(dec, depth+1)
			if err != nil {
				return interchange.Value{}, err
			}
			val, err := decode(dec, depth+1)
			if err != nil {
				return interchange.Value{}, err
			}
			m.Set(key.Scalar(), val)
		}
		return interchange.Map(m), nil

	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return interchange.Value{}, err
		}
		items := make([]interchange.Value, 0, n)
		for range n {
			item, err := decode(dec, depth+1)
			if err != nil {
				return interchange.Value{}, err
			}
			items = append(items, item)
		}
		return interchange.Sequence(items...), nil
	}

	x, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return interchange.Value{}, err
	}
	return interchange.FromAny(x)
}
