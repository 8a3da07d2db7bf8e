// Package bson provides a BSON codec that preserves document order.
package bson

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zoobzio/interchange"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// bsonCodec implements interchange.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() interchange.Codec {
	return &bsonCodec{}
}

// Format returns interchange.FormatBSON.
func (c *bsonCodec) Format() interchange.Format {
	return interchange.FormatBSON
}

// Marshal encodes a mapping as a BSON document. Integers that fit in 32 bits
// are written as int32.
func (c *bsonCodec) Marshal(v interchange.Value) ([]byte, error) {
	if v.Kind() != interchange.KindMapping {
		return nil, interchange.NewShapeError(interchange.FormatBSON, v.Kind(), interchange.KindMapping)
	}
	return bson.Marshal(toBSON(v))
}

func toBSON(v interchange.Value) any {
	switch v.Kind() {
	case interchange.KindMapping:
		d := make(bson.D, 0, v.Len())
		for k, item := range v.Mapping().All() {
			d = append(d, bson.E{Key: k, Value: toBSON(item)})
		}
		return d
	case interchange.KindSequence:
		a := make(bson.A, 0, v.Len())
		for _, item := range v.Items() {
			a = append(a, toBSON(item))
		}
		return a
	case interchange.KindInt:
		i, _ := v.AsInt()
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return int32(i)
		}
		return i
	default:
		return interchange.ToAny(v)
	}
}

// Unmarshal decodes one BSON document. The declared length must match the
// input exactly.
func (c *bsonCodec) Unmarshal(data []byte) (interchange.Value, error) {
	doc, rem, ok := bsoncore.ReadDocument(data)
	if !ok {
		return interchange.Value{}, errors.New("bson: truncated document")
	}
	if len(rem) > 0 {
		return interchange.Value{}, fmt.Errorf("bson: %d trailing bytes after document", len(rem))
	}

	var d bson.D
	if err := bson.Unmarshal(doc, &d); err != nil {
		return interchange.Value{}, err
	}
	return fromBSON(d)
}

func fromBSON(x any) (interchange.Value, error) {
	switch t := x.(type) {
	case bson.D:
		m := interchange.NewMapping()
		for _, e := range t {
			v, err := fromBSON(e.Value)
			if err != nil {
				return interchange.Value{}, err
			}
			m.Set(e.Key, v)
		}
		return interchange.Map(m), nil
	case bson.A:
		items := make([]interchange.Value, 0, len(t))
		for _, item := range t {
			v, err := fromBSON(item)
			if err != nil {
				return interchange.Value{}, err
			}
			items = append(items, v)
		}
		return interchange.Sequence(items...), nil
	case bson.M:
		return interchange.FromAny(map[string]any(t))
	case primitive.ObjectID:
		return interchange.String(t.Hex()), nil
	case primitive.DateTime:
		return interchange.String(t.Time().UTC().Format(time.RFC3339Nano)), nil
	case primitive.Binary:
		return interchange.String(hex.EncodeToString(t.Data)), nil
	case primitive.Decimal128:
		return interchange.String(t.String()), nil
	case primitive.Regex:
		return interchange.String("/" + t.Pattern + "/" + t.Options), nil
	case primitive.Timestamp:
		m := interchange.NewMapping()
		m.Set("t", interchange.Int(int64(t.T)))
		m.Set("i", interchange.Int(int64(t.I)))
		return interchange.Map(m), nil
	case primitive.JavaScript:
		return interchange.String(string(t)), nil
	case primitive.Symbol:
		return interchange.String(string(t)), nil
	case primitive.Undefined, primitive.Null:
		return interchange.Null(), nil
	case primitive.MinKey, primitive.MaxKey, primitive.DBPointer, primitive.CodeWithScope:
		return interchange.String(fmt.Sprint(t)), nil
	}
	return interchange.FromAny(x)
}
