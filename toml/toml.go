// Package toml provides a TOML codec. Decoding keeps document key order.
// Encoding keeps mapping order within each table, except that plain keys are
// written before the table's sub-tables. Tables nested inline in arrays are
// written with sorted keys.
package toml

import (
	"bytes"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/zoobzio/interchange"
)

// tomlCodec implements interchange.Codec for TOML.
type tomlCodec struct{}

// New returns a TOML codec.
func New() interchange.Codec {
	return &tomlCodec{}
}

// Format returns interchange.FormatTOML.
func (c *tomlCodec) Format() interchange.Format {
	return interchange.FormatTOML
}

// Unmarshal decodes a TOML document into a mapping.
func (c *tomlCodec) Unmarshal(data []byte) (interchange.Value, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return interchange.Value{}, err
	}

	order := make(map[string]int)
	for i, key := range md.Keys() {
		p := strings.Join(key, "\x00")
		if _, ok := order[p]; !ok {
			order[p] = i
		}
	}

	return fromTOML(raw, nil, order), nil
}

func fromTOML(x any, path []string, order map[string]int) interchange.Value {
	switch t := x.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		prefix := strings.Join(path, "\x00")
		if prefix != "" {
			prefix += "\x00"
		}
		position := func(k string) int {
			if i, ok := order[prefix+k]; ok {
				return i
			}
			return math.MaxInt
		}
		sort.SliceStable(keys, func(i, j int) bool {
			pi, pj := position(keys[i]), position(keys[j])
			if pi != pj {
				return pi < pj
			}
			return keys[i] < keys[j]
		})

		m := interchange.NewMapping()
		for _, k := range keys {
			m.Set(k, fromTOML(t[k], append(path[:len(path):len(path)], k), order))
		}
		return interchange.Map(m)
	case []map[string]any:
		items := make([]interchange.Value, len(t))
		for i, item := range t {
			items[i] = fromTOML(item, path, order)
		}
		return interchange.Sequence(items...)
	case []any:
		items := make([]interchange.Value, len(t))
		for i, item := range t {
			items[i] = fromTOML(item, path, order)
		}
		return interchange.Sequence(items...)
	case time.Time:
		return interchange.String(formatTime(t))
	case int64:
		return interchange.Int(t)
	case float64:
		return interchange.Float(t)
	case bool:
		return interchange.Bool(t)
	case string:
		return interchange.String(t)
	}
	v, err := interchange.FromAny(x)
	if err != nil {
		return interchange.Null()
	}
	return v
}

// formatTime renders TOML date-times. Local date and time values carry
// marker locations and keep their partial form.
func formatTime(t time.Time) string {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}

// Marshal encodes a mapping as TOML. Null values have no TOML form and are
// dropped.
func (c *tomlCodec) Marshal(v interchange.Value) ([]byte, error) {
	if v.Kind() != interchange.KindMapping {
		return nil, interchange.NewShapeError(interchange.FormatTOML, v.Kind(), interchange.KindMapping)
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, nil, v.Mapping()); err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(buf.Bytes(), []byte("\n")), nil
}

// writeTable writes the plain keys of m, then its tables and arrays of
// tables under path. A key written after a header belongs to that header's
// table, so plain keys always come first.
func writeTable(buf *bytes.Buffer, path toml.Key, m *interchange.Mapping) error {
	var nested []string
	for k, item := range m.All() {
		switch {
		case item.IsNull():
		case item.Kind() == interchange.KindMapping, isTableArray(item):
			nested = append(nested, k)
		default:
			enc := toml.NewEncoder(buf)
			enc.Indent = ""
			if err := enc.Encode(map[string]any{k: toTOML(item)}); err != nil {
				return err
			}
		}
	}

	for _, k := range nested {
		item, _ := m.Get(k)
		child := append(path[:len(path):len(path)], k)
		if item.Kind() == interchange.KindMapping {
			buf.WriteString("\n[" + child.String() + "]\n")
			if err := writeTable(buf, child, item.Mapping()); err != nil {
				return err
			}
			continue
		}
		for _, elem := range item.Items() {
			if elem.IsNull() {
				continue
			}
			buf.WriteString("\n[[" + child.String() + "]]\n")
			if err := writeTable(buf, child, elem.Mapping()); err != nil {
				return err
			}
		}
	}
	return nil
}

// isTableArray reports whether v is a sequence of mappings, ignoring nulls.
func isTableArray(v interchange.Value) bool {
	if v.Kind() != interchange.KindSequence {
		return false
	}
	tables := 0
	for _, item := range v.Items() {
		switch item.Kind() {
		case interchange.KindNull:
		case interchange.KindMapping:
			tables++
		default:
			return false
		}
	}
	return tables > 0
}

func toTOML(v interchange.Value) any {
	switch v.Kind() {
	case interchange.KindMapping:
		out := make(map[string]any, v.Len())
		for k, item := range v.Mapping().All() {
			if item.IsNull() {
				continue
			}
			out[k] = toTOML(item)
		}
		return out
	case interchange.KindSequence:
		items := v.Items()
		allTables := len(items) > 0
		for _, item := range items {
			if item.Kind() != interchange.KindMapping {
				allTables = false
				break
			}
		}
		if allTables {
			tables := make([]map[string]any, len(items))
			for i, item := range items {
				tables[i] = toTOML(item).(map[string]any)
			}
			return tables
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			if item.IsNull() {
				continue
			}
			out = append(out, toTOML(item))
		}
		return out
	default:
		return interchange.ToAny(v)
	}
}
