// Package properties provides a Java .properties codec.
package properties

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/zoobzio/interchange"
)

// Options configures the properties codec.
type Options struct {
	// ConvertToJSONTree splits keys on "." and nests the values. Without it
	// the result is a flat mapping of the keys as written.
	ConvertToJSONTree bool
}

// propertiesCodec implements interchange.Codec for .properties files.
type propertiesCodec struct {
	opts Options
}

// New returns a properties codec producing a flat mapping.
func New() interchange.Codec {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a properties codec with custom options.
func NewWithOptions(opts Options) interchange.Codec {
	return &propertiesCodec{opts: opts}
}

// Format returns interchange.FormatProperties.
func (c *propertiesCodec) Format() interchange.Format {
	return interchange.FormatProperties
}

// Unmarshal decodes properties text. Keys keep file order and ${} references
// are left as written.
func (c *propertiesCodec) Unmarshal(data []byte) (interchange.Value, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return interchange.Value{}, err
	}

	m := interchange.NewMapping()
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		if c.opts.ConvertToJSONTree {
			setPath(m, key, strings.Split(key, "."), value)
		} else {
			m.Set(key, interchange.String(value))
		}
	}
	return interchange.Map(m), nil
}

// setPath nests value under path. When a segment is already taken by a
// scalar the remaining path is kept as a single dotted key.
func setPath(m *interchange.Mapping, key string, path []string, value string) {
	for i, seg := range path[:len(path)-1] {
		next, ok := m.Get(seg)
		if !ok {
			child := interchange.NewMapping()
			m.Set(seg, interchange.Map(child))
			m = child
			continue
		}
		if next.Kind() != interchange.KindMapping {
			m.Set(strings.Join(path[i:], "."), interchange.String(value))
			return
		}
		m = next.Mapping()
	}

	last := path[len(path)-1]
	if existing, ok := m.Get(last); ok && existing.Kind() == interchange.KindMapping {
		existing.Mapping().Set("", interchange.String(value))
		return
	}
	m.Set(last, interchange.String(value))
}

// Marshal flattens v into key = value lines. Nested keys join with "." and
// sequence elements use their index as a segment.
func (c *propertiesCodec) Marshal(v interchange.Value) ([]byte, error) {
	if !v.IsContainer() {
		return nil, interchange.NewShapeError(interchange.FormatProperties, v.Kind(), interchange.KindMapping, interchange.KindSequence)
	}

	p := properties.NewProperties()
	p.DisableExpansion = true
	if err := flatten(p, "", v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func flatten(p *properties.Properties, prefix string, v interchange.Value) error {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}
		return prefix + "." + seg
	}

	switch v.Kind() {
	case interchange.KindMapping:
		for k, item := range v.Mapping().All() {
			if err := flatten(p, join(k), item); err != nil {
				return err
			}
		}
	case interchange.KindSequence:
		for i, item := range v.Items() {
			if err := flatten(p, join(strconv.Itoa(i)), item); err != nil {
				return err
			}
		}
	default:
		if _, _, err := p.Set(prefix, v.Scalar()); err != nil {
			return err
		}
	}
	return nil
}
