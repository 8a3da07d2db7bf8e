// Package xml provides an XML codec that maps elements to ordered mappings.
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zoobzio/interchange"
)

// DefaultTextKey holds element text when the element also has attributes or
// children.
const DefaultTextKey = "#text"

// Options configures the XML codec.
type Options struct {
	// AttributePrefix is prepended to attribute names on decode. On encode,
	// scalar mapping entries whose key starts with a non-empty prefix are
	// written as attributes.
	AttributePrefix string

	// TextKey names the entry holding mixed element text. Empty uses
	// DefaultTextKey.
	TextKey string

	// Indent is the per-level indentation of encoded output. Empty uses two
	// spaces.
	Indent string
}

// xmlCodec implements interchange.Codec for XML.
type xmlCodec struct {
	opts Options
}

// New returns an XML codec with default options.
func New() interchange.Codec {
	return NewWithOptions(Options{})
}

// NewWithOptions returns an XML codec with custom options.
func NewWithOptions(opts Options) interchange.Codec {
	if opts.TextKey == "" {
		opts.TextKey = DefaultTextKey
	}
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return &xmlCodec{opts: opts}
}

// Format returns interchange.FormatXML.
func (c *xmlCodec) Format() interchange.Format {
	return interchange.FormatXML
}

// Unmarshal decodes an XML document into a mapping keyed by the root element.
func (c *xmlCodec) Unmarshal(data []byte) (interchange.Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var root *interchange.Mapping
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return interchange.Value{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return interchange.Value{}, fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
			}
			v, err := c.readElement(dec, t)
			if err != nil {
				return interchange.Value{}, err
			}
			root = interchange.NewMapping()
			root.Set(t.Name.Local, v)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 && root == nil {
				return interchange.Value{}, errors.New("text outside of root element")
			}
		}
	}
	if root == nil {
		return interchange.Value{}, errors.New("XML document has no root element")
	}
	return interchange.Map(root), nil
}

// readElement consumes tokens up to the matching end element.
func (c *xmlCodec) readElement(dec *xml.Decoder, start xml.StartElement) (interchange.Value, error) {
	m := interchange.NewMapping()
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		m.Set(c.opts.AttributePrefix+attr.Name.Local, interchange.String(attr.Value))
	}

	var text strings.Builder
	children := false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return interchange.Value{}, io.ErrUnexpectedEOF
			}
			return interchange.Value{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := c.readElement(dec, t)
			if err != nil {
				return interchange.Value{}, err
			}
			appendChild(m, t.Name.Local, child)
			children = true
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			body := strings.TrimSpace(text.String())
			if m.Len() == 0 && !children {
				return interchange.String(body), nil
			}
			if body != "" {
				m.Set(c.opts.TextKey, interchange.String(body))
			}
			return interchange.Map(m), nil
		}
	}
}

// appendChild adds a child element value, turning repeated names into a
// sequence. Element values are never sequences themselves, so an existing
// sequence always comes from an earlier repetition.
func appendChild(m *interchange.Mapping, name string, child interchange.Value) {
	existing, ok := m.Get(name)
	if !ok {
		m.Set(name, child)
		return
	}
	if existing.Kind() == interchange.KindSequence {
		m.Set(name, interchange.Sequence(append(existing.Items(), child)...))
		return
	}
	m.Set(name, interchange.Sequence(existing, child))
}

// Marshal encodes v as XML. A mapping with a single entry names the root
// element; anything else is wrapped in <root>.
func (c *xmlCodec) Marshal(v interchange.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", c.opts.Indent)

	var err error
	if m := v.Mapping(); v.Kind() == interchange.KindMapping && m.Len() == 1 {
		name := m.Keys()[0]
		root, _ := m.Get(name)
		if root.Kind() == interchange.KindSequence {
			err = c.writeElement(enc, "root", v)
		} else {
			err = c.writeElement(enc, name, root)
		}
	} else {
		err = c.writeElement(enc, "root", v)
	}
	if err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *xmlCodec) writeElement(enc *xml.Encoder, name string, v interchange.Value) error {
	start := xml.StartElement{Name: xml.Name{Local: elementName(name)}}

	switch v.Kind() {
	case interchange.KindSequence:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, item := range v.Items() {
			if err := c.writeElement(enc, "item", item); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())

	case interchange.KindMapping:
		var text string
		var children []string
		for k, item := range v.Mapping().All() {
			switch {
			case k == c.opts.TextKey && !item.IsContainer():
				text = item.Scalar()
			case c.opts.AttributePrefix != "" && strings.HasPrefix(k, c.opts.AttributePrefix) && !item.IsContainer():
				start.Attr = append(start.Attr, xml.Attr{
					Name:  xml.Name{Local: strings.TrimPrefix(k, c.opts.AttributePrefix)},
					Value: item.Scalar(),
				})
			default:
				children = append(children, k)
			}
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if text != "" {
			if err := enc.EncodeToken(xml.CharData(text)); err != nil {
				return err
			}
		}
		for _, k := range children {
			item, _ := v.Mapping().Get(k)
			if item.Kind() == interchange.KindSequence {
				// repeated sibling elements
				for _, elem := range item.Items() {
					if err := c.writeElement(enc, k, elem); err != nil {
						return err
					}
				}
				continue
			}
			if err := c.writeElement(enc, k, item); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())

	default:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if s := v.Scalar(); s != "" {
			if err := enc.EncodeToken(xml.CharData(s)); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	}
}

// elementName maps a mapping key to a usable element name.
func elementName(key string) string {
	if key == "" {
		return "item"
	}
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || r == ':' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 0x7f:
			b.WriteRune(r)
		case i > 0 && (r == '-' || r == '.' || ('0' <= r && r <= '9')):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
