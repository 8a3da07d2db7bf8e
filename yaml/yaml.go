// Package yaml provides a YAML codec built on yaml.Node so mapping order
// survives a round trip.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/zoobzio/interchange"
	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias expansion so recursive anchors fail cleanly.
const maxAliasDepth = 100

// yamlCodec implements interchange.Codec for YAML.
type yamlCodec struct {
	indent int
}

// New returns a YAML codec that indents nested blocks by two spaces.
func New() interchange.Codec {
	return &yamlCodec{indent: 2}
}

// Format returns interchange.FormatYAML.
func (c *yamlCodec) Format() interchange.Format {
	return interchange.FormatYAML
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v interchange.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(toNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into a Value. Only the first document is read.
func (c *yamlCodec) Unmarshal(data []byte) (interchange.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return interchange.Value{}, err
	}
	if doc.Kind == 0 {
		return interchange.Null(), nil
	}
	return fromNode(&doc, 0)
}

func fromNode(n *yaml.Node, depth int) (interchange.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return interchange.Null(), nil
		}
		return fromNode(n.Content[0], depth)
	case yaml.AliasNode:
		if depth > maxAliasDepth {
			return interchange.Value{}, errors.New("alias nesting too deep")
		}
		return fromNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]interchange.Value, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromNode(child, depth)
			if err != nil {
				return interchange.Value{}, err
			}
			items = append(items, v)
		}
		return interchange.Sequence(items...), nil
	case yaml.MappingNode:
		m := interchange.NewMapping()
		if err := fillMapping(m, n, depth); err != nil {
			return interchange.Value{}, err
		}
		return interchange.Map(m), nil
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return interchange.Value{}, fmt.Errorf("unsupported YAML node kind %d at line %d", n.Kind, n.Line)
}

// fillMapping copies key/value pairs of n into m. Merge keys (<<) contribute
// entries that are not set explicitly.
func fillMapping(m *interchange.Mapping, n *yaml.Node, depth int) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind == yaml.ScalarNode && key.Tag == "!!merge" {
			merges = append(merges, val)
			continue
		}
		k, err := fromNode(key, depth)
		if err != nil {
			return err
		}
		v, err := fromNode(val, depth)
		if err != nil {
			return err
		}
		m.Set(k.Scalar(), v)
	}

	for _, merge := range merges {
		if merge.Kind == yaml.AliasNode {
			merge = merge.Alias
		}
		sources := []*yaml.Node{merge}
		if merge.Kind == yaml.SequenceNode {
			sources = merge.Content
		}
		for _, src := range sources {
			if src.Kind == yaml.AliasNode {
				src = src.Alias
			}
			if src.Kind != yaml.MappingNode {
				return fmt.Errorf("merge key at line %d does not reference a mapping", merge.Line)
			}
			inherited := interchange.NewMapping()
			if err := fillMapping(inherited, src, depth+1); err != nil {
				return err
			}
			for k, v := range inherited.All() {
				if !m.Has(k) {
					m.Set(k, v)
				}
			}
		}
	}
	return nil
}

func fromScalar(n *yaml.Node) (interchange.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return interchange.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return interchange.Value{}, err
		}
		return interchange.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return interchange.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return interchange.Value{}, err
		}
		return interchange.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return interchange.Value{}, err
		}
		return interchange.Float(f), nil
	case "!!timestamp":
		var ts time.Time
		if err := n.Decode(&ts); err == nil {
			return interchange.String(ts.Format(time.RFC3339Nano)), nil
		}
	}
	return interchange.String(n.Value), nil
}

func toNode(v interchange.Value) *yaml.Node {
	switch v.Kind() {
	case interchange.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case interchange.KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case interchange.KindInt:
		i, _ := v.AsInt()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}
	case interchange.KindFloat:
		f, _ := v.AsFloat()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(f)}
	case interchange.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case interchange.KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, toNode(item))
		}
		if len(n.Content) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n
	default:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, item := range v.Mapping().All() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				toNode(item),
			)
		}
		if len(n.Content) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		// keep the float tag visible to other parsers
		s += ".0"
	}
	return s
}
