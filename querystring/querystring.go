// Package querystring provides a codec for URL query strings with bracketed
// nesting such as a[b][]=1.
//
// Parsing follows the conventions of the widely used qs library: nesting
// depth is limited, numeric indices above a limit become mapping keys,
// repeated keys collect into a sequence and sparse indices are compacted.
package querystring

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/zoobzio/interchange"
)

// Parsing limits.
const (
	// MaxDepth is the number of bracket segments parsed below a key. Deeper
	// segments are kept as one literal key.
	MaxDepth = 5

	// ArrayLimit is the highest numeric index treated as a sequence index.
	ArrayLimit = 20

	// ParameterLimit caps the number of pairs read from one query string.
	ParameterLimit = 1000
)

// querystringCodec implements interchange.Codec for query strings.
type querystringCodec struct{}

// New returns a query-string codec.
func New() interchange.Codec {
	return &querystringCodec{}
}

// Format returns interchange.FormatQueryString.
func (c *querystringCodec) Format() interchange.Format {
	return interchange.FormatQueryString
}

// Unmarshal parses a query string into a mapping. A leading "?" is ignored.
func (c *querystringCodec) Unmarshal(data []byte) (interchange.Value, error) {
	s := strings.TrimPrefix(strings.TrimSpace(string(data)), "?")

	// Collect values per raw key first so repeated keys combine.
	pending := newNode(kindObject)
	parts := strings.Split(s, "&")
	if len(parts) > ParameterLimit {
		parts = parts[:ParameterLimit]
	}
	for _, part := range parts {
		if part == "" {
			continue
		}
		pos := strings.Index(part, "]=")
		if pos == -1 {
			pos = strings.IndexByte(part, '=')
		} else {
			pos++
		}

		var key, val string
		if pos == -1 {
			key = decode(part)
		} else {
			key, val = decode(part[:pos]), decode(part[pos+1:])
		}
		if key == "" {
			continue
		}

		leaf := &node{kind: kindLeaf, leaf: interchange.String(val)}
		if existing, ok := pending.get(key); ok {
			pending.set(key, combine(existing, leaf))
		} else {
			pending.set(key, leaf)
		}
	}

	result := newNode(kindObject)
	for _, key := range pending.keys {
		segments := splitKey(key)
		if len(segments) == 0 {
			continue
		}
		val, _ := pending.get(key)
		result = merge(result, buildNode(segments, val))
	}
	return result.value(), nil
}

var bracketSegment = regexp.MustCompile(`\[[^\[\]]*\]`)

// splitKey splits a[b][c] into "a", "[b]", "[c]". Segments beyond MaxDepth
// are joined into a single trailing segment.
func splitKey(key string) []string {
	first := bracketSegment.FindStringIndex(key)
	if first == nil {
		return []string{key}
	}

	var segments []string
	if first[0] > 0 {
		segments = append(segments, key[:first[0]])
	}

	pos := first[0]
	for depth := 0; ; depth++ {
		loc := bracketSegment.FindStringIndex(key[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if depth == MaxDepth {
			segments = append(segments, "["+key[start:]+"]")
			break
		}
		segments = append(segments, key[start:end])
		pos = end
	}
	return segments
}

// buildNode wraps leaf in the containers described by segments, innermost
// last.
func buildNode(segments []string, leaf *node) *node {
	current := leaf
	for i := len(segments) - 1; i >= 0; i-- {
		root := segments[i]
		if root == "[]" {
			list := newNode(kindList)
			if current.kind == kindList {
				list = current
			} else {
				list.push(current)
			}
			current = list
			continue
		}

		clean := root
		if strings.HasPrefix(root, "[") && strings.HasSuffix(root, "]") {
			clean = root[1 : len(root)-1]
		}
		if idx, err := strconv.Atoi(clean); err == nil && clean != root && strconv.Itoa(idx) == clean && idx >= 0 && idx <= ArrayLimit {
			list := newNode(kindList)
			list.set(clean, current)
			current = list
			continue
		}
		obj := newNode(kindObject)
		obj.set(clean, current)
		current = obj
	}
	return current
}

func decode(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if out, err := url.PathUnescape(s); err == nil {
		return out
	}
	return s
}

// Marshal encodes a mapping or sequence as a query string with bracketed
// keys. Null values encode as empty values; empty containers are omitted.
func (c *querystringCodec) Marshal(v interchange.Value) ([]byte, error) {
	if !v.IsContainer() {
		return nil, interchange.NewShapeError(interchange.FormatQueryString, v.Kind(), interchange.KindMapping, interchange.KindSequence)
	}

	var pairs []string
	var walk func(prefix string, v interchange.Value)
	walk = func(prefix string, v interchange.Value) {
		switch v.Kind() {
		case interchange.KindMapping:
			for k, item := range v.Mapping().All() {
				walk(childKey(prefix, k), item)
			}
		case interchange.KindSequence:
			for i, item := range v.Items() {
				walk(childKey(prefix, strconv.Itoa(i)), item)
			}
		default:
			pairs = append(pairs, Escape(prefix)+"="+Escape(v.Scalar()))
		}
	}
	walk("", v)
	return []byte(strings.Join(pairs, "&")), nil
}

func childKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

// Escape percent-encodes s per RFC 3986, leaving only unreserved characters.
func Escape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_' || ch == '~' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&0x0f])
	}
	return b.String()
}

type nodeKind uint8

const (
	kindLeaf nodeKind = iota
	kindList
	kindObject
)

// node is the intermediate tree used while merging pairs. Lists are sparse
// and keyed by their decimal index until converted to a value.
type node struct {
	kind     nodeKind
	leaf     interchange.Value
	keys     []string
	children map[string]*node
}

func newNode(kind nodeKind) *node {
	return &node{kind: kind, children: make(map[string]*node)}
}

func (n *node) get(key string) (*node, bool) {
	child, ok := n.children[key]
	return child, ok
}

func (n *node) set(key string, child *node) {
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

func (n *node) push(child *node) {
	next := 0
	for _, k := range n.keys {
		if i, err := strconv.Atoi(k); err == nil && i >= next {
			next = i + 1
		}
	}
	n.set(strconv.Itoa(next), child)
}

// combine joins two values given for the same raw key.
func combine(a, b *node) *node {
	list := newNode(kindList)
	for _, n := range []*node{a, b} {
		if n.kind == kindList {
			for _, k := range n.sortedKeys() {
				list.push(n.children[k])
			}
			continue
		}
		list.push(n)
	}
	return list
}

// merge folds source into target.
func merge(target, source *node) *node {
	if source.kind == kindLeaf {
		switch target.kind {
		case kindList:
			target.push(source)
			return target
		case kindObject:
			if s, ok := source.leaf.AsString(); ok {
				target.set(s, &node{kind: kindLeaf, leaf: interchange.Bool(true)})
			}
			return target
		}
		return combine(target, source)
	}

	if target.kind == kindLeaf {
		list := newNode(kindList)
		list.push(target)
		if source.kind == kindList {
			for _, k := range source.sortedKeys() {
				list.push(source.children[k])
			}
		} else {
			list.push(source)
		}
		return list
	}

	if target.kind == kindList && source.kind == kindObject {
		target.kind = kindObject
	}

	if target.kind == kindList {
		for _, k := range source.sortedKeys() {
			item := source.children[k]
			existing, ok := target.get(k)
			switch {
			case !ok:
				target.set(k, item)
			case existing.kind != kindLeaf && item.kind != kindLeaf:
				target.set(k, merge(existing, item))
			default:
				target.push(item)
			}
		}
		return target
	}

	for _, k := range source.keys {
		item := source.children[k]
		if existing, ok := target.get(k); ok {
			target.set(k, merge(existing, item))
		} else {
			target.set(k, item)
		}
	}
	return target
}

// sortedKeys returns list indices in numeric order.
func (n *node) sortedKeys() []string {
	keys := append([]string(nil), n.keys...)
	sort.SliceStable(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

func (n *node) value() interchange.Value {
	switch n.kind {
	case kindLeaf:
		return n.leaf
	case kindList:
		keys := n.sortedKeys()
		items := make([]interchange.Value, len(keys))
		for i, k := range keys {
			items[i] = n.children[k].value()
		}
		return interchange.Sequence(items...)
	default:
		m := interchange.NewMapping()
		for _, k := range n.keys {
			m.Set(k, n.children[k].value())
		}
		return interchange.Map(m)
	}
}
