package php

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zoobzio/interchange"
)

// ClassNameKey holds the class of a decoded O: object. It is always the
// first key of the mapping.
const ClassNameKey = "__className"

// SerializeOptions configures the serialize() codec.
type SerializeOptions struct {
	// ByteLengths measures s: lengths in UTF-8 bytes, as PHP itself does.
	// The default counts characters, which matches earlier output of this
	// tool but not PHP for non-ASCII strings.
	ByteLengths bool
}

// Serialize encodes v in PHP serialize() format with default options.
func Serialize(v interchange.Value) string {
	return SerializeOptions{}.Serialize(v)
}

// Unserialize decodes PHP serialize() text with default options.
func Unserialize(s string) (interchange.Value, error) {
	return SerializeOptions{}.Unserialize(s)
}

// Serialize encodes v. Sequences become arrays with integer keys, mappings
// become arrays with string keys, both in order.
func (o SerializeOptions) Serialize(v interchange.Value) string {
	var sb strings.Builder
	o.write(&sb, v)
	return sb.String()
}

func (o SerializeOptions) write(sb *strings.Builder, v interchange.Value) {
	switch v.Kind() {
	case interchange.KindNull:
		sb.WriteString("N;")
	case interchange.KindBool:
		if b, _ := v.AsBool(); b {
			sb.WriteString("b:1;")
		} else {
			sb.WriteString("b:0;")
		}
	case interchange.KindInt:
		i, _ := v.AsInt()
		sb.WriteString("i:")
		sb.WriteString(strconv.FormatInt(i, 10))
		sb.WriteByte(';')
	case interchange.KindFloat:
		f, _ := v.AsFloat()
		sb.WriteString("d:")
		sb.WriteString(formatFloat(f))
		sb.WriteByte(';')
	case interchange.KindString:
		s, _ := v.AsString()
		o.writeString(sb, s)
	case interchange.KindSequence:
		items := v.Items()
		sb.WriteString("a:")
		sb.WriteString(strconv.Itoa(len(items)))
		sb.WriteString(":{")
		for i, item := range items {
			sb.WriteString("i:")
			sb.WriteString(strconv.Itoa(i))
			sb.WriteByte(';')
			o.write(sb, item)
		}
		sb.WriteByte('}')
	case interchange.KindMapping:
		m := v.Mapping()
		sb.WriteString("a:")
		sb.WriteString(strconv.Itoa(m.Len()))
		sb.WriteString(":{")
		for k, item := range m.All() {
			o.writeString(sb, k)
			o.write(sb, item)
		}
		sb.WriteByte('}')
	}
}

func (o SerializeOptions) writeString(sb *strings.Builder, s string) {
	sb.WriteString("s:")
	sb.WriteString(strconv.Itoa(o.length(s)))
	sb.WriteString(`:"`)
	sb.WriteString(s)
	sb.WriteString(`";`)
}

func (o SerializeOptions) length(s string) int {
	if o.ByteLengths {
		return len(s)
	}
	return utf8.RuneCountInString(s)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	return interchange.FormatFloat(f)
}

// Unserialize decodes text produced by PHP serialize(). Arrays whose keys are
// exactly the integers 0..n-1 in order decode as sequences; other arrays and
// objects decode as mappings. Trailing input other than whitespace is an
// error.
func (o SerializeOptions) Unserialize(s string) (interchange.Value, error) {
	d := &decoder{src: s, byteLengths: o.ByteLengths}
	v, err := d.value(0)
	if err != nil {
		return interchange.Value{}, err
	}
	if rest := strings.TrimSpace(s[d.pos:]); rest != "" {
		return interchange.Value{}, syntaxErr(ErrMalformed, d.pos, "unexpected data after value")
	}
	return v, nil
}

// decoder reads one value from src. pos only moves forward.
type decoder struct {
	src         string
	pos         int
	byteLengths bool
}

func (d *decoder) value(depth int) (interchange.Value, error) {
	if d.pos >= len(d.src) {
		return interchange.Value{}, syntaxErr(ErrTruncated, d.pos, "expected value")
	}

	tag := d.src[d.pos]
	switch tag {
	case 'N':
		if err := d.expect("N;"); err != nil {
			return interchange.Value{}, err
		}
		return interchange.Null(), nil

	case 'b':
		if err := d.expect("b:"); err != nil {
			return interchange.Value{}, err
		}
		raw, err := d.until(';')
		if err != nil {
			return interchange.Value{}, err
		}
		switch raw {
		case "0":
			return interchange.Bool(false), nil
		case "1":
			return interchange.Bool(true), nil
		}
		return interchange.Value{}, syntaxErr(ErrMalformed, d.pos, "invalid boolean %q", raw)

	case 'i':
		if err := d.expect("i:"); err != nil {
			return interchange.Value{}, err
		}
		start := d.pos
		raw, err := d.until(';')
		if err != nil {
			return interchange.Value{}, err
		}
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return interchange.Int(i), nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil && isDecimal(raw) {
			return interchange.Float(f), nil
		}
		return interchange.Value{}, syntaxErr(ErrMalformed, start, "invalid integer %q", raw)

	case 'd':
		if err := d.expect("d:"); err != nil {
			return interchange.Value{}, err
		}
		start := d.pos
		raw, err := d.until(';')
		if err != nil {
			return interchange.Value{}, err
		}
		switch raw {
		case "NAN":
			return interchange.Float(math.NaN()), nil
		case "INF":
			return interchange.Float(math.Inf(1)), nil
		case "-INF":
			return interchange.Float(math.Inf(-1)), nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return interchange.Value{}, syntaxErr(ErrMalformed, start, "invalid float %q", raw)
		}
		return interchange.Float(f), nil

	case 's':
		if err := d.expect("s:"); err != nil {
			return interchange.Value{}, err
		}
		s, err := d.quoted(';')
		if err != nil {
			return interchange.Value{}, err
		}
		return interchange.String(s), nil

	case 'a':
		if depth >= MaxDepth {
			return interchange.Value{}, syntaxErr(ErrDepthExceeded, d.pos, "arrays nested deeper than %d", MaxDepth)
		}
		if err := d.expect("a:"); err != nil {
			return interchange.Value{}, err
		}
		size, err := d.count()
		if err != nil {
			return interchange.Value{}, err
		}
		if err := d.expect("{"); err != nil {
			return interchange.Value{}, err
		}
		return d.array(size, depth)

	case 'O':
		if depth >= MaxDepth {
			return interchange.Value{}, syntaxErr(ErrDepthExceeded, d.pos, "objects nested deeper than %d", MaxDepth)
		}
		if err := d.expect("O:"); err != nil {
			return interchange.Value{}, err
		}
		class, err := d.quoted(':')
		if err != nil {
			return interchange.Value{}, err
		}
		count, err := d.count()
		if err != nil {
			return interchange.Value{}, err
		}
		if err := d.expect("{"); err != nil {
			return interchange.Value{}, err
		}
		m := interchange.NewMapping()
		m.Set(ClassNameKey, interchange.String(class))
		if err := d.members(m, count, depth, nil); err != nil {
			return interchange.Value{}, err
		}
		return interchange.Map(m), nil
	}

	return interchange.Value{}, syntaxErr(ErrUnsupportedTag, d.pos, "unsupported PHP serialize type tag %q", tag)
}

// array reads size key/value pairs and the closing brace, promoting
// 0..n-1 integer keys to a sequence.
func (d *decoder) array(size, depth int) (interchange.Value, error) {
	m := interchange.NewMapping()
	list := size > 0
	if err := d.members(m, size, depth, &list); err != nil {
		return interchange.Value{}, err
	}
	if !list {
		return interchange.Map(m), nil
	}
	items := make([]interchange.Value, 0, m.Len())
	for _, v := range m.All() {
		items = append(items, v)
	}
	return interchange.Sequence(items...), nil
}

// members reads count pairs into m followed by "}". When list is non-nil it
// is cleared as soon as a key breaks the 0..n-1 sequence.
func (d *decoder) members(m *interchange.Mapping, count, depth int, list *bool) error {
	for i := range count {
		keyPos := d.pos
		key, err := d.value(depth + 1)
		if err != nil {
			return err
		}
		var name string
		switch key.Kind() {
		case interchange.KindInt:
			n, _ := key.AsInt()
			name = strconv.FormatInt(n, 10)
			if list != nil && n != int64(i) {
				*list = false
			}
		case interchange.KindString:
			name, _ = key.AsString()
			if list != nil {
				*list = false
			}
		default:
			return syntaxErr(ErrMalformed, keyPos, "array key must be an integer or string, got %s", key.Kind())
		}

		val, err := d.value(depth + 1)
		if err != nil {
			return err
		}
		m.Set(name, val)
	}
	return d.expect("}")
}

// quoted reads `<len>:"<chars>"` followed by term.
func (d *decoder) quoted(term byte) (string, error) {
	n, err := d.count()
	if err != nil {
		return "", err
	}
	if err := d.expect(`"`); err != nil {
		return "", err
	}

	start := d.pos
	end := start
	if d.byteLengths {
		end = start + n
		if end > len(d.src) {
			return "", syntaxErr(ErrTruncated, start, "string length %d exceeds remaining input", n)
		}
	} else {
		for range n {
			if end >= len(d.src) {
				return "", syntaxErr(ErrTruncated, start, "string length %d exceeds remaining input", n)
			}
			_, size := utf8.DecodeRuneInString(d.src[end:])
			end += size
		}
	}
	d.pos = end

	if err := d.expect(`"` + string(term)); err != nil {
		return "", err
	}
	return d.src[start:end], nil
}

// count reads a non-negative decimal followed by ":".
func (d *decoder) count() (int, error) {
	start := d.pos
	raw, err := d.until(':')
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || !isDecimal(raw) {
		return 0, syntaxErr(ErrMalformed, start, "invalid length %q", raw)
	}
	return n, nil
}

// until returns the text before the next delim and moves past the delim.
func (d *decoder) until(delim byte) (string, error) {
	i := strings.IndexByte(d.src[d.pos:], delim)
	if i < 0 {
		return "", syntaxErr(ErrTruncated, d.pos, "missing %q", delim)
	}
	raw := d.src[d.pos : d.pos+i]
	d.pos += i + 1
	return raw, nil
}

func (d *decoder) expect(tok string) error {
	if strings.HasPrefix(d.src[d.pos:], tok) {
		d.pos += len(tok)
		return nil
	}
	if len(d.src)-d.pos < len(tok) && strings.HasPrefix(tok, d.src[d.pos:]) {
		return syntaxErr(ErrTruncated, d.pos, "expected %q", tok)
	}
	return syntaxErr(ErrMalformed, d.pos, "expected %q", tok)
}

func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
