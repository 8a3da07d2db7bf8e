package php

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zoobzio/interchange"
)

// ParseArrayLiteral reads a PHP value written in short array syntax, as
// printed by var_export or written in config files. An optional "<?php" tag,
// "return" or "$name =" prefix and a trailing ";" are accepted. Legacy
// array(...) syntax must be converted with ConvertArraySyntax first.
//
// Keys follow PHP rules: decimal-integer strings become integer keys and
// unkeyed elements take the next free index. Arrays keyed 0..n-1 in order
// decode as sequences.
func ParseArrayLiteral(src string) (interchange.Value, error) {
	p := &literalParser{src: src}
	p.skip()
	if p.consumeFold("<?php") {
		p.skip()
	}
	if p.consumeWord("return") {
		p.skip()
	} else if p.peek() == '$' {
		p.pos++
		p.ident()
		p.skip()
		if !p.consume("=") {
			return interchange.Value{}, p.errorf("expected \"=\" after variable")
		}
		p.skip()
	}

	v, err := p.value(0)
	if err != nil {
		return interchange.Value{}, err
	}

	p.skip()
	p.consume(";")
	p.skip()
	p.consume("?>")
	p.skip()
	if p.pos < len(p.src) {
		return interchange.Value{}, p.errorf("unexpected %q after value", p.src[p.pos])
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	sentinel := ErrSyntax
	if p.pos >= len(p.src) {
		sentinel = ErrTruncated
	}
	return syntaxErr(sentinel, p.pos, format, args...)
}

func (p *literalParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

// skip moves past whitespace and comments.
func (p *literalParser) skip() {
	for p.pos < len(p.src) {
		switch ch := p.src[p.pos]; {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v':
			p.pos++
		case ch == '#' || strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func (p *literalParser) consume(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *literalParser) consumeFold(tok string) bool {
	if len(p.src)-p.pos >= len(tok) && strings.EqualFold(p.src[p.pos:p.pos+len(tok)], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

// consumeWord matches a case-insensitive keyword not followed by an
// identifier character.
func (p *literalParser) consumeWord(word string) bool {
	start := p.pos
	if !p.consumeFold(word) {
		return false
	}
	if p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos = start
		return false
	}
	return true
}

func (p *literalParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9') || ch >= 0x80
}

func (p *literalParser) value(depth int) (interchange.Value, error) {
	p.skip()
	switch ch := p.peek(); {
	case ch == '[':
		if depth >= MaxDepth {
			return interchange.Value{}, syntaxErr(ErrDepthExceeded, p.pos, "arrays nested deeper than %d", MaxDepth)
		}
		p.pos++
		return p.array(depth)
	case ch == '\'':
		return p.singleQuoted()
	case ch == '"':
		return p.doubleQuoted()
	case ch == '-' || ch == '+' || ch == '.' || ('0' <= ch && ch <= '9'):
		return p.number()
	case isIdentByte(ch):
		start := p.pos
		word := p.ident()
		switch strings.ToLower(word) {
		case "null":
			return interchange.Null(), nil
		case "true":
			return interchange.Bool(true), nil
		case "false":
			return interchange.Bool(false), nil
		case "nan":
			return interchange.Float(math.NaN()), nil
		case "inf":
			return interchange.Float(math.Inf(1)), nil
		}
		p.pos = start
		return interchange.Value{}, p.errorf("unsupported constant %q", word)
	case ch == 0 && p.pos >= len(p.src):
		return interchange.Value{}, p.errorf("expected value")
	}
	return interchange.Value{}, p.errorf("unexpected %q", p.peek())
}

func (p *literalParser) array(depth int) (interchange.Value, error) {
	m := interchange.NewMapping()
	next := int64(0)

	for {
		p.skip()
		if p.consume("]") {
			break
		}

		elemPos := p.pos
		first, err := p.value(depth + 1)
		if err != nil {
			return interchange.Value{}, err
		}
		p.skip()

		var key string
		var val interchange.Value
		if p.consume("=>") {
			val, err = p.value(depth + 1)
			if err != nil {
				return interchange.Value{}, err
			}
			k, isInt, ok := arrayKey(first)
			if !ok {
				return interchange.Value{}, syntaxErr(ErrSyntax, elemPos, "illegal array key of kind %s", first.Kind())
			}
			key = k
			if isInt {
				n, _ := strconv.ParseInt(k, 10, 64)
				if n >= next {
					next = n + 1
				}
			}
		} else {
			key = strconv.FormatInt(next, 10)
			next++
			val = first
		}

		m.Set(key, val)

		p.skip()
		if p.consume(",") {
			continue
		}
		if p.consume("]") {
			break
		}
		return interchange.Value{}, p.errorf("expected \",\" or \"]\"")
	}

	return promote(m), nil
}

// promote returns m as a sequence when its keys are exactly "0".."n-1" in
// order. Empty arrays stay mappings.
func promote(m *interchange.Mapping) interchange.Value {
	if m.Len() == 0 {
		return interchange.Map(m)
	}
	items := make([]interchange.Value, 0, m.Len())
	i := 0
	for k, v := range m.All() {
		if k != strconv.Itoa(i) {
			return interchange.Map(m)
		}
		items = append(items, v)
		i++
	}
	return interchange.Sequence(items...)
}

// arrayKey casts a key the way PHP does. It reports whether the key is an
// integer and whether the kind is usable as a key at all.
func arrayKey(v interchange.Value) (key string, isInt, ok bool) {
	switch v.Kind() {
	case interchange.KindInt:
		n, _ := v.AsInt()
		return strconv.FormatInt(n, 10), true, true
	case interchange.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatInt(int64(f), 10), true, true
	case interchange.KindBool:
		if b, _ := v.AsBool(); b {
			return "1", true, true
		}
		return "0", true, true
	case interchange.KindNull:
		return "", false, true
	case interchange.KindString:
		s, _ := v.AsString()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
			return s, true, true
		}
		return s, false, true
	}
	return "", false, false
}

func (p *literalParser) singleQuoted() (interchange.Value, error) {
	start := p.pos
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		switch {
		case ch == '\'':
			p.pos++
			return interchange.String(sb.String()), nil
		case ch == '\\' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '\'' || p.src[p.pos+1] == '\\'):
			sb.WriteByte(p.src[p.pos+1])
			p.pos += 2
		default:
			sb.WriteByte(ch)
			p.pos++
		}
	}
	return interchange.Value{}, syntaxErr(ErrTruncated, start, "unterminated string")
}

func (p *literalParser) doubleQuoted() (interchange.Value, error) {
	start := p.pos
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch == '"' {
			p.pos++
			return interchange.String(sb.String()), nil
		}
		if ch != '\\' || p.pos+1 >= len(p.src) {
			sb.WriteByte(ch)
			p.pos++
			continue
		}

		esc := p.src[p.pos+1]
		p.pos += 2
		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'v':
			sb.WriteByte('\v')
		case 'e':
			sb.WriteByte(0x1b)
		case 'f':
			sb.WriteByte('\f')
		case '\\', '$', '"':
			sb.WriteByte(esc)
		case 'x':
			n := p.digits(2, isHexByte)
			if n == "" {
				sb.WriteString(`\x`)
				continue
			}
			b, _ := strconv.ParseUint(n, 16, 8)
			sb.WriteByte(byte(b))
		case 'u':
			if p.peek() != '{' {
				sb.WriteString(`\u`)
				continue
			}
			end := strings.IndexByte(p.src[p.pos:], '}')
			if end < 0 {
				return interchange.Value{}, syntaxErr(ErrSyntax, p.pos, "unterminated unicode escape")
			}
			cp, err := strconv.ParseUint(p.src[p.pos+1:p.pos+end], 16, 32)
			if err != nil || !utf8.ValidRune(rune(cp)) {
				return interchange.Value{}, syntaxErr(ErrSyntax, p.pos, "invalid unicode escape")
			}
			sb.WriteRune(rune(cp))
			p.pos += end + 1
		default:
			if '0' <= esc && esc <= '7' {
				p.pos--
				n := p.digits(3, func(c byte) bool { return '0' <= c && c <= '7' })
				b, _ := strconv.ParseUint(n, 8, 16)
				sb.WriteByte(byte(b))
				continue
			}
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
	return interchange.Value{}, syntaxErr(ErrTruncated, start, "unterminated string")
}

func (p *literalParser) digits(limit int, accept func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.src) && p.pos-start < limit && accept(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isHexByte(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func (p *literalParser) number() (interchange.Value, error) {
	start := p.pos
	neg := false
	if ch := p.peek(); ch == '-' || ch == '+' {
		neg = ch == '-'
		p.pos++
		p.skip()
	}
	// INF and NAN may carry a sign.
	if p.consumeWord("INF") {
		if neg {
			return interchange.Float(math.Inf(-1)), nil
		}
		return interchange.Float(math.Inf(1)), nil
	}

	bodyStart := p.pos
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if isHexByte(ch) || ch == '.' || ch == '_' || ch == 'x' || ch == 'X' || ch == 'o' || ch == 'O' ||
			((ch == '+' || ch == '-') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	body := strings.ReplaceAll(p.src[bodyStart:p.pos], "_", "")
	if body == "" {
		p.pos = start
		return interchange.Value{}, p.errorf("invalid number")
	}

	sign := ""
	if neg {
		sign = "-"
	}
	lower := strings.ToLower(body)
	base := 10
	digits := lower
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, lower[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, lower[2:]
	case len(lower) > 1 && lower[0] == '0' && !strings.ContainsAny(lower, ".e"):
		base, digits = 8, lower[1:]
	}

	if base != 10 || !strings.ContainsAny(lower, ".e") {
		if n, err := strconv.ParseInt(sign+digits, base, 64); err == nil {
			return interchange.Int(n), nil
		}
		if base != 10 {
			if u, err := strconv.ParseUint(digits, base, 64); err == nil {
				f := float64(u)
				if neg {
					f = -f
				}
				return interchange.Float(f), nil
			}
			return interchange.Value{}, syntaxErr(ErrSyntax, start, "invalid number %q", p.src[start:p.pos])
		}
	}
	f, err := strconv.ParseFloat(sign+lower, 64)
	if err != nil {
		return interchange.Value{}, syntaxErr(ErrSyntax, start, "invalid number %q", p.src[start:p.pos])
	}
	return interchange.Float(f), nil
}

// FormatArrayLiteral writes v in short array syntax with four-space
// indentation. Sequences omit their keys.
func FormatArrayLiteral(v interchange.Value) string {
	var sb strings.Builder
	writeLiteral(&sb, v, 0)
	return sb.String()
}

func writeLiteral(sb *strings.Builder, v interchange.Value, indent int) {
	switch v.Kind() {
	case interchange.KindNull:
		sb.WriteString("null")
	case interchange.KindBool:
		b, _ := v.AsBool()
		sb.WriteString(strconv.FormatBool(b))
	case interchange.KindInt:
		i, _ := v.AsInt()
		sb.WriteString(strconv.FormatInt(i, 10))
	case interchange.KindFloat:
		f, _ := v.AsFloat()
		s := formatFloat(f)
		if !strings.ContainsAny(s, ".eEN") {
			s += ".0"
		}
		sb.WriteString(s)
	case interchange.KindString:
		s, _ := v.AsString()
		sb.WriteString(quoteSingle(s))
	case interchange.KindSequence, interchange.KindMapping:
		if v.Len() == 0 {
			sb.WriteString("[]")
			return
		}
		pad := strings.Repeat("    ", indent+1)
		sb.WriteString("[\n")
		if v.Kind() == interchange.KindSequence {
			for _, item := range v.Items() {
				sb.WriteString(pad)
				writeLiteral(sb, item, indent+1)
				sb.WriteString(",\n")
			}
		} else {
			for k, item := range v.Mapping().All() {
				sb.WriteString(pad)
				if _, isInt, _ := arrayKey(interchange.String(k)); isInt {
					sb.WriteString(k)
				} else {
					sb.WriteString(quoteSingle(k))
				}
				sb.WriteString(" => ")
				writeLiteral(sb, item, indent+1)
				sb.WriteString(",\n")
			}
		}
		sb.WriteString(strings.Repeat("    ", indent))
		sb.WriteByte(']')
	}
}

func quoteSingle(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
