package php

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// arrayWindow bounds how far ahead the array( keyword match looks.
const arrayWindow = 20

type scanState uint8

const (
	stateScanning scanState = iota
	stateInString
	stateEscaped
)

// ConvertArraySyntax rewrites legacy array(...) literals into short [...]
// syntax. Text outside a literal is copied unchanged. Inside a literal,
// quoted strings are copied verbatim and parentheses are balanced on an
// explicit stack: the close of every array( becomes "]" while plain groups
// keep ")". Unbalanced input is not reported; the scan runs to the end and
// the result may be invalid.
func ConvertArraySyntax(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	// open holds one entry per unclosed paren; true marks an array(.
	var open []bool
	for i := 0; i < len(src); {
		n := matchArrayOpen(src, i)
		if n == 0 {
			out.WriteByte(src[i])
			i++
			continue
		}

		out.WriteByte('[')
		i += n

		open = append(open[:0], true)
		state := stateScanning
		var quote byte
		for i < len(src) && len(open) > 0 {
			ch := src[i]

			switch state {
			case stateEscaped:
				state = stateInString
				out.WriteByte(ch)
				i++
				continue
			case stateInString:
				switch ch {
				case '\\':
					state = stateEscaped
				case quote:
					state = stateScanning
				}
				out.WriteByte(ch)
				i++
				continue
			}

			if ch == '"' || ch == '\'' {
				quote = ch
				state = stateInString
				out.WriteByte(ch)
				i++
				continue
			}
			if n := matchArrayOpen(src, i); n > 0 {
				out.WriteByte('[')
				i += n
				open = append(open, true)
				continue
			}
			switch ch {
			case '(':
				open = append(open, false)
			case ')':
				isArray := open[len(open)-1]
				open = open[:len(open)-1]
				if isArray {
					out.WriteByte(']')
					i++
					continue
				}
			}
			out.WriteByte(ch)
			i++
		}
	}
	return out.String()
}

// matchArrayOpen returns the length of a case-insensitive "array", optional
// whitespace and "(" starting at src[i], or 0. A match that continues an
// identifier or variable name, as in in_array( or $array(, is not a literal.
func matchArrayOpen(src string, i int) int {
	if src[i] != 'a' && src[i] != 'A' {
		return 0
	}
	if i > 0 && isTranscodeIdentByte(src[i-1]) {
		return 0
	}
	window := src[i:min(i+arrayWindow, len(src))]
	if len(window) < len("array(") || !strings.EqualFold(window[:5], "array") {
		return 0
	}
	for j := 5; j < len(window); {
		r, size := utf8.DecodeRuneInString(window[j:])
		if r == '(' {
			return j + 1
		}
		if !unicode.IsSpace(r) {
			return 0
		}
		j += size
	}
	return 0
}

func isTranscodeIdentByte(b byte) bool {
	return b == '_' || b == '$' || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
