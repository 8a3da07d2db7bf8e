// Package hexstr reads hex text as typed or pasted by a user.
package hexstr

import (
	"encoding/hex"
	"strings"
	"unicode"
)

// Clean removes all whitespace and lowercases s.
func Clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Decode cleans s, drops "0x" prefixes on the whole text or on
// space-separated groups, and decodes it strictly.
func Decode(s string) ([]byte, error) {
	fields := strings.Fields(s)
	for i, f := range fields {
		f = strings.ToLower(f)
		fields[i] = strings.TrimPrefix(f, "0x")
	}
	return hex.DecodeString(strings.Join(fields, ""))
}

// DecodePrefix decodes cleaned hex text up to the first pair that is not
// valid hex. A trailing odd digit is ignored.
func DecodePrefix(cleaned string) []byte {
	out := make([]byte, 0, len(cleaned)/2)
	var pair [1]byte
	for i := 0; i+1 < len(cleaned); i += 2 {
		if _, err := hex.Decode(pair[:], []byte(cleaned[i:i+2])); err != nil {
			break
		}
		out = append(out, pair[0])
	}
	return out
}
