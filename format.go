package interchange

import (
	"fmt"
	"strings"
)

// Format names a data-interchange format.
type Format string

const (
	// FormatJSON is JSON text.
	FormatJSON Format = "json"
	// FormatYAML is YAML text.
	FormatYAML Format = "yaml"
	// FormatXML is XML text.
	FormatXML Format = "xml"
	// FormatTOML is TOML text.
	FormatTOML Format = "toml"
	// FormatCSV is comma-separated values.
	FormatCSV Format = "csv"
	// FormatTable is a pipe-delimited text table.
	FormatTable Format = "table"
	// FormatProperties is Java .properties text.
	FormatProperties Format = "properties"
	// FormatQueryString is a URL query string with bracketed nesting.
	FormatQueryString Format = "querystring"
	// FormatPHPArray is a PHP array literal (short or array() syntax).
	FormatPHPArray Format = "php_array"
	// FormatPHPSerialize is PHP serialize() text.
	FormatPHPSerialize Format = "php_serialize"
	// FormatMsgpack is MessagePack, carried as hex text by the façade.
	FormatMsgpack Format = "msgpack"
	// FormatBSON is BSON, carried as hex text by the façade.
	FormatBSON Format = "bson"
)

// validFormats contains all known formats; the value marks binary formats.
var validFormats = map[Format]bool{
	FormatJSON:         false,
	FormatYAML:         false,
	FormatXML:          false,
	FormatTOML:         false,
	FormatCSV:          false,
	FormatTable:        false,
	FormatProperties:   false,
	FormatQueryString:  false,
	FormatPHPArray:     false,
	FormatPHPSerialize: false,
	FormatMsgpack:      true,
	FormatBSON:         true,
}

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	_, ok := validFormats[f]
	return !ok
}

// Binary reports whether f is a binary format.
func (f Format) Binary() bool {
	return validFormats[f]
}

// SupportedFormats returns every supported format name in a stable order.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatXML),
		string(FormatTOML),
		string(FormatCSV),
		string(FormatTable),
		string(FormatProperties),
		string(FormatQueryString),
		string(FormatPHPArray),
		string(FormatPHPSerialize),
		string(FormatMsgpack),
		string(FormatBSON),
	}
}

// ParseFormat maps a user-supplied name to a Format. Matching ignores case,
// and a few common aliases are accepted.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "yml":
		name = string(FormatYAML)
	case "query", "qs":
		name = string(FormatQueryString)
	case "php", "phparray":
		name = string(FormatPHPArray)
	case "phpserialize", "serialize":
		name = string(FormatPHPSerialize)
	}
	f := Format(name)
	if f.IsUnknown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}
