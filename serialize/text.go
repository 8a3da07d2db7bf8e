package serialize

import (
	"strings"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/json"
)

// FormatText names the plain-text list output of ToText in shape errors.
const FormatText interchange.Format = "text"

// DefaultDelimiter separates ToText items when none is set.
const DefaultDelimiter = `,\n`

// TextOptions configures ToText.
type TextOptions struct {
	// Delimiter joins the items. A literal `\n` becomes a newline. Empty
	// uses DefaultDelimiter.
	Delimiter string

	// Quote wraps every item in double quotes.
	Quote bool
}

// ToText joins the items of a sequence into one string. Empty content
// yields "". Any other non-sequence content is a shape error. Null items
// render as "null" and containers as compact JSON.
func (d *Document) ToText(opts TextOptions) (string, error) {
	if d.content.IsEmpty() {
		return "", nil
	}
	if d.content.Kind() != interchange.KindSequence {
		return "", interchange.NewShapeError(FormatText, d.content.Kind(), interchange.KindSequence)
	}

	delim := opts.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}
	delim = strings.ReplaceAll(delim, `\n`, "\n")

	compact := json.Compact()
	parts := make([]string, 0, d.content.Len())
	for _, item := range d.content.Items() {
		var s string
		switch {
		case item.IsNull():
			s = "null"
		case item.IsContainer():
			data, err := compact.Marshal(item)
			if err != nil {
				return "", interchange.NewCodecError(interchange.ErrMarshal, FormatText, err)
			}
			s = string(data)
		default:
			s = item.Scalar()
		}
		if opts.Quote {
			s = `"` + s + `"`
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, delim), nil
}
