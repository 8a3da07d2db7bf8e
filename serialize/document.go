package serialize

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/csv"
	"github.com/zoobzio/interchange/internal/hexstr"
	"github.com/zoobzio/interchange/json"
	"github.com/zoobzio/interchange/properties"
	"github.com/zoobzio/interchange/table"
	"github.com/zoobzio/interchange/xml"
)

// Document holds either parsed content or the error that prevented parsing.
// An error document's content is an empty mapping.
type Document struct {
	content interchange.Value
	err     error
}

// Empty returns a document with an empty mapping and no error.
func Empty() *Document {
	return &Document{content: interchange.Map(interchange.NewMapping())}
}

// FromError returns an error document with msg as its message.
func FromError(msg string) *Document {
	return failed(context.Background(), "", &messageError{msg: msg})
}

// FromValue wraps v. Scalars fail with interchange.ErrNotContainer.
func FromValue(v interchange.Value) *Document {
	return accept(context.Background(), "", v.Clone())
}

// FromObject converts a Go value with interchange.FromAny.
func FromObject(x any) *Document {
	v, err := interchange.FromAny(x)
	if err != nil {
		return failed(context.Background(), "", err)
	}
	return accept(context.Background(), "", v)
}

// From parses text with the registered codec for format.
func From(format interchange.Format, text string) *Document {
	codec, err := Use(format)
	if err != nil {
		return failed(context.Background(), format, err)
	}
	return Decode(context.Background(), codec, text)
}

// Decode parses text with codec. Binary formats expect hex text.
func Decode(ctx context.Context, codec interchange.Codec, text string) *Document {
	format := codec.Format()
	data := []byte(text)
	if format.Binary() {
		raw, err := hexstr.Decode(text)
		if err != nil {
			err = interchange.NewCodecError(interchange.ErrUnmarshal, format, err)
			emitDecodeComplete(ctx, format, len(text), 0, err)
			return failed(ctx, format, err)
		}
		data = raw
	}

	start := time.Now()
	v, err := codec.Unmarshal(data)
	if err != nil {
		err = interchange.NewCodecError(interchange.ErrUnmarshal, format, err)
	}
	emitDecodeComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return failed(ctx, format, err)
	}
	return accept(ctx, format, v)
}

// FromJSON parses JSON text.
func FromJSON(text string) *Document {
	return From(interchange.FormatJSON, text)
}

// FromYAML parses YAML text.
func FromYAML(text string) *Document {
	return From(interchange.FormatYAML, text)
}

// FromXML parses XML text.
func FromXML(text string, opts xml.Options) *Document {
	return Decode(context.Background(), xml.NewWithOptions(opts), text)
}

// FromTOML parses TOML text.
func FromTOML(text string) *Document {
	return From(interchange.FormatTOML, text)
}

// FromCSV parses CSV text into the shape named by opts.Type.
func FromCSV(text string, opts csv.Options) *Document {
	return Decode(context.Background(), csv.NewWithOptions(opts), text)
}

// FromTable parses a pipe-delimited text table.
func FromTable(text string, opts table.Options) *Document {
	return Decode(context.Background(), table.NewWithOptions(opts), text)
}

// FromProperties parses .properties text.
func FromProperties(text string, opts properties.Options) *Document {
	return Decode(context.Background(), properties.NewWithOptions(opts), text)
}

// FromQueryString parses a URL query string with bracketed nesting.
func FromQueryString(text string) *Document {
	return From(interchange.FormatQueryString, text)
}

// FromPHPArray parses a PHP array literal in either syntax.
func FromPHPArray(text string) *Document {
	return From(interchange.FormatPHPArray, text)
}

// FromPHPSerialize parses PHP serialize() text.
func FromPHPSerialize(text string) *Document {
	return From(interchange.FormatPHPSerialize, text)
}

// FromMsgpack parses hex-encoded MessagePack.
func FromMsgpack(hexText string) *Document {
	return From(interchange.FormatMsgpack, hexText)
}

// FromBSON parses a hex-encoded BSON document.
func FromBSON(hexText string) *Document {
	return From(interchange.FormatBSON, hexText)
}

func accept(ctx context.Context, format interchange.Format, v interchange.Value) *Document {
	if !v.IsContainer() {
		return failed(ctx, format, interchange.ErrNotContainer)
	}
	return &Document{content: v}
}

func failed(ctx context.Context, format interchange.Format, err error) *Document {
	emitDocumentFailed(ctx, format, err)
	return &Document{
		content: interchange.Map(interchange.NewMapping()),
		err:     err,
	}
}

// messageError carries a caller-supplied failure message.
type messageError struct {
	msg string
}

func (e *messageError) Error() string { return e.msg }

// Content returns a deep copy of the document content.
func (d *Document) Content() interchange.Value {
	return d.content.Clone()
}

// IsError reports whether the document failed to parse.
func (d *Document) IsError() bool {
	return d.err != nil
}

// Err returns the parse error, or nil.
func (d *Document) Err() error {
	return d.err
}

// ErrorMessage returns the parse error text, or "".
func (d *Document) ErrorMessage() string {
	if d.err == nil {
		return ""
	}
	return d.err.Error()
}

// IsEmpty reports whether the content has no entries.
func (d *Document) IsEmpty() bool {
	return d.content.IsEmpty()
}

// Fingerprint returns the BLAKE2b-256 digest of the content as compact JSON.
func (d *Document) Fingerprint() string {
	sum, err := d.FingerprintWith(Blake2b())
	if err != nil {
		return ""
	}
	return sum
}

// FingerprintWith digests the content as compact JSON with h. Documents
// with equal content and key order share a fingerprint.
func (d *Document) FingerprintWith(h Hasher) (string, error) {
	data, err := json.Compact().Marshal(d.content)
	if err != nil {
		return "", interchange.NewCodecError(interchange.ErrMarshal, interchange.FormatJSON, err)
	}
	return h.Hash(data)
}

// Encode writes the content with codec. Binary formats are returned as
// lowercase hex.
func (d *Document) Encode(ctx context.Context, codec interchange.Codec) (string, error) {
	format := codec.Format()
	start := time.Now()
	data, err := codec.Marshal(d.content)
	if err != nil {
		err = interchange.NewCodecError(interchange.ErrMarshal, format, err)
	}
	emitEncodeComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return "", err
	}
	if format.Binary() {
		return hex.EncodeToString(data), nil
	}
	return string(data), nil
}

// To writes the content with the registered codec for format.
func (d *Document) To(format interchange.Format) (string, error) {
	codec, err := Use(format)
	if err != nil {
		return "", err
	}
	return d.Encode(context.Background(), codec)
}

// ToJSON writes indented JSON.
func (d *Document) ToJSON() (string, error) {
	return d.To(interchange.FormatJSON)
}

// ToYAML writes YAML.
func (d *Document) ToYAML() (string, error) {
	return d.To(interchange.FormatYAML)
}

// ToXML writes XML.
func (d *Document) ToXML(opts xml.Options) (string, error) {
	return d.Encode(context.Background(), xml.NewWithOptions(opts))
}

// ToTOML writes TOML. The content must be a mapping.
func (d *Document) ToTOML() (string, error) {
	return d.To(interchange.FormatTOML)
}

// ToCSV writes CSV.
func (d *Document) ToCSV(opts csv.Options) (string, error) {
	return d.Encode(context.Background(), csv.NewWithOptions(opts))
}

// ToTable writes a bordered text table.
func (d *Document) ToTable(opts table.Options) (string, error) {
	return d.Encode(context.Background(), table.NewWithOptions(opts))
}

// ToProperties writes .properties text with dotted keys.
func (d *Document) ToProperties() (string, error) {
	return d.To(interchange.FormatProperties)
}

// ToQueryString writes a URL query string.
func (d *Document) ToQueryString() (string, error) {
	return d.To(interchange.FormatQueryString)
}

// ToPHPArray writes a PHP short array literal.
func (d *Document) ToPHPArray() (string, error) {
	return d.To(interchange.FormatPHPArray)
}

// ToPHPSerialize writes PHP serialize() text.
func (d *Document) ToPHPSerialize() (string, error) {
	return d.To(interchange.FormatPHPSerialize)
}

// ToMsgpack writes MessagePack as hex.
func (d *Document) ToMsgpack() (string, error) {
	return d.To(interchange.FormatMsgpack)
}

// ToBSON writes a BSON document as hex. The content must be a mapping.
func (d *Document) ToBSON() (string, error) {
	return d.To(interchange.FormatBSON)
}
