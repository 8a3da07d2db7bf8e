// Package serialize converts documents between data-interchange formats.
//
// A Document wraps one canonical interchange.Value. Factories parse text in
// a given format; conversion methods write the content back out in any
// other format. Factories never fail outright: a parse failure produces a
// document that carries the error and an empty mapping as content, so a
// caller can always render something.
//
// # Basic Usage
//
//	doc := serialize.FromJSON(`{"name": "alice", "tags": ["a", "b"]}`)
//	if doc.IsError() {
//	    log.Println(doc.ErrorMessage())
//	}
//
//	y, _ := doc.ToYAML()
//	qs, _ := doc.ToQueryString() // name=alice&tags%5B0%5D=a&tags%5B1%5D=b
//
// # Formats
//
// Every interchange.Format has a default codec in the registry:
//
//	codec, _ := serialize.Use(interchange.FormatTOML)
//	doc := serialize.From(interchange.FormatTOML, text)
//	out, _ := doc.To(interchange.FormatXML)
//
// Formats with options have dedicated factories and converters, such as
// FromCSV and ToXML. Binary formats (msgpack, BSON) are carried as hex
// text; whitespace and 0x prefixes are accepted on input.
//
// # Content Shape
//
// Documents hold sequences or mappings. Parsed input that is a bare scalar
// fails with interchange.ErrNotContainer. Converters that cannot represent
// the content return an error wrapping interchange.ErrUnsupportedShape.
//
// # Observability
//
// Decode and encode operations emit capitan signals carrying the format,
// payload size, duration and error. Failed documents additionally emit
// SignalDocumentFailed.
package serialize
