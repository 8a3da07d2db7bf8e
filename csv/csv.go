// Package csv provides a comma-separated values codec.
package csv

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/internal/tabular"
)

// Row shapes accepted by Options.Type.
const (
	RowObject   = string(tabular.RowObject)
	RowArray    = string(tabular.RowArray)
	KeyedObject = string(tabular.KeyedObject)
	KeyedArray  = string(tabular.KeyedArray)
)

// Options configures the CSV codec. The zero value reads a header row into
// a sequence of mappings and writes a header with minimal quoting.
type Options struct {
	// Type is the decoded shape: row_object (default), row_array,
	// keyed_object or keyed_array.
	Type string

	// KeyedKey is the zero-based column that keys the keyed shapes.
	KeyedKey int

	// Quoted forces every encoded field into double quotes.
	Quoted bool

	// OmitHeader drops the header row on encode.
	OmitHeader bool
}

// csvCodec implements interchange.Codec for CSV.
type csvCodec struct {
	opts Options
}

// New returns a CSV codec with default options.
func New() interchange.Codec {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a CSV codec with custom options.
func NewWithOptions(opts Options) interchange.Codec {
	return &csvCodec{opts: opts}
}

// Format returns interchange.FormatCSV.
func (c *csvCodec) Format() interchange.Format {
	return interchange.FormatCSV
}

// Unmarshal decodes CSV data into the configured shape.
func (c *csvCodec) Unmarshal(data []byte) (interchange.Value, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return interchange.Value{}, err
	}
	return tabular.Build(rows, tabular.Shape(c.opts.Type), c.opts.KeyedKey)
}

// Marshal encodes a sequence (or the values of a mapping) as CSV rows.
func (c *csvCodec) Marshal(v interchange.Value) ([]byte, error) {
	header, rows, err := tabular.Rows(v, interchange.FormatCSV)
	if err != nil {
		return nil, err
	}
	if header != nil && !c.opts.OmitHeader {
		rows = append([][]string{header}, rows...)
	}

	var buf bytes.Buffer
	if c.opts.Quoted {
		for _, row := range rows {
			for i, field := range row {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteByte('"')
				buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
				buf.WriteByte('"')
			}
			buf.WriteByte('\n')
		}
	} else {
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
