// Package table provides a codec for pipe-delimited text tables such as
// those printed by database shells.
package table

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/internal/tabular"
)

// Options configures the table codec.
type Options struct {
	// Type is the decoded shape; see the csv package for the accepted names.
	Type string

	// KeyedKey is the zero-based column that keys the keyed shapes.
	KeyedKey int

	// OmitHeader drops the header row on encode.
	OmitHeader bool
}

// tableCodec implements interchange.Codec for text tables.
type tableCodec struct {
	opts Options
}

// New returns a table codec with default options.
func New() interchange.Codec {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a table codec with custom options.
func NewWithOptions(opts Options) interchange.Codec {
	return &tableCodec{opts: opts}
}

// Format returns interchange.FormatTable.
func (c *tableCodec) Format() interchange.Format {
	return interchange.FormatTable
}

// Unmarshal reads pipe-delimited rows. Border lines made of +, -, = and |
// are skipped; cells are trimmed.
func (c *tableCodec) Unmarshal(data []byte) (interchange.Value, error) {
	var rows [][]string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || isBorder(line) {
			continue
		}
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")
		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	if err := sc.Err(); err != nil {
		return interchange.Value{}, err
	}
	return tabular.Build(rows, tabular.Shape(c.opts.Type), c.opts.KeyedKey)
}

func isBorder(line string) bool {
	return strings.Trim(line, "+-=|: ") == "" && strings.ContainsAny(line, "-=")
}

// Marshal renders rows as a bordered table padded to display width.
func (c *tableCodec) Marshal(v interchange.Value) ([]byte, error) {
	header, rows, err := tabular.Rows(v, interchange.FormatTable)
	if err != nil {
		return nil, err
	}
	if c.opts.OmitHeader {
		header = nil
	}

	cols := len(header)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return []byte{}, nil
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(flatten(cell)))
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	var buf bytes.Buffer
	border(&buf, widths)
	if header != nil {
		line(&buf, header, widths)
		border(&buf, widths)
	}
	for _, row := range rows {
		line(&buf, row, widths)
	}
	border(&buf, widths)
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func border(buf *bytes.Buffer, widths []int) {
	buf.WriteByte('+')
	for _, w := range widths {
		buf.WriteString(strings.Repeat("-", w+2))
		buf.WriteByte('+')
	}
	buf.WriteByte('\n')
}

func line(buf *bytes.Buffer, row []string, widths []int) {
	buf.WriteByte('|')
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = flatten(row[i])
		}
		buf.WriteByte(' ')
		buf.WriteString(runewidth.FillRight(cell, w))
		buf.WriteString(" |")
	}
	buf.WriteByte('\n')
}

// flatten keeps a cell on one line.
func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", "/").Replace(s)
}
