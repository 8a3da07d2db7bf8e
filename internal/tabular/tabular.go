// Package tabular shapes rows of cells into values and back. It is shared by
// the csv and table codecs.
package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/json"
)

// Shape selects how parsed rows become a value.
type Shape string

// Supported shapes.
const (
	// RowObject reads the first row as a header and yields a sequence of
	// mappings.
	RowObject Shape = "row_object"
	// RowArray yields a sequence of string sequences.
	RowArray Shape = "row_array"
	// KeyedObject reads a header and yields a mapping of row mappings keyed
	// by one column.
	KeyedObject Shape = "keyed_object"
	// KeyedArray yields a mapping of row sequences keyed by one column.
	KeyedArray Shape = "keyed_array"
)

// ParseShape validates s. Empty selects RowObject.
func ParseShape(s string) (Shape, error) {
	switch shape := Shape(strings.ToLower(strings.TrimSpace(s))); shape {
	case "":
		return RowObject, nil
	case RowObject, RowArray, KeyedObject, KeyedArray:
		return shape, nil
	}
	return "", fmt.Errorf("unknown row shape %q", s)
}

// Build turns rows into a value of the given shape. keyedKey is the
// zero-based column used by the keyed shapes.
func Build(rows [][]string, shape Shape, keyedKey int) (interchange.Value, error) {
	shape, err := ParseShape(string(shape))
	if err != nil {
		return interchange.Value{}, err
	}

	var header []string
	if shape == RowObject || shape == KeyedObject {
		if len(rows) > 0 {
			header, rows = rows[0], rows[1:]
		}
	}

	if shape == RowObject || shape == RowArray {
		items := make([]interchange.Value, 0, len(rows))
		for _, row := range rows {
			items = append(items, buildRow(row, header, shape == RowObject))
		}
		return interchange.Sequence(items...), nil
	}

	if keyedKey < 0 {
		return interchange.Value{}, fmt.Errorf("keyed column %d out of range", keyedKey)
	}
	out := interchange.NewMapping()
	for i, row := range rows {
		if keyedKey >= len(row) {
			return interchange.Value{}, fmt.Errorf("row %d has no column %d", i+1, keyedKey)
		}
		out.Set(row[keyedKey], buildRow(row, header, shape == KeyedObject))
	}
	return interchange.Map(out), nil
}

func buildRow(row, header []string, object bool) interchange.Value {
	if !object {
		cells := make([]interchange.Value, len(row))
		for i, cell := range row {
			cells[i] = interchange.String(cell)
		}
		return interchange.Sequence(cells...)
	}

	m := interchange.NewMapping()
	for i, name := range header {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		m.Set(name, interchange.String(cell))
	}
	for i := len(header); i < len(row); i++ {
		m.Set(strconv.Itoa(i), interchange.String(row[i]))
	}
	return interchange.Map(m)
}

// Rows flattens v into a header and data rows. v must be a sequence, or a
// mapping whose values are the rows. Mapping rows contribute their keys to
// the header in first-seen order; without mapping rows the header is nil.
func Rows(v interchange.Value, format interchange.Format) (header []string, rows [][]string, err error) {
	var items []interchange.Value
	switch v.Kind() {
	case interchange.KindSequence:
		items = v.Items()
	case interchange.KindMapping:
		for _, item := range v.Mapping().All() {
			items = append(items, item)
		}
	default:
		return nil, nil, interchange.NewShapeError(format, v.Kind(), interchange.KindSequence, interchange.KindMapping)
	}

	seen := make(map[string]bool)
	for _, item := range items {
		if item.Kind() != interchange.KindMapping {
			continue
		}
		for _, k := range item.Mapping().Keys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	rows = make([][]string, 0, len(items))
	for _, item := range items {
		switch item.Kind() {
		case interchange.KindMapping:
			row := make([]string, len(header))
			for i, k := range header {
				if cell, ok := item.Mapping().Get(k); ok {
					row[i] = Cell(cell)
				}
			}
			rows = append(rows, row)
		case interchange.KindSequence:
			row := make([]string, 0, item.Len())
			for _, cell := range item.Items() {
				row = append(row, Cell(cell))
			}
			rows = append(rows, row)
		default:
			rows = append(rows, []string{Cell(item)})
		}
	}
	return header, rows, nil
}

var compact = json.Compact()

// Cell renders a single cell. Containers become compact JSON.
func Cell(v interchange.Value) string {
	if !v.IsContainer() {
		return v.Scalar()
	}
	data, err := compact.Marshal(v)
	if err != nil {
		return v.String()
	}
	return string(data)
}
