// Package dataset implements the ordered tabular dataset flowing between
// curation stages: a header of column names plus rows of string cells.
// Cells are kept as text so the dataset round-trips CSV and the GBIF wire
// form without lossy numeric conversions.
package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Dataset is an ordered collection of named columns and string-cell rows.
// All transforming methods return a new Dataset; receivers are never mutated.
type Dataset struct {
	cols []string
	rows [][]string
}

// New creates an empty dataset with the given column order.
func New(columns ...string) *Dataset {
	return &Dataset{cols: append([]string(nil), columns...)}
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.cols...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Row returns a copy of row i. Panics if i is out of range, like a slice.
func (d *Dataset) Row(i int) []string {
	return append([]string(nil), d.rows[i]...)
}

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, c := range d.cols {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Value returns the cell at row i in the named column.
func (d *Dataset) Value(i int, column string) (string, bool) {
	j, ok := d.ColumnIndex(column)
	if !ok || i < 0 || i >= len(d.rows) {
		return "", false
	}
	return d.rows[i][j], true
}

// Append adds a row. The row must have exactly one cell per column.
func (d *Dataset) Append(row []string) error {
	if len(row) != len(d.cols) {
		return eris.Errorf("dataset: row has %d cells, want %d", len(row), len(d.cols))
	}
	d.rows = append(d.rows, append([]string(nil), row...))
	return nil
}

// Select projects the dataset onto the named columns, in the given order.
// A name not present in the dataset is an error.
func (d *Dataset) Select(columns ...string) (*Dataset, error) {
	idx := make([]int, len(columns))
	for i, name := range columns {
		j, ok := d.ColumnIndex(name)
		if !ok {
			return nil, eris.Errorf("dataset: column %q not found", name)
		}
		idx[i] = j
	}

	out := New(columns...)
	for _, row := range d.rows {
		cells := make([]string, len(idx))
		for i, j := range idx {
			cells[i] = row[j]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// DropDuplicates removes rows whose every cell equals an earlier row's.
// The first occurrence is kept and row order is otherwise preserved.
func (d *Dataset) DropDuplicates() *Dataset {
	out := New(d.cols...)
	seen := make(map[string]struct{}, len(d.rows))
	for _, row := range d.rows {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.rows = append(out.rows, append([]string(nil), row...))
	}
	return out
}

// Filter keeps the rows for which keep returns true, preserving order.
// The row slice passed to keep must not be retained.
func (d *Dataset) Filter(keep func(row []string) bool) *Dataset {
	out := New(d.cols...)
	for _, row := range d.rows {
		if keep(row) {
			out.rows = append(out.rows, append([]string(nil), row...))
		}
	}
	return out
}

// WithColumn sets every cell of the named column to value, appending the
// column if it does not exist.
func (d *Dataset) WithColumn(name, value string) *Dataset {
	values := make([]string, len(d.rows))
	for i := range values {
		values[i] = value
	}
	out, _ := d.WithColumnValues(name, values)
	return out
}

// WithColumnValues sets the named column from values, one cell per row,
// appending the column if it does not exist.
func (d *Dataset) WithColumnValues(name string, values []string) (*Dataset, error) {
	if len(values) != len(d.rows) {
		return nil, eris.Errorf("dataset: column %q has %d values, want %d", name, len(values), len(d.rows))
	}

	j, exists := d.ColumnIndex(name)

	out := New(d.cols...)
	if !exists {
		out.cols = append(out.cols, name)
	}
	for i, row := range d.rows {
		cells := append([]string(nil), row...)
		if exists {
			cells[j] = values[i]
		} else {
			cells = append(cells, values[i])
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}
