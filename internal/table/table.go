// Package table provides the in-memory tabular data shared by the uploaded
// publications file and the demo datasets.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmpty is returned when the input has no header row.
var ErrEmpty = errors.New("no columns to parse from file")

// Table is a rectangular set of string cells with named columns.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a table, padding or truncating rows to the column count.
func New(columns []string, rows [][]string) *Table {
	t := &Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(columns)))
	}
	return t
}

// ColumnIndex returns the index of the named column, or -1.
// Names are matched exactly.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Select returns a new table holding the rows for which keep returns true.
// Row slices are shared with the receiver.
func (t *Table) Select(keep func(row []string) bool) *Table {
	out := &Table{Columns: t.Columns, Rows: make([][]string, 0, len(t.Rows))}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Column returns a copy of the named column's cells, or nil if it is absent.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// Records returns one column-to-cell map per row. With duplicate column
// names the rightmost cell wins. A nil table yields nil.
func (t *Table) Records() []map[string]string {
	if t == nil {
		return nil
	}
	out := make([]map[string]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[c] = r[j]
		}
		out[i] = rec
	}
	return out
}

// ParseCSV reads a header row followed by data rows.
//
// Ragged rows are tolerated: short rows are padded with empty cells and long
// rows are cut to the header width. A leading UTF-8 BOM is dropped.
func ParseCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 1 && strings.TrimSpace(header[0]) == "" {
		return nil, ErrEmpty
	}

	columns := header

	t := &Table{Columns: columns}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		t.Rows = append(t.Rows, fit(rec, len(columns)))
	}
	return t, nil
}

func fit(rec []string, n int) []string {
	row := make([]string, n)
	copy(row, rec)
	return row
}
