// Package table holds raw, string-typed tabular extracts as read from
// upstream CSV files. Nothing in this package coerces types.
package table

import "strings"

// Table is an in-memory extract: a header plus rows of raw cells.
// Rows are padded to the header width on construction.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a Table. Duplicate column names resolve to their first position.
// Rows shorter than the header are padded with empty cells.
func New(columns []string, rows [][]string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]string, len(rows)),
	}
	for i, c := range t.columns {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
	for i, r := range rows {
		if len(r) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, r)
			r = padded
		}
		t.rows[i] = r
	}
	return t
}

// Columns returns the header in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Has reports whether the column is present.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// HasAll reports whether every column is present.
func (t *Table) HasAll(cols ...string) bool {
	for _, c := range cols {
		if !t.Has(c) {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Value returns the trimmed cell at (row, col), or "" when the column is absent.
func (t *Table) Value(row int, col string) string {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][i])
}

// Opt returns the trimmed cell at (row, col), or nil when the column is
// absent or the cell is empty.
func (t *Table) Opt(row int, col string) *string {
	v := t.Value(row, col)
	if v == "" {
		return nil
	}
	return &v
}

// Rename returns a copy of t with column from renamed to to. Rows are shared
// with t since cells are never mutated.
func (t *Table) Rename(from, to string) *Table {
	cols := t.Columns()
	for i, c := range cols {
		if c == from {
			cols[i] = to
		}
	}
	out := &Table{
		columns: cols,
		index:   make(map[string]int, len(cols)),
		rows:    t.rows,
	}
	for i, c := range cols {
		if _, ok := out.index[c]; !ok {
			out.index[c] = i
		}
	}
	return out
}
