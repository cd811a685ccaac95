//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table implements the in-memory row-set the pipeline passes between
// phases: an ordered list of named columns over rows of untyped values.
// Operations return new tables and never mutate their receiver, so each
// phase consumes immutable-in-effect output from the previous one.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a named-column row-set. Rows are positionally aligned with
// Columns; values are untyped and may be nil.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

// New creates an empty table with the given column names.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		t.index[c] = i
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Append adds a row. The row must have one value per column.
func (t *Table) Append(row []any) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.cols))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the i-th row. The returned slice is shared, not copied.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value returns the value at row i in the named column, or nil when the
// column does not exist.
func (t *Table) Value(i int, col string) any {
	j, ok := t.index[col]
	if !ok {
		return nil
	}
	return t.rows[i][j]
}

// Clone returns a deep copy of the table's shape and a shallow copy of its
// values.
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]any(nil), r...)
	}
	return out
}

// LowercaseColumns returns a copy of the table with every column name
// lowercased. Row order and values are preserved.
func (t *Table) LowercaseColumns() *Table {
	cols := make([]string, len(t.cols))
	for i, c := range t.cols {
		cols[i] = strings.ToLower(c)
	}
	out := New(cols...)
	out.rows = t.rows
	return out
}

// EnsureColumns returns a table guaranteed to contain every named column,
// appending null-valued columns for any that are missing. Guards against
// source exports that omit optional columns.
func (t *Table) EnsureColumns(names ...string) *Table {
	missing := make([]string, 0, len(names))
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return t
	}

	out := New(append(t.Columns(), missing...)...)
	pad := make([]any, len(missing))
	for _, r := range t.rows {
		row := make([]any, 0, len(out.cols))
		row = append(row, r...)
		row = append(row, pad...)
		out.rows = append(out.rows, row)
	}
	return out
}

// Column describes one selected column: its source name and, optionally,
// the name it should carry in the result.
type Column struct {
	Src string
	Dst string
}

// Select returns a table containing only the given columns, in order,
// renamed to their Dst names. Selecting a column the table lacks is an
// error; call EnsureColumns first when absence is expected.
func (t *Table) Select(cols ...Column) (*Table, error) {
	idx := make([]int, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		j, ok := t.index[c.Src]
		if !ok {
			return nil, fmt.Errorf("select: no column %q", c.Src)
		}
		idx[i] = j
		names[i] = c.Dst
		if names[i] == "" {
			names[i] = c.Src
		}
	}

	out := New(names...)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		row := make([]any, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		out.rows[i] = row
	}
	return out, nil
}

// LeftJoin joins t against right on the given key columns, keeping every
// left row; unmatched rows carry nulls in the right-hand columns. A left
// row matching multiple right rows is emitted once per match. Column names
// present on both sides (other than the keys) are disambiguated with the
// given suffixes. The right key column is dropped from the result.
func (t *Table) LeftJoin(right *Table, leftKey, rightKey, leftSuffix, rightSuffix string) (*Table, error) {
	return t.join(right, leftKey, rightKey, leftSuffix, rightSuffix, false)
}

// InnerJoin is LeftJoin restricted to rows with a match on both sides.
func (t *Table) InnerJoin(right *Table, leftKey, rightKey, leftSuffix, rightSuffix string) (*Table, error) {
	return t.join(right, leftKey, rightKey, leftSuffix, rightSuffix, true)
}

func (t *Table) join(right *Table, leftKey, rightKey, leftSuffix, rightSuffix string, inner bool) (*Table, error) {
	li, ok := t.index[leftKey]
	if !ok {
		return nil, fmt.Errorf("join: left table has no column %q", leftKey)
	}
	ri, ok := right.index[rightKey]
	if !ok {
		return nil, fmt.Errorf("join: right table has no column %q", rightKey)
	}

	// Right-hand columns carried into the result, with the key dropped.
	rightCols := make([]int, 0, len(right.cols)-1)
	for j := range right.cols {
		if j != ri {
			rightCols = append(rightCols, j)
		}
	}

	collide := make(map[string]bool)
	for _, c := range right.cols {
		if c != rightKey && t.HasColumn(c) {
			collide[c] = true
		}
	}

	names := make([]string, 0, len(t.cols)+len(rightCols))
	for _, c := range t.cols {
		if collide[c] && c != leftKey {
			c += leftSuffix
		}
		names = append(names, c)
	}
	for _, j := range rightCols {
		c := right.cols[j]
		if collide[c] {
			c += rightSuffix
		}
		names = append(names, c)
	}

	byKey := make(map[string][]int, len(right.rows))
	for i, r := range right.rows {
		k, ok := KeyString(r[ri])
		if !ok {
			continue
		}
		byKey[k] = append(byKey[k], i)
	}

	out := New(names...)
	for _, lr := range t.rows {
		k, keyOK := KeyString(lr[li])
		matches := byKey[k]
		if !keyOK {
			matches = nil
		}
		if len(matches) == 0 {
			if inner {
				continue
			}
			row := make([]any, 0, len(names))
			row = append(row, lr...)
			for range rightCols {
				row = append(row, nil)
			}
			out.rows = append(out.rows, row)
			continue
		}
		for _, m := range matches {
			rr := right.rows[m]
			row := make([]any, 0, len(names))
			row = append(row, lr...)
			for _, j := range rightCols {
				row = append(row, rr[j])
			}
			out.rows = append(out.rows, row)
		}
	}
	return out, nil
}

// KeyString normalizes a value for use as a join key. Numeric strings and
// numbers compare equal ("10" matches 10 and 10.0); nil and empty strings
// never match anything.
func KeyString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return "", false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64), true
		}
		return s, true
	case int:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), true
	case int64:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	default:
		return fmt.Sprint(x), true
	}
}
