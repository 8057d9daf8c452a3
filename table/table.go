// SPDX-License-Identifier: MIT

package table

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/condmi/sample"
)

// Sentinel errors. ErrShape, ErrType and ErrNonFinite alias package sample's
// so callers match one set of errors across the boundary.
var (
	ErrShape     = sample.ErrShape
	ErrType      = sample.ErrType
	ErrNonFinite = sample.ErrNonFinite

	// ErrUnknownColumn indicates a selected name that is not in the table.
	ErrUnknownColumn = errors.New("table: unknown column")

	// ErrDuplicateColumn indicates a column name that appears twice.
	ErrDuplicateColumn = errors.New("table: duplicate column name")
)

// Table is an immutable set of equally long named float64 columns.
type Table struct {
	names []string
	index map[string]int
	cols  [][]float64
	n     int
}

// New builds a Table from parallel names and columns. Columns are copied.
//
// Errors: ErrShape (no columns, empty or unequal columns, names/cols
// mismatch), ErrDuplicateColumn.
// Complexity: O(N·C).
func New(names []string, cols [][]float64) (*Table, error) {
	if len(names) == 0 || len(names) != len(cols) {
		return nil, fmt.Errorf("table: %d names for %d columns: %w", len(names), len(cols), ErrShape)
	}
	t := &Table{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		cols:  make([][]float64, len(cols)),
		n:     len(cols[0]),
	}
	if t.n == 0 {
		return nil, fmt.Errorf("table: no rows: %w", ErrShape)
	}
	for j, name := range names {
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("table: %q: %w", name, ErrDuplicateColumn)
		}
		t.index[name] = j
		if len(cols[j]) != t.n {
			return nil, fmt.Errorf("table: column %q has %d rows, want %d: %w", name, len(cols[j]), t.n, ErrShape)
		}
		t.cols[j] = append([]float64(nil), cols[j]...)
	}

	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.n }

// Names returns a copy of the column names in header order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("table: %q: %w", name, ErrUnknownColumn)
	}

	return append([]float64(nil), t.cols[j]...), nil
}

// Select gathers the named columns into an N×len(names) matrix, one
// coordinate per name in the given order.
//
// Errors: ErrShape (no names), ErrUnknownColumn, ErrNonFinite.
// Complexity: O(N·len(names)).
func (t *Table) Select(names ...string) (*sample.Matrix, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("table: no columns selected: %w", ErrShape)
	}
	cols := make([][]float64, len(names))
	for k, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("table: %q: %w", name, ErrUnknownColumn)
		}
		cols[k] = t.cols[j]
	}
	m, err := sample.FromColumns(cols)
	if err != nil {
		return nil, fmt.Errorf("table: select %v: %w", names, err)
	}

	return m, nil
}

// Selection is a deferred column selection: a table plus the names that
// make up one variable.
type Selection struct {
	Table   *Table
	Columns []string
}

// Columns returns the selection of names from t.
func Columns(t *Table, names ...string) Selection {
	return Selection{Table: t, Columns: names}
}

// Matrix resolves the selection.
//
// Errors: ErrShape (nil table or no names), plus those of Table.Select.
func (s Selection) Matrix() (*sample.Matrix, error) {
	if s.Table == nil {
		return nil, fmt.Errorf("table: selection without a table: %w", ErrShape)
	}

	return s.Table.Select(s.Columns...)
}
