// SPDX-License-Identifier: MIT
// Package sample: Matrix is the immutable, row-major observation matrix.
// r is the number of observations (N), c the dimension (d), and data holds
// r*c elements in row-major order.

package sample

import (
	"fmt"
	"math"
	"strings"
)

// Operation name constants for unified error wrapping.
const (
	opNew         = "New"
	opFromColumns = "FromColumns"
	opFromVector  = "FromVector"
	opAt          = "At"
	opTake        = "Take"
)

// Matrix is an N×d immutable matrix of finite float64 observations.
// The zero value is not usable; build one with New, FromColumns, FromVector
// or FromAny.
type Matrix struct {
	r, c int       // observations and coordinates per observation
	data []float64 // flat backing storage, length == r*c
}

// New builds a Matrix from observation-major rows: rows[i] is observation i.
// Stage 1 (Validate): rows non-empty, equal non-zero width, finite values.
// Stage 2 (Execute): copy into one flat buffer.
//
// Errors: ErrShape, ErrNonFinite.
// Complexity: O(N·d) time and memory.
func New(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, sampleErrorf(opNew, ErrShape)
	}
	c := len(rows[0])
	if c == 0 {
		return nil, sampleErrorf(opNew, ErrShape)
	}

	m := &Matrix{r: len(rows), c: c, data: make([]float64, len(rows)*c)}
	var i, j int
	for i = 0; i < m.r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("%s: row %d has %d values, want %d: %w", opNew, i, len(rows[i]), c, ErrShape)
		}
		for j = 0; j < c; j++ {
			if err := checkFinite(rows[i][j]); err != nil {
				return nil, fmt.Errorf("%s: (%d,%d): %w", opNew, i, j, err)
			}
			m.data[i*c+j] = rows[i][j]
		}
	}

	return m, nil
}

// FromColumns builds a Matrix from variable-major columns: cols[j] holds the
// N values of coordinate j, the layout most numeric tables are
// stored in (one vector per coordinate).
//
// Errors: ErrShape, ErrNonFinite.
// Complexity: O(N·d).
func FromColumns(cols [][]float64) (*Matrix, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, sampleErrorf(opFromColumns, ErrShape)
	}
	r, c := len(cols[0]), len(cols)

	m := &Matrix{r: r, c: c, data: make([]float64, r*c)}
	var i, j int
	for j = 0; j < c; j++ {
		if len(cols[j]) != r {
			return nil, fmt.Errorf("%s: column %d has %d values, want %d: %w", opFromColumns, j, len(cols[j]), r, ErrShape)
		}
		for i = 0; i < r; i++ {
			if err := checkFinite(cols[j][i]); err != nil {
				return nil, fmt.Errorf("%s: (%d,%d): %w", opFromColumns, i, j, err)
			}
			m.data[i*c+j] = cols[j][i]
		}
	}

	return m, nil
}

// FromVector builds an N×1 Matrix from a one-dimensional sequence.
//
// Errors: ErrShape on empty input, ErrNonFinite.
// Complexity: O(N).
func FromVector(v []float64) (*Matrix, error) {
	if len(v) == 0 {
		return nil, sampleErrorf(opFromVector, ErrShape)
	}
	m := &Matrix{r: len(v), c: 1, data: make([]float64, len(v))}
	for i, x := range v {
		if err := checkFinite(x); err != nil {
			return nil, fmt.Errorf("%s: (%d,0): %w", opFromVector, i, err)
		}
		m.data[i] = x
	}

	return m, nil
}

// Len returns the number of observations N.
// Complexity: O(1).
func (m *Matrix) Len() int { return m.r }

// Dims returns the dimension d of one observation.
// Complexity: O(1).
func (m *Matrix) Dims() int { return m.c }

// At returns coordinate j of observation i.
// Returns ErrOutOfRange for invalid indices.
// Complexity: O(1).
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("%s(%d,%d): %w", opAt, i, j, ErrOutOfRange)
	}

	return m.data[i*m.c+j], nil
}

// Row returns a copy of observation i, or nil when i is out of range.
// Complexity: O(d).
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.r {
		return nil
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out
}

// Fill copies observation i into dst[:d] without allocating. The caller
// guarantees 0 ≤ i < Len() and len(dst) ≥ Dims(); this is the hot path of
// the neighbour indexes.
// Complexity: O(d).
func (m *Matrix) Fill(i int, dst []float64) {
	copy(dst[:m.c], m.data[i*m.c:(i+1)*m.c])
}

// Rows returns a deep copy of the matrix as observation-major rows.
// Complexity: O(N·d).
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.r)
	for i := range out {
		out[i] = m.Row(i)
	}

	return out
}

// Take gathers rows by index: result row i is m's row idx[i]. Indices may
// repeat, and len(idx) may differ from Len(). Permutation tests use Take to
// build a reordered copy of one variable.
//
// Errors: ErrShape for empty idx, ErrOutOfRange for a bad index.
// Complexity: O(len(idx)·d).
func (m *Matrix) Take(idx []int) (*Matrix, error) {
	if len(idx) == 0 {
		return nil, sampleErrorf(opTake, ErrShape)
	}
	out := &Matrix{r: len(idx), c: m.c, data: make([]float64, len(idx)*m.c)}
	for i, src := range idx {
		if src < 0 || src >= m.r {
			return nil, fmt.Errorf("%s: index %d: %w", opTake, src, ErrOutOfRange)
		}
		copy(out.data[i*m.c:(i+1)*m.c], m.data[src*m.c:(src+1)*m.c])
	}

	return out, nil
}

// Equal reports whether m and o have the same shape and bit-identical values.
// Complexity: O(N·d).
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.r != o.r || m.c != o.c {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer for easy debugging.
// Complexity: O(N·d).
func (m *Matrix) String() string {
	var sb strings.Builder
	var i, j int
	for i = 0; i < m.r; i++ {
		sb.WriteByte('[')
		for j = 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

// checkFinite rejects NaN and ±Inf.
func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFinite
	}

	return nil
}
