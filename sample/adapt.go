// SPDX-License-Identifier: MIT
// Package sample: typed adapters at the library boundary.
//
// Purpose:
//   - Accept the shapes callers actually hold ([]int, [][]float32, []any, …)
//     and normalise them to one float64 Matrix before any estimator runs.
//   - Each accepted form has one documented failure mode; anything else is
//     ErrType.
//
// Accepted forms (T is any Go integer or float kind):
//   - *Matrix               → returned as is (nil ⇒ ErrShape)
//   - []T, []any            → N×1 (one-dimensional variable)
//   - [][]T, [][]any        → N×d, rows are observations
//
// Widening policy: integers are converted to float64 only when the value
// survives the round trip (|v| ≤ 2⁵³ for 64-bit kinds); otherwise ErrType.

package sample

import (
	"fmt"
	"math"
)

const (
	opFromAny   = "FromAny"
	opFromSlice = "FromSlice"
	opFromRows  = "FromRows"
)

// Number is the set of Go numeric kinds accepted by the generic adapters.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// FromSlice widens a one-dimensional numeric slice into an N×1 Matrix.
//
// Errors: ErrShape (empty), ErrNonFinite, ErrType (integer not exactly representable).
// Complexity: O(N).
func FromSlice[T Number](v []T) (*Matrix, error) {
	if len(v) == 0 {
		return nil, sampleErrorf(opFromSlice, ErrShape)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		f, err := widen(x)
		if err != nil {
			return nil, fmt.Errorf("%s: (%d,0): %w", opFromSlice, i, err)
		}
		out[i] = f
	}

	return FromVector(out)
}

// FromRows widens observation-major numeric rows into an N×d Matrix.
//
// Errors: ErrShape, ErrNonFinite, ErrType.
// Complexity: O(N·d).
func FromRows[T Number](rows [][]T) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, sampleErrorf(opFromRows, ErrShape)
	}
	out := make([][]float64, len(rows))
	var (
		i, j int
		f    float64
		err  error
	)
	for i = range rows {
		out[i] = make([]float64, len(rows[i]))
		for j = range rows[i] {
			if f, err = widen(rows[i][j]); err != nil {
				return nil, fmt.Errorf("%s: (%d,%d): %w", opFromRows, i, j, err)
			}
			out[i][j] = f
		}
	}

	return New(out)
}

// FromAny normalises any accepted input form (see file header) into a Matrix.
//
// Errors: ErrShape, ErrType, ErrNonFinite.
// Complexity: O(N·d).
func FromAny(v any) (*Matrix, error) {
	switch t := v.(type) {
	case nil:
		return nil, sampleErrorf(opFromAny, ErrShape)
	case *Matrix:
		if t == nil {
			return nil, sampleErrorf(opFromAny, ErrShape)
		}
		return t, nil

	case []float64:
		return FromVector(t)
	case [][]float64:
		return New(t)

	case []float32:
		return FromSlice(t)
	case []int:
		return FromSlice(t)
	case []int8:
		return FromSlice(t)
	case []int16:
		return FromSlice(t)
	case []int32:
		return FromSlice(t)
	case []int64:
		return FromSlice(t)
	case []uint:
		return FromSlice(t)
	case []uint8:
		return FromSlice(t)
	case []uint16:
		return FromSlice(t)
	case []uint32:
		return FromSlice(t)
	case []uint64:
		return FromSlice(t)

	case [][]float32:
		return FromRows(t)
	case [][]int:
		return FromRows(t)
	case [][]int8:
		return FromRows(t)
	case [][]int16:
		return FromRows(t)
	case [][]int32:
		return FromRows(t)
	case [][]int64:
		return FromRows(t)
	case [][]uint:
		return FromRows(t)
	case [][]uint8:
		return FromRows(t)
	case [][]uint16:
		return FromRows(t)
	case [][]uint32:
		return FromRows(t)
	case [][]uint64:
		return FromRows(t)

	case []any:
		return fromAnyVector(t)
	case [][]any:
		return fromAnyRows(t)
	}

	return nil, fmt.Errorf("%s: unsupported input %T: %w", opFromAny, v, ErrType)
}

// fromAnyVector widens a []any of numbers element by element.
func fromAnyVector(v []any) (*Matrix, error) {
	if len(v) == 0 {
		return nil, sampleErrorf(opFromAny, ErrShape)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		f, err := scalar(x)
		if err != nil {
			return nil, fmt.Errorf("%s: (%d,0): %w", opFromAny, i, err)
		}
		out[i] = f
	}

	return FromVector(out)
}

// fromAnyRows widens a [][]any of numbers element by element.
func fromAnyRows(rows [][]any) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, sampleErrorf(opFromAny, ErrShape)
	}
	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = make([]float64, len(rows[i]))
		for j, x := range rows[i] {
			f, err := scalar(x)
			if err != nil {
				return nil, fmt.Errorf("%s: (%d,%d): %w", opFromAny, i, j, err)
			}
			out[i][j] = f
		}
	}

	return New(out)
}

// scalar widens one dynamically typed number.
func scalar(x any) (float64, error) {
	switch t := x.(type) {
	case float64:
		return widen(t)
	case float32:
		return widen(t)
	case int:
		return widen(t)
	case int8:
		return widen(t)
	case int16:
		return widen(t)
	case int32:
		return widen(t)
	case int64:
		return widen(t)
	case uint:
		return widen(t)
	case uint8:
		return widen(t)
	case uint16:
		return widen(t)
	case uint32:
		return widen(t)
	case uint64:
		return widen(t)
	}

	return 0, fmt.Errorf("value %v of type %T: %w", x, x, ErrType)
}

// widen converts x to float64, rejecting NaN/±Inf and integers that would
// lose precision.
func widen[T Number](x T) (float64, error) {
	f := float64(x)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNonFinite
	}
	// Rounding can carry a 64-bit integer just past its type's range, where
	// T(f) is implementation-defined; reject those before converting back.
	if isInteger[T]() && (f >= 0x1p64 || (isSigned[T]() && f >= 0x1p63)) {
		return 0, fmt.Errorf("value %v is not exactly representable: %w", x, ErrType)
	}
	if T(f) != x {
		return 0, fmt.Errorf("value %v is not exactly representable: %w", x, ErrType)
	}

	return f, nil
}

// isInteger reports whether T is an integer kind.
func isInteger[T Number]() bool {
	half := 0.5
	return T(half) == 0
}

// isSigned reports whether T holds negative values.
func isSigned[T Number]() bool {
	var zero T
	return zero-1 < zero
}
