// SPDX-License-Identifier: MIT
// Package sample: sentinel error set.
// Constructors return these sentinels wrapped with call-site context; callers
// match them with errors.Is.

package sample

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned when the input is empty, rows have zero width, rows
	// disagree on their length, or joined matrices disagree on N.
	ErrShape = errors.New("sample: invalid shape")

	// ErrType is returned when an element (or the container) is not a Go
	// numeric type that can be widened to float64.
	ErrType = errors.New("sample: element is not a real number")

	// ErrNonFinite is returned when a NaN or ±Inf value is encountered.
	// The estimators are defined for continuous finite data only.
	ErrNonFinite = errors.New("sample: NaN or Inf encountered")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("sample: index out of range")
)

// sampleErrorf wraps an underlying sentinel with the operation tag.
func sampleErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
