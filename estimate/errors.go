// SPDX-License-Identifier: MIT

package estimate

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/condmi/sample"
)

var (
	// ErrShape aliases sample.ErrShape so one errors.Is check covers both the
	// matrix constructors and the estimators.
	ErrShape = sample.ErrShape

	// ErrInsufficientSamples indicates N ≤ k: point i has fewer than k other points.
	ErrInsufficientSamples = errors.New("estimate: need more than k samples")

	// ErrBadK indicates a neighbour count below 1.
	ErrBadK = errors.New("estimate: k must be at least 1")

	// ErrBadBase indicates a logarithm base that is not finite, not positive, or 1.
	ErrBadBase = errors.New("estimate: base must be finite, positive and not 1")
)

// checkInputs validates everything an estimator needs before any work:
// matrices present, equal N, and N > k when k > 0.
func checkInputs(name string, x, y, z *sample.Matrix, k int) (int, error) {
	if x == nil || y == nil {
		return 0, fmt.Errorf("%s: x and y are required: %w", name, ErrShape)
	}
	n := x.Len()
	if y.Len() != n {
		return 0, fmt.Errorf("%s: x has %d observations, y has %d: %w", name, n, y.Len(), ErrShape)
	}
	if z != nil && z.Len() != n {
		return 0, fmt.Errorf("%s: x has %d observations, z has %d: %w", name, n, z.Len(), ErrShape)
	}
	if k > 0 && n <= k {
		return 0, fmt.Errorf("%s: N=%d, k=%d: %w", name, n, k, ErrInsufficientSamples)
	}

	return n, nil
}

// checkBase returns ln(base) or ErrBadBase.
func checkBase(name string, base float64) (float64, error) {
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 || base == 1 {
		return 0, fmt.Errorf("%s: base %v: %w", name, base, ErrBadBase)
	}

	return math.Log(base), nil
}
