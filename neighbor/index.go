// SPDX-License-Identifier: MIT
// Package neighbor: index construction and the shared point store.

package neighbor

import (
	"fmt"
	"math"
)

// New builds an Index over s according to opts (defaults: DefaultOptions).
//
// Stage 1 (Validate): s non-nil with at least one point and one coordinate.
// Stage 2 (Resolve):  pick the strategy (Auto ⇒ by BruteForceLimit).
// Stage 3 (Build):    copy points and build the chosen structure.
//
// Errors: ErrEmptySpace, ErrUnknownStrategy.
// Complexity: O(N·d) for BruteForce, O(N·d·log N) for KDTree.
func New(s Space, opts ...Option) (Index, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return NewWithOptions(s, o)
}

// NewWithOptions is New with a resolved Options value.
func NewWithOptions(s Space, o Options) (Index, error) {
	switch resolve(o, spaceLen(s)) {
	case BruteForce:
		b, err := NewBrute(s)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KDTree:
		t, err := NewTree(s)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	return nil, fmt.Errorf("neighbor: strategy %d: %w", o.Strategy, ErrUnknownStrategy)
}

// resolve maps Auto onto a concrete strategy for a space of n points.
func resolve(o Options, n int) Strategy {
	if o.Strategy != Auto {
		return o.Strategy
	}
	if n <= o.BruteForceLimit {
		return BruteForce
	}

	return KDTree
}

// spaceLen tolerates a nil space so validation stays in one place.
func spaceLen(s Space) int {
	if s == nil {
		return 0
	}

	return s.Len()
}

// points is the flat row-major copy of a Space shared by both strategies.
type points struct {
	n, d int
	data []float64
}

// load copies s into a flat buffer.
func load(s Space) (points, error) {
	if s == nil || s.Len() == 0 || s.Dims() == 0 {
		return points{}, ErrEmptySpace
	}
	p := points{n: s.Len(), d: s.Dims()}
	p.data = make([]float64, p.n*p.d)
	for i := 0; i < p.n; i++ {
		s.Fill(i, p.data[i*p.d:(i+1)*p.d])
	}

	return p, nil
}

// row returns point i as a sub-slice of the store (read-only by convention).
func (p points) row(i int) []float64 {
	return p.data[i*p.d : (i+1)*p.d]
}

// dist is the Chebyshev distance between stored points i and j.
func (p points) dist(i, j int) float64 {
	return chebyshev(p.row(i), p.row(j))
}

// checkPoint validates a query index.
func (p points) checkPoint(i int) error {
	if i < 0 || i >= p.n {
		return fmt.Errorf("point %d of %d: %w", i, p.n, ErrOutOfRange)
	}

	return nil
}

// checkK validates a neighbour rank (also used for Nearest's m).
func (p points) checkK(k int) error {
	if k < 1 || k >= p.n {
		return fmt.Errorf("k=%d with N=%d: %w", k, p.n, ErrBadK)
	}

	return nil
}

// checkRadius rejects NaN and negative radii. +Inf is allowed and counts
// every other point.
func checkRadius(r float64) error {
	if math.IsNaN(r) || r < 0 {
		return fmt.Errorf("radius %v: %w", r, ErrBadRadius)
	}

	return nil
}

// chebyshev returns max_k |a[k] − b[k]|; a and b have equal length.
func chebyshev(a, b []float64) float64 {
	var m, v float64
	for k := range a {
		v = a[k] - b[k]
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}

	return m
}
