// SPDX-License-Identifier: MIT

package neighbor

import "errors"

// Sentinel errors returned by index construction and queries.
var (
	// ErrEmptySpace indicates a nil space or one with no points or no coordinates.
	ErrEmptySpace = errors.New("neighbor: space is empty")

	// ErrOutOfRange indicates a query point index outside [0, Len()).
	ErrOutOfRange = errors.New("neighbor: point index out of range")

	// ErrBadK indicates k < 1 or k ≥ Len() (not enough other points).
	ErrBadK = errors.New("neighbor: k must satisfy 1 ≤ k < N")

	// ErrBadRadius indicates a NaN or negative radius.
	ErrBadRadius = errors.New("neighbor: radius must be a non-negative number")

	// ErrUnknownStrategy indicates an unsupported Strategy value.
	ErrUnknownStrategy = errors.New("neighbor: unknown strategy")
)

// Space is a finite set of points in a fixed-dimension real space.
// *sample.Matrix and *sample.Joint satisfy it.
type Space interface {
	// Len returns the number of points.
	Len() int
	// Dims returns the number of coordinates per point.
	Dims() int
	// Fill writes point i into dst[:Dims()].
	Fill(i int, dst []float64)
}

// Index answers Chebyshev neighbour queries about the points of one Space.
type Index interface {
	// Len returns the number of indexed points.
	Len() int

	// KthDistance returns the distance from point i to its k-th nearest
	// other point. Requires 0 ≤ i < Len() and 1 ≤ k < Len().
	KthDistance(i, k int) (float64, error)

	// CountWithin returns how many points j ≠ i satisfy dist(i, j) < r.
	CountWithin(i int, r float64) (int, error)

	// Nearest returns the indices of the m nearest points other than i,
	// ordered by distance then index. Requires 1 ≤ m < Len().
	Nearest(i, m int) ([]int, error)
}

// Strategy selects the index implementation.
type Strategy int

const (
	// Auto picks BruteForce for small spaces and KDTree above BruteForceLimit.
	Auto Strategy = iota

	// BruteForce scans all points per query.
	BruteForce

	// KDTree uses a gonum k-d tree.
	KDTree
)

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case BruteForce:
		return "brute"
	case KDTree:
		return "kdtree"
	}

	return "unknown"
}

// DefaultBruteForceLimit is the largest space Auto indexes by brute force.
const DefaultBruteForceLimit = 1024

// Options configures index construction.
//
//   - Strategy        — Auto, BruteForce or KDTree.
//   - BruteForceLimit — Auto threshold; must be ≥ 0.
type Options struct {
	Strategy        Strategy
	BruteForceLimit int
}

// Option represents a functional option for index construction.
type Option func(*Options)

// WithStrategy forces an index implementation.
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		o.Strategy = s
	}
}

// WithBruteForceLimit sets the Auto threshold. Panics on a negative limit.
func WithBruteForceLimit(n int) Option {
	if n < 0 {
		panic("neighbor: WithBruteForceLimit: limit must be non-negative")
	}
	return func(o *Options) {
		o.BruteForceLimit = n
	}
}

// DefaultOptions returns Auto with DefaultBruteForceLimit.
func DefaultOptions() Options {
	return Options{
		Strategy:        Auto,
		BruteForceLimit: DefaultBruteForceLimit,
	}
}
