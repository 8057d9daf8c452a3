// SPDX-License-Identifier: MIT

package cmi

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/condmi/estimate"
	"github.com/katalvlaran/condmi/metrics"
	"github.com/katalvlaran/condmi/neighbor"
	"github.com/katalvlaran/condmi/permute"
)

// Default values used by DefaultOptions.
const (
	DefaultK            = estimate.DefaultK
	DefaultPermutations = permute.DefaultSamples
	DefaultBase         = estimate.DefaultBase
	DefaultSeed         = permute.DefaultSeed
	DefaultEstimator    = estimate.NameKNN
)

// Options holds every knob of a computation.
//
//   - K              — neighbour rank of the k-NN estimator (≥ 1).
//   - Permutations   — P; 0 skips the test and yields PValue = NaN.
//   - Base           — log base of the result (e ⇒ nats, 2 ⇒ bits).
//   - Seed           — permutation seed; equal seeds give equal p-values.
//   - Workers        — permutation goroutines; 0 ⇒ GOMAXPROCS.
//   - Target         — variable to reorder (Y by default).
//   - Scheme         — Global or Local permutation.
//   - LocalNeighbors — Z-neighbourhood size of the Local scheme.
//   - Estimator      — "knn" or "discrete"; ignored when Custom is set.
//   - Custom         — caller-supplied estimator.
//   - Index          — neighbour index strategy of the k-NN estimator.
//   - Timeout        — 0 disables; otherwise bounds the permutation test.
//   - KeepNull       — return the null distribution in Result.Null.
//   - Logger         — nil ⇒ zap.NewNop().
//   - Recorder       — nil ⇒ metrics.Nop.
type Options struct {
	K              int
	Permutations   int
	Base           float64
	Seed           int64
	Workers        int
	Target         permute.Target
	Scheme         permute.Scheme
	LocalNeighbors int
	Estimator      string
	Custom         estimate.Estimator
	Index          neighbor.Options
	Timeout        time.Duration
	KeepNull       bool
	Logger         *zap.Logger
	Recorder       metrics.Recorder
}

// DefaultOptions returns k=3, P=100, base e, seed 1, Y target, Global scheme,
// the k-NN estimator and the Auto neighbour strategy.
func DefaultOptions() Options {
	return Options{
		K:              DefaultK,
		Permutations:   DefaultPermutations,
		Base:           DefaultBase,
		Seed:           DefaultSeed,
		Target:         permute.TargetY,
		Scheme:         permute.Global,
		LocalNeighbors: permute.DefaultNeighbors,
		Estimator:      DefaultEstimator,
		Index:          neighbor.DefaultOptions(),
	}
}

// Option represents a functional option for Compute.
type Option func(*Options)

// WithK sets the neighbour rank. Panics if k < 1.
func WithK(k int) Option {
	if k < 1 {
		panic("cmi: WithK: k must be at least 1")
	}
	return func(o *Options) {
		o.K = k
	}
}

// WithPermutations sets the number of permutation runs. Panics if p < 0.
func WithPermutations(p int) Option {
	if p < 0 {
		panic("cmi: WithPermutations: count must be non-negative")
	}
	return func(o *Options) {
		o.Permutations = p
	}
}

// WithBase sets the logarithm base of the result. Panics unless base is
// finite, positive and not 1.
func WithBase(base float64) Option {
	if !validBase(base) {
		panic(fmt.Sprintf("cmi: WithBase: invalid base %v", base))
	}
	return func(o *Options) {
		o.Base = base
	}
}

// WithSeed sets the permutation seed.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithWorkers bounds the permutation goroutines. Panics if n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic("cmi: WithWorkers: count must be non-negative")
	}
	return func(o *Options) {
		o.Workers = n
	}
}

// WithTarget selects the permuted variable.
func WithTarget(t permute.Target) Option {
	return func(o *Options) {
		o.Target = t
	}
}

// WithScheme selects the permutation scheme. permute.Local resamples rows
// within Z-neighbourhoods and may repeat rows.
func WithScheme(s permute.Scheme) Option {
	return func(o *Options) {
		o.Scheme = s
	}
}

// WithLocalNeighbors sets the Z-neighbourhood size of the Local scheme.
// Panics if m < 1.
func WithLocalNeighbors(m int) Option {
	if m < 1 {
		panic("cmi: WithLocalNeighbors: size must be at least 1")
	}
	return func(o *Options) {
		o.LocalNeighbors = m
	}
}

// WithEstimator selects a built-in estimator by name ("knn", "discrete").
func WithEstimator(name string) Option {
	return func(o *Options) {
		o.Estimator = name
	}
}

// WithCustomEstimator plugs in any estimate.Estimator. K, Base and Index are
// then not used; Result reports the estimator's own K and Base when it is a
// KSG or Discrete, and Base 0 otherwise. Panics on nil.
func WithCustomEstimator(e estimate.Estimator) Option {
	if e == nil {
		panic("cmi: WithCustomEstimator: estimator is nil")
	}
	return func(o *Options) {
		o.Custom = e
	}
}

// WithIndex sets the neighbour index options of the k-NN estimator.
func WithIndex(opts ...neighbor.Option) Option {
	return func(o *Options) {
		for _, opt := range opts {
			opt(&o.Index)
		}
	}
}

// WithTimeout bounds the permutation test; the result is then flagged
// Approximate if it stopped early. Panics if d < 0.
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("cmi: WithTimeout: duration must be non-negative")
	}
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithNullDistribution returns the permuted estimates in Result.Null.
func WithNullDistribution() Option {
	return func(o *Options) {
		o.KeepNull = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Options) {
		o.Recorder = r
	}
}

func validBase(b float64) bool {
	return !math.IsNaN(b) && !math.IsInf(b, 0) && b > 0 && b != 1
}

// resolve validates o and returns the estimator it describes.
func (o *Options) resolve() (estimate.Estimator, error) {
	if o.Timeout < 0 {
		return nil, fmt.Errorf("cmi: timeout %v: %w", o.Timeout, ErrBadTimeout)
	}
	if o.Permutations < 0 {
		return nil, fmt.Errorf("cmi: permutations=%d: %w", o.Permutations, ErrBadSamples)
	}
	if o.Workers < 0 {
		return nil, fmt.Errorf("cmi: workers=%d: %w", o.Workers, ErrBadWorkers)
	}
	if o.Custom != nil {
		return o.Custom, nil
	}
	if !validBase(o.Base) {
		return nil, fmt.Errorf("cmi: base %v: %w", o.Base, ErrBadBase)
	}

	switch o.Estimator {
	case estimate.NameKNN, "":
		if o.K < 1 {
			return nil, fmt.Errorf("cmi: k=%d: %w", o.K, ErrBadK)
		}
		return estimate.KSG{K: o.K, Base: o.Base, Index: o.Index}, nil
	case estimate.NameDiscrete:
		return estimate.Discrete{Base: o.Base}, nil
	}

	return nil, fmt.Errorf("cmi: %q: %w", o.Estimator, ErrUnknownEstimator)
}
