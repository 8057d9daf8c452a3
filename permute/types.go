// SPDX-License-Identifier: MIT

package permute

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/condmi/metrics"
)

// Sentinel errors.
var (
	ErrNilEstimator = errors.New("permute: estimator is nil")
	ErrBadSamples   = errors.New("permute: number of permutations must be non-negative")
	ErrBadWorkers   = errors.New("permute: workers must be non-negative")
	ErrBadTarget    = errors.New("permute: invalid permutation target")
	ErrBadScheme    = errors.New("permute: invalid permutation scheme")
)

// Target names the variable whose rows are reordered.
type Target int

const (
	// TargetY reorders Y (default; X and Z keep their pairing).
	TargetY Target = iota
	// TargetX reorders X.
	TargetX
	// TargetZ reorders the conditioning variable.
	TargetZ
)

// String returns "x", "y" or "z".
func (t Target) String() string {
	switch t {
	case TargetX:
		return "x"
	case TargetY:
		return "y"
	case TargetZ:
		return "z"
	}

	return fmt.Sprintf("target(%d)", int(t))
}

// ParseTarget maps "x", "y" or "z" (any case) to a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return TargetX, nil
	case "y", "":
		return TargetY, nil
	case "z":
		return TargetZ, nil
	}

	return 0, fmt.Errorf("%q: %w", s, ErrBadTarget)
}

// Scheme selects how the target rows are reordered.
type Scheme int

const (
	// Global draws a uniform permutation of all rows.
	Global Scheme = iota
	// Local restricts each row's replacement to its neighbourhood in Z.
	// Overlapping neighbourhoods can hand one row to several others, so a
	// Local draw is a restricted resampling rather than a permutation.
	Local
)

// String returns "global" or "local".
func (s Scheme) String() string {
	switch s {
	case Global:
		return "global"
	case Local:
		return "local"
	}

	return fmt.Sprintf("scheme(%d)", int(s))
}

// ParseScheme maps "global" or "local" (any case) to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "":
		return Global, nil
	case "local":
		return Local, nil
	}

	return 0, fmt.Errorf("%q: %w", s, ErrBadScheme)
}

// Defaults.
const (
	DefaultSamples   = 100
	DefaultNeighbors = 5
)

// DefaultSeed replaces a zero Options.Seed.
const DefaultSeed int64 = 1

// Options configures Test.
//
//   - Samples        — P, number of permutation runs; 0 skips the test.
//   - Seed           — base seed; 0 selects DefaultSeed.
//   - Workers        — concurrent runs; 0 selects GOMAXPROCS.
//   - Target         — variable to reorder.
//   - Scheme         — Global or Local.
//   - LocalNeighbors — Z-neighbours each row may draw from (Local only);
//     0 selects DefaultNeighbors.
//   - KeepNull       — return the null values in Outcome.Null.
//   - Logger         — nil selects zap.NewNop().
//   - Recorder       — nil selects metrics.Nop.
type Options struct {
	Samples        int
	Seed           int64
	Workers        int
	Target         Target
	Scheme         Scheme
	LocalNeighbors int
	KeepNull       bool
	Logger         *zap.Logger
	Recorder       metrics.Recorder
}

// DefaultOptions returns P=100, Seed=1, Y target, Global scheme.
func DefaultOptions() Options {
	return Options{
		Samples:        DefaultSamples,
		Seed:           DefaultSeed,
		Target:         TargetY,
		Scheme:         Global,
		LocalNeighbors: DefaultNeighbors,
	}
}

// Outcome is the result of one permutation test.
type Outcome struct {
	// Observed is the estimate on the unpermuted data.
	Observed float64
	// PValue is (Exceed+1)/(Completed+1), or NaN when no test was requested.
	PValue float64
	// Exceed counts null values ≥ Observed.
	Exceed int
	// Completed and Requested count permutation runs.
	Completed int
	Requested int
	// Approximate is set when a deadline stopped the test early.
	Approximate bool
	// Null holds the completed null values in run order (KeepNull only).
	Null []float64
}
