// SPDX-License-Identifier: MIT

package cmi

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Result is the outcome of one computation.
type Result struct {
	// CMI is the estimate on the observed data, in units of Base.
	CMI float64 `json:"cmi" yaml:"cmi"`
	// PValue lies in [1/(Completed+1), 1]; NaN when no test was run.
	PValue float64 `json:"p_value" yaml:"p_value"`

	// K and Base are the neighbour count and log base the estimator
	// applied; zero when it does not expose them.
	Estimator string  `json:"estimator" yaml:"estimator"`
	K         int     `json:"k,omitempty" yaml:"k,omitempty"`
	Base      float64 `json:"base,omitempty" yaml:"base,omitempty"`
	N         int     `json:"n" yaml:"n"`

	// Permutation test diagnostics.
	Permutations int    `json:"permutations" yaml:"permutations"`
	Completed    int    `json:"completed" yaml:"completed"`
	Exceed       int    `json:"exceed" yaml:"exceed"`
	Approximate  bool   `json:"approximate" yaml:"approximate"`
	Target       string `json:"target" yaml:"target"`
	Scheme       string `json:"scheme" yaml:"scheme"` // "local" draws may repeat rows
	Seed         int64  `json:"seed" yaml:"seed"`

	// NullMean and NullStdDev summarise the permuted estimates; NaN with
	// fewer than two completed runs.
	NullMean   float64   `json:"null_mean" yaml:"null_mean"`
	NullStdDev float64   `json:"null_stddev" yaml:"null_stddev"`
	Null       []float64 `json:"null,omitempty" yaml:"null,omitempty"`

	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Significant reports whether the test rejected independence at level
// alpha. It is false when no test was run.
func (r Result) Significant(alpha float64) bool {
	return !math.IsNaN(r.PValue) && r.PValue <= alpha
}

// summarise returns the mean and sample standard deviation of null.
func summarise(null []float64) (mean, std float64) {
	if len(null) < 2 {
		return math.NaN(), math.NaN()
	}

	return stat.MeanStdDev(null, nil)
}
