// SPDX-License-Identifier: MIT

package estimate

import (
	"math"

	"github.com/katalvlaran/condmi/sample"
)

// Estimator computes I(X;Y|Z) for one set of samples. Implementations are
// stateless values, safe for concurrent use.
type Estimator interface {
	// Name is the short identifier used in results and logs.
	Name() string

	// Estimate returns the CMI of x and y given z (z == nil ⇒ plain MI).
	Estimate(x, y, z *sample.Matrix) (float64, error)
}

// Estimator names.
const (
	NameKNN      = "knn"
	NameDiscrete = "discrete"
)

// Defaults shared by the estimators and their callers.
const (
	DefaultK    = 3
	DefaultBase = math.E
)
