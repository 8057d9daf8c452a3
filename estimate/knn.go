// SPDX-License-Identifier: MIT
// Package estimate: k-NN conditional mutual information.
//
// Stage 1 (Validate): k ≥ 1, base usable, x/y/z present with equal N > k.
// Stage 2 (Index):    one neighbour index per space: XYZ, XZ, YZ, Z.
// Stage 3 (Sum):      ε_i from XYZ, strict counts in the three projections,
//                     digamma sums accumulated in one pass.
//
// The max-norm of a concatenation is the max of the block norms, so a point
// strictly inside ε_i in XYZ is strictly inside ε_i in every projection.

package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mathext"

	"github.com/katalvlaran/condmi/neighbor"
	"github.com/katalvlaran/condmi/sample"
)

// KSG is the k-NN CMI estimator.
//
//   - K     — neighbour rank in the joint space; must be ≥ 1.
//   - Base  — logarithm base of the result; 0 selects e.
//   - Index — neighbour index options; the zero value selects
//     neighbor.DefaultOptions().
type KSG struct {
	K     int
	Base  float64
	Index neighbor.Options
}

// KNN estimates I(X;Y|Z) with k neighbours, reported in the given log base.
//
// Errors: ErrShape, ErrInsufficientSamples, ErrBadK, ErrBadBase, and index
// construction errors from package neighbor.
// Complexity: O(N·log N) with the k-d tree, O(N²) brute force (times d).
func KNN(x, y, z *sample.Matrix, k int, base float64) (float64, error) {
	return KSG{K: k, Base: base}.Estimate(x, y, z)
}

// Name returns NameKNN.
func (e KSG) Name() string { return NameKNN }

// Estimate implements Estimator.
func (e KSG) Estimate(x, y, z *sample.Matrix) (float64, error) {
	const name = "KNN"
	if e.K < 1 {
		return 0, fmt.Errorf("%s: k=%d: %w", name, e.K, ErrBadK)
	}
	base := e.Base
	if base == 0 {
		base = DefaultBase
	}
	lnBase, err := checkBase(name, base)
	if err != nil {
		return 0, err
	}
	n, err := checkInputs(name, x, y, z, e.K)
	if err != nil {
		return 0, err
	}

	opts := e.Index
	if opts == (neighbor.Options{}) {
		opts = neighbor.DefaultOptions()
	}
	sp, err := buildSpaces(x, y, z, opts)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	var (
		i            int
		eps          float64
		nxz, nyz, nz int
		sum          float64
	)
	psiN := mathext.Digamma(float64(n)) // ψ(n_z+1) with n_z = N−1 when z is nil
	for i = 0; i < n; i++ {
		if eps, err = sp.xyz.KthDistance(i, e.K); err != nil {
			return 0, fmt.Errorf("%s: point %d: %w", name, i, err)
		}
		if nxz, err = sp.xz.CountWithin(i, eps); err != nil {
			return 0, fmt.Errorf("%s: point %d: %w", name, i, err)
		}
		if nyz, err = sp.yz.CountWithin(i, eps); err != nil {
			return 0, fmt.Errorf("%s: point %d: %w", name, i, err)
		}
		sum += mathext.Digamma(float64(nxz+1)) + mathext.Digamma(float64(nyz+1))
		if sp.z == nil {
			sum -= psiN
			continue
		}
		if nz, err = sp.z.CountWithin(i, eps); err != nil {
			return 0, fmt.Errorf("%s: point %d: %w", name, i, err)
		}
		sum -= mathext.Digamma(float64(nz + 1))
	}

	nats := mathext.Digamma(float64(e.K)) - sum/float64(n)

	return nats / lnBase, nil
}

// spaces holds the four indexes of one estimation; z is nil for plain MI.
type spaces struct {
	xyz, xz, yz, z neighbor.Index
}

// buildSpaces indexes XYZ, XZ, YZ and Z (or XY, X, Y when z is nil).
func buildSpaces(x, y, z *sample.Matrix, o neighbor.Options) (spaces, error) {
	var (
		sp             spaces
		jxyz, jxz, jyz neighbor.Space
		err            error
		joint          *sample.Joint
	)
	if z == nil {
		if joint, err = sample.Join(x, y); err != nil {
			return sp, err
		}
		jxyz, jxz, jyz = joint, x, y
	} else {
		if joint, err = sample.Join(x, y, z); err != nil {
			return sp, err
		}
		jxyz = joint
		if joint, err = sample.Join(x, z); err != nil {
			return sp, err
		}
		jxz = joint
		if joint, err = sample.Join(y, z); err != nil {
			return sp, err
		}
		jyz = joint
		if sp.z, err = neighbor.NewWithOptions(z, o); err != nil {
			return sp, err
		}
	}
	if sp.xyz, err = neighbor.NewWithOptions(jxyz, o); err != nil {
		return sp, err
	}
	if sp.xz, err = neighbor.NewWithOptions(jxz, o); err != nil {
		return sp, err
	}
	if sp.yz, err = neighbor.NewWithOptions(jyz, o); err != nil {
		return sp, err
	}

	return sp, nil
}
