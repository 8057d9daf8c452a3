// Package cmi computes the conditional mutual information I(X;Y|Z) of sampled
// variables and its permutation-test p-value in one call.
//
// 🚀 What does it answer?
//
//	"Once Z is known, does X still tell me anything about Y?"
//
//	CMI is zero exactly when X and Y are conditionally independent given Z,
//	and grows with the dependence Z fails to explain. The p-value says how
//	often data with the X–Y link destroyed (by reordering one variable)
//	produces an estimate at least as large as the observed one.
//
// ✨ Key features:
//   - k-NN estimator (Frenzel–Pompe / KSG) for continuous vector data,
//     plug-in estimator for discrete data
//   - brute-force or k-d tree neighbour search, chosen by sample size
//   - reproducible permutation test on a parallel worker pool
//   - global or Z-local permutation schemes, selectable permuted variable
//   - optional deadline with an explicitly approximate p-value
//   - zap logging, OpenTelemetry spans and Prometheus metrics, all off by default
//
// ⚙️ Usage:
//
//	res, err := cmi.Compute(x, y, z)                        // k=3, P=100, nats
//	res, err = cmi.Compute(x, y, nil, cmi.WithBase(2))      // plain MI in bits
//	res, err = cmi.ComputeContext(ctx, x, y, z,
//	    cmi.WithK(5),
//	    cmi.WithPermutations(1000),
//	    cmi.WithScheme(permute.Local),
//	    cmi.WithTimeout(30*time.Second))
//
// Inputs may be *sample.Matrix, table.Selection, or any form accepted by
// sample.FromAny: []T and [][]T for every Go numeric kind, []any, [][]any.
// A nil z computes the unconditional mutual information I(X;Y).
//
// Validation happens before any neighbour search, in this order: input
// normalisation (ErrType, ErrShape, ErrNonFinite), equal N (ErrShape),
// options, then N > k (ErrInsufficientSamples).
//
// Errors:
//   - ErrShape, ErrType, ErrNonFinite — malformed input.
//   - ErrInsufficientSamples          — N ≤ k.
//   - ErrBadK, ErrBadBase, ErrBadTimeout, ErrUnknownEstimator — bad options.
//   - ErrBadSamples, ErrBadWorkers, ErrBadTarget, ErrBadScheme — bad test options.
package cmi
