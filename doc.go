// Package condmi estimates conditional mutual information I(X;Y|Z) between
// continuous multivariate samples and tests it for significance with a
// permutation null distribution.
//
// 🚀 What is condmi?
//
//	A small, dependency-light toolkit that brings together:
//		• k-NN estimation: Kraskov–Stögbauer–Grassberger / Frenzel–Pompe CMI
//		• Neighbour search: brute force or a gonum k-d tree, Chebyshev metric
//		• Permutation tests: global or Z-local shuffles on a bounded worker pool
//		• Discrete data: a plug-in estimator over exact event counts
//		• Adapters: numeric slices, observation matrices, CSV tables
//		• Observability: zap logging, OpenTelemetry spans, Prometheus metrics
//
// ✨ Why choose condmi?
//
//   - Deterministic – equal seeds give equal p-values for any worker count
//   - Bounded – deadlines stop the test early and flag the result approximate
//   - Pluggable – any estimate.Estimator can drive the permutation test
//
// Packages:
//
//	cmi/      — Compute: the public entry point, options and Result
//	estimate/ — KSG and Discrete estimators behind one Estimator interface
//	neighbor/ — max-norm k-th distance, strict radius counts, nearest lists
//	permute/  — seeded permutation test (Global and Local schemes)
//	sample/   — immutable N×d observation matrices and input adapters
//	table/    — named numeric columns read from CSV
//	metrics/  — Recorder interface with a Prometheus implementation
//	cmd/condmi — command-line front end
//
// Quick example:
//
//	res, err := cmi.Compute(x, y, z, cmi.WithK(5), cmi.WithPermutations(500))
//	if err != nil { … }
//	fmt.Printf("I(X;Y|Z)=%.3f nats, p=%.3f\n", res.CMI, res.PValue)
//
// A nil z computes plain mutual information I(X;Y).
//
//	go get github.com/katalvlaran/condmi/cmi
package condmi
