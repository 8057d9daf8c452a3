// Package sample holds the observation matrices fed to the CMI estimators.
//
// 🚀 What is a sample matrix?
//
//	One Matrix is one random variable (X, Y or Z) observed N times. Each row is
//	one observation, a point in a d-dimensional real space:
//
//	  obs 0 → [x₀₀, x₀₁, …, x₀,d₋₁]
//	  obs 1 → [x₁₀, x₁₁, …, x₁,d₋₁]
//	  …
//
//	Matrices are immutable once built. Every accessor that hands out a slice
//	hands out a copy, so a Matrix can be shared freely between goroutines.
//
// ✨ Key features:
//   - row-major flat storage (cache friendly, one allocation)
//   - strict construction: ragged rows, empty input and NaN/±Inf are rejected
//   - typed adapters: FromAny widens every Go integer and float kind to float64
//   - Joint: on-demand concatenation of several variables per observation
//   - Take: row gather used by permutation tests (repeats allowed)
//
// ⚙️ Usage:
//
//	x, err := sample.New([][]float64{{0.1, 1}, {0.4, 2}, {0.9, 3}})
//	z, err := sample.FromAny([]int{0, 0, 1})
//	xz, err := sample.Join(x, z) // 3 observations × 3 coordinates
//
// Errors:
//   - ErrShape     — empty input, zero-width rows, ragged rows, N mismatch in Join.
//   - ErrType      — element type is not a Go number.
//   - ErrNonFinite — NaN or ±Inf (missing values are not supported).
//   - ErrOutOfRange — bad row/column index.
package sample
