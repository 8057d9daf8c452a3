// Package permute assesses the significance of a CMI estimate with a
// permutation test.
//
// 🚀 How it works:
//
//  1. Estimate I(X;Y|Z) on the observed data.
//  2. P times: reorder the rows of one variable (the target), breaking its
//     link with the others, and estimate again. Each value is one draw from
//     the null distribution.
//  3. p = (#{null ≥ observed} + 1) / (completed + 1).
//
// The add-one correction keeps p inside [1/(P+1), 1]: a finite number of
// runs can never prove a probability of zero. P = 0 skips the test and
// reports p = NaN.
//
// ✨ Schemes:
//   - Global — uniform Fisher–Yates permutation of the target rows. Tests
//     X ⫫ Y when applied without Z, and is the conventional default.
//   - Local  — each row draws its replacement from its nearest neighbours in
//     Z, preferring rows not drawn yet. The shuffle keeps the target's
//     relation with Z and breaks only the X–Y link given Z, which is the
//     null of conditional independence.
//
// ⚙️ Determinism & concurrency:
//   - Run r draws from its own generator seeded with mix(Seed, r), so the
//     p-value depends on Seed only, never on Workers or scheduling.
//   - Runs execute on an errgroup pool of Workers goroutines; inputs are
//     read-only and the two counters are atomic.
//   - When ctx expires no new run starts; the outcome is flagged Approximate
//     and p is computed on the runs that finished.
//
// Errors:
//   - ErrNilEstimator — no estimator supplied.
//   - ErrBadSamples   — P < 0.
//   - ErrBadWorkers   — Workers < 0.
//   - ErrBadTarget    — unknown target, Z target without Z, or Local scheme on Z.
//   - ErrBadScheme    — unknown scheme, Local without Z, or LocalNeighbors < 0.
//   - estimator errors are returned unchanged (wrapped with context).
package permute
