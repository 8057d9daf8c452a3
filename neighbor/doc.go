// Package neighbor answers the two neighbour queries of k-NN information
// estimators under the Chebyshev (max-coordinate) metric:
//
//	KthDistance(i, k) — distance from point i to its k-th nearest other point
//	CountWithin(i, r) — number of other points strictly closer than r
//
// The max-norm decomposes over coordinate blocks: a point within r of i in
// the joint space XYZ is within r in every projection (XZ, YZ, Z). That is
// what lets the conditional estimator reuse one radius across subspaces.
//
// Strategies:
//   - BruteForce — O(N) scan per query, zero build cost. Best for small N.
//   - KDTree     — gonum k-d tree, O(log N) average per query after an
//     O(N log N) build.
//   - Auto       — BruteForce up to Options.BruteForceLimit points, KDTree above.
//
// Both strategies return identical answers; the tie policy is fixed:
// CountWithin uses a strict "<", so points exactly at distance r are never
// counted.
//
// Indexes copy their points at construction, are read-only afterwards and
// are safe for concurrent queries.
package neighbor
