// SPDX-License-Identifier: MIT
// Package permute: deterministic random streams.
//
// math/rand.Rand is not goroutine-safe; every permutation run gets its own
// generator derived from (Seed, run index), so no generator is ever shared.

package permute

import "math/rand"

// seedOrDefault applies the seed==0 policy.
func seedOrDefault(seed int64) int64 {
	if seed == 0 {
		return DefaultSeed
	}

	return seed
}

// deriveSeed mixes a parent seed and a stream identifier with the SplitMix64
// finalizer: neighbouring streams get unrelated seeds.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// runRNG returns the generator of permutation run r.
func runRNG(seed int64, r int) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(seedOrDefault(seed), uint64(r))))
}

// shuffle performs an in-place Fisher–Yates shuffle of a.
//
// Complexity: O(n).
func shuffle(a []int, rng *rand.Rand) {
	var i, j int
	for i = len(a) - 1; i > 0; i-- {
		j = rng.Intn(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}

// permRange returns a uniform permutation of 0..n-1.
//
// Complexity: O(n) time and space.
func permRange(n int, rng *rand.Rand) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	shuffle(p, rng)

	return p
}
