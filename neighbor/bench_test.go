package neighbor_test

import (
	"testing"

	"github.com/katalvlaran/condmi/neighbor"
)

// benchQueries runs one KthDistance plus one CountWithin per point, the
// access pattern of the k-NN estimator.
func benchQueries(b *testing.B, s neighbor.Strategy, n, d int) {
	m := randomMatrix(b, 7, n, d, 1<<20)
	idx, err := neighbor.New(m, neighbor.WithStrategy(s))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for it := 0; it < b.N; it++ {
		for i := 0; i < n; i++ {
			eps, _ := idx.KthDistance(i, 3)
			_, _ = idx.CountWithin(i, eps)
		}
	}
}

func BenchmarkBrute_N1000_D3(b *testing.B)  { benchQueries(b, neighbor.BruteForce, 1000, 3) }
func BenchmarkKDTree_N1000_D3(b *testing.B) { benchQueries(b, neighbor.KDTree, 1000, 3) }
func BenchmarkKDTree_N5000_D3(b *testing.B) { benchQueries(b, neighbor.KDTree, 5000, 3) }

// BenchmarkKDTree_Build measures tree construction alone.
func BenchmarkKDTree_Build(b *testing.B) {
	m := randomMatrix(b, 7, 5000, 3, 1<<20)
	b.ResetTimer()
	for it := 0; it < b.N; it++ {
		if _, err := neighbor.NewTree(m); err != nil {
			b.Fatal(err)
		}
	}
}
