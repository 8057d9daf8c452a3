package estimate_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/condmi/estimate"
	"github.com/katalvlaran/condmi/neighbor"
)

func benchKSG(b *testing.B, s neighbor.Strategy, n int) {
	r := rand.New(rand.NewSource(1))
	x, y, z := vec(b, uniform(r, n)), vec(b, uniform(r, n)), vec(b, uniform(r, n))
	e := estimate.KSG{K: 3, Base: math.E, Index: neighbor.Options{Strategy: s}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Estimate(x, y, z); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKSG_Brute_N500(b *testing.B)   { benchKSG(b, neighbor.BruteForce, 500) }
func BenchmarkKSG_KDTree_N500(b *testing.B)  { benchKSG(b, neighbor.KDTree, 500) }
func BenchmarkKSG_KDTree_N5000(b *testing.B) { benchKSG(b, neighbor.KDTree, 5000) }

func BenchmarkDiscrete_N5000(b *testing.B) {
	r := rand.New(rand.NewSource(2))
	n := 5000
	xs, ys, zs := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i], zs[i] = float64(r.Intn(4)), float64(r.Intn(4)), float64(r.Intn(3))
	}
	x, y, z := vec(b, xs), vec(b, ys), vec(b, zs)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (estimate.Discrete{}).Estimate(x, y, z); err != nil {
			b.Fatal(err)
		}
	}
}
