package neighbor_test

import (
	"fmt"

	"github.com/katalvlaran/condmi/neighbor"
	"github.com/katalvlaran/condmi/sample"
)

// ExampleNew shows the two estimator queries on a small 2-D space.
func ExampleNew() {
	m, _ := sample.New([][]float64{{0, 0}, {1, 2}, {3, 1}, {0.5, 0.5}})
	idx, _ := neighbor.New(m)

	eps, _ := idx.KthDistance(0, 2)
	n, _ := idx.CountWithin(0, eps)
	fmt.Println(eps, n)
	// Output: 2 1
}
