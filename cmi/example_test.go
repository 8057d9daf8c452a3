package cmi_test

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/condmi/cmi"
)

// ExampleCompute: Y copies X, Z carries nothing. The dependence is strong
// and no permutation of Y comes close.
func ExampleCompute() {
	x := make([]int, 100)
	for i := range x {
		x[i] = i
	}
	z := make([]int, 100)

	res, err := cmi.Compute(x, x, z, cmi.WithPermutations(200), cmi.WithSeed(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("cmi=%.3f p=%.4f\n", res.CMI, res.PValue)
	// Output: cmi=3.677 p=0.0050
}

// ExampleCompute_commonCause: X and Y are both noisy copies of Z. They are
// dependent, but independent once Z is accounted for.
func ExampleCompute_commonCause() {
	r := rand.New(rand.NewSource(4))
	n := 300
	x, y, z := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range z {
		z[i] = r.Float64()
		x[i] = z[i] + 0.1*r.Float64()
		y[i] = z[i] + 0.1*r.Float64()
	}

	mi, _ := cmi.Compute(x, y, nil, cmi.WithPermutations(0))
	cond, _ := cmi.Compute(x, y, z, cmi.WithPermutations(0))
	fmt.Println(mi.CMI > 1, cond.CMI < 0.2)
	// Output: true true
}
