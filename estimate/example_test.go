package estimate_test

import (
	"fmt"
	"math"

	"github.com/katalvlaran/condmi/estimate"
	"github.com/katalvlaran/condmi/sample"
)

// ExampleKNN estimates the information X carries about an exact copy of
// itself, with a constant (uninformative) condition.
func ExampleKNN() {
	v := make([]float64, 100)
	for i := range v {
		v[i] = float64(i)
	}
	x, _ := sample.FromVector(v)
	z, _ := sample.FromVector(make([]float64, 100))

	cmi, err := estimate.KNN(x, x, z, 3, math.E)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.4f nats\n", cmi)
	// Output: 3.6774 nats
}

// ExampleDiscrete: X is the XOR of Y and Z, so it is independent of Y alone
// and fully determined once Z is known.
func ExampleDiscrete() {
	x, _ := sample.FromVector([]float64{0, 1, 1, 0})
	y, _ := sample.FromVector([]float64{0, 0, 1, 1})
	z, _ := sample.FromVector([]float64{0, 1, 0, 1})

	e := estimate.Discrete{Base: 2}
	mi, _ := e.Estimate(x, y, nil)
	cmi, _ := e.Estimate(x, y, z)
	fmt.Printf("%.1f %.1f\n", mi, cmi)
	// Output: 0.0 1.0
}
