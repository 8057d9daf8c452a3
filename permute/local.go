// SPDX-License-Identifier: MIT

package permute

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/condmi/neighbor"
	"github.com/katalvlaran/condmi/sample"
)

// localPool lists, for every row i, the rows i may draw its replacement
// from: i itself followed by its m nearest neighbours in Z.
//
// Complexity: O(N·query) with the Auto neighbour index.
func localPool(z *sample.Matrix, m int) ([][]int, error) {
	n := z.Len()
	if m > n-1 {
		m = n - 1
	}
	pool := make([][]int, n)
	if m == 0 {
		for i := range pool {
			pool[i] = []int{i}
		}
		return pool, nil
	}

	idx, err := neighbor.New(z)
	if err != nil {
		return nil, fmt.Errorf("permute: local pool: %w", err)
	}
	var nn []int
	for i := range pool {
		if nn, err = idx.Nearest(i, m); err != nil {
			return nil, fmt.Errorf("permute: local pool row %d: %w", i, err)
		}
		pool[i] = append([]int{i}, nn...)
	}

	return pool, nil
}

// localPerm draws one restricted shuffle. Rows are visited in random order;
// each takes the first row of its shuffled pool that nobody has taken yet,
// or the last pool entry when the whole pool is taken. The result is a row
// gather for sample.Matrix.Take and may repeat rows when pools overlap
// heavily.
//
// Complexity: O(N·m).
func localPerm(pool [][]int, rng *rand.Rand) []int {
	n := len(pool)
	out := make([]int, n)
	used := make([]bool, n)
	cand := make([]int, 0, len(pool[0]))
	for _, i := range permRange(n, rng) {
		cand = append(cand[:0], pool[i]...)
		shuffle(cand, rng)
		pick := cand[len(cand)-1]
		for _, c := range cand {
			if !used[c] {
				pick = c
				break
			}
		}
		out[i] = pick
		used[pick] = true
	}

	return out
}
