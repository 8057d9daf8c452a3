// SPDX-License-Identifier: MIT

package neighbor

import "sort"

// Brute answers queries by scanning every point. It has no build cost beyond
// copying the points, and wins over the k-d tree for small N and for high
// dimensions where tree pruning degrades.
type Brute struct {
	pts points
}

// NewBrute copies s into a brute-force index.
//
// Errors: ErrEmptySpace.
// Complexity: O(N·d).
func NewBrute(s Space) (*Brute, error) {
	p, err := load(s)
	if err != nil {
		return nil, err
	}

	return &Brute{pts: p}, nil
}

// Len returns the number of indexed points.
func (b *Brute) Len() int { return b.pts.n }

// KthDistance keeps the k smallest distances seen so far in a sorted buffer
// and returns the largest of them.
//
// Complexity: O(N·k) time, O(k) space.
func (b *Brute) KthDistance(i, k int) (float64, error) {
	if err := b.pts.checkPoint(i); err != nil {
		return 0, err
	}
	if err := b.pts.checkK(k); err != nil {
		return 0, err
	}

	best := make([]float64, 0, k) // ascending
	var (
		j, pos int
		d      float64
	)
	for j = 0; j < b.pts.n; j++ {
		if j == i {
			continue
		}
		d = b.pts.dist(i, j)
		if len(best) == k && d >= best[k-1] {
			continue
		}
		// insertion point keeps best sorted
		pos = sort.SearchFloat64s(best, d)
		if len(best) < k {
			best = append(best, 0)
		}
		copy(best[pos+1:], best[pos:len(best)-1])
		best[pos] = d
	}

	return best[k-1], nil
}

// CountWithin counts points j ≠ i with dist(i, j) < r.
//
// Complexity: O(N·d).
func (b *Brute) CountWithin(i int, r float64) (int, error) {
	if err := b.pts.checkPoint(i); err != nil {
		return 0, err
	}
	if err := checkRadius(r); err != nil {
		return 0, err
	}

	count := 0
	for j := 0; j < b.pts.n; j++ {
		if j != i && b.pts.dist(i, j) < r {
			count++
		}
	}

	return count, nil
}

// Nearest sorts every other point by (distance, index) and keeps the first m.
//
// Complexity: O(N log N).
func (b *Brute) Nearest(i, m int) ([]int, error) {
	if err := b.pts.checkPoint(i); err != nil {
		return nil, err
	}
	if err := b.pts.checkK(m); err != nil {
		return nil, err
	}

	cand := make([]ranked, 0, b.pts.n-1)
	for j := 0; j < b.pts.n; j++ {
		if j != i {
			cand = append(cand, ranked{idx: j, dist: b.pts.dist(i, j)})
		}
	}

	return firstM(cand, m), nil
}

// ranked pairs a point index with its distance to the query.
type ranked struct {
	idx  int
	dist float64
}

// firstM orders cand by (dist, idx) and returns the first m indices.
func firstM(cand []ranked, m int) []int {
	sort.Slice(cand, func(a, b int) bool {
		if cand[a].dist != cand[b].dist {
			return cand[a].dist < cand[b].dist
		}
		return cand[a].idx < cand[b].idx
	})
	if m > len(cand) {
		m = len(cand)
	}
	out := make([]int, m)
	for a := 0; a < m; a++ {
		out[a] = cand[a].idx
	}

	return out
}
