// SPDX-License-Identifier: MIT
// Package neighbor: k-d tree strategy built on gonum's spatial/kdtree.
//
// gonum visits the far side of a splitting plane when c·c <= Max().Dist,
// where c is what Compare returns. Squared Chebyshev distances overflow to
// +Inf above ~1e154 and flush to 0 below ~1e-162, where every candidate ties
// and NKeeper keeps arbitrary points. Distance therefore reports the plain
// Chebyshev distance and Compare reports the signed offset o as
// sign(o)·√|o|·(1−2⁻⁵⁰), so that c·c never exceeds |o| after rounding. Every
// subtree holding a point within the current radius is visited, at any
// magnitude of finite input.
//
// Results are recomputed from the stored points, so answers match Brute bit
// for bit.

package neighbor

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// shrink keeps the squared plane offset at or below the true offset.
const shrink = 1 - 0x1p-50

// Tree answers queries with a gonum k-d tree over the copied points.
type Tree struct {
	pts  points
	tree *kdtree.Tree
}

// NewTree copies s and builds a k-d tree with median-of-medians pivots
// (deterministic structure for a given input).
//
// Errors: ErrEmptySpace.
// Complexity: O(N·d·log N).
func NewTree(s Space) (*Tree, error) {
	p, err := load(s)
	if err != nil {
		return nil, err
	}
	list := make(kdPoints, p.n)
	for i := range list {
		list[i] = kdPoint{idx: i, coords: p.row(i)}
	}

	return &Tree{pts: p, tree: kdtree.New(list, false)}, nil
}

// Len returns the number of indexed points.
func (t *Tree) Len() int { return t.pts.n }

// query wraps point i as a search key.
func (t *Tree) query(i int) kdPoint {
	return kdPoint{idx: i, coords: t.pts.row(i)}
}

// KthDistance keeps the k+1 nearest points (the query itself included, at
// distance 0) and returns the largest kept distance. When more than k+1
// points coincide with the query the query may be displaced, but every kept
// distance is then 0, which is still the right answer.
//
// Complexity: O(log N + k log k) average.
func (t *Tree) KthDistance(i, k int) (float64, error) {
	if err := t.pts.checkPoint(i); err != nil {
		return 0, err
	}
	if err := t.pts.checkK(k); err != nil {
		return 0, err
	}

	keeper := kdtree.NewNKeeper(k + 1)
	q := t.query(i)
	t.tree.NearestSet(keeper, q)

	var best float64
	for _, c := range keeper.Heap {
		p, ok := c.Comparable.(kdPoint)
		if !ok {
			continue // sentinel
		}
		if d := chebyshev(q.coords, p.coords); d > best {
			best = d
		}
	}

	return best, nil
}

// CountWithin walks the tree with a counting keeper: nothing is stored, the
// keeper only increments when a visited point lies strictly inside r.
//
// Complexity: O(log N + m) average, m = points inside the search box.
func (t *Tree) CountWithin(i int, r float64) (int, error) {
	if err := t.pts.checkPoint(i); err != nil {
		return 0, err
	}
	if err := checkRadius(r); err != nil {
		return 0, err
	}

	q := t.query(i)
	keeper := &countKeeper{query: q, radius: r}
	t.tree.NearestSet(keeper, q)

	return keeper.count, nil
}

// Nearest keeps the m+1 nearest points, drops the query and orders the rest
// by (distance, index). Ties at the m-th distance may resolve to different
// indices than Brute, because the tree decides which tied point it keeps.
//
// Complexity: O(log N + m log m) average.
func (t *Tree) Nearest(i, m int) ([]int, error) {
	if err := t.pts.checkPoint(i); err != nil {
		return nil, err
	}
	if err := t.pts.checkK(m); err != nil {
		return nil, err
	}

	keeper := kdtree.NewNKeeper(m + 1)
	q := t.query(i)
	t.tree.NearestSet(keeper, q)

	cand := make([]ranked, 0, m+1)
	for _, c := range keeper.Heap {
		p, ok := c.Comparable.(kdPoint)
		if !ok || p.idx == i {
			continue
		}
		cand = append(cand, ranked{idx: p.idx, dist: chebyshev(q.coords, p.coords)})
	}

	return firstM(cand, m), nil
}

// countKeeper satisfies kdtree.Keeper without keeping anything: Max reports
// the fixed radius so the search prunes correctly, and Keep counts.
type countKeeper struct {
	query  kdPoint
	radius float64
	count  int
}

// Keep counts c when it is another point strictly inside the radius.
func (k *countKeeper) Keep(c kdtree.ComparableDist) {
	p, ok := c.Comparable.(kdPoint)
	if !ok || p.idx == k.query.idx {
		return
	}
	if chebyshev(k.query.coords, p.coords) < k.radius {
		k.count++
	}
}

// Max returns the search radius.
func (k *countKeeper) Max() kdtree.ComparableDist {
	return kdtree.ComparableDist{Dist: k.radius}
}

// The heap is always empty.
func (k *countKeeper) Len() int           { return 0 }
func (k *countKeeper) Less(i, j int) bool { return false }
func (k *countKeeper) Swap(i, j int)      {}
func (k *countKeeper) Push(x any)         {}
func (k *countKeeper) Pop() any           { return nil }

// kdPoint is one indexed point; coords aliases the index's point store.
type kdPoint struct {
	idx    int
	coords []float64
}

// Compare returns the signed square root of p's offset from c along
// dimension d, shrunk so that its square never exceeds the offset.
func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	o := p.coords[d] - q.coords[d]
	if o < 0 {
		return -math.Sqrt(-o) * shrink
	}

	return math.Sqrt(o) * shrink
}

// Dims returns the number of coordinates.
func (p kdPoint) Dims() int { return len(p.coords) }

// Distance returns the Chebyshev distance.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	return chebyshev(p.coords, c.(kdPoint).coords)
}

// kdPoints is the kdtree.Interface over the point list.
type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot partitions around a median-of-medians on dimension d.
func (p kdPoints) Pivot(d kdtree.Dim) int {
	plane := kdPlane{kdPoints: p, Dim: d}
	return kdtree.Partition(plane, kdtree.MedianOfMedians(plane))
}

// kdPlane implements sort.Interface and kdtree.SortSlicer along one dimension.
type kdPlane struct {
	kdPoints
	kdtree.Dim
}

func (p kdPlane) Less(i, j int) bool {
	return p.kdPoints[i].coords[p.Dim] < p.kdPoints[j].coords[p.Dim]
}

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPlane{kdPoints: p.kdPoints[start:end], Dim: p.Dim}
}

func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}
