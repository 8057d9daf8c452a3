// SPDX-License-Identifier: MIT

package sample

import "fmt"

const opJoin = "Join"

// Joint is a read-only view concatenating the coordinates of several
// matrices per observation: observation i of Join(x, z) is x[i] ‖ z[i].
// Nothing is copied; neighbour indexes pull points through Fill.
type Joint struct {
	parts []*Matrix
	n     int
	d     int
}

// Join builds the joint view of parts, in order.
//
// Errors: ErrShape when no part is given, a part is nil, or the parts
// disagree on the number of observations.
// Complexity: O(len(parts)).
func Join(parts ...*Matrix) (*Joint, error) {
	if len(parts) == 0 || parts[0] == nil {
		return nil, sampleErrorf(opJoin, ErrShape)
	}
	j := &Joint{parts: parts, n: parts[0].Len()}
	for k, p := range parts {
		if p == nil {
			return nil, fmt.Errorf("%s: part %d is nil: %w", opJoin, k, ErrShape)
		}
		if p.Len() != j.n {
			return nil, fmt.Errorf("%s: part %d has %d observations, want %d: %w", opJoin, k, p.Len(), j.n, ErrShape)
		}
		j.d += p.Dims()
	}

	return j, nil
}

// Len returns the number of observations.
func (j *Joint) Len() int { return j.n }

// Dims returns the total number of coordinates.
func (j *Joint) Dims() int { return j.d }

// Fill writes observation i into dst[:Dims()].
func (j *Joint) Fill(i int, dst []float64) {
	off := 0
	for _, p := range j.parts {
		p.Fill(i, dst[off:])
		off += p.Dims()
	}
}
