// SPDX-License-Identifier: MIT

package cmi

import (
	"fmt"

	"github.com/katalvlaran/condmi/sample"
	"github.com/katalvlaran/condmi/table"
)

// toMatrix normalises one input variable. optional reports whether a nil
// input stands for "absent" (z) rather than a shape error (x, y).
func toMatrix(name string, v any, optional bool) (*sample.Matrix, error) {
	var (
		m   *sample.Matrix
		err error
	)
	switch t := v.(type) {
	case nil:
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("cmi: %s is required: %w", name, ErrShape)
	case *sample.Matrix:
		if t == nil && optional {
			return nil, nil
		}
		m, err = sample.FromAny(t)
	case table.Selection:
		m, err = t.Matrix()
	case *table.Selection:
		if t == nil {
			return nil, fmt.Errorf("cmi: %s: nil selection: %w", name, ErrShape)
		}
		m, err = t.Matrix()
	default:
		m, err = sample.FromAny(v)
	}
	if err != nil {
		return nil, fmt.Errorf("cmi: %s: %w", name, err)
	}

	return m, nil
}

// normalise converts x, y and z and checks that they share N.
func normalise(x, y, z any) (xm, ym, zm *sample.Matrix, err error) {
	if xm, err = toMatrix("x", x, false); err != nil {
		return nil, nil, nil, err
	}
	if ym, err = toMatrix("y", y, false); err != nil {
		return nil, nil, nil, err
	}
	if zm, err = toMatrix("z", z, true); err != nil {
		return nil, nil, nil, err
	}

	n := xm.Len()
	if ym.Len() != n {
		return nil, nil, nil, fmt.Errorf("cmi: x has %d observations, y has %d: %w", n, ym.Len(), ErrShape)
	}
	if zm != nil && zm.Len() != n {
		return nil, nil, nil, fmt.Errorf("cmi: x has %d observations, z has %d: %w", n, zm.Len(), ErrShape)
	}

	return xm, ym, zm, nil
}
