// SPDX-License-Identifier: MIT

package estimate

import (
	"encoding/binary"
	"math"

	"github.com/katalvlaran/condmi/sample"
)

// Discrete is the plug-in CMI estimator over exact value events. Each
// observation's coordinates form one event; probabilities are empirical
// frequencies. It suits categorical or binned data, where the k-NN
// estimator's continuity assumption fails on massive ties.
//
// Base is the logarithm base of the result; 0 selects e.
type Discrete struct {
	Base float64
}

// Name returns NameDiscrete.
func (e Discrete) Name() string { return NameDiscrete }

// Estimate implements Estimator.
//
// Stage 1 (Validate): base usable, x/y present, equal N (z optional).
// Stage 2 (Count):    event frequencies for XYZ, XZ, YZ and Z.
// Stage 3 (Sum):      Σ c_xyz/N · log(c_z·c_xyz / (c_xz·c_yz)).
//
// Errors: ErrShape, ErrBadBase.
// Complexity: O(N·d) time and memory.
func (e Discrete) Estimate(x, y, z *sample.Matrix) (float64, error) {
	const name = "Discrete"
	base := e.Base
	if base == 0 {
		base = DefaultBase
	}
	lnBase, err := checkBase(name, base)
	if err != nil {
		return 0, err
	}
	n, err := checkInputs(name, x, y, z, 0)
	if err != nil {
		return 0, err
	}

	var (
		cXYZ = make(map[string]int)
		cXZ  = make(map[string]int)
		cYZ  = make(map[string]int)
		cZ   = make(map[string]int)
		keys = make([]eventKeys, n)
		enc  eventEncoder
		i    int
	)
	for i = 0; i < n; i++ {
		kx := enc.key(x, i)
		ky := enc.key(y, i)
		kz := ""
		if z != nil {
			kz = enc.key(z, i)
		}
		keys[i] = eventKeys{xyz: kx + "|" + ky + "|" + kz, xz: kx + "|" + kz, yz: ky + "|" + kz, z: kz}
		cXYZ[keys[i].xyz]++
		cXZ[keys[i].xz]++
		cYZ[keys[i].yz]++
		cZ[keys[i].z]++
	}

	// Sum once per distinct joint event.
	var (
		nats float64
		seen = make(map[string]struct{}, len(cXYZ))
		c    float64
	)
	for i = 0; i < n; i++ {
		k := keys[i]
		if _, ok := seen[k.xyz]; ok {
			continue
		}
		seen[k.xyz] = struct{}{}
		c = float64(cXYZ[k.xyz])
		nats += c / float64(n) * math.Log(float64(cZ[k.z])*c/(float64(cXZ[k.xz])*float64(cYZ[k.yz])))
	}
	if nats < 0 && nats > -1e-12 {
		nats = 0 // rounding below an exact zero
	}

	return nats / lnBase, nil
}

// eventKeys are the map keys of one observation in each space.
type eventKeys struct {
	xyz, xz, yz, z string
}

// eventEncoder turns a matrix row into a map key from the raw float bits.
// Every row of one matrix has the same width, so keys concatenate without
// ambiguity. −0 and +0 compare equal as numbers and share one key.
type eventEncoder struct {
	row []float64
	buf []byte
}

func (e *eventEncoder) key(m *sample.Matrix, i int) string {
	d := m.Dims()
	if cap(e.row) < d {
		e.row = make([]float64, d)
		e.buf = make([]byte, 8*d)
	}
	row, buf := e.row[:d], e.buf[:8*d]
	m.Fill(i, row)
	for j, v := range row {
		if v == 0 {
			v = 0
		}
		binary.LittleEndian.PutUint64(buf[8*j:], math.Float64bits(v))
	}

	return string(buf)
}
