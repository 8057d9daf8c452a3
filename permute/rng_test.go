package permute

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/condmi/sample"
)

func isPermutation(p []int) bool {
	s := append([]int(nil), p...)
	sort.Ints(s)
	for i, v := range s {
		if v != i {
			return false
		}
	}

	return true
}

// TestDeriveSeed_Streams checks determinism and stream separation.
func TestDeriveSeed_Streams(t *testing.T) {
	assert.Equal(t, deriveSeed(7, 3), deriveSeed(7, 3))
	seen := map[int64]bool{}
	for s := uint64(0); s < 1000; s++ {
		v := deriveSeed(1, s)
		require.False(t, seen[v], "stream %d collides", s)
		seen[v] = true
	}
	assert.NotEqual(t, deriveSeed(1, 0), deriveSeed(2, 0))
}

// TestRunRNG_ZeroSeed applies the seed==0 policy.
func TestRunRNG_ZeroSeed(t *testing.T) {
	a := permRange(50, runRNG(0, 4))
	b := permRange(50, runRNG(DefaultSeed, 4))
	assert.Equal(t, a, b)
	assert.True(t, isPermutation(a))
	assert.NotEqual(t, a, permRange(50, runRNG(DefaultSeed, 5)))
}

// TestLocalPerm_FullPoolIsPermutation: with every row in every pool, the
// restricted shuffle never runs out of fresh rows.
func TestLocalPerm_FullPoolIsPermutation(t *testing.T) {
	v := make([]float64, 30)
	for i := range v {
		v[i] = float64(i)
	}
	z, err := sample.FromVector(v)
	require.NoError(t, err)

	pool, err := localPool(z, 100)
	require.NoError(t, err)
	for i, p := range pool {
		require.Len(t, p, 30)
		require.Equal(t, i, p[0], "own row first")
	}
	for r := 0; r < 20; r++ {
		assert.True(t, isPermutation(localPerm(pool, runRNG(9, r))))
	}
}

// TestLocalPerm_StaysInCluster: rows only draw from their Z-neighbourhood.
func TestLocalPerm_StaysInCluster(t *testing.T) {
	v := make([]float64, 40)
	for i := range v {
		v[i] = float64(i % 10) // 0..9 then repeated; build two far clusters below
		if i >= 20 {
			v[i] += 1000
		}
	}
	z, err := sample.FromVector(v)
	require.NoError(t, err)

	pool, err := localPool(z, 5)
	require.NoError(t, err)
	for r := 0; r < 20; r++ {
		perm := localPerm(pool, runRNG(3, r))
		for i, j := range perm {
			assert.Contains(t, pool[i], j)
			assert.Equal(t, i < 20, j < 20, "row %d drew %d across clusters", i, j)
		}
	}
}

// TestLocalPool_SingleRow degenerates to the identity.
func TestLocalPool_SingleRow(t *testing.T) {
	z, err := sample.FromVector([]float64{1})
	require.NoError(t, err)
	pool, err := localPool(z, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}}, pool)
	assert.Equal(t, []int{0}, localPerm(pool, runRNG(1, 0)))
}

// TestLocalPerm_OverlapRepeats: when pools overlap and run out of fresh rows,
// a Local draw repeats a row instead of permuting.
func TestLocalPerm_OverlapRepeats(t *testing.T) {
	pool := [][]int{{0}, {0}, {2}}
	for r := 0; r < 10; r++ {
		perm := localPerm(pool, runRNG(5, r))
		assert.Equal(t, []int{0, 0, 2}, perm)
		assert.False(t, isPermutation(perm))
	}
}
