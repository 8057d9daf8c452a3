package permute_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/condmi/estimate"
	"github.com/katalvlaran/condmi/permute"
	"github.com/katalvlaran/condmi/sample"
)

func vec(t testing.TB, v []float64) *sample.Matrix {
	t.Helper()
	m, err := sample.FromVector(v)
	require.NoError(t, err)

	return m
}

func ramp(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i)
	}

	return v
}

func uniform(r *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r.Float64()
	}

	return v
}

func opts(p int, seed int64) permute.Options {
	o := permute.DefaultOptions()
	o.Samples = p
	o.Seed = seed

	return o
}

// TestTest_DeterministicDependence: X = Y = 0..99, Z = 0, 200 runs.
func TestTest_DeterministicDependence(t *testing.T) {
	x := vec(t, ramp(100))
	z := vec(t, make([]float64, 100))

	out, err := permute.Test(context.Background(), estimate.KSG{K: 3}, x, x, z, opts(200, 1))
	require.NoError(t, err)
	assert.Greater(t, out.Observed, 1.0)
	assert.LessOrEqual(t, out.PValue, 0.02)
	assert.Equal(t, 200, out.Completed)
	assert.Equal(t, 200, out.Requested)
	assert.False(t, out.Approximate)
	assert.InDelta(t, float64(out.Exceed+1)/201, out.PValue, 1e-15)
}

// TestTest_IndependentNoise: most trials on independent data must not reject.
func TestTest_IndependentNoise(t *testing.T) {
	const trials = 10
	z := vec(t, make([]float64, 100))
	accepted := 0
	for trial := 0; trial < trials; trial++ {
		r := rand.New(rand.NewSource(int64(100 + trial)))
		x, y := vec(t, uniform(r, 100)), vec(t, uniform(r, 100))

		out, err := permute.Test(context.Background(), estimate.KSG{K: 3}, x, y, z, opts(100, int64(trial+1)))
		require.NoError(t, err)
		assert.InDelta(t, 0, out.Observed, 0.3)
		if out.PValue > 0.05 {
			accepted++
		}
	}
	assert.GreaterOrEqual(t, accepted, trials/2+1)
}

// TestTest_PValueBounds checks 1/(P+1) ≤ p ≤ 1 across schemes and targets.
func TestTest_PValueBounds(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	x, y, z := vec(t, uniform(r, 60)), vec(t, uniform(r, 60)), vec(t, uniform(r, 60))
	for _, target := range []permute.Target{permute.TargetX, permute.TargetY, permute.TargetZ} {
		for _, scheme := range []permute.Scheme{permute.Global, permute.Local} {
			if scheme == permute.Local && target == permute.TargetZ {
				continue
			}
			o := opts(30, 2)
			o.Target, o.Scheme = target, scheme
			out, err := permute.Test(context.Background(), estimate.KSG{K: 3}, x, y, z, o)
			require.NoError(t, err, "%s/%s", target, scheme)
			assert.GreaterOrEqual(t, out.PValue, 1.0/31, "%s/%s", target, scheme)
			assert.LessOrEqual(t, out.PValue, 1.0, "%s/%s", target, scheme)
		}
	}
}

// TestTest_SeedReproducible: the outcome depends on the seed, not on Workers.
func TestTest_SeedReproducible(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	x, y, z := vec(t, uniform(r, 80)), vec(t, uniform(r, 80)), vec(t, uniform(r, 80))

	var base permute.Outcome
	for i, w := range []int{1, 3, 8} {
		o := opts(40, 77)
		o.Workers = w
		o.KeepNull = true
		out, err := permute.Test(context.Background(), estimate.KSG{K: 3}, x, y, z, o)
		require.NoError(t, err)
		require.Len(t, out.Null, 40)
		if i == 0 {
			base = out
			continue
		}
		assert.Equal(t, base, out, "workers=%d", w)
	}

	o := opts(40, 78)
	o.KeepNull = true
	other, err := permute.Test(context.Background(), estimate.KSG{K: 3}, x, y, z, o)
	require.NoError(t, err)
	assert.NotEqual(t, base.Null, other.Null)
	assert.Equal(t, base.Observed, other.Observed)
}

// TestTest_ZeroSamples skips the test.
func TestTest_ZeroSamples(t *testing.T) {
	x := vec(t, ramp(10))
	out, err := permute.Test(context.Background(), estimate.KSG{K: 3}, x, x, nil, opts(0, 1))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.PValue))
	assert.Zero(t, out.Completed)
	assert.False(t, out.Approximate)
	assert.Greater(t, out.Observed, 0.0)
}

// slowEstimator sleeps before delegating, to make deadlines observable.
type slowEstimator struct {
	delay time.Duration
	calls atomic.Int64
}

func (s *slowEstimator) Name() string { return "slow" }

func (s *slowEstimator) Estimate(x, y, z *sample.Matrix) (float64, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return estimate.KSG{K: 1}.Estimate(x, y, z)
}

// TestTest_Deadline: an expiring context yields an approximate outcome.
func TestTest_Deadline(t *testing.T) {
	x := vec(t, ramp(20))
	core, logs := observer.New(zap.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	o := opts(1000, 1)
	o.Workers = 2
	o.Logger = zap.New(core)
	est := &slowEstimator{delay: 10 * time.Millisecond}

	out, err := permute.Test(ctx, est, x, x, nil, o)
	require.NoError(t, err)
	assert.True(t, out.Approximate)
	assert.Less(t, out.Completed, 1000)
	assert.Equal(t, 1000, out.Requested)
	assert.GreaterOrEqual(t, out.PValue, 1.0/float64(out.Completed+1))
	assert.LessOrEqual(t, out.PValue, 1.0)
	assert.Equal(t, int64(out.Completed+1), est.calls.Load(), "observed + completed runs")
	assert.Equal(t, 1, logs.FilterMessageSnippet("approximate").Len())
}

// TestTest_CancelledContext: nothing runs, p = 1.
func TestTest_CancelledContext(t *testing.T) {
	x := vec(t, ramp(20))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := permute.Test(ctx, estimate.KSG{K: 3}, x, x, nil, opts(50, 1))
	require.NoError(t, err)
	assert.True(t, out.Approximate)
	assert.Zero(t, out.Completed)
	assert.Equal(t, 1.0, out.PValue)
}

var errBoom = errors.New("boom")

// failingEstimator fails from its n-th call on.
type failingEstimator struct {
	n     int64
	calls atomic.Int64
}

func (f *failingEstimator) Name() string { return "failing" }

func (f *failingEstimator) Estimate(_, _, _ *sample.Matrix) (float64, error) {
	if f.calls.Add(1) >= f.n {
		return 0, errBoom
	}
	return 0.5, nil
}

// TestTest_EstimatorErrors: observed and permuted failures abort the test.
func TestTest_EstimatorErrors(t *testing.T) {
	x := vec(t, ramp(10))

	_, err := permute.Test(context.Background(), &failingEstimator{n: 1}, x, x, nil, opts(10, 1))
	assert.ErrorIs(t, err, errBoom)

	_, err = permute.Test(context.Background(), &failingEstimator{n: 3}, x, x, nil, opts(10, 1))
	assert.ErrorIs(t, err, errBoom)

	_, err = permute.Test(context.Background(), estimate.KSG{K: 3}, x, vec(t, ramp(9)), nil, opts(10, 1))
	assert.ErrorIs(t, err, estimate.ErrShape)
}

// spyEstimator records which inputs were replaced by a permuted copy.
type spyEstimator struct {
	x, y, z *sample.Matrix

	mu      sync.Mutex
	changed map[string]int
}

func (s *spyEstimator) Name() string { return "spy" }

func (s *spyEstimator) Estimate(x, y, z *sample.Matrix) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x != s.x {
		s.changed["x"]++
	}
	if y != s.y {
		s.changed["y"]++
	}
	if z != s.z {
		s.changed["z"]++
	}
	return 0, nil
}

// TestTest_Target: only the target matrix is reordered.
func TestTest_Target(t *testing.T) {
	x, y, z := vec(t, ramp(12)), vec(t, ramp(12)), vec(t, ramp(12))
	for _, target := range []permute.Target{permute.TargetX, permute.TargetY, permute.TargetZ} {
		spy := &spyEstimator{x: x, y: y, z: z, changed: map[string]int{}}
		o := opts(7, 1)
		o.Target = target
		out, err := permute.Test(context.Background(), spy, x, y, z, o)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{target.String(): 7}, spy.changed)
		assert.Equal(t, 1.0, out.PValue, "0 ≥ 0 for every run")
	}
}

// TestTest_Validation covers every option error.
func TestTest_Validation(t *testing.T) {
	x := vec(t, ramp(10))
	ctx := context.Background()
	est := estimate.KSG{K: 3}

	_, err := permute.Test(ctx, nil, x, x, x, opts(10, 1))
	assert.ErrorIs(t, err, permute.ErrNilEstimator)

	_, err = permute.Test(ctx, est, x, x, x, opts(-1, 1))
	assert.ErrorIs(t, err, permute.ErrBadSamples)

	o := opts(10, 1)
	o.Workers = -2
	_, err = permute.Test(ctx, est, x, x, x, o)
	assert.ErrorIs(t, err, permute.ErrBadWorkers)

	o = opts(10, 1)
	o.Target = permute.Target(9)
	_, err = permute.Test(ctx, est, x, x, x, o)
	assert.ErrorIs(t, err, permute.ErrBadTarget)

	o.Target = permute.TargetZ
	_, err = permute.Test(ctx, est, x, x, nil, o)
	assert.ErrorIs(t, err, permute.ErrBadTarget, "z target needs z")

	o = opts(10, 1)
	o.Scheme = permute.Scheme(4)
	_, err = permute.Test(ctx, est, x, x, x, o)
	assert.ErrorIs(t, err, permute.ErrBadScheme)

	o.Scheme = permute.Local
	_, err = permute.Test(ctx, est, x, x, nil, o)
	assert.ErrorIs(t, err, permute.ErrBadScheme, "local needs z")

	o.LocalNeighbors = -1
	_, err = permute.Test(ctx, est, x, x, x, o)
	assert.ErrorIs(t, err, permute.ErrBadScheme)

	o.LocalNeighbors = 3
	o.Target = permute.TargetZ
	_, err = permute.Test(ctx, est, x, x, x, o)
	assert.ErrorIs(t, err, permute.ErrBadTarget, "local cannot reorder z")
}

// countingRecorder tallies Recorder calls.
type countingRecorder struct {
	estimates atomic.Int64
	tests     atomic.Int64
}

func (c *countingRecorder) EstimateDone(string, string, time.Duration) { c.estimates.Add(1) }
func (c *countingRecorder) PermutationsDone(int, int, bool)            { c.tests.Add(1) }
func (c *countingRecorder) ComputeDone(string, time.Duration, error)   {}

// TestTest_Recorder: one observation per estimator call, one per test.
func TestTest_Recorder(t *testing.T) {
	x := vec(t, ramp(15))
	rec := &countingRecorder{}
	o := opts(25, 1)
	o.Recorder = rec
	_, err := permute.Test(context.Background(), estimate.KSG{K: 2}, x, x, nil, o)
	require.NoError(t, err)
	assert.Equal(t, int64(26), rec.estimates.Load())
	assert.Equal(t, int64(1), rec.tests.Load())
}

func TestParse(t *testing.T) {
	for in, want := range map[string]permute.Target{"x": permute.TargetX, "Y": permute.TargetY, "": permute.TargetY, " z ": permute.TargetZ} {
		got, err := permute.ParseTarget(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if in != "" {
			assert.Equal(t, want.String(), got.String())
		}
	}
	_, err := permute.ParseTarget("w")
	assert.ErrorIs(t, err, permute.ErrBadTarget)

	s, err := permute.ParseScheme("LOCAL")
	require.NoError(t, err)
	assert.Equal(t, permute.Local, s)
	assert.Equal(t, "local", s.String())
	s, err = permute.ParseScheme("global")
	require.NoError(t, err)
	assert.Equal(t, "global", s.String())
	_, err = permute.ParseScheme("block")
	assert.ErrorIs(t, err, permute.ErrBadScheme)

	assert.Equal(t, "target(9)", permute.Target(9).String())
	assert.Equal(t, "scheme(9)", permute.Scheme(9).String())
}
