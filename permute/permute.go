// SPDX-License-Identifier: MIT

package permute

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/condmi/estimate"
	"github.com/katalvlaran/condmi/metrics"
	"github.com/katalvlaran/condmi/sample"
)

const tracerName = "github.com/katalvlaran/condmi/permute"

// Test estimates I(X;Y|Z) with est and runs the permutation test described
// in the package documentation.
//
// Stage 1 (Validate): options, before any estimator work.
// Stage 2 (Observe):  observed = est.Estimate(x, y, z).
// Stage 3 (Permute):  opts.Samples runs on the worker pool.
// Stage 4 (Reduce):   p = (exceed+1)/(completed+1).
//
// A ctx that is already done yields Completed == 0, Approximate == true and
// PValue == 1. Estimator errors abort the test.
//
// Complexity: (P+1) estimator calls, spread over Workers goroutines.
func Test(ctx context.Context, est estimate.Estimator, x, y, z *sample.Matrix, opts Options) (Outcome, error) {
	if err := validate(est, z, &opts); err != nil {
		return Outcome{}, err
	}
	var (
		log   = opts.Logger
		rec   = metrics.OrNop(opts.Recorder)
		name  = est.Name()
		begin = time.Now()
	)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "permute.Test", trace.WithAttributes(
		attribute.String("cmi.estimator", name),
		attribute.Int("permute.samples", opts.Samples),
		attribute.String("permute.target", opts.Target.String()),
		attribute.String("permute.scheme", opts.Scheme.String()),
		attribute.Int("permute.workers", opts.Workers),
	))
	defer span.End()
	fail := func(err error) (Outcome, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, err
	}

	t0 := time.Now()
	observed, err := est.Estimate(x, y, z)
	rec.EstimateDone(name, metrics.PhaseObserved, time.Since(t0))
	if err != nil {
		return fail(fmt.Errorf("permute: observed estimate: %w", err))
	}
	out := Outcome{Observed: observed, PValue: math.NaN(), Requested: opts.Samples}
	if opts.Samples == 0 {
		log.Debug("permutation test skipped", zap.String("estimator", name), zap.Float64("cmi", observed))
		return out, nil
	}

	var pool [][]int
	if opts.Scheme == Local {
		if pool, err = localPool(z, opts.LocalNeighbors); err != nil {
			return fail(err)
		}
	}

	src := pick(opts.Target, x, y, z)
	var (
		exceed, completed atomic.Int64
		null              []float64
		done              []bool
	)
	if opts.KeepNull {
		null = make([]float64, opts.Samples)
		done = make([]bool, opts.Samples)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for r := 0; r < opts.Samples; r++ {
		if gctx.Err() != nil {
			break
		}
		r := r
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			rng := runRNG(opts.Seed, r)
			var order []int
			if pool != nil {
				order = localPerm(pool, rng)
			} else {
				order = permRange(src.Len(), rng)
			}
			shuffled, err := src.Take(order)
			if err != nil {
				return fmt.Errorf("permute: run %d: %w", r, err)
			}
			px, py, pz := x, y, z
			switch opts.Target {
			case TargetX:
				px = shuffled
			case TargetY:
				py = shuffled
			case TargetZ:
				pz = shuffled
			}

			t := time.Now()
			v, err := est.Estimate(px, py, pz)
			rec.EstimateDone(name, metrics.PhasePermuted, time.Since(t))
			if err != nil {
				return fmt.Errorf("permute: run %d: %w", r, err)
			}
			if v >= observed {
				exceed.Add(1)
			}
			completed.Add(1)
			if null != nil {
				null[r], done[r] = v, true
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return fail(err)
	}

	// Stage 4: reduce
	out.Exceed = int(exceed.Load())
	out.Completed = int(completed.Load())
	out.Approximate = out.Completed < out.Requested
	out.PValue = float64(out.Exceed+1) / float64(out.Completed+1)
	if null != nil {
		out.Null = make([]float64, 0, out.Completed)
		for r, ok := range done {
			if ok {
				out.Null = append(out.Null, null[r])
			}
		}
	}
	rec.PermutationsDone(out.Requested, out.Completed, out.Approximate)

	span.SetAttributes(
		attribute.Float64("cmi.value", out.Observed),
		attribute.Float64("cmi.p_value", out.PValue),
		attribute.Int("permute.completed", out.Completed),
		attribute.Bool("permute.approximate", out.Approximate),
	)
	fields := []zap.Field{
		zap.String("estimator", name),
		zap.Float64("cmi", out.Observed),
		zap.Float64("p_value", out.PValue),
		zap.Int("completed", out.Completed),
		zap.Int("requested", out.Requested),
		zap.Duration("elapsed", time.Since(begin)),
	}
	if out.Approximate {
		log.Warn("permutation test stopped early; p-value is approximate", fields...)
	} else {
		log.Debug("permutation test done", fields...)
	}

	return out, nil
}

// validate checks opts and fills in defaults.
func validate(est estimate.Estimator, z *sample.Matrix, o *Options) error {
	if est == nil {
		return ErrNilEstimator
	}
	if o.Samples < 0 {
		return fmt.Errorf("permute: samples=%d: %w", o.Samples, ErrBadSamples)
	}
	if o.Workers < 0 {
		return fmt.Errorf("permute: workers=%d: %w", o.Workers, ErrBadWorkers)
	}
	switch o.Target {
	case TargetX, TargetY:
	case TargetZ:
		if z == nil {
			return fmt.Errorf("permute: target z without a conditioning variable: %w", ErrBadTarget)
		}
	default:
		return fmt.Errorf("permute: %s: %w", o.Target, ErrBadTarget)
	}
	switch o.Scheme {
	case Global:
	case Local:
		if z == nil {
			return fmt.Errorf("permute: local scheme without a conditioning variable: %w", ErrBadScheme)
		}
		if o.Target == TargetZ {
			return fmt.Errorf("permute: local scheme cannot reorder z: %w", ErrBadTarget)
		}
		if o.LocalNeighbors < 0 {
			return fmt.Errorf("permute: local neighbours=%d: %w", o.LocalNeighbors, ErrBadScheme)
		}
	default:
		return fmt.Errorf("permute: %s: %w", o.Scheme, ErrBadScheme)
	}

	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.LocalNeighbors == 0 {
		o.LocalNeighbors = DefaultNeighbors
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return nil
}

// pick returns the matrix reordered for target t.
func pick(t Target, x, y, z *sample.Matrix) *sample.Matrix {
	switch t {
	case TargetX:
		return x
	case TargetZ:
		return z
	}

	return y
}
