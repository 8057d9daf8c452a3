// SPDX-License-Identifier: MIT

package cmi

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/katalvlaran/condmi/estimate"
	"github.com/katalvlaran/condmi/metrics"
	"github.com/katalvlaran/condmi/permute"
)

const tracerName = "github.com/katalvlaran/condmi/cmi"

// Compute estimates I(X;Y|Z) and its permutation p-value with the default
// options adjusted by opts.
//
// Errors: see the package documentation.
// Complexity: (P+1) estimator evaluations; O(N log N) each for the k-NN
// estimator with the k-d tree.
func Compute(x, y, z any, opts ...Option) (Result, error) {
	return ComputeContext(context.Background(), x, y, z, opts...)
}

// ComputeContext is Compute under ctx. Cancelling ctx stops the permutation
// test early and flags the result Approximate.
func ComputeContext(ctx context.Context, x, y, z any, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return ComputeWithOptions(ctx, x, y, z, o)
}

// ComputeWithOptions is ComputeContext with a complete Options value. Unlike
// the With* constructors it never panics: every bad field becomes an error.
//
// Stage 1 (Normalise): inputs to matrices; equal N.
// Stage 2 (Validate):  options; N > k for the k-NN estimator.
// Stage 3 (Test):      observed estimate plus permutation test.
// Stage 4 (Report):    Result with null summary.
func ComputeWithOptions(ctx context.Context, x, y, z any, o Options) (res Result, err error) {
	begin := time.Now()
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rec := metrics.OrNop(o.Recorder)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "cmi.Compute")
	defer span.End()

	name := o.Estimator
	if o.Custom != nil {
		name = o.Custom.Name()
	}
	defer func() {
		rec.ComputeDone(name, time.Since(begin), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Debug("compute failed", zap.Error(err))
		}
	}()

	// Stage 1: normalise
	xm, ym, zm, err := normalise(x, y, z)
	if err != nil {
		return Result{}, err
	}
	n := xm.Len()

	// Stage 2: validate
	est, err := o.resolve()
	if err != nil {
		return Result{}, err
	}
	name = est.Name()
	if ksg, ok := est.(estimate.KSG); ok && n <= ksg.K {
		return Result{}, fmt.Errorf("cmi: N=%d, k=%d: %w", n, ksg.K, ErrInsufficientSamples)
	}

	span.SetAttributes(
		attribute.String("cmi.estimator", name),
		attribute.Int("cmi.n", n),
		attribute.Int("cmi.k", o.K),
		attribute.Bool("cmi.conditional", zm != nil),
	)
	log.Debug("compute start",
		zap.String("estimator", name),
		zap.Int("n", n),
		zap.Int("dx", xm.Dims()),
		zap.Int("dy", ym.Dims()),
		zap.Bool("conditional", zm != nil),
		zap.Int("k", o.K),
		zap.Int("permutations", o.Permutations),
	)

	// Stage 3: test
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	out, err := permute.Test(ctx, est, xm, ym, zm, permute.Options{
		Samples:        o.Permutations,
		Seed:           o.Seed,
		Workers:        o.Workers,
		Target:         o.Target,
		Scheme:         o.Scheme,
		LocalNeighbors: o.LocalNeighbors,
		KeepNull:       true,
		Logger:         log,
		Recorder:       rec,
	})
	if err != nil {
		return Result{}, err
	}

	// Stage 4: report
	res = Result{
		CMI:          out.Observed,
		PValue:       out.PValue,
		Estimator:    name,
		N:            n,
		Permutations: out.Requested,
		Completed:    out.Completed,
		Exceed:       out.Exceed,
		Approximate:  out.Approximate,
		Target:       o.Target.String(),
		Scheme:       o.Scheme.String(),
		Seed:         o.Seed,
	}
	res.K, res.Base = describe(est)
	res.NullMean, res.NullStdDev = summarise(out.Null)
	if o.KeepNull {
		res.Null = out.Null
	}
	res.Elapsed = time.Since(begin)

	span.SetAttributes(
		attribute.Float64("cmi.value", res.CMI),
		attribute.Float64("cmi.p_value", res.PValue),
		attribute.Bool("cmi.approximate", res.Approximate),
	)
	log.Debug("compute done",
		zap.Float64("cmi", res.CMI),
		zap.Float64("p_value", res.PValue),
		zap.Int("completed", res.Completed),
		zap.Duration("elapsed", res.Elapsed),
	)

	return res, nil
}

// describe reports the neighbour count and log base an estimator applies.
// Both are zero for estimators that do not expose them.
func describe(est estimate.Estimator) (k int, base float64) {
	switch e := est.(type) {
	case estimate.KSG:
		return e.K, baseOrDefault(e.Base)
	case *estimate.KSG:
		return e.K, baseOrDefault(e.Base)
	case estimate.Discrete:
		return 0, baseOrDefault(e.Base)
	case *estimate.Discrete:
		return 0, baseOrDefault(e.Base)
	}

	return 0, 0
}

func baseOrDefault(b float64) float64 {
	if b == 0 {
		return estimate.DefaultBase
	}

	return b
}
