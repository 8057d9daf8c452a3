// SPDX-License-Identifier: MIT
// Package metrics instruments estimation runs.
//
// Recorder is the narrow interface the estimation packages call; Nop is the
// default and costs nothing. Prometheus registers its collectors on a
// caller-supplied registry (never the global default), so several
// independent recorders can live in one process and tests stay isolated.
//
// Exposed series (namespace configurable, default "condmi"):
//
//	<ns>_estimate_duration_seconds{estimator,phase}   histogram
//	<ns>_permutations_total{status}                   counter  (completed|skipped)
//	<ns>_tests_total{result}                          counter  (exact|approximate)
//	<ns>_compute_total{estimator,status}              counter  (ok|error)
//	<ns>_compute_duration_seconds{estimator}          histogram
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Estimation phases.
const (
	PhaseObserved = "observed"
	PhasePermuted = "permuted"
)

// DefaultNamespace prefixes every series.
const DefaultNamespace = "condmi"

// ErrNilRegistry indicates NewPrometheus was called without a registry.
var ErrNilRegistry = errors.New("metrics: registry is nil")

// Recorder receives measurements from the estimation pipeline. Calls may
// arrive concurrently from permutation workers.
type Recorder interface {
	// EstimateDone records one estimator evaluation.
	EstimateDone(estimator, phase string, d time.Duration)

	// PermutationsDone records the outcome of one permutation test.
	PermutationsDone(requested, completed int, approximate bool)

	// ComputeDone records one top-level computation.
	ComputeDone(estimator string, d time.Duration, err error)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) EstimateDone(string, string, time.Duration) {}
func (Nop) PermutationsDone(int, int, bool)            {}
func (Nop) ComputeDone(string, time.Duration, error)   {}

// Prometheus implements Recorder with client_golang collectors.
type Prometheus struct {
	estimateDuration *prometheus.HistogramVec // per estimator call
	permutations     *prometheus.CounterVec   // runs completed or skipped
	tests            *prometheus.CounterVec   // exact vs approximate tests
	computeTotal     *prometheus.CounterVec   // top-level calls by status
	computeDuration  *prometheus.HistogramVec // top-level latency
}

// durationBuckets span a small brute-force estimate (~10µs) to a large
// permutation test (minutes).
var durationBuckets = prometheus.ExponentialBuckets(1e-5, 4, 14)

// NewPrometheus registers the collectors on reg under namespace ("" selects
// DefaultNamespace).
//
// Errors: ErrNilRegistry. Registering twice on one registry panics, as
// promauto does.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	f := promauto.With(reg)

	return &Prometheus{
		estimateDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimate_duration_seconds",
			Help:      "Duration of one CMI estimator evaluation.",
			Buckets:   durationBuckets,
		}, []string{"estimator", "phase"}),
		permutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permutations_total",
			Help:      "Permutation runs by status (completed, skipped by a deadline).",
		}, []string{"status"}),
		tests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tests_total",
			Help:      "Permutation tests by result (exact, approximate).",
		}, []string{"result"}),
		computeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compute_total",
			Help:      "Top-level CMI computations by estimator and status.",
		}, []string{"estimator", "status"}),
		computeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Duration of a top-level CMI computation including the permutation test.",
			Buckets:   durationBuckets,
		}, []string{"estimator"}),
	}, nil
}

// EstimateDone implements Recorder.
func (p *Prometheus) EstimateDone(estimator, phase string, d time.Duration) {
	p.estimateDuration.WithLabelValues(estimator, phase).Observe(d.Seconds())
}

// PermutationsDone implements Recorder.
func (p *Prometheus) PermutationsDone(requested, completed int, approximate bool) {
	p.permutations.WithLabelValues("completed").Add(float64(completed))
	if skipped := requested - completed; skipped > 0 {
		p.permutations.WithLabelValues("skipped").Add(float64(skipped))
	}
	result := "exact"
	if approximate {
		result = "approximate"
	}
	p.tests.WithLabelValues(result).Inc()
}

// ComputeDone implements Recorder.
func (p *Prometheus) ComputeDone(estimator string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.computeTotal.WithLabelValues(estimator, status).Inc()
	p.computeDuration.WithLabelValues(estimator).Observe(d.Seconds())
}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}

	return r
}
