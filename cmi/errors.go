// SPDX-License-Identifier: MIT

package cmi

import (
	"errors"

	"github.com/katalvlaran/condmi/estimate"
	"github.com/katalvlaran/condmi/permute"
	"github.com/katalvlaran/condmi/sample"
)

// Input errors, shared with package sample.
var (
	ErrShape     = sample.ErrShape
	ErrType      = sample.ErrType
	ErrNonFinite = sample.ErrNonFinite
)

// Estimator errors, shared with package estimate.
var (
	ErrInsufficientSamples = estimate.ErrInsufficientSamples
	ErrBadK                = estimate.ErrBadK
	ErrBadBase             = estimate.ErrBadBase
)

// Permutation test errors, shared with package permute.
var (
	ErrBadSamples = permute.ErrBadSamples
	ErrBadWorkers = permute.ErrBadWorkers
	ErrBadTarget  = permute.ErrBadTarget
	ErrBadScheme  = permute.ErrBadScheme
)

var (
	// ErrUnknownEstimator indicates an estimator name other than "knn" or "discrete".
	ErrUnknownEstimator = errors.New("cmi: unknown estimator")

	// ErrBadTimeout indicates a negative timeout.
	ErrBadTimeout = errors.New("cmi: timeout must be non-negative")
)
