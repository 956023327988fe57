// SPDX-License-Identifier: MIT
// Package: lvroute/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   - Only sentinel variables are exposed; callers use errors.Is.
//   - Implementations attach context with %w and the constructor name.

package builder

import "errors"

// ErrTooFewVertices indicates that a size parameter (n, rows, cols) is below
// the constructor's minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrBadSize indicates a non-positive or non-finite length (spacing, radius).
var ErrBadSize = errors.New("builder: invalid size/length")

// ErrNeedRandSource indicates that a stochastic constructor ran without WithSeed or WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a nil constructor, nil graph or a failed graph mutation.
var ErrConstructFailed = errors.New("builder: construction failed")
