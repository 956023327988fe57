// SPDX-License-Identifier: MIT
// Package: lvroute/builder
//
// config.go - internal configuration, deterministic defaults and options.
//
// Deterministic defaults:
//   - origin  = (0,0)
//   - labelFn = ExcelColumnLabel ("A","B",…,"Z","AA",…)
//   - rng     = nil (pure/deterministic unless seeded)

package builder

import (
	"math/rand"

	"github.com/katalvlaran/lvroute/geometry"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by value to constructors.
type builderConfig struct {
	// origin offsets every generated coordinate.
	origin geometry.Point
	// labelFn names targets by their zero-based index within one constructor.
	labelFn LabelFn
	// rng for stochastic choices; nil means no randomness.
	rng *rand.Rand
}

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{labelFn: ExcelColumnLabel}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// BuilderOption customizes constructor behavior.
type BuilderOption func(*builderConfig)

// WithOrigin shifts all generated coordinates by (x, y).
func WithOrigin(x, y float64) BuilderOption {
	return func(c *builderConfig) { c.origin = geometry.Point{X: x, Y: y} }
}

// WithLabels sets the target label generator. Panics on nil.
func WithLabels(fn LabelFn) BuilderOption {
	if fn == nil {
		panic("builder: WithLabels(nil)")
	}
	return func(c *builderConfig) { c.labelFn = fn }
}

// WithRand provides an explicit RNG for stochastic constructors. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}
