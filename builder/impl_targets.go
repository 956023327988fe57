// SPDX-License-Identifier: MIT
// Package: lvroute/builder
//
// impl_targets.go - target placement constructors.
//
// Contract:
//   - Targets(points...) attaches one target per point via core.AttachTarget,
//     labelled by cfg.labelFn(i). Points are shifted by origin.
//   - RandomTargets(n) draws n points uniformly inside the bounding box of the
//     current nodes using cfg.rng (ErrNeedRandSource without one).
//   - Both need at least one edge in the graph (core.ErrNoRoute otherwise).

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/geometry"
)

const (
	methodTargets       = "Targets"
	methodRandomTargets = "RandomTargets"
	minRandomTargets    = 1
)

// Targets returns a Constructor that attaches a target near each point.
func Targets(points ...geometry.Point) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		for i, p := range points {
			q := geometry.Point{X: cfg.origin.X + p.X, Y: cfg.origin.Y + p.Y}
			if _, err := g.AttachTarget(q, cfg.labelFn(i)); err != nil {
				return fmt.Errorf("%s: AttachTarget(%v): %w", methodTargets, q, err)
			}
		}

		return nil
	}
}

// RandomTargets returns a Constructor that attaches n targets at random points.
func RandomTargets(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < minRandomTargets {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRandomTargets, n, minRandomTargets, ErrTooFewVertices)
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodRandomTargets, ErrNeedRandSource)
		}
		lo, hi, ok := bounds(g)
		if !ok {
			return fmt.Errorf("%s: %w", methodRandomTargets, core.ErrNoRoute)
		}
		for i := 0; i < n; i++ {
			q := geometry.Point{
				X: lo.X + cfg.rng.Float64()*(hi.X-lo.X),
				Y: lo.Y + cfg.rng.Float64()*(hi.Y-lo.Y),
			}
			if _, err := g.AttachTarget(q, cfg.labelFn(i)); err != nil {
				return fmt.Errorf("%s: AttachTarget(%v): %w", methodRandomTargets, q, err)
			}
		}

		return nil
	}
}

// bounds returns the axis-aligned bounding box of all nodes.
func bounds(g *core.Graph) (lo, hi geometry.Point, ok bool) {
	for _, id := range g.Nodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		if !ok {
			lo, hi = n.Point(), n.Point()
			ok = true
			continue
		}
		lo.X, lo.Y = min(lo.X, n.X), min(lo.Y, n.Y)
		hi.X, hi.Y = max(hi.X, n.X), max(hi.Y, n.Y)
	}

	return lo, hi, ok
}
