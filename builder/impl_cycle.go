// SPDX-License-Identifier: MIT
// Package: lvroute/builder
//
// impl_cycle.go - implementation of Cycle(n, radius) constructor.
//
// Contract:
//   - n ≥ 3 (else ErrTooFewVertices); radius > 0 and finite (else ErrBadSize).
//   - Node i sits at origin + radius·(cos 2πi/n, sin 2πi/n).
//   - Edges are emitted i → (i+1) mod n for i = 0..n-1.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvroute/core"
)

const (
	methodCycle   = "Cycle"
	minCycleNodes = 3
)

// Cycle returns a Constructor that builds a ring road of n nodes.
func Cycle(n int, radius float64) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < minCycleNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewVertices)
		}
		if !validLength(radius) {
			return fmt.Errorf("%s: radius=%v: %w", methodCycle, radius, ErrBadSize)
		}

		ids := make([]core.NodeID, n)
		for i := range ids {
			a := 2 * math.Pi * float64(i) / float64(n)
			ids[i] = g.AddNode(cfg.origin.X+radius*math.Cos(a), cfg.origin.Y+radius*math.Sin(a))
		}
		for i := range ids {
			u, v := ids[i], ids[(i+1)%n]
			if err := g.Connect(u, v); err != nil {
				return fmt.Errorf("%s: Connect(%d,%d): %w", methodCycle, u, v, err)
			}
		}

		return nil
	}
}
