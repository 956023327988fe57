// SPDX-License-Identifier: MIT
// Package: lvroute/builder
//
// impl_path.go - implementation of Path(points...) constructor.
//
// Contract:
//   - at least two points (else ErrTooFewVertices).
//   - Adds one node per point (shifted by origin) and connects them in order.
//   - Consecutive duplicate points still yield distinct nodes joined by a zero-length edge.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/geometry"
)

const (
	methodPath   = "Path"
	minPathNodes = 2
)

// Path returns a Constructor that builds an open polyline through points.
func Path(points ...geometry.Point) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if len(points) < minPathNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, len(points), minPathNodes, ErrTooFewVertices)
		}
		prev := core.NoNode
		for _, p := range points {
			id := g.AddNode(cfg.origin.X+p.X, cfg.origin.Y+p.Y)
			if prev != core.NoNode {
				if err := g.Connect(prev, id); err != nil {
					return fmt.Errorf("%s: Connect(%d,%d): %w", methodPath, prev, id, err)
				}
			}
			prev = id
		}

		return nil
	}
}
