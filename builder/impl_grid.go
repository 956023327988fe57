// SPDX-License-Identifier: MIT
// Package: lvroute/builder
//
// impl_grid.go - implementation of Grid(rows, cols, spacing) constructor.
//
// Contract:
//   - rows ≥ 1, cols ≥ 1 (else ErrTooFewVertices); spacing > 0 and finite (else ErrBadSize).
//   - Node (r,c) sits at origin + (c·spacing, r·spacing); nodes are added row-major.
//   - Edges: for each (r,c) emit Right then Bottom if present.
//
// Complexity: O(rows·cols) nodes and edges.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvroute/core"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
)

// Grid returns a Constructor that builds a rows×cols orthogonal street grid.
func Grid(rows, cols int, spacing float64) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
				methodGrid, rows, cols, minGridDim, ErrTooFewVertices)
		}
		if !validLength(spacing) {
			return fmt.Errorf("%s: spacing=%v: %w", methodGrid, spacing, ErrBadSize)
		}

		ids := make([]core.NodeID, 0, rows*cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				ids = append(ids, g.AddNode(
					cfg.origin.X+float64(c)*spacing,
					cfg.origin.Y+float64(r)*spacing,
				))
			}
		}

		at := func(r, c int) core.NodeID { return ids[r*cols+c] }
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c+1 < cols {
					if err := g.Connect(at(r, c), at(r, c+1)); err != nil {
						return fmt.Errorf("%s: Connect(%d,%d): %w", methodGrid, at(r, c), at(r, c+1), err)
					}
				}
				if r+1 < rows {
					if err := g.Connect(at(r, c), at(r+1, c)); err != nil {
						return fmt.Errorf("%s: Connect(%d,%d): %w", methodGrid, at(r, c), at(r+1, c), err)
					}
				}
			}
		}

		return nil
	}
}

// validLength reports whether v is a usable positive length.
func validLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
