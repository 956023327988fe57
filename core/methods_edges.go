// SPDX-License-Identifier: MIT
//
// File: methods_edges.go
// Role: Undirected edge lifecycle and the deduplicated weighted edge view.
// Determinism:
//   - Edges() is sorted by (From, To) with From < To.

package core

import (
	"fmt"

	"github.com/katalvlaran/lvroute/geometry"
)

// Connect adds the undirected edge a–b.
//
// Errors:
//   - ErrNodeNotFound if either endpoint is missing.
//   - ErrInvalidOperation if a == b.
//   - ErrAlreadyConnected if the edge exists (graph unchanged).
//
// Complexity: O(1).
func (g *Graph) Connect(a, b NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.connectLocked(a, b)
}

func (g *Graph) connectLocked(a, b NodeID) error {
	sa, okA := g.slotLocked(a)
	sb, okB := g.slotLocked(b)
	switch {
	case !okA:
		return fmt.Errorf("%w: %d", ErrNodeNotFound, a)
	case !okB:
		return fmt.Errorf("%w: %d", ErrNodeNotFound, b)
	case a == b:
		return fmt.Errorf("%w: cannot connect node %d to itself", ErrInvalidOperation, a)
	}
	if _, dup := sa.adj[b]; dup {
		return fmt.Errorf("%w: %d–%d", ErrAlreadyConnected, a, b)
	}
	sa.adj[b] = struct{}{}
	sb.adj[a] = struct{}{}
	g.edgeCount++

	return nil
}

// Disconnect removes the edge a–b if present. A missing edge is not an error.
//
// Errors:
//   - ErrNodeNotFound if either endpoint is missing.
func (g *Graph) Disconnect(a, b NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.disconnectLocked(a, b)
}

func (g *Graph) disconnectLocked(a, b NodeID) error {
	sa, okA := g.slotLocked(a)
	sb, okB := g.slotLocked(b)
	if !okA {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, a)
	}
	if !okB {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, b)
	}
	if _, ok := sa.adj[b]; !ok {
		return nil
	}
	delete(sa.adj, b)
	delete(sb.adj, a)
	g.edgeCount--

	return nil
}

// HasEdge reports whether a and b are connected. Unknown ids yield false.
func (g *Graph) HasEdge(a, b NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	sa, ok := g.slotLocked(a)
	if !ok {
		return false
	}
	_, ok = sa.adj[b]

	return ok
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgeCount
}

// Edges returns every undirected edge exactly once, as (low, high), with its
// current Euclidean weight.
//
// Complexity: O(N + E log d).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgesLocked()
}

func (g *Graph) edgesLocked() []Edge {
	out := make([]Edge, 0, g.edgeCount)
	for i := range g.nodes {
		s := &g.nodes[i]
		if !s.alive {
			continue
		}
		from := NodeID(i)
		for _, to := range sortedKeys(s.adj) {
			if to <= from {
				continue // emitted from the lower endpoint
			}
			out = append(out, Edge{From: from, To: to, Weight: geometry.Distance(s.pos, g.nodes[to].pos)})
		}
	}

	return out
}

// Segments returns the geometric segments of Edges(), index-aligned with it.
func (g *Graph) Segments() ([]Edge, []geometry.Segment) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := g.edgesLocked()

	return edges, g.segmentsLocked(edges)
}

func (g *Graph) segmentsLocked(edges []Edge) []geometry.Segment {
	segs := make([]geometry.Segment, len(edges))
	for i, e := range edges {
		segs[i] = geometry.Segment{A: g.nodes[e.From].pos, B: g.nodes[e.To].pos}
	}

	return segs
}
