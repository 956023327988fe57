// SPDX-License-Identifier: MIT
//
// File: methods_nodes.go
// Role: Node lifecycle, positioning and queries.
// Determinism:
//   - Nodes() and Neighbors() return ids in ascending order.
// Concurrency:
//   - Mutations under g.mu write lock; queries under read lock.

package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/lvroute/geometry"
)

// AddNode creates a new, unconnected node at (x, y) and returns its id.
//
// Complexity: O(1) amortized.
func (g *Graph) AddNode(x, y float64) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addNodeLocked(geometry.Point{X: x, Y: y})
}

func (g *Graph) addNodeLocked(p geometry.Point) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, slot{alive: true, pos: p, adj: make(map[NodeID]struct{})})
	g.liveNodes++

	return id
}

// RemoveNode deletes id and every edge touching it. Targets bound to id are
// removed as well and the remaining targets are renumbered 1..n in their
// previous relative order.
//
// Errors:
//   - ErrNodeNotFound if id is not in the graph.
//
// Complexity: O(deg(id) + T).
func (g *Graph) RemoveNode(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.slotLocked(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	// Drop the mirrored half of every incident edge first.
	for nb := range s.adj {
		delete(g.nodes[nb].adj, id)
		g.edgeCount--
	}
	s.adj = nil
	s.alive = false
	g.liveNodes--

	// Cascade to targets bound to the removed node.
	kept := g.targets[:0]
	for _, t := range g.targets {
		if t.Node != id {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(g.targets); i++ {
		g.targets[i] = nil
	}
	g.targets = kept
	g.renumberLocked()

	return nil
}

// Move repositions id. Adjacency is untouched; weights of incident edges
// follow automatically because they are computed on demand.
//
// Errors:
//   - ErrNodeNotFound if id is not in the graph.
func (g *Graph) Move(id NodeID, x, y float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.slotLocked(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	s.pos = geometry.Point{X: x, Y: y}

	return nil
}

// HasNode reports whether id is a live node.
func (g *Graph) HasNode(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.slotLocked(id)

	return ok
}

// Node returns a snapshot of id.
//
// Errors:
//   - ErrNodeNotFound if id is not in the graph.
func (g *Graph) Node(id NodeID) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.slotLocked(id)
	if !ok {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	return Node{ID: id, X: s.pos.X, Y: s.pos.Y}, nil
}

// Nodes returns all live node ids in ascending order.
//
// Complexity: O(N) over the arena.
func (g *Graph) Nodes() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]NodeID, 0, g.liveNodes)
	for i := range g.nodes {
		if g.nodes[i].alive {
			out = append(out, NodeID(i))
		}
	}

	return out
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.liveNodes
}

// Neighbors returns the ids adjacent to id in ascending order.
//
// Errors:
//   - ErrNodeNotFound if id is not in the graph.
//
// Complexity: O(d log d) for d = deg(id).
func (g *Graph) Neighbors(id NodeID) ([]NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.slotLocked(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	return sortedKeys(s.adj), nil
}

// Degree returns the number of edges incident to id.
//
// Errors:
//   - ErrNodeNotFound if id is not in the graph.
func (g *Graph) Degree(id NodeID) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.slotLocked(id)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	return len(s.adj), nil
}

// NodeAt returns the live node closest to p within radius, if any.
// Ties keep the lowest id.
//
// Complexity: O(N).
func (g *Graph) NodeAt(p geometry.Point, radius float64) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	best, bestDist := NoNode, math.Inf(1)
	for i := range g.nodes {
		if !g.nodes[i].alive {
			continue
		}
		if d := geometry.Distance(g.nodes[i].pos, p); d <= radius && d < bestDist {
			best, bestDist = NodeID(i), d
		}
	}

	return best, best != NoNode
}

// slotLocked resolves id to its arena slot. Caller must hold g.mu.
func (g *Graph) slotLocked(id NodeID) (*slot, bool) {
	if id < 0 || int(id) >= len(g.nodes) || !g.nodes[id].alive {
		return nil, false
	}

	return &g.nodes[id], true
}

func sortedKeys(set map[NodeID]struct{}) []NodeID {
	out := make([]NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
