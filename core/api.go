// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: Whole-graph snapshots: Clone and Stats.

package core

// Clone returns a deep, independent copy of g. Node and target ids are
// preserved, so ids taken from g remain valid on the clone.
//
// Planning runs on a clone so that editing may continue while a long search
// is in flight.
//
// Complexity: O(N + E + T).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := &Graph{
		nodes:      make([]slot, len(g.nodes)),
		liveNodes:  g.liveNodes,
		edgeCount:  g.edgeCount,
		targets:    make([]*Target, len(g.targets)),
		nextTarget: g.nextTarget,
	}
	for i, s := range g.nodes {
		c.nodes[i] = slot{alive: s.alive, pos: s.pos}
		if !s.alive {
			continue
		}
		c.nodes[i].adj = make(map[NodeID]struct{}, len(s.adj))
		for nb := range s.adj {
			c.nodes[i].adj[nb] = struct{}{}
		}
	}
	for i, t := range g.targets {
		cp := *t
		c.targets[i] = &cp
	}

	return c
}

// Stats returns node, edge and target counts.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return Stats{Nodes: g.liveNodes, Edges: g.edgeCount, Targets: len(g.targets)}
}
