// SPDX-License-Identifier: MIT
//
// File: methods_targets.go
// Role: Target attach/detach (edge split), ordering and queries.
// Policy:
//   - Attach always splits: +1 node, -1 edge, +2 edges.
//   - Detach never re-merges the split; the graph keeps the extra node.
//   - Seq is renumbered 1..n after every change to the target list.

package core

import (
	"fmt"

	"github.com/katalvlaran/lvroute/geometry"
)

// AttachTarget projects q onto the closest edge, inserts a new node at the
// projected point, replaces that edge a–b by a–new and new–b, and binds a new
// target with the next sequence number to the inserted node.
//
// Errors:
//   - ErrNoRoute if the graph has no edges.
//   - geometry.ErrInvalidInput for a NaN query point.
//
// Complexity: O(N + E log d) for the projection scan.
func (g *Graph) AttachTarget(q geometry.Point, label string) (Target, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	edges := g.edgesLocked()
	if len(edges) == 0 {
		return Target{}, ErrNoRoute
	}
	p, idx, err := geometry.ClosestPointOnSegments(q, g.segmentsLocked(edges))
	if err != nil {
		return Target{}, err
	}
	e := edges[idx]

	mid := g.addNodeLocked(p)
	if err = g.disconnectLocked(e.From, e.To); err != nil {
		return Target{}, err
	}
	if err = g.connectLocked(e.From, mid); err != nil {
		return Target{}, err
	}
	if err = g.connectLocked(mid, e.To); err != nil {
		return Target{}, err
	}

	return g.bindLocked(mid, label), nil
}

// RestoreTarget binds a new target to an existing node without splitting any
// edge. It exists for persistence layers that reload a graph which was
// already split when it was saved.
//
// Errors:
//   - ErrNodeNotFound if node is not in the graph.
func (g *Graph) RestoreTarget(node NodeID, label string) (Target, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.slotLocked(node); !ok {
		return Target{}, fmt.Errorf("%w: %d", ErrNodeNotFound, node)
	}

	return g.bindLocked(node, label), nil
}

func (g *Graph) bindLocked(node NodeID, label string) Target {
	t := &Target{ID: g.nextTarget, Seq: len(g.targets) + 1, Label: label, Node: node}
	g.nextTarget++
	g.targets = append(g.targets, t)

	return *t
}

// DetachTarget removes target id. Its node and the split edges stay in the
// graph; remaining targets are renumbered.
//
// Errors:
//   - ErrTargetNotFound if id is unknown.
func (g *Graph) DetachTarget(id TargetID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.targetIndexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTargetNotFound, id)
	}
	copy(g.targets[i:], g.targets[i+1:])
	g.targets[len(g.targets)-1] = nil
	g.targets = g.targets[:len(g.targets)-1]
	g.renumberLocked()

	return nil
}

// MoveTarget moves target id to the 1-based display position pos and
// renumbers all targets. Positions beyond the ends are clamped.
//
// Errors:
//   - ErrTargetNotFound if id is unknown.
func (g *Graph) MoveTarget(id TargetID, pos int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.targetIndexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTargetNotFound, id)
	}
	j := pos - 1
	if j < 0 {
		j = 0
	}
	if j >= len(g.targets) {
		j = len(g.targets) - 1
	}

	t := g.targets[i]
	if i < j {
		copy(g.targets[i:j], g.targets[i+1:j+1])
	} else {
		copy(g.targets[j+1:i+1], g.targets[j:i])
	}
	g.targets[j] = t
	g.renumberLocked()

	return nil
}

// Target returns a snapshot of target id.
//
// Errors:
//   - ErrTargetNotFound if id is unknown.
func (g *Graph) Target(id TargetID) (Target, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i := g.targetIndexLocked(id)
	if i < 0 {
		return Target{}, fmt.Errorf("%w: %d", ErrTargetNotFound, id)
	}

	return *g.targets[i], nil
}

// Targets returns all targets ordered by Seq.
func (g *Graph) Targets() []Target {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Target, len(g.targets))
	for i, t := range g.targets {
		out[i] = *t
	}

	return out
}

// TargetsAt returns the targets bound to node, ordered by Seq.
func (g *Graph) TargetsAt(node NodeID) []Target {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Target
	for _, t := range g.targets {
		if t.Node == node {
			out = append(out, *t)
		}
	}

	return out
}

func (g *Graph) targetIndexLocked(id TargetID) int {
	for i, t := range g.targets {
		if t.ID == id {
			return i
		}
	}

	return -1
}

func (g *Graph) renumberLocked() {
	for i, t := range g.targets {
		t.Seq = i + 1
	}
}
