// Package bfs provides breadth-first search over a core.Graph, returning hop
// distances, parent links and visit order, plus connectivity helpers used to
// reject unreachable route requests before any weighted search runs.
package bfs

import (
	"fmt"

	"github.com/katalvlaran/lvroute/core"
)

// queueItem pairs a node with its BFS depth.
type queueItem struct {
	id    core.NodeID
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph *core.Graph
	opts  Options
	queue []queueItem
	res   *Result
}

// BFS runs breadth-first search on g from start. Neighbors are expanded in
// ascending id order, so the visit order is deterministic.
//
// Errors: ErrGraphNil, ErrStartNodeNotFound, ErrOptionViolation, ctx.Err()
// on cancellation, or a wrapped OnVisit error.
//
// Complexity: O(V + E log d).
func BFS(g *core.Graph, start core.NodeID, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: %d", ErrStartNodeNotFound, start)
	}

	w := &walker{
		graph: g,
		opts:  o,
		res: &Result{
			Depth:  make(map[core.NodeID]int),
			Parent: make(map[core.NodeID]core.NodeID),
		},
	}
	w.enqueue(start, 0, core.NoNode)

	return w.res, w.loop()
}

func (w *walker) enqueue(id core.NodeID, d int, parent core.NodeID) {
	w.res.Depth[id] = d
	if parent != core.NoNode {
		w.res.Parent[id] = parent
	}
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.id, err)
		}

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		nbs, err := w.graph.Neighbors(item.id)
		if err != nil {
			return err
		}
		for _, nb := range nbs {
			if !w.res.Reached(nb) {
				w.enqueue(nb, next, item.id)
			}
		}
	}

	return nil
}

// Component returns the set of nodes reachable from start, start included.
func Component(g *core.Graph, start core.NodeID) (map[core.NodeID]bool, error) {
	res, err := BFS(g, start)
	if err != nil {
		return nil, err
	}
	set := make(map[core.NodeID]bool, len(res.Order))
	for _, id := range res.Order {
		set[id] = true
	}

	return set, nil
}

// Connected reports whether all ids lie in one connected component.
// An empty or single-element list is trivially connected.
func Connected(g *core.Graph, ids ...core.NodeID) (bool, error) {
	if len(ids) < 2 {
		return true, nil
	}
	comp, err := Component(g, ids[0])
	if err != nil {
		return false, err
	}
	for _, id := range ids[1:] {
		if !comp[id] {
			return false, nil
		}
	}

	return true, nil
}
