package dijkstra

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvroute/core"
)

// Sentinel errors returned while building an Engine.
var (
	// ErrNegativeWeight indicates that a negative edge weight was found in the input.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")

	// ErrBadWeight indicates that an edge weight is NaN.
	ErrBadWeight = errors.New("dijkstra: edge weight is not a number")
)

// arc is one half of an undirected edge as seen from its tail.
type arc struct {
	to     core.NodeID
	weight float64
}

// Engine answers shortest-path queries over a fixed edge list.
// An Engine is immutable after New and safe for concurrent queries.
type Engine struct {
	adj map[core.NodeID][]arc
}

// New builds an Engine from edges. Both directions of every edge are
// traversable. Edge order is preserved in each adjacency list.
//
// Errors:
//   - ErrNegativeWeight / ErrBadWeight for invalid weights (checked up front).
//
// Complexity: O(E).
func New(edges []core.Edge) (*Engine, error) {
	adj := make(map[core.NodeID][]arc)
	for _, e := range edges {
		if math.IsNaN(e.Weight) {
			return nil, fmt.Errorf("%w: edge %d–%d", ErrBadWeight, e.From, e.To)
		}
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: edge %d–%d weight=%g", ErrNegativeWeight, e.From, e.To, e.Weight)
		}
		adj[e.From] = append(adj[e.From], arc{to: e.To, weight: e.Weight})
		adj[e.To] = append(adj[e.To], arc{to: e.From, weight: e.Weight})
	}

	return &Engine{adj: adj}, nil
}

// ShortestPath is a one-shot helper: it builds an Engine from edges and runs a
// single query. Prefer New + Engine.ShortestPath for repeated queries.
func ShortestPath(edges []core.Edge, source, target core.NodeID) (float64, []core.NodeID, error) {
	e, err := New(edges)
	if err != nil {
		return 0, nil, err
	}
	length, path := e.ShortestPath(source, target)

	return length, path, nil
}

// Has reports whether id appears as an endpoint of any edge.
func (e *Engine) Has(id core.NodeID) bool {
	_, ok := e.adj[id]

	return ok
}

// ShortestPath returns the length of the shortest walk from source to target
// and the node path source…target inclusive.
//
// source == target yields (0, [source]) even when the node has no edges.
// If target is unreachable the result is (math.Inf(1), nil).
func (e *Engine) ShortestPath(source, target core.NodeID) (float64, []core.NodeID) {
	if source == target {
		return 0, []core.NodeID{source}
	}
	if !e.Has(source) || !e.Has(target) {
		return math.Inf(1), nil
	}

	r := &runner{
		adj:     e.adj,
		target:  target,
		dist:    map[core.NodeID]float64{source: 0},
		prev:    make(map[core.NodeID]core.NodeID),
		visited: make(map[core.NodeID]bool),
	}
	r.push(source, 0)
	if !r.process() {
		return math.Inf(1), nil
	}

	return r.dist[target], r.path(source)
}

// runner holds the mutable state for one query.
type runner struct {
	adj     map[core.NodeID][]arc
	target  core.NodeID
	dist    map[core.NodeID]float64     // best known distance
	prev    map[core.NodeID]core.NodeID // predecessor on the best known path
	visited map[core.NodeID]bool        // finalized nodes
	pq      nodePQ
	seq     uint64
}

// process pops nodes in distance order until the target is finalized
// (returns true) or the queue runs dry (returns false).
func (r *runner) process() bool {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.visited[u] {
			continue // stale entry
		}
		r.visited[u] = true
		if u == r.target {
			return true
		}
		r.relax(u)
	}

	return false
}

// relax offers every neighbor of the finalized node u a path through u.
func (r *runner) relax(u core.NodeID) {
	du := r.dist[u]
	for _, a := range r.adj[u] {
		if r.visited[a.to] {
			continue
		}
		nd := du + a.weight
		if cur, seen := r.dist[a.to]; seen && nd >= cur {
			continue
		}
		r.dist[a.to] = nd
		r.prev[a.to] = u
		r.push(a.to, nd)
	}
}

func (r *runner) push(id core.NodeID, d float64) {
	heap.Push(&r.pq, &nodeItem{id: id, dist: d, seq: r.seq})
	r.seq++
}

// path walks prev back from the target and returns source…target.
func (r *runner) path(source core.NodeID) []core.NodeID {
	var rev []core.NodeID
	for v := r.target; ; v = r.prev[v] {
		rev = append(rev, v)
		if v == source {
			break
		}
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}

	return rev
}

// nodeItem is a heap entry: a node with the distance it was pushed at.
type nodeItem struct {
	id   core.NodeID
	dist float64
	seq  uint64 // push order; breaks distance ties
}

// nodePQ is a min-heap of *nodeItem ordered by (dist, seq).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].seq < pq[j].seq
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
