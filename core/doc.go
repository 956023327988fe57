// Package core defines the route graph: a planar, undirected network of
// waypoints (RouteNodes) with named targets attached to points on it.
//
// Model:
//
//   - Nodes live in an arena and are addressed by a stable NodeID. An id is
//     never reused after RemoveNode, so ids held by callers cannot silently
//     start pointing at a different node.
//   - Adjacency is stored as a set of neighbor ids per node and is always
//     symmetric: if A lists B then B lists A. Self-loops and duplicate edges
//     are rejected.
//   - Edge weights are the live Euclidean distance between the endpoints and
//     are never cached, so Move keeps every weight consistent for free.
//   - A Target is a labelled waypoint bound to one node. AttachTarget splits
//     the closest edge at the projected point and binds the target to the new
//     node; DetachTarget removes only the target and leaves the split in place.
//   - Target sequence numbers are 1-based and contiguous; they are reassigned
//     after every attach, detach, reorder or cascading node removal.
//
// Determinism:
//
//   - Nodes(), Neighbors() and Edges() are ordered by ascending NodeID;
//     Edges() emits each undirected pair once as (low, high).
//
// Concurrency:
//
//	All methods take an internal sync.RWMutex, so readers may overlap with a
//	single writer. Compound editing sequences (read, decide, mutate) are not
//	atomic; callers that serve several editors must serialise them.
//
// Errors:
//
//	ErrNodeNotFound      - an operation referenced a node that is not in the graph.
//	ErrTargetNotFound    - an operation referenced an unknown target.
//	ErrInvalidOperation  - self-loop connect attempt.
//	ErrAlreadyConnected  - connect on an existing edge.
//	ErrNoRoute           - attach requested on a graph without edges.
//
// Quick example:
//
//	g := core.NewGraph()
//	a := g.AddNode(0, 0)
//	b := g.AddNode(10, 0)
//	_ = g.Connect(a, b)
//	t, _ := g.AttachTarget(geometry.Point{X: 4, Y: 3}, "milk")
//	// t.Node sits at (4,0); edges are now a–t.Node and t.Node–b.
package core
