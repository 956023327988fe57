// Package dijkstra computes single-source, single-target shortest paths over
// the undirected, Euclidean-weighted edge list of a route graph.
//
// Overview:
//
//   - An Engine builds an adjacency structure from a []core.Edge once and then
//     answers any number of ShortestPath queries against it. The planner issues
//     O(n²) queries per request over the same snapshot, so the build cost is
//     paid once.
//   - The search is classic Dijkstra with a container/heap min-queue and the
//     “lazy decrease-key” strategy: improved distances push a new entry and
//     stale entries are skipped when popped. Each node is finalized at most once.
//   - The search stops as soon as the target is finalized.
//
// Unreachable targets are a normal outcome: ShortestPath returns
// (math.Inf(1), nil) and no error.
//
// Tie-breaking (reproducible for a fixed edge list):
//
//   - Neighbors are relaxed in edge-list order. core.Graph.Edges emits edges
//     sorted by (From, To), so for graph-derived input this is ascending id order.
//   - The heap orders entries by (distance, push sequence); among equal
//     distances the entry pushed first is finalized first.
//   - A tentative distance is only replaced by a strictly smaller one, so the
//     first predecessor found for an optimal distance is kept.
//
// Complexity:
//
//   - Build: O(E).
//   - Query: O((V + E) log V) time, O(V + E) space.
//
// Errors (sentinel):
//
//   - ErrNegativeWeight: an edge weight is negative.
//   - ErrBadWeight:      an edge weight is NaN.
package dijkstra
