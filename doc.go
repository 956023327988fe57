// Package lvroute plans minimum-length walks through a planar route graph.
//
// A route graph is a set of points joined by undirected edges weighted by
// Euclidean length. Named targets are attached by splitting the nearest edge
// at the projected point. A route starts at one node, visits every target and
// ends at another, and is found either exactly (all target orderings) or
// approximately (a tour oracle over pairwise shortest paths).
//
// Packages, leaf first:
//
//	geometry/     points, distances, closest point on a set of segments
//	core/         the route graph arena: nodes, edges, targets, split/detach
//	bfs/          reachability and connected components
//	dijkstra/     single-pair shortest paths over an edge list
//	tsp/          tour oracles: 2-opt, genetic, Held–Karp
//	planner/      request validation, exact and approximate planning, progress
//	builder/      grid, path, cycle and target generators
//	codec/        positional JSON encoding of graphs and editing sessions
//	store/        named documents in JSON files, SQLite or Neo4j
//	cmd/lvroute   serve, plan and demo commands
//
// Quick example:
//
//	S───A───C
//	        │
//	E───────┘
//
//	g := core.NewGraph()
//	s, a, c, e := g.AddNode(0, 0), g.AddNode(10, 0), g.AddNode(10, 10), g.AddNode(0, 10)
//	_ = g.Connect(s, a); _ = g.Connect(a, c); _ = g.Connect(c, e)
//	t, _ := g.RestoreTarget(a, "A")
//	res, _ := planner.New().Exact(ctx, planner.Request{Graph: g, Start: s, End: e, Targets: []core.TargetID{t.ID}})
//	// res.Length == 30, res.Path == [s a c e]
package lvroute
