package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/katalvlaran/lvroute/codec"
)

// Runner executes one Cypher query and returns its buffered result.
// Neo4jRunner is the driver-backed implementation; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Neo4jRunner runs queries through the official driver against one database.
type Neo4jRunner struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jRunner creates a driver with basic auth. It does not connect;
// call Verify for that.
func NewNeo4jRunner(uri, username, password, dbName string) (*Neo4jRunner, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}

	return &Neo4jRunner{Driver: driver, DBName: dbName}, nil
}

// Verify checks connectivity to the server.
func (r *Neo4jRunner) Verify(ctx context.Context) error {
	return r.Driver.VerifyConnectivity(ctx)
}

// Run executes query in a managed transaction and buffers every record.
func (r *Neo4jRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		r.Driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.DBName),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}

	return result, nil
}

// Close releases the driver.
func (r *Neo4jRunner) Close() error {
	return r.Driver.Close(context.Background())
}

// Cypher used by Neo4jStore. Saving is one statement so a graph is replaced
// atomically.
const (
	cypherSave = `
MERGE (g:RouteGraph {name: $name})
SET g.start = $start, g.end = $end,
    g.targetLabels = $labels, g.targetNodes = $targetNodes,
    g.updatedAt = datetime()
WITH g
OPTIONAL MATCH (g)-[:HAS_NODE]->(old:RouteNode)
DETACH DELETE old
WITH DISTINCT g
UNWIND $nodes AS node
CREATE (g)-[:HAS_NODE]->(:RouteNode {idx: node.idx, x: node.x, y: node.y})
WITH DISTINCT g
UNWIND $edges AS e
MATCH (g)-[:HAS_NODE]->(a:RouteNode {idx: e.a})
MATCH (g)-[:HAS_NODE]->(b:RouteNode {idx: e.b})
CREATE (a)-[:CONNECTS]->(b)`

	cypherLoadGraph = `
MATCH (g:RouteGraph {name: $name})
RETURN g.start AS start, g.end AS end, g.targetLabels AS labels, g.targetNodes AS targetNodes`

	cypherLoadNodes = `
MATCH (g:RouteGraph {name: $name})-[:HAS_NODE]->(n:RouteNode)
OPTIONAL MATCH (n)-[:CONNECTS]-(m:RouteNode)
RETURN n.idx AS idx, n.x AS x, n.y AS y, collect(m.idx) AS nbs
ORDER BY idx`

	cypherList = `
MATCH (g:RouteGraph)
RETURN g.name AS name
ORDER BY name`

	cypherDelete = `
MATCH (g:RouteGraph {name: $name})
OPTIONAL MATCH (g)-[:HAS_NODE]->(n:RouteNode)
DETACH DELETE n, g
RETURN count(*) AS deleted`
)

// Neo4jStore keeps each graph as a RouteGraph node owning RouteNode nodes.
// Edges are CONNECTS relationships stored once, lower index first.
type Neo4jStore struct {
	runner Runner
	logger *slog.Logger
}

// NewNeo4jStore wraps r. If r also has Close() error, Close forwards to it.
func NewNeo4jStore(r Runner, logger *slog.Logger) *Neo4jStore {
	return &Neo4jStore{runner: r, logger: componentLogger(logger, KindNeo4j)}
}

// Save replaces the graph stored under name.
func (s *Neo4jStore) Save(ctx context.Context, name string, doc *codec.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}
	idx, err := sortedIndices(doc.Nodes)
	if err != nil {
		return err
	}

	nodes := make([]any, 0, len(idx))
	edges := make([]any, 0)
	seen := make(map[[2]int]bool)
	for _, i := range idx {
		rec := doc.Nodes[strconv.Itoa(i)]
		nodes = append(nodes, map[string]any{
			"idx": int64(i),
			"x":   rec.Coords[0],
			"y":   rec.Coords[1],
		})
		for _, j := range rec.ConnectsWith {
			key := [2]int{min(i, j), max(i, j)}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, map[string]any{"a": int64(key[0]), "b": int64(key[1])})
		}
	}
	labels := make([]any, 0, len(doc.Targets))
	targetNodes := make([]any, 0, len(doc.Targets))
	for _, t := range doc.Targets {
		labels = append(labels, t.Label)
		targetNodes = append(targetNodes, int64(t.Node))
	}

	_, err = s.runner.Run(ctx, cypherSave, map[string]any{
		"name":        name,
		"start":       optionalIndex(doc.Start),
		"end":         optionalIndex(doc.End),
		"labels":      labels,
		"targetNodes": targetNodes,
		"nodes":       nodes,
		"edges":       edges,
	})
	if err != nil {
		return fmt.Errorf("store: neo4j save %q: %w", name, err)
	}
	s.logger.Debug("graph saved", slog.String("name", name), slog.Int("nodes", len(nodes)))

	return nil
}

// Load reads the graph stored under name.
func (s *Neo4jStore) Load(ctx context.Context, name string) (*codec.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	params := map[string]any{"name": name}

	head, err := s.runner.Run(ctx, cypherLoadGraph, params)
	if err != nil {
		return nil, fmt.Errorf("store: neo4j load %q: %w", name, err)
	}
	if len(head.Records) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	rec := head.Records[0]

	doc := &codec.Document{Nodes: make(codec.NodeMap)}
	if v, ok := rec.Get("start"); ok {
		doc.Start = indexPtr(v)
	}
	if v, ok := rec.Get("end"); ok {
		doc.End = indexPtr(v)
	}
	labels, _ := rec.Get("labels")
	targetNodes, _ := rec.Get("targetNodes")
	ls, _ := labels.([]any)
	ns, _ := targetNodes.([]any)
	if len(ls) != len(ns) {
		return nil, fmt.Errorf("store: neo4j load %q: %d target labels for %d target nodes", name, len(ls), len(ns))
	}
	for k := range ls {
		label, _ := ls[k].(string)
		node, ok := toInt(ns[k])
		if !ok {
			return nil, fmt.Errorf("store: neo4j load %q: target %d: bad node %v", name, k+1, ns[k])
		}
		doc.Targets = append(doc.Targets, codec.TargetRecord{Label: label, Node: node})
	}

	res, err := s.runner.Run(ctx, cypherLoadNodes, params)
	if err != nil {
		return nil, fmt.Errorf("store: neo4j load %q nodes: %w", name, err)
	}
	for _, r := range res.Records {
		v, _ := r.Get("idx")
		i, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("store: neo4j load %q: bad node index %v", name, v)
		}
		xv, _ := r.Get("x")
		yv, _ := r.Get("y")
		x, okX := toFloat(xv)
		y, okY := toFloat(yv)
		if !okX || !okY {
			return nil, fmt.Errorf("store: neo4j load %q: node %d: bad coordinates", name, i)
		}
		nbsv, _ := r.Get("nbs")
		raw, _ := nbsv.([]any)
		nbs := make([]int, 0, len(raw))
		for _, n := range raw {
			if j, ok := toInt(n); ok {
				nbs = append(nbs, j)
			}
		}
		sort.Ints(nbs)
		doc.Nodes[strconv.Itoa(i)] = codec.NodeRecord{Coords: [2]float64{x, y}, ConnectsWith: nbs}
	}

	return doc, nil
}

// List returns stored names in ascending order.
func (s *Neo4jStore) List(ctx context.Context) ([]string, error) {
	res, err := s.runner.Run(ctx, cypherList, nil)
	if err != nil {
		return nil, fmt.Errorf("store: neo4j list: %w", err)
	}
	names := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		v, _ := r.Get("name")
		if n, ok := v.(string); ok {
			names = append(names, n)
		}
	}

	return names, nil
}

// Delete removes the graph and its nodes.
func (s *Neo4jStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	res, err := s.runner.Run(ctx, cypherDelete, map[string]any{"name": name})
	if err != nil {
		return fmt.Errorf("store: neo4j delete %q: %w", name, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	v, _ := res.Records[0].Get("deleted")
	if n, _ := toInt(v); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return nil
}

// Close closes the runner when it supports closing.
func (s *Neo4jStore) Close() error {
	if c, ok := s.runner.(interface{ Close() error }); ok {
		return c.Close()
	}

	return nil
}

func optionalIndex(p *int) any {
	if p == nil {
		return nil
	}

	return int64(*p)
}

func indexPtr(v any) *int {
	i, ok := toInt(v)
	if !ok {
		return nil
	}

	return &i
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	}

	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}

	return 0, false
}
