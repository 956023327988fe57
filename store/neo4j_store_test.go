package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers the store's Cypher from the parameters of earlier saves.
type fakeRunner struct {
	mu      sync.Mutex
	graphs  map[string]map[string]any
	queries []string
	fail    error
	closed  bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{graphs: make(map[string]map[string]any)}
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func (f *fakeRunner) Run(_ context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.fail != nil {
		return nil, f.fail
	}

	res := &neo4j.EagerResult{}
	switch query {
	case cypherSave:
		f.graphs[params["name"].(string)] = params

	case cypherLoadGraph:
		p, ok := f.graphs[params["name"].(string)]
		if !ok {
			break
		}
		keys := []string{"start", "end", "labels", "targetNodes"}
		res.Keys = keys
		res.Records = append(res.Records, record(keys, p["start"], p["end"], p["labels"], p["targetNodes"]))

	case cypherLoadNodes:
		p, ok := f.graphs[params["name"].(string)]
		if !ok {
			break
		}
		adj := make(map[int64][]any)
		for _, e := range p["edges"].([]any) {
			m := e.(map[string]any)
			a, b := m["a"].(int64), m["b"].(int64)
			adj[a] = append(adj[a], b)
			adj[b] = append(adj[b], a)
		}
		keys := []string{"idx", "x", "y", "nbs"}
		res.Keys = keys
		for _, n := range p["nodes"].([]any) {
			m := n.(map[string]any)
			idx := m["idx"].(int64)
			nbs := adj[idx]
			if nbs == nil {
				nbs = []any{}
			}
			res.Records = append(res.Records, record(keys, idx, m["x"], m["y"], nbs))
		}

	case cypherList:
		names := make([]string, 0, len(f.graphs))
		for n := range f.graphs {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			res.Records = append(res.Records, record([]string{"name"}, n))
		}

	case cypherDelete:
		name := params["name"].(string)
		var deleted int64
		if _, ok := f.graphs[name]; ok {
			delete(f.graphs, name)
			deleted = 1
		}
		res.Records = append(res.Records, record([]string{"deleted"}, deleted))
	}

	return res, nil
}

func (f *fakeRunner) Close() error {
	f.closed = true
	return nil
}

func TestNeo4jStore_SaveParams(t *testing.T) {
	f := newFakeRunner()
	s := NewNeo4jStore(f, nil)
	doc := sampleDoc(t)
	require.NoError(t, s.Save(context.Background(), "grid", doc))

	p := f.graphs["grid"]
	require.NotNil(t, p)
	assert.Equal(t, int64(0), p["start"])
	assert.Equal(t, int64(8), p["end"])
	assert.Len(t, p["nodes"], len(doc.Nodes))

	// each undirected edge is sent once, lower index first
	var edges int
	for _, rec := range doc.Nodes {
		edges += len(rec.ConnectsWith)
	}
	require.Len(t, p["edges"], edges/2)
	for _, e := range p["edges"].([]any) {
		m := e.(map[string]any)
		assert.Less(t, m["a"].(int64), m["b"].(int64))
	}
	assert.Equal(t, []any{"A", "B"}, p["labels"])
}

func TestNeo4jStore_UnsetEndpoints(t *testing.T) {
	f := newFakeRunner()
	s := NewNeo4jStore(f, nil)
	doc := sampleDoc(t)
	doc.Start, doc.End = nil, nil
	require.NoError(t, s.Save(context.Background(), "g", doc))
	assert.Nil(t, f.graphs["g"]["start"])

	got, err := s.Load(context.Background(), "g")
	require.NoError(t, err)
	assert.Nil(t, got.Start)
	assert.Nil(t, got.End)
}

func TestNeo4jStore_RunnerErrors(t *testing.T) {
	ctx := context.Background()
	f := newFakeRunner()
	f.fail = errors.New("connection refused")
	s := NewNeo4jStore(f, nil)

	require.ErrorIs(t, s.Save(ctx, "g", sampleDoc(t)), f.fail)
	_, err := s.Load(ctx, "g")
	require.ErrorIs(t, err, f.fail)
	_, err = s.List(ctx)
	require.ErrorIs(t, err, f.fail)
	require.ErrorIs(t, s.Delete(ctx, "g"), f.fail)
}

func TestNeo4jStore_CloseForwards(t *testing.T) {
	f := newFakeRunner()
	require.NoError(t, NewNeo4jStore(f, nil).Close())
	assert.True(t, f.closed)
}
