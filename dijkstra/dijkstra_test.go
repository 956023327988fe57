// Package dijkstra_test validates shortest-path lengths, reconstructed paths,
// unreachability and deterministic tie-breaking.
package dijkstra_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/dijkstra"
)

// chain builds S(0,0)–A(10,0)–C(10,10)–E(0,10).
func chain(t testing.TB) (*core.Graph, core.NodeID, core.NodeID, core.NodeID, core.NodeID) {
	g := core.NewGraph()
	s := g.AddNode(0, 0)
	a := g.AddNode(10, 0)
	c := g.AddNode(10, 10)
	e := g.AddNode(0, 10)
	require.NoError(t, g.Connect(s, a))
	require.NoError(t, g.Connect(a, c))
	require.NoError(t, g.Connect(c, e))

	return g, s, a, c, e
}

func TestShortestPath_Chain(t *testing.T) {
	g, s, a, c, e := chain(t)

	length, path, err := dijkstra.ShortestPath(g.Edges(), s, e)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, length, 1e-9)
	assert.Equal(t, []core.NodeID{s, a, c, e}, path)

	// reverse direction walks the same edges
	length, path, err = dijkstra.ShortestPath(g.Edges(), e, s)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, length, 1e-9)
	assert.Equal(t, []core.NodeID{e, c, a, s}, path)
}

func TestShortestPath_PrefersShortcut(t *testing.T) {
	g, s, _, _, e := chain(t)
	require.NoError(t, g.Connect(s, e))

	length, path, err := dijkstra.ShortestPath(g.Edges(), s, e)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, length, 1e-9)
	assert.Equal(t, []core.NodeID{s, e}, path)
}

func TestShortestPath_SameNode(t *testing.T) {
	g := core.NewGraph()
	x := g.AddNode(1, 1)

	length, path, err := dijkstra.ShortestPath(g.Edges(), x, x)
	require.NoError(t, err)
	assert.Zero(t, length)
	assert.Equal(t, []core.NodeID{x}, path)
}

func TestShortestPath_Unreachable(t *testing.T) {
	g, s, _, _, _ := chain(t)
	p := g.AddNode(50, 50)
	q := g.AddNode(60, 50)
	require.NoError(t, g.Connect(p, q))

	length, path, err := dijkstra.ShortestPath(g.Edges(), s, q)
	require.NoError(t, err)
	assert.True(t, math.IsInf(length, 1))
	assert.Empty(t, path)

	// isolated node not present in the edge list at all
	lone := g.AddNode(-5, -5)
	length, path, err = dijkstra.ShortestPath(g.Edges(), s, lone)
	require.NoError(t, err)
	assert.True(t, math.IsInf(length, 1))
	assert.Nil(t, path)
}

func TestNew_RejectsBadWeights(t *testing.T) {
	_, err := dijkstra.New([]core.Edge{{From: 0, To: 1, Weight: -1}})
	require.ErrorIs(t, err, dijkstra.ErrNegativeWeight)

	_, err = dijkstra.New([]core.Edge{{From: 0, To: 1, Weight: math.NaN()}})
	require.ErrorIs(t, err, dijkstra.ErrBadWeight)
}

func TestShortestPath_DeterministicTies(t *testing.T) {
	// Diamond with two equal routes 0→1→3 and 0→2→3.
	edges := []core.Edge{
		{From: 0, To: 1, Weight: 1},
		{From: 0, To: 2, Weight: 1},
		{From: 1, To: 3, Weight: 1},
		{From: 2, To: 3, Weight: 1},
	}
	eng, err := dijkstra.New(edges)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		length, path := eng.ShortestPath(0, 3)
		assert.Equal(t, 2.0, length)
		assert.Equal(t, []core.NodeID{0, 1, 3}, path)
	}
}

// bruteForce enumerates all simple paths from s to t with DFS.
func bruteForce(edges []core.Edge, s, t core.NodeID) float64 {
	adj := make(map[core.NodeID][]core.Edge)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e)
		adj[e.To] = append(adj[e.To], core.Edge{From: e.To, To: e.From, Weight: e.Weight})
	}
	best := math.Inf(1)
	seen := map[core.NodeID]bool{s: true}
	var walk func(u core.NodeID, acc float64)
	walk = func(u core.NodeID, acc float64) {
		if u == t {
			best = math.Min(best, acc)
			return
		}
		for _, e := range adj[u] {
			if seen[e.To] {
				continue
			}
			seen[e.To] = true
			walk(e.To, acc+e.Weight)
			seen[e.To] = false
		}
	}
	walk(s, 0)

	return best
}

func TestShortestPath_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 25; round++ {
		g := core.NewGraph()
		n := 7
		ids := make([]core.NodeID, n)
		for i := range ids {
			ids[i] = g.AddNode(rng.Float64()*100, rng.Float64()*100)
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < 0.4 {
					require.NoError(t, g.Connect(ids[i], ids[j]))
				}
			}
		}
		edges := g.Edges()
		eng, err := dijkstra.New(edges)
		require.NoError(t, err)

		for _, s := range ids {
			for _, d := range ids {
				want := bruteForce(edges, s, d)
				got, path := eng.ShortestPath(s, d)
				if math.IsInf(want, 1) {
					assert.True(t, math.IsInf(got, 1))
					assert.Empty(t, path)
					continue
				}
				assert.InDelta(t, want, got, 1e-9)
				require.NotEmpty(t, path)
				assert.Equal(t, s, path[0])
				assert.Equal(t, d, path[len(path)-1])

				// the reported path is a real walk with the reported length
				var sum float64
				for k := 1; k < len(path); k++ {
					require.True(t, g.HasEdge(path[k-1], path[k]))
					a, _ := g.Node(path[k-1])
					b, _ := g.Node(path[k])
					sum += math.Hypot(a.X-b.X, a.Y-b.Y)
				}
				assert.InDelta(t, got, sum, 1e-9)
			}
		}
	}
}
