// SPDX-License-Identifier: MIT
// Package core_test verifies route graph lifecycle and adjacency contracts.
package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/geometry"
)

// square builds (0,0)–(10,0)–(10,10)–(0,10) as an open chain.
func square(t *testing.T) (*core.Graph, [4]core.NodeID) {
	t.Helper()
	g := core.NewGraph()
	ids := [4]core.NodeID{
		g.AddNode(0, 0),
		g.AddNode(10, 0),
		g.AddNode(10, 10),
		g.AddNode(0, 10),
	}
	require.NoError(t, g.Connect(ids[0], ids[1]))
	require.NoError(t, g.Connect(ids[1], ids[2]))
	require.NoError(t, g.Connect(ids[2], ids[3]))

	return g, ids
}

// assertSymmetric checks that every adjacency entry is mirrored.
func assertSymmetric(t *testing.T, g *core.Graph) {
	t.Helper()
	for _, id := range g.Nodes() {
		nbs, err := g.Neighbors(id)
		require.NoError(t, err)
		for _, nb := range nbs {
			assert.True(t, g.HasEdge(nb, id), "edge %d–%d not mirrored", id, nb)
		}
	}
}

func TestGraph_AddNode(t *testing.T) {
	g := core.NewGraph()
	a := g.AddNode(1, 2)
	b := g.AddNode(3, 4)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, []core.NodeID{a, b}, g.Nodes())

	n, err := g.Node(b)
	require.NoError(t, err)
	assert.Equal(t, core.Node{ID: b, X: 3, Y: 4}, n)

	deg, err := g.Degree(a)
	require.NoError(t, err)
	assert.Zero(t, deg)
}

func TestGraph_Connect(t *testing.T) {
	g := core.NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(3, 4)

	require.NoError(t, g.Connect(a, b))
	assert.True(t, g.HasEdge(a, b))
	assert.True(t, g.HasEdge(b, a))
	assert.Equal(t, 1, g.EdgeCount())

	// duplicate in either orientation
	require.ErrorIs(t, g.Connect(a, b), core.ErrAlreadyConnected)
	require.ErrorIs(t, g.Connect(b, a), core.ErrAlreadyConnected)
	assert.Equal(t, 1, g.EdgeCount())

	// self-loop
	require.ErrorIs(t, g.Connect(a, a), core.ErrInvalidOperation)

	// missing endpoint
	require.ErrorIs(t, g.Connect(a, 99), core.ErrNodeNotFound)
	require.ErrorIs(t, g.Connect(-1, a), core.ErrNodeNotFound)
}

func TestGraph_Disconnect(t *testing.T) {
	g, ids := square(t)

	require.NoError(t, g.Disconnect(ids[2], ids[1]))
	assert.False(t, g.HasEdge(ids[1], ids[2]))
	assert.Equal(t, 2, g.EdgeCount())

	// absent edge is a no-op
	require.NoError(t, g.Disconnect(ids[0], ids[3]))
	assert.Equal(t, 2, g.EdgeCount())

	require.ErrorIs(t, g.Disconnect(ids[0], 42), core.ErrNodeNotFound)
	assertSymmetric(t, g)
}

func TestGraph_Edges_DeduplicatedAndWeighted(t *testing.T) {
	g, ids := square(t)
	require.NoError(t, g.Connect(ids[3], ids[0]))

	edges := g.Edges()
	require.Len(t, edges, 4)

	seen := make(map[[2]core.NodeID]bool)
	for _, e := range edges {
		assert.Less(t, e.From, e.To)
		key := [2]core.NodeID{e.From, e.To}
		assert.False(t, seen[key], "duplicate edge %v", key)
		seen[key] = true
		assert.InDelta(t, 10.0, e.Weight, 1e-12)
	}
	assert.Equal(t, core.Edge{From: ids[0], To: ids[1], Weight: 10}, edges[0])
}

func TestGraph_Move_UpdatesWeights(t *testing.T) {
	g, ids := square(t)
	require.NoError(t, g.Move(ids[1], 6, 8))

	edges := g.Edges()
	assert.InDelta(t, 10.0, edges[0].Weight, 1e-12) // (0,0)–(6,8)
	assert.True(t, g.HasEdge(ids[0], ids[1]))

	require.ErrorIs(t, g.Move(77, 0, 0), core.ErrNodeNotFound)
}

func TestGraph_RemoveNode(t *testing.T) {
	g, ids := square(t)

	require.NoError(t, g.RemoveNode(ids[1]))
	assert.False(t, g.HasNode(ids[1]))
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.False(t, g.HasEdge(ids[0], ids[1]))

	deg, err := g.Degree(ids[0])
	require.NoError(t, err)
	assert.Zero(t, deg)

	// ids are not reused
	n := g.AddNode(5, 5)
	assert.Greater(t, n, ids[3])

	require.ErrorIs(t, g.RemoveNode(ids[1]), core.ErrNodeNotFound)
	_, err = g.Neighbors(ids[1])
	require.ErrorIs(t, err, core.ErrNodeNotFound)
	assertSymmetric(t, g)
}

func TestGraph_NodeAt(t *testing.T) {
	g, ids := square(t)

	id, ok := g.NodeAt(geometry.Point{X: 9, Y: 1}, 8)
	require.True(t, ok)
	assert.Equal(t, ids[1], id)

	_, ok = g.NodeAt(geometry.Point{X: 5, Y: 5}, 2)
	assert.False(t, ok)
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g, ids := square(t)
	_, err := g.AttachTarget(geometry.Point{X: 5, Y: -1}, "a")
	require.NoError(t, err)

	c := g.Clone()
	assert.Equal(t, g.Stats(), c.Stats())
	assert.Equal(t, g.Edges(), c.Edges())
	assert.Equal(t, g.Targets(), c.Targets())

	require.NoError(t, g.RemoveNode(ids[2]))
	assert.True(t, c.HasNode(ids[2]))
	assert.True(t, c.HasEdge(ids[2], ids[3]))
	assert.NotEqual(t, g.Stats(), c.Stats())
}
