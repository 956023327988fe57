package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/bfs"
	"github.com/katalvlaran/lvroute/core"
)

// twoIslands builds 0–1–2–3 and 4–5.
func twoIslands(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for i := 0; i < 6; i++ {
		g.AddNode(float64(i), 0)
	}
	for _, e := range [][2]core.NodeID{{0, 1}, {1, 2}, {2, 3}, {4, 5}} {
		require.NoError(t, g.Connect(e[0], e[1]))
	}

	return g
}

func TestBFS_OrderDepthPath(t *testing.T) {
	g := twoIslands(t)
	require.NoError(t, g.Connect(0, 2))

	res, err := bfs.BFS(g, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.NodeID{0, 1, 2, 3}, res.Order)
	assert.Equal(t, 1, res.Depth[2])
	assert.Equal(t, 2, res.Depth[3])
	assert.False(t, res.Reached(4))

	path, err := res.PathTo(3)
	require.NoError(t, err)
	assert.Equal(t, []core.NodeID{0, 2, 3}, path)

	_, err = res.PathTo(5)
	require.Error(t, err)
}

func TestBFS_Errors(t *testing.T) {
	_, err := bfs.BFS(nil, 0)
	require.ErrorIs(t, err, bfs.ErrGraphNil)

	g := twoIslands(t)
	_, err = bfs.BFS(g, 42)
	require.ErrorIs(t, err, bfs.ErrStartNodeNotFound)

	_, err = bfs.BFS(g, 0, bfs.WithMaxDepth(-1))
	require.ErrorIs(t, err, bfs.ErrOptionViolation)
}

func TestBFS_MaxDepthAndHooks(t *testing.T) {
	g := twoIslands(t)
	var visited []core.NodeID
	res, err := bfs.BFS(g, 0,
		bfs.WithMaxDepth(1),
		bfs.WithOnVisit(func(id core.NodeID, _ int) error {
			visited = append(visited, id)
			return nil
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []core.NodeID{0, 1}, res.Order)
	assert.Equal(t, res.Order, visited)

	stop := errors.New("stop")
	_, err = bfs.BFS(g, 0, bfs.WithOnVisit(func(core.NodeID, int) error { return stop }))
	require.ErrorIs(t, err, stop)
}

func TestBFS_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bfs.BFS(twoIslands(t), 0, bfs.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

func TestConnected(t *testing.T) {
	g := twoIslands(t)

	ok, err := bfs.Connected(g, 0, 3, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bfs.Connected(g, 0, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = bfs.Connected(g)
	require.NoError(t, err)
	assert.True(t, ok)

	comp, err := bfs.Component(g, 4)
	require.NoError(t, err)
	assert.Equal(t, map[core.NodeID]bool{4: true, 5: true}, comp)
}
