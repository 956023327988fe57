package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/builder"
	"github.com/katalvlaran/lvroute/codec"
	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/geometry"
)

// sample builds a 3×3 grid, attaches two targets and removes a corner so
// node ids have a gap.
func sample(t *testing.T) *core.Graph {
	t.Helper()
	g, err := builder.BuildGraph(nil,
		builder.Grid(3, 3, 10),
		builder.Targets(geometry.Point{X: 5, Y: 1}, geometry.Point{X: 19, Y: 15}),
	)
	require.NoError(t, err)
	require.NoError(t, g.RemoveNode(8))

	return g
}

// assertIsomorphic checks that b is a with node ids renamed by rename.
func assertIsomorphic(t *testing.T, a, b *core.Graph, rename map[core.NodeID]core.NodeID) {
	t.Helper()
	require.Equal(t, a.Stats(), b.Stats())
	for _, id := range a.Nodes() {
		na, err := a.Node(id)
		require.NoError(t, err)
		nb, err := b.Node(rename[id])
		require.NoError(t, err)
		assert.Equal(t, na.X, nb.X)
		assert.Equal(t, na.Y, nb.Y)

		nbsA, _ := a.Neighbors(id)
		var want []core.NodeID
		for _, x := range nbsA {
			want = append(want, rename[x])
		}
		got, _ := b.Neighbors(rename[id])
		assert.ElementsMatch(t, want, got, "node %d", id)
	}
}

func TestNodes_RoundTrip(t *testing.T) {
	g := sample(t)
	data, err := codec.MarshalNodes(g)
	require.NoError(t, err)

	back, ids, err := codec.UnmarshalNodes(data)
	require.NoError(t, err)
	require.Len(t, ids, g.NodeCount())

	rename := make(map[core.NodeID]core.NodeID)
	for i, id := range g.Nodes() {
		rename[id] = ids[i]
	}
	// targets are not part of the node map
	aStats := g.Stats()
	aStats.Targets = 0
	assert.Equal(t, aStats, back.Stats())
	for _, id := range g.Nodes() {
		nbs, _ := g.Neighbors(id)
		got, _ := back.Neighbors(rename[id])
		want := make([]core.NodeID, 0, len(nbs))
		for _, x := range nbs {
			want = append(want, rename[x])
		}
		assert.ElementsMatch(t, want, got)
	}
}

func TestNodes_Shape(t *testing.T) {
	g := core.NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(10, 0)
	require.NoError(t, g.Connect(a, b))

	data, err := codec.MarshalNodes(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"0": {"coords": [0, 0],  "connects_with": [1]},
		"1": {"coords": [10, 0], "connects_with": [0]}
	}`, string(data))
}

func TestDecodeNodes_Errors(t *testing.T) {
	cases := []struct {
		name string
		json string
		want error
	}{
		{"gap", `{"0":{"coords":[0,0],"connects_with":[]},"2":{"coords":[1,1],"connects_with":[]}}`, codec.ErrBadIndex},
		{"not a number", `{"a":{"coords":[0,0],"connects_with":[]}}`, codec.ErrBadIndex},
		{"bad ref", `{"0":{"coords":[0,0],"connects_with":[3]}}`, codec.ErrBadReference},
		{"self loop", `{"0":{"coords":[0,0],"connects_with":[0]}}`, codec.ErrSelfLoop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := codec.UnmarshalNodes([]byte(tc.json))
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, _, err := codec.UnmarshalNodes([]byte(`[`))
	require.Error(t, err)
}

func TestDecodeNodes_OneSidedAdjacency(t *testing.T) {
	g, ids, err := codec.UnmarshalNodes([]byte(`{"0":{"coords":[0,0],"connects_with":[1]},"1":{"coords":[3,4],"connects_with":[]}}`))
	require.NoError(t, err)
	assert.True(t, g.HasEdge(ids[0], ids[1]))
	assert.True(t, g.HasEdge(ids[1], ids[0]))
	assert.Equal(t, 1, g.EdgeCount())
}

func TestDocument_RoundTrip(t *testing.T) {
	g := sample(t)
	s := codec.Session{Graph: g, Start: 0, End: 6}

	data, err := codec.Marshal(s)
	require.NoError(t, err)
	back, err := codec.Unmarshal(data)
	require.NoError(t, err)

	rename := make(map[core.NodeID]core.NodeID)
	for i, id := range g.Nodes() {
		rename[id] = core.NodeID(i)
	}
	assertIsomorphic(t, g, back.Graph, rename)
	assert.Equal(t, rename[0], back.Start)
	assert.Equal(t, rename[6], back.End)

	wantT, gotT := g.Targets(), back.Graph.Targets()
	require.Len(t, gotT, len(wantT))
	for i := range wantT {
		assert.Equal(t, wantT[i].Label, gotT[i].Label)
		assert.Equal(t, wantT[i].Seq, gotT[i].Seq)
		assert.Equal(t, rename[wantT[i].Node], gotT[i].Node)
	}
}

func TestDocument_UnsetEndpoints(t *testing.T) {
	g := core.NewGraph()
	g.AddNode(1, 2)
	data, err := codec.Marshal(codec.Session{Graph: g, Start: core.NoNode, End: core.NoNode})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "start")
	assert.NotContains(t, raw, "end")

	back, err := codec.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, core.NoNode, back.Start)
	assert.Equal(t, core.NoNode, back.End)
}

func TestDocument_Errors(t *testing.T) {
	_, err := codec.Decode(nil)
	require.ErrorIs(t, err, codec.ErrNilDocument)

	_, err = codec.Unmarshal([]byte(`{"nodes":{"0":{"coords":[0,0],"connects_with":[]}},"start":4}`))
	require.ErrorIs(t, err, codec.ErrBadReference)

	_, err = codec.Unmarshal([]byte(`{"nodes":{},"targets":[{"label":"x","node":0}]}`))
	require.ErrorIs(t, err, codec.ErrBadReference)

	g := core.NewGraph()
	_, err = codec.Encode(codec.Session{Graph: g, Start: 3, End: core.NoNode})
	require.ErrorIs(t, err, core.ErrNodeNotFound)
}
