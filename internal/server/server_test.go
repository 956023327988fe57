package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/builder"
	"github.com/katalvlaran/lvroute/codec"
	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/geometry"
	"github.com/katalvlaran/lvroute/planner"
	"github.com/katalvlaran/lvroute/store"
	"github.com/katalvlaran/lvroute/tsp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := store.NewJSONStore(t.TempDir(), nil)
	require.NoError(t, err)
	s, err := New(Config{Addr: "127.0.0.1:0", Repo: repo, Solver: tsp.NewTwoOpt()})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.jobs.shutdown(ctx)
	})

	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

// loadDoc replaces the session through PUT /api/graph.
func loadDoc(t *testing.T, h http.Handler, s codec.Session) {
	t.Helper()
	doc, err := codec.Encode(s)
	require.NoError(t, err)
	rec := do(t, h, http.MethodPut, "/api/graph", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func startPlan(t *testing.T, h http.Handler, algo string) planJSON {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/plans", planRequestJSON{Algo: algo})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	return decodeBody[planJSON](t, rec)
}

func waitPlan(t *testing.T, h http.Handler, id string) planJSON {
	t.Helper()
	var v planJSON
	require.Eventually(t, func() bool {
		rec := do(t, h, http.MethodGet, "/api/plans/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		v = decodeBody[planJSON](t, rec)
		return v.State != stateRunning
	}, 10*time.Second, 5*time.Millisecond)

	return v
}

// chainDoc is S(0,0)–A(10,0)–C(10,10)–E(0,10) with a target on A.
const chainDoc = `{
	"nodes": {
		"0": {"coords": [0, 0],   "connects_with": [1]},
		"1": {"coords": [10, 0],  "connects_with": [0, 2]},
		"2": {"coords": [10, 10], "connects_with": [1, 3]},
		"3": {"coords": [0, 10],  "connects_with": [2]}
	},
	"targets": [{"label": "A", "node": 1}],
	"start": 0,
	"end": 3
}`

func putRaw(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestPlan_ExactChain(t *testing.T) {
	h := newTestServer(t).Handler()
	require.Equal(t, http.StatusOK, putRaw(t, h, "/api/graph", chainDoc).Code)

	j := startPlan(t, h, "exact")
	assert.NotEmpty(t, j.ID)
	v := waitPlan(t, h, j.ID)

	require.Equal(t, stateDone, v.State, v.Error)
	require.NotNil(t, v.Result)
	assert.Equal(t, planner.StatusOK, v.Result.Status)
	require.NotNil(t, v.Result.Length)
	assert.InDelta(t, 30, *v.Result.Length, 1e-9)
	assert.Equal(t, []core.NodeID{0, 1, 2, 3}, v.Result.Path)
	assert.Equal(t, uint64(1), v.Max)
	assert.Equal(t, planner.LabelExact, v.Label)
}

func TestPlan_Approx(t *testing.T) {
	h := newTestServer(t).Handler()
	g, err := builder.BuildGraph(nil,
		builder.Grid(4, 4, 10),
		builder.Targets(
			geometry.Point{X: 5, Y: 0}, geometry.Point{X: 30, Y: 15},
			geometry.Point{X: 15, Y: 30}, geometry.Point{X: 0, Y: 25},
		),
	)
	require.NoError(t, err)
	loadDoc(t, h, codec.Session{Graph: g, Start: 0, End: 15})

	v := waitPlan(t, h, startPlan(t, h, "approx").ID)
	require.Equal(t, stateDone, v.State, v.Error)
	assert.Equal(t, planner.StatusOK, v.Result.Status)
	require.NotEmpty(t, v.Result.Path)
	assert.Equal(t, core.NodeID(0), v.Result.Path[0])
	assert.Len(t, v.Result.Order, 4)
}

func TestPlan_Unreachable(t *testing.T) {
	h := newTestServer(t).Handler()
	doc := `{
		"nodes": {
			"0": {"coords": [0, 0],   "connects_with": [1]},
			"1": {"coords": [10, 0],  "connects_with": [0]},
			"2": {"coords": [50, 50], "connects_with": [3]},
			"3": {"coords": [60, 50], "connects_with": [2]}
		},
		"targets": [{"label": "far", "node": 2}],
		"start": 0,
		"end": 1
	}`
	require.Equal(t, http.StatusOK, putRaw(t, h, "/api/graph", doc).Code)

	rec := do(t, h, http.MethodPost, "/api/plans", planRequestJSON{Algo: "exact"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	v := waitPlan(t, h, decodeBody[planJSON](t, rec).ID)

	require.Equal(t, stateDone, v.State)
	assert.Equal(t, planner.StatusUnreachable, v.Result.Status)
	assert.Nil(t, v.Result.Length)
}

func TestPlan_Cancel(t *testing.T) {
	h := newTestServer(t).Handler()
	g, err := builder.BuildGraph(nil, builder.Grid(5, 5, 10))
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		_, err = g.AttachTarget(geometry.Point{X: float64(i%4)*10 + 5, Y: float64(i / 4 * 10)}, fmt.Sprint(i))
		require.NoError(t, err)
	}
	loadDoc(t, h, codec.Session{Graph: g, Start: 0, End: 24})

	j := startPlan(t, h, "exact")
	rec := do(t, h, http.MethodDelete, "/api/plans/"+j.ID, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	v := waitPlan(t, h, j.ID)
	require.Equal(t, stateDone, v.State, v.Error)
	assert.Equal(t, planner.StatusCancelled, v.Result.Status)
	assert.Empty(t, v.Result.Path)
	require.NotNil(t, v.Result.Length)
	assert.Zero(t, *v.Result.Length)
}

func TestPlan_Validation(t *testing.T) {
	h := newTestServer(t).Handler()

	// empty session: no start
	rec := do(t, h, http.MethodPost, "/api/plans", planRequestJSON{Algo: "exact"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "choose a start node")

	rec = do(t, h, http.MethodPost, "/api/plans", planRequestJSON{Algo: "greedy"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// isolated start node
	doc := `{"nodes": {"0": {"coords": [0,0], "connects_with": []},
		"1": {"coords": [1,0], "connects_with": [2]}, "2": {"coords": [2,0], "connects_with": [1]}},
		"targets": [{"label": "t", "node": 1}], "start": 0, "end": 2}`
	require.Equal(t, http.StatusOK, putRaw(t, h, "/api/graph", doc).Code)
	rec = do(t, h, http.MethodPost, "/api/plans", planRequestJSON{Algo: "exact"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "start node 0 has no connections")

	// no targets
	doc = `{"nodes": {"0": {"coords": [0,0], "connects_with": [1]}, "1": {"coords": [1,0], "connects_with": [0]}},
		"start": 0, "end": 1}`
	require.Equal(t, http.StatusOK, putRaw(t, h, "/api/graph", doc).Code)
	rec = do(t, h, http.MethodPost, "/api/plans", planRequestJSON{Algo: "exact"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditing(t *testing.T) {
	h := newTestServer(t).Handler()

	// attaching needs an edge
	rec := do(t, h, http.MethodPost, "/api/targets", attachJSON{X: 1, Y: 1, Label: "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	a := decodeBody[idJSON](t, do(t, h, http.MethodPost, "/api/nodes", pointJSON{X: 0, Y: 0})).ID
	b := decodeBody[idJSON](t, do(t, h, http.MethodPost, "/api/nodes", pointJSON{X: 10, Y: 0})).ID

	rec = do(t, h, http.MethodPost, "/api/edges", edgeJSON{A: core.NodeID(a), B: core.NodeID(b)})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/edges", edgeJSON{A: core.NodeID(a), B: core.NodeID(b)})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/edges", edgeJSON{A: core.NodeID(a), B: core.NodeID(a)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/targets", attachJSON{X: 4, Y: 3, Label: "dock"})
	require.Equal(t, http.StatusCreated, rec.Code)
	tgt := decodeBody[targetJSON](t, rec)
	assert.Equal(t, 1, tgt.Seq)
	assert.Equal(t, "dock", tgt.Label)

	g := decodeBody[graphJSON](t, do(t, h, http.MethodGet, "/api/graph", nil))
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)
	require.Len(t, g.Targets, 1)
	assert.Equal(t, geometry.Point{X: 4, Y: 0}, geometry.Point{X: g.Nodes[2].X, Y: g.Nodes[2].Y})
	assert.Nil(t, g.Start)

	rec = do(t, h, http.MethodPut, fmt.Sprintf("/api/nodes/%d", b), pointJSON{X: 20, Y: 0})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodPut, "/api/nodes/99", pointJSON{X: 20, Y: 0})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	start, end := core.NodeID(a), core.NodeID(b)
	rec = do(t, h, http.MethodPut, "/api/endpoints", endpointsJSON{Start: &start, End: &end})
	require.Equal(t, http.StatusNoContent, rec.Code)
	missing := core.NodeID(42)
	rec = do(t, h, http.MethodPut, "/api/endpoints", endpointsJSON{Start: &missing})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, fmt.Sprintf("/api/targets/%d/position", tgt.ID), positionJSON{Position: 1})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/targets/%d", tgt.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/targets/%d", tgt.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// detaching leaves the split in place
	g = decodeBody[graphJSON](t, do(t, h, http.MethodGet, "/api/graph", nil))
	assert.Len(t, g.Nodes, 3)
	assert.Empty(t, g.Targets)

	// removing an endpoint unsets it
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/nodes/%d", a), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	g = decodeBody[graphJSON](t, do(t, h, http.MethodGet, "/api/graph", nil))
	assert.Nil(t, g.Start)
	require.NotNil(t, g.End)
	assert.Equal(t, end, *g.End)

	rec = do(t, h, http.MethodDelete, "/api/edges?a=1&b=2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/edges?a=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/nodes", map[string]any{"x": 1, "z": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPersistence(t *testing.T) {
	h := newTestServer(t).Handler()
	require.Equal(t, http.StatusOK, putRaw(t, h, "/api/graph", chainDoc).Code)

	rec := do(t, h, http.MethodPost, "/api/graphs/chain", nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	// wipe the session, then load it back
	require.Equal(t, http.StatusOK, putRaw(t, h, "/api/graph", `{"nodes": {}}`).Code)
	rec = do(t, h, http.MethodGet, "/api/graphs/chain", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	g := decodeBody[graphJSON](t, rec)
	assert.Len(t, g.Nodes, 4)
	require.Len(t, g.Targets, 1)
	assert.Equal(t, core.NodeID(1), g.Targets[0].Node)
	require.NotNil(t, g.End)
	assert.Equal(t, core.NodeID(3), *g.End)

	list := decodeBody[map[string][]string](t, do(t, h, http.MethodGet, "/api/graphs", nil))
	assert.Equal(t, []string{"chain"}, list["graphs"])

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/graphs/.hidden", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/graphs/other", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/graphs/chain", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/graphs/chain", nil).Code)

	assert.Equal(t, http.StatusBadRequest, putRaw(t, h, "/api/graph", `{"nodes": {"0": {"coords": [0,0], "connects_with": [0]}}}`).Code)
}

func TestNew_RestoresNamedGraph(t *testing.T) {
	repo, err := store.NewJSONStore(t.TempDir(), nil)
	require.NoError(t, err)
	var doc codec.Document
	require.NoError(t, json.Unmarshal([]byte(chainDoc), &doc))
	require.NoError(t, repo.Save(context.Background(), "depot", &doc))

	s, err := New(Config{Repo: repo, Graph: "depot"})
	require.NoError(t, err)
	rec := do(t, s.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","nodes":4,"edges":3,"targets":1}`, rec.Body.String())

	// an absent graph is not an error
	_, err = New(Config{Repo: repo, Graph: "absent"})
	require.NoError(t, err)
	_, err = New(Config{})
	require.Error(t, err)
}

func TestStartShutdown(t *testing.T) {
	s := newTestServer(t)
	addr, err := s.Start()
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestCORS(t *testing.T) {
	h := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/api/graph", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
