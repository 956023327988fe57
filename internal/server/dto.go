package server

import (
	"math"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/planner"
)

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type idJSON struct {
	ID int `json:"id"`
}

type nodeJSON struct {
	ID        core.NodeID   `json:"id"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Neighbors []core.NodeID `json:"neighbors"`
}

type edgeJSON struct {
	A      core.NodeID `json:"a"`
	B      core.NodeID `json:"b"`
	Length float64     `json:"length,omitempty"`
}

type targetJSON struct {
	ID    core.TargetID `json:"id"`
	Seq   int           `json:"seq"`
	Label string        `json:"label"`
	Node  core.NodeID   `json:"node"`
}

type attachJSON struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type positionJSON struct {
	Position int `json:"position"`
}

// endpointsJSON uses null for an unset endpoint.
type endpointsJSON struct {
	Start *core.NodeID `json:"start"`
	End   *core.NodeID `json:"end"`
}

// graphJSON is the id-based view of the session used by the editing API.
type graphJSON struct {
	Nodes   []nodeJSON   `json:"nodes"`
	Edges   []edgeJSON   `json:"edges"`
	Targets []targetJSON `json:"targets"`
	endpointsJSON
}

type planRequestJSON struct {
	Algo string `json:"algo"`
}

type planJSON struct {
	ID        string      `json:"id"`
	State     string      `json:"state"`
	Algorithm string      `json:"algorithm"`
	Label     string      `json:"label,omitempty"`
	Count     uint64      `json:"count"`
	Max       uint64      `json:"max"`
	Result    *resultJSON `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type legJSON struct {
	From   core.NodeID   `json:"from"`
	To     core.NodeID   `json:"to"`
	Length float64       `json:"length"`
	Path   []core.NodeID `json:"path"`
}

// resultJSON mirrors planner.Result. Length is null when unreachable since
// JSON has no infinity.
type resultJSON struct {
	Status    planner.Status  `json:"status"`
	Length    *float64        `json:"length"`
	Path      []core.NodeID   `json:"path"`
	Order     []core.TargetID `json:"order"`
	Legs      []legJSON       `json:"legs,omitempty"`
	Evaluated uint64          `json:"evaluated"`
}

func toResultJSON(r planner.Result) resultJSON {
	out := resultJSON{
		Status:    r.Status,
		Path:      r.Path,
		Order:     r.Order,
		Evaluated: r.Evaluated,
	}
	if out.Path == nil {
		out.Path = []core.NodeID{}
	}
	if out.Order == nil {
		out.Order = []core.TargetID{}
	}
	if !math.IsInf(r.Length, 0) && !math.IsNaN(r.Length) {
		l := r.Length
		out.Length = &l
	}
	for _, leg := range r.Legs {
		out.Legs = append(out.Legs, legJSON(leg))
	}

	return out
}

func toTargetJSON(t core.Target) targetJSON {
	return targetJSON{ID: t.ID, Seq: t.Seq, Label: t.Label, Node: t.Node}
}

// graphView renders the session. Caller holds the session lock.
func graphView(s *session) graphJSON {
	g := s.graph
	v := graphJSON{
		Nodes:   make([]nodeJSON, 0, g.NodeCount()),
		Edges:   make([]edgeJSON, 0),
		Targets: make([]targetJSON, 0),
	}
	for _, id := range g.Nodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		nbs, _ := g.Neighbors(id)
		if nbs == nil {
			nbs = []core.NodeID{}
		}
		v.Nodes = append(v.Nodes, nodeJSON{ID: id, X: n.X, Y: n.Y, Neighbors: nbs})
	}
	for _, e := range g.Edges() {
		v.Edges = append(v.Edges, edgeJSON{A: e.From, B: e.To, Length: e.Weight})
	}
	for _, t := range g.Targets() {
		v.Targets = append(v.Targets, toTargetJSON(t))
	}
	if s.start != core.NoNode {
		start := s.start
		v.Start = &start
	}
	if s.end != core.NoNode {
		end := s.end
		v.End = &end
	}

	return v
}
