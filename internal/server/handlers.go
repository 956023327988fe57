package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/katalvlaran/lvroute/codec"
	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/geometry"
	"github.com/katalvlaran/lvroute/planner"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.session.mu.Lock()
	st := s.session.graph.Stats()
	s.session.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"nodes":   st.Nodes,
		"edges":   st.Edges,
		"targets": st.Targets,
	})
}

func pathInt(r *http.Request, key string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[key])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadRequest, key)
	}

	return v, nil
}

// --- graph ---

func (s *Server) getGraph(w http.ResponseWriter, _ *http.Request) {
	s.session.mu.Lock()
	v := graphView(s.session)
	s.session.mu.Unlock()

	writeJSON(w, http.StatusOK, v)
}

// putGraph replaces the session with a positional document.
func (s *Server) putGraph(w http.ResponseWriter, r *http.Request) {
	var doc codec.Document
	if err := decode(w, r, &doc); err != nil {
		s.fail(w, r, err)
		return
	}
	cs, err := codec.Decode(&doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	s.session.replace(cs)
	v := graphView(s.session)
	s.session.mu.Unlock()

	writeJSON(w, http.StatusOK, v)
}

// --- nodes and edges ---

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var p pointJSON
	if err := decode(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	id := s.session.graph.AddNode(p.X, p.Y)
	s.session.mu.Unlock()

	writeJSON(w, http.StatusCreated, idJSON{ID: int(id)})
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var p pointJSON
	if err = decode(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	err = s.session.graph.Move(core.NodeID(id), p.X, p.Y)
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	err = s.session.graph.RemoveNode(core.NodeID(id))
	if err == nil {
		s.session.dropEndpoint(core.NodeID(id))
	}
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var e edgeJSON
	if err := decode(w, r, &e); err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	err := s.session.graph.Connect(e.A, e.B)
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// disconnect takes the endpoints as ?a=&b= query parameters.
func (s *Server) disconnect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, errA := strconv.Atoi(q.Get("a"))
	b, errB := strconv.Atoi(q.Get("b"))
	if errA != nil || errB != nil {
		s.fail(w, r, fmt.Errorf("%w: a and b query parameters are required", errBadRequest))
		return
	}

	s.session.mu.Lock()
	err := s.session.graph.Disconnect(core.NodeID(a), core.NodeID(b))
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- targets ---

func (s *Server) listTargets(w http.ResponseWriter, _ *http.Request) {
	s.session.mu.Lock()
	ts := s.session.graph.Targets()
	s.session.mu.Unlock()

	out := make([]targetJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTargetJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) attachTarget(w http.ResponseWriter, r *http.Request) {
	var in attachJSON
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	t, err := s.session.graph.AttachTarget(geometry.Point{X: in.X, Y: in.Y}, in.Label)
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTargetJSON(t))
}

func (s *Server) detachTarget(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	err = s.session.graph.DetachTarget(core.TargetID(id))
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) moveTarget(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var p positionJSON
	if err = decode(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	err = s.session.graph.MoveTarget(core.TargetID(id), p.Position)
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setEndpoints sets both endpoints; null unsets one.
func (s *Server) setEndpoints(w http.ResponseWriter, r *http.Request) {
	var in endpointsJSON
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	start, end := core.NoNode, core.NoNode
	if in.Start != nil {
		if !s.session.graph.HasNode(*in.Start) {
			s.fail(w, r, fmt.Errorf("start: %w: %d", core.ErrNodeNotFound, *in.Start))
			return
		}
		start = *in.Start
	}
	if in.End != nil {
		if !s.session.graph.HasNode(*in.End) {
			s.fail(w, r, fmt.Errorf("end: %w: %d", core.ErrNodeNotFound, *in.End))
			return
		}
		end = *in.End
	}
	s.session.start, s.session.end = start, end
	w.WriteHeader(http.StatusNoContent)
}

// --- plans ---

// startPlan validates against a snapshot and plans it in the background.
// Validation failures are returned immediately; no job is created.
func (s *Server) startPlan(w http.ResponseWriter, r *http.Request) {
	var in planRequestJSON
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	algo, err := planner.ParseAlgorithm(in.Algo)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	req := planner.NewRequest(s.session.graph.Clone(), s.session.start, s.session.end)
	s.session.mu.Unlock()

	if err = planner.New(planner.WithRequireTargets()).Validate(req); err != nil {
		s.fail(w, r, err)
		return
	}

	j := s.jobs.start(algo, func(ctx context.Context, j *job) (planner.Result, error) {
		p := planner.New(
			planner.WithRequireTargets(),
			planner.WithProgress(j),
			planner.WithSolver(s.solver),
			planner.WithLogger(s.base.With(slog.String("plan", j.id))),
		)
		return p.Plan(ctx, req, algo)
	})
	s.logger.Info("plan started", slog.String("id", j.id), slog.String("algo", string(algo)),
		slog.Int("targets", len(req.Targets)))

	writeJSON(w, http.StatusAccepted, j.view())
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j.view())
}

// cancelPlan requests cancellation; the job finishes with status cancelled.
func (s *Server) cancelPlan(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	j.cancel()
	writeJSON(w, http.StatusAccepted, j.view())
}

// --- persistence ---

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": names})
}

func (s *Server) saveGraph(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.session.mu.Lock()
	doc, err := codec.Encode(s.session.snapshot())
	s.session.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err = s.repo.Save(r.Context(), name, doc); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("graph saved", slog.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}

// loadGraph replaces the session with the stored graph and returns it.
func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.restore(r.Context(), name); err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.mu.Lock()
	v := graphView(s.session)
	s.session.mu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) deleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Delete(r.Context(), mux.Vars(r)["name"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) restore(ctx context.Context, name string) error {
	doc, err := s.repo.Load(ctx, name)
	if err != nil {
		return err
	}
	cs, err := codec.Decode(doc)
	if err != nil {
		return fmt.Errorf("stored graph %q: %w", name, err)
	}

	s.session.mu.Lock()
	s.session.replace(cs)
	s.session.mu.Unlock()
	s.logger.Info("graph loaded", slog.String("name", name), slog.Int("nodes", cs.Graph.NodeCount()))

	return nil
}
