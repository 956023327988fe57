// SPDX-License-Identifier: MIT
//
// File: planner.go
// Role: Planner construction, options, request validation and dispatch.

package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/katalvlaran/lvroute/bfs"
	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/dijkstra"
	"github.com/katalvlaran/lvroute/tsp"
)

// Progress labels.
const (
	LabelExact    = "Calculating all possible paths.."
	LabelDistance = "Calculating pairwise distances.."
	LabelOracle   = "Solving tour.."
)

// Planner runs route requests. A Planner is immutable after New and may be
// shared; per-run state lives on the stack of Plan.
type Planner struct {
	solver         tsp.Solver
	progress       Progress
	logger         *slog.Logger
	requireTargets bool
	pruning        bool
}

// Option configures a Planner.
type Option func(*Planner)

// WithSolver sets the tour oracle used by AlgoApprox.
func WithSolver(s tsp.Solver) Option {
	return func(p *Planner) {
		if s != nil {
			p.solver = s
		}
	}
}

// WithProgress sets the progress sink and cancellation source.
func WithProgress(pr Progress) Option {
	return func(p *Planner) {
		if pr != nil {
			p.progress = pr
		}
	}
}

// WithLogger sets the logger; a "component" attribute is added.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l.With(slog.String("component", "planner"))
		}
	}
}

// WithRequireTargets makes an empty target set a validation error.
func WithRequireTargets() Option {
	return func(p *Planner) { p.requireTargets = true }
}

// WithPruning toggles prefix pruning in exact mode (on by default).
// Pruning never changes the result, only how many legs are summed.
func WithPruning(on bool) Option {
	return func(p *Planner) { p.pruning = on }
}

// New returns a Planner. Defaults: seeded genetic oracle with 2-opt polish,
// no-op progress, slog.Default logger, zero targets allowed, pruning on.
func New(opts ...Option) *Planner {
	p := &Planner{
		solver:   tsp.NewGenetic(),
		progress: NopProgress{},
		logger:   slog.Default().With(slog.String("component", "planner")),
		pruning:  true,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// job is the validated, snapshotted form of a Request.
type job struct {
	graph   *core.Graph
	start   core.NodeID
	end     core.NodeID
	targets []core.Target // ascending by ID, deduplicated
}

// Validate checks req against the live graph without planning. The checks
// run in a fixed order so that the first problem is the one reported:
// graph, start, end, target count, node existence, target existence, and
// finally that every relevant node has at least one neighbor.
func (p *Planner) Validate(req Request) error {
	if req.Graph == nil {
		return ErrNilGraph
	}
	_, err := p.prepare(req, req.Graph)

	return err
}

func (p *Planner) prepare(req Request, g *core.Graph) (*job, error) {
	if req.Start == core.NoNode {
		return nil, fmt.Errorf("%w: choose a start node", ErrStartNotSet)
	}
	if req.End == core.NoNode {
		return nil, fmt.Errorf("%w: choose an end node", ErrEndNotSet)
	}
	if p.requireTargets && len(req.Targets) == 0 {
		return nil, fmt.Errorf("%w: add at least one target", ErrNoTargets)
	}
	if !g.HasNode(req.Start) {
		return nil, fmt.Errorf("start: %w: %d", core.ErrNodeNotFound, req.Start)
	}
	if !g.HasNode(req.End) {
		return nil, fmt.Errorf("end: %w: %d", core.ErrNodeNotFound, req.End)
	}

	j := &job{graph: g, start: req.Start, end: req.End}
	seen := make(map[core.TargetID]bool, len(req.Targets))
	for _, id := range req.Targets {
		if seen[id] {
			continue
		}
		seen[id] = true
		t, err := g.Target(id)
		if err != nil {
			return nil, err
		}
		j.targets = append(j.targets, t)
	}
	sort.Slice(j.targets, func(a, b int) bool { return j.targets[a].ID < j.targets[b].ID })

	if d, _ := g.Degree(j.start); d == 0 {
		return nil, fmt.Errorf("%w: start node %d has no connections", ErrDisconnectedNode, j.start)
	}
	if d, _ := g.Degree(j.end); d == 0 {
		return nil, fmt.Errorf("%w: end node %d has no connections", ErrDisconnectedNode, j.end)
	}
	for _, t := range j.targets {
		if d, _ := g.Degree(t.Node); d == 0 {
			return nil, fmt.Errorf("%w: target %d %q at node %d has no connections",
				ErrDisconnectedNode, t.Seq, t.Label, t.Node)
		}
	}

	return j, nil
}

// Plan validates req, snapshots its graph and runs algo.
//
// Unreachable and cancelled outcomes are returned with a nil error and the
// matching Status. ctx cancellation and Progress.IsCancelled are equivalent.
func (p *Planner) Plan(ctx context.Context, req Request, algo Algorithm) (Result, error) {
	if algo != AlgoExact && algo != AlgoApprox {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(algo))
	}
	if req.Graph == nil {
		return Result{}, ErrNilGraph
	}
	j, err := p.prepare(req, req.Graph.Clone())
	if err != nil {
		p.logger.Debug("request rejected", slog.Any("error", err))
		return Result{}, err
	}

	log := p.logger.With(slog.String("algo", string(algo)), slog.Int("targets", len(j.targets)))
	log.Debug("plan started", slog.Int("start", int(j.start)), slog.Int("end", int(j.end)))

	nodes := make([]core.NodeID, 0, len(j.targets)+2)
	nodes = append(nodes, j.start, j.end)
	for _, t := range j.targets {
		nodes = append(nodes, t.Node)
	}
	ok, err := bfs.Connected(j.graph, nodes...)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		log.Info("plan unreachable")
		return Result{Status: StatusUnreachable, Algorithm: algo, Length: math.Inf(1)}, nil
	}

	eng, err := dijkstra.New(j.graph.Edges())
	if err != nil {
		return Result{}, err
	}
	legs := newLegCache(eng)

	var res Result
	if algo == AlgoExact {
		res = p.exact(ctx, j, legs)
	} else {
		res, err = p.approximate(ctx, j, legs)
		if err != nil {
			return Result{}, err
		}
	}
	res.Algorithm = algo

	log.Info("plan finished",
		slog.String("status", res.Status.String()),
		slog.Float64("length", res.Length),
		slog.Uint64("evaluated", res.Evaluated),
	)

	return res, nil
}

// Exact is shorthand for Plan(ctx, req, AlgoExact).
func (p *Planner) Exact(ctx context.Context, req Request) (Result, error) {
	return p.Plan(ctx, req, AlgoExact)
}

// Approximate is shorthand for Plan(ctx, req, AlgoApprox).
func (p *Planner) Approximate(ctx context.Context, req Request) (Result, error) {
	return p.Plan(ctx, req, AlgoApprox)
}

func (p *Planner) cancelled(ctx context.Context) bool {
	return ctx.Err() != nil || p.progress.IsCancelled()
}

// cancelledResult is the designated aborted outcome.
func cancelledResult(evaluated uint64) Result {
	return Result{Status: StatusCancelled, Evaluated: evaluated}
}
