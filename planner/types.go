// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Request/Result value types, algorithms, statuses and sentinel errors.

package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/lvroute/core"
)

// Sentinel errors. Validation errors wrap one of these with a reason that is
// safe to show to the user.
var (
	// ErrNilGraph is returned when the request carries no graph.
	ErrNilGraph = errors.New("planner: graph is nil")

	// ErrStartNotSet is returned when no start node was chosen.
	ErrStartNotSet = errors.New("planner: start node not set")

	// ErrEndNotSet is returned when no end node was chosen.
	ErrEndNotSet = errors.New("planner: end node not set")

	// ErrNoTargets is returned when targets are required and none were given.
	ErrNoTargets = errors.New("planner: no targets")

	// ErrDisconnectedNode is returned when start, end or a target node has no neighbors.
	ErrDisconnectedNode = errors.New("planner: disconnected node")

	// ErrUnknownAlgorithm is returned for an algorithm name other than exact or approx.
	ErrUnknownAlgorithm = errors.New("planner: unknown algorithm")

	// ErrOracle is returned when the tour solver fails or returns an invalid tour.
	ErrOracle = errors.New("planner: tour oracle failed")
)

// Algorithm selects the planning strategy.
type Algorithm string

const (
	// AlgoExact is the exhaustive, globally optimal search.
	AlgoExact Algorithm = "exact"

	// AlgoApprox is the oracle-backed heuristic.
	AlgoApprox Algorithm = "approx"
)

// ParseAlgorithm maps a user-supplied name onto an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case AlgoExact, AlgoApprox:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Status classifies a finished plan.
type Status int

const (
	// StatusOK means Path and Length describe a complete route.
	StatusOK Status = iota
	// StatusUnreachable means some required node cannot be reached; Length is +Inf.
	StatusUnreachable
	// StatusCancelled means the search was aborted; Length is 0 and Path is nil.
	StatusCancelled
)

var statusNames = [...]string{"ok", "unreachable", "cancelled"}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}

	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}

	return fmt.Errorf("planner: unknown status %q", string(text))
}

// Request describes one planning run.
type Request struct {
	// Graph is the live graph; planning works on a clone of it.
	Graph *core.Graph

	// Start and End are the fixed route endpoints. core.NoNode means unset.
	Start core.NodeID
	End   core.NodeID

	// Targets lists the targets to visit. Order and duplicates are irrelevant.
	Targets []core.TargetID
}

// NewRequest returns a request that visits every target currently in g.
func NewRequest(g *core.Graph, start, end core.NodeID) Request {
	req := Request{Graph: g, Start: start, End: end}
	if g != nil {
		for _, t := range g.Targets() {
			req.Targets = append(req.Targets, t.ID)
		}
	}

	return req
}

// Leg is one shortest-path segment of a route.
type Leg struct {
	From   core.NodeID
	To     core.NodeID
	Length float64
	Path   []core.NodeID
}

// Result is the outcome of a planning run.
type Result struct {
	Status    Status
	Algorithm Algorithm

	// Length is the total walk length (+Inf when unreachable, 0 when cancelled).
	Length float64

	// Path is the concatenated node walk from start to end, boundary nodes
	// shared between legs appearing once.
	Path []core.NodeID

	// Order lists the targets in visiting order.
	Order []core.TargetID

	// Legs is the per-segment breakdown of Path.
	Legs []Leg

	// Evaluated counts permutations (exact) or solved legs (approx).
	Evaluated uint64
}
