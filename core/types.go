// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Node/Edge/Target value types, sentinel errors and the Graph arena.

package core

import (
	"errors"
	"sync"

	"github.com/katalvlaran/lvroute/geometry"
)

// Sentinel errors for route graph operations.
var (
	// ErrNodeNotFound indicates an operation referenced a node that does not exist.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrTargetNotFound indicates an operation referenced a target that does not exist.
	ErrTargetNotFound = errors.New("core: target not found")

	// ErrInvalidOperation indicates a structurally invalid request, such as connecting a node to itself.
	ErrInvalidOperation = errors.New("core: invalid operation")

	// ErrAlreadyConnected indicates Connect was called for an existing edge.
	ErrAlreadyConnected = errors.New("core: nodes already connected")

	// ErrNoRoute indicates there is no edge to attach a target to.
	ErrNoRoute = errors.New("core: no route to attach to")
)

// NodeID addresses a node in the graph arena. Ids are assigned in increasing
// order and never reused.
type NodeID int

// NoNode is the zero-value marker for "no node selected".
const NoNode NodeID = -1

// TargetID identifies a target independently of its display sequence number.
type TargetID int

// Node is a read-only snapshot of a route node.
type Node struct {
	ID NodeID
	X  float64
	Y  float64
}

// Point returns the node position.
func (n Node) Point() geometry.Point { return geometry.Point{X: n.X, Y: n.Y} }

// Edge is an undirected connection reported by Graph.Edges.
// From < To always holds; Weight is the Euclidean length at the time of the call.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight float64
}

// Target is a named waypoint bound to a single route node.
type Target struct {
	// ID is stable for the lifetime of the target.
	ID TargetID

	// Seq is the 1-based display position among all targets.
	Seq int

	// Label is free text supplied by the caller.
	Label string

	// Node is the route node the target is attached to.
	Node NodeID
}

// Stats is a point-in-time summary of the graph size.
type Stats struct {
	Nodes   int
	Edges   int
	Targets int
}

// slot is one arena cell. Removed nodes keep their slot with alive=false
// so that ids stay stable.
type slot struct {
	alive bool
	pos   geometry.Point
	adj   map[NodeID]struct{}
}

// Graph is the route graph. The zero value is not usable; call NewGraph.
type Graph struct {
	mu sync.RWMutex

	nodes     []slot
	liveNodes int
	edgeCount int

	// targets is kept ordered by Seq.
	targets    []*Target
	nextTarget TargetID
}

// NewGraph returns an empty route graph.
func NewGraph() *Graph {
	return &Graph{nextTarget: 1}
}
