package server

import (
	"sync"

	"github.com/katalvlaran/lvroute/codec"
	"github.com/katalvlaran/lvroute/core"
)

// session is the single editing session: a graph and its chosen endpoints.
// Every handler touching it holds mu, so a request sees one consistent state.
type session struct {
	mu    sync.Mutex
	graph *core.Graph
	start core.NodeID
	end   core.NodeID
}

func newSession(g *core.Graph) *session {
	return &session{graph: g, start: core.NoNode, end: core.NoNode}
}

// replace swaps in a decoded session.
func (s *session) replace(cs codec.Session) {
	s.graph, s.start, s.end = cs.Graph, cs.Start, cs.End
}

// snapshot returns the current state as a codec session. Caller holds mu.
func (s *session) snapshot() codec.Session {
	return codec.Session{Graph: s.graph, Start: s.start, End: s.end}
}

// dropEndpoint clears start/end if they refer to id. Caller holds mu.
func (s *session) dropEndpoint(id core.NodeID) {
	if s.start == id {
		s.start = core.NoNode
	}
	if s.end == id {
		s.end = core.NoNode
	}
}
