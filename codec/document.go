package codec

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/lvroute/core"
)

// TargetRecord is the encoded form of a target. Node is a positional index.
type TargetRecord struct {
	Label string `json:"label"`
	Node  int    `json:"node"`
}

// Document is a complete editing session: the graph, its targets in display
// order and the chosen endpoints. Start and End are nil when unset.
type Document struct {
	Nodes   NodeMap        `json:"nodes"`
	Targets []TargetRecord `json:"targets,omitempty"`
	Start   *int           `json:"start,omitempty"`
	End     *int           `json:"end,omitempty"`
}

// Session is the decoded form of a Document.
type Session struct {
	Graph *core.Graph
	Start core.NodeID
	End   core.NodeID
}

// Encode converts a session into a Document.
func Encode(s Session) (*Document, error) {
	if s.Graph == nil {
		return nil, fmt.Errorf("codec: encode: nil graph")
	}
	nodes, index := EncodeNodes(s.Graph)
	doc := &Document{Nodes: nodes}
	for _, t := range s.Graph.Targets() {
		doc.Targets = append(doc.Targets, TargetRecord{Label: t.Label, Node: index[t.Node]})
	}

	var err error
	if doc.Start, err = endpointIndex(index, s.Start, "start"); err != nil {
		return nil, err
	}
	if doc.End, err = endpointIndex(index, s.End, "end"); err != nil {
		return nil, err
	}

	return doc, nil
}

func endpointIndex(index map[core.NodeID]int, id core.NodeID, name string) (*int, error) {
	if id == core.NoNode {
		return nil, nil
	}
	i, ok := index[id]
	if !ok {
		return nil, fmt.Errorf("codec: encode %s: %w: %d", name, core.ErrNodeNotFound, id)
	}

	return &i, nil
}

// Decode rebuilds a session from doc. Targets are restored onto their saved
// nodes without splitting edges again.
func Decode(doc *Document) (Session, error) {
	if doc == nil {
		return Session{}, ErrNilDocument
	}
	g, ids, err := DecodeNodes(doc.Nodes)
	if err != nil {
		return Session{}, err
	}
	resolve := func(i int, what string) (core.NodeID, error) {
		if i < 0 || i >= len(ids) {
			return core.NoNode, fmt.Errorf("%w: %s refers to %d", ErrBadReference, what, i)
		}
		return ids[i], nil
	}

	for k, tr := range doc.Targets {
		id, err := resolve(tr.Node, fmt.Sprintf("target %d", k+1))
		if err != nil {
			return Session{}, err
		}
		if _, err = g.RestoreTarget(id, tr.Label); err != nil {
			return Session{}, err
		}
	}

	s := Session{Graph: g, Start: core.NoNode, End: core.NoNode}
	if doc.Start != nil {
		if s.Start, err = resolve(*doc.Start, "start"); err != nil {
			return Session{}, err
		}
	}
	if doc.End != nil {
		if s.End, err = resolve(*doc.End, "end"); err != nil {
			return Session{}, err
		}
	}

	return s, nil
}

// Marshal encodes s as indented JSON.
func Marshal(s Session) ([]byte, error) {
	doc, err := Encode(s)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes a JSON Document into a session.
func Unmarshal(data []byte) (Session, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Session{}, fmt.Errorf("codec: decode document: %w", err)
	}

	return Decode(&doc)
}
