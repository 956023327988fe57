// SPDX-License-Identifier: MIT

// Package codec converts route graphs to and from their JSON form.
//
// Node identity in the encoded form is positional: live nodes are numbered
// 0..n-1 in ascending NodeID order, and adjacency is stored as lists of those
// indices. Decoding a NodeMap into a fresh graph therefore yields NodeIDs equal
// to the indices, and a graph isomorphic to the one encoded.
//
//	{
//	  "0": {"coords": [0, 0],  "connects_with": [1]},
//	  "1": {"coords": [10, 0], "connects_with": [0]}
//	}
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvroute/core"
)

// Sentinel errors.
var (
	// ErrBadIndex indicates node keys that are not exactly 0..n-1.
	ErrBadIndex = errors.New("codec: node keys must be the indices 0..n-1")

	// ErrBadReference indicates a connects_with, target or endpoint index out of range.
	ErrBadReference = errors.New("codec: reference to unknown node index")

	// ErrSelfLoop indicates a node listing itself in connects_with.
	ErrSelfLoop = errors.New("codec: node connects to itself")

	// ErrNilDocument is returned when decoding a nil document.
	ErrNilDocument = errors.New("codec: nil document")
)

// NodeRecord is the encoded form of one node.
type NodeRecord struct {
	Coords       [2]float64 `json:"coords"`
	ConnectsWith []int      `json:"connects_with"`
}

// NodeMap maps a positional index, as a decimal string, to its node.
type NodeMap map[string]NodeRecord

// EncodeNodes numbers the live nodes of g positionally and returns their
// records together with the NodeID → index mapping used.
func EncodeNodes(g *core.Graph) (NodeMap, map[core.NodeID]int) {
	ids := g.Nodes()
	index := make(map[core.NodeID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	out := make(NodeMap, len(ids))
	for i, id := range ids {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		nbs, _ := g.Neighbors(id)
		rec := NodeRecord{Coords: [2]float64{n.X, n.Y}, ConnectsWith: make([]int, 0, len(nbs))}
		for _, nb := range nbs {
			rec.ConnectsWith = append(rec.ConnectsWith, index[nb])
		}
		sort.Ints(rec.ConnectsWith)
		out[strconv.Itoa(i)] = rec
	}

	return out, index
}

// DecodeNodes builds a new graph from m. The returned slice maps each
// positional index to the NodeID it received.
//
// Errors: ErrBadIndex, ErrBadReference, ErrSelfLoop.
func DecodeNodes(m NodeMap) (*core.Graph, []core.NodeID, error) {
	n := len(m)
	recs := make([]NodeRecord, n)
	filled := make([]bool, n)
	for key, rec := range m {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= n || filled[i] {
			return nil, nil, fmt.Errorf("%w: key %q", ErrBadIndex, key)
		}
		recs[i], filled[i] = rec, true
	}

	g := core.NewGraph()
	ids := make([]core.NodeID, n)
	for i, rec := range recs {
		ids[i] = g.AddNode(rec.Coords[0], rec.Coords[1])
	}
	for i, rec := range recs {
		for _, j := range rec.ConnectsWith {
			switch {
			case j < 0 || j >= n:
				return nil, nil, fmt.Errorf("%w: node %d lists %d", ErrBadReference, i, j)
			case j == i:
				return nil, nil, fmt.Errorf("%w: node %d", ErrSelfLoop, i)
			}
			if err := g.Connect(ids[i], ids[j]); err != nil && !errors.Is(err, core.ErrAlreadyConnected) {
				return nil, nil, err
			}
		}
	}

	return g, ids, nil
}

// MarshalNodes encodes g as an indented NodeMap.
func MarshalNodes(g *core.Graph) ([]byte, error) {
	m, _ := EncodeNodes(g)

	return json.MarshalIndent(m, "", "  ")
}

// UnmarshalNodes decodes a NodeMap document into a new graph.
func UnmarshalNodes(data []byte) (*core.Graph, []core.NodeID, error) {
	var m NodeMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("codec: decode nodes: %w", err)
	}

	return DecodeNodes(m)
}
