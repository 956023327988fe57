package planner

import (
	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/dijkstra"
)

type legKey struct {
	from, to core.NodeID
}

// legCache memoises directed shortest-path queries for one plan. A cached
// leg is exactly what a fresh query would return, since the engine is
// deterministic and the snapshot does not change.
type legCache struct {
	eng    *dijkstra.Engine
	memo   map[legKey]Leg
	solved uint64
}

func newLegCache(eng *dijkstra.Engine) *legCache {
	return &legCache{eng: eng, memo: make(map[legKey]Leg)}
}

func (c *legCache) get(from, to core.NodeID) Leg {
	k := legKey{from, to}
	if l, ok := c.memo[k]; ok {
		return l
	}
	length, path := c.eng.ShortestPath(from, to)
	l := Leg{From: from, To: to, Length: length, Path: path}
	c.memo[k] = l
	c.solved++

	return l
}

// walk solves the legs along stops and concatenates their paths, sharing
// boundary nodes.
func (c *legCache) walk(stops []core.NodeID) (float64, []core.NodeID, []Leg) {
	var (
		total float64
		path  []core.NodeID
		legs  = make([]Leg, 0, len(stops)-1)
	)
	for i := 0; i+1 < len(stops); i++ {
		l := c.get(stops[i], stops[i+1])
		legs = append(legs, l)
		total += l.Length
		if i == 0 {
			path = append(path, l.Path...)
		} else if len(l.Path) > 0 {
			path = append(path, l.Path[1:]...)
		}
	}

	return total, path, legs
}
