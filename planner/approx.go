// SPDX-License-Identifier: MIT
//
// File: approx.go
// Role: Oracle-backed ordering for target counts where n! is out of reach.
//
// Matrix layout (m = n+3):
//
//	0        dummy
//	1        start
//	2..n+1   targets, ascending by id
//	n+2      end
//
// Entries between real stops are leg lengths. The dummy is near-free to
// start and end and costs far more than any real walk to every target. Each
// off-diagonal pair gets its own growing epsilon so no two entries tie.

package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/tsp"
)

const (
	dummyIndex = 0
	startIndex = 1

	// epsilonScale is the per-entry tie-break step relative to the largest entry.
	epsilonScale = 1e-12
)

func (p *Planner) approximate(ctx context.Context, j *job, legs *legCache) (Result, error) {
	n := len(j.targets)
	m := n + 3
	endIndex := n + 2

	stop := make([]core.NodeID, m)
	stop[dummyIndex] = core.NoNode
	stop[startIndex] = j.start
	for i, t := range j.targets {
		stop[i+2] = t.Node
	}
	stop[endIndex] = j.end

	p.progress.SetLabel(LabelDistance)
	pairs := uint64((m - 1) * (m - 2))
	var done uint64
	base := make([][]float64, m)
	for i := range base {
		base[i] = make([]float64, m)
	}
	for a := 1; a < m; a++ {
		for b := 1; b < m; b++ {
			if a == b {
				continue
			}
			if p.cancelled(ctx) {
				return cancelledResult(legs.solved), nil
			}
			base[a][b] = legs.get(stop[a], stop[b]).Length
			done++
			p.progress.SetProgress(done, pairs)
		}
	}

	dist, ok := tieBrokenMatrix(base)
	if !ok {
		return Result{Status: StatusUnreachable, Length: math.Inf(1), Evaluated: legs.solved}, nil
	}

	p.progress.SetLabel(LabelOracle)
	tour, err := p.solver.SolveTour(ctx, dist, m)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cancelledResult(legs.solved), nil
		}
		return Result{}, fmt.Errorf("%w: %w", ErrOracle, err)
	}
	if err = tsp.ValidatePermutation(tour, m); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrOracle, err)
	}
	if p.cancelled(ctx) {
		return cancelledResult(legs.solved), nil
	}

	order := openPath(tour, endIndex)
	if !adjacentToDummy(tour, startIndex) || !adjacentToDummy(tour, endIndex) {
		p.logger.Warn("oracle tour does not pin the endpoints; route is still valid but may be longer")
	}

	stops := make([]core.NodeID, 0, n+2)
	ids := make([]core.TargetID, 0, n)
	for _, idx := range order {
		stops = append(stops, stop[idx])
		if idx >= 2 && idx < endIndex {
			ids = append(ids, j.targets[idx-2].ID)
		}
	}
	length, path, ls := legs.walk(stops)
	p.logger.Debug("oracle tour translated", slog.Any("tour", tour))

	return Result{
		Status:    StatusOK,
		Length:    length,
		Path:      path,
		Order:     ids,
		Legs:      ls,
		Evaluated: legs.solved,
	}, nil
}

// tieBrokenMatrix symmetrises base, fills in the dummy row and adds a
// strictly increasing epsilon to every off-diagonal pair. ok is false if any
// real leg is infinite.
func tieBrokenMatrix(base [][]float64) ([][]float64, bool) {
	m := len(base)
	endIndex := m - 1

	var total float64
	for a := 1; a < m; a++ {
		for b := 1; b < m; b++ {
			if math.IsInf(base[a][b], 0) {
				return nil, false
			}
			total += base[a][b]
		}
	}
	far := 2*total + 1
	unit := far * epsilonScale

	dist := make([][]float64, m)
	for i := range dist {
		dist[i] = make([]float64, m)
	}
	k := 0
	for a := 0; a < m; a++ {
		for b := a + 1; b < m; b++ {
			k++
			var w float64
			switch {
			case a == dummyIndex && (b == startIndex || b == endIndex):
				w = 0
			case a == dummyIndex:
				w = far
			default:
				w = math.Min(base[a][b], base[b][a])
			}
			w += unit * float64(k)
			dist[a][b], dist[b][a] = w, w
		}
	}

	return dist, true
}

// openPath turns a closed tour over {dummy, start, …, end} into the stop
// order start, targets…, end. The cycle is rotated to start and oriented so
// that it does not step straight into the dummy; dummy and end are dropped
// wherever the oracle placed them and end is appended last.
func openPath(tour []int, endIndex int) []int {
	rot, _ := tsp.RotateToStart(tour, startIndex)
	if len(rot) > 1 && rot[1] == dummyIndex {
		for l, r := 1, len(rot)-1; l < r; l, r = l+1, r-1 {
			rot[l], rot[r] = rot[r], rot[l]
		}
	}
	out := make([]int, 0, len(rot))
	for _, idx := range rot {
		if idx == dummyIndex || idx == endIndex {
			continue
		}
		out = append(out, idx)
	}

	return append(out, endIndex)
}

func adjacentToDummy(tour []int, idx int) bool {
	m := len(tour)
	for i, v := range tour {
		if v != dummyIndex {
			continue
		}
		return tour[(i+1)%m] == idx || tour[(i+m-1)%m] == idx
	}

	return false
}
