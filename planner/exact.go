// SPDX-License-Identifier: MIT
//
// File: exact.go
// Role: Exhaustive ordering search.
// Policy:
//   - Permutations are enumerated in lexicographic order of target id.
//   - The best is replaced only on a strictly smaller total, so ties keep
//     the first ordering found and the result does not depend on input order.
//   - Cancellation is polled before every permutation; progress is reported
//     after every permutation.

package planner

import (
	"context"
	"math"

	"github.com/katalvlaran/lvroute/core"
)

func (p *Planner) exact(ctx context.Context, j *job, legs *legCache) Result {
	n := len(j.targets)
	total := factorial(n)
	p.progress.SetLabel(LabelExact)

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	stops := make([]core.NodeID, n+2)
	stops[0], stops[n+1] = j.start, j.end

	var (
		best      = math.Inf(1)
		bestPerm  []int
		evaluated uint64
	)
	for {
		if p.cancelled(ctx) {
			return cancelledResult(evaluated)
		}

		for i, ti := range perm {
			stops[i+1] = j.targets[ti].Node
		}
		if length, ok := p.sumLegs(legs, stops, best); ok && length < best {
			best = length
			bestPerm = append(bestPerm[:0], perm...)
		}
		evaluated++
		p.progress.SetProgress(evaluated, total)

		if !nextPermutation(perm) {
			break
		}
	}

	for i, ti := range bestPerm {
		stops[i+1] = j.targets[ti].Node
	}
	length, path, ls := legs.walk(stops)
	order := make([]core.TargetID, n)
	for i, ti := range bestPerm {
		order[i] = j.targets[ti].ID
	}

	return Result{
		Status:    StatusOK,
		Length:    length,
		Path:      path,
		Order:     order,
		Legs:      ls,
		Evaluated: evaluated,
	}
}

// sumLegs adds leg lengths along stops. With pruning on it gives up once the
// running sum exceeds bound and reports ok=false.
func (p *Planner) sumLegs(legs *legCache, stops []core.NodeID, bound float64) (float64, bool) {
	var sum float64
	for i := 0; i+1 < len(stops); i++ {
		sum += legs.get(stops[i], stops[i+1]).Length
		if p.pruning && sum > bound {
			return sum, false
		}
	}

	return sum, true
}

// nextPermutation rearranges a into its lexicographic successor and reports
// whether one existed. The empty and single-element slices have none.
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	k := len(a) - 1
	for a[k] <= a[i] {
		k--
	}
	a[i], a[k] = a[k], a[i]
	for l, r := i+1, len(a)-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}

	return true
}

// factorial returns n!, saturating at math.MaxUint64 (n > 20).
func factorial(n int) uint64 {
	f := uint64(1)
	for i := uint64(2); i <= uint64(n); i++ {
		if f > math.MaxUint64/i {
			return math.MaxUint64
		}
		f *= i
	}

	return f
}
