// SPDX-License-Identifier: MIT

// Package tsp - 2-opt local search.
//
// TwoOpt builds a nearest-neighbour tour from index 0 and then applies
// deterministic first-improvement 2-opt on the closed cycle:
//
//	Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d), a=T[i−1], b=T[i], c=T[k], d=T[(k+1) mod n]
//
// A move is accepted when Δ < −Eps, and scanning restarts after each
// accepted move. T[0] never moves, so every returned tour begins with 0.
//
// Complexity:
//   - Nearest neighbour: O(n²).
//   - One pass: O(n²) candidate checks; each accepted move costs O(k−i).
package tsp

import "context"

// TwoOpt is the deterministic nearest-neighbour + 2-opt solver.
type TwoOpt struct {
	opts Options
}

// NewTwoOpt returns a TwoOpt solver. Only MaxIters and Eps are consulted.
func NewTwoOpt(opts ...Option) *TwoOpt {
	return &TwoOpt{opts: buildOptions(opts)}
}

// SolveTour implements Solver.
func (s *TwoOpt) SolveTour(ctx context.Context, dist [][]float64, n int) ([]int, error) {
	if s.opts.err != nil {
		return nil, s.opts.err
	}
	if err := ValidateMatrix(dist, n); err != nil {
		return nil, err
	}
	if n <= 3 {
		return identityTour(n), nil
	}
	tour := nearestNeighbour(dist, n)
	if err := improve2Opt(ctx, dist, tour, s.opts.Eps, s.opts.MaxIters); err != nil {
		return nil, err
	}

	return tour, nil
}

// nearestNeighbour greedily extends a tour from 0; ties pick the lowest index.
func nearestNeighbour(dist [][]float64, n int) []int {
	used := make([]bool, n)
	tour := make([]int, 0, n)
	cur := 0
	used[0] = true
	tour = append(tour, 0)
	for len(tour) < n {
		next := -1
		for v := 0; v < n; v++ {
			if used[v] {
				continue
			}
			if next < 0 || dist[cur][v] < dist[cur][next] {
				next = v
			}
		}
		used[next] = true
		tour = append(tour, next)
		cur = next
	}

	return tour
}

// improve2Opt runs first-improvement 2-opt on tour in place until a local
// optimum, maxIters accepted moves (if > 0), or ctx cancellation.
// ctx is checked once per scan.
func improve2Opt(ctx context.Context, dist [][]float64, tour []int, eps float64, maxIters int) error {
	n := len(tour)
	if n < 4 {
		return nil
	}
	accepted := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		improved := false
	scan:
		for i := 1; i <= n-2; i++ {
			a, b := tour[i-1], tour[i]
			for k := i + 1; k <= n-1; k++ {
				c, d := tour[k], tour[(k+1)%n]
				delta := dist[a][c] + dist[b][d] - dist[a][b] - dist[c][d]
				if delta < -eps {
					reverseInPlace(tour, i, k)
					accepted++
					improved = true
					break scan
				}
			}
		}
		if !improved || (maxIters > 0 && accepted >= maxIters) {
			return nil
		}
	}
}

// reverseInPlace reverses tour[i..k] inclusive.
func reverseInPlace(tour []int, i, k int) {
	for ; i < k; i, k = i+1, k-1 {
		tour[i], tour[k] = tour[k], tour[i]
	}
}
