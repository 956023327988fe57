package tsp

import (
	"context"
	"fmt"
	"math"
)

// MaxHeldKarp is the largest n HeldKarp accepts (≈ 16·2¹⁶ table cells).
const MaxHeldKarp = 16

// HeldKarp solves the closed tour exactly with the Held–Karp dynamic program.
type HeldKarp struct{}

// NewHeldKarp returns the exact solver.
func NewHeldKarp() *HeldKarp { return &HeldKarp{} }

// SolveTour implements Solver.
//
// dp[mask][j] is the minimum cost to start at 0, visit exactly the vertices
// in mask (bit 0 always set), and end at j. The tour is closed by returning
// from the best j back to 0 and reconstructed through the parent table.
//
// Time complexity:  O(n² · 2ⁿ)
// Memory complexity: O(n · 2ⁿ)
func (*HeldKarp) SolveTour(ctx context.Context, dist [][]float64, n int) ([]int, error) {
	if err := ValidateMatrix(dist, n); err != nil {
		return nil, err
	}
	if n > MaxHeldKarp {
		return nil, fmt.Errorf("%w: n=%d > %d", ErrTooLarge, n, MaxHeldKarp)
	}
	if n <= 3 {
		return identityTour(n), nil
	}

	allMask := (1 << n) - 1
	dp := make([][]float64, 1<<n)
	parent := make([][]int, 1<<n)
	for mask := range dp {
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for j := 0; j < n; j++ {
			dp[mask][j] = math.Inf(1)
			parent[mask][j] = -1
		}
	}
	dp[1][0] = 0

	for mask := 1; mask <= allMask; mask += 2 { // odd masks contain vertex 0
		if mask&1023 == 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for j := 1; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			prev := mask ^ (1 << j)
			for k := 0; k < n; k++ {
				if prev&(1<<k) == 0 || math.IsInf(dp[prev][k], 1) {
					continue
				}
				if cand := dp[prev][k] + dist[k][j]; cand < dp[mask][j] {
					dp[mask][j] = cand
					parent[mask][j] = k
				}
			}
		}
	}

	best, last := math.Inf(1), -1
	for j := 1; j < n; j++ {
		if total := dp[allMask][j] + dist[j][0]; total < best {
			best, last = total, j
		}
	}

	tour := make([]int, n)
	mask, j := allMask, last
	for i := n - 1; i >= 1; i-- {
		tour[i] = j
		p := parent[mask][j]
		mask ^= 1 << j
		j = p
	}
	tour[0] = 0

	return tour, nil
}
