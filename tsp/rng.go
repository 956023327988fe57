// Package tsp - RNG utilities for the Genetic solver.
//
// Goals:
//   - Determinism: same seed ⇒ identical tours across runs.
//   - Encapsulation: a single RNG factory; no time-based sources.
//
// math/rand.Rand is NOT goroutine-safe. Each SolveTour call builds its own.
package tsp

import "math/rand"

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ DefaultSeed; otherwise the seed is used verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// shuffleIntsInPlace performs an in-place Fisher–Yates shuffle of a.
//
// Complexity: O(n) time, O(1) extra space.
func shuffleIntsInPlace(a []int, r *rand.Rand) {
	for i := len(a) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}

// permFrom returns a shuffled copy of lo..hi-1.
func permFrom(lo, hi int, r *rand.Rand) []int {
	p := make([]int, 0, hi-lo)
	for v := lo; v < hi; v++ {
		p = append(p, v)
	}
	shuffleIntsInPlace(p, r)

	return p
}
