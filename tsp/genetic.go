// Package tsp - seeded genetic search.
//
// Representation: an individual is a permutation of 1..n-1; the decoded
// tour is 0 followed by the genes. Each generation keeps the Elite best
// individuals unchanged and fills the rest with children bred by:
//
//   - tournament selection (size 3) of two parents,
//   - order crossover (OX1): copy a random slice from parent A, fill the
//     remaining positions with parent B's genes in cyclic order,
//   - swap mutation with probability MutationRate.
//
// The search stops after Generations generations or after Stagnation
// consecutive generations without a strict improvement of the best cost.
// With Polish set, the best tour is finished with 2-opt.
package tsp

import (
	"context"
	"math/rand"
	"sort"
)

const tournamentSize = 3

// Genetic is the seeded genetic-algorithm solver.
type Genetic struct {
	opts Options
}

// NewGenetic returns a Genetic solver configured by opts.
func NewGenetic(opts ...Option) *Genetic {
	return &Genetic{opts: buildOptions(opts)}
}

type individual struct {
	genes []int
	cost  float64
}

// SolveTour implements Solver. Identical inputs and seed yield identical tours.
func (s *Genetic) SolveTour(ctx context.Context, dist [][]float64, n int) ([]int, error) {
	if s.opts.err != nil {
		return nil, s.opts.err
	}
	if err := ValidateMatrix(dist, n); err != nil {
		return nil, err
	}
	if n <= 3 {
		return identityTour(n), nil
	}

	o := s.opts
	rng := rngFromSeed(o.Seed)
	cost := func(genes []int) float64 {
		sum := dist[0][genes[0]] + dist[genes[len(genes)-1]][0]
		for i := 0; i+1 < len(genes); i++ {
			sum += dist[genes[i]][genes[i+1]]
		}

		return sum
	}

	pop := make([]individual, o.Population)
	for i := range pop {
		g := permFrom(1, n, rng)
		pop[i] = individual{genes: g, cost: cost(g)}
	}
	best := fittest(pop)

	stale := 0
	for gen := 0; gen < o.Generations && stale < o.Stagnation; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sort.SliceStable(pop, func(i, j int) bool { return pop[i].cost < pop[j].cost })

		next := make([]individual, 0, o.Population)
		next = append(next, pop[:o.Elite]...)
		for len(next) < o.Population {
			a := tournament(pop, rng)
			b := tournament(pop, rng)
			child := orderCrossover(a.genes, b.genes, rng)
			if rng.Float64() < o.MutationRate {
				swapMutate(child, rng)
			}
			next = append(next, individual{genes: child, cost: cost(child)})
		}
		pop = next

		if cand := fittest(pop); cand.cost < best.cost {
			best = cand
			stale = 0
		} else {
			stale++
		}
	}

	tour := make([]int, 0, n)
	tour = append(tour, 0)
	tour = append(tour, best.genes...)
	if o.Polish {
		if err := improve2Opt(ctx, dist, tour, o.Eps, o.MaxIters); err != nil {
			return nil, err
		}
	}

	return tour, nil
}

// fittest returns the lowest-cost individual; ties keep the earliest.
func fittest(pop []individual) individual {
	best := pop[0]
	for _, ind := range pop[1:] {
		if ind.cost < best.cost {
			best = ind
		}
	}

	return best
}

func tournament(pop []individual, r *rand.Rand) individual {
	best := pop[r.Intn(len(pop))]
	for i := 1; i < tournamentSize; i++ {
		if c := pop[r.Intn(len(pop))]; c.cost < best.cost {
			best = c
		}
	}

	return best
}

// orderCrossover returns a fresh child; parents are not modified.
func orderCrossover(a, b []int, r *rand.Rand) []int {
	m := len(a)
	child := make([]int, m)
	if m < 2 {
		copy(child, a)
		return child
	}
	i, j := r.Intn(m), r.Intn(m)
	if i > j {
		i, j = j, i
	}
	// genes are 1..m; index by value.
	taken := make([]bool, m+1)
	for p := i; p <= j; p++ {
		child[p] = a[p]
		taken[a[p]] = true
	}
	pos := (j + 1) % m
	for q := 0; q < m; q++ {
		g := b[(j+1+q)%m]
		if taken[g] {
			continue
		}
		child[pos] = g
		pos = (pos + 1) % m
	}

	return child
}

func swapMutate(genes []int, r *rand.Rand) {
	if len(genes) < 2 {
		return
	}
	i, j := r.Intn(len(genes)), r.Intn(len(genes))
	genes[i], genes[j] = genes[j], genes[i]
}
