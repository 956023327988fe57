// SPDX-License-Identifier: MIT

package tsp

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrDimensionMismatch indicates n disagrees with the matrix or a tour has the wrong length.
	ErrDimensionMismatch = errors.New("tsp: dimension mismatch")

	// ErrNonSquare indicates a ragged or non-square distance matrix.
	ErrNonSquare = errors.New("tsp: matrix is not square")

	// ErrNonZeroDiagonal indicates dist[i][i] != 0.
	ErrNonZeroDiagonal = errors.New("tsp: non-zero diagonal")

	// ErrNegativeWeight indicates a negative distance.
	ErrNegativeWeight = errors.New("tsp: negative distance")

	// ErrInvalidWeight indicates a NaN distance.
	ErrInvalidWeight = errors.New("tsp: NaN distance")

	// ErrIncompleteGraph indicates an infinite distance; no closed tour can use it.
	ErrIncompleteGraph = errors.New("tsp: infinite distance in matrix")

	// ErrInvalidPermutation indicates a tour that is not a permutation of [0, n).
	ErrInvalidPermutation = errors.New("tsp: invalid permutation")

	// ErrTooLarge is returned by HeldKarp when n exceeds MaxHeldKarp.
	ErrTooLarge = errors.New("tsp: instance too large for exact solver")

	// ErrUnsupportedAlgorithm is returned by New for an unknown solver name.
	ErrUnsupportedAlgorithm = errors.New("tsp: unsupported algorithm")

	// ErrOptionViolation is returned when an Option carries an invalid value.
	ErrOptionViolation = errors.New("tsp: invalid option")
)

// Solver names accepted by New.
const (
	AlgoTwoOpt   = "two-opt"
	AlgoGenetic  = "genetic"
	AlgoHeldKarp = "held-karp"
)

// Solver computes a closed tour over an n×n distance matrix and returns it
// as a permutation of [0, n) beginning with 0.
type Solver interface {
	SolveTour(ctx context.Context, dist [][]float64, n int) ([]int, error)
}

// SolverFunc adapts an ordinary function to the Solver interface.
type SolverFunc func(ctx context.Context, dist [][]float64, n int) ([]int, error)

// SolveTour calls f(ctx, dist, n).
func (f SolverFunc) SolveTour(ctx context.Context, dist [][]float64, n int) ([]int, error) {
	return f(ctx, dist, n)
}

// Options tunes the heuristic solvers. Fields irrelevant to a solver are ignored.
type Options struct {
	// Seed drives the Genetic RNG; 0 selects DefaultSeed.
	Seed int64

	// Population is the number of individuals per generation (Genetic).
	Population int

	// Generations caps the number of generations (Genetic).
	Generations int

	// Stagnation stops Genetic after this many generations without improvement.
	Stagnation int

	// MutationRate is the per-child probability of a swap mutation (Genetic).
	MutationRate float64

	// Elite individuals are copied unchanged into the next generation (Genetic).
	Elite int

	// MaxIters caps accepted 2-opt moves; 0 means run to a local optimum.
	MaxIters int

	// Polish runs 2-opt over the best Genetic individual.
	Polish bool

	// Eps is the minimum strict improvement for accepting a 2-opt move.
	Eps float64

	err error
}

// DefaultSeed is the fixed seed used when Options.Seed is zero.
const DefaultSeed int64 = 2

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Seed:         DefaultSeed,
		Population:   200,
		Generations:  1000,
		Stagnation:   10,
		MutationRate: 0.1,
		Elite:        2,
		Polish:       true,
		Eps:          1e-12,
	}
}

// Option mutates Options.
type Option func(*Options)

// WithSeed sets the RNG seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithPopulation sets the generation size; p must be ≥ 2.
func WithPopulation(p int) Option {
	return func(o *Options) {
		if p < 2 {
			o.err = fmt.Errorf("%w: population %d < 2", ErrOptionViolation, p)
			return
		}
		o.Population = p
	}
}

// WithGenerations sets the generation cap; g must be ≥ 1.
func WithGenerations(g int) Option {
	return func(o *Options) {
		if g < 1 {
			o.err = fmt.Errorf("%w: generations %d < 1", ErrOptionViolation, g)
			return
		}
		o.Generations = g
	}
}

// WithStagnation sets the no-improvement limit; s must be ≥ 1.
func WithStagnation(s int) Option {
	return func(o *Options) {
		if s < 1 {
			o.err = fmt.Errorf("%w: stagnation %d < 1", ErrOptionViolation, s)
			return
		}
		o.Stagnation = s
	}
}

// WithMutationRate sets the mutation probability in [0, 1].
func WithMutationRate(r float64) Option {
	return func(o *Options) {
		if !(r >= 0 && r <= 1) {
			o.err = fmt.Errorf("%w: mutation rate %v outside [0,1]", ErrOptionViolation, r)
			return
		}
		o.MutationRate = r
	}
}

// WithElite sets how many best individuals survive unchanged; e must be ≥ 0.
func WithElite(e int) Option {
	return func(o *Options) {
		if e < 0 {
			o.err = fmt.Errorf("%w: elite %d < 0", ErrOptionViolation, e)
			return
		}
		o.Elite = e
	}
}

// WithMaxIters caps accepted 2-opt moves (0 = unlimited).
func WithMaxIters(m int) Option {
	return func(o *Options) {
		if m < 0 {
			o.err = fmt.Errorf("%w: max iters %d < 0", ErrOptionViolation, m)
			return
		}
		o.MaxIters = m
	}
}

// WithPolish toggles the 2-opt pass after Genetic.
func WithPolish(on bool) Option {
	return func(o *Options) { o.Polish = on }
}

// WithEps sets the 2-opt acceptance tolerance.
func WithEps(eps float64) Option {
	return func(o *Options) {
		if !(eps >= 0) {
			o.err = fmt.Errorf("%w: eps %v < 0", ErrOptionViolation, eps)
			return
		}
		o.Eps = eps
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Elite > o.Population {
		o.Elite = o.Population
	}

	return o
}

// New returns the solver registered under name.
func New(name string, opts ...Option) (Solver, error) {
	o := buildOptions(opts)
	if o.err != nil {
		return nil, o.err
	}
	switch name {
	case AlgoTwoOpt:
		return &TwoOpt{opts: o}, nil
	case AlgoGenetic:
		return &Genetic{opts: o}, nil
	case AlgoHeldKarp:
		return &HeldKarp{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}
