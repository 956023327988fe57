// SPDX-License-Identifier: MIT

// Package tsp provides closed-tour solvers over a dense distance matrix.
//
// Every solver implements Solver: given an n×n matrix it returns a
// permutation of [0, n) that approximates (or, for HeldKarp, achieves) a
// minimum-length closed tour. The permutation always begins with index 0.
//
// Available solvers:
//
//   - TwoOpt: nearest-neighbour construction followed by first-improvement
//     2-opt until a local optimum. Deterministic, O(iter·n²).
//   - Genetic: seeded genetic search (order crossover, swap mutation,
//     tournament selection, elitism), optionally polished with 2-opt.
//     Deterministic for a fixed seed.
//   - HeldKarp: exact dynamic programming, O(n²·2ⁿ) time and O(n·2ⁿ)
//     memory; refuses n > MaxHeldKarp.
//
// Matrix contract (see ValidateMatrix): square, zero diagonal, finite,
// non-negative. Solvers assume symmetry; on asymmetric input they still
// return a valid permutation but with no quality guarantee.
//
// Solvers never log and never panic on user input; failures are reported
// through the sentinel errors declared in types.go. Every solver honours
// ctx cancellation between passes or generations.
package tsp
