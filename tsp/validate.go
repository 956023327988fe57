// SPDX-License-Identifier: MIT

// Package tsp - validation and tour utilities shared by all solvers.
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input - only sentinel errors from types.go.
//   - O(n²) worst-case where n is the matrix size.
package tsp

import (
	"fmt"
	"math"
)

// ValidateMatrix checks that dist is an n×n matrix with a zero diagonal and
// finite, non-negative entries.
//
// Errors: ErrDimensionMismatch (n < 1 or len(dist) != n), ErrNonSquare,
// ErrNonZeroDiagonal, ErrInvalidWeight, ErrIncompleteGraph, ErrNegativeWeight.
//
// Complexity: O(n²).
func ValidateMatrix(dist [][]float64, n int) error {
	if n < 1 || len(dist) != n {
		return fmt.Errorf("%w: n=%d, rows=%d", ErrDimensionMismatch, n, len(dist))
	}
	for i, row := range dist {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrNonSquare, i, len(row), n)
		}
		for j, w := range row {
			switch {
			case math.IsNaN(w):
				return fmt.Errorf("%w: [%d][%d]", ErrInvalidWeight, i, j)
			case math.IsInf(w, 0):
				return fmt.Errorf("%w: [%d][%d]", ErrIncompleteGraph, i, j)
			case w < 0:
				return fmt.Errorf("%w: [%d][%d]=%v", ErrNegativeWeight, i, j, w)
			case i == j && w != 0:
				return fmt.Errorf("%w: [%d][%d]=%v", ErrNonZeroDiagonal, i, j, w)
			}
		}
	}

	return nil
}

// ValidatePermutation checks that tour holds every index of [0, n) exactly once.
//
// Complexity: O(n).
func ValidatePermutation(tour []int, n int) error {
	if len(tour) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidPermutation, len(tour), n)
	}
	seen := make([]bool, n)
	for _, v := range tour {
		if v < 0 || v >= n {
			return fmt.Errorf("%w: index %d out of range", ErrInvalidPermutation, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: index %d repeated", ErrInvalidPermutation, v)
		}
		seen[v] = true
	}

	return nil
}

// TourCost returns the length of the closed tour tour[0]→…→tour[n-1]→tour[0].
// The caller is expected to have validated both inputs.
//
// Complexity: O(n).
func TourCost(dist [][]float64, tour []int) float64 {
	n := len(tour)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n-1; i++ {
		sum += dist[tour[i]][tour[i+1]]
	}

	return sum + dist[tour[n-1]][tour[0]]
}

// RotateToStart returns a copy of the cyclic tour rotated so that it begins at v.
//
// Errors: ErrInvalidPermutation if v does not appear in tour.
func RotateToStart(tour []int, v int) ([]int, error) {
	at := -1
	for i, x := range tour {
		if x == v {
			at = i
			break
		}
	}
	if at < 0 {
		return nil, fmt.Errorf("%w: %d not in tour", ErrInvalidPermutation, v)
	}
	out := make([]int, 0, len(tour))
	out = append(out, tour[at:]...)

	return append(out, tour[:at]...), nil
}

// identityTour returns 0..n-1; every such ordering is optimal for n ≤ 3.
func identityTour(n int) []int {
	t := make([]int, n)
	for i := range t {
		t[i] = i
	}

	return t
}
