// SPDX-License-Identifier: MIT
//
// File: geometry.go
// Role: Planar primitives used to weigh edges and attach targets to the route graph.
// Policy:
//   - Pure functions; no logging, no panics on user input.
//   - Vector arithmetic delegates to gonum's spatial/r2.

// Package geometry provides the planar helpers the route graph is built on:
// Euclidean distance between two points and projection of a query point onto
// the closest of a set of line segments.
//
// Projection uses the clamped parameter
//
//	t = clamp(((q - A)·(B - A)) / (|B - A|² + ε), 0, 1)
//
// so that zero-length segments collapse onto their single endpoint instead of
// dividing by zero.
package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidInput indicates a degenerate geometry query (e.g. an empty segment set).
var ErrInvalidInput = errors.New("geometry: invalid input")

// SegmentEpsilon is added to the squared segment length before dividing,
// which keeps degenerate segments well-defined.
const SegmentEpsilon = 1e-18

// Point is a position on the reference surface.
type Point = r2.Vec

// Segment is a straight piece between two endpoints.
type Segment struct {
	A, B Point
}

// Length returns the Euclidean length of s.
func (s Segment) Length() float64 { return Distance(s.A, s.B) }

// Distance returns the Euclidean distance between p and q.
//
// Complexity: O(1).
func Distance(p, q Point) float64 {
	return r2.Norm(r2.Sub(q, p))
}

// Project returns the point on s closest to q together with the clamped
// projection parameter t ∈ [0, 1] (0 at s.A, 1 at s.B).
//
// Complexity: O(1).
func Project(q Point, s Segment) (Point, float64) {
	ab := r2.Sub(s.B, s.A)
	t := r2.Dot(r2.Sub(q, s.A), ab) / (r2.Norm2(ab) + SegmentEpsilon)
	t = math.Max(0, math.Min(1, t))

	return r2.Add(s.A, r2.Scale(t, ab)), t
}

// ClosestPointOnSegments projects q onto every segment and returns the single
// closest candidate and the index of the segment that produced it.
//
// Ties keep the earliest segment in input order.
//
// Errors:
//   - ErrInvalidInput if segments is empty or q has a NaN coordinate.
//
// Complexity: O(len(segments)).
func ClosestPointOnSegments(q Point, segments []Segment) (Point, int, error) {
	if len(segments) == 0 {
		return Point{}, -1, ErrInvalidInput
	}
	if math.IsNaN(q.X) || math.IsNaN(q.Y) {
		return Point{}, -1, ErrInvalidInput
	}

	var (
		best     Point
		bestIdx  = -1
		bestDist = math.Inf(1)
	)
	for i, s := range segments {
		p, _ := Project(q, s)
		if d := Distance(p, q); d < bestDist {
			best, bestIdx, bestDist = p, i, d
		}
	}

	return best, bestIdx, nil
}
