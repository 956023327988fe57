// SPDX-License-Identifier: MIT

// Package planner orders a set of targets between a start and an end node of
// a core.Graph and returns the concatenated walk with its total length.
//
// Two algorithms are offered:
//
//   - AlgoExact enumerates every ordering of the targets (n! permutations in
//     lexicographic order of target id), sums memoised Dijkstra legs and keeps
//     the first strictly shortest total. Progress is reported once per
//     permutation and cancellation is checked at every permutation boundary.
//   - AlgoApprox builds a complete leg-length matrix over
//     {dummy, start, targets…, end}, hands it to a tsp.Solver and translates
//     the returned closed tour back into a walk. The dummy node sits next to
//     start and end at near-zero cost and far from every target, which turns
//     the closed tour into an open path from start to end.
//
// Planning always runs on a Clone of the request graph, so callers may keep
// editing the original while a long search is in flight.
//
// Outcomes that are not failures are carried in Result.Status rather than as
// errors: StatusUnreachable (+Inf length, nil path) and StatusCancelled
// (zero length, nil path). Validation failures are returned as errors that
// wrap one of the sentinels below and read as a user-facing reason.
package planner
