// Package explorator implements the convex-hull Pareto-route explorator:
// given a configurable vector of edge metrics, it enumerates alternative
// src->dst routes that are not dominated under any non-negative linear
// combination of those metrics, within per-metric tolerance bounds.
package explorator

import "errors"

var (
	// ErrSingularSystem is returned when a triangulation cell's linear
	// system has no unique alpha-vector solution (a degenerate or
	// coplanar facet) — the cell is skipped, not treated as fatal.
	ErrSingularSystem = errors.New("explorator: singular linear system for cell")

	// ErrNegativeAlpha is returned when a cell's solved alpha vector has
	// a component below zero — negative weights aren't semantically
	// meaningful, so the cell is skipped rather than clamped to zero.
	ErrNegativeAlpha = errors.New("explorator: solved alpha has a negative component")

	// ErrNoConsideredDims is returned by NewQuery if no metric has a
	// positive alpha weight to explore over.
	ErrNoConsideredDims = errors.New("explorator: no considered dimensions")

	// ErrDimMismatch is returned by NewQuery when the tolerances don't
	// match the query's metric dimension.
	ErrDimMismatch = errors.New("explorator: dimension mismatch")
)
