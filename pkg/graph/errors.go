package graph

import "errors"

// Sentinel errors covering the graph-build and CSR-query failure modes.
// Wrapped with fmt.Errorf("...: %w", ...) at each call layer and
// inspected with errors.Is, matching the teacher's pkg/routing idiom.
var (
	// ErrUnknownNodeID is returned when an edge references a node id the
	// builder never saw.
	ErrUnknownNodeID = errors.New("graph: edge references unknown node id")

	// ErrNonPositiveMetric is returned when a distance or duration metric
	// is not strictly positive, violating the data-model invariant.
	ErrNonPositiveMetric = errors.New("graph: distance/duration metric must be strictly positive")

	// ErrNegativeWorkload is returned when a workload metric is negative.
	ErrNegativeWorkload = errors.New("graph: workload metric must be non-negative")

	// ErrMetricDimMismatch is returned when a pushed edge's metric row
	// width does not match the builder's declared metric spec.
	ErrMetricDimMismatch = errors.New("graph: edge metric row width mismatch")

	// ErrEmptyGraph is returned by Finalize when no nodes were pushed or
	// no pushed node is referenced by an edge.
	ErrEmptyGraph = errors.New("graph: no nodes to finalize")

	// ErrInvalidShortcutRef is returned by BuildCHGraph when a shortcut's
	// Via1/Via2 is neither a base edge nor an earlier shortcut, or when
	// levels has the wrong length. Endpoint chaining is not checked.
	ErrInvalidShortcutRef = errors.New("graph: invalid shortcut edge reference")

	// ErrCorruptBinary is returned by ReadBinary on header/CRC mismatch.
	ErrCorruptBinary = errors.New("graph: corrupt binary graph file")
)
