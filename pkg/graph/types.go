// Package graph holds the dense CSR road-network representation shared by
// the routing, explorator and balance packages: nodes, forward/backward
// edge arrays, a multi-dimensional metric matrix, and optional
// Contraction-Hierarchy levels and shortcut references.
package graph

import "fmt"

// NodeIdx is a dense, zero-based index into a Graph's node arrays.
type NodeIdx uint32

// EdgeIdx is a dense, zero-based index into a Graph's forward-edge arrays.
// Backward-edge arrays are indexed separately and mapped back to EdgeIdx
// via Graph.BwdToFwd.
type EdgeIdx uint32

// MetricIdx indexes the ordered list of metrics carried per edge.
type MetricIdx uint32

// InvalidNode is the sentinel NodeIdx used where no node applies.
const InvalidNode NodeIdx = NodeIdx(^uint32(0))

// InvalidEdge is the sentinel EdgeIdx used where no edge applies, in
// particular as the "not a shortcut" marker for FwdShortcutA/B.
const InvalidEdge EdgeIdx = EdgeIdx(^uint32(0))

// MetricUnit classifies the semantic of a metric column, driving both
// calc-rule derivation (distance+speed -> duration) and invariant checks
// (distance/duration strictly positive, workload non-negative). There is
// no speed unit: a speed column is UnitRaw and its values are not checked.
type MetricUnit uint8

const (
	// UnitRaw is an opaque passthrough float64 with no derived semantics.
	UnitRaw MetricUnit = iota
	// UnitDistance is a length in meters. Must be strictly positive.
	UnitDistance
	// UnitDuration is a time in seconds. Must be strictly positive.
	UnitDuration
	// UnitLaneCount is an edge's number of lanes.
	UnitLaneCount
	// UnitWorkload is the balancer's rebalanced traffic-weight column.
	// Must be non-negative.
	UnitWorkload
)

func (u MetricUnit) String() string {
	switch u {
	case UnitDistance:
		return "distance"
	case UnitDuration:
		return "duration"
	case UnitLaneCount:
		return "lane_count"
	case UnitWorkload:
		return "workload"
	default:
		return "raw"
	}
}

// MetricSpec names and units one column of the per-edge metric matrix.
type MetricSpec struct {
	Name string
	Unit MetricUnit
}

// Dim returns the number of metrics an edge carries.
func (g *Graph) Dim() int {
	return len(g.Metrics)
}

// MetricIndexOf returns the index of the metric named name, or -1.
func (g *Graph) MetricIndexOf(name string) int {
	for i, m := range g.Metrics {
		if m.Name == name {
			return i
		}
	}
	return -1
}

func (n NodeIdx) String() string { return fmt.Sprintf("n%d", uint32(n)) }
func (e EdgeIdx) String() string { return fmt.Sprintf("e%d", uint32(e)) }
