package graph

import "github.com/azybler/pathforge/pkg/geo"

// Graph is the dense CSR road-network storage shared by routing,
// explorator and balance. Forward edges own the metric matrix and
// optional CH shortcut refs; backward edges are a pure traversal mirror
// pointing back into the forward arrays via BwdToFwd, so metrics are
// never duplicated.
type Graph struct {
	Metrics []MetricSpec

	// Contracted reports whether NodeLevel/FwdShortcutA/FwdShortcutB
	// carry real Contraction-Hierarchy output. Set by BuildCHGraph;
	// left false by Builder.Finalize, whose FwdShortcutA/B are
	// allocated (non-nil, all InvalidEdge) but not meaningful — a flat
	// graph's NodeLevel is all zero, so query.go's CH early-break must
	// never fire for it.
	Contracted bool

	NumNodes  uint32
	NodeID    []int64   // external id, indexed by NodeIdx
	NodeLat   []float64 // indexed by NodeIdx
	NodeLon   []float64 // indexed by NodeIdx
	NodeLevel []uint32  // CH level, 0 if the graph is not contracted

	NumEdges uint32

	// Forward CSR: edges leaving each node, sorted by (src asc, dst
	// level desc). FwdFirstOut has NumNodes+1 entries; edges leaving
	// node u occupy FwdHead[FwdFirstOut[u]:FwdFirstOut[u+1]].
	FwdFirstOut []uint32
	FwdHead     []NodeIdx
	FwdMetrics  []float64 // row-major, len NumEdges*Dim()

	// FwdShortcutA/B hold the two underlying EdgeIdx a CH shortcut
	// stands for, or InvalidEdge/InvalidEdge for an original edge.
	FwdShortcutA []EdgeIdx
	FwdShortcutB []EdgeIdx

	// Backward CSR: edges entering each node, sorted by (dst asc).
	// BwdToFwd[i] is the forward EdgeIdx that backward edge i mirrors.
	BwdFirstOut []uint32
	BwdHead     []NodeIdx
	BwdToFwd    []EdgeIdx
}

// Coord returns the geographic coordinate of a node.
func (g *Graph) Coord(n NodeIdx) geo.Coordinate {
	return geo.Coordinate{Lat: g.NodeLat[n], Lon: g.NodeLon[n]}
}

// EdgesFrom returns the half-open [start, end) range into FwdHead for
// edges leaving node u.
func (g *Graph) EdgesFrom(u NodeIdx) (start, end uint32) {
	return g.FwdFirstOut[u], g.FwdFirstOut[u+1]
}

// EdgesInto returns the half-open [start, end) range into BwdHead for
// edges entering node u.
func (g *Graph) EdgesInto(u NodeIdx) (start, end uint32) {
	return g.BwdFirstOut[u], g.BwdFirstOut[u+1]
}

// FwdDst returns the destination node of forward edge e.
func (g *Graph) FwdDst(e EdgeIdx) NodeIdx {
	return g.FwdHead[e]
}

// BwdSrc returns the source node of backward edge i, i.e. the node the
// mirrored forward edge originates from.
func (g *Graph) BwdSrc(i EdgeIdx) NodeIdx {
	return g.FwdSrc(g.BwdToFwd[i])
}

// FwdSrc recovers the source node of forward edge e via binary search
// over FwdFirstOut. Most callers already know the source from the CSR
// traversal that produced e; this exists for the rarer case (shortcut
// unpacking) where only the EdgeIdx is in hand.
func (g *Graph) FwdSrc(e EdgeIdx) NodeIdx {
	lo, hi := 0, int(g.NumNodes)
	target := uint32(e)
	for lo < hi {
		mid := (lo + hi) / 2
		if g.FwdFirstOut[mid+1] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return NodeIdx(lo)
}

// EdgeMetrics returns the metric row of forward edge e.
func (g *Graph) EdgeMetrics(e EdgeIdx) []float64 {
	d := g.Dim()
	return g.FwdMetrics[int(e)*d : int(e)*d+d]
}

// IsShortcut reports whether forward edge e is a CH shortcut, and if so
// returns the two underlying edges it replaces.
func (g *Graph) IsShortcut(e EdgeIdx) (a, b EdgeIdx, ok bool) {
	if g.FwdShortcutA == nil {
		return InvalidEdge, InvalidEdge, false
	}
	a, b = g.FwdShortcutA[e], g.FwdShortcutB[e]
	return a, b, a != InvalidEdge
}

// LinearCost evaluates c(e) = sum_m alphas[m] * metric(e, m).
func (g *Graph) LinearCost(e EdgeIdx, alphas []float64) float64 {
	row := g.EdgeMetrics(e)
	var cost float64
	for m, a := range alphas {
		if a == 0 {
			continue
		}
		cost += a * row[m]
	}
	return cost
}

// FindEdge returns the forward EdgeIdx of the edge from src to dst, or
// InvalidEdge if no such edge exists. Linear scan over src's adjacency;
// used by CH construction and shortcut bookkeeping, not the hot query
// path, so no ordering assumption is required of callers.
func (g *Graph) FindEdge(src, dst NodeIdx) EdgeIdx {
	start, end := g.EdgesFrom(src)
	for i := start; i < end; i++ {
		if g.FwdHead[i] == dst {
			return EdgeIdx(i)
		}
	}
	return InvalidEdge
}

// SetMetricColumn overwrites metric column idx across every forward
// edge with values (len NumEdges). This is the graph's only mutation
// point: the balancer is the sole writer, and only between queries,
// never during one (spec's concurrency model — the metric matrix is
// shared read-only with Dijkstra instances except at this boundary).
func (g *Graph) SetMetricColumn(idx int, values []float64) {
	d := g.Dim()
	for e := 0; e < len(values); e++ {
		g.FwdMetrics[e*d+idx] = values[e]
	}
}

// IsContracted reports whether the graph carries CH levels/shortcuts.
func (g *Graph) IsContracted() bool {
	return g.Contracted
}
