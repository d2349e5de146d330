package graph

import "sort"

// Shortcut describes one CH shortcut edge to be added on top of a
// built graph: src->dst carrying the summed metrics of two existing
// forward edges (Via1, then Via2) chained through an intermediate node.
type Shortcut struct {
	Src, Dst NodeIdx
	Metrics  []float64
	Via1     EdgeIdx
	Via2     EdgeIdx
}

// BuildCHGraph combines base's forward edges (keeping any shortcut refs
// they already carry) with the given shortcuts and the contractor's
// computed per-node levels into a new
// Graph whose forward/backward adjacency is sorted for CH Dijkstra's
// early-break. Via1/Via2 on each Shortcut reference an edge either in
// base (index 0..base.NumEdges-1) or an earlier entry of the same
// shortcuts slice (index base.NumEdges+i) — the contractor builds
// nested shortcuts incrementally within one call this way.
func BuildCHGraph(base *Graph, shortcuts []Shortcut, levels []uint32) (*Graph, error) {
	if uint32(len(levels)) != base.NumNodes {
		return nil, ErrInvalidShortcutRef
	}

	dim := base.Dim()
	type fwdRec struct {
		old      int
		src, dst NodeIdx
		metrics  []float64
		scA, scB EdgeIdx
	}

	total := int(base.NumEdges) + len(shortcuts)
	recs := make([]fwdRec, 0, total)
	for e := uint32(0); e < base.NumEdges; e++ {
		scA, scB, _ := base.IsShortcut(EdgeIdx(e))
		recs = append(recs, fwdRec{
			old:     int(e),
			src:     base.FwdSrc(EdgeIdx(e)),
			dst:     base.FwdHead[e],
			metrics: append([]float64(nil), base.EdgeMetrics(EdgeIdx(e))...),
			scA:     scA,
			scB:     scB,
		})
	}
	for i, sc := range shortcuts {
		maxRef := int(base.NumEdges) + i // may only reference base edges or earlier shortcuts
		if int(sc.Via1) >= maxRef || int(sc.Via2) >= maxRef {
			return nil, ErrInvalidShortcutRef
		}
		recs = append(recs, fwdRec{
			old:     int(base.NumEdges) + i,
			src:     sc.Src,
			dst:     sc.Dst,
			metrics: append([]float64(nil), sc.Metrics...),
			scA:     sc.Via1,
			scB:     sc.Via2,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].src != recs[j].src {
			return recs[i].src < recs[j].src
		}
		li, lj := levels[recs[i].dst], levels[recs[j].dst]
		if li != lj {
			return li > lj
		}
		return recs[i].dst < recs[j].dst
	})

	oldToNew := make(map[int]EdgeIdx, len(recs))
	for newIdx, r := range recs {
		oldToNew[r.old] = EdgeIdx(newIdx)
	}

	g := &Graph{
		Contracted: true,
		Metrics:    append([]MetricSpec(nil), base.Metrics...),
		NumNodes:   base.NumNodes,
		NodeID:     base.NodeID,
		NodeLat:    base.NodeLat,
		NodeLon:    base.NodeLon,
		NodeLevel:  levels,
		NumEdges:   uint32(len(recs)),
	}

	g.FwdFirstOut = make([]uint32, g.NumNodes+1)
	g.FwdHead = make([]NodeIdx, len(recs))
	g.FwdMetrics = make([]float64, len(recs)*dim)
	g.FwdShortcutA = make([]EdgeIdx, len(recs))
	g.FwdShortcutB = make([]EdgeIdx, len(recs))

	for newIdx, r := range recs {
		g.FwdFirstOut[r.src+1]++
		g.FwdHead[newIdx] = r.dst
		copy(g.FwdMetrics[newIdx*dim:newIdx*dim+dim], r.metrics)
		if r.scA == InvalidEdge {
			g.FwdShortcutA[newIdx] = InvalidEdge
			g.FwdShortcutB[newIdx] = InvalidEdge
		} else {
			g.FwdShortcutA[newIdx] = oldToNew[int(r.scA)]
			g.FwdShortcutB[newIdx] = oldToNew[int(r.scB)]
		}
	}
	for n := uint32(0); n < g.NumNodes; n++ {
		g.FwdFirstOut[n+1] += g.FwdFirstOut[n]
	}

	rebuildBackwardSorted(g, levels)
	return g, nil
}

// rebuildBackwardSorted rebuilds the backward CSR so that, within each
// node's incoming range, source nodes appear in descending level order
// (symmetric to the forward convention), letting backward CH Dijkstra
// use the same early-break.
func rebuildBackwardSorted(g *Graph, levels []uint32) {
	n := int(g.NumEdges)
	type bwdRec struct {
		dst, src NodeIdx
		fwd      EdgeIdx
	}
	recs := make([]bwdRec, n)
	for e := 0; e < n; e++ {
		recs[e] = bwdRec{dst: g.FwdHead[e], src: g.FwdSrc(EdgeIdx(e)), fwd: EdgeIdx(e)}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].dst != recs[j].dst {
			return recs[i].dst < recs[j].dst
		}
		li, lj := levels[recs[i].src], levels[recs[j].src]
		if li != lj {
			return li > lj
		}
		return recs[i].src < recs[j].src
	})

	g.BwdFirstOut = make([]uint32, g.NumNodes+1)
	g.BwdHead = make([]NodeIdx, n)
	g.BwdToFwd = make([]EdgeIdx, n)
	for i, r := range recs {
		g.BwdFirstOut[r.dst+1]++
		g.BwdHead[i] = r.src
		g.BwdToFwd[i] = r.fwd
	}
	for nd := uint32(0); nd < g.NumNodes; nd++ {
		g.BwdFirstOut[nd+1] += g.BwdFirstOut[nd]
	}
}
