package graph

// unionFind is a disjoint-set over NodeIdx with path-halving and
// union-by-rank, ported from the teacher's pkg/graph/component.go.
type unionFind struct {
	parent []uint32
	rank   []uint8
}

func newUnionFind(n uint32) *unionFind {
	uf := &unionFind{parent: make([]uint32, n), rank: make([]uint8, n)}
	for i := range uf.parent {
		uf.parent[i] = uint32(i)
	}
	return uf
}

func (uf *unionFind) find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b uint32) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// LargestComponent returns the node set of the largest weakly connected
// component of g (edges treated as undirected for connectivity).
func (g *Graph) LargestComponent() []NodeIdx {
	uf := newUnionFind(g.NumNodes)
	for e := uint32(0); e < g.NumEdges; e++ {
		src := g.FwdSrc(EdgeIdx(e))
		dst := g.FwdHead[e]
		uf.union(uint32(src), uint32(dst))
	}

	counts := make(map[uint32]int)
	for n := uint32(0); n < g.NumNodes; n++ {
		counts[uf.find(n)]++
	}

	var best uint32
	bestCount := -1
	for root, c := range counts {
		if c > bestCount {
			best, bestCount = root, c
		}
	}

	out := make([]NodeIdx, 0, bestCount)
	for n := uint32(0); n < g.NumNodes; n++ {
		if uf.find(n) == best {
			out = append(out, NodeIdx(n))
		}
	}
	return out
}

// FilterToComponent rebuilds a Graph containing only the given node
// subset and the edges fully within it, renumbering nodes densely.
func (g *Graph) FilterToComponent(keep []NodeIdx) *Graph {
	keepSet := make(map[NodeIdx]bool, len(keep))
	remap := make(map[NodeIdx]NodeIdx, len(keep))
	for i, n := range keep {
		keepSet[n] = true
		remap[n] = NodeIdx(i)
	}

	b := NewBuilder(g.Metrics)
	for _, n := range keep {
		_ = b.PushNode(g.NodeID[n], g.NodeLat[n], g.NodeLon[n])
	}

	dim := g.Dim()
	for e := uint32(0); e < g.NumEdges; e++ {
		src := g.FwdSrc(EdgeIdx(e))
		dst := g.FwdHead[e]
		if !keepSet[src] || !keepSet[dst] {
			continue
		}
		row := g.EdgeMetrics(EdgeIdx(e))
		metrics := make([]float64, dim)
		copy(metrics, row)
		_ = b.PushEdge(ProtoEdge{
			FromID:  g.NodeID[src],
			ToID:    g.NodeID[dst],
			Metrics: metrics,
		})
	}

	out, err := b.Finalize()
	if err != nil {
		// keep/edges were derived from an already-valid graph: every
		// invariant Finalize checks was already satisfied upstream.
		panic(err)
	}
	return out
}
