package ch

import "github.com/azybler/pathforge/pkg/graph"

// witnessEpsilon is an absolute slack on the witness search's cost
// limit: a witness path counts as at least as good as a candidate
// shortcut if it costs no more than the shortcut plus this margin, so
// floating-point noise never forces an unnecessary shortcut.
const witnessEpsilon = 1e-9

// witnessHeap is a small binary min-heap over (node, cost), local to a
// single bounded witness search. Kept separate from pkg/routing's
// MinHeap since it operates over the contractor's mutable adjacency
// instead of a graph.Graph CSR.
type witnessHeap struct {
	nodes []graph.NodeIdx
	costs []float64
}

func (h *witnessHeap) push(n graph.NodeIdx, c float64) {
	h.nodes = append(h.nodes, n)
	h.costs = append(h.costs, c)
	i := len(h.nodes) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if h.costs[parent] <= h.costs[i] {
			break
		}
		h.nodes[i], h.nodes[parent] = h.nodes[parent], h.nodes[i]
		h.costs[i], h.costs[parent] = h.costs[parent], h.costs[i]
		i = parent
	}
}

func (h *witnessHeap) pop() (graph.NodeIdx, float64) {
	n, c := h.nodes[0], h.costs[0]
	last := len(h.nodes) - 1
	h.nodes[0], h.costs[0] = h.nodes[last], h.costs[last]
	h.nodes, h.costs = h.nodes[:last], h.costs[:last]
	i := 0
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < len(h.nodes) && h.costs[l] < h.costs[smallest] {
			smallest = l
		}
		if r < len(h.nodes) && h.costs[r] < h.costs[smallest] {
			smallest = r
		}
		if smallest == i {
			break
		}
		h.nodes[i], h.nodes[smallest] = h.nodes[smallest], h.nodes[i]
		h.costs[i], h.costs[smallest] = h.costs[smallest], h.costs[i]
		i = smallest
	}
	return n, c
}

func (h *witnessHeap) empty() bool { return len(h.nodes) == 0 }

// witnessSearch runs a bounded Dijkstra from src over the contractor's
// current "out" adjacency, skipping avoid entirely (the node being
// tentatively contracted), to check whether any path to dst costs no
// more than limit. Bounded by maxSettled node pops and maxHops edges so
// contraction stays tractable on large graphs — grounded on the
// teacher's pkg/ch/witness.go batchWitnessSearch bound
// (maxSettled=500, maxHops=5).
func (c *Contractor) witnessSearch(src, dst, avoid graph.NodeIdx, limit float64, maxHops, maxSettled int) bool {
	if src == dst {
		return true
	}

	dist := map[graph.NodeIdx]float64{src: 0}
	hops := map[graph.NodeIdx]int{src: 0}
	h := &witnessHeap{}
	h.push(src, 0)

	settled := 0
	for !h.empty() {
		u, du := h.pop()
		if du > dist[u]+witnessEpsilon {
			continue // stale
		}
		if u == dst {
			return true
		}
		settled++
		if settled > maxSettled {
			return false
		}
		uh := hops[u]
		if uh >= maxHops {
			continue
		}
		if du > limit+witnessEpsilon {
			continue
		}
		for v, e := range c.out[u] {
			if v == avoid || !c.alive[v] {
				continue
			}
			nd := du + c.costOf(e)
			if nd > limit+witnessEpsilon {
				continue
			}
			if old, ok := dist[v]; !ok || nd < old {
				dist[v] = nd
				hops[v] = uh + 1
				h.push(v, nd)
			}
		}
	}
	return false
}
