package ch

import (
	"container/heap"

	"github.com/azybler/pathforge/pkg/graph"
)

const (
	defaultMaxHops    = 5
	defaultMaxSettled = 500
)

// edgeData is one mutable adjacency entry during contraction: its
// metric row plus a reference usable as a graph.Shortcut Via — either
// an index into the base graph's forward edges, or (once shortcuts
// start getting created) base.NumEdges+i into the contractor's own
// shortcuts list.
type edgeData struct {
	metrics []float64
	ref     graph.EdgeIdx
}

// Contractor holds the mutable adjacency used during node contraction:
// forward (out) and backward (in) neighbor maps per node, alive flags,
// and the accumulated shortcut list. Grounded on the teacher's
// pkg/ch/contractor.go mutable-adjacency + priority-queue design,
// generalized from a single scalar weight to alpha-weighted multi-
// metric cost and to emit graph.Shortcut for graph.BuildCHGraph
// instead of the teacher's separate CHGraph overlay.
type Contractor struct {
	base   *graph.Graph
	alphas []float64

	out   []map[graph.NodeIdx]edgeData
	in    []map[graph.NodeIdx]edgeData
	alive []bool

	shortcuts []graph.Shortcut

	maxHops, maxSettled int
	coreSize            int
}

// costOf evaluates alpha-weighted cost directly off a metric row, since
// shortcut edgeData doesn't have a valid base EdgeIdx to hand to
// Graph.LinearCost until graph.BuildCHGraph assembles the final graph.
func (c *Contractor) costOf(e edgeData) float64 {
	var s float64
	for m, a := range c.alphas {
		if a == 0 {
			continue
		}
		s += a * e.metrics[m]
	}
	return s
}

// Contract runs Contraction-Hierarchy preprocessing over base under the
// given alpha weights (the metric combination contraction optimizes
// for), returning a new graph.Graph carrying per-node levels and
// shortcut edges. coreSize bounds how small the remaining uncontracted
// "core" is allowed to shrink to before contraction stops early and
// assigns all remaining nodes the same top level — mirrors the
// teacher's maxShortcutsPerNode core-graph cutoff, expressed here as a
// remaining-node-count bound since this repo's graphs are orders of
// magnitude smaller than the teacher's continental OSM extracts.
func Contract(base *graph.Graph, alphas []float64, coreSize int) (*graph.Graph, error) {
	if base.NumNodes == 0 {
		return nil, ErrEmptyGraph
	}
	if coreSize < 1 {
		coreSize = 1
	}

	c := &Contractor{
		base:        base,
		alphas:      alphas,
		out:         make([]map[graph.NodeIdx]edgeData, base.NumNodes),
		in:          make([]map[graph.NodeIdx]edgeData, base.NumNodes),
		alive:       make([]bool, base.NumNodes),
		maxHops:     defaultMaxHops,
		maxSettled:  defaultMaxSettled,
		coreSize:    coreSize,
	}
	for n := uint32(0); n < base.NumNodes; n++ {
		c.out[n] = make(map[graph.NodeIdx]edgeData)
		c.in[n] = make(map[graph.NodeIdx]edgeData)
		c.alive[n] = true
	}
	for e := uint32(0); e < base.NumEdges; e++ {
		src := base.FwdSrc(graph.EdgeIdx(e))
		dst := base.FwdHead[e]
		row := append([]float64(nil), base.EdgeMetrics(graph.EdgeIdx(e))...)
		ed := edgeData{metrics: row, ref: graph.EdgeIdx(e)}
		addIfBetter(c.out[src], dst, ed, c)
		addIfBetter(c.in[dst], src, ed, c)
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	for n := uint32(0); n < base.NumNodes; n++ {
		node := graph.NodeIdx(n)
		heap.Push(pq, &pqEntry{node: node, priority: c.edgeDifference(node)})
	}

	levels := make([]uint32, base.NumNodes)
	var level uint32
	remaining := int(base.NumNodes)

	for pq.Len() > 0 && remaining > c.coreSize {
		top := (*pq)[0]
		actual := c.edgeDifference(top.node)
		if actual > top.priority {
			top.priority = actual
			heap.Fix(pq, 0)
			continue
		}
		heap.Pop(pq)
		c.contractNode(top.node)
		levels[top.node] = level
		level++
		remaining--
	}

	// any nodes left in the core (including ones never popped because
	// the loop stopped early) share the same top level.
	for pq.Len() > 0 {
		entry := heap.Pop(pq).(*pqEntry)
		levels[entry.node] = level
	}

	return graph.BuildCHGraph(base, c.shortcuts, levels)
}

// addIfBetter inserts e into m[dst] unless an existing entry already
// costs no more — parallel edges collapse to their cheapest.
func addIfBetter(m map[graph.NodeIdx]edgeData, dst graph.NodeIdx, e edgeData, c *Contractor) {
	if existing, ok := m[dst]; ok && c.costOf(existing) <= c.costOf(e) {
		return
	}
	m[dst] = e
}

// degree returns v's current total adjacency size.
func (c *Contractor) degree(v graph.NodeIdx) int {
	return len(c.out[v]) + len(c.in[v])
}

// edgeDifference estimates the contraction priority of v: shortcuts
// that contracting v would require, minus its current degree. Lower
// values (fewer shortcuts relative to edges removed) contract first.
func (c *Contractor) edgeDifference(v graph.NodeIdx) int {
	added := c.simulateOrApply(v, false)
	return added - c.degree(v)
}

// contractNode permanently removes v from the graph, materializing
// whatever shortcuts its removal requires and disconnecting it from its
// neighbors' adjacency.
func (c *Contractor) contractNode(v graph.NodeIdx) {
	c.simulateOrApply(v, true)
	c.alive[v] = false
	for u := range c.in[v] {
		delete(c.out[u], v)
	}
	for w := range c.out[v] {
		delete(c.in[w], v)
	}
	c.in[v] = nil
	c.out[v] = nil
}

// simulateOrApply runs the shortcut-needed check for every (u, v, w)
// triple through v. With apply=false it only counts how many shortcuts
// contracting v would require (used for the priority heuristic);
// apply=true actually materializes them into c.shortcuts and the
// mutable adjacency.
func (c *Contractor) simulateOrApply(v graph.NodeIdx, apply bool) int {
	count := 0
	for u, inEdge := range c.in[v] {
		if u == v || !c.alive[u] {
			continue
		}
		for w, outEdge := range c.out[v] {
			if w == v || w == u || !c.alive[w] {
				continue
			}
			limit := c.costOf(inEdge) + c.costOf(outEdge)
			if c.witnessSearch(u, w, v, limit, c.maxHops, c.maxSettled) {
				continue // a witness path avoiding v is at least as good
			}
			count++
			if !apply {
				continue
			}
			metrics := make([]float64, len(inEdge.metrics))
			for m := range metrics {
				metrics[m] = inEdge.metrics[m] + outEdge.metrics[m]
			}
			ref := c.appendShortcut(u, w, metrics, inEdge.ref, outEdge.ref)
			ed := edgeData{metrics: metrics, ref: ref}
			addIfBetter(c.out[u], w, ed, c)
			addIfBetter(c.in[w], u, ed, c)
		}
	}
	return count
}

func (c *Contractor) appendShortcut(u, w graph.NodeIdx, metrics []float64, via1, via2 graph.EdgeIdx) graph.EdgeIdx {
	idx := len(c.shortcuts)
	c.shortcuts = append(c.shortcuts, graph.Shortcut{
		Src: u, Dst: w, Metrics: metrics, Via1: via1, Via2: via2,
	})
	return graph.EdgeIdx(int(c.base.NumEdges) + idx)
}
