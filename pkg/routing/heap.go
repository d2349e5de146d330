package routing

import (
	"math"

	"github.com/azybler/pathforge/pkg/graph"
)

// pqItem is one entry of a MinHeap: a node and its tentative distance at
// the time it was pushed. Stale entries (a node re-pushed with a better
// distance) are filtered lazily at pop time by comparing against the
// caller's authoritative distance array, matching the teacher's
// pkg/routing/dijkstra.go MinHeap.
type pqItem struct {
	node graph.NodeIdx
	dist float64
}

// MinHeap is a concrete binary min-heap over pqItem, ordered by
// approxLessNode so ties resolve deterministically by node index.
type MinHeap struct {
	items []pqItem
}

// NewMinHeap returns an empty heap with capacity hinted by cap.
func NewMinHeap(cap int) *MinHeap {
	return &MinHeap{items: make([]pqItem, 0, cap)}
}

// Len returns the number of entries currently in the heap (including any
// stale ones not yet popped).
func (h *MinHeap) Len() int { return len(h.items) }

// Reset empties the heap for reuse, retaining its backing array.
func (h *MinHeap) Reset() { h.items = h.items[:0] }

// Push inserts (node, dist).
func (h *MinHeap) Push(node graph.NodeIdx, dist float64) {
	h.items = append(h.items, pqItem{node: node, dist: dist})
	h.siftUp(len(h.items) - 1)
}

// Pop removes and returns the minimum entry. Callers must not call Pop
// on an empty heap.
func (h *MinHeap) Pop() (graph.NodeIdx, float64) {
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top.node, top.dist
}

// PeekDist returns the minimum distance currently in the heap, or +Inf
// if empty — used directly in the fwdMin/bwdMin termination check.
func (h *MinHeap) PeekDist() float64 {
	if len(h.items) == 0 {
		return posInf
	}
	return h.items[0].dist
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !approxLessNode(h.items[i].dist, uint32(h.items[i].node), h.items[parent].dist, uint32(h.items[parent].node)) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && approxLessNode(h.items[left].dist, uint32(h.items[left].node), h.items[smallest].dist, uint32(h.items[smallest].node)) {
			smallest = left
		}
		if right < n && approxLessNode(h.items[right].dist, uint32(h.items[right].node), h.items[smallest].dist, uint32(h.items[smallest].node)) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

var posInf = math.Inf(1)
