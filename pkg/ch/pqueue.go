package ch

import "github.com/azybler/pathforge/pkg/graph"

// pqEntry is one node's contraction priority (lower contracts sooner).
type pqEntry struct {
	node     graph.NodeIdx
	priority int
}

// priorityQueue implements container/heap.Interface over pqEntry,
// grounded on the teacher's pkg/ch/contractor.go container/heap-based
// priority queue (lazy re-prioritization via heap.Fix on a stale pop).
type priorityQueue []*pqEntry

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].node < pq[j].node
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(*pqEntry))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
