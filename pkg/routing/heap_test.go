package routing

import (
	"testing"

	"github.com/azybler/pathforge/pkg/graph"
)

func TestMinHeapPopsInOrder(t *testing.T) {
	h := NewMinHeap(4)
	h.Push(graph.NodeIdx(3), 5.0)
	h.Push(graph.NodeIdx(1), 1.0)
	h.Push(graph.NodeIdx(2), 3.0)
	h.Push(graph.NodeIdx(4), 1.0) // ties with node 1 on distance

	var order []graph.NodeIdx
	for h.Len() > 0 {
		n, _ := h.Pop()
		order = append(order, n)
	}

	want := []graph.NodeIdx{1, 4, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %v, want %v (full: %v)", i, order[i], want[i], order)
		}
	}
}

func TestMinHeapPeekDistEmpty(t *testing.T) {
	h := NewMinHeap(0)
	if d := h.PeekDist(); d != posInf {
		t.Errorf("PeekDist on empty heap = %v, want +Inf", d)
	}
}

func TestMinHeapReset(t *testing.T) {
	h := NewMinHeap(4)
	h.Push(graph.NodeIdx(1), 1.0)
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", h.Len())
	}
}
