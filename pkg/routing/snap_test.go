package routing

import (
	"errors"
	"testing"

	"github.com/azybler/pathforge/pkg/graph"
)

func buildSnapGraph(t *testing.T) *graph.Graph {
	t.Helper()
	metrics := []graph.MetricSpec{{Name: "distance", Unit: graph.UnitDistance}}
	b := graph.NewBuilder(metrics)
	coords := [][2]float64{{1.30, 103.80}, {1.31, 103.81}}
	for i, c := range coords {
		if err := b.PushNode(int64(i), c[0], c[1]); err != nil {
			t.Fatalf("PushNode: %v", err)
		}
	}
	if err := b.PushEdge(graph.ProtoEdge{FromID: 0, ToID: 1, Metrics: []float64{100}}); err != nil {
		t.Fatalf("PushEdge: %v", err)
	}
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestSnapperFindsNearestEdge(t *testing.T) {
	g := buildSnapGraph(t)
	s := NewSnapper(g)

	res, err := s.Snap(1.305, 103.805)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if res.EdgeIdx != 0 {
		t.Errorf("EdgeIdx = %d, want 0", res.EdgeIdx)
	}
	if res.Ratio < 0 || res.Ratio > 1 {
		t.Errorf("Ratio = %v, want in [0,1]", res.Ratio)
	}
}

func TestSnapperRejectsFarPoint(t *testing.T) {
	g := buildSnapGraph(t)
	s := NewSnapper(g)

	_, err := s.Snap(10, 10)
	if !errors.Is(err, ErrPointTooFar) {
		t.Fatalf("expected ErrPointTooFar, got %v", err)
	}
}
