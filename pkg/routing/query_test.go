package routing

import (
	"context"
	"math"
	"testing"

	"github.com/azybler/pathforge/pkg/graph"
)

func metricsSpec() []graph.MetricSpec {
	return []graph.MetricSpec{
		{Name: "distance", Unit: graph.UnitDistance},
		{Name: "duration", Unit: graph.UnitDuration},
	}
}

// buildGrid builds a 5-node graph:
//
//	1 --- 2
//	|     |
//	0 --- 3 --- 4
//
// with a direct 0->3 edge of cost 150 and a longer 0-1-2-3 loop of cost
// 300, so the best 0->3 route is the direct edge.
func buildGrid(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(metricsSpec())
	for i := int64(0); i < 5; i++ {
		if err := b.PushNode(i, float64(i), float64(i)); err != nil {
			t.Fatalf("PushNode: %v", err)
		}
	}
	type e struct {
		from, to int64
		dist     float64
	}
	edges := []e{
		{0, 1, 100}, {1, 0, 100},
		{1, 2, 100}, {2, 1, 100},
		{2, 3, 100}, {3, 2, 100},
		{0, 3, 150}, {3, 0, 150},
		{3, 4, 100}, {4, 3, 100},
	}
	for _, edge := range edges {
		if err := b.PushEdge(graph.ProtoEdge{FromID: edge.from, ToID: edge.to, Metrics: []float64{edge.dist, math.NaN()}, SpeedKMH: 36}); err != nil {
			t.Fatalf("PushEdge: %v", err)
		}
	}
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestComputeBestPathFindsShortest(t *testing.T) {
	g := buildGrid(t)
	qs := NewQueryState(g)
	alphas := []float64{1, 0} // pure distance minimization

	p, err := ComputeBestPath(context.Background(), qs, 0, 3, alphas)
	if err != nil {
		t.Fatalf("ComputeBestPath: %v", err)
	}
	if len(p.Edges) != 1 {
		t.Fatalf("expected the direct 0->3 edge, got %d edges", len(p.Edges))
	}
	costs := p.Costs(g)
	if costs[0] != 150 {
		t.Errorf("distance cost = %v, want 150", costs[0])
	}
}

func TestComputeBestPathNoRoute(t *testing.T) {
	b := graph.NewBuilder(metricsSpec())
	_ = b.PushNode(1, 0, 0)
	_ = b.PushNode(2, 1, 1)
	_ = b.PushNode(3, 2, 2)
	_ = b.PushNode(4, 3, 3)
	// Two separate components, 1->2 and 3->4: Finalize drops nodes no
	// edge references, so each node needs an edge to survive.
	_ = b.PushEdge(graph.ProtoEdge{FromID: 1, ToID: 2, Metrics: []float64{10, 1}})
	_ = b.PushEdge(graph.ProtoEdge{FromID: 3, ToID: 4, Metrics: []float64{10, 1}})
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	qs := NewQueryState(g)
	_, err = ComputeBestPath(context.Background(), qs, 0, 2, []float64{1, 0})
	if err == nil {
		t.Fatal("expected ErrNoRoute for disconnected nodes")
	}
}

func TestComputeBestPathRejectsNegativeAlpha(t *testing.T) {
	g := buildGrid(t)
	qs := NewQueryState(g)
	_, err := ComputeBestPath(context.Background(), qs, 0, 3, []float64{-1, 0})
	if err == nil {
		t.Fatal("expected negative alpha to be rejected")
	}
}

func TestQueryStateReusableAcrossQueries(t *testing.T) {
	g := buildGrid(t)
	qs := NewQueryState(g)
	alphas := []float64{1, 0}

	if _, err := ComputeBestPath(context.Background(), qs, 0, 4, alphas); err != nil {
		t.Fatalf("first query: %v", err)
	}
	p, err := ComputeBestPath(context.Background(), qs, 1, 3, alphas)
	if err != nil {
		t.Fatalf("second query: %v", err)
	}
	if len(p.Edges) == 0 {
		t.Fatal("second query returned empty path")
	}
}
