package explorator

import (
	"context"
	"math"
	"testing"

	"github.com/azybler/pathforge/pkg/graph"
	"github.com/azybler/pathforge/pkg/routing"
)

// buildTradeoffGraph builds a 6-node graph with two parallel src->dst
// routes trading distance against duration (a fast toll-ish direct hop
// vs a slower-but-shorter local road), so neither dominates the other
// under every alpha — a minimal 2-D Pareto front.
func buildTradeoffGraph(t *testing.T) *graph.Graph {
	t.Helper()
	metrics := []graph.MetricSpec{
		{Name: "distance", Unit: graph.UnitDistance},
		{Name: "duration", Unit: graph.UnitDuration},
	}
	b := graph.NewBuilder(metrics)
	for i := int64(0); i < 6; i++ {
		if err := b.PushNode(i, 0, float64(i)); err != nil {
			t.Fatalf("PushNode: %v", err)
		}
	}
	type e struct {
		from, to   int64
		dist, dur  float64
	}
	edges := []e{
		{0, 1, 1000, 100}, // direct: long distance, fast duration (highway)
		{0, 2, 200, 60},
		{2, 3, 200, 60},
		{3, 4, 200, 60},
		{4, 1, 200, 60}, // local loop: short distance, slower overall duration
	}
	for _, ed := range edges {
		if err := b.PushEdge(graph.ProtoEdge{FromID: ed.from, ToID: ed.to, Metrics: []float64{ed.dist, ed.dur}}); err != nil {
			t.Fatalf("PushEdge: %v", err)
		}
	}
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestFullyExplorateFindsBothTradeoffRoutes(t *testing.T) {
	g := buildTradeoffGraph(t)
	qs := routing.NewQueryState(g)

	q, err := NewQuery(2, []int{0, 1}, []float64{math.Inf(1), math.Inf(1)})
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}

	results, err := FullyExplorate(context.Background(), qs, g, 0, 1, q)
	if err != nil {
		t.Fatalf("FullyExplorate: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected at least 2 non-dominated routes, got %d", len(results))
	}

	var sawDirect, sawLoop bool
	for _, r := range results {
		if len(r.Path.Edges) == 1 {
			sawDirect = true
		}
		if len(r.Path.Edges) == 4 {
			sawLoop = true
		}
	}
	if !sawDirect || !sawLoop {
		t.Fatalf("expected both the 1-edge direct route and the 4-edge loop route, direct=%v loop=%v", sawDirect, sawLoop)
	}
}

func TestQueryRejectsBadDims(t *testing.T) {
	if _, err := NewQuery(2, []int{0}, []float64{1}); err == nil {
		t.Fatal("expected ErrDimMismatch for mismatched tolerances length")
	}
	if _, err := NewQuery(2, nil, []float64{1, 1}); err == nil {
		t.Fatal("expected ErrNoConsideredDims for empty considered set")
	}
}

func TestWithinToleranceInfIsUnfiltered(t *testing.T) {
	q, err := NewQuery(2, []int{0, 1}, []float64{math.Inf(1), 10})
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	if !q.withinTolerance([]float64{1e9, 10}) {
		t.Fatal("expected +Inf tolerance on dim 0 to leave it unfiltered")
	}
	if q.withinTolerance([]float64{1, 10.5}) {
		t.Fatal("expected dim 1's finite tolerance to reject 10.5 > 10")
	}
}
