package ch

import (
	"context"
	"testing"

	"github.com/azybler/pathforge/pkg/graph"
	"github.com/azybler/pathforge/pkg/routing"
)

func metricsSpec() []graph.MetricSpec {
	return []graph.MetricSpec{{Name: "distance", Unit: graph.UnitDistance}}
}

// buildSmall constructs an 8-node graph with enough structure (a cycle
// plus chords) that contraction must introduce at least one shortcut,
// grounded loosely on original_source/tests/maps/small's node count.
func buildSmall(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(metricsSpec())
	for i := int64(0); i < 8; i++ {
		if err := b.PushNode(i, float64(i), float64(i)); err != nil {
			t.Fatalf("PushNode: %v", err)
		}
	}
	edges := [][3]int64{
		{0, 1, 10}, {1, 2, 10}, {2, 3, 10}, {3, 4, 10},
		{4, 5, 10}, {5, 6, 10}, {6, 7, 10}, {7, 0, 10},
		{0, 4, 15}, {2, 6, 12}, {1, 5, 20},
	}
	for _, e := range edges {
		if err := b.PushEdge(graph.ProtoEdge{FromID: e[0], ToID: e[1], Metrics: []float64{float64(e[2])}}); err != nil {
			t.Fatalf("PushEdge: %v", err)
		}
		if err := b.PushEdge(graph.ProtoEdge{FromID: e[1], ToID: e[0], Metrics: []float64{float64(e[2])}}); err != nil {
			t.Fatalf("PushEdge: %v", err)
		}
	}
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestContractPreservesShortestPaths(t *testing.T) {
	g := buildSmall(t)
	alphas := []float64{1}

	chg, err := Contract(g, alphas, 1)
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	if !chg.IsContracted() {
		t.Fatal("expected contracted graph to report IsContracted")
	}

	flatQS := routing.NewQueryState(g)
	chQS := routing.NewQueryState(chg)

	for src := graph.NodeIdx(0); src < graph.NodeIdx(g.NumNodes); src++ {
		for dst := graph.NodeIdx(0); dst < graph.NodeIdx(g.NumNodes); dst++ {
			if src == dst {
				continue
			}
			flatPath, err1 := routing.ComputeBestPath(context.Background(), flatQS, src, dst, alphas)
			chPath, err2 := routing.ComputeBestPath(context.Background(), chQS, src, dst, alphas)
			if (err1 == nil) != (err2 == nil) {
				t.Fatalf("%d->%d: flat err=%v, ch err=%v", src, dst, err1, err2)
			}
			if err1 != nil {
				continue
			}
			flatCost := flatPath.Costs(g)[0]
			flat, err := routing.Flatten(chPath, chg)
			if err != nil {
				t.Fatalf("%d->%d: Flatten: %v", src, dst, err)
			}
			chCost := flat.Costs(chg)[0]
			if diffAbs(flatCost, chCost) > 1e-6 {
				t.Errorf("%d->%d: flat cost %v != ch cost %v", src, dst, flatCost, chCost)
			}
		}
	}
}

func diffAbs(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
