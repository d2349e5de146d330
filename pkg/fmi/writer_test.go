package fmi

import (
	"bytes"
	"testing"

	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/graph"
)

func buildTinyGraph(t *testing.T) *graph.Graph {
	t.Helper()
	metrics := []graph.MetricSpec{
		{Name: "distance", Unit: graph.UnitDistance},
		{Name: "speed", Unit: graph.UnitRaw},
		{Name: "duration", Unit: graph.UnitDuration},
	}
	b := graph.NewBuilder(metrics)
	for i := int64(1); i <= 3; i++ {
		if err := b.PushNode(i, float64(i)*0.1, float64(i)*0.2); err != nil {
			t.Fatalf("PushNode: %v", err)
		}
	}
	edges := [][2]int64{{1, 2}, {2, 3}}
	for _, e := range edges {
		if err := b.PushEdge(graph.ProtoEdge{FromID: e[0], ToID: e[1], Metrics: []float64{1000, 50, 72}}); err != nil {
			t.Fatalf("PushEdge: %v", err)
		}
	}
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return g
}

func TestWriteThenReadGraphRoundTrips(t *testing.T) {
	g := buildTinyGraph(t)
	cfg := &config.ParsingConfig{
		Edges: config.EdgesConfig{
			Metrics: []config.MetricEntry{
				{Category: config.CategorySrcID},
				{Category: config.CategoryDstID},
				{Category: config.CategoryMeters, ID: "distance"},
				{Category: config.CategoryKMPH, ID: "speed"},
				{Category: config.CategorySeconds, ID: "duration", IsProvided: boolPtr(false)},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteGraph(&buf, g, cfg, false); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}

	got, err := ReadGraph(&buf, cfg)
	if err != nil {
		t.Fatalf("ReadGraph: %v\n%s", err, buf.String())
	}
	if got.NumNodes != g.NumNodes || got.NumEdges != g.NumEdges {
		t.Fatalf("round-trip mismatch: nodes %d/%d edges %d/%d", got.NumNodes, g.NumNodes, got.NumEdges, g.NumEdges)
	}
}
