package routing

import (
	"testing"

	"github.com/azybler/pathforge/pkg/graph"
)

// buildShortcutGraph builds a 4-node path 0-1-2-3 of three original
// edges, plus a shortcut edge 0->2 standing in for edges (0->1, 1->2),
// and a second-level shortcut 0->3 standing in for (0->2 shortcut,
// 2->3), to exercise nested shortcut expansion.
func buildShortcutGraph(t *testing.T) (*graph.Graph, graph.EdgeIdx) {
	t.Helper()
	b := graph.NewBuilder(metricsSpec())
	for i := int64(0); i < 4; i++ {
		if err := b.PushNode(i, float64(i), float64(i)); err != nil {
			t.Fatalf("PushNode: %v", err)
		}
	}
	for _, e := range [][2]int64{{0, 1}, {1, 2}, {2, 3}} {
		if err := b.PushEdge(graph.ProtoEdge{FromID: e[0], ToID: e[1], Metrics: []float64{10, 1}}); err != nil {
			t.Fatalf("PushEdge: %v", err)
		}
	}
	base, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	e01 := base.FindEdge(0, 1)
	e12 := base.FindEdge(1, 2)
	e23 := base.FindEdge(2, 3)

	levels := make([]uint32, base.NumNodes)
	levels[1] = 1
	levels[2] = 2

	shortcuts := []graph.Shortcut{
		{Src: 0, Dst: 2, Metrics: []float64{20, 2}, Via1: e01, Via2: e12},
	}
	withSc1, err := graph.BuildCHGraph(base, shortcuts, levels)
	if err != nil {
		t.Fatalf("BuildCHGraph: %v", err)
	}

	sc02 := withSc1.FindEdge(0, 2)
	e23in2 := withSc1.FindEdge(2, 3)
	levels2 := append([]uint32(nil), levels...)
	levels2[3] = 0

	shortcuts2 := []graph.Shortcut{
		{Src: 0, Dst: 3, Metrics: []float64{30, 3}, Via1: sc02, Via2: e23in2},
	}
	// BuildCHGraph expects Via refs relative to its `base` argument, so
	// the second-level shortcut must be built against withSc1 (which
	// already contains the first shortcut at index sc02), not against
	// the original 3-edge base.
	final, err := graph.BuildCHGraph(withSc1, shortcuts2, levels2)
	if err != nil {
		t.Fatalf("BuildCHGraph (nested): %v", err)
	}

	scTop := final.FindEdge(0, 3)
	_ = e23 // kept for readability of the construction above
	return final, scTop
}

func TestFlattenExpandsNestedShortcuts(t *testing.T) {
	g, scTop := buildShortcutGraph(t)

	p := &Path{SrcIdx: 0, SrcID: g.NodeID[0], DstIdx: 3, DstID: g.NodeID[3], Edges: []graph.EdgeIdx{scTop}}
	flat, err := Flatten(p, g)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(flat.Edges) != 3 {
		t.Fatalf("flattened edge count = %d, want 3", len(flat.Edges))
	}
	for _, e := range flat.Edges {
		if _, _, ok := g.IsShortcut(e); ok {
			t.Errorf("flattened edge %d is still a shortcut", e)
		}
	}
	costs := flat.Costs(g)
	if costs[0] != 30 {
		t.Errorf("flattened distance = %v, want 30", costs[0])
	}
}

func TestPathEqual(t *testing.T) {
	p1 := &Path{SrcID: 1, DstID: 2, Edges: []graph.EdgeIdx{0, 1}}
	p2 := &Path{SrcID: 1, DstID: 2, Edges: []graph.EdgeIdx{0, 1}}
	p3 := &Path{SrcID: 1, DstID: 2, Edges: []graph.EdgeIdx{0, 2}}

	if !p1.Equal(p2) {
		t.Error("expected p1 == p2")
	}
	if p1.Equal(p3) {
		t.Error("expected p1 != p3")
	}
}
