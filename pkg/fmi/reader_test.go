package fmi

import (
	"strings"
	"testing"

	"github.com/azybler/pathforge/pkg/config"
)

func tinyParsingConfig() *config.ParsingConfig {
	return &config.ParsingConfig{
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
}

func boolPtr(b bool) *bool { return &b }

func TestReadGraph(t *testing.T) {
	const body = `# a comment
3
3
2

1 48.0 9.0
2 48.1 9.1
3 48.2 9.2

1 2 1000 50 _
2 3 500 30 _
`
	cfg := tinyParsingConfig()
	g, err := ReadGraph(strings.NewReader(body), cfg)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes)
	}
	if g.NumEdges != 2 {
		t.Fatalf("NumEdges = %d, want 2", g.NumEdges)
	}
	durIdx := g.MetricIndexOf("duration")
	if durIdx == -1 {
		t.Fatal("duration metric not found")
	}
	row := g.EdgeMetrics(0)
	if row[durIdx] <= 0 {
		t.Errorf("expected calc-ruled positive duration, got %v", row[durIdx])
	}
}

func TestReadGraphRejectsHeaderMismatch(t *testing.T) {
	const body = "9\n3\n2\n1 0 0\n2 0 0\n3 0 0\n1 2 10 5 _\n2 3 10 5 _\n"
	cfg := tinyParsingConfig()
	_, err := ReadGraph(strings.NewReader(body), cfg)
	if err == nil {
		t.Fatal("expected header-mismatch error")
	}
}

func TestReadGraphRejectsShortcutColumn(t *testing.T) {
	cfg := &config.ParsingConfig{
		Edges: config.EdgesConfig{
			Metrics: []config.MetricEntry{
				{Category: config.CategorySrcID},
				{Category: config.CategoryDstID},
				{Category: config.CategoryShortcutEdgeIdx},
			},
		},
	}
	_, err := ReadGraph(strings.NewReader("0\n0\n0\n"), cfg)
	if err == nil {
		t.Fatal("expected ErrShortcutColumnOnRead")
	}
}
