package fmi

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/graph"
)

// WriteGraph serializes g to w in FMI ASCII format, laying edge
// columns out according to cfg.Edges.Metrics (so a graph built from
// one parsing config can be re-read with the same config). Shortcut
// edges are omitted unless includeShortcuts is set, mirroring the
// original writer's is_writing_shortcuts option.
func WriteGraph(w io.Writer, g *graph.Graph, cfg *config.ParsingConfig, includeShortcuts bool) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# edge-metric-count")
	fmt.Fprintln(bw, "# node-count")
	fmt.Fprintln(bw, "# edge-count")
	fmt.Fprintln(bw)

	dim := len(cfg.MetricSpecs())
	var edgeCount int
	for e := graph.EdgeIdx(0); int(e) < int(g.NumEdges); e++ {
		if !includeShortcuts {
			if _, _, ok := g.IsShortcut(e); ok {
				continue
			}
		}
		edgeCount++
	}

	fmt.Fprintln(bw, dim)
	fmt.Fprintln(bw, g.NumNodes)
	fmt.Fprintln(bw, edgeCount)

	for n := range g.NodeID {
		fmt.Fprintf(bw, "%d %s %s\n", g.NodeID[n], formatFloat(g.NodeLat[n]), formatFloat(g.NodeLon[n]))
	}

	plan, err := buildWritePlan(cfg, g)
	if err != nil {
		return err
	}

	shortcutOccurrence := 0
	for e := graph.EdgeIdx(0); int(e) < int(g.NumEdges); e++ {
		a, b, isShortcut := g.IsShortcut(e)
		if isShortcut && !includeShortcuts {
			continue
		}
		if err := writeEdgeLine(bw, g, e, a, b, isShortcut, plan, &shortcutOccurrence); err != nil {
			return err
		}
	}

	return bw.Flush()
}

type writeColumn struct {
	kind      columnKind
	metricIdx int // index into g.Metrics/EdgeMetrics, valid when kind == colMetric
}

func buildWritePlan(cfg *config.ParsingConfig, g *graph.Graph) ([]writeColumn, error) {
	cols := make([]writeColumn, 0, len(cfg.Edges.Metrics))
	for _, m := range cfg.Edges.Metrics {
		switch {
		case m.Category == config.CategorySrcID:
			cols = append(cols, writeColumn{kind: colSrcID})
		case m.Category == config.CategoryDstID:
			cols = append(cols, writeColumn{kind: colDstID})
		case m.Category == config.CategoryIgnore:
			cols = append(cols, writeColumn{kind: colIgnore})
		case m.Category == config.CategoryShortcutEdgeIdx:
			cols = append(cols, writeColumn{kind: colShortcut})
		case m.Category.IsMetricColumn():
			idx := g.MetricIndexOf(m.ResolvedID())
			if idx == -1 {
				return nil, fmt.Errorf("fmi: write column %q has no matching graph metric", m.ResolvedID())
			}
			cols = append(cols, writeColumn{kind: colMetric, metricIdx: idx})
		default:
			return nil, fmt.Errorf("fmi: unrecognized metric category %q", m.Category)
		}
	}
	return cols, nil
}

const colShortcut columnKind = 100

func writeEdgeLine(bw *bufio.Writer, g *graph.Graph, e, a, b graph.EdgeIdx, isShortcut bool, plan []writeColumn, shortcutOccurrence *int) error {
	src := g.FwdSrc(e)
	dst := g.FwdDst(e)
	row := g.EdgeMetrics(e)

	for i, c := range plan {
		if i > 0 {
			if _, err := bw.WriteString(" "); err != nil {
				return err
			}
		}
		switch c.kind {
		case colSrcID:
			fmt.Fprintf(bw, "%d", g.NodeID[src])
		case colDstID:
			fmt.Fprintf(bw, "%d", g.NodeID[dst])
		case colIgnore:
			bw.WriteString(missingValue)
		case colShortcut:
			*shortcutOccurrence++
			if !isShortcut {
				bw.WriteString(missingValue)
			} else if *shortcutOccurrence%2 == 1 {
				fmt.Fprintf(bw, "%d", a)
			} else {
				fmt.Fprintf(bw, "%d", b)
			}
		case colMetric:
			bw.WriteString(formatFloat(row[c.metricIdx]))
		}
	}
	_, err := bw.WriteString("\n")
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
