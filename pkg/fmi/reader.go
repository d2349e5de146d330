package fmi

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/graph"
)

// lineReader yields functional lines: blank lines and lines starting
// with '#' are transparently skipped, mirroring the original's
// is_line_functional filter.
type lineReader struct {
	scanner *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

// next returns the next functional line, or ok=false at EOF.
func (lr *lineReader) next() (string, bool) {
	for lr.scanner.Scan() {
		line := strings.TrimSpace(lr.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

type columnKind int

const (
	colSrcID columnKind = iota
	colDstID
	colIgnore
	colMetric
)

type column struct {
	kind      columnKind
	metricIdx int // valid when kind == colMetric
}

// buildReadPlan lays cfg.Edges.Metrics out into a per-column read plan,
// assigning each metric column the index it will occupy in a
// graph.ProtoEdge.Metrics row (i.e. skipping non-metric columns the
// same way config.ParsingConfig.MetricSpecs does).
func buildReadPlan(cfg *config.ParsingConfig) ([]column, error) {
	cols := make([]column, 0, len(cfg.Edges.Metrics))
	metricIdx := 0
	for _, m := range cfg.Edges.Metrics {
		switch {
		case m.Category == config.CategorySrcID:
			cols = append(cols, column{kind: colSrcID})
		case m.Category == config.CategoryDstID:
			cols = append(cols, column{kind: colDstID})
		case m.Category == config.CategoryIgnore:
			cols = append(cols, column{kind: colIgnore})
		case m.Category == config.CategoryShortcutEdgeIdx:
			return nil, ErrShortcutColumnOnRead
		case m.Category.IsMetricColumn():
			cols = append(cols, column{kind: colMetric, metricIdx: metricIdx})
			metricIdx++
		default:
			return nil, fmt.Errorf("fmi: unrecognized metric category %q", m.Category)
		}
	}
	return cols, nil
}

// ReadGraph parses an FMI-formatted stream into a graph.Graph, laying
// out edge columns according to cfg.Edges.Metrics.
func ReadGraph(r io.Reader, cfg *config.ParsingConfig) (*graph.Graph, error) {
	plan, err := buildReadPlan(cfg)
	if err != nil {
		return nil, err
	}
	kmphIdx, hasKMPH := kmphColumnIndex(cfg)

	lr := newLineReader(r)

	edgeMetricCount, nodeCount, edgeCount, err := readHeader(lr)
	if err != nil {
		return nil, err
	}
	if edgeMetricCount != len(cfg.MetricSpecs()) {
		return nil, fmt.Errorf("fmi: header declares %d edge metrics, config declares %d: %w",
			edgeMetricCount, len(cfg.MetricSpecs()), ErrMalformedHeader)
	}

	b := graph.NewBuilder(cfg.MetricSpecs())

	for i := 0; i < nodeCount; i++ {
		line, ok := lr.next()
		if !ok {
			return nil, fmt.Errorf("fmi: expected %d node records, got %d: %w", nodeCount, i, ErrMalformedNode)
		}
		id, lat, lon, err := parseNode(line)
		if err != nil {
			return nil, err
		}
		if err := b.PushNode(id, lat, lon); err != nil {
			return nil, fmt.Errorf("fmi: %w", err)
		}
	}

	for i := 0; i < edgeCount; i++ {
		line, ok := lr.next()
		if !ok {
			return nil, fmt.Errorf("fmi: expected %d edge records, got %d: %w", edgeCount, i, ErrMalformedEdge)
		}
		pe, err := parseEdge(line, plan, kmphIdx, hasKMPH)
		if err != nil {
			return nil, err
		}
		if err := b.PushEdge(pe); err != nil {
			return nil, fmt.Errorf("fmi: %w", err)
		}
	}

	return b.Finalize()
}

func kmphColumnIndex(cfg *config.ParsingConfig) (int, bool) {
	idx := 0
	for _, m := range cfg.Edges.Metrics {
		if !m.Category.IsMetricColumn() {
			continue
		}
		if m.Category == config.CategoryKMPH {
			return idx, true
		}
		idx++
	}
	return 0, false
}

func readHeader(lr *lineReader) (edgeMetricCount, nodeCount, edgeCount int, err error) {
	counts := make([]int, 0, 3)
	for len(counts) < 3 {
		line, ok := lr.next()
		if !ok {
			return 0, 0, 0, ErrMalformedHeader
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("fmi: header count %q: %w", line, ErrMalformedHeader)
		}
		counts = append(counts, n)
	}
	return counts[0], counts[1], counts[2], nil
}

func parseNode(line string) (id int64, lat, lon float64, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("fmi: %q: %w", line, ErrMalformedNode)
	}
	id, e1 := strconv.ParseInt(fields[0], 10, 64)
	lat, e2 := strconv.ParseFloat(fields[1], 64)
	lon, e3 := strconv.ParseFloat(fields[2], 64)
	if e1 != nil || e2 != nil || e3 != nil {
		return 0, 0, 0, fmt.Errorf("fmi: %q: %w", line, ErrMalformedNode)
	}
	return id, lat, lon, nil
}

func parseEdge(line string, plan []column, kmphIdx int, hasKMPH bool) (graph.ProtoEdge, error) {
	fields := strings.Fields(line)
	if len(fields) != len(plan) {
		return graph.ProtoEdge{}, fmt.Errorf("fmi: %q: %w (got %d fields, want %d)",
			line, ErrMalformedEdge, len(fields), len(plan))
	}

	metricCount := 0
	for _, c := range plan {
		if c.kind == colMetric {
			metricCount++
		}
	}

	var srcID, dstID int64
	var haveSrc, haveDst bool
	metrics := make([]float64, metricCount)

	for i, c := range plan {
		field := fields[i]
		switch c.kind {
		case colSrcID:
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return graph.ProtoEdge{}, fmt.Errorf("fmi: %q: %w", line, ErrMalformedEdge)
			}
			srcID, haveSrc = v, true
		case colDstID:
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return graph.ProtoEdge{}, fmt.Errorf("fmi: %q: %w", line, ErrMalformedEdge)
			}
			dstID, haveDst = v, true
		case colIgnore:
			// consumed, discarded
		case colMetric:
			if field == missingValue {
				metrics[c.metricIdx] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return graph.ProtoEdge{}, fmt.Errorf("fmi: %q: %w", line, ErrMalformedEdge)
			}
			metrics[c.metricIdx] = v
		}
	}

	if !haveSrc || !haveDst {
		return graph.ProtoEdge{}, fmt.Errorf("fmi: %q: %w", line, ErrUnresolvedEndpoint)
	}

	var speedKMH float64
	if hasKMPH {
		speedKMH = metrics[kmphIdx]
	}

	return graph.ProtoEdge{FromID: srcID, ToID: dstID, Metrics: metrics, SpeedKMH: speedKMH}, nil
}
