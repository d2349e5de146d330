package graph

import (
	"fmt"
	"math"
	"sort"
)

// ProtoEdge is a not-yet-resolved edge pushed into a Builder: node
// endpoints are referenced by external ID, not NodeIdx, since the
// builder may see edges before (or interleaved with) their endpoint
// nodes — exactly the order an OSM or FMI stream delivers them in.
type ProtoEdge struct {
	FromID, ToID int64

	// Metrics holds one value per Builder metric column. Use math.NaN()
	// in the first UnitDuration column to have it calc-ruled from the
	// first UnitDistance column and SpeedKMH.
	Metrics []float64

	// SpeedKMH feeds the distance->duration calc-rule; ignored if no
	// UnitDuration column needs deriving.
	SpeedKMH float64
}

// Builder accumulates proto-nodes and proto-edges and assembles them
// into an immutable Graph. Mirrors the teacher's pkg/graph/builder.go
// dedup-then-sort-then-CSR pipeline, generalized from a single Weight
// column to a named multi-metric matrix.
type Builder struct {
	Metrics []MetricSpec

	nodeIdx map[int64]NodeIdx
	nodeID  []int64
	lat     []float64
	lon     []float64

	edges []ProtoEdge
}

// NewBuilder creates a Builder whose finalized graphs carry the given
// ordered metric columns.
func NewBuilder(metrics []MetricSpec) *Builder {
	return &Builder{
		Metrics: metrics,
		nodeIdx: make(map[int64]NodeIdx),
	}
}

// PushNode registers a node, or, if id was already pushed, overwrites
// its coordinate with this call's — the last-seen coordinate for a
// given external id wins at Finalize time.
func (b *Builder) PushNode(id int64, lat, lon float64) error {
	if idx, ok := b.nodeIdx[id]; ok {
		b.lat[idx] = lat
		b.lon[idx] = lon
		return nil
	}
	b.nodeIdx[id] = NodeIdx(len(b.nodeID))
	b.nodeID = append(b.nodeID, id)
	b.lat = append(b.lat, lat)
	b.lon = append(b.lon, lon)
	return nil
}

// PushEdge queues a proto-edge for resolution at Finalize time.
func (b *Builder) PushEdge(e ProtoEdge) error {
	if len(e.Metrics) != len(b.Metrics) {
		return fmt.Errorf("push edge %d->%d: %w (got %d, want %d)",
			e.FromID, e.ToID, ErrMetricDimMismatch, len(e.Metrics), len(b.Metrics))
	}
	b.edges = append(b.edges, e)
	return nil
}

// NumNodes returns the number of nodes pushed so far.
func (b *Builder) NumNodes() int { return len(b.nodeID) }

type resolvedEdge struct {
	src, dst NodeIdx
	metrics  []float64
}

// Finalize resolves, validates, calc-rules and sorts the accumulated
// proto-graph into an immutable Graph with forward and backward CSR.
func (b *Builder) Finalize() (*Graph, error) {
	if len(b.nodeID) == 0 {
		return nil, ErrEmptyGraph
	}

	distCol := -1
	durCol := -1
	for i, m := range b.Metrics {
		switch m.Unit {
		case UnitDistance:
			if distCol == -1 {
				distCol = i
			}
		case UnitDuration:
			if durCol == -1 {
				durCol = i
			}
		}
	}

	resolved := make([]resolvedEdge, 0, len(b.edges))
	for _, pe := range b.edges {
		src, ok := b.nodeIdx[pe.FromID]
		if !ok {
			return nil, fmt.Errorf("edge %d->%d: %w (from=%d)", pe.FromID, pe.ToID, ErrUnknownNodeID, pe.FromID)
		}
		dst, ok := b.nodeIdx[pe.ToID]
		if !ok {
			return nil, fmt.Errorf("edge %d->%d: %w (to=%d)", pe.FromID, pe.ToID, ErrUnknownNodeID, pe.ToID)
		}

		row := make([]float64, len(pe.Metrics))
		copy(row, pe.Metrics)

		if durCol != -1 && math.IsNaN(row[durCol]) {
			if distCol == -1 {
				return nil, fmt.Errorf("edge %d->%d: duration calc-rule needs a distance column", pe.FromID, pe.ToID)
			}
			row[durCol] = float64(distanceToDuration(row[distCol], pe.SpeedKMH))
		}

		for i, m := range b.Metrics {
			switch m.Unit {
			case UnitDistance, UnitDuration:
				if row[i] <= 0 {
					return nil, fmt.Errorf("edge %d->%d metric %q: %w", pe.FromID, pe.ToID, m.Name, ErrNonPositiveMetric)
				}
			case UnitWorkload:
				if row[i] < 0 {
					return nil, fmt.Errorf("edge %d->%d metric %q: %w", pe.FromID, pe.ToID, m.Name, ErrNegativeWorkload)
				}
			}
		}

		resolved = append(resolved, resolvedEdge{src: src, dst: dst, metrics: row})
	}

	nodeID, lat, lon, resolved := dropUnreferencedNodes(b.nodeID, b.lat, b.lon, resolved)
	if len(nodeID) == 0 {
		return nil, ErrEmptyGraph
	}

	numNodes := uint32(len(nodeID))
	level := make([]uint32, numNodes) // zero until CH contraction assigns levels

	sort.SliceStable(resolved, func(i, j int) bool {
		if resolved[i].src != resolved[j].src {
			return resolved[i].src < resolved[j].src
		}
		if level[resolved[i].dst] != level[resolved[j].dst] {
			return level[resolved[i].dst] > level[resolved[j].dst]
		}
		return resolved[i].dst < resolved[j].dst
	})

	g := &Graph{
		Metrics:   append([]MetricSpec(nil), b.Metrics...),
		NumNodes:  numNodes,
		NodeID:    nodeID,
		NodeLat:   lat,
		NodeLon:   lon,
		NodeLevel: level,
		NumEdges:  uint32(len(resolved)),
	}

	dim := len(b.Metrics)
	g.FwdFirstOut = make([]uint32, numNodes+1)
	g.FwdHead = make([]NodeIdx, len(resolved))
	g.FwdMetrics = make([]float64, len(resolved)*dim)
	g.FwdShortcutA = make([]EdgeIdx, len(resolved))
	g.FwdShortcutB = make([]EdgeIdx, len(resolved))

	for i, e := range resolved {
		g.FwdFirstOut[e.src+1]++
		g.FwdHead[i] = e.dst
		copy(g.FwdMetrics[i*dim:i*dim+dim], e.metrics)
		g.FwdShortcutA[i] = InvalidEdge
		g.FwdShortcutB[i] = InvalidEdge
	}
	for n := uint32(0); n < numNodes; n++ {
		g.FwdFirstOut[n+1] += g.FwdFirstOut[n]
	}

	buildBackward(g, resolved)

	return g, nil
}

// dropUnreferencedNodes removes any node touched by no resolved edge,
// remapping the survivors to a dense [0, n) index space and rewriting
// resolved's endpoints through that remap. CH nodes are always
// retained in the original pipeline this is grounded on, but this
// builder only assigns levels after Finalize (via BuildCHGraph), so
// there's no pre-finalize level to check — every node here is a flat,
// not-yet-contracted one, and is dropped purely by reference count.
func dropUnreferencedNodes(nodeID []int64, lat, lon []float64, resolved []resolvedEdge) ([]int64, []float64, []float64, []resolvedEdge) {
	referenced := make([]bool, len(nodeID))
	for _, e := range resolved {
		referenced[e.src] = true
		referenced[e.dst] = true
	}

	remap := make([]NodeIdx, len(nodeID))
	newID := make([]int64, 0, len(nodeID))
	newLat := make([]float64, 0, len(nodeID))
	newLon := make([]float64, 0, len(nodeID))
	for i, keep := range referenced {
		if !keep {
			continue
		}
		remap[i] = NodeIdx(len(newID))
		newID = append(newID, nodeID[i])
		newLat = append(newLat, lat[i])
		newLon = append(newLon, lon[i])
	}

	if len(newID) == len(nodeID) {
		return nodeID, lat, lon, resolved
	}

	for i := range resolved {
		resolved[i].src = remap[resolved[i].src]
		resolved[i].dst = remap[resolved[i].dst]
	}
	return newID, newLat, newLon, resolved
}

// distanceToDuration applies the distance+speed calc-rule.
func distanceToDuration(distMeters, kmh float64) float64 {
	if kmh <= 0 {
		kmh = 50 // fallback road-class default, matches teacher preprocess default
	}
	metersPerSecond := kmh * 1000.0 / 3600.0
	return distMeters / metersPerSecond
}

func buildBackward(g *Graph, resolved []resolvedEdge) {
	n := len(resolved)
	type bwdPair struct {
		dst NodeIdx
		fwd EdgeIdx
	}
	pairs := make([]bwdPair, n)
	for i, e := range resolved {
		pairs[i] = bwdPair{dst: e.dst, fwd: EdgeIdx(i)}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].dst < pairs[j].dst
	})

	g.BwdFirstOut = make([]uint32, g.NumNodes+1)
	g.BwdHead = make([]NodeIdx, n)
	g.BwdToFwd = make([]EdgeIdx, n)

	for i, p := range pairs {
		g.BwdFirstOut[p.dst+1]++
		g.BwdToFwd[i] = p.fwd
		g.BwdHead[i] = resolved[p.fwd].src
	}
	for nd := uint32(0); nd < g.NumNodes; nd++ {
		g.BwdFirstOut[nd+1] += g.BwdFirstOut[nd]
	}
}
