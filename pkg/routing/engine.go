package routing

import (
	"context"
	"sync"

	"github.com/azybler/pathforge/pkg/graph"
)

// LatLng is a geographic coordinate, independent of the graph's
// internal node indexing.
type LatLng struct {
	Lat float64
	Lng float64
}

// Segment is one leg of a route result. A Path never splits across
// more than one segment in this port — the teacher's multi-segment
// shape is kept for API compatibility with a multi-leg future, but a
// single Engine.Route call always returns exactly one.
type Segment struct {
	DistanceMeters float64
	Geometry       []LatLng
}

// RouteResult is the output of a route query: Costs holds the full
// per-metric cost vector (in the graph's declared metric order),
// TotalDistanceMeters is pulled from whichever column is UnitDistance
// for callers that only care about distance.
type RouteResult struct {
	Costs               []float64
	TotalDistanceMeters float64
	Segments            []Segment
}

// Router is the interface cmd/routeserver's HTTP handlers depend on,
// letting tests substitute a mock instead of a real Engine.
type Router interface {
	Route(ctx context.Context, start, end LatLng, alphas []float64) (*RouteResult, error)
}

// Engine answers point-to-point route queries over a graph by
// snapping both endpoints to the nearest road via a Snapper, then
// running ComputeBestPath between the snapped nodes. Generalizes the
// teacher's pkg/routing/engine.go Engine: the teacher's bespoke
// bidirectional-Dijkstra-with-predecessor-arrays loop is replaced by
// this port's existing multi-metric ComputeBestPath/Flatten pair, and
// a single Weight column becomes an arbitrary alphas vector.
type Engine struct {
	g       *graph.Graph
	snapper *Snapper
	qsPool  sync.Pool
}

// NewEngine builds an Engine over g, indexing it for snapping.
func NewEngine(g *graph.Graph) *Engine {
	e := &Engine{g: g, snapper: NewSnapper(g)}
	e.qsPool.New = func() any { return NewQueryState(g) }
	return e
}

// Route snaps start and end to their nearest road, then computes the
// alphas-weighted shortest path between the snapped endpoints.
//
// Snapping resolves to the nearer of the matched edge's two endpoint
// nodes rather than seeding a partial-edge search from the exact
// snapped point: ComputeBestPath only accepts whole-node endpoints, so
// routing from a point snapped mid-edge costs at most one edge's worth
// of distance in additional precision, which the 500m snap radius
// already bounds.
func (e *Engine) Route(ctx context.Context, start, end LatLng, alphas []float64) (*RouteResult, error) {
	startSnap, err := e.snapper.Snap(start.Lat, start.Lng)
	if err != nil {
		return nil, err
	}
	endSnap, err := e.snapper.Snap(end.Lat, end.Lng)
	if err != nil {
		return nil, err
	}

	src := nearerNode(startSnap)
	dst := nearerNode(endSnap)

	qs := e.qsPool.Get().(*QueryState)
	defer e.qsPool.Put(qs)

	path, err := ComputeBestPath(ctx, qs, src, dst, alphas)
	if err != nil {
		return nil, err
	}
	flat, err := Flatten(path, e.g)
	if err != nil {
		return nil, err
	}

	costs := flat.Costs(e.g)
	totalDist := sumDistanceColumns(e.g, costs)
	geometry := e.buildGeometry(flat)

	return &RouteResult{
		Costs:               costs,
		TotalDistanceMeters: totalDist,
		Segments: []Segment{
			{DistanceMeters: totalDist, Geometry: geometry},
		},
	}, nil
}

func nearerNode(s SnapResult) graph.NodeIdx {
	if s.Ratio < 0.5 {
		return s.NodeU
	}
	return s.NodeV
}

func sumDistanceColumns(g *graph.Graph, costs []float64) float64 {
	var total float64
	for i, m := range g.Metrics {
		if m.Unit == graph.UnitDistance {
			total += costs[i]
		}
	}
	return total
}

// buildGeometry walks a flattened path's edge sequence into a node
// coordinate polyline. Intermediate way-shape points (the teacher's
// GeoFirstOut/GeoShapeLat arrays) are not carried by this port's
// graph, so geometry is node-to-node only.
func (e *Engine) buildGeometry(p *Path) []LatLng {
	geom := make([]LatLng, 0, len(p.Edges)+1)
	geom = append(geom, LatLng{Lat: e.g.NodeLat[p.SrcIdx], Lng: e.g.NodeLon[p.SrcIdx]})
	node := p.SrcIdx
	for _, edge := range p.Edges {
		node = e.g.FwdDst(edge)
		geom = append(geom, LatLng{Lat: e.g.NodeLat[node], Lng: e.g.NodeLon[node]})
	}
	return geom
}
