package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"github.com/azybler/pathforge/pkg/geo"
	"github.com/azybler/pathforge/pkg/graph"
)

const maxSnapDistMeters = 500.0

// ErrPointTooFar is returned when the query point is too far from any
// road in the graph.
var ErrPointTooFar = errors.New("routing: point too far from road")

// SnapResult represents a query point snapped onto the nearest edge.
type SnapResult struct {
	EdgeIdx graph.EdgeIdx
	NodeU   graph.NodeIdx // edge's source
	NodeV   graph.NodeIdx // edge's destination
	Ratio   float64       // 0.0 = at NodeU, 1.0 = at NodeV
	Dist    float64       // meters from the query point to the snapped point
}

// Snapper answers nearest-road queries over a graph's forward edges,
// backed by an in-memory R-tree keyed on each edge's lat/lon bounding
// box. Generalizes the teacher's pkg/routing/snap.go hand-rolled flat
// sorted-grid index: same bounding-box-per-edge insertion and 2D range
// query shape, swapped for a real spatial index rather than a
// from-scratch one.
type Snapper struct {
	tr rtree.RTree
	g  *graph.Graph
}

// NewSnapper indexes every forward edge of g by its endpoints'
// lat/lon bounding box.
func NewSnapper(g *graph.Graph) *Snapper {
	s := &Snapper{g: g}
	for u := graph.NodeIdx(0); int(u) < int(g.NumNodes); u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.FwdDst(graph.EdgeIdx(e))
			uLat, uLon := g.NodeLat[u], g.NodeLon[u]
			vLat, vLon := g.NodeLat[v], g.NodeLon[v]
			min := [2]float64{math.Min(uLon, vLon), math.Min(uLat, vLat)}
			max := [2]float64{math.Max(uLon, vLon), math.Max(uLat, vLat)}
			s.tr.Insert(min, max, edgeRef{edge: graph.EdgeIdx(e), src: u})
		}
	}
	return s
}

type edgeRef struct {
	edge graph.EdgeIdx
	src  graph.NodeIdx
}

// Snap finds the nearest road segment to (lat, lon), returning
// ErrPointTooFar if nothing lies within maxSnapDistMeters.
func (s *Snapper) Snap(lat, lon float64) (SnapResult, error) {
	// Search box: the max snap distance in degrees, generously rounded
	// up so a real 500m never falls outside it near any latitude. The
	// longitude margin is widened by 1/cos(lat), capped at 180 degrees.
	const degreeMargin = 0.01
	lonMargin := math.Min(degreeMargin/math.Abs(math.Cos(lat*math.Pi/180)), 180)
	min := [2]float64{lon - lonMargin, lat - degreeMargin}
	max := [2]float64{lon + lonMargin, lat + degreeMargin}

	bestDist := math.Inf(1)
	var best SnapResult
	found := false

	s.tr.Search(min, max, func(_, _ [2]float64, value interface{}) bool {
		ref := value.(edgeRef)
		u := ref.src
		v := s.g.FwdDst(ref.edge)

		dist, ratio := geo.PointToSegmentDist(
			lat, lon,
			s.g.NodeLat[u], s.g.NodeLon[u],
			s.g.NodeLat[v], s.g.NodeLon[v],
		)
		if dist < bestDist {
			bestDist = dist
			best = SnapResult{EdgeIdx: ref.edge, NodeU: u, NodeV: v, Ratio: ratio, Dist: dist}
			found = true
		}
		return true
	})

	if !found || bestDist > maxSnapDistMeters {
		return SnapResult{}, ErrPointTooFar
	}
	return best, nil
}
