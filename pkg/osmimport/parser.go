package osmimport

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/geo"
	"github.com/azybler/pathforge/pkg/graph"
)

// BBox restricts Parse to edges whose endpoints both fall inside it.
// The zero value disables filtering, mirroring the teacher's
// pkg/osm.BBox.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b BBox) isZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

func (b BBox) contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLng && lon <= b.MaxLng
}

// Options configures Parse beyond what ParsingConfig already carries.
type Options struct {
	BBox BBox
}

type wayInfo struct {
	nodeIDs  []osm.NodeID
	forward  bool
	backward bool
	speedKMH float64
	lanes    int
}

// Parse reads an OSM PBF extract and resolves it straight into a
// graph.Graph via graph.Builder, applying cfg's vehicle-category
// accessibility rules and edges.metrics column layout. The reader is
// scanned twice (ways, then the nodes they reference), so it must
// support seeking back to the start.
func Parse(ctx context.Context, rs io.ReadSeeker, cfg *config.ParsingConfig, opts ...Options) (*graph.Graph, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.isZero()

	specs := cfg.MetricSpecs()
	plan, err := buildColumnPlan(cfg)
	if err != nil {
		return nil, err
	}

	ways, referenced, err := scanWays(ctx, rs, cfg.Vehicle)
	if err != nil {
		return nil, err
	}
	log.Printf("osmimport: pass 1 complete: %d ways, %d referenced nodes", len(ways), len(referenced))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("osmimport: seek for pass 2: %w", err)
	}
	nodeLat, nodeLon, err := scanNodes(ctx, rs, referenced)
	if err != nil {
		return nil, err
	}
	log.Printf("osmimport: pass 2 complete: %d node coordinates", len(nodeLat))

	b := graph.NewBuilder(specs)
	pushed := make(map[int64]bool, len(nodeLat))
	var skipped, bboxFiltered int

	for _, w := range ways {
		for i := 0; i < len(w.nodeIDs)-1; i++ {
			fromID, toID := int64(w.nodeIDs[i]), int64(w.nodeIDs[i+1])
			fromLat, fromOk := nodeLat[fromID]
			fromLon := nodeLon[fromID]
			toLat, toOk := nodeLat[toID]
			toLon := nodeLon[toID]
			if !fromOk || !toOk {
				skipped++
				continue
			}
			if useBBox && (!opt.BBox.contains(fromLat, fromLon) || !opt.BBox.contains(toLat, toLon)) {
				bboxFiltered++
				continue
			}

			for _, id := range [2]int64{fromID, toID} {
				if !pushed[id] {
					lat, lon := nodeLat[id], nodeLon[id]
					if err := b.PushNode(id, lat, lon); err != nil {
						return nil, fmt.Errorf("osmimport: %w", err)
					}
					pushed[id] = true
				}
			}

			distM := geo.Haversine(fromLat, fromLon, toLat, toLon)
			if distM <= 0 {
				distM = 0.1 // avoid a zero-distance edge tripping the builder's positivity check
			}

			if w.forward {
				row := plan.row(distM, w.speedKMH, w.lanes)
				if err := b.PushEdge(graph.ProtoEdge{FromID: fromID, ToID: toID, Metrics: row, SpeedKMH: w.speedKMH}); err != nil {
					return nil, fmt.Errorf("osmimport: %w", err)
				}
			}
			if w.backward {
				row := plan.row(distM, w.speedKMH, w.lanes)
				if err := b.PushEdge(graph.ProtoEdge{FromID: toID, ToID: fromID, Metrics: row, SpeedKMH: w.speedKMH}); err != nil {
					return nil, fmt.Errorf("osmimport: %w", err)
				}
			}
		}
	}

	if skipped > 0 {
		log.Printf("osmimport: skipped %d segments missing node coordinates", skipped)
	}
	if bboxFiltered > 0 {
		log.Printf("osmimport: filtered %d segments outside bounding box", bboxFiltered)
	}

	return b.Finalize()
}

func scanWays(ctx context.Context, rs io.ReadSeeker, vehicle config.VehicleConfig) ([]wayInfo, map[osm.NodeID]struct{}, error) {
	referenced := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	defer scanner.Close()

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		highway := w.Tags.Find("highway")
		st := StreetTypeFromTag(highway)
		if !st.IsAccessible(vehicle.Category, vehicle.AreDriversPicky) {
			continue
		}
		if w.Tags.Find("area") == "yes" {
			continue
		}
		access := w.Tags.Find("access")
		if access == "no" || access == "private" {
			continue
		}

		fwd, bwd := directionFlags(highway, w.Tags.Find("junction"), w.Tags.Find("oneway"))
		if !fwd && !bwd {
			continue
		}

		speed, ok := ParseMaxspeed(w.Tags.Find("maxspeed"))
		if !ok {
			speed = st.DefaultMaxspeedKMH()
		}
		lanes, ok := ParseLanes(w.Tags.Find("lanes"))
		if !ok {
			lanes = st.DefaultLanes()
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}

		ways = append(ways, wayInfo{
			nodeIDs:  nodeIDs,
			forward:  fwd,
			backward: bwd,
			speedKMH: speed,
			lanes:    lanes,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("osmimport: pass 1 (ways): %w", err)
	}
	return ways, referenced, nil
}

func scanNodes(ctx context.Context, rs io.ReadSeeker, referenced map[osm.NodeID]struct{}) (lat, lon map[int64]float64, err error) {
	lat = make(map[int64]float64, len(referenced))
	lon = make(map[int64]float64, len(referenced))

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	defer scanner.Close()

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		lat[int64(n.ID)] = n.Lat
		lon[int64(n.ID)] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("osmimport: pass 2 (nodes): %w", err)
	}
	return lat, lon, nil
}

// columnPlan maps each metric column of cfg.Edges.Metrics onto the
// per-edge quantity osmimport can derive (distance, speed, lane count),
// in the declared column order, so row() can build a ProtoEdge.Metrics
// slice without re-walking the config on every edge.
type columnPlan struct {
	kinds []columnKind
}

type columnKind int

const (
	colMeters columnKind = iota
	colKMPH
	colSeconds
	colLaneCount
	colF64
)

func buildColumnPlan(cfg *config.ParsingConfig) (columnPlan, error) {
	plan := columnPlan{}
	for _, m := range cfg.Edges.Metrics {
		if !m.Category.IsMetricColumn() {
			continue
		}
		switch m.Category {
		case config.CategoryMeters:
			plan.kinds = append(plan.kinds, colMeters)
		case config.CategoryKMPH:
			plan.kinds = append(plan.kinds, colKMPH)
		case config.CategorySeconds:
			plan.kinds = append(plan.kinds, colSeconds)
		case config.CategoryLaneCount:
			plan.kinds = append(plan.kinds, colLaneCount)
		case config.CategoryF64:
			plan.kinds = append(plan.kinds, colF64)
		default:
			return plan, fmt.Errorf("%s: %w", m.ResolvedID(), ErrUnsupportedMetricCategory)
		}
	}
	return plan, nil
}

func (p columnPlan) row(distM, speedKMH float64, lanes int) []float64 {
	row := make([]float64, len(p.kinds))
	for i, k := range p.kinds {
		switch k {
		case colMeters:
			row[i] = distM
		case colKMPH:
			row[i] = speedKMH
		case colSeconds:
			row[i] = math.NaN() // calc-ruled by graph.Builder from distance + SpeedKMH
		case colLaneCount:
			row[i] = float64(lanes)
		case colF64:
			row[i] = 0
		}
	}
	return row
}
