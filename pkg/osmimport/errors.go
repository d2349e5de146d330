// Package osmimport turns an OSM PBF extract into a graph.Graph,
// generalizing the teacher's car-only pkg/osm scanner into the
// multi-vehicle-category (car/bicycle/pedestrian) importer
// original_source/src/network/defaults.rs's StreetType table implies.
package osmimport

import "errors"

// ErrUnsupportedMetricCategory is returned when a parsing config names
// a metric-column category this importer has no OSM-derived value for.
// Non-metric-column categories (src_id/dst_id/shortcut_edge_idx/ignore)
// are skipped, not rejected.
var ErrUnsupportedMetricCategory = errors.New("osmimport: metric category not derivable from OSM tags")
