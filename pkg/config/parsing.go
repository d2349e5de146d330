package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/azybler/pathforge/pkg/graph"
	"gopkg.in/yaml.v3"
)

// VehicleCategory selects which highway-accessibility/oneway table
// pkg/osmimport applies while turning OSM ways into proto-edges.
type VehicleCategory string

const (
	VehicleCar        VehicleCategory = "car"
	VehicleBicycle    VehicleCategory = "bicycle"
	VehiclePedestrian VehicleCategory = "pedestrian"
)

// MetricCategory names one proto-edge column's semantic, read straight
// off an OSM way or FMI column before the Builder resolves it into a
// graph.MetricSpec.
type MetricCategory string

const (
	CategoryMeters          MetricCategory = "meters"
	CategoryKMPH            MetricCategory = "kmph"
	CategorySeconds         MetricCategory = "seconds"
	CategoryLaneCount       MetricCategory = "lane_count"
	CategoryF64             MetricCategory = "f64"
	CategorySrcID           MetricCategory = "src_id"
	CategoryDstID           MetricCategory = "dst_id"
	CategoryShortcutEdgeIdx MetricCategory = "shortcut_edge_idx"
	CategoryIgnore          MetricCategory = "ignore"
)

// IsMetricColumn reports whether a category contributes a column to
// the Builder's metric matrix, as opposed to being consumed directly
// (src_id/dst_id/shortcut_edge_idx) or dropped (ignore).
func (c MetricCategory) IsMetricColumn() bool {
	switch c {
	case CategoryMeters, CategoryKMPH, CategorySeconds, CategoryLaneCount, CategoryF64:
		return true
	default:
		return false
	}
}

// Unit maps a metric category onto the graph package's invariant-
// carrying MetricUnit.
func (c MetricCategory) Unit() graph.MetricUnit {
	switch c {
	case CategoryMeters:
		return graph.UnitDistance
	case CategorySeconds:
		return graph.UnitDuration
	case CategoryLaneCount:
		return graph.UnitLaneCount
	default:
		return graph.UnitRaw
	}
}

// MetricEntry is one ordered entry of the parsing config's
// edges.metrics list.
type MetricEntry struct {
	Category   MetricCategory `yaml:"category"`
	ID         string         `yaml:"id,omitempty"`
	IsProvided *bool          `yaml:"is-provided,omitempty"`
	CalcRules  []string       `yaml:"calc-rules,omitempty"`
}

// ResolvedID returns the entry's effective metric id: the declared id,
// or the category name if none was given.
func (e MetricEntry) ResolvedID() string {
	if e.ID != "" {
		return e.ID
	}
	return string(e.Category)
}

// Provided reports whether the column is read directly from the
// source file (true, the default) or must be calc-ruled from other
// columns (false).
func (e MetricEntry) Provided() bool {
	if e.IsProvided == nil {
		return true
	}
	return *e.IsProvided
}

// VehicleConfig is the parsing config's vehicle section.
type VehicleConfig struct {
	Category        VehicleCategory `yaml:"category"`
	AreDriversPicky bool            `yaml:"are-drivers-picky"`
}

// EdgesConfig is the parsing config's edges section.
type EdgesConfig struct {
	Metrics []MetricEntry `yaml:"metrics"`
}

// ParsingConfig is the top-level parsing-config surface: map_file,
// vehicle, edges.metrics, matching spec §6 field-for-field.
type ParsingConfig struct {
	MapFile string        `yaml:"map-file"`
	Vehicle VehicleConfig `yaml:"vehicle"`
	Edges   EdgesConfig   `yaml:"edges"`
}

type parsingYAML struct {
	Parsing ParsingConfig `yaml:"parsing"`
}

// LoadParsingConfig reads and validates a parsing config from path.
func LoadParsingConfig(path string) (*ParsingConfig, error) {
	if err := checkYAMLExt(path); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load parsing config: %w", err)
	}
	var doc parsingYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("load parsing config: %w", err)
	}
	if err := doc.Parsing.Validate(); err != nil {
		return nil, err
	}
	return &doc.Parsing, nil
}

// Validate checks edges.metrics for duplicate non-ignored ids and that
// any is-provided=false duration column has a distance column to
// calc-rule from.
func (c *ParsingConfig) Validate() error {
	seen := make(map[string]bool, len(c.Edges.Metrics))
	hasDistance := false
	for _, m := range c.Edges.Metrics {
		if !m.Category.IsMetricColumn() {
			continue
		}
		id := m.ResolvedID()
		if seen[id] {
			return fmt.Errorf("metric %q: %w", id, ErrDuplicateMetricID)
		}
		seen[id] = true
		if m.Category == CategoryMeters {
			hasDistance = true
		}
	}
	for _, m := range c.Edges.Metrics {
		if m.Category == CategorySeconds && !m.Provided() && !hasDistance {
			return fmt.Errorf("metric %q: %w", m.ResolvedID(), ErrMissingDistanceColumn)
		}
	}
	return nil
}

// MetricSpecs builds the ordered graph.MetricSpec list the Builder
// should be constructed with.
func (c *ParsingConfig) MetricSpecs() []graph.MetricSpec {
	specs := make([]graph.MetricSpec, 0, len(c.Edges.Metrics))
	for _, m := range c.Edges.Metrics {
		if !m.Category.IsMetricColumn() {
			continue
		}
		specs = append(specs, graph.MetricSpec{Name: m.ResolvedID(), Unit: m.Category.Unit()})
	}
	return specs
}

// MetricIndexOf returns the column index of a declared metric id, or
// ErrUnknownMetricID.
func (c *ParsingConfig) MetricIndexOf(id string) (int, error) {
	idx := 0
	for _, m := range c.Edges.Metrics {
		if !m.Category.IsMetricColumn() {
			continue
		}
		if m.ResolvedID() == id {
			return idx, nil
		}
		idx++
	}
	return -1, fmt.Errorf("%s: %w", id, ErrUnknownMetricID)
}

func checkYAMLExt(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext != "yaml" && ext != "yml" {
		return fmt.Errorf("%s: %w", path, ErrUnsupportedExt)
	}
	return nil
}
