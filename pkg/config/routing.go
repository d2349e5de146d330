package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// RoutingMetricEntry is one routing-config metrics-list entry: a
// metric id plus its alpha weight and tolerated scale.
type RoutingMetricEntry struct {
	ID             string   `yaml:"id"`
	Alpha          *float64 `yaml:"alpha,omitempty"`
	ToleratedScale *float64 `yaml:"tolerated-scale,omitempty"`
}

type routingContent struct {
	RoutePairsFile string               `yaml:"route-pairs-file,omitempty"`
	IsCHDijkstra   bool                 `yaml:"is-ch-dijkstra"`
	Metrics        []RoutingMetricEntry `yaml:"metrics"`
}

type routingYAML struct {
	Routing routingContent `yaml:"routing"`
}

// RoutingConfig is the resolved routing-config surface: per-dimension
// alpha and tolerated-scale vectors sized to the parsing config's
// metric dimension, unmentioned dimensions defaulting to alpha=0 and
// tolerated-scale=+Inf (spec §6's "Routing-config surface").
type RoutingConfig struct {
	RoutePairsFile  string
	IsCHDijkstra    bool
	Alphas          []float64
	ToleratedScales []float64
}

// LoadRoutingConfig reads a routing config from path, resolving each
// entry's metric id against parsing's declared columns.
func LoadRoutingConfig(path string, parsing *ParsingConfig) (*RoutingConfig, error) {
	if err := checkYAMLExt(path); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load routing config: %w", err)
	}
	var doc routingYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("load routing config: %w", err)
	}

	dim := len(parsing.MetricSpecs())
	alphas := make([]float64, dim)
	scales := make([]float64, dim)
	for i := range scales {
		scales[i] = math.Inf(1)
	}

	for _, entry := range doc.Routing.Metrics {
		idx, err := parsing.MetricIndexOf(entry.ID)
		if err != nil {
			return nil, err
		}
		if entry.Alpha != nil {
			alphas[idx] = *entry.Alpha
		}
		if entry.ToleratedScale != nil {
			scales[idx] = *entry.ToleratedScale
		}
	}

	return &RoutingConfig{
		RoutePairsFile:  doc.Routing.RoutePairsFile,
		IsCHDijkstra:    doc.Routing.IsCHDijkstra,
		Alphas:          alphas,
		ToleratedScales: scales,
	}, nil
}
