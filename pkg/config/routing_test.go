package config

import (
	"math"
	"testing"
)

func TestLoadRoutingConfig(t *testing.T) {
	parsingPath := writeTemp(t, "parsing.yaml", tinyParsingYAML)
	parsing, err := LoadParsingConfig(parsingPath)
	if err != nil {
		t.Fatalf("LoadParsingConfig: %v", err)
	}

	routingYAMLContent := `
routing:
  is-ch-dijkstra: true
  metrics:
    - id: distance
      alpha: 0.338
      tolerated-scale: 1.2
    - id: duration
      alpha: 0.662
`
	path := writeTemp(t, "routing.yaml", routingYAMLContent)
	cfg, err := LoadRoutingConfig(path, parsing)
	if err != nil {
		t.Fatalf("LoadRoutingConfig: %v", err)
	}
	if !cfg.IsCHDijkstra {
		t.Fatal("expected is-ch-dijkstra true")
	}
	if cfg.Alphas[0] != 0.338 || cfg.Alphas[1] != 0.662 {
		t.Fatalf("unexpected alphas: %v", cfg.Alphas)
	}
	if cfg.Alphas[2] != 0 {
		t.Fatalf("expected unmentioned dim alpha=0, got %v", cfg.Alphas[2])
	}
	if cfg.ToleratedScales[0] != 1.2 {
		t.Fatalf("unexpected tolerated-scale: %v", cfg.ToleratedScales[0])
	}
	if !math.IsInf(cfg.ToleratedScales[1], 1) {
		t.Fatalf("expected unmentioned dim tolerated-scale=+Inf, got %v", cfg.ToleratedScales[1])
	}
}

func TestLoadRoutingConfigRejectsUnknownMetric(t *testing.T) {
	parsingPath := writeTemp(t, "parsing.yaml", tinyParsingYAML)
	parsing, err := LoadParsingConfig(parsingPath)
	if err != nil {
		t.Fatalf("LoadParsingConfig: %v", err)
	}

	bad := `
routing:
  is-ch-dijkstra: false
  metrics:
    - id: not-a-real-metric
      alpha: 1
`
	path := writeTemp(t, "routing.yaml", bad)
	if _, err := LoadRoutingConfig(path, parsing); err == nil {
		t.Fatal("expected ErrUnknownMetricID")
	}
}
