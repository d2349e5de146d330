package config

import (
	"os"
	"path/filepath"
	"testing"
)

const tinyParsingYAML = `
parsing:
  map-file: map.osm.pbf
  vehicle:
    category: car
    are-drivers-picky: false
  edges:
    metrics:
      - category: meters
        id: distance
      - category: seconds
        id: duration
        is-provided: false
      - category: lane_count
        id: lanes
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadParsingConfig(t *testing.T) {
	path := writeTemp(t, "parsing.yaml", tinyParsingYAML)
	cfg, err := LoadParsingConfig(path)
	if err != nil {
		t.Fatalf("LoadParsingConfig: %v", err)
	}
	if cfg.Vehicle.Category != VehicleCar {
		t.Fatalf("expected car, got %v", cfg.Vehicle.Category)
	}
	specs := cfg.MetricSpecs()
	if len(specs) != 3 {
		t.Fatalf("expected 3 metric columns, got %d", len(specs))
	}
	idx, err := cfg.MetricIndexOf("duration")
	if err != nil || idx != 1 {
		t.Fatalf("MetricIndexOf(duration) = %d, %v", idx, err)
	}
}

func TestLoadParsingConfigRejectsUnsupportedExt(t *testing.T) {
	path := writeTemp(t, "parsing.txt", tinyParsingYAML)
	if _, err := LoadParsingConfig(path); err == nil {
		t.Fatal("expected ErrUnsupportedExt")
	}
}

func TestLoadParsingConfigRejectsDuplicateID(t *testing.T) {
	dup := `
parsing:
  map-file: map.osm.pbf
  vehicle:
    category: car
    are-drivers-picky: false
  edges:
    metrics:
      - category: meters
        id: distance
      - category: f64
        id: distance
`
	path := writeTemp(t, "parsing.yaml", dup)
	if _, err := LoadParsingConfig(path); err == nil {
		t.Fatal("expected ErrDuplicateMetricID")
	}
}

func TestLoadParsingConfigRejectsMissingDistanceForCalcRule(t *testing.T) {
	noDist := `
parsing:
  map-file: map.osm.pbf
  vehicle:
    category: car
    are-drivers-picky: false
  edges:
    metrics:
      - category: seconds
        id: duration
        is-provided: false
`
	path := writeTemp(t, "parsing.yaml", noDist)
	if _, err := LoadParsingConfig(path); err == nil {
		t.Fatal("expected ErrMissingDistanceColumn")
	}
}
