package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBalancingConfig(t *testing.T) {
	content := `
balancing:
  results-dir: ` + filepath.Join(t.TempDir(), "results") + `
  num-iterations: 3
  workload-metric-id: workload
  route-count-idx: 0
  route-pairs-file: demand.txt
  seed: 42
`
	path := writeTemp(t, "balancing.yaml", content)
	cfg, err := LoadBalancingConfig(path)
	if err != nil {
		t.Fatalf("LoadBalancingConfig: %v", err)
	}
	if cfg.NumIterations != 3 || cfg.Seed != 42 || cfg.NumWorkers != defaultNumWorkers {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadBalancingConfigRejectsExistingResultsDir(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "results")
	if err := os.Mkdir(existing, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	content := `
balancing:
  results-dir: ` + existing + `
  num-iterations: 1
  workload-metric-id: workload
  route-count-idx: 0
  route-pairs-file: demand.txt
  seed: 1
`
	path := writeTemp(t, "balancing.yaml", content)
	if _, err := LoadBalancingConfig(path); err == nil {
		t.Fatal("expected ErrResultsDirExists")
	}
}
