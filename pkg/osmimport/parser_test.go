package osmimport

import (
	"math"
	"testing"

	"github.com/azybler/pathforge/pkg/config"
)

func TestBuildColumnPlanRow(t *testing.T) {
	cfg := &config.ParsingConfig{
		Edges: config.EdgesConfig{
			Metrics: []config.MetricEntry{
				{Category: config.CategoryMeters},
				{Category: config.CategoryLaneCount},
				{Category: config.CategorySeconds, IsProvided: boolPtr(false)},
			},
		},
	}

	plan, err := buildColumnPlan(cfg)
	if err != nil {
		t.Fatalf("buildColumnPlan: %v", err)
	}

	row := plan.row(1500, 50, 3)
	if row[0] != 1500 {
		t.Errorf("meters column = %v, want 1500", row[0])
	}
	if row[1] != 3 {
		t.Errorf("lane_count column = %v, want 3", row[1])
	}
	if !math.IsNaN(row[2]) {
		t.Errorf("seconds column = %v, want NaN (calc-ruled downstream)", row[2])
	}
}

func TestBuildColumnPlanSkipsNonMetricCategory(t *testing.T) {
	cfg := &config.ParsingConfig{
		Edges: config.EdgesConfig{
			Metrics: []config.MetricEntry{
				{Category: config.CategorySrcID},
			},
		},
	}
	// src_id is not a metric column (IsMetricColumn()==false), so the
	// plan must simply skip it rather than erroring.
	plan, err := buildColumnPlan(cfg)
	if err != nil {
		t.Fatalf("buildColumnPlan: %v", err)
	}
	if len(plan.kinds) != 0 {
		t.Errorf("expected no derivable columns, got %d", len(plan.kinds))
	}
}

func boolPtr(b bool) *bool { return &b }
