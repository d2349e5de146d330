package balance

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// writeIterationStats writes spec §4.5 step 5's per-iteration report
// to results_dir/<i>/stats/summary.txt.
func writeIterationStats(resultsDir string, stats IterationStats) error {
	dir := filepath.Join(resultsDir, strconv.Itoa(stats.Iteration), "stats")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write iteration stats: %w", err)
	}

	body := fmt.Sprintf(
		"iteration %d\nroute_pairs_served %d\nroute_pairs_skipped %d\ntotal_workload %d\n",
		stats.Iteration, stats.RoutePairsServed, stats.RoutePairsSkipped, stats.TotalWorkload,
	)
	path := filepath.Join(dir, "summary.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write iteration stats: %w", err)
	}
	return nil
}
