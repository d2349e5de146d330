// Package balance implements the iterative traffic-balancing loop:
// it repeatedly runs the convex-hull explorator over a fixed demand
// set, redistributes the resulting path counts into the graph's
// workload metric column, and re-routes against the updated load.
package balance

import "errors"

var (
	// ErrNoWorkloadMetric is returned when the configured workload
	// metric id is not a column of the graph being balanced.
	ErrNoWorkloadMetric = errors.New("balance: workload metric id not found in graph")

	// ErrMalformedRoutePair is returned by ReadRoutePairs for a
	// demand-file line that isn't "src_id dst_id count".
	ErrMalformedRoutePair = errors.New("balance: malformed route-pair record")
)
