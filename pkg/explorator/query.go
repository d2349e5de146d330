package explorator

import (
	"math"

	"github.com/azybler/pathforge/pkg/graph"
)

// Query configures one explorator run: which metrics participate in the
// Pareto search (Considered), and a per-metric upper cost bound
// (Tolerances) a path must stay under to be accepted. A tolerance of
// +Inf leaves that dimension unbounded — resolved per this repo's Open
// Question decision as "no filter applied" on that dimension, rather
// than rejecting every path whenever its paired alpha is positive.
type Query struct {
	Dim        int
	Considered []int // indices into [0, Dim) that the hull search varies
	Tolerances []float64
}

// NewQuery validates and constructs a Query over dim metrics.
func NewQuery(dim int, considered []int, tolerances []float64) (*Query, error) {
	if len(tolerances) != dim {
		return nil, ErrDimMismatch
	}
	if len(considered) == 0 {
		return nil, ErrNoConsideredDims
	}
	return &Query{Dim: dim, Considered: append([]int(nil), considered...), Tolerances: append([]float64(nil), tolerances...)}, nil
}

// withinTolerance reports whether costs (length Dim) satisfies every
// tolerance bound — every dimension with a finite tolerance is checked,
// not just the considered ones, since a dimension can be bounded
// without being part of the hull search.
func (q *Query) withinTolerance(costs []float64) bool {
	for m := 0; m < q.Dim; m++ {
		if math.IsInf(q.Tolerances[m], 1) {
			continue
		}
		if costs[m] > q.Tolerances[m]+1e-9 {
			return false
		}
	}
	return true
}

// indicatorAlphas returns the alpha vector for the non-empty subset of
// Considered dims encoded by mask (bit i set => Considered[i] included),
// with weight 1 on each included considered dim and 0 elsewhere —
// seeding alphas, grounded on original_source/routing/exploration.rs's
// explore_initial_paths bitmask-subset seeding.
func (q *Query) indicatorAlphas(mask int) []float64 {
	alphas := make([]float64, q.Dim)
	for i, m := range q.Considered {
		if mask&(1<<uint(i)) != 0 {
			alphas[m] = 1
		}
	}
	return alphas
}

// TolerancesFromScales derives per-metric tolerances from tolerated
// scale factors applied to each metric's best single-metric path cost:
// tolerance[m] = scales[m] * bestSingle[m], or +Inf if scales[m] is
// +Inf (an unbounded dimension).
func TolerancesFromScales(g *graph.Graph, scales []float64, bestSingle []float64) []float64 {
	out := make([]float64, g.Dim())
	for m := range out {
		if math.IsInf(scales[m], 1) {
			out[m] = math.Inf(1)
			continue
		}
		out[m] = scales[m] * bestSingle[m]
	}
	return out
}
