package explorator

import (
	"context"
	"errors"
	"math"

	"github.com/azybler/pathforge/pkg/graph"
	"github.com/azybler/pathforge/pkg/routing"
)

// Result is one accepted, flattened, Pareto-relevant route found during
// a fully-explorated src->dst search, together with the alpha vector
// that produced it.
type Result struct {
	Path  *routing.Path
	Alpha []float64
}

// FullyExplorate enumerates every src->dst route that is optimal under
// some non-negative alpha combination of the query's considered metrics
// and satisfies every tolerance bound, by repeatedly triangulating the
// lower convex hull of found routes' cost vectors and resolving new
// Dijkstra runs at each cell's supporting alpha — grounded on
// original_source/routing/exploration.rs's ConvexHullExplorator::
// fully_explorate loop (explore_initial_paths, then update() until no
// new vertex is found).
func FullyExplorate(ctx context.Context, qs *routing.QueryState, g *graph.Graph, src, dst graph.NodeIdx, q *Query) ([]Result, error) {
	found := make([]Result, 0, 8)
	seen := make([]*routing.Path, 0, 8)

	// tryAdd runs Dijkstra under alpha and inserts the result if it's
	// within tolerance and not already present. baselineCost, when
	// non-nil, gates acceptance on the new path's alpha-weighted cost
	// being strictly less than the tied cost of the cell that produced
	// alpha — seeding's tryAdd calls pass nil since there's no cell to
	// compare against.
	tryAdd := func(alpha []float64, baselineCost *float64) error {
		p, err := routing.ComputeBestPath(ctx, qs, src, dst, alpha)
		if err != nil {
			if errors.Is(err, routing.ErrNoRoute) {
				return nil
			}
			return err
		}
		flat, err := routing.Flatten(p, g)
		if err != nil {
			return err
		}
		costs := flat.Costs(g)
		if !q.withinTolerance(costs) {
			return nil
		}
		if baselineCost != nil && !approxLess(dot(alpha, costs), *baselineCost) {
			return nil
		}
		for _, s := range seen {
			if s.Equal(flat) {
				return nil
			}
		}
		seen = append(seen, flat)
		found = append(found, Result{Path: flat, Alpha: append([]float64(nil), alpha...)})
		return nil
	}

	// Seed with one initial path per non-empty indicator subset of the
	// considered dims, matching explore_initial_paths's bitmask seeding.
	numSubsets := 1 << uint(len(q.Considered))
	for mask := 1; mask < numSubsets; mask++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := tryAdd(q.indicatorAlphas(mask), nil); err != nil {
			return nil, err
		}
	}

	// Iteratively triangulate the current set of found vertices and
	// probe each lower-hull cell's supporting alpha for a new route,
	// until a full pass over the triangulation adds nothing.
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(found) < len(q.Considered)+1 {
			break
		}

		verts := make([]vertex, len(found))
		lifted := make([][]float64, len(found))
		for i, r := range found {
			costs := r.Path.Costs(g)
			reduced := make([]float64, len(q.Considered))
			for j, m := range q.Considered {
				reduced[j] = costs[m]
			}
			verts[i] = vertex{full: append([]float64(nil), costs...), reduced: reduced}
			lifted[i] = lift(reduced)
		}

		cells := enumerateLowerHullCells(lifted)
		before := len(found)
		for _, cell := range cells {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			facet := make([]vertex, len(cell))
			for i, idx := range cell {
				facet[i] = verts[idx]
			}
			if !cellWithinTolerance(facet, q.Tolerances) {
				continue
			}
			alpha, err := solveCellAlpha(facet, q.Considered, g.Dim())
			if err != nil {
				continue
			}
			baseline := dot(alpha, facet[0].full)
			if err := tryAdd(alpha, &baseline); err != nil {
				return nil, err
			}
		}
		if len(found) == before {
			break
		}
	}

	return found, nil
}

// cellWithinTolerance reports whether at least one vertex of the cell
// satisfies cost[m] <= tolerances[m] for at least one finite-tolerance
// dimension m — if none does, no path reachable through this cell can
// ever respect the tolerances, so the cell isn't worth a linear solve.
func cellWithinTolerance(facet []vertex, tolerances []float64) bool {
	anyFinite := false
	for _, v := range facet {
		for m, tol := range tolerances {
			if math.IsInf(tol, 1) {
				continue
			}
			anyFinite = true
			if v.full[m] <= tol+approxEpsilon {
				return true
			}
		}
	}
	return !anyFinite
}

// enumerateLowerHullCells brute-force tests every (d+1)-size subset of
// lifted points as a candidate lower-hull facet, where d is the lifted
// space's reduced dimension. Quadratic-ish in the number of found
// vertices, which stays small (Pareto-front sizes are rarely more than
// a few dozen), so combinatorial enumeration is acceptable rather than
// a proper incremental hull algorithm.
func enumerateLowerHullCells(lifted [][]float64) [][]int {
	n := len(lifted)
	if n == 0 {
		return nil
	}
	d := len(lifted[0])
	if n < d {
		return nil
	}

	var cells [][]int
	combo := make([]int, d)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == d {
			cell := append([]int(nil), combo...)
			facetIdx := make(map[int]bool, d)
			facetPoints := make([][]float64, d)
			for i, idx := range cell {
				facetIdx[idx] = true
				facetPoints[i] = lifted[idx]
			}
			if isLowerHullFacet(facetPoints, lifted, facetIdx) {
				cells = append(cells, cell)
			}
			return
		}
		for i := start; i < n; i++ {
			combo[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return cells
}
