package explorator

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// liftEpsilon bounds the numerical slack used when testing whether a
// point lies on or above a candidate facet's hyperplane.
const liftEpsilon = 1e-7

// vertex is one accepted path's position in the search, keyed by its
// cost restricted to the query's considered dimensions (reduced) plus
// its full per-metric cost vector (full) needed to re-solve alpha.
type vertex struct {
	full    []float64
	reduced []float64
}

// lift appends the paraboloid height sum(coord_i^2) to reduced,
// projecting the point onto the lower-envelope-finding lifted space.
func lift(reduced []float64) []float64 {
	h := 0.0
	for _, c := range reduced {
		h += c * c
	}
	out := make([]float64, len(reduced)+1)
	copy(out, reduced)
	out[len(reduced)] = h
	return out
}

// facetNormal computes the (unnormalized) normal of the hyperplane
// spanned by len(points)==D affinely independent points in R^D, via
// cofactor expansion of the (D-1)xD matrix of successive differences —
// a direct generalization of the 3D cross product to D dimensions.
// Returns ok=false if the points are affinely dependent (degenerate
// facet, det of every minor near zero).
func facetNormal(points [][]float64) (normal []float64, ok bool) {
	d := len(points)
	if d == 0 {
		return nil, false
	}
	dim := len(points[0])
	if dim != d {
		return nil, false
	}

	diffs := mat.NewDense(d-1, d, nil)
	for i := 1; i < d; i++ {
		for k := 0; k < d; k++ {
			diffs.Set(i-1, k, points[i][k]-points[0][k])
		}
	}

	normal = make([]float64, d)
	anyNonzero := false
	sign := 1.0
	for k := 0; k < d; k++ {
		minor := minorDropColumn(diffs, k)
		det := mat.Det(minor)
		normal[k] = sign * det
		if math.Abs(det) > liftEpsilon {
			anyNonzero = true
		}
		sign = -sign
	}
	if !anyNonzero {
		return nil, false
	}
	return normal, true
}

// minorDropColumn returns a copy of m with column col removed.
func minorDropColumn(m *mat.Dense, col int) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c-1, nil)
	for i := 0; i < r; i++ {
		dstCol := 0
		for j := 0; j < c; j++ {
			if j == col {
				continue
			}
			out.Set(i, dstCol, m.At(i, j))
			dstCol++
		}
	}
	return out
}

// isLowerHullFacet tests whether the hyperplane through the facet's
// lifted points, oriented with a non-negative height component, has
// every other lifted point on or above it — i.e. the facet bounds the
// lower envelope of the point set, the region corresponding to
// Pareto-minimal cost combinations.
func isLowerHullFacet(facetLifted [][]float64, allLifted [][]float64, facetIdx map[int]bool) bool {
	normal, ok := facetNormal(facetLifted)
	if !ok {
		return false
	}
	d := len(normal)
	heightIdx := d - 1
	if normal[heightIdx] < 0 {
		for i := range normal {
			normal[i] = -normal[i]
		}
	}
	if normal[heightIdx] < liftEpsilon {
		// Near-vertical facet in the height axis: it doesn't bound the
		// lower envelope in a numerically meaningful way.
		return false
	}

	offset := dot(normal, facetLifted[0])
	for i, p := range allLifted {
		if facetIdx[i] {
			continue
		}
		if dot(normal, p)-offset < -liftEpsilon {
			return false
		}
	}
	return true
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
