package explorator

import (
	"math"
	"testing"
)

func TestFacetNormalOrthogonalToSpan(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 2}}
	normal, ok := facetNormal(points)
	if !ok {
		t.Fatal("expected a non-degenerate normal")
	}
	for i := 1; i < len(points); i++ {
		diff := []float64{points[i][0] - points[0][0], points[i][1] - points[0][1]}
		if math.Abs(dot(normal, diff)) > 1e-9 {
			t.Fatalf("normal %v not orthogonal to diff %v", normal, diff)
		}
	}
}

func TestFacetNormalDegenerateReturnsFalse(t *testing.T) {
	// Three collinear points in 3D: affinely dependent, no unique plane.
	points := [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}
	if _, ok := facetNormal(points); ok {
		t.Fatal("expected degenerate collinear points to report ok=false")
	}
}

func TestIsLowerHullFacetAcceptsBottomOfBowl(t *testing.T) {
	// A 1-D "bowl": reduced points at x=-1,0,1 lifted to (x, x^2). The
	// facet through the two outer points sits above the middle point's
	// lift, so it should NOT be a lower-hull facet; the two facets
	// through consecutive pairs should be.
	lifted := [][]float64{lift([]float64{-1}), lift([]float64{0}), lift([]float64{1})}

	outer := [][]float64{lifted[0], lifted[2]}
	outerIdx := map[int]bool{0: true, 2: true}
	if isLowerHullFacet(outer, lifted, outerIdx) {
		t.Fatal("expected the outer-pair facet to lie above the middle point, not bound the lower hull")
	}

	left := [][]float64{lifted[0], lifted[1]}
	leftIdx := map[int]bool{0: true, 1: true}
	if !isLowerHullFacet(left, lifted, leftIdx) {
		t.Fatal("expected the left-pair facet to bound the lower hull")
	}
}
