package explorator

import "math"

// approxEpsilon mirrors pkg/routing's comparison tolerance, scaled by the
// magnitude of the values being compared.
const approxEpsilon = 1e-9

// approxLess reports whether a is strictly less than b once floating
// point noise within approxEpsilon*max(|a|,|b|,1.0) is ignored.
func approxLess(a, b float64) bool {
	scale := math.Max(math.Max(math.Abs(a), math.Abs(b)), 1.0)
	return b-a > approxEpsilon*scale
}
