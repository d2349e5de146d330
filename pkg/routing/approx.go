package routing

import "math"

// approxEpsilon is the relative tolerance used to treat two path/edge
// costs as equal despite floating-point accumulation error.
const approxEpsilon = 1e-9

// approxCmp returns -1, 0 or 1 comparing a and b, treating values within
// approxEpsilon * max(|a|, |b|, 1.0) as equal. Ties beyond that are
// broken by the caller (typically node index, then search direction) to
// keep priority-queue ordering a strict total order.
func approxCmp(a, b float64) int {
	scale := math.Max(math.Max(math.Abs(a), math.Abs(b)), 1.0)
	if math.Abs(a-b) <= approxEpsilon*scale {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

// approxLessNode totally orders (dist, node) pairs: approx-equal
// distances are broken by node index so the heap has a deterministic
// pop order independent of insertion order.
func approxLessNode(distA float64, nodeA uint32, distB float64, nodeB uint32) bool {
	switch approxCmp(distA, distB) {
	case -1:
		return true
	case 1:
		return false
	default:
		return nodeA < nodeB
	}
}
