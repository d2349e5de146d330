package explorator

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveCellAlpha finds the alpha vector (length graphDim) under which
// every vertex in facet is tied for minimal linear cost: for each pair
// (facet[0], facet[i]) the cost difference must vanish, and every
// non-considered dimension is pinned to zero. That is graphDim
// equations in graphDim unknowns (len(facet)-1 difference rows plus
// graphDim-len(considered) zero-pin rows; len(facet) == len(considered)+1
// by construction, so the counts always add up to graphDim).
//
// If the assembled matrix is singular (coincident or redundant facet
// vertices), one difference row is swapped for a normalization row
// (sum of considered alphas == 1) and the solve is retried once before
// giving up with ErrSingularSystem.
func solveCellAlpha(facet []vertex, considered []int, graphDim int) ([]float64, error) {
	a, b, err := assembleCellSystem(facet, considered, graphDim, false)
	if err == nil {
		if x, ok := trySolve(a, b); ok {
			return acceptAlpha(x)
		}
	}
	a, b, err = assembleCellSystem(facet, considered, graphDim, true)
	if err != nil {
		return nil, err
	}
	x, ok := trySolve(a, b)
	if !ok {
		return nil, ErrSingularSystem
	}
	return acceptAlpha(x)
}

func assembleCellSystem(facet []vertex, considered []int, graphDim int, withNormRow bool) (*mat.Dense, *mat.VecDense, error) {
	if len(facet) == 0 {
		return nil, nil, ErrSingularSystem
	}
	a := mat.NewDense(graphDim, graphDim, nil)
	b := mat.NewVecDense(graphDim, nil)

	row := 0
	diffRows := len(facet) - 1
	if withNormRow && diffRows > 0 {
		diffRows--
	}
	for i := 1; i <= diffRows; i++ {
		// Coefficients are restricted to considered columns: alpha is
		// pinned to 0 outside them by the rows below, so a coefficient
		// on a non-considered column (from the full cost difference)
		// would over-constrain the system and force considered alphas
		// to 0 too whenever that dimension's costs happen to differ.
		for j, m := range considered {
			a.Set(row, m, facet[i].reduced[j]-facet[0].reduced[j])
		}
		b.SetVec(row, 0)
		row++
	}
	if withNormRow {
		for _, m := range considered {
			a.Set(row, m, 1)
		}
		b.SetVec(row, 1)
		row++
	}

	considerSet := make(map[int]bool, len(considered))
	for _, m := range considered {
		considerSet[m] = true
	}
	for k := 0; k < graphDim && row < graphDim; k++ {
		if considerSet[k] {
			continue
		}
		a.Set(row, k, 1)
		b.SetVec(row, 0)
		row++
	}
	if row != graphDim {
		return nil, nil, ErrSingularSystem
	}
	return a, b, nil
}

func trySolve(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, bool) {
	var lu mat.LU
	lu.Factorize(a)
	if c := lu.Cond(); math.IsInf(c, 1) || c > 1e14 {
		return nil, false
	}
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		return nil, false
	}
	return &x, true
}

// negAlphaTolerance absorbs LU solve noise around zero without masking
// a genuinely negative component — spec §4.4 step d: a cell whose
// solved alphas contain any negative component is skipped, not clamped.
const negAlphaTolerance = 1e-9

// acceptAlpha normalizes a solved alpha vector to sum to 1, rejecting
// it with ErrNegativeAlpha if any component is negative beyond solve
// noise, or with ErrNegativeAlpha if the components sum to zero or
// less. Negative components within negAlphaTolerance of zero are
// snapped to exactly 0 before normalizing; small positive components
// are kept as they are.
func acceptAlpha(x *mat.VecDense) ([]float64, error) {
	n := x.Len()
	out := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		v := x.AtVec(i)
		if v < -negAlphaTolerance {
			return nil, ErrNegativeAlpha
		}
		if v < 0 {
			v = 0
		}
		out[i] = v
		sum += v
	}
	if sum <= 0 {
		return nil, ErrNegativeAlpha
	}
	for i := range out {
		out[i] /= sum
	}
	return out, nil
}
