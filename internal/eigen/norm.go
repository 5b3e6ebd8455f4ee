// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file contains the infinity-norm pivot helpers shared by all iterators.
package eigen

import (
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/eigencalc/internal/errors"
)

// argmaxAbs returns the index of the entry of v with the largest absolute
// value. Ties between equal-modulus entries resolve to the lowest index; this
// rule is deterministic so that recorded estimate histories are reproducible.
//
// Parameters:
//   - v: The vector to scan. Must have at least one entry.
//
// Returns:
//   - int: The index of the largest-modulus entry.
func argmaxAbs(v mat.Vector) int {
	m := 0
	best := math.Abs(v.AtVec(0))
	for i := 1; i < v.Len(); i++ {
		if a := math.Abs(v.AtVec(i)); a > best {
			m, best = i, a
		}
	}
	return m
}

// divideByPivot sets dst to src scaled by the reciprocal of src's entry at
// index m. The scaling is performed as an element-wise division so that the
// pivot position of dst holds exactly 1.0, keeping the infinity-norm
// invariant free of the rounding a multiply-by-reciprocal would introduce.
// dst and src may alias.
func divideByPivot(dst, src *mat.VecDense, m int) {
	pivot := src.AtVec(m)
	for i := 0; i < src.Len(); i++ {
		dst.SetVec(i, src.AtVec(i)/pivot)
	}
}

// normalizedStart returns a fresh copy of x0 normalized to infinity-norm 1.
// It fails with a ValidationError when x0 is identically zero or contains a
// non-finite entry, since no iteration can start from such a vector.
//
// Parameters:
//   - x0: The starting vector supplied by the caller. Never mutated.
//
// Returns:
//   - *mat.VecDense: A normalized private copy of x0.
//   - error: A ValidationError if x0 cannot seed an iteration.
func normalizedStart(x0 mat.Vector) (*mat.VecDense, error) {
	n := x0.Len()
	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v := x0.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.NewValidationError("x0", "starting vector contains a non-finite entry", v)
		}
		x.SetVec(i, v)
	}
	m := argmaxAbs(x)
	if x.AtVec(m) == 0 {
		return nil, apperrors.NewValidationError("x0", "starting vector must not be identically zero", nil)
	}
	divideByPivot(x, x, m)
	return x, nil
}

// checkPivot validates the largest-modulus entry of the working vector at
// iteration k. A zero, NaN or infinite pivot means the iterate has broken
// down and division by it is undefined.
//
// Parameters:
//   - pivot: The value of the largest-modulus entry.
//   - k: The 1-based iteration index, used in the error.
//
// Returns:
//   - error: A BreakdownError describing the degenerate pivot, or nil.
func checkPivot(pivot float64, k int) error {
	switch {
	case pivot == 0:
		return apperrors.NewBreakdownError(k, "largest-modulus entry is exactly zero")
	case math.IsNaN(pivot):
		return apperrors.NewBreakdownError(k, "iterate degenerated to NaN")
	case math.IsInf(pivot, 0):
		return apperrors.NewBreakdownError(k, "iterate overflowed to infinity")
	}
	return nil
}
