// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file contains the shifted-system solver shared by the inverse and
// dynamic-shift iterations.
package eigen

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/eigencalc/internal/errors"
)

// shiftedSolver owns an LU factorization of B = A − σI and answers repeated
// linear solves B·y = x against it. The factorization is computed once at
// construction; the inverse iteration amortizes it over the whole run, while
// the dynamic-shift iteration constructs a fresh solver every step because
// its σ changes. Each solver is exclusively owned by the iteration loop that
// created it and is never shared across goroutines.
type shiftedSolver struct {
	lu    mat.LU
	dim   int
	shift float64
}

// newShiftedSolver builds B = A − σI and factorizes it. Singularity is
// detected here, before any iteration runs, so that a shift equal to an
// eigenvalue of A surfaces as a precondition violation rather than a
// mid-loop failure.
//
// Parameters:
//   - a: The square input matrix. Read, never mutated.
//   - shift: The spectral shift σ.
//
// Returns:
//   - *shiftedSolver: A solver holding the factorization of (A − σI).
//   - error: A SingularShiftError if (A − σI) has no usable factorization.
func newShiftedSolver(a mat.Matrix, shift float64) (*shiftedSolver, error) {
	n, _ := a.Dims()
	b := mat.DenseCopyOf(a)
	for i := 0; i < n; i++ {
		b.Set(i, i, b.At(i, i)-shift)
	}
	s := &shiftedSolver{dim: n, shift: shift}
	s.lu.Factorize(b)
	// LogDet is -Inf exactly when a pivot of the factorization is zero.
	logDet, sign := s.lu.LogDet()
	if sign == 0 || math.IsInf(logDet, -1) || math.IsNaN(logDet) {
		return nil, apperrors.NewSingularShiftError(shift, nil)
	}
	return s, nil
}

// solveVec solves B·y = x using the stored factorization, writing the
// solution into dst. The factorization is reused; B is never inverted
// explicitly.
//
// A mat.Condition error from the underlying solve is tolerated: the shifted
// system becomes ill-conditioned by construction as σ approaches an
// eigenvalue, and the solution direction remains usable after pivot
// normalization. Any other solve failure is fatal.
//
// Parameters:
//   - dst: The destination vector for the solution y.
//   - x: The right-hand side. May not alias dst.
//   - k: The 1-based iteration index, used in breakdown errors.
//
// Returns:
//   - error: A BreakdownError if the solve failed or produced a non-finite
//     solution, nil otherwise.
func (s *shiftedSolver) solveVec(dst *mat.VecDense, x mat.Vector, k int) error {
	if err := s.lu.SolveVecTo(dst, false, x); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return apperrors.NewBreakdownError(k, "linear solve against (A - %g*I) failed: %v", s.shift, err)
		}
	}
	for i := 0; i < dst.Len(); i++ {
		if v := dst.AtVec(i); math.IsNaN(v) {
			return apperrors.NewBreakdownError(k, "solution of shifted system degenerated to NaN")
		}
	}
	return nil
}
