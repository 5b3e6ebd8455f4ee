// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file contains the power iteration, which estimates the dominant
// eigenpair of a diagonalizable matrix.
package eigen

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/eigencalc/internal/errors"
)

// PowerIteration estimates the eigenvalue of largest modulus of a
// diagonalizable matrix and its associated eigenvector by repeatedly applying
// the matrix to a vector and renormalizing by the largest-magnitude entry.
//
// Convergence is linear with rate |λ₂/λ₁|, provided the starting vector has a
// nonzero projection onto the dominant eigenvector and the dominant
// eigenvalue is simple. When two eigenvalues are tied in modulus the estimate
// history oscillates instead of converging; that is an expected outcome, not
// an error, and shows up as Converged == false.
type PowerIteration struct{}

// Name returns the display name of the algorithm.
func (p *PowerIteration) Name() string {
	return "Power Iteration"
}

// ComputeCore runs the power iteration.
//
// Each iteration computes y = A·x, locates the largest-modulus entry y[m]
// (ties to the lowest index), records the estimate β = y[m]/x[m], and
// renormalizes x ← y/y[m] so that the infinity norm of x is exactly 1 before
// the next application of A. When opts.Tol is positive, the run stops early
// once consecutive estimates differ by less than the tolerance.
//
// Parameters:
//   - ctx: The context for managing cancellation.
//   - reporter: The per-iteration estimate callback (may be nil).
//   - a: The square input matrix. Read-only.
//   - x0: The starting vector; must not be identically zero.
//   - opts: Configuration options. Shift is ignored.
//
// Returns:
//   - *Result: The final eigenpair estimate with the full estimate history.
//   - error: A fatal numerical condition or context error.
func (p *PowerIteration) ComputeCore(ctx context.Context, reporter EstimateReporter, a mat.Matrix, x0 mat.Vector, opts Options) (*Result, error) {
	opts = normalizeOptions(opts)

	x, err := normalizedStart(x0)
	if err != nil {
		return nil, err
	}
	y := mat.NewVecDense(x.Len(), nil)
	history := make([]float64, 0, opts.MaxIter)

	prev := math.NaN()
	converged := false
	for k := 1; k <= opts.MaxIter; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		y.MulVec(a, x)
		m := argmaxAbs(y)
		pivot := y.AtVec(m)
		if err := checkPivot(pivot, k); err != nil {
			return nil, err
		}

		estimate := pivot / x.AtVec(m)
		if math.IsNaN(estimate) || math.IsInf(estimate, 0) {
			return nil, apperrors.NewBreakdownError(k, "eigenvalue estimate is not finite")
		}
		history = append(history, estimate)
		if reporter != nil {
			reporter(k, estimate)
		}

		divideByPivot(x, y, m)

		if opts.Tol > 0 && math.Abs(estimate-prev) < opts.Tol {
			converged = true
			break
		}
		prev = estimate
	}

	return &Result{
		Vector:     x,
		Value:      history[len(history)-1],
		History:    history,
		Iterations: len(history),
		Converged:  converged,
	}, nil
}
