// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file contains the inverse iteration with a dynamically updated shift.
package eigen

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/eigencalc/internal/errors"
)

// DynamicShiftIteration is the inverse iteration with the shift replaced by
// the most recent eigenvalue estimate at every step. The shifted matrix
// changes each iteration, so it is re-factorized every step; that extra cost
// buys quadratic convergence near a simple eigenvalue. Do not try to cache
// the factorization here: the matrix literally changes each iteration, and
// the re-factorization is what produces the quadratic order.
//
// Because the error roughly squares each iteration, a fixed iteration budget
// is either wasteful or insufficient depending on the quality of the starting
// shift; this variant therefore always applies a tolerance-based stop,
// falling back to DefaultTol when opts.Tol is zero.
type DynamicShiftIteration struct{}

// Name returns the display name of the algorithm.
func (d *DynamicShiftIteration) Name() string {
	return "Dynamic Shift Iteration"
}

// ComputeCore runs the inverse iteration with a per-step shift update.
//
// Each iteration factorizes B = A − σI for the current σ, solves B·y = x,
// records β = σ + x[m]/y[m] and renormalizes x ← y/y[m]. If |σ − β| < tol the
// run stops converged, before σ is touched; otherwise σ ← β and the loop
// continues. A σ update that lands exactly on an eigenvalue of A before the
// tolerance check fires makes the next factorization fail with a
// SingularShiftError; there is no automatic shift perturbation or retry.
//
// Parameters:
//   - ctx: The context for managing cancellation.
//   - reporter: The per-iteration estimate callback (may be nil).
//   - a: The square input matrix. Read-only.
//   - x0: The starting vector; must not be identically zero.
//   - opts: Configuration options; Shift seeds σ, Tol controls the stop.
//
// Returns:
//   - *Result: The final eigenpair estimate with the full estimate history.
//   - error: A SingularShiftError, a fatal numerical condition, or a context
//     error.
func (d *DynamicShiftIteration) ComputeCore(ctx context.Context, reporter EstimateReporter, a mat.Matrix, x0 mat.Vector, opts Options) (*Result, error) {
	opts = normalizeOptions(opts)
	if opts.Tol <= 0 {
		opts.Tol = DefaultTol
	}

	x, err := normalizedStart(x0)
	if err != nil {
		return nil, err
	}
	y := mat.NewVecDense(x.Len(), nil)
	history := make([]float64, 0, opts.MaxIter)

	sigma := opts.Shift
	converged := false
	for k := 1; k <= opts.MaxIter; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		solver, err := newShiftedSolver(a, sigma)
		if err != nil {
			return nil, err
		}
		if err := solver.solveVec(y, x, k); err != nil {
			return nil, err
		}
		m := argmaxAbs(y)
		pivot := y.AtVec(m)
		if err := checkPivot(pivot, k); err != nil {
			return nil, err
		}

		estimate := sigma + x.AtVec(m)/pivot
		if math.IsNaN(estimate) || math.IsInf(estimate, 0) {
			return nil, apperrors.NewBreakdownError(k, "eigenvalue estimate is not finite")
		}
		history = append(history, estimate)
		if reporter != nil {
			reporter(k, estimate)
		}

		divideByPivot(x, y, m)

		if math.Abs(sigma-estimate) < opts.Tol {
			converged = true
			break
		}
		sigma = estimate
	}

	return &Result{
		Vector:     x,
		Value:      history[len(history)-1],
		History:    history,
		Iterations: len(history),
		Converged:  converged,
	}, nil
}
