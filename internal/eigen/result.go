// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file defines the result type shared by all iterators.
package eigen

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Result holds the outcome of an eigenvalue iteration. It is immutable once
// returned: the iterators hand over ownership of Vector and History and keep
// no references to them.
type Result struct {
	// Vector is the final eigenvector estimate, normalized so that its
	// largest-magnitude entry is exactly 1 in modulus.
	Vector *mat.VecDense
	// Value is the final eigenvalue estimate (the last entry of History).
	Value float64
	// History is the ordered sequence of eigenvalue estimates, one per
	// completed iteration. It is preserved verbatim so callers can compute
	// convergence-rate ratios from it.
	History []float64
	// Iterations is the number of iterations actually performed.
	Iterations int
	// Converged reports whether a tolerance-based stopping criterion was met
	// before the iteration budget ran out. A false value is a normal outcome
	// for fixed-budget runs or degenerate spectra, not an error.
	Converged bool
}

// ErrorRatios returns the sequence |h[k+1]−target| / |h[k]−target|^order for
// the recorded history, skipping entries where the denominator vanishes.
// With order 1 the ratios expose a linear convergence rate; with order 2 a
// quadratic one. The result is a diagnostic view and has the same lifetime
// guarantees as History.
//
// Parameters:
//   - target: The eigenvalue the history is converging to.
//   - order: The convergence order to test (1 for linear, 2 for quadratic).
//
// Returns:
//   - []float64: The error ratios, at most len(History)-1 entries.
func (r *Result) ErrorRatios(target float64, order int) []float64 {
	if len(r.History) < 2 {
		return nil
	}
	ratios := make([]float64, 0, len(r.History)-1)
	for k := 0; k+1 < len(r.History); k++ {
		prev := math.Abs(r.History[k] - target)
		next := math.Abs(r.History[k+1] - target)
		denom := prev
		if order == 2 {
			denom = prev * prev
		}
		if denom == 0 {
			continue
		}
		ratios = append(ratios, next/denom)
	}
	return ratios
}
