// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file contains configuration options for eigenvalue computations.
package eigen

// Default configuration values applied by normalizeOptions when the caller
// leaves the corresponding Options field at its zero value.
const (
	// DefaultMaxIter is the default iteration budget. Power and inverse
	// iteration converge linearly, so the budget has to absorb slow spectral
	// gaps; the dynamic-shift variant normally stops long before this.
	DefaultMaxIter = 100
	// DefaultTol is the default convergence tolerance for the dynamic-shift
	// iteration, which requires a tolerance-based stop.
	DefaultTol = 1e-10
)

// Options configures an eigenvalue computation.
type Options struct {
	// Shift is the spectral shift σ. InverseIteration keeps it fixed for the
	// whole run; DynamicShiftIteration uses it as the starting shift and
	// replaces it with the current eigenvalue estimate every iteration.
	// PowerIteration ignores it.
	Shift float64
	// Tol is the convergence tolerance on the change of the eigenvalue
	// estimate between consecutive iterations. For PowerIteration and
	// InverseIteration a zero Tol disables early exit and the full MaxIter
	// budget is spent. DynamicShiftIteration requires a tolerance and falls
	// back to DefaultTol when Tol is zero.
	Tol float64
	// MaxIter caps the number of iterations. If 0, DefaultMaxIter is used.
	MaxIter int
}

// normalizeOptions returns a copy of opts with default values filled in for
// zero values. This ensures consistent budget handling across all iterator
// implementations. Tol is deliberately left untouched: a zero tolerance is a
// valid setting for the fixed-budget iterations.
//
// Parameters:
//   - opts: The options to normalize.
//
// Returns:
//   - Options: A normalized copy of opts with defaults applied.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.MaxIter == 0 {
		normalized.MaxIter = DefaultMaxIter
	}
	return normalized
}
