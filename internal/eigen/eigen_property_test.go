package eigen

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/eigencalc/internal/errors"
	"github.com/agbru/eigencalc/internal/matgen"
)

// TestPowerIterationProperties checks algorithm invariants over randomly
// generated triangular matrices, whose spectra are known exactly from the
// diagonal.
func TestPowerIterationProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("finds the dominant diagonal entry", prop.ForAll(
		func(dominant, a, b, c float64) bool {
			diag := []float64{a, dominant, b, c}
			m, err := matgen.RandomUpperTriangular(diag, 0.25, 42)
			if err != nil {
				return false
			}
			res, err := (&PowerIteration{}).ComputeCore(context.Background(), nil, m, matgen.Ones(4), Options{MaxIter: 400, Tol: 1e-13})
			if err != nil {
				return false
			}
			return math.Abs(res.Value-dominant) < 1e-6
		},
		gen.Float64Range(2, 4),
		gen.Float64Range(-1, 1),
		gen.Float64Range(-1, 1),
		gen.Float64Range(-1, 1),
	))

	properties.Property("iterate keeps infinity norm exactly one", prop.ForAll(
		func(dominant, a, b float64, maxiter int) bool {
			diag := []float64{dominant, a, b}
			m, err := matgen.RandomUpperTriangular(diag, 0.25, 7)
			if err != nil {
				return false
			}
			res, err := (&PowerIteration{}).ComputeCore(context.Background(), nil, m, matgen.Ones(3), Options{MaxIter: maxiter})
			if err != nil {
				return false
			}
			max := 0.0
			for i := 0; i < res.Vector.Len(); i++ {
				if v := math.Abs(res.Vector.AtVec(i)); v > max {
					max = v
				}
			}
			return max == 1.0
		},
		gen.Float64Range(2, 4),
		gen.Float64Range(-1, 1),
		gen.Float64Range(-1, 1),
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}

// TestInverseIterationProperties checks that a shift close to a chosen
// eigenvalue steers inverse iteration to that eigenvalue, for every choice of
// target on a fixed well-separated spectrum.
func TestInverseIterationProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	spectrum := []float64{2.5, 1, 0.3, -0.8}

	properties.Property("converges to the eigenvalue nearest the shift", prop.ForAll(
		func(target int, offset float64) bool {
			m, err := matgen.RandomUpperTriangular(spectrum, 0.25, 11)
			if err != nil {
				return false
			}
			shift := spectrum[target] + offset
			res, err := (&InverseIteration{}).ComputeCore(context.Background(), nil, m, matgen.Ones(4), Options{Shift: shift, MaxIter: 300, Tol: 1e-13})
			if err != nil {
				return false
			}
			return math.Abs(res.Value-spectrum[target]) < 1e-6
		},
		gen.IntRange(0, 3),
		gen.Float64Range(0.02, 0.1),
	))

	properties.TestingRun(t)
}

// TestDynamicShiftProperties checks that the dynamic method agrees with its
// fixed-shift counterpart on the answer whenever both start near the same
// eigenvalue.
func TestDynamicShiftProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	spectrum := []float64{2.5, 1, 0.3, -0.8}

	properties.Property("agrees with fixed-shift inverse iteration", prop.ForAll(
		func(target int, offset float64) bool {
			m, err := matgen.RandomUpperTriangular(spectrum, 0.25, 23)
			if err != nil {
				return false
			}
			shift := spectrum[target] + offset
			fixed, err := (&InverseIteration{}).ComputeCore(context.Background(), nil, m, matgen.Ones(4), Options{Shift: shift, MaxIter: 300, Tol: 1e-13})
			if err != nil {
				return false
			}
			dynamic, err := (&DynamicShiftIteration{}).ComputeCore(context.Background(), nil, m, matgen.Ones(4), Options{Shift: shift, MaxIter: 300, Tol: 1e-10})
			if err != nil {
				// A shift update can land exactly on the eigenvalue before
				// the tolerance check fires; the resulting singular
				// factorization still identifies the right answer.
				var singular apperrors.SingularShiftError
				if errors.As(err, &singular) {
					return math.Abs(singular.Shift-fixed.Value) < 1e-9
				}
				return false
			}
			if !dynamic.Converged {
				return false
			}
			return math.Abs(dynamic.Value-fixed.Value) < 1e-6
		},
		gen.IntRange(0, 3),
		gen.Float64Range(0.02, 0.08),
	))

	properties.TestingRun(t)
}
