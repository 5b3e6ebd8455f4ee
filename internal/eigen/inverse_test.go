package eigen

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/eigencalc/internal/errors"
	"github.com/agbru/eigencalc/internal/matgen"
)

// inverseOracle builds the upper-triangular test matrix with spectrum
// {0.6, 0.75, 1, -0.4, 0}. A shift of 0.55 targets 0.6 with the next-nearest
// eigenvalue at 0.75, giving the exact linear rate 0.05/0.20 = 0.25.
func inverseOracle(t *testing.T) *mat.Dense {
	t.Helper()
	a, err := matgen.UpperTriangular([]float64{0.6, 0.75, 1, -0.4, 0}, testUpper)
	if err != nil {
		t.Fatalf("building oracle matrix: %v", err)
	}
	return a
}

func TestInverseIterationKnownMatrix(t *testing.T) {
	t.Parallel()
	a := inverseOracle(t)
	core := &InverseIteration{}

	res, err := core.ComputeCore(context.Background(), nil, a, matgen.Ones(5), Options{Shift: 0.55, MaxIter: 20})
	if err != nil {
		t.Fatalf("ComputeCore failed: %v", err)
	}
	if got := math.Abs(res.Value - 0.6); got > 1e-10 {
		t.Errorf("|final estimate - 0.6| = %.3e, want <= 1e-10", got)
	}

	// The shift-to-gap geometry fixes the linear rate at exactly 0.25.
	ratios := res.ErrorRatios(0.6, 1)
	for k := 6; k < 14; k++ {
		if math.Abs(ratios[k]-0.25) > 0.02 {
			t.Errorf("error ratio at iteration %d = %.4f, want 0.25 +- 0.02", k, ratios[k])
		}
	}
}

func TestInverseIterationIdempotentNearConvergence(t *testing.T) {
	t.Parallel()
	a := inverseOracle(t)
	core := &InverseIteration{}
	opts := Options{Shift: 0.55, MaxIter: 40}

	res, err := core.ComputeCore(context.Background(), nil, a, matgen.Ones(5), opts)
	if err != nil {
		t.Fatalf("ComputeCore(40) failed: %v", err)
	}
	opts.MaxIter = 41
	more, err := core.ComputeCore(context.Background(), nil, a, matgen.Ones(5), opts)
	if err != nil {
		t.Fatalf("ComputeCore(41) failed: %v", err)
	}
	// Once the iterate has settled on the eigenvector, one more step must
	// reproduce the same estimate: the fixed point is exact in floating
	// point, not merely approximate.
	if delta := math.Abs(more.Value - res.Value); delta > 1e-12 {
		t.Errorf("one extra iteration moved the estimate by %.3e, want <= 1e-12", delta)
	}
}

func TestInverseIterationSingularShift(t *testing.T) {
	t.Parallel()
	// A shift equal to a diagonal eigenvalue makes A - sigma*I exactly
	// singular, which must be reported before the first iteration.
	a := matgen.Diagonal([]float64{0.6, 0.75, 1})

	_, err := (&InverseIteration{}).ComputeCore(context.Background(), nil, a, matgen.Ones(3), Options{Shift: 0.6, MaxIter: 10})
	var singular apperrors.SingularShiftError
	if !errors.As(err, &singular) {
		t.Fatalf("err = %v, want SingularShiftError", err)
	}
	if singular.Shift != 0.6 {
		t.Errorf("reported shift = %v, want 0.6", singular.Shift)
	}
}

func TestInverseIterationResolvesTiedModulus(t *testing.T) {
	t.Parallel()
	// On the spectrum {2, -4, 4} power iteration oscillates forever, but a
	// zero shift steers inverse iteration to the smallest eigenvalue.
	a, err := matgen.UpperTriangular([]float64{2, -4, 4}, []float64{0.5, -0.3, 0.25})
	if err != nil {
		t.Fatalf("building matrix: %v", err)
	}

	res, err := (&InverseIteration{}).ComputeCore(context.Background(), nil, a, matgen.Ones(3), Options{Shift: 0, MaxIter: 60, Tol: 1e-12})
	if err != nil {
		t.Fatalf("ComputeCore failed: %v", err)
	}
	if got := math.Abs(res.Value - 2.0); got > 1e-9 {
		t.Errorf("|estimate - 2| = %.3e, want <= 1e-9", got)
	}
}

func TestInverseIterationNormalizationInvariant(t *testing.T) {
	t.Parallel()
	a := inverseOracle(t)

	res, err := (&InverseIteration{}).ComputeCore(context.Background(), nil, a, matgen.Ones(5), Options{Shift: 0.55, MaxIter: 12})
	if err != nil {
		t.Fatalf("ComputeCore failed: %v", err)
	}
	max := 0.0
	for i := 0; i < res.Vector.Len(); i++ {
		if v := math.Abs(res.Vector.AtVec(i)); v > max {
			max = v
		}
	}
	if max != 1.0 {
		t.Errorf("infinity norm of iterate = %v, want exactly 1", max)
	}
}
