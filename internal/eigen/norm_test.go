package eigen

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/eigencalc/internal/errors"
)

func TestArgmaxAbs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []float64
		want int
	}{
		{"single entry", []float64{3}, 0},
		{"positive max", []float64{1, 5, 2}, 1},
		{"negative max", []float64{1, -5, 2}, 1},
		{"tie takes lowest index", []float64{-2, 2, 1}, 0},
		{"all equal", []float64{1, 1, 1}, 0},
		{"max at end", []float64{0.1, 0.2, -0.9}, 2},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := mat.NewVecDense(len(tc.data), tc.data)
			if got := argmaxAbs(v); got != tc.want {
				t.Errorf("argmaxAbs(%v) = %d, want %d", tc.data, got, tc.want)
			}
		})
	}
}

func TestDivideByPivotExact(t *testing.T) {
	t.Parallel()
	src := mat.NewVecDense(4, []float64{0.3, -0.7, 0.1, 0.2})
	dst := mat.NewVecDense(4, nil)

	divideByPivot(dst, src, 1)

	// The pivot position is set by division, so it holds exactly 1 in
	// magnitude regardless of rounding in the other entries.
	if got := math.Abs(dst.AtVec(1)); got != 1.0 {
		t.Errorf("pivot entry magnitude = %v, want exactly 1", got)
	}
	for i := 0; i < 4; i++ {
		if got := math.Abs(dst.AtVec(i)); got > 1.0 {
			t.Errorf("entry %d magnitude = %v exceeds the pivot", i, got)
		}
	}
	// Compute the expectation through float64 variables: an untyped
	// constant quotient is rounded once at compile time and can land one
	// ULP away from the runtime division of two rounded operands.
	num, den := 0.3, -0.7
	if got, want := dst.AtVec(0), num/den; got != want {
		t.Errorf("entry 0 = %v, want %v", got, want)
	}
}

func TestNormalizedStart(t *testing.T) {
	t.Parallel()
	x, err := normalizedStart(mat.NewVecDense(3, []float64{2, -4, 1}))
	if err != nil {
		t.Fatalf("normalizedStart failed: %v", err)
	}
	if got := x.AtVec(1); got != 1.0 {
		t.Errorf("pivot entry = %v, want exactly 1", got)
	}
	if got := x.AtVec(0); got != -0.5 {
		t.Errorf("entry 0 = %v, want -0.5", got)
	}

	var invalid apperrors.ValidationError
	if _, err := normalizedStart(mat.NewVecDense(3, nil)); !errors.As(err, &invalid) {
		t.Errorf("zero vector: err = %v, want ValidationError", err)
	}
	if _, err := normalizedStart(mat.NewVecDense(2, []float64{1, math.NaN()})); !errors.As(err, &invalid) {
		t.Errorf("NaN entry: err = %v, want ValidationError", err)
	}
	if _, err := normalizedStart(mat.NewVecDense(2, []float64{1, math.Inf(1)})); !errors.As(err, &invalid) {
		t.Errorf("Inf entry: err = %v, want ValidationError", err)
	}
}

func TestCheckPivot(t *testing.T) {
	t.Parallel()
	if err := checkPivot(0.5, 3); err != nil {
		t.Errorf("finite pivot: err = %v, want nil", err)
	}

	var breakdown apperrors.BreakdownError
	for _, pivot := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := checkPivot(pivot, 7)
		if !errors.As(err, &breakdown) {
			t.Errorf("pivot %v: err = %v, want BreakdownError", pivot, err)
			continue
		}
		if breakdown.Iteration != 7 {
			t.Errorf("pivot %v: breakdown iteration = %d, want 7", pivot, breakdown.Iteration)
		}
	}
}
