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

func TestNewIteratorPanicsOnNilCore(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("NewIterator(nil) did not panic")
		}
	}()
	NewIterator(nil)
}

func TestEigenIteratorCompute(t *testing.T) {
	t.Parallel()
	a := powerOracle(t)
	it := NewIterator(&PowerIteration{})

	updates := make(chan EstimateUpdate, 256)
	res, err := it.Compute(context.Background(), updates, 2, a, matgen.Ones(5), Options{MaxIter: 30})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	close(updates)

	var streamed []float64
	for u := range updates {
		if u.IteratorIndex != 2 {
			t.Errorf("update carries iterator index %d, want 2", u.IteratorIndex)
		}
		streamed = append(streamed, u.Estimate)
	}
	if len(streamed) != len(res.History) {
		t.Fatalf("streamed %d estimates, history has %d", len(streamed), len(res.History))
	}
	for k := range streamed {
		if streamed[k] != res.History[k] {
			t.Errorf("estimate %d: streamed %v, history %v", k, streamed[k], res.History[k])
		}
	}
}

func TestEigenIteratorComputeNilChannel(t *testing.T) {
	t.Parallel()
	a := powerOracle(t)
	it := NewIterator(&PowerIteration{})

	res, err := it.Compute(context.Background(), nil, 0, a, matgen.Ones(5), Options{MaxIter: 40})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got := math.Abs(res.Value - 1.0); got > 1e-4 {
		t.Errorf("|estimate - 1| = %.3e, want < 1e-4", got)
	}
}

func TestEigenIteratorWrapsCoreErrors(t *testing.T) {
	t.Parallel()
	a := matgen.Diagonal([]float64{2, 3})
	it := NewIterator(&InverseIteration{})

	_, err := it.Compute(context.Background(), nil, 0, a, matgen.Ones(2), Options{Shift: 2, MaxIter: 5})
	var wrapped apperrors.ComputationError
	if !errors.As(err, &wrapped) {
		t.Fatalf("err = %v, want ComputationError", err)
	}
	var singular apperrors.SingularShiftError
	if !errors.As(err, &singular) {
		t.Fatalf("err = %v, want SingularShiftError in the chain", err)
	}
}

func TestValidateInputs(t *testing.T) {
	t.Parallel()
	square := matgen.Diagonal([]float64{1, 2})
	tests := []struct {
		name  string
		a     mat.Matrix
		x0    mat.Vector
		opts  Options
		field string
	}{
		{"nil matrix", nil, matgen.Ones(2), Options{MaxIter: 1}, "matrix"},
		{"nil vector", square, nil, Options{MaxIter: 1}, "x0"},
		{"rectangular", mat.NewDense(2, 3, nil), matgen.Ones(2), Options{MaxIter: 1}, "matrix"},
		{"dimension mismatch", square, matgen.Ones(3), Options{MaxIter: 1}, "x0"},
		{"negative budget", square, matgen.Ones(2), Options{MaxIter: -1}, "maxiter"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validateInputs(tc.a, tc.x0, tc.opts)
			var invalid apperrors.ValidationError
			if !errors.As(err, &invalid) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if invalid.Field != tc.field {
				t.Errorf("Field = %q, want %q", invalid.Field, tc.field)
			}
		})
	}

	if err := validateInputs(square, matgen.Ones(2), Options{MaxIter: 1}); err != nil {
		t.Errorf("valid inputs rejected: %v", err)
	}
}

func TestNormalizeOptions(t *testing.T) {
	t.Parallel()
	got := normalizeOptions(Options{})
	if got.MaxIter != DefaultMaxIter {
		t.Errorf("MaxIter = %d, want %d", got.MaxIter, DefaultMaxIter)
	}
	// A zero tolerance stays zero: it means the early exit is disabled, not
	// that a default should apply.
	if got.Tol != 0 {
		t.Errorf("Tol = %v, want 0", got.Tol)
	}

	got = normalizeOptions(Options{Shift: 1.5, Tol: 1e-6, MaxIter: 7})
	if got.Shift != 1.5 || got.Tol != 1e-6 || got.MaxIter != 7 {
		t.Errorf("explicit options were modified: %+v", got)
	}
}
