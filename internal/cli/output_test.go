package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/eigencalc/internal/config"
	"github.com/agbru/eigencalc/internal/eigen"
	"github.com/agbru/eigencalc/internal/matgen"
	"github.com/agbru/eigencalc/internal/ui"
)

func computeFixture(t *testing.T) *eigen.Result {
	t.Helper()
	a, err := matgen.UpperTriangular([]float64{1, 0.5}, []float64{0.25})
	if err != nil {
		t.Fatalf("building fixture matrix: %v", err)
	}
	// Convergence rate is 0.5/1 per step, so 60 iterations leave plenty of
	// room for the 1e-12 tolerance to trigger.
	res, err := (&eigen.PowerIteration{}).ComputeCore(context.Background(), nil, a, matgen.Ones(2), eigen.Options{MaxIter: 60, Tol: 1e-12})
	if err != nil {
		t.Fatalf("computing fixture: %v", err)
	}
	return res
}

func TestDisplayEigenResult(t *testing.T) {
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(orig)

	res := computeFixture(t)
	var buf bytes.Buffer
	DisplayEigenResult("Power Iteration", res, 3*time.Millisecond, false, &buf)

	out := buf.String()
	if !strings.Contains(out, "Power Iteration") {
		t.Errorf("output missing algorithm name:\n%s", out)
	}
	if !strings.Contains(out, "converged") {
		t.Errorf("output missing convergence status:\n%s", out)
	}
	if !strings.Contains(out, "3ms") {
		t.Errorf("output missing duration:\n%s", out)
	}
	if strings.Contains(out, "Estimate history") {
		t.Errorf("non-verbose output must not include the history:\n%s", out)
	}
}

func TestDisplayEigenResultVerbose(t *testing.T) {
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(orig)

	res := computeFixture(t)
	var buf bytes.Buffer
	DisplayEigenResult("Power Iteration", res, time.Millisecond, true, &buf)

	if !strings.Contains(buf.String(), "Estimate history") {
		t.Errorf("verbose output missing the history:\n%s", buf.String())
	}
}

func TestBuildJSONResult(t *testing.T) {
	res := computeFixture(t)
	jr := BuildJSONResult("power", res, 1500*time.Microsecond, nil, true)

	if jr.Algorithm != "power" {
		t.Errorf("Algorithm = %q, want power", jr.Algorithm)
	}
	if jr.Eigenvalue != res.Value {
		t.Errorf("Eigenvalue = %v, want %v", jr.Eigenvalue, res.Value)
	}
	if len(jr.Vector) != 2 {
		t.Errorf("len(Vector) = %d, want 2", len(jr.Vector))
	}
	if len(jr.History) != res.Iterations {
		t.Errorf("len(History) = %d, want %d", len(jr.History), res.Iterations)
	}
	if jr.DurationMS != 1.5 {
		t.Errorf("DurationMS = %v, want 1.5", jr.DurationMS)
	}

	failed := BuildJSONResult("inverse", nil, time.Millisecond, errors.New("singular"), false)
	if failed.Error != "singular" {
		t.Errorf("Error = %q, want the cause message", failed.Error)
	}
	if failed.Vector != nil {
		t.Error("failed result must not carry a vector")
	}
}

func TestWriteJSONResults(t *testing.T) {
	res := computeFixture(t)
	var buf bytes.Buffer
	err := WriteJSONResults(&buf, []JSONResult{BuildJSONResult("power", res, time.Millisecond, nil, false)})
	if err != nil {
		t.Fatalf("WriteJSONResults failed: %v", err)
	}

	var decoded []JSONResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Algorithm != "power" {
		t.Errorf("decoded %+v, want one power result", decoded)
	}
}

func TestGetIteratorsToRun(t *testing.T) {
	factory := eigen.NewDefaultFactory()

	all := GetIteratorsToRun(config.AppConfig{Algo: "all"}, factory)
	if len(all) != 3 {
		t.Fatalf("got %d iterators for 'all', want 3", len(all))
	}

	one := GetIteratorsToRun(config.AppConfig{Algo: "power"}, factory)
	if len(one) != 1 || one[0].Name() != "Power Iteration" {
		t.Fatalf("got %v for 'power', want the power iterator", one)
	}

	if got := GetIteratorsToRun(config.AppConfig{Algo: "jacobi"}, factory); got != nil {
		t.Errorf("got %v for unknown algorithm, want nil", got)
	}
}

func TestPrintExecutionConfigAndMode(t *testing.T) {
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(orig)

	cfg := config.AppConfig{Diag: "1,2,3", Shift: 0.5, Tol: 1e-8, MaxIter: 50, Timeout: time.Minute, Algo: "all"}
	var buf bytes.Buffer
	PrintExecutionConfig(cfg, 3, &buf)
	if !strings.Contains(buf.String(), "3x3") {
		t.Errorf("config banner missing matrix dimension:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "shift=0.5") {
		t.Errorf("config banner missing iteration controls:\n%s", buf.String())
	}

	buf.Reset()
	factory := eigen.NewDefaultFactory()
	PrintExecutionMode(GetIteratorsToRun(cfg, factory), &buf)
	if !strings.Contains(buf.String(), "comparison") {
		t.Errorf("mode banner missing comparison wording:\n%s", buf.String())
	}
}
