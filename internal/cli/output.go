package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/agbru/eigencalc/internal/eigen"
)

// DisplayEigenResult formats and prints the final result of one eigenvalue
// computation: the estimate, the eigenvector, the iteration count and, when
// measurable, the observed convergence rate. With verbose set, the full
// estimate history is printed as well.
//
// Parameters:
//   - name: The display name of the algorithm.
//   - res: The computation result.
//   - duration: The time taken for the computation.
//   - verbose: If true, prints the full estimate history.
//   - out: The writer for standard output.
func DisplayEigenResult(name string, res *eigen.Result, duration time.Duration, verbose bool, out io.Writer) {
	writeOut(out, "\n%s--- Result: %s ---%s\n", ColorBold(), name, ColorReset())
	writeOut(out, "Eigenvalue estimate: %sβ = %.12g%s\n", ColorGreen(), res.Value, ColorReset())

	status := fmt.Sprintf("%sconverged%s", ColorGreen(), ColorReset())
	if !res.Converged {
		status = fmt.Sprintf("%siteration budget exhausted%s", ColorYellow(), ColorReset())
	}
	writeOut(out, "Iterations: %s%d%s (%s) in %s%s%s\n",
		ColorCyan(), res.Iterations, ColorReset(), status,
		ColorYellow(), FormatExecutionDuration(duration), ColorReset())

	if rate := observedRate(res.History); !math.IsNaN(rate) {
		writeOut(out, "Observed contraction of estimate updates: %s%.4f%s\n", ColorCyan(), rate, ColorReset())
	}

	writeOut(out, "Eigenvector (infinity norm 1): %s", ColorBlue())
	for i := 0; i < res.Vector.Len(); i++ {
		if i > 0 {
			writeOut(out, ", ")
		}
		writeOut(out, "%.6g", res.Vector.AtVec(i))
	}
	writeOut(out, "%s\n", ColorReset())

	if verbose {
		writeOut(out, "Estimate history:\n")
		for k, estimate := range res.History {
			writeOut(out, "  β_%-3d = %.12g", k+1, estimate)
			if (k+1)%HistoryColumns == 0 || k == len(res.History)-1 {
				writeOut(out, "\n")
			}
		}
	}
}

// JSONResult is the machine-readable form of one computation outcome, used
// by the -json CLI mode and the HTTP API.
type JSONResult struct {
	Algorithm  string    `json:"algorithm"`
	Eigenvalue float64   `json:"eigenvalue"`
	Vector     []float64 `json:"vector"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
	DurationMS float64   `json:"duration_ms"`
	History    []float64 `json:"history,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// BuildJSONResult converts a computation outcome into its JSON form. Either
// res or err may be nil.
func BuildJSONResult(name string, res *eigen.Result, duration time.Duration, err error, withHistory bool) JSONResult {
	jr := JSONResult{
		Algorithm:  name,
		DurationMS: float64(duration.Microseconds()) / 1000.0,
	}
	if err != nil {
		jr.Error = err.Error()
		return jr
	}
	jr.Eigenvalue = res.Value
	jr.Iterations = res.Iterations
	jr.Converged = res.Converged
	jr.Vector = make([]float64, res.Vector.Len())
	for i := range jr.Vector {
		jr.Vector[i] = res.Vector.AtVec(i)
	}
	if withHistory {
		jr.History = res.History
	}
	return jr
}

// WriteJSONResults encodes the results as an indented JSON array.
func WriteJSONResults(out io.Writer, results []JSONResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
