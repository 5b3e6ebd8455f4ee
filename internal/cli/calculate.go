package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/eigencalc/internal/config"
	"github.com/agbru/eigencalc/internal/eigen"
)

// GetIteratorsToRun determines which iterators should be executed based on
// the configuration. Returns iterators in alphabetically sorted order for
// consistent, reproducible behavior.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The iterator factory to retrieve implementations from.
//
// Returns:
//   - []eigen.Iterator: A slice of iterators to execute.
func GetIteratorsToRun(cfg config.AppConfig, factory eigen.IteratorFactory) []eigen.Iterator {
	if cfg.Algo == "all" {
		keys := factory.List() // List() returns sorted keys
		iterators := make([]eigen.Iterator, 0, len(keys))
		for _, k := range keys {
			if it, err := factory.Get(k); err == nil {
				iterators = append(iterators, it)
			}
		}
		return iterators
	}
	if it, err := factory.Get(cfg.Algo); err == nil {
		return []eigen.Iterator{it}
	}
	return nil
}

// PrintExecutionConfig displays the current execution configuration to the
// user: the input matrix source, the iteration controls and the environment.
//
// Parameters:
//   - cfg: The application configuration.
//   - dim: The dimension of the input matrix.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, dim int, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	source := fmt.Sprintf("generated matrix with spectrum [%s]", cfg.Diag)
	if cfg.MatrixFile != "" {
		source = fmt.Sprintf("matrix from %s", cfg.MatrixFile)
	}
	writeOut(out, "Input: %s%dx%d%s %s, timeout %s%s%s.\n",
		ColorCyan(), dim, dim, ColorReset(), source, ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Iteration controls: shift=%s%g%s, tol=%s%g%s, maxiter=%s%d%s.\n",
		ColorCyan(), cfg.Shift, ColorReset(), ColorCyan(), cfg.Tol, ColorReset(), ColorCyan(), cfg.MaxIter, ColorReset())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
}

// PrintExecutionMode displays the execution mode (single algorithm vs
// comparison).
//
// Parameters:
//   - iterators: The slice of iterators that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(iterators []eigen.Iterator, out io.Writer) {
	var modeDesc string
	if len(iterators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single computation with the %s%s%s algorithm",
			ColorGreen(), iterators[0].Name(), ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
