package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/agbru/eigencalc/internal/cli"
	"github.com/agbru/eigencalc/internal/config"
	"github.com/agbru/eigencalc/internal/eigen"
	apperrors "github.com/agbru/eigencalc/internal/errors"
	"github.com/agbru/eigencalc/internal/matgen"
	"github.com/agbru/eigencalc/internal/orchestration"
	"github.com/agbru/eigencalc/internal/server"
	"github.com/agbru/eigencalc/internal/ui"
)

// Application represents the eigencalc application instance.
// It encapsulates the configuration and provides methods to run
// the application in its various modes (CLI or server).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the eigenvalue iterator implementations.
	// Uses the interface type for better testability and dependency injection.
	Factory eigen.IteratorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := eigen.GlobalFactory()
	availableAlgos := factory.List()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "eigencalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (server or CLI computation).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	// Server mode
	if a.Config.ServerMode {
		return a.runServer()
	}

	// Standard CLI computation mode
	return a.runCompute(ctx, out)
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runCompute orchestrates the execution of the CLI computation command.
func (a *Application) runCompute(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	// Build the problem: the matrix and the starting vector
	matrix, err := a.buildMatrix()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error building matrix: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	n, _ := matrix.Dims()
	x0 := matgen.Ones(n)

	// Get iterators to run
	iteratorsToRun := cli.GetIteratorsToRun(a.Config, a.Factory)
	if len(iteratorsToRun) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no algorithm matches %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	// Skip verbose output in quiet mode
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, n, out)
		cli.PrintExecutionMode(iteratorsToRun, out)
	}

	// In quiet and JSON modes, use a discard writer for progress display so
	// the machine-readable output is not interleaved with status lines
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	// Execute computations
	results := orchestration.ExecuteComputations(ctx, iteratorsToRun, matrix, x0, a.Config, progressOut)

	// Handle JSON output
	if a.Config.JSONOutput {
		return a.printJSONResults(results, out)
	}

	// Handle quiet mode: just the eigenvalue of the best run
	if a.Config.Quiet {
		return a.printQuietResult(results, out)
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)

	// Save the convergence plot if requested
	if a.Config.PlotFile != "" && exitCode == apperrors.ExitSuccess {
		if err := a.savePlot(results, out); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving plot: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	}

	return exitCode
}

// buildMatrix constructs the input matrix either from a CSV file or from the
// configured spectrum via the random upper-triangular generator.
func (a *Application) buildMatrix() (*mat.Dense, error) {
	if a.Config.MatrixFile != "" {
		f, err := os.Open(a.Config.MatrixFile)
		if err != nil {
			return nil, fmt.Errorf("opening matrix file: %w", err)
		}
		defer f.Close()
		return matgen.FromCSV(f)
	}

	diag, err := matgen.ParseDiagonal(a.Config.Diag)
	if err != nil {
		return nil, err
	}
	return matgen.RandomUpperTriangular(diag, a.Config.Spread, a.Config.Seed)
}

// printQuietResult writes only the eigenvalue of the fastest successful run,
// suitable for piping into other tools.
func (a *Application) printQuietResult(results []orchestration.ComputationResult, out io.Writer) int {
	best := findBestResult(results)
	if best == nil {
		// Fall back to the standard error reporting path
		return orchestration.AnalyzeComparisonResults(results, a.Config, out)
	}
	fmt.Fprintf(out, "%.12g\n", best.Result.Value)
	return apperrors.ExitSuccess
}

// savePlot writes the convergence histories of all successful runs to the
// configured plot file.
func (a *Application) savePlot(results []orchestration.ComputationResult, out io.Writer) error {
	var series []cli.HistorySeries
	for i := range results {
		if results[i].Err == nil && results[i].Result != nil {
			series = append(series, cli.HistorySeries{
				Name:    results[i].Name,
				History: results[i].Result.History,
			})
		}
	}
	if len(series) == 0 {
		return nil
	}
	if err := cli.SaveConvergencePlot(series, a.Config.PlotFile); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s✓ Convergence plot saved to: %s%s%s\n",
		cli.ColorGreen(), cli.ColorCyan(), a.Config.PlotFile, cli.ColorReset())
	return nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func findBestResult(results []orchestration.ComputationResult) *orchestration.ComputationResult {
	var best *orchestration.ComputationResult
	for i := range results {
		if results[i].Err == nil && results[i].Result != nil {
			if best == nil || results[i].Duration < best.Duration {
				best = &results[i]
			}
		}
	}
	return best
}

// printJSONResults formats the computation results as a JSON array and writes
// them to the output. This is useful for programmatic consumption of the results.
func (a *Application) printJSONResults(results []orchestration.ComputationResult, out io.Writer) int {
	output := make([]cli.JSONResult, len(results))
	for i, res := range results {
		output[i] = cli.BuildJSONResult(res.Name, res.Result, res.Duration, res.Err, a.Config.Verbose)
	}
	if err := cli.WriteJSONResults(out, output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
