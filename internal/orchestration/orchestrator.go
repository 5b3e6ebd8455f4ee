// Package orchestration coordinates the concurrent execution of eigenvalue
// computations and the analysis of their outcomes.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/eigencalc/internal/cli"
	"github.com/agbru/eigencalc/internal/config"
	"github.com/agbru/eigencalc/internal/eigen"
	apperrors "github.com/agbru/eigencalc/internal/errors"
	"github.com/agbru/eigencalc/internal/ui"

	"gonum.org/v1/gonum/mat"
)

// ComputationResult encapsulates the outcome of a single eigenvalue
// computation. It serves as a standardized container for results from
// different algorithms, facilitating comparison and reporting.
type ComputationResult struct {
	// Name is the identifier of the algorithm used (e.g., "Power Iteration").
	Name string
	// Result is the computed eigenpair estimate. It is nil if an error
	// occurred.
	Result *eigen.Result
	// Duration is the time taken to complete the computation.
	Duration time.Duration
	// Err contains any error that occurred during the computation.
	Err error
}

// EstimateBufferMultiplier defines the buffer size multiplier for the
// estimate updates channel. A larger buffer reduces the likelihood of
// dropped updates when the UI is slow to consume them.
const EstimateBufferMultiplier = 64

// ExecuteComputations orchestrates the concurrent execution of one or more
// eigenvalue computations on the same input matrix.
//
// It manages the lifecycle of computation goroutines, collects their
// results, and coordinates the display of live estimate updates. Each
// iterator receives the same matrix and starting vector; algorithms that
// ignore the shift simply do so.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - iterators: A slice of iterators to execute.
//   - a: The square input matrix, shared read-only by all iterators.
//   - x0: The starting vector.
//   - cfg: The application configuration (shift, tolerance, budget).
//   - out: The io.Writer for displaying live estimate updates.
//
// Returns:
//   - []ComputationResult: A slice containing the results of each
//     computation, in iterator order.
func ExecuteComputations(ctx context.Context, iterators []eigen.Iterator, a mat.Matrix, x0 mat.Vector, cfg config.AppConfig, out io.Writer) []ComputationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]ComputationResult, len(iterators))
	updates := make(chan eigen.EstimateUpdate, len(iterators)*EstimateBufferMultiplier)

	displayCount := len(iterators)
	if cfg.Quiet {
		displayCount = 0 // DisplayEstimates drains silently.
	}
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayEstimates(&displayWg, updates, displayCount, out)

	for i, it := range iterators {
		idx, iterator := i, it
		g.Go(func() error {
			startTime := time.Now()
			res, err := iterator.Compute(ctx, updates, idx, a, x0, cfg.ToComputeOptions())
			results[idx] = ComputationResult{
				Name: iterator.Name(), Result: res, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	g.Wait()
	close(updates)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults processes the results from multiple algorithms
// and generates a summary report.
//
// It sorts the results by execution time, displays a comparative table of
// eigenvalue estimates and convergence outcomes, and prints the detailed
// result of each successful run. Unlike methods that must agree on a single
// answer, the algorithms here legitimately target different eigenvalues
// (power iteration finds the dominant one, the shifted methods the one
// nearest the shift), so no cross-algorithm consistency check is applied.
//
// Parameters:
//   - results: The slice of computation results to analyze.
//   - cfg: The application configuration.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []ComputationResult, cfg config.AppConfig, out io.Writer) int {
	sorted := make([]ComputationResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if (sorted[i].Err == nil) != (sorted[j].Err == nil) {
			return sorted[i].Err == nil
		}
		return sorted[i].Duration < sorted[j].Duration
	})

	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sEigenvalue%s\t%sIterations%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(),
		ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset())

	for _, res := range sorted {
		var estimate, iterations, status string
		if res.Err != nil {
			estimate, iterations = "-", "-"
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			estimate = fmt.Sprintf("%.12g", res.Result.Value)
			iterations = fmt.Sprintf("%d", res.Result.Iterations)
			if res.Result.Converged {
				status = fmt.Sprintf("%s✅ Converged%s", ui.ColorGreen(), ui.ColorReset())
			} else {
				status = fmt.Sprintf("%s⚠ Budget exhausted%s", ui.ColorYellow(), ui.ColorReset())
			}
			successCount++
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			estimate, iterations,
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the computation.\n")
		return apperrors.HandleComputationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. %d of %d algorithms completed.\n", successCount, len(sorted))
	for _, res := range sorted {
		if res.Err == nil {
			cli.DisplayEigenResult(res.Name, res.Result, res.Duration, cfg.Verbose, out)
		}
	}
	return apperrors.ExitSuccess
}
