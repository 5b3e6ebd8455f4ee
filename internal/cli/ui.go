// Package cli provides the command-line presentation layer: execution
// banners, live estimate display, result formatting and convergence plots.
package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/eigencalc/internal/eigen"
	"github.com/agbru/eigencalc/internal/ui"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds
// for durations less than a second, and the default string representation
// otherwise. This approach provides a more human-readable output for short
// durations.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// EstimateRefreshRate defines the refresh frequency of the live estimate
	// line. 200ms keeps the terminal responsive without flooding it.
	EstimateRefreshRate = 200 * time.Millisecond
	// HistoryColumns is the number of estimates printed per line in verbose
	// history output.
	HistoryColumns = 5
)

// Color functions return ANSI escape codes from the current theme.
// They delegate to the ui package to reduce coupling.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.GetCurrentTheme().Primary }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.GetCurrentTheme().Bold }

// CLIColorProvider adapts the ui theme to the apperrors.ColorProvider
// interface used by the error handler.
type CLIColorProvider struct{}

// Yellow returns the warning color from the current theme.
func (CLIColorProvider) Yellow() string { return ColorYellow() }

// Reset returns the reset escape code from the current theme.
func (CLIColorProvider) Reset() string { return ColorReset() }

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows the DisplayEstimates function to be decoupled from a specific
// spinner implementation, facilitating easier testing.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner wraps spinner.Spinner to implement the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as EstimateRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], EstimateRefreshRate, options...)
	return &realSpinner{s}
}

// EstimateState tracks the most recent eigenvalue estimate and iteration
// count reported by each running iterator, so that a single status line can
// summarize all concurrent runs.
type EstimateState struct {
	estimates  []float64
	iterations []int
	seen       []bool
}

// NewEstimateState creates an EstimateState for numIterators concurrent
// iterators.
func NewEstimateState(numIterators int) *EstimateState {
	return &EstimateState{
		estimates:  make([]float64, numIterators),
		iterations: make([]int, numIterators),
		seen:       make([]bool, numIterators),
	}
}

// Update records the latest estimate for one iterator. Out-of-range indices
// are ignored.
func (es *EstimateState) Update(index, iteration int, estimate float64) {
	if index < 0 || index >= len(es.estimates) {
		return
	}
	es.estimates[index] = estimate
	es.iterations[index] = iteration
	es.seen[index] = true
}

// Summary renders a compact one-line view of all iterator states.
func (es *EstimateState) Summary() string {
	var b strings.Builder
	for i := range es.estimates {
		if i > 0 {
			b.WriteString("  ")
		}
		if !es.seen[i] {
			fmt.Fprintf(&b, "#%d: ...", i)
			continue
		}
		fmt.Fprintf(&b, "#%d: β=%.8g (k=%d)", i, es.estimates[i], es.iterations[i])
	}
	return b.String()
}

// DisplayEstimates manages the asynchronous display of a spinner carrying the
// latest eigenvalue estimates. It is designed to run in a dedicated goroutine
// and returns when the updates channel is closed.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - updates: The channel receiving per-iteration estimate updates.
//   - numIterators: The number of concurrent iterators reporting.
//   - out: The io.Writer to which the status line is rendered.
func DisplayEstimates(wg *sync.WaitGroup, updates <-chan eigen.EstimateUpdate, numIterators int, out io.Writer) {
	defer wg.Done()
	if numIterators <= 0 {
		for range updates { // Drain the channel
		}
		return
	}

	state := NewEstimateState(numIterators)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(EstimateRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				if !spinnerStopped {
					s.Stop()
					spinnerStopped = true
				}
				fmt.Fprintf(out, "Estimates: %s\n", state.Summary())
				return
			}
			state.Update(update.IteratorIndex, update.Iteration, update.Estimate)
		case <-ticker.C:
			s.UpdateSuffix(" " + state.Summary())
		}
	}
}

// observedRate returns the average ratio of successive estimate changes over
// the tail of a history, a cheap stand-in for the asymptotic convergence
// rate when the limit eigenvalue is unknown. Returns NaN when the history is
// too short to measure.
func observedRate(history []float64) float64 {
	if len(history) < 4 {
		return math.NaN()
	}
	var sum float64
	var count int
	for k := len(history) - 3; k < len(history); k++ {
		prev := math.Abs(history[k-1] - history[k-2])
		cur := math.Abs(history[k] - history[k-1])
		if prev == 0 {
			continue
		}
		sum += cur / prev
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
