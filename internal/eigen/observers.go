// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file contains concrete observer implementations for estimate streaming.
package eigen

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver adapts the Observer pattern to channel-based communication.
// It forwards every estimate to a channel consumed by UI code.
type ChannelObserver struct {
	channel chan<- EstimateUpdate
}

// NewChannelObserver creates an observer that sends updates to a channel.
// The channel should have sufficient buffer capacity to avoid dropping
// updates.
//
// Parameters:
//   - ch: The channel to send estimate updates to. If nil, updates are
//     discarded.
//
// Returns:
//   - *ChannelObserver: A new observer that forwards to the channel.
func NewChannelObserver(ch chan<- EstimateUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update implements IterationObserver by sending to the channel.
// Uses a non-blocking send to avoid stalling the numerical loop when the
// channel is full; a dropped update only thins the live display, the full
// history is still returned in the Result.
func (o *ChannelObserver) Update(iterIndex int, iteration int, estimate float64) {
	if o.channel == nil {
		return
	}
	update := EstimateUpdate{IteratorIndex: iterIndex, Iteration: iteration, Estimate: estimate}
	select {
	case o.channel <- update:
	default:
		// Channel full, drop update.
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs estimates using zerolog. It throttles output to every
// n-th iteration to avoid log spam on long linear-convergence runs.
type LoggingObserver struct {
	logger zerolog.Logger
	every  int
	mu     sync.Mutex
	last   map[int]int // Last logged iteration per iterator index.
}

// NewLoggingObserver creates an observer that logs estimates.
// It logs the first iteration and then at most one line per `every`
// iterations for each iterator instance.
//
// Parameters:
//   - logger: The zerolog logger to use.
//   - every: The logging period in iterations; values below 1 log every
//     iteration.
//
// Returns:
//   - *LoggingObserver: A new logging observer.
func NewLoggingObserver(logger zerolog.Logger, every int) *LoggingObserver {
	if every < 1 {
		every = 1
	}
	return &LoggingObserver{
		logger: logger,
		every:  every,
		last:   make(map[int]int),
	}
}

// Update implements IterationObserver by logging throttled estimates.
func (o *LoggingObserver) Update(iterIndex int, iteration int, estimate float64) {
	o.mu.Lock()
	last, seen := o.last[iterIndex]
	if seen && iteration-last < o.every {
		o.mu.Unlock()
		return
	}
	o.last[iterIndex] = iteration
	o.mu.Unlock()

	o.logger.Debug().
		Int("iterator", iterIndex).
		Int("iteration", iteration).
		Float64("estimate", estimate).
		Msg("eigenvalue estimate")
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer
// ─────────────────────────────────────────────────────────────────────────────

var (
	iterationsObserved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eigencalc_iterations_total",
			Help: "The total number of iteration steps performed",
		},
		[]string{"algorithm"},
	)
	currentEstimate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eigencalc_current_estimate",
			Help: "The most recent eigenvalue estimate per algorithm",
		},
		[]string{"algorithm"},
	)
)

// MetricsObserver exports estimate progress as Prometheus metrics: a counter
// of iteration steps and a gauge holding the latest estimate, both labeled by
// algorithm name.
type MetricsObserver struct {
	algorithm string
}

// NewMetricsObserver creates an observer that records metrics for the given
// algorithm name.
//
// Parameters:
//   - algorithm: The label value identifying the algorithm.
//
// Returns:
//   - *MetricsObserver: A new metrics observer.
func NewMetricsObserver(algorithm string) *MetricsObserver {
	return &MetricsObserver{algorithm: algorithm}
}

// Update implements IterationObserver by bumping the iteration counter and
// setting the estimate gauge.
func (o *MetricsObserver) Update(_ int, _ int, estimate float64) {
	iterationsObserved.WithLabelValues(o.algorithm).Inc()
	currentEstimate.WithLabelValues(o.algorithm).Set(estimate)
}
