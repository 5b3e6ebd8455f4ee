// Package eigen provides implementations of eigenvalue iteration algorithms.
// It exposes an `Iterator` interface that abstracts the underlying algorithm,
// allowing the power, inverse and dynamic-shift iterations to be used
// interchangeably. The package integrates cross-cutting concerns such as
// input validation, metrics and estimate streaming around the pure numerical
// cores.
package eigen

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"gonum.org/v1/gonum/mat"

	apperrors "github.com/agbru/eigencalc/internal/errors"
)

var (
	computationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eigencalc_computations_total",
			Help: "The total number of eigenvalue computations processed",
		},
		[]string{"algorithm", "status"},
	)
	computationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "eigencalc_computation_duration_seconds",
			Help: "The duration of eigenvalue computations in seconds",
		},
		[]string{"algorithm"},
	)
)

// EstimateUpdate is a data transfer object that carries one eigenvalue
// estimate out of a running iteration. It is sent over a channel from the
// iterator to the consumer to provide asynchronous convergence diagnostics.
type EstimateUpdate struct {
	// IteratorIndex is a unique identifier for the iterator instance,
	// allowing a consumer to distinguish between concurrent computations.
	IteratorIndex int
	// Iteration is the 1-based index of the iteration that produced the
	// estimate.
	Iteration int
	// Estimate is the eigenvalue estimate β recorded at that iteration.
	Estimate float64
}

// EstimateReporter is the functional type for a per-iteration estimate
// callback. The numerical cores use it to publish each recorded estimate
// without being coupled to the channel-based communication of the broader
// application.
//
// Parameters:
//   - iteration: The 1-based iteration index.
//   - estimate: The eigenvalue estimate recorded at that iteration.
type EstimateReporter func(iteration int, estimate float64)

// coreIterator defines the internal interface for a pure iteration algorithm.
type coreIterator interface {
	ComputeCore(ctx context.Context, reporter EstimateReporter, a mat.Matrix, x0 mat.Vector, opts Options) (*Result, error)
	Name() string
}

// Iterator defines the public interface for an eigenvalue iterator.
// It is the primary abstraction used by the orchestration layer to interact
// with the different iteration algorithms.
type Iterator interface {
	// Compute executes the eigenvalue iteration on matrix a starting from
	// vector x0. It is designed for safe concurrent execution and supports
	// cancellation through the provided context. Estimate updates are sent
	// asynchronously to the updates channel when one is supplied.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - updates: The channel for streaming estimate updates (may be nil).
	//   - iterIndex: A unique index for the iterator instance.
	//   - a: The square input matrix. Read-only; callers may reuse it across
	//     concurrent computations.
	//   - x0: The starting vector. Never mutated.
	//   - opts: Configuration options for the computation.
	//
	// Returns:
	//   - *Result: The eigenpair estimate and its history.
	//   - error: An error if one occurred (validation, numerical breakdown,
	//     singular shift, or context cancellation).
	Compute(ctx context.Context, updates chan<- EstimateUpdate, iterIndex int, a mat.Matrix, x0 mat.Vector, opts Options) (*Result, error)

	// Name returns the display name of the iteration algorithm.
	Name() string
}

// EigenIterator is an implementation of the Iterator interface that uses the
// Decorator design pattern. It wraps a coreIterator to add cross-cutting
// concerns: input validation, Prometheus metrics, tracing, and the adaptation
// of the estimate streaming mechanism.
type EigenIterator struct {
	core coreIterator
}

// NewIterator is a factory function that constructs and returns a new
// EigenIterator wrapping the given core algorithm. It panics if the core
// iterator is nil, ensuring system integrity.
//
// Parameters:
//   - core: The core iterator to be wrapped.
//
// Returns:
//   - Iterator: A new EigenIterator instance implementing Iterator.
func NewIterator(core coreIterator) Iterator {
	if core == nil {
		panic("eigen: the `coreIterator` implementation cannot be nil")
	}
	return &EigenIterator{core: core}
}

// Name returns the name of the encapsulated core algorithm.
func (e *EigenIterator) Name() string {
	return e.core.Name()
}

// Compute orchestrates one eigenvalue computation.
//
// It validates the inputs, adapts the updates channel into an
// EstimateReporter callback via the observer subject, and delegates the
// numerical work to the wrapped core. Metrics are recorded for every outcome.
//
// This method provides channel-based estimate streaming. For more flexible
// observer-based streaming, use ComputeWithObservers.
func (e *EigenIterator) Compute(ctx context.Context, updates chan<- EstimateUpdate, iterIndex int, a mat.Matrix, x0 mat.Vector, opts Options) (*Result, error) {
	subject := NewIterationSubject()
	if updates != nil {
		subject.Register(NewChannelObserver(updates))
	}
	return e.ComputeWithObservers(ctx, subject, iterIndex, a, x0, opts)
}

// ComputeWithObservers executes the computation, notifying every observer
// registered on the subject of each recorded estimate.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - subject: The observer subject to notify (may be nil).
//   - iterIndex: A unique index for the iterator instance.
//   - a: The square input matrix.
//   - x0: The starting vector.
//   - opts: Configuration options for the computation.
//
// Returns:
//   - *Result: The eigenpair estimate and its history.
//   - error: An error if one occurred.
func (e *EigenIterator) ComputeWithObservers(ctx context.Context, subject *IterationSubject, iterIndex int, a mat.Matrix, x0 mat.Vector, opts Options) (*Result, error) {
	if err := validateInputs(a, x0, opts); err != nil {
		computationsTotal.WithLabelValues(e.Name(), "invalid").Inc()
		return nil, err
	}

	var reporter EstimateReporter
	if subject != nil {
		reporter = func(iteration int, estimate float64) {
			subject.Notify(iterIndex, iteration, estimate)
		}
	}

	tracer := otel.Tracer("eigen")
	ctx, span := tracer.Start(ctx, "eigen.compute")
	defer span.End()

	start := time.Now()
	result, err := e.core.ComputeCore(ctx, reporter, a, x0, opts)
	computationDuration.WithLabelValues(e.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		status := "error"
		if apperrors.IsContextError(err) {
			status = "canceled"
		}
		computationsTotal.WithLabelValues(e.Name(), status).Inc()
		return nil, apperrors.ComputationError{Cause: err}
	}
	computationsTotal.WithLabelValues(e.Name(), "success").Inc()
	return result, nil
}

// validateInputs checks the structural preconditions shared by all
// algorithms: a square matrix, a dimension-matched starting vector, and a
// sane iteration budget. Numerical preconditions (nonzero start, invertible
// shifted matrix) are owned by the cores.
func validateInputs(a mat.Matrix, x0 mat.Vector, opts Options) error {
	if a == nil {
		return apperrors.NewValidationError("matrix", "matrix must not be nil", nil)
	}
	if x0 == nil {
		return apperrors.NewValidationError("x0", "starting vector must not be nil", nil)
	}
	r, c := a.Dims()
	if r != c {
		return apperrors.NewValidationError("matrix", "matrix must be square", []int{r, c})
	}
	if r == 0 {
		return apperrors.NewValidationError("matrix", "matrix must not be empty", nil)
	}
	if x0.Len() != r {
		return apperrors.NewValidationError("x0", "starting vector length must match the matrix dimension", x0.Len())
	}
	if opts.MaxIter < 0 {
		return apperrors.NewValidationError("maxiter", "iteration budget must not be negative", opts.MaxIter)
	}
	return nil
}
