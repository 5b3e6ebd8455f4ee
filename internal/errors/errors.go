// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// computation, numerical breakdown) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types that wrap a cause implement Unwrap() to support errors.Is()
// and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorNumeric  = 3   // Indicates a numerical breakdown or singular shift.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ComputationError encapsulates a computation error while preserving the
// original cause. This allows for structured error handling and inspection
// of what went wrong during an eigenvalue computation.
type ComputationError struct {
	// Cause is the underlying error that triggered this computation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e ComputationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e ComputationError) Unwrap() error { return e.Cause }

// SingularShiftError signals that the shifted matrix (A − σI) is singular or
// numerically singular, so no factorization exists. It is raised at
// factorization time, before the iteration loop runs, when the shift σ
// coincides (exactly or to working precision) with an eigenvalue of A.
type SingularShiftError struct {
	// Shift is the value of σ for which (A − σI) could not be factorized.
	Shift float64
	// Cause is the underlying factorization error, if any.
	Cause error
}

// Error returns the error message for a SingularShiftError.
func (e SingularShiftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("shifted matrix (A - %g*I) is singular: %v", e.Shift, e.Cause)
	}
	return fmt.Sprintf("shifted matrix (A - %g*I) is singular", e.Shift)
}

// Unwrap returns the underlying factorization error.
func (e SingularShiftError) Unwrap() error { return e.Cause }

// NewSingularShiftError creates a new SingularShiftError for the given shift.
//
// Parameters:
//   - shift: The shift value σ that made (A − σI) singular.
//   - cause: The underlying error that occurred (can be nil).
//
// Returns:
//   - error: A new SingularShiftError instance.
func NewSingularShiftError(shift float64, cause error) error {
	return SingularShiftError{Shift: shift, Cause: cause}
}

// BreakdownError signals a fatal numerical breakdown inside an iteration
// loop: the largest-modulus entry of the working vector is exactly zero, or
// the iterate degenerated to NaN/Inf. The computation is aborted with no
// partial result; there is no retry.
type BreakdownError struct {
	// Iteration is the 1-based iteration index at which the breakdown occurred.
	Iteration int
	// Message describes the breakdown condition.
	Message string
}

// Error returns the error message for a BreakdownError.
func (e BreakdownError) Error() string {
	return fmt.Sprintf("numerical breakdown at iteration %d: %s", e.Iteration, e.Message)
}

// NewBreakdownError creates a new BreakdownError.
//
// Parameters:
//   - iteration: The 1-based iteration index at which the breakdown occurred.
//   - format: A format string for the breakdown description.
//   - a: Arguments for the format string.
//
// Returns:
//   - error: A new BreakdownError instance.
func NewBreakdownError(iteration int, format string, a ...any) error {
	return BreakdownError{Iteration: iteration, Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an error due to invalid input validation.
// It is used for API request validation and iterator input validation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
//
// Parameters:
//   - field: The name of the field that failed validation.
//   - message: A description of why validation failed.
//   - value: The invalid value (optional).
//
// Returns:
//   - error: A new ValidationError instance.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the
// server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsNumericError reports whether the error chain contains a fatal numerical
// condition (singular shift or iteration breakdown).
func IsNumericError(err error) bool {
	var singular SingularShiftError
	var breakdown BreakdownError
	return errors.As(err, &singular) || errors.As(err, &breakdown)
}
