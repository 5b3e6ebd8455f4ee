package apperrors

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestHandleComputationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"nil error", nil, ExitSuccess, ""},
		{"timeout", context.DeadlineExceeded, ExitErrorTimeout, "Timeout"},
		{"canceled", context.Canceled, ExitErrorCanceled, "Canceled"},
		{"singular shift", NewSingularShiftError(0.6, nil), ExitErrorNumeric, "Numerical"},
		{"breakdown", NewBreakdownError(3, "pivot entry is 0"), ExitErrorNumeric, "Numerical"},
		{"wrapped breakdown", ComputationError{Cause: NewBreakdownError(3, "pivot entry is 0")}, ExitErrorNumeric, "Numerical"},
		{"config", NewConfigError("bad tolerance"), ExitErrorConfig, "Configuration"},
		{"generic", errors.New("boom"), ExitErrorGeneric, "unexpected"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := HandleComputationError(tc.err, 0, &buf, nil)
			if code != tc.wantCode {
				t.Errorf("exit code = %d, want %d", code, tc.wantCode)
			}
			if tc.wantText != "" && !strings.Contains(buf.String(), tc.wantText) {
				t.Errorf("output %q does not mention %q", buf.String(), tc.wantText)
			}
		})
	}
}

func TestHandleComputationErrorDuration(t *testing.T) {
	var buf bytes.Buffer
	HandleComputationError(context.DeadlineExceeded, 3*time.Second, &buf, DefaultColorProvider{})
	if !strings.Contains(buf.String(), "after 3s") {
		t.Errorf("output %q does not mention the elapsed duration", buf.String())
	}
}
