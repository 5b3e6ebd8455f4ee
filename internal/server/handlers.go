package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/agbru/eigencalc/internal/eigen"
	apperrors "github.com/agbru/eigencalc/internal/errors"
	"github.com/agbru/eigencalc/internal/matgen"
)

// Response is the JSON payload returned by /compute.
type Response struct {
	// Algorithm is the registry key of the algorithm that ran.
	Algorithm string `json:"algorithm"`
	// Eigenvalue is the final estimate; omitted on failure.
	Eigenvalue float64 `json:"eigenvalue,omitempty"`
	// Vector is the final iterate, normalized to infinity-norm 1.
	Vector []float64 `json:"vector,omitempty"`
	// Iterations is the number of iterations performed.
	Iterations int `json:"iterations,omitempty"`
	// Converged reports whether a tolerance-based stop fired.
	Converged bool `json:"converged"`
	// Duration is the elapsed wall time of the computation.
	Duration string `json:"duration"`
	// Error carries the failure message, if any.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the standardized JSON error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ComputeParseError carries an HTTP status code alongside a parse failure
// message, so handlers can map bad query parameters to the right response.
type ComputeParseError struct {
	Message    string
	StatusCode int
}

func (e ComputeParseError) Error() string { return e.Message }

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is
// healthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleAlgorithms returns the list of available eigenvalue algorithms.
// It queries the internal registry and returns the keys as a JSON array.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"algorithms": s.factory.List(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// computeRequest holds the parsed parameters of one /compute call.
type computeRequest struct {
	algo string
	diag []float64
	opts eigen.Options
}

// handleCompute processes eigenvalue estimation requests.
//
// Query parameters:
//   - algo: the algorithm registry key (defaults to "power")
//   - diag: comma-separated spectrum of the generated test matrix (defaults
//     to the configured spectrum)
//   - shift, tol, maxiter: iteration controls (default to the configured
//     values)
//
// Numerical failures (singular shift, breakdown) are reported in the
// response body with a 200 status: the request itself was well-formed, the
// mathematics refused. Malformed parameters yield a 400.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := s.parseComputeParams(r)
	if err != nil {
		var parseErr ComputeParseError
		if errors.As(err, &parseErr) {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	iterator, err := s.factory.Get(req.algo)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := matgen.RandomUpperTriangular(req.diag, s.cfg.Spread, s.cfg.Seed)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	x0 := matgen.Ones(len(req.diag))

	// Create a context with timeout for the computation
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := iterator.Compute(ctx, nil, 0, a, x0, req.opts)
	duration := time.Since(start)

	var invalid apperrors.ValidationError
	if errors.As(err, &invalid) {
		s.writeErrorResponse(w, http.StatusBadRequest, invalid.Error())
		return
	}

	resp := buildComputeResponse(req.algo, result, duration, err)
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// parseComputeParams extracts and validates the computation parameters from
// the request, falling back to the server configuration for anything left
// unspecified.
func (s *Server) parseComputeParams(r *http.Request) (computeRequest, error) {
	q := r.URL.Query()

	req := computeRequest{
		algo: q.Get("algo"),
		opts: s.cfg.ToComputeOptions(),
	}
	if req.algo == "" {
		req.algo = "power" // Default algorithm
	}

	diagStr := q.Get("diag")
	if diagStr == "" {
		diagStr = s.cfg.Diag
	}
	diag, err := matgen.ParseDiagonal(diagStr)
	if err != nil {
		return computeRequest{}, ComputeParseError{
			Message:    "Invalid 'diag' parameter: " + err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}
	req.diag = diag

	if v := q.Get("shift"); v != "" {
		shift, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return computeRequest{}, ComputeParseError{
				Message:    "Invalid 'shift' parameter: must be a number",
				StatusCode: http.StatusBadRequest,
			}
		}
		req.opts.Shift = shift
	}
	if v := q.Get("tol"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || tol < 0 {
			return computeRequest{}, ComputeParseError{
				Message:    "Invalid 'tol' parameter: must be a non-negative number",
				StatusCode: http.StatusBadRequest,
			}
		}
		req.opts.Tol = tol
	}
	if v := q.Get("maxiter"); v != "" {
		maxiter, err := strconv.Atoi(v)
		if err != nil || maxiter <= 0 {
			return computeRequest{}, ComputeParseError{
				Message:    "Invalid 'maxiter' parameter: must be a positive integer",
				StatusCode: http.StatusBadRequest,
			}
		}
		req.opts.MaxIter = maxiter
	}

	return req, nil
}

// buildComputeResponse constructs the response struct for a computation.
//
// Parameters:
//   - algo: The algorithm registry key used.
//   - result: The computation result (may be nil if an error occurred).
//   - duration: The time taken for the computation.
//   - err: Any error that occurred during the computation.
//
// Returns:
//   - Response: The constructed response struct.
func buildComputeResponse(algo string, result *eigen.Result, duration time.Duration, err error) Response {
	resp := Response{
		Algorithm: algo,
		Duration:  duration.String(),
	}

	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	resp.Eigenvalue = result.Value
	resp.Iterations = result.Iterations
	resp.Converged = result.Converged
	resp.Vector = vectorSlice(result.Vector)
	return resp
}

func vectorSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// writeJSONResponse helper function to write a JSON response with the
// correct content type.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
