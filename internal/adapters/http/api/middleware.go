// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/podsmith/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics. Failed
// requests are labelled with the error code written by writeError, so
// invalid_group and empty_tier_set show up apart from other bad requests.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, durationMs)

		if wrapped.statusCode < http.StatusBadRequest {
			return
		}
		kind := wrapped.kind
		if kind == "" {
			kind = kindForStatus(wrapped.statusCode)
		}
		metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
		metrics.RecordErrorByType(kind, severity(wrapped.statusCode))
		metrics.RecordErrorLatency("http", kind, durationMs)
	}
}

// kindForStatus names errors that did not go through writeError.
func kindForStatus(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	}
	if code >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "bad_request"
}

// severity is high for server faults and low for rejected input.
func severity(code int) string {
	if code >= http.StatusInternalServerError {
		return "high"
	}
	return "low"
}

// responseWriter captures the status code and error kind of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	kind       string
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) setKind(kind string) { rw.kind = kind }

// kindSetter is implemented by writers that record the API error code.
type kindSetter interface {
	setKind(kind string)
}
