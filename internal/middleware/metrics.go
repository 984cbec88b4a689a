package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fittrack/internal/metrics"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// MetricsMiddleware records request counts and latencies under endpoint.
// A panicking handler is logged and answered with 500.
func MetricsMiddleware(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					slog.Default().Error("Handler panicked", "endpoint", endpoint, "method", r.Method, "path", r.URL.Path, "panic", p)
					if !rec.wroteHeader {
						http.Error(rec, "internal error", http.StatusInternalServerError)
					} else {
						rec.status = http.StatusInternalServerError
					}
				}

				status := strconv.Itoa(rec.status)
				metrics.HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
				metrics.HTTPRequestDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// WrapHandler wraps a HandlerFunc with MetricsMiddleware
func WrapHandler(endpoint string, handler http.HandlerFunc) http.Handler {
	return MetricsMiddleware(endpoint)(handler)
}
