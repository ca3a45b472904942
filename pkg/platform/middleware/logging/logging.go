// Package logging emits one structured log line per request with timing, and
// exposes the duration in an X-Process-Time header.
package logging

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"stash/internal/auth/device"
	"stash/pkg/requestcontext"
)

// statusRecorder captures the status code and stamps the timing header just
// before headers are flushed; after WriteHeader it is too late to set it.
type statusRecorder struct {
	http.ResponseWriter
	start   time.Time
	status  int
	written bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.written {
		durationMs := float64(time.Since(r.start).Microseconds()) / 1000.0
		r.Header().Set("X-Process-Time", strconv.FormatFloat(durationMs, 'f', 2, 64))
		r.status = status
		r.written = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// Middleware logs request completion with method, path, status, duration, and
// client metadata. Runs after requestid and metadata middleware.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			rec := &statusRecorder{ResponseWriter: w, start: start, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.InfoContext(ctx, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"client_ip", requestcontext.ClientIP(ctx),
				"device", device.ParseUserAgent(requestcontext.UserAgent(ctx)),
				"request_id", requestcontext.RequestID(ctx),
			)
		})
	}
}
