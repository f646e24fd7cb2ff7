package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// HTTPLogger logs HTTP requests with response status, duration, and size.
// It stores a request-scoped logger carrying request_id in the request context.
func HTTPLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		logger := log.Logger.With().Str("request_id", reqID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Msg("HTTP request received")

		next.ServeHTTP(wrapped, r)

		var event *zerolog.Event
		switch {
		case wrapped.statusCode >= 500:
			event = logger.Error()
		case wrapped.statusCode >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", wrapped.statusCode).
			Dur("duration_ms", time.Since(start)).
			Int64("bytes", wrapped.written).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP request completed")
	})
}
