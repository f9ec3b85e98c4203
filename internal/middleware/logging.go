package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logging returns a middleware that logs every request.
// It logs the method, path, status, user ID and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			userID := ""
			if user := CurrentUser(r.Context()); user != nil {
				userID = user.ID
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"user_id", userID,
				"remote_addr", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("Request failed", attrs...)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("Request rejected", attrs...)
			default:
				logger.Info("Request completed", attrs...)
			}
		})
	}
}
