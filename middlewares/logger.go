package middlewares

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
)

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
			fields := []any{
				"method", p.Request.Method,
				"path", p.URL.RequestURI(),
				"status", p.StatusCode,
				"bytes", p.Size,
				"duration", time.Since(p.TimeStamp).Round(time.Microsecond),
				"remote", p.Request.RemoteAddr,
			}
			switch {
			case p.StatusCode >= 500:
				logger.Error("request", fields...)
			case p.StatusCode >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}
