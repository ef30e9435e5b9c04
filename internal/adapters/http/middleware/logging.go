package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteguard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
)

// Logging writes one access line per API request at a level derived from the
// status: 5xx at error, 4xx at warn. Quote routes add quote_id, and failed
// requests add the error_code written by dto. Operational routes under /-/
// are not logged.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()

		log, ok := logging.Lookup(c.Request.Context())
		if !ok {
			log = logger
		}

		log.Debug("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.RequestURI()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.RequestURI()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		}

		if agent := AgentID(c); agent != "" {
			attrs = append(attrs, slog.String("agent_id", agent))
		}

		if id := c.Param("id"); id != "" {
			attrs = append(attrs, slog.String("quote_id", id))
		}

		if code := c.GetString(dto.ContextKeyErrorCode); code != "" {
			attrs = append(attrs, slog.String("error_code", code))
		}

		log.LogAttrs(c.Request.Context(), accessLevel(status), "request completed", attrs...)
	}
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
