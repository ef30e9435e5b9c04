package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteguard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
)

// Recovery returns middleware that turns a panic into a 500 INTERNAL_ERROR
// envelope and logs the stack. It should be first in the chain.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			ctxLogger, ok := logging.Lookup(c.Request.Context())
			if !ok {
				ctxLogger = logger
			}

			ctxLogger.Error("panic recovered",
				slog.String("error", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String("trace_id", dto.GetTraceID(c)),
			)

			dto.Abort(c, http.StatusInternalServerError, dto.CodeInternal, "an internal error occurred")
		}()

		c.Next()
	}
}
