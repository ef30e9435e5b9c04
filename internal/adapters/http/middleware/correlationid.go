package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
)

// HeaderCorrelationID carries the operation correlation ID.
const HeaderCorrelationID = "X-Correlation-ID"

// CorrelationID returns middleware that opens a quote operation correlation
// ID for every request. The ID is always freshly generated so that each
// operation is uniquely traceable; an inbound X-Correlation-ID is kept in the
// logs as caller_correlation_id. The ID is echoed in the response header and
// stored in the request context, where the operation tracker picks it up.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := domain.NewCorrelationID()

		ctx := domain.ContextWithCorrelationID(c.Request.Context(), id)
		ctx = logging.WithCorrelationID(ctx, id)

		if caller := c.GetHeader(HeaderCorrelationID); caller != "" {
			ctx = logging.With(ctx, slog.String("caller_correlation_id", caller))
		}

		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderCorrelationID, id)

		c.Next()
	}
}

// GetCorrelationID returns the correlation ID opened for the request, or "".
func GetCorrelationID(c *gin.Context) string {
	return domain.CorrelationIDFromContext(c.Request.Context())
}
