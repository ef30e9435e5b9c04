// Package dto provides the wire types of the quote HTTP API.
package dto

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
)

// Transport error codes, for failures that happen before a quote operation runs.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodePreconditionRequired = "PRECONDITION_REQUIRED"
	CodeRouteNotFound        = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeInternal             = string(domain.CodeInternal)
)

// ErrorResponse is the single error envelope of the API. Quote failures carry
// the full domain payload; transport failures reuse the same field names.
type ErrorResponse struct {
	Success       bool           `json:"success"`
	ErrorCode     string         `json:"errorCode"`
	Message       string         `json:"message"`
	Severity      string         `json:"severity,omitempty"`
	Retryable     bool           `json:"retryable"`
	CorrelationID string         `json:"correlationId,omitempty"`
	Timestamp     int64          `json:"timestamp"`
	Details       map[string]any `json:"details"`
	TraceID       string         `json:"traceId,omitempty"`
}

// FromQuoteError renders a domain error.
func FromQuoteError(qe *domain.QuoteError) *ErrorResponse {
	p := qe.Payload()

	return &ErrorResponse{
		Success:       false,
		ErrorCode:     string(p.ErrorCode),
		Message:       p.Message,
		Severity:      string(p.Severity),
		Retryable:     p.Retryable,
		CorrelationID: p.CorrelationID,
		Timestamp:     p.Timestamp,
		Details:       p.Details,
	}
}

// NewErrorResponse builds a transport-level error.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		ErrorCode: code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
		Details:   map[string]any{},
	}
}

// WithDetails sets the details map.
func (e *ErrorResponse) WithDetails(details map[string]any) *ErrorResponse {
	e.Details = details
	return e
}

// StatusFor maps an error to its HTTP status by category.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrForbidden):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetTraceID returns the active span's trace ID, or "".
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// ContextKeyErrorCode is the gin context key under which the written error code is kept for the access log.
const ContextKeyErrorCode = "error_code"

// HandleError writes err as the API envelope. Errors that are not quote errors
// become INTERNAL_ERROR stamped with the request's correlation ID. Internal
// errors are logged in full and rendered without their message or stack.
func HandleError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	qe, ok := domain.AsQuoteError(err)
	if !ok {
		qe = domain.NewInternal(err)
	}

	if qe.CorrelationID() == "" {
		qe = qe.WithCorrelationID(domain.CorrelationIDFromContext(ctx))
	}

	resp := FromQuoteError(qe)
	resp.TraceID = GetTraceID(c)

	if qe.Code() == domain.CodeInternal {
		logging.FromContext(ctx).ErrorContext(ctx, "internal error",
			slog.String("trace_id", resp.TraceID),
			slog.Any("error", err),
		)

		resp.Message = "an internal error occurred"
		delete(resp.Details, "stack")
	}

	c.Set(ContextKeyErrorCode, resp.ErrorCode)
	c.JSON(StatusFor(qe), resp)
}

// Abort stops the chain with a transport-level error.
func Abort(c *gin.Context, status int, code, message string) {
	AbortWith(c, status, NewErrorResponse(code, message))
}

// AbortWith stops the chain with resp, filling in correlation and trace IDs.
func AbortWith(c *gin.Context, status int, resp *ErrorResponse) {
	if resp.CorrelationID == "" {
		resp.CorrelationID = domain.CorrelationIDFromContext(c.Request.Context())
	}

	resp.TraceID = GetTraceID(c)
	c.Set(ContextKeyErrorCode, resp.ErrorCode)

	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(status, resp)
}
