package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Failure kinds. Every error returned by this package wraps exactly one.
var (
	// ErrUnavailable means the upstream could not answer: transport failure,
	// open circuit, exhausted retries, 429 or 5xx.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrRejected means the upstream answered with a 4xx.
	ErrRejected = errors.New("upstream rejected request")

	// ErrMalformedResponse means a 2xx body could not be decoded or translated.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// ErrorResponse is the error body shape returned by upstream services.
// Both {"error":{"code","message"}} and flat {"code","message"} are accepted.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetCode returns the nested code, falling back to the flat one.
func (e *ErrorResponse) GetCode() string {
	if e.Error.Code != "" {
		return e.Error.Code
	}

	return e.Code
}

// GetMessage returns the nested message, falling back to the flat one.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes body, returning nil when it carries nothing useful.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var resp ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil
	}

	if resp.GetCode() == "" && resp.GetMessage() == "" {
		return nil
	}

	return &resp
}

// UpstreamError describes a failed upstream call.
type UpstreamError struct {
	Service   string
	Operation string
	Status    int    // zero when no response arrived
	Code      string // upstream error code, if any
	Message   string

	kind  error
	cause error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Service, e.Operation, e.kind)
	if e.Status > 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}

	return msg
}

// Unwrap exposes both the failure kind and the underlying cause to errors.Is.
func (e *UpstreamError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}

	return []error{e.kind, e.cause}
}

// MapHTTPError turns a client error or non-2xx response into an *UpstreamError.
// It reads, but does not close, resp.Body.
func MapHTTPError(resp *http.Response, clientErr error, service, operation string) error {
	e := &UpstreamError{Service: service, Operation: operation, kind: ErrUnavailable}

	if clientErr != nil {
		e.cause = clientErr
		return e
	}

	if resp == nil {
		e.Message = "no response received"
		return e
	}

	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	e.Status = resp.StatusCode
	if parsed := ParseErrorResponse(resp.Body); parsed != nil {
		e.Code = parsed.GetCode()
		e.Message = parsed.GetMessage()
	}

	if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
		e.kind = ErrRejected
	}

	return e
}

// StatusOf returns the upstream HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status
	}

	return 0
}
