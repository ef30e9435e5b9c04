// Package domain contains the quote document, its lifecycle rules and the error taxonomy.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
	"maps"
	"runtime/debug"
	"time"
)

// Sentinel categories for use with errors.Is().
// Every QuoteError matches exactly one of them, derived from its code.
var (
	// ErrNotFound indicates the requested entity does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the caller acted on a stale version.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates the submitted document failed a business rule.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the lifecycle state does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a transient storage failure.
	ErrUnavailable = errors.New("unavailable")

	// ErrInternal indicates an unexpected failure.
	ErrInternal = errors.New("internal error")
)

// ErrorCode identifies an error kind. The set is closed.
type ErrorCode string

const (
	CodeVersionConflict   ErrorCode = "QUOTE_CONFLICT_VERSION"
	CodeAlreadySent       ErrorCode = "QUOTE_ALREADY_SENT"
	CodeStateInvalid      ErrorCode = "QUOTE_STATE_INVALID"
	CodeValidationFailed  ErrorCode = "QUOTE_VALIDATION_FAILED"
	CodeCurrencyInvalid   ErrorCode = "CURRENCY_INVALID"
	CodePricingInvalid    ErrorCode = "PRICING_VALIDATION_FAILED"
	CodeClientNotFound    ErrorCode = "CLIENT_NOT_FOUND"
	CodeQuoteNotFound     ErrorCode = "QUOTE_NOT_FOUND"
	CodePersistenceFailed ErrorCode = "QUOTE_PERSISTENCE_FAILED"
	CodeDatabaseTimeout   ErrorCode = "DATABASE_TIMEOUT"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// Severity ranks how urgently an error needs attention.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

type codeSpec struct {
	severity  Severity
	retryable bool
	category  error
}

var codeSpecs = map[ErrorCode]codeSpec{
	CodeVersionConflict:   {SeverityHigh, true, ErrConflict},
	CodeAlreadySent:       {SeverityCritical, false, ErrForbidden},
	CodeStateInvalid:      {SeverityHigh, false, ErrForbidden},
	CodeValidationFailed:  {SeverityHigh, false, ErrValidation},
	CodeCurrencyInvalid:   {SeverityHigh, false, ErrValidation},
	CodePricingInvalid:    {SeverityHigh, false, ErrValidation},
	CodeClientNotFound:    {SeverityHigh, false, ErrNotFound},
	CodeQuoteNotFound:     {SeverityHigh, false, ErrNotFound},
	CodePersistenceFailed: {SeverityCritical, true, ErrUnavailable},
	CodeDatabaseTimeout:   {SeverityHigh, true, ErrUnavailable},
	CodeInternal:          {SeverityCritical, false, ErrInternal},
}

// Codes returns every known error code.
func Codes() []ErrorCode {
	return []ErrorCode{
		CodeVersionConflict, CodeAlreadySent, CodeStateInvalid, CodeValidationFailed,
		CodeCurrencyInvalid, CodePricingInvalid, CodeClientNotFound, CodeQuoteNotFound,
		CodePersistenceFailed, CodeDatabaseTimeout, CodeInternal,
	}
}

// Severity returns the fixed severity of the code.
func (c ErrorCode) Severity() Severity {
	if spec, ok := codeSpecs[c]; ok {
		return spec.severity
	}

	return SeverityCritical
}

// Retryable reports whether resubmitting the same intent can succeed.
func (c ErrorCode) Retryable() bool {
	return codeSpecs[c].retryable
}

// QuoteError is the structured error surfaced to callers.
// It is immutable once constructed; WithCorrelationID returns a copy.
type QuoteError struct {
	code          ErrorCode
	message       string
	correlationID string
	timestamp     int64
	details       map[string]any
	cause         error
}

// NewError constructs a QuoteError. Severity and retryability come from the code.
func NewError(code ErrorCode, message string, details map[string]any) *QuoteError {
	if _, ok := codeSpecs[code]; !ok {
		code = CodeInternal
	}

	return &QuoteError{
		code:      code,
		message:   message,
		timestamp: time.Now().UnixMilli(),
		details:   maps.Clone(details),
	}
}

// Wrap constructs a QuoteError carrying an underlying cause.
func Wrap(code ErrorCode, message string, cause error, details map[string]any) *QuoteError {
	e := NewError(code, message, details)
	e.cause = cause

	return e
}

// NewVersionConflict reports a stale expected version.
func NewVersionConflict(quoteID string, expected, actual int64) *QuoteError {
	return NewError(CodeVersionConflict,
		fmt.Sprintf("quote %s was modified: expected version %d, current version %d", quoteID, expected, actual),
		map[string]any{
			"quoteId":         quoteID,
			"expectedVersion": expected,
			"actualVersion":   actual,
		})
}

// NewFieldError reports a single offending field.
func NewFieldError(code ErrorCode, field, message string) *QuoteError {
	return NewError(code, message, map[string]any{"field": field})
}

// NewQuoteNotFound reports a missing or foreign quote.
func NewQuoteNotFound(quoteID string) *QuoteError {
	return NewError(CodeQuoteNotFound, fmt.Sprintf("quote %s not found", quoteID),
		map[string]any{"quoteId": quoteID})
}

// NewClientNotFound reports a client that does not exist for the acting agent.
func NewClientNotFound(clientID string) *QuoteError {
	return NewError(CodeClientNotFound, fmt.Sprintf("client %s not found", clientID),
		map[string]any{"clientId": clientID, "field": "clientId"})
}

// NewInternal wraps an unexpected failure with a stack trace for triage.
func NewInternal(cause error) *QuoteError {
	msg := "internal error"
	if cause != nil {
		msg = cause.Error()
	}

	return Wrap(CodeInternal, msg, cause, map[string]any{"stack": string(debug.Stack())})
}

// Error implements the error interface.
func (e *QuoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap returns the underlying cause, if any.
func (e *QuoteError) Unwrap() error {
	return e.cause
}

// Is matches the sentinel category of the code.
func (e *QuoteError) Is(target error) bool {
	return codeSpecs[e.code].category == target
}

// Code returns the taxonomy code.
func (e *QuoteError) Code() ErrorCode { return e.code }

// Message returns the human-readable message.
func (e *QuoteError) Message() string { return e.message }

// Severity returns the severity fixed by the code.
func (e *QuoteError) Severity() Severity { return e.code.Severity() }

// Retryable reports whether the client may retry, as fixed by the code.
func (e *QuoteError) Retryable() bool { return e.code.Retryable() }

// CorrelationID returns the stamped correlation ID, or "" before stamping.
func (e *QuoteError) CorrelationID() string { return e.correlationID }

// Timestamp returns the creation time in Unix milliseconds.
func (e *QuoteError) Timestamp() int64 { return e.timestamp }

// Details returns a copy of the structured details.
func (e *QuoteError) Details() map[string]any { return maps.Clone(e.details) }

// Detail returns a single details entry.
func (e *QuoteError) Detail(key string) (any, bool) {
	v, ok := e.details[key]
	return v, ok
}

// WithCorrelationID returns a copy stamped with id. An already stamped error is returned unchanged.
func (e *QuoteError) WithCorrelationID(id string) *QuoteError {
	if e.correlationID != "" || id == "" {
		return e
	}

	cp := *e
	cp.correlationID = id

	return &cp
}

// ErrorPayload is the stable wire shape of a QuoteError.
type ErrorPayload struct {
	Success       bool           `json:"success"`
	ErrorCode     ErrorCode      `json:"errorCode"`
	Message       string         `json:"message"`
	Severity      Severity       `json:"severity"`
	Retryable     bool           `json:"retryable"`
	CorrelationID string         `json:"correlationId"`
	Timestamp     int64          `json:"timestamp"`
	Details       map[string]any `json:"details"`
}

// Payload renders the error as its wire contract.
func (e *QuoteError) Payload() ErrorPayload {
	details := e.Details()
	if details == nil {
		details = map[string]any{}
	}

	return ErrorPayload{
		Success:       false,
		ErrorCode:     e.code,
		Message:       e.message,
		Severity:      e.Severity(),
		Retryable:     e.Retryable(),
		CorrelationID: e.correlationID,
		Timestamp:     e.timestamp,
		Details:       details,
	}
}

// AsQuoteError extracts a QuoteError from the chain.
func AsQuoteError(err error) (*QuoteError, bool) {
	var qe *QuoteError
	if errors.As(err, &qe) {
		return qe, true
	}

	return nil, false
}

// CodeOf returns the code of err, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	if qe, ok := AsQuoteError(err); ok {
		return qe.code
	}

	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	qe, ok := AsQuoteError(err)
	return ok && qe.code == code
}

// IsRetryable reports whether err is a retryable QuoteError.
func IsRetryable(err error) bool {
	qe, ok := AsQuoteError(err)
	return ok && qe.Retryable()
}
