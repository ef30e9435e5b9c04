// Package clients provides the instrumented HTTP client used for downstream lookups.
package clients

import "errors"

// Transport-level failures. Adapters translate them before they reach the app layer.
var (
	// ErrCircuitOpen is returned without a network call while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's failure.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrServerStatus marks a 5xx response.
	ErrServerStatus = errors.New("downstream server error")

	ErrNilConfig          = errors.New("client config is required")
	ErrMissingServiceName = errors.New("client service name is required")
)
