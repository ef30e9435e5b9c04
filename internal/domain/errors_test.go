package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
		ErrInternal,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestErrorCode_Taxonomy(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		severity  Severity
		retryable bool
		category  error
	}{
		{CodeVersionConflict, SeverityHigh, true, ErrConflict},
		{CodeAlreadySent, SeverityCritical, false, ErrForbidden},
		{CodeStateInvalid, SeverityHigh, false, ErrForbidden},
		{CodeValidationFailed, SeverityHigh, false, ErrValidation},
		{CodeCurrencyInvalid, SeverityHigh, false, ErrValidation},
		{CodePricingInvalid, SeverityHigh, false, ErrValidation},
		{CodeClientNotFound, SeverityHigh, false, ErrNotFound},
		{CodeQuoteNotFound, SeverityHigh, false, ErrNotFound},
		{CodePersistenceFailed, SeverityCritical, true, ErrUnavailable},
		{CodeDatabaseTimeout, SeverityHigh, true, ErrUnavailable},
		{CodeInternal, SeverityCritical, false, ErrInternal},
	}

	require.Len(t, tests, len(Codes()), "every code must be covered")

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewError(tt.code, "boom", nil)

			assert.Equal(t, tt.code, err.Code())
			assert.Equal(t, tt.severity, err.Severity())
			assert.Equal(t, tt.retryable, err.Retryable())
			assert.ErrorIs(t, err, tt.category)
		})
	}
}

func TestNewError_UnknownCodeBecomesInternal(t *testing.T) {
	err := NewError(ErrorCode("MADE_UP"), "x", nil)

	assert.Equal(t, CodeInternal, err.Code())
	assert.Equal(t, SeverityCritical, err.Severity())
}

func TestNewVersionConflict_Details(t *testing.T) {
	err := NewVersionConflict("q-1", 5, 6)

	assert.Equal(t, CodeVersionConflict, err.Code())
	assert.True(t, err.Retryable())
	assert.Equal(t, map[string]any{
		"quoteId":         "q-1",
		"expectedVersion": int64(5),
		"actualVersion":   int64(6),
	}, err.Details())
	assert.Contains(t, err.Error(), "expected version 5")
}

func TestNewFieldError_Details(t *testing.T) {
	err := NewFieldError(CodeValidationFailed, "endDate", "end date precedes start date")

	field, ok := err.Detail("field")
	require.True(t, ok)
	assert.Equal(t, "endDate", field)
}

func TestNewInternal_CarriesStack(t *testing.T) {
	cause := errors.New("nil map write")
	err := NewInternal(cause)

	assert.Equal(t, CodeInternal, err.Code())
	require.ErrorIs(t, err, cause)

	stack, ok := err.Detail("stack")
	require.True(t, ok)
	assert.Contains(t, stack, "goroutine")
}

func TestQuoteError_IsImmutable(t *testing.T) {
	original := NewError(CodeValidationFailed, "bad", map[string]any{"field": "adults"})
	ts := original.Timestamp()

	details := original.Details()
	details["field"] = "tampered"

	stamped := original.WithCorrelationID("qt_abc")

	assert.Empty(t, original.CorrelationID())
	assert.Equal(t, "qt_abc", stamped.CorrelationID())
	assert.Equal(t, ts, stamped.Timestamp())

	field, _ := original.Detail("field")
	assert.Equal(t, "adults", field)

	t.Run("restamping keeps the first correlation ID", func(t *testing.T) {
		again := stamped.WithCorrelationID("qt_other")
		assert.Same(t, stamped, again)
	})
}

func TestQuoteError_Payload(t *testing.T) {
	err := NewVersionConflict("q-9", 5, 6).WithCorrelationID("qt_0123")

	raw, jerr := json.Marshal(err.Payload())
	require.NoError(t, jerr)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, false, got["success"])
	assert.Equal(t, "QUOTE_CONFLICT_VERSION", got["errorCode"])
	assert.Equal(t, "HIGH", got["severity"])
	assert.Equal(t, true, got["retryable"])
	assert.Equal(t, "qt_0123", got["correlationId"])
	assert.InDelta(t, float64(err.Timestamp()), got["timestamp"], 0)
	assert.NotEmpty(t, got["message"])

	details, ok := got["details"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 6, details["actualVersion"], 0)

	t.Run("nil details render as empty object", func(t *testing.T) {
		p := NewError(CodeInternal, "x", nil).Payload()
		assert.NotNil(t, p.Details)
	})
}

func TestCodeHelpers(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewQuoteNotFound("q-2"))

	assert.Equal(t, CodeQuoteNotFound, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeQuoteNotFound))
	assert.False(t, IsCode(wrapped, CodeClientNotFound))
	assert.False(t, IsRetryable(wrapped))
	assert.True(t, IsRetryable(NewError(CodeDatabaseTimeout, "slow", nil)))

	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestNewCorrelationID(t *testing.T) {
	const n = 200

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)

	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			id := NewCorrelationID()

			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Len(t, seen, n, "correlation IDs must be unique")

	for id := range seen {
		assert.Regexp(t, CorrelationIDPattern, id)
	}
}

func TestCorrelationIDContext(t *testing.T) {
	ctx := ContextWithCorrelationID(t.Context(), "qt_ffff")

	assert.Equal(t, "qt_ffff", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(t.Context()))
}
