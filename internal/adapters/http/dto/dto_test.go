package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

const testCorrelationID = "qt_0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req.WithContext(domain.ContextWithCorrelationID(req.Context(), testCorrelationID))

	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func TestStatusFor(t *testing.T) {
	want := map[domain.ErrorCode]int{
		domain.CodeVersionConflict:   http.StatusConflict,
		domain.CodeAlreadySent:       http.StatusUnprocessableEntity,
		domain.CodeStateInvalid:      http.StatusUnprocessableEntity,
		domain.CodeValidationFailed:  http.StatusUnprocessableEntity,
		domain.CodeCurrencyInvalid:   http.StatusUnprocessableEntity,
		domain.CodePricingInvalid:    http.StatusUnprocessableEntity,
		domain.CodeClientNotFound:    http.StatusNotFound,
		domain.CodeQuoteNotFound:     http.StatusNotFound,
		domain.CodePersistenceFailed: http.StatusServiceUnavailable,
		domain.CodeDatabaseTimeout:   http.StatusServiceUnavailable,
		domain.CodeInternal:          http.StatusInternalServerError,
	}

	require.Len(t, want, len(domain.Codes()), "every code has a status")

	for code, status := range want {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, status, StatusFor(domain.NewError(code, "x", nil)))
		})
	}

	assert.Equal(t, http.StatusOK, StatusFor(nil))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestHandleError_QuoteError(t *testing.T) {
	c, w := newContext("")

	HandleError(c, domain.NewVersionConflict("q-1", 4, 5).WithCorrelationID("qt_ffffffffffffffffffffffffffffffff"))

	assert.Equal(t, http.StatusConflict, w.Code)

	got := decode(t, w)
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "QUOTE_CONFLICT_VERSION", got["errorCode"])
	assert.Equal(t, "HIGH", got["severity"])
	assert.Equal(t, true, got["retryable"])
	assert.Equal(t, "qt_ffffffffffffffffffffffffffffffff", got["correlationId"], "the operation's ID wins")
	assert.Equal(t, map[string]any{"quoteId": "q-1", "expectedVersion": float64(4), "actualVersion": float64(5)}, got["details"])
}

func TestHandleError_StampsRequestCorrelationID(t *testing.T) {
	c, w := newContext("")

	HandleError(c, domain.NewQuoteNotFound("q-9"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, testCorrelationID, decode(t, w)["correlationId"])
}

func TestHandleError_ForeignErrorIsMasked(t *testing.T) {
	c, w := newContext("")

	HandleError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	got := decode(t, w)
	assert.Equal(t, "INTERNAL_ERROR", got["errorCode"])
	assert.Equal(t, "CRITICAL", got["severity"])
	assert.Equal(t, "an internal error occurred", got["message"])
	assert.Equal(t, testCorrelationID, got["correlationId"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, got["details"], "stack")
}

func TestAbort(t *testing.T) {
	c, w := newContext("")

	Abort(c, http.StatusUnauthorized, CodeUnauthenticated, "agent identity required")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	got := decode(t, w)
	assert.Equal(t, "UNAUTHENTICATED", got["errorCode"])
	assert.Equal(t, testCorrelationID, got["correlationId"])
	assert.Equal(t, map[string]any{}, got["details"])
	assert.NotContains(t, got, "severity")
}

func TestDate(t *testing.T) {
	var d Date

	require.NoError(t, json.Unmarshal([]byte(`"2026-09-01"`), &d))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2026-09-01T10:00:00+02:00"`), &d))
	assert.Equal(t, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), d.Time)

	require.Error(t, json.Unmarshal([]byte(`"01/09/2026"`), &d))
	require.Error(t, json.Unmarshal([]byte(`20260901`), &d))

	out, err := json.Marshal(Date{time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-09-05"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestBindAndValidate_Create(t *testing.T) {
	c, _ := newContext(`{
		"clientId": "client-a",
		"tripName": "Lisbon long weekend",
		"startDate": "2026-09-01",
		"endDate": "2026-09-05",
		"adults": 2,
		"currency": "EUR",
		"items": [
			{"category": "flight", "unitPrice": "1000", "quantity": 1},
			{"category": "hotel", "unitPrice": 250.5, "quantity": 2, "perTraveler": false}
		],
		"pricing": {"basePrice": "1501.00", "total": "1651.10"}
	}`)

	var req CreateQuoteRequest
	require.NoError(t, BindAndValidate(c, &req))

	p := req.ToPatch()
	require.NotNil(t, p.ClientID)
	assert.Equal(t, "client-a", *p.ClientID)
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), *p.EndDate)
	assert.Equal(t, 2, *p.Adults)
	assert.Nil(t, p.Children)
	require.NotNil(t, p.Items)
	assert.Len(t, *p.Items, 2)
	assert.Equal(t, domain.CategoryHotel, (*p.Items)[1].Category)
	assert.True(t, decimal.RequireFromString("250.5").Equal((*p.Items)[1].UnitPrice))
	assert.True(t, decimal.RequireFromString("1651.10").Equal(*p.Total))
	assert.Nil(t, p.Subtotal)
}

func TestBindAndValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target any
		kind   error
		fields map[string]any
	}{
		{"malformed json", `{"clientId":`, &CreateQuoteRequest{}, ErrBinding, map[string]any{}},
		{"wrong type", `{"clientId":"c","adults":"two"}`, &CreateQuoteRequest{}, ErrBinding, map[string]any{}},
		{"missing client", `{}`, &CreateQuoteRequest{}, ErrValidation, map[string]any{"clientId": "is required"}},
		{"blank client", `{"clientId":"   "}`, &CreateQuoteRequest{}, ErrValidation, map[string]any{"clientId": "must not be blank"}},
		{
			"item without category",
			`{"clientId":"c","items":[{"unitPrice":"1","quantity":1}]}`,
			&CreateQuoteRequest{},
			ErrValidation,
			map[string]any{"items[0].category": "is required"},
		},
		{"zero expected version", `{"expectedVersion":0}`, &UpdateQuoteRequest{}, ErrValidation, map[string]any{"expectedVersion": "must be at least 1"}},
		{"blank patch client", `{"clientId":""}`, &UpdateQuoteRequest{}, ErrValidation, map[string]any{"clientId": "must not be blank"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(tt.body)

			err := BindAndValidate(c, tt.target)
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.fields, ValidationErrors(err))
		})
	}
}

func TestUpdateRequest_ToPatchLeavesAbsentFieldsNil(t *testing.T) {
	c, _ := newContext(`{"notes":"window seats","expectedVersion":3}`)

	var req UpdateQuoteRequest
	require.NoError(t, BindAndValidate(c, &req))

	p := req.ToPatch()
	assert.Equal(t, "window seats", *p.Notes)
	assert.Equal(t, int64(3), *req.ExpectedVersion)
	assert.Nil(t, p.ClientID)
	assert.Nil(t, p.Items)
	assert.False(t, p.IsEmpty())
}

func TestFromQuote(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	q := &domain.Quote{
		ID:        "q-1",
		AgentID:   "agent-a",
		ClientID:  "client-a",
		State:     domain.StateDraft,
		Version:   3,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Adults:    2,
		Currency:  "EUR",
		Items: []domain.LineItem{
			{Category: domain.CategoryFlight, UnitPrice: decimal.NewFromInt(1000), Quantity: 1},
		},
		Pricing: domain.Pricing{
			BasePrice: decimal.NewFromInt(1000),
			Subtotal:  decimal.NewFromInt(1000),
			Total:     decimal.RequireFromString("1100.5"),
		},
		CreatedAt:      now,
		LastModifiedBy: "agent-a",
		LastModifiedAt: now,
	}

	out, err := json.Marshal(FromQuote(q))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, "DRAFT", got["state"])
	assert.Equal(t, float64(3), got["version"])
	assert.Equal(t, "2026-09-01", got["startDate"])

	pricing := got["pricing"].(map[string]any)
	assert.Equal(t, "1000.00", pricing["basePrice"])
	assert.Equal(t, "1100.50", pricing["total"])
	assert.Equal(t, "0.00", pricing["discount"])
	assert.NotContains(t, got, "expiresAt")
	assert.NotContains(t, got, "notes")
}
