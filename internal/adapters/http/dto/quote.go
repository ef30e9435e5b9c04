package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

// DateLayout is the calendar-date wire format.
const DateLayout = time.DateOnly

// Date is a calendar date. It accepts "2026-09-01" or a full RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD or RFC 3339", s)
	}

	d.Time = t.UTC()

	return nil
}

// LineItem is a priced itinerary component.
type LineItem struct {
	Category    string          `json:"category"              validate:"required"`
	Description string          `json:"description,omitempty" validate:"max=500"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	PerTraveler bool            `json:"perTraveler,omitempty"`
}

// PricingFields carries the caller's computed money fields. Absent fields are left as stored.
type PricingFields struct {
	BasePrice          *decimal.Decimal `json:"basePrice"`
	Subtotal           *decimal.Decimal `json:"subtotal"`
	AgentMarkupPercent *decimal.Decimal `json:"agentMarkupPercent"`
	AgentMarkup        *decimal.Decimal `json:"agentMarkup"`
	Taxes              *decimal.Decimal `json:"taxes"`
	Fees               *decimal.Decimal `json:"fees"`
	Discount           *decimal.Decimal `json:"discount"`
	Total              *decimal.Decimal `json:"total"`
}

// QuoteFields are the document fields shared by create and update. Nil means "not supplied".
type QuoteFields struct {
	TripName    *string        `json:"tripName"    validate:"omitempty,max=200"`
	Destination *string        `json:"destination" validate:"omitempty,max=200"`
	Notes       *string        `json:"notes"       validate:"omitempty,max=4000"`
	StartDate   *Date          `json:"startDate"`
	EndDate     *Date          `json:"endDate"`
	Adults      *int           `json:"adults"`
	Children    *int           `json:"children"`
	Infants     *int           `json:"infants"`
	Currency    *string        `json:"currency"`
	Items       []LineItem     `json:"items"       validate:"omitempty,max=100,dive"`
	Pricing     *PricingFields `json:"pricing"`
	ExpiresAt   *time.Time     `json:"expiresAt"`
}

// CreateQuoteRequest is the body of POST /quotes.
type CreateQuoteRequest struct {
	QuoteFields

	ClientID string `json:"clientId" validate:"required,notblank"`
}

// UpdateQuoteRequest is the body of PATCH /quotes/:id.
// ExpectedVersion may instead come from an If-Match header.
type UpdateQuoteRequest struct {
	QuoteFields

	ClientID        *string `json:"clientId"        validate:"omitempty,notblank"`
	ExpectedVersion *int64  `json:"expectedVersion" validate:"omitempty,min=1"`
}

// ToPatch converts the request into a domain patch.
func (r *CreateQuoteRequest) ToPatch() *domain.QuotePatch {
	p := r.QuoteFields.toPatch()
	p.ClientID = &r.ClientID

	return p
}

// ToPatch converts the request into a domain patch.
func (r *UpdateQuoteRequest) ToPatch() *domain.QuotePatch {
	p := r.QuoteFields.toPatch()
	p.ClientID = r.ClientID

	return p
}

func (f *QuoteFields) toPatch() *domain.QuotePatch {
	p := &domain.QuotePatch{
		TripName:    f.TripName,
		Destination: f.Destination,
		Notes:       f.Notes,
		Adults:      f.Adults,
		Children:    f.Children,
		Infants:     f.Infants,
		Currency:    f.Currency,
		ExpiresAt:   f.ExpiresAt,
	}

	if f.StartDate != nil {
		p.StartDate = &f.StartDate.Time
	}

	if f.EndDate != nil {
		p.EndDate = &f.EndDate.Time
	}

	if f.Items != nil {
		items := make([]domain.LineItem, 0, len(f.Items))
		for _, it := range f.Items {
			items = append(items, domain.LineItem{
				Category:    domain.ItemCategory(it.Category),
				Description: it.Description,
				UnitPrice:   it.UnitPrice,
				Quantity:    it.Quantity,
				PerTraveler: it.PerTraveler,
			})
		}

		p.Items = &items
	}

	if pr := f.Pricing; pr != nil {
		p.BasePrice = pr.BasePrice
		p.Subtotal = pr.Subtotal
		p.AgentMarkupPercent = pr.AgentMarkupPercent
		p.AgentMarkup = pr.AgentMarkup
		p.Taxes = pr.Taxes
		p.Fees = pr.Fees
		p.Discount = pr.Discount
		p.Total = pr.Total
	}

	return p
}

// Pricing renders money with two fixed decimal places.
type Pricing struct {
	BasePrice          string `json:"basePrice"`
	Subtotal           string `json:"subtotal"`
	AgentMarkupPercent string `json:"agentMarkupPercent"`
	AgentMarkup        string `json:"agentMarkup"`
	Taxes              string `json:"taxes"`
	Fees               string `json:"fees"`
	Discount           string `json:"discount"`
	Total              string `json:"total"`
}

// QuoteResponse is the representation of a stored quote.
type QuoteResponse struct {
	ID             string     `json:"id"`
	AgentID        string     `json:"agentId"`
	ClientID       string     `json:"clientId"`
	State          string     `json:"state"`
	Version        int64      `json:"version"`
	TripName       string     `json:"tripName"`
	Destination    string     `json:"destination"`
	Notes          string     `json:"notes,omitempty"`
	StartDate      Date       `json:"startDate"`
	EndDate        Date       `json:"endDate"`
	Adults         int        `json:"adults"`
	Children       int        `json:"children"`
	Infants        int        `json:"infants"`
	Currency       string     `json:"currency"`
	Items          []LineItem `json:"items"`
	Pricing        Pricing    `json:"pricing"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastModifiedBy string     `json:"lastModifiedBy"`
	LastModifiedAt time.Time  `json:"lastModifiedAt"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

// FromQuote converts a domain quote.
func FromQuote(q *domain.Quote) *QuoteResponse {
	items := make([]LineItem, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, LineItem{
			Category:    string(it.Category),
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			PerTraveler: it.PerTraveler,
		})
	}

	return &QuoteResponse{
		ID:          q.ID,
		AgentID:     q.AgentID,
		ClientID:    q.ClientID,
		State:       string(q.State),
		Version:     q.Version,
		TripName:    q.TripName,
		Destination: q.Destination,
		Notes:       q.Notes,
		StartDate:   Date{q.StartDate},
		EndDate:     Date{q.EndDate},
		Adults:      q.Adults,
		Children:    q.Children,
		Infants:     q.Infants,
		Currency:    q.Currency,
		Items:       items,
		Pricing: Pricing{
			BasePrice:          money(q.Pricing.BasePrice),
			Subtotal:           money(q.Pricing.Subtotal),
			AgentMarkupPercent: money(q.Pricing.AgentMarkupPercent),
			AgentMarkup:        money(q.Pricing.AgentMarkup),
			Taxes:              money(q.Pricing.Taxes),
			Fees:               money(q.Pricing.Fees),
			Discount:           money(q.Pricing.Discount),
			Total:              money(q.Pricing.Total),
		},
		ExpiresAt:      q.ExpiresAt,
		CreatedAt:      q.CreatedAt,
		LastModifiedBy: q.LastModifiedBy,
		LastModifiedAt: q.LastModifiedAt,
	}
}

// VersionResponse is the body of GET /quotes/:id/version.
type VersionResponse struct {
	QuoteID string `json:"quoteId"`
	Version int64  `json:"version"`
}

// LegalityResponse is the body of GET /quotes/:id/legality.
type LegalityResponse struct {
	QuoteID   string         `json:"quoteId"`
	Operation string         `json:"operation"`
	Allowed   bool           `json:"allowed"`
	Reason    *ErrorResponse `json:"reason,omitempty"`
}
