package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// QuotePatch is a set of optional field changes. Nil fields are left untouched.
// It doubles as the creation payload, applied onto an empty draft.
type QuotePatch struct {
	ClientID    *string
	TripName    *string
	Destination *string
	Notes       *string
	StartDate   *time.Time
	EndDate     *time.Time

	Adults   *int
	Children *int
	Infants  *int

	Currency *string
	Items    *[]LineItem

	BasePrice          *decimal.Decimal
	Subtotal           *decimal.Decimal
	AgentMarkupPercent *decimal.Decimal
	AgentMarkup        *decimal.Decimal
	Taxes              *decimal.Decimal
	Fees               *decimal.Decimal
	Discount           *decimal.Decimal
	Total              *decimal.Decimal

	ExpiresAt *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p *QuotePatch) IsEmpty() bool {
	return *p == QuotePatch{}
}

// ApplyTo returns a merged copy of q. q itself is not modified.
func (p *QuotePatch) ApplyTo(q *Quote) *Quote {
	m := q.Clone()

	setIf(&m.ClientID, p.ClientID)
	setIf(&m.TripName, p.TripName)
	setIf(&m.Destination, p.Destination)
	setIf(&m.Notes, p.Notes)
	setIf(&m.StartDate, p.StartDate)
	setIf(&m.EndDate, p.EndDate)
	setIf(&m.Adults, p.Adults)
	setIf(&m.Children, p.Children)
	setIf(&m.Infants, p.Infants)
	setIf(&m.Currency, p.Currency)

	if p.Items != nil {
		m.Items = slices.Clone(*p.Items)
	}

	setIf(&m.Pricing.BasePrice, p.BasePrice)
	setIf(&m.Pricing.Subtotal, p.Subtotal)
	setIf(&m.Pricing.AgentMarkupPercent, p.AgentMarkupPercent)
	setIf(&m.Pricing.AgentMarkup, p.AgentMarkup)
	setIf(&m.Pricing.Taxes, p.Taxes)
	setIf(&m.Pricing.Fees, p.Fees)
	setIf(&m.Pricing.Discount, p.Discount)
	setIf(&m.Pricing.Total, p.Total)

	if p.ExpiresAt != nil {
		t := *p.ExpiresAt
		m.ExpiresAt = &t
	}

	return m
}

// NewDraft builds a version 1 DRAFT quote from a creation payload.
func NewDraft(id, agentID, clientID string, payload *QuotePatch, now time.Time) *Quote {
	base := &Quote{
		ID:             id,
		AgentID:        agentID,
		ClientID:       clientID,
		State:          StateDraft,
		Version:        1,
		CreatedAt:      now,
		LastModifiedBy: agentID,
		LastModifiedAt: now,
	}

	if payload == nil {
		return base
	}

	q := payload.ApplyTo(base)
	q.ClientID = clientID

	return q
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
