package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// State is the lifecycle state of a quote.
type State string

const (
	StateDraft    State = "DRAFT"
	StateSent     State = "SENT"
	StateAccepted State = "ACCEPTED"
	StateRejected State = "REJECTED"
	StateLocked   State = "LOCKED"
)

// States returns every lifecycle state.
func States() []State {
	return []State{StateDraft, StateSent, StateAccepted, StateRejected, StateLocked}
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return slices.Contains(States(), s)
}

// ItemCategory groups line items the way a travel itinerary does.
type ItemCategory string

const (
	CategoryFlight    ItemCategory = "flight"
	CategoryHotel     ItemCategory = "hotel"
	CategoryActivity  ItemCategory = "activity"
	CategoryTransfer  ItemCategory = "transfer"
	CategoryCarRental ItemCategory = "car_rental"
	CategoryInsurance ItemCategory = "insurance"
	CategoryCustom    ItemCategory = "custom"
)

// LineItem is a single priced component of a quote.
type LineItem struct {
	Category    ItemCategory
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int

	// PerTraveler multiplies the line by the total traveler count.
	PerTraveler bool
}

// Pricing holds the computed money fields of a quote.
type Pricing struct {
	BasePrice          decimal.Decimal
	Subtotal           decimal.Decimal
	AgentMarkupPercent decimal.Decimal
	AgentMarkup        decimal.Decimal
	Taxes              decimal.Decimal
	Fees               decimal.Decimal
	Discount           decimal.Decimal
	Total              decimal.Decimal
}

// Quote is a priced travel proposal owned by an agent and addressed to a client.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	ID       string
	AgentID  string
	ClientID string
	State    State

	// Version counts successful writes. It starts at 1 on creation.
	Version int64

	TripName    string
	Destination string
	Notes       string
	StartDate   time.Time
	EndDate     time.Time

	Adults   int
	Children int
	Infants  int

	Currency string
	Items    []LineItem
	Pricing  Pricing

	ExpiresAt *time.Time

	CreatedAt      time.Time
	LastModifiedBy string
	LastModifiedAt time.Time
}

// Travelers returns the total head count.
func (q *Quote) Travelers() int {
	return q.Adults + q.Children + q.Infants
}

// Clone returns a deep copy.
func (q *Quote) Clone() *Quote {
	cp := *q
	cp.Items = slices.Clone(q.Items)

	if q.ExpiresAt != nil {
		t := *q.ExpiresAt
		cp.ExpiresAt = &t
	}

	return &cp
}

// OperationKind names a tracked mutation.
type OperationKind string

const (
	OpCreate OperationKind = "CREATE"
	OpUpdate OperationKind = "UPDATE"
	OpDelete OperationKind = "DELETE"
)

// Client is a customer record owned by exactly one agent.
type Client struct {
	ID      string
	AgentID string
	Name    string
	Email   string
}
