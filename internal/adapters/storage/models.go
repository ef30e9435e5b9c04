package storage

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

// lineItemRecord is the JSON shape of a line item inside the line_items column.
type lineItemRecord struct {
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	PerTraveler bool            `json:"perTraveler,omitempty"`
}

// QuoteModel is the quotes row.
type QuoteModel struct {
	ID                 string `gorm:"primaryKey"`
	AgentID            string
	ClientID           string
	State              string
	Version            int64
	TripName           string
	Destination        string
	Notes              string
	StartDate          time.Time
	EndDate            time.Time
	Adults             int
	Children           int
	Infants            int
	Currency           string
	LineItems          datatypes.JSONType[[]lineItemRecord]
	BasePrice          decimal.Decimal
	Subtotal           decimal.Decimal
	AgentMarkupPercent decimal.Decimal
	AgentMarkup        decimal.Decimal
	Taxes              decimal.Decimal
	Fees               decimal.Decimal
	Discount           decimal.Decimal
	Total              decimal.Decimal
	ExpiresAt          *time.Time
	CreatedAt          time.Time
	LastModifiedBy     string
	LastModifiedAt     time.Time
}

// TableName implements gorm's Tabler.
func (QuoteModel) TableName() string { return "quotes" }

// ClientModel is the clients row.
type ClientModel struct {
	ID        string `gorm:"primaryKey"`
	AgentID   string
	Name      string
	Email     string
	CreatedAt time.Time
}

// TableName implements gorm's Tabler.
func (ClientModel) TableName() string { return "clients" }

func quoteToModel(q *domain.Quote) *QuoteModel {
	items := make([]lineItemRecord, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, lineItemRecord{
			Category:    string(it.Category),
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			PerTraveler: it.PerTraveler,
		})
	}

	return &QuoteModel{
		ID:                 q.ID,
		AgentID:            q.AgentID,
		ClientID:           q.ClientID,
		State:              string(q.State),
		Version:            q.Version,
		TripName:           q.TripName,
		Destination:        q.Destination,
		Notes:              q.Notes,
		StartDate:          q.StartDate.UTC(),
		EndDate:            q.EndDate.UTC(),
		Adults:             q.Adults,
		Children:           q.Children,
		Infants:            q.Infants,
		Currency:           q.Currency,
		LineItems:          datatypes.NewJSONType(items),
		BasePrice:          q.Pricing.BasePrice,
		Subtotal:           q.Pricing.Subtotal,
		AgentMarkupPercent: q.Pricing.AgentMarkupPercent,
		AgentMarkup:        q.Pricing.AgentMarkup,
		Taxes:              q.Pricing.Taxes,
		Fees:               q.Pricing.Fees,
		Discount:           q.Pricing.Discount,
		Total:              q.Pricing.Total,
		ExpiresAt:          q.ExpiresAt,
		CreatedAt:          q.CreatedAt.UTC(),
		LastModifiedBy:     q.LastModifiedBy,
		LastModifiedAt:     q.LastModifiedAt.UTC(),
	}
}

func (m *QuoteModel) toDomain() *domain.Quote {
	records := m.LineItems.Data()

	items := make([]domain.LineItem, 0, len(records))
	for _, r := range records {
		items = append(items, domain.LineItem{
			Category:    domain.ItemCategory(r.Category),
			Description: r.Description,
			UnitPrice:   r.UnitPrice,
			Quantity:    r.Quantity,
			PerTraveler: r.PerTraveler,
		})
	}

	return &domain.Quote{
		ID:          m.ID,
		AgentID:     m.AgentID,
		ClientID:    m.ClientID,
		State:       domain.State(m.State),
		Version:     m.Version,
		TripName:    m.TripName,
		Destination: m.Destination,
		Notes:       m.Notes,
		StartDate:   m.StartDate.UTC(),
		EndDate:     m.EndDate.UTC(),
		Adults:      m.Adults,
		Children:    m.Children,
		Infants:     m.Infants,
		Currency:    m.Currency,
		Items:       items,
		Pricing: domain.Pricing{
			BasePrice:          m.BasePrice,
			Subtotal:           m.Subtotal,
			AgentMarkupPercent: m.AgentMarkupPercent,
			AgentMarkup:        m.AgentMarkup,
			Taxes:              m.Taxes,
			Fees:               m.Fees,
			Discount:           m.Discount,
			Total:              m.Total,
		},
		ExpiresAt:      m.ExpiresAt,
		CreatedAt:      m.CreatedAt.UTC(),
		LastModifiedBy: m.LastModifiedBy,
		LastModifiedAt: m.LastModifiedAt.UTC(),
	}
}

// mutableColumns lists every column a versioned update rewrites.
func (m *QuoteModel) mutableColumns() map[string]any {
	return map[string]any{
		"client_id":            m.ClientID,
		"state":                m.State,
		"version":              m.Version,
		"trip_name":            m.TripName,
		"destination":          m.Destination,
		"notes":                m.Notes,
		"start_date":           m.StartDate,
		"end_date":             m.EndDate,
		"adults":               m.Adults,
		"children":             m.Children,
		"infants":              m.Infants,
		"currency":             m.Currency,
		"line_items":           m.LineItems,
		"base_price":           m.BasePrice,
		"subtotal":             m.Subtotal,
		"agent_markup_percent": m.AgentMarkupPercent,
		"agent_markup":         m.AgentMarkup,
		"taxes":                m.Taxes,
		"fees":                 m.Fees,
		"discount":             m.Discount,
		"total":                m.Total,
		"expires_at":           m.ExpiresAt,
		"last_modified_by":     m.LastModifiedBy,
		"last_modified_at":     m.LastModifiedAt,
	}
}
