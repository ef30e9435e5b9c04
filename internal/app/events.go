package app

import (
	"time"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

// Quote event types.
const (
	EventQuoteCreated = "quote.created"
	EventQuoteUpdated = "quote.updated"
	EventQuoteDeleted = "quote.deleted"
)

// QuoteEvent announces a committed quote mutation.
type QuoteEvent struct {
	Type          string    `json:"type"`
	QuoteID       string    `json:"quoteId"`
	AgentID       string    `json:"agentId"`
	ClientID      string    `json:"clientId"`
	State         string    `json:"state"`
	Version       int64     `json:"version"`
	CorrelationID string    `json:"correlationId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func newQuoteEvent(eventType string, q *domain.Quote, correlationID string) QuoteEvent {
	return QuoteEvent{
		Type:          eventType,
		QuoteID:       q.ID,
		AgentID:       q.AgentID,
		ClientID:      q.ClientID,
		State:         string(q.State),
		Version:       q.Version,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}
}

// EventType implements ports.Event.
func (e QuoteEvent) EventType() string { return e.Type }

// Payload implements ports.Event.
func (e QuoteEvent) Payload() any { return e }
