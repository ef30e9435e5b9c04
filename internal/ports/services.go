// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never storage models or wire DTOs
//   - Storage adapters return raw driver errors; the application layer classifies them
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"errors"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

// ErrQuoteNotFound is returned by storage when no row matches the quote ID.
var ErrQuoteNotFound = errors.New("quote row not found")

// QuoteStore is the transactional storage collaborator.
//
// Example usage in application layer:
//
//	err := store.InTx(ctx, func(tx ports.QuoteTx) error {
//	    q, err := tx.GetQuote(ctx, id)
//	    ...
//	    return tx.UpdateIfVersion(ctx, q, expected)
//	})
type QuoteStore interface {
	// InTx runs fn inside a single transaction. A non-nil return from fn, a panic,
	// or a commit failure rolls back every write made through tx.
	InTx(ctx context.Context, fn func(tx QuoteTx) error) error

	// GetQuote reads a quote outside any transaction.
	// Returns ErrQuoteNotFound if the row does not exist.
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
}

// QuoteTx is the view of storage available inside a transaction.
type QuoteTx interface {
	// GetQuote reads the authoritative row. Returns ErrQuoteNotFound if absent.
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)

	// InsertQuote stores a new quote.
	InsertQuote(ctx context.Context, q *domain.Quote) error

	// UpdateIfVersion writes q only if the stored version still equals expectedVersion.
	// Reports false when no row matched.
	UpdateIfVersion(ctx context.Context, q *domain.Quote, expectedVersion int64) (bool, error)

	// DeleteIfVersion removes the row only if the stored version equals expectedVersion.
	DeleteIfVersion(ctx context.Context, id string, expectedVersion int64) (bool, error)
}

// QuoteService is the driving port used by inbound adapters. Every error it
// returns is a *domain.QuoteError carrying a correlation ID.
type QuoteService interface {
	CreateQuote(ctx context.Context, agentID, clientID string, payload *domain.QuotePatch) (*domain.Quote, error)
	UpdateQuote(
		ctx context.Context,
		quoteID string,
		expectedVersion int64,
		agentID string,
		patch *domain.QuotePatch,
	) (*domain.Quote, error)
	DeleteQuote(ctx context.Context, quoteID, agentID string) error
	GetQuote(ctx context.Context, quoteID, agentID string) (*domain.Quote, error)
	GetQuoteVersion(ctx context.Context, quoteID string) (int64, error)

	// CheckOperation returns nil when op is currently legal for the quote.
	CheckOperation(ctx context.Context, quoteID string, op domain.OperationKind, agentID string) error
}

// ClientDirectory answers ownership questions about clients.
type ClientDirectory interface {
	// GetClient returns the client if it exists and is owned by agentID.
	// Returns a CLIENT_NOT_FOUND domain error otherwise. Any other error is a lookup failure.
	GetClient(ctx context.Context, agentID, clientID string) (*domain.Client, error)
}

// EventPublisher defines the contract for publishing domain events.
type EventPublisher interface {
	// Publish sends an event to the configured destination.
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event that can be published.
type Event interface {
	// EventType returns the type identifier for routing.
	EventType() string

	// Payload returns the event data for serialization.
	Payload() any
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
