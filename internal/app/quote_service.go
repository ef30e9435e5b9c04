// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

const defaultPublishTimeout = 2 * time.Second

var _ ports.QuoteService = (*QuoteService)(nil)

// QuoteService is the entry point for quote mutations. Every call is tracked,
// and every error it returns is a *domain.QuoteError carrying a correlation ID.
type QuoteService struct {
	controller     *Controller
	tracker        *Tracker
	publisher      ports.EventPublisher
	publishTimeout time.Duration
	logger         *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Controller     *Controller
	Tracker        *Tracker
	Publisher      ports.EventPublisher
	PublishTimeout time.Duration
	Logger         *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Controller == nil {
		panic("app: NewQuoteService requires a Controller")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Tracker == nil {
		cfg.Tracker = NewTracker(cfg.Logger, nil)
	}

	if cfg.Publisher == nil {
		cfg.Publisher = ports.NopPublisher{}
	}

	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	return &QuoteService{
		controller:     cfg.Controller,
		tracker:        cfg.Tracker,
		publisher:      cfg.Publisher,
		publishTimeout: cfg.PublishTimeout,
		logger:         cfg.Logger,
	}
}

// CreateQuote stores a new DRAFT quote for clientID.
func (s *QuoteService) CreateQuote(
	ctx context.Context,
	agentID, clientID string,
	payload *domain.QuotePatch,
) (quote *domain.Quote, err error) {
	ctx, op := s.tracker.Start(ctx, domain.OpCreate, agentID, clientID, nil)
	defer s.recoverInto(ctx, op, &quote, &err)

	quote, err = s.controller.Create(ctx, agentID, clientID, payload)
	if err != nil {
		return nil, op.Failure(ctx, err)
	}

	_ = op.Success(ctx, quote.ID)
	s.publish(ctx, newQuoteEvent(EventQuoteCreated, quote, op.CorrelationID))

	return quote, nil
}

// UpdateQuote applies patch if expectedVersion is still the stored version.
func (s *QuoteService) UpdateQuote(
	ctx context.Context,
	quoteID string,
	expectedVersion int64,
	agentID string,
	patch *domain.QuotePatch,
) (quote *domain.Quote, err error) {
	clientID := ""
	if patch != nil && patch.ClientID != nil {
		clientID = *patch.ClientID
	}

	ctx, op := s.tracker.Start(ctx, domain.OpUpdate, agentID, clientID, map[string]any{
		"quote_id":         quoteID,
		"expected_version": expectedVersion,
	})
	defer s.recoverInto(ctx, op, &quote, &err)

	quote, err = s.controller.UpdateWithOptimisticLock(ctx, quoteID, expectedVersion, patch, agentID)
	if err != nil {
		return nil, op.Failure(ctx, err)
	}

	_ = op.Success(ctx, quote.ID)
	s.publish(ctx, newQuoteEvent(EventQuoteUpdated, quote, op.CorrelationID))

	return quote, nil
}

// DeleteQuote removes a quote whose state permits deletion.
func (s *QuoteService) DeleteQuote(ctx context.Context, quoteID, agentID string) (err error) {
	ctx, op := s.tracker.Start(ctx, domain.OpDelete, agentID, "", map[string]any{
		"quote_id": quoteID,
	})
	defer s.recoverInto(ctx, op, nil, &err)

	deleted, err := s.controller.Delete(ctx, quoteID, agentID)
	if err != nil {
		return op.Failure(ctx, err)
	}

	_ = op.Success(ctx, quoteID)
	s.publish(ctx, newQuoteEvent(EventQuoteDeleted, deleted, op.CorrelationID))

	return nil
}

// GetQuote returns a quote owned by agentID.
func (s *QuoteService) GetQuote(ctx context.Context, quoteID, agentID string) (*domain.Quote, error) {
	q, err := s.controller.Get(ctx, quoteID, agentID)
	if err != nil {
		return nil, s.readError(ctx, err)
	}

	return q, nil
}

// GetQuoteVersion returns the stored version of a quote.
func (s *QuoteService) GetQuoteVersion(ctx context.Context, quoteID string) (int64, error) {
	v, err := s.controller.GetQuoteVersion(ctx, quoteID)
	if err != nil {
		return 0, s.readError(ctx, err)
	}

	return v, nil
}

// CheckOperation reports whether op is currently legal for the quote.
func (s *QuoteService) CheckOperation(
	ctx context.Context,
	quoteID string,
	op domain.OperationKind,
	agentID string,
) error {
	if err := s.controller.ValidateQuoteState(ctx, quoteID, op, agentID); err != nil {
		return s.readError(ctx, err)
	}

	return nil
}

// readError stamps read-side failures with the request's correlation ID or a fresh one.
func (s *QuoteService) readError(ctx context.Context, err error) error {
	qerr, ok := domain.AsQuoteError(err)
	if !ok {
		qerr = domain.NewInternal(err)
	}

	id := domain.CorrelationIDFromContext(ctx)
	if id == "" {
		id = domain.NewCorrelationID()
	}

	qerr = qerr.WithCorrelationID(id)

	s.loggerFor(ctx).DebugContext(ctx, "quote read failed",
		slog.String("correlation_id", qerr.CorrelationID()),
		slog.String("error_code", string(qerr.Code())),
	)

	return qerr
}

// recoverInto converts a panic into INTERNAL_ERROR reported through op and drops
// any partial result. op only logs its first outcome, so a panic after it was
// finalized is logged here.
func (s *QuoteService) recoverInto(ctx context.Context, op *Operation, quote **domain.Quote, err *error) {
	r := recover()
	if r == nil {
		return
	}

	finalized := op.Finalized()
	qerr := op.Failure(ctx, domain.NewInternal(fmt.Errorf("panic: %v", r)))

	if finalized {
		s.loggerFor(ctx).ErrorContext(ctx, "panic after quote operation finished",
			slog.String("operation", string(op.Kind)),
			slog.String("error_code", string(qerr.Code())),
			slog.String("error", qerr.Message()),
			slog.Any("details", qerr.Details()),
		)
	}

	if quote != nil {
		*quote = nil
	}

	*err = qerr
}

// publish emits an event after commit. Failures, panics included, are logged and never returned.
func (s *QuoteService) publish(ctx context.Context, event ports.Event) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.loggerFor(ctx).ErrorContext(ctx, "quote event publisher panicked",
				slog.String("event_type", event.EventType()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "failed to publish quote event",
			slog.String("event_type", event.EventType()),
			slog.Any("error", err),
		)
	}
}

// loggerFor returns the context logger, falling back to the service logger.
func (s *QuoteService) loggerFor(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger
	}

	return s.logger
}
