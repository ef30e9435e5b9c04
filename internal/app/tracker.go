package app

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
)

// ErrOperationFinalized is returned when an operation is finalized a second time.
var ErrOperationFinalized = errors.New("operation already finalized")

// Tracker wraps each logical request with a correlation ID, timing and one outcome log line.
type Tracker struct {
	logger *slog.Logger
	hooks  Hooks
	now    func() time.Time
}

// NewTracker creates a tracker. A nil logger falls back to the context logger.
func NewTracker(logger *slog.Logger, hooks Hooks) *Tracker {
	if hooks == nil {
		hooks = NopHooks{}
	}

	return &Tracker{logger: logger, hooks: hooks, now: time.Now}
}

// Operation is the transient record of one tracked request.
// It is finalized exactly once and never changes afterward.
type Operation struct {
	CorrelationID string
	Kind          domain.OperationKind
	AgentID       string
	ClientID      string
	StartedAt     time.Time
	Metadata      map[string]any

	tracker   *Tracker
	logger    *slog.Logger
	finalized atomic.Bool
}

// Start opens an operation and returns a context carrying its correlation ID
// and a logger enriched with it. An ID already in ctx, such as the one the HTTP
// layer opened for the request, is reused; otherwise a fresh one is minted.
func (t *Tracker) Start(
	ctx context.Context,
	kind domain.OperationKind,
	agentID, clientID string,
	metadata map[string]any,
) (context.Context, *Operation) {
	id := domain.CorrelationIDFromContext(ctx)
	bind := id == ""

	if bind {
		id = domain.NewCorrelationID()
		ctx = domain.ContextWithCorrelationID(ctx, id)
	}

	// A context logger next to an existing ID already carries it.
	if _, ok := logging.Lookup(ctx); !ok && t.logger != nil {
		ctx = logging.WithContext(ctx, t.logger)
		bind = true
	}

	if bind {
		ctx = logging.WithCorrelationID(ctx, id)
	}

	return ctx, &Operation{
		CorrelationID: id,
		Kind:          kind,
		AgentID:       agentID,
		ClientID:      clientID,
		StartedAt:     t.now(),
		Metadata:      maps.Clone(metadata),
		tracker:       t,
		logger:        logging.FromContext(ctx),
	}
}

// Finalized reports whether Success or Failure has already run.
func (o *Operation) Finalized() bool {
	return o.finalized.Load()
}

// Elapsed returns the time since the operation started.
func (o *Operation) Elapsed() time.Duration {
	return o.tracker.now().Sub(o.StartedAt)
}

// Success records a successful outcome with the resulting quote ID.
func (o *Operation) Success(ctx context.Context, resultID string) error {
	if !o.finalized.CompareAndSwap(false, true) {
		return ErrOperationFinalized
	}

	elapsed := o.Elapsed()
	o.tracker.hooks.ObserveOperation(o.Kind, OutcomeSuccess, "", elapsed)

	attrs := append(o.baseAttrs(elapsed, OutcomeSuccess), slog.String("quote_id", resultID))
	o.logger.LogAttrs(ctx, slog.LevelInfo, "quote operation succeeded", attrs...)

	return nil
}

// Failure records a failed outcome and returns err as a taxonomy error stamped with
// the correlation ID. Foreign errors become INTERNAL_ERROR. Only the first call logs.
func (o *Operation) Failure(ctx context.Context, err error) *domain.QuoteError {
	qerr, ok := domain.AsQuoteError(err)
	if !ok {
		qerr = domain.NewInternal(err)
	}

	qerr = qerr.WithCorrelationID(o.CorrelationID)

	if !o.finalized.CompareAndSwap(false, true) {
		return qerr
	}

	elapsed := o.Elapsed()
	o.tracker.hooks.ObserveOperation(o.Kind, OutcomeFailure, qerr.Code(), elapsed)

	attrs := append(o.baseAttrs(elapsed, OutcomeFailure),
		slog.String("error_code", string(qerr.Code())),
		slog.String("severity", string(qerr.Severity())),
		slog.Bool("retryable", qerr.Retryable()),
		slog.String("error", qerr.Message()),
		slog.Any("details", qerr.Details()),
	)
	o.logger.LogAttrs(ctx, severityLevel(qerr.Severity()), "quote operation failed", attrs...)

	return qerr
}

func (o *Operation) baseAttrs(elapsed time.Duration, outcome string) []slog.Attr {
	// correlation_id is already bound to o.logger.
	attrs := []slog.Attr{
		slog.String("operation", string(o.Kind)),
		slog.String("agent_id", o.AgentID),
		slog.String("client_id", o.ClientID),
		slog.Int64("elapsed_ms", elapsed.Milliseconds()),
		slog.String("outcome", outcome),
	}

	if len(o.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", o.Metadata))
	}

	return attrs
}

func severityLevel(s domain.Severity) slog.Level {
	switch s {
	case domain.SeverityCritical:
		return slog.LevelError
	case domain.SeverityHigh:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
