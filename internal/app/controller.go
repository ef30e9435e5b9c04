package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

const tracerName = "github.com/jsamuelsen/quoteguard/internal/app"

// Controller serializes quote writes through storage transactions and a version compare-and-swap.
// It keeps no quote state between calls; every write re-reads the row inside its own transaction.
type Controller struct {
	store     ports.QuoteStore
	validator *Validator
	txTimeout time.Duration
	hooks     Hooks
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
}

// ControllerConfig contains the controller's collaborators.
type ControllerConfig struct {
	Store     ports.QuoteStore
	Validator *Validator

	// TxTimeout bounds each transaction. Zero leaves it to the caller's context.
	TxTimeout time.Duration

	Hooks Hooks

	// Clock and NewID are overridable for tests.
	Clock func() time.Time
	NewID func() string
}

// NewController creates a controller. Store and Validator are required.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Store == nil {
		panic("app: NewController requires a QuoteStore")
	}

	if cfg.Validator == nil {
		panic("app: NewController requires a Validator")
	}

	c := &Controller{
		store:     cfg.Store,
		validator: cfg.Validator,
		txTimeout: cfg.TxTimeout,
		hooks:     cfg.Hooks,
		tracer:    otel.Tracer(tracerName),
		now:       cfg.Clock,
		newID:     cfg.NewID,
	}

	if c.hooks == nil {
		c.hooks = NopHooks{}
	}

	if c.now == nil {
		c.now = func() time.Time { return time.Now().UTC() }
	}

	if c.newID == nil {
		c.newID = uuid.NewString
	}

	return c
}

// maxClientRechecks bounds how often an update re-resolves ownership after the
// quote's client changed between the lookup and the transaction.
const maxClientRechecks = 2

// errClientMoved reports that the row's client no longer matches the one checked.
var errClientMoved = errors.New("quote client changed since ownership check")

// clientCheck is a client-ownership result obtained before the transaction opens.
// err is reported only once the row-level checks inside the transaction pass.
type clientCheck struct {
	clientID string
	err      error
}

// UpdateWithOptimisticLock applies patch to the quote if expectedVersion is still current.
// Client ownership is resolved first, outside any transaction. Then, inside one transaction:
// read, strict version compare, lifecycle gate, merge and validate, versioned write.
// Any failure rolls the transaction back.
func (c *Controller) UpdateWithOptimisticLock(
	ctx context.Context,
	quoteID string,
	expectedVersion int64,
	patch *domain.QuotePatch,
	agentID string,
) (*domain.Quote, error) {
	ctx, span := c.startSpan(ctx, "quote.update", quoteID, agentID)
	defer span.End()

	span.SetAttributes(attribute.Int64("quote.expected_version", expectedVersion))

	if patch == nil {
		patch = &domain.QuotePatch{}
	}

	for attempt := 1; ; attempt++ {
		check, err := c.checkClient(ctx, quoteID, agentID, patch)
		if err != nil {
			return nil, c.fail(ctx, span, domain.OpUpdate, err)
		}

		updated, err := c.updateTx(ctx, quoteID, expectedVersion, patch, agentID, check)
		if errors.Is(err, errClientMoved) && attempt < maxClientRechecks {
			continue
		}

		if err != nil {
			return nil, c.fail(ctx, span, domain.OpUpdate, err)
		}

		span.SetAttributes(attribute.Int64("quote.version", updated.Version))

		return updated, nil
	}
}

// updateTx runs the transactional part of an update. Errors come back classified
// against the transaction deadline, except errClientMoved.
func (c *Controller) updateTx(
	ctx context.Context,
	quoteID string,
	expectedVersion int64,
	patch *domain.QuotePatch,
	agentID string,
	check clientCheck,
) (*domain.Quote, error) {
	txCtx, cancel := c.withTxTimeout(ctx)
	defer cancel()

	var updated *domain.Quote

	err := c.store.InTx(txCtx, func(tx ports.QuoteTx) error {
		current, err := c.loadOwned(txCtx, tx, quoteID, agentID)
		if err != nil {
			return err
		}

		if current.Version != expectedVersion {
			return domain.NewVersionConflict(quoteID, expectedVersion, current.Version)
		}

		if serr := domain.CheckTransition(current.State, domain.OpUpdate); serr != nil {
			return serr
		}

		merged := patch.ApplyTo(current)
		if merged.ClientID != check.clientID {
			return errClientMoved
		}

		if check.err != nil {
			return check.err
		}

		if err := c.validator.ValidateDocument(merged); err != nil {
			return err
		}

		merged.Version = expectedVersion + 1
		merged.LastModifiedBy = agentID
		merged.LastModifiedAt = c.now()

		ok, err := tx.UpdateIfVersion(txCtx, merged, expectedVersion)
		if err != nil {
			return err
		}

		if !ok {
			return c.conflictAfterMiss(txCtx, tx, quoteID, expectedVersion)
		}

		updated = merged

		return nil
	})

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, errClientMoved):
		return nil, err
	default:
		return nil, c.classify(txCtx, err)
	}
}

// checkClient resolves the client the update will end up with and checks its ownership.
// The lookup may be remote, so it never runs while a pooled connection is held.
func (c *Controller) checkClient(
	ctx context.Context,
	quoteID, agentID string,
	patch *domain.QuotePatch,
) (clientCheck, error) {
	var clientID string

	if patch.ClientID != nil {
		clientID = *patch.ClientID
	} else {
		current, err := c.store.GetQuote(ctx, quoteID)
		if err != nil {
			return clientCheck{}, notFoundAs(err, quoteID)
		}

		if current.AgentID != agentID {
			return clientCheck{}, domain.NewQuoteNotFound(quoteID)
		}

		clientID = current.ClientID
	}

	return clientCheck{
		clientID: clientID,
		err:      c.validator.CheckOwnership(ctx, agentID, clientID),
	}, nil
}

// Create validates and stores a new DRAFT quote at version 1.
// Validation, including the client lookup, completes before the transaction opens.
func (c *Controller) Create(
	ctx context.Context,
	agentID, clientID string,
	payload *domain.QuotePatch,
) (*domain.Quote, error) {
	q := domain.NewDraft(c.newID(), agentID, clientID, payload, c.now())

	ctx, span := c.startSpan(ctx, "quote.create", q.ID, agentID)
	defer span.End()

	if err := c.validator.Validate(ctx, agentID, q); err != nil {
		return nil, c.fail(ctx, span, domain.OpCreate, err)
	}

	txCtx, cancel := c.withTxTimeout(ctx)
	defer cancel()

	err := c.store.InTx(txCtx, func(tx ports.QuoteTx) error {
		return tx.InsertQuote(txCtx, q)
	})
	if err != nil {
		return nil, c.fail(txCtx, span, domain.OpCreate, err)
	}

	return q, nil
}

// Delete removes a quote whose lifecycle state permits it.
// The delete is versioned against the row read in the same transaction.
func (c *Controller) Delete(ctx context.Context, quoteID, agentID string) (*domain.Quote, error) {
	ctx, span := c.startSpan(ctx, "quote.delete", quoteID, agentID)
	defer span.End()

	txCtx, cancel := c.withTxTimeout(ctx)
	defer cancel()

	var deleted *domain.Quote

	err := c.store.InTx(txCtx, func(tx ports.QuoteTx) error {
		current, err := c.loadOwned(txCtx, tx, quoteID, agentID)
		if err != nil {
			return err
		}

		if serr := domain.CheckTransition(current.State, domain.OpDelete); serr != nil {
			return serr
		}

		ok, err := tx.DeleteIfVersion(txCtx, quoteID, current.Version)
		if err != nil {
			return err
		}

		if !ok {
			return c.conflictAfterMiss(txCtx, tx, quoteID, current.Version)
		}

		deleted = current

		return nil
	})
	if err != nil {
		return nil, c.fail(txCtx, span, domain.OpDelete, err)
	}

	return deleted, nil
}

// ValidateQuoteState reports whether op is currently legal for the quote, without writing.
func (c *Controller) ValidateQuoteState(
	ctx context.Context,
	quoteID string,
	op domain.OperationKind,
	agentID string,
) error {
	q, err := c.Get(ctx, quoteID, agentID)
	if err != nil {
		return err
	}

	if serr := domain.CheckTransition(q.State, op); serr != nil {
		return serr
	}

	return nil
}

// GetQuoteVersion returns the current stored version.
func (c *Controller) GetQuoteVersion(ctx context.Context, quoteID string) (int64, error) {
	q, err := c.store.GetQuote(ctx, quoteID)
	if err != nil {
		return 0, c.classify(ctx, notFoundAs(err, quoteID))
	}

	return q.Version, nil
}

// Get returns the quote if agentID owns it.
func (c *Controller) Get(ctx context.Context, quoteID, agentID string) (*domain.Quote, error) {
	q, err := c.store.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, c.classify(ctx, notFoundAs(err, quoteID))
	}

	if q.AgentID != agentID {
		return nil, domain.NewQuoteNotFound(quoteID)
	}

	return q, nil
}

// loadOwned reads the row inside tx. A foreign quote is reported as missing.
func (c *Controller) loadOwned(ctx context.Context, tx ports.QuoteTx, quoteID, agentID string) (*domain.Quote, error) {
	q, err := tx.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, notFoundAs(err, quoteID)
	}

	if q.AgentID != agentID {
		return nil, domain.NewQuoteNotFound(quoteID)
	}

	return q, nil
}

// conflictAfterMiss re-reads the row after a compare-and-swap matched nothing.
func (c *Controller) conflictAfterMiss(ctx context.Context, tx ports.QuoteTx, quoteID string, expected int64) error {
	current, err := tx.GetQuote(ctx, quoteID)
	if err != nil {
		return notFoundAs(err, quoteID)
	}

	return domain.NewVersionConflict(quoteID, expected, current.Version)
}

// fail classifies err, records it on the span and feeds the hooks.
func (c *Controller) fail(txCtx context.Context, span trace.Span, kind domain.OperationKind, err error) error {
	qerr := c.classify(txCtx, err)

	switch qerr.Code() {
	case domain.CodeVersionConflict:
		c.hooks.IncConflict(kind)
	case domain.CodePersistenceFailed, domain.CodeDatabaseTimeout:
		c.hooks.IncRollback(qerr.Code())
	}

	span.SetAttributes(attribute.String("quote.error_code", string(qerr.Code())))
	span.RecordError(qerr)
	span.SetStatus(codes.Error, qerr.Message())

	return qerr
}

// classify turns any failure into a taxonomy error. Business errors pass through;
// an expired transaction deadline always reports DATABASE_TIMEOUT.
func (c *Controller) classify(ctx context.Context, err error) *domain.QuoteError {
	deadline := errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)

	if qerr, ok := domain.AsQuoteError(err); ok {
		if deadline && qerr.Code() == domain.CodePersistenceFailed {
			return domain.Wrap(domain.CodeDatabaseTimeout, "database timed out", err, qerr.Details())
		}

		return qerr
	}

	if deadline {
		return domain.Wrap(domain.CodeDatabaseTimeout, "database timed out", err, nil)
	}

	return domain.Wrap(domain.CodePersistenceFailed, "failed to persist quote", err, nil)
}

func (c *Controller) withTxTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.txTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.txTimeout)
}

func (c *Controller) startSpan(ctx context.Context, name, quoteID, agentID string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("quote.id", quoteID),
		attribute.String("agent.id", agentID),
		attribute.String("correlation.id", domain.CorrelationIDFromContext(ctx)),
	))
}

func notFoundAs(err error, quoteID string) error {
	if errors.Is(err, ports.ErrQuoteNotFound) {
		return domain.NewQuoteNotFound(quoteID)
	}

	return err
}
