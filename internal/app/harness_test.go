package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/adapters/storage"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/quoteguard/internal/domain"
)

const (
	agentA  = "agent-a"
	agentB  = "agent-b"
	clientA = "client-a"
	clientB = "client-b"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// harness wires the controller against a migrated SQLite database.
type harness struct {
	db         *gorm.DB
	store      *storage.QuoteStore
	faulty     *storagetest.FaultyStore
	clients    *storage.ClientDirectory
	hooks      *hooksRecorder
	controller *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := storagetest.OpenSQLite(t)
	store := storage.NewQuoteStore(db)
	clients := storage.NewClientDirectory(db)

	for _, c := range []domain.Client{
		{ID: clientA, AgentID: agentA, Name: "Ada"},
		{ID: clientB, AgentID: agentB, Name: "Grace"},
	} {
		require.NoError(t, clients.SaveClient(t.Context(), &c))
	}

	h := &harness{
		db:      db,
		store:   store,
		faulty:  &storagetest.FaultyStore{QuoteStore: store},
		clients: clients,
		hooks:   &hooksRecorder{},
	}

	h.controller = NewController(ControllerConfig{
		Store:     h.faulty,
		Validator: NewValidator(clients, decimal.Zero),
		TxTimeout: 5 * time.Second,
		Hooks:     h.hooks,
	})

	return h
}

// validPayload is a consistent two-traveler quote: flight 1000 + hotel 500, 10% markup.
func validPayload() *domain.QuotePatch {
	items := []domain.LineItem{
		{Category: domain.CategoryFlight, UnitPrice: dec("1000"), Quantity: 1},
		{Category: domain.CategoryHotel, UnitPrice: dec("500"), Quantity: 1},
	}

	pricing := domain.CalculatePricing(domain.PricingInput{
		Items:              items,
		Travelers:          2,
		AgentMarkupPercent: dec("10"),
	})

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	return &domain.QuotePatch{
		TripName:           ptr("Lisbon long weekend"),
		Destination:        ptr("Lisbon"),
		StartDate:          ptr(start),
		EndDate:            ptr(start.AddDate(0, 0, 4)),
		Adults:             ptr(2),
		Currency:           ptr("EUR"),
		Items:              &items,
		BasePrice:          ptr(pricing.BasePrice),
		Subtotal:           ptr(pricing.Subtotal),
		AgentMarkupPercent: ptr(pricing.AgentMarkupPercent),
		AgentMarkup:        ptr(pricing.AgentMarkup),
		Total:              ptr(pricing.Total),
	}
}

func (h *harness) createQuote(t *testing.T) *domain.Quote {
	t.Helper()

	q, err := h.controller.Create(t.Context(), agentA, clientA, validPayload())
	require.NoError(t, err)

	return q
}

// bumpTo performs sequential renames until the quote reaches version v.
func (h *harness) bumpTo(t *testing.T, q *domain.Quote, v int64) *domain.Quote {
	t.Helper()

	for q.Version < v {
		next, err := h.controller.UpdateWithOptimisticLock(t.Context(), q.ID, q.Version,
			&domain.QuotePatch{Notes: ptr("rev")}, agentA)
		require.NoError(t, err)

		q = next
	}

	return q
}

func (h *harness) setState(t *testing.T, quoteID string, s domain.State) {
	t.Helper()

	require.NoError(t, h.db.Model(&storage.QuoteModel{}).
		Where("id = ?", quoteID).
		Update("state", string(s)).Error)
}

func (h *harness) reload(t *testing.T, quoteID string) *domain.Quote {
	t.Helper()

	q, err := h.store.GetQuote(t.Context(), quoteID)
	require.NoError(t, err)

	return q
}

// hooksRecorder captures hook signals.
type hooksRecorder struct {
	mu         sync.Mutex
	operations []string
	conflicts  int
	rollbacks  []domain.ErrorCode
}

func (r *hooksRecorder) ObserveOperation(kind domain.OperationKind, outcome string, _ domain.ErrorCode, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.operations = append(r.operations, string(kind)+":"+outcome)
}

func (r *hooksRecorder) IncConflict(domain.OperationKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conflicts++
}

func (r *hooksRecorder) IncRollback(code domain.ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rollbacks = append(r.rollbacks, code)
}

// logCapture collects JSON log lines.
type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf.Write(p)
}

func (c *logCapture) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *logCapture) lines(t *testing.T) []map[string]any {
	t.Helper()

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(c.buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}

	return out
}
