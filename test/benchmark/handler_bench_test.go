package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	httpadapter "github.com/jsamuelsen/quoteguard/internal/adapters/http"
	"github.com/jsamuelsen/quoteguard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/quoteguard/internal/app"
	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

const createBody = `{
	"clientId": "client-a",
	"startDate": "2026-09-01",
	"endDate": "2026-09-05",
	"adults": 2,
	"currency": "EUR",
	"items": [{"category": "flight", "unitPrice": "1000", "quantity": 1}],
	"pricing": {"basePrice": "1000", "subtotal": "1000", "total": "1000"}
}`

// newEngine wires the full router over a migrated SQLite database.
func newEngine(b *testing.B) *gin.Engine {
	b.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	db := storagetest.OpenSQLite(b)
	directory := storage.NewClientDirectory(db)

	if err := directory.SaveClient(context.Background(), &domain.Client{ID: "client-a", AgentID: "agent-a"}); err != nil {
		b.Fatal(err)
	}

	store := storage.NewQuoteStore(db)
	service := app.NewQuoteService(app.QuoteServiceConfig{
		Controller: app.NewController(app.ControllerConfig{
			Store:     store,
			Validator: app.NewValidator(directory, decimal.Zero),
			TxTimeout: 5 * time.Second,
		}),
		Tracker: app.NewTracker(logger, nil),
		Logger:  logger,
	})

	registry := ports.NewHealthRegistry(time.Second)
	_ = registry.Register(store)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(
		logger,
		&config.AppConfig{Name: "quoteguard"},
		&config.AuthConfig{},
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2026-01-01T00:00:00Z")),
		handlers.NewQuoteHandler(service),
	))

	return engine
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Agent-ID", "agent-a")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func createQuote(b *testing.B, engine *gin.Engine) string {
	b.Helper()

	w := serve(engine, http.MethodPost, "/api/v1/quotes", createBody)
	if w.Code != http.StatusCreated {
		b.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		b.Fatal(err)
	}

	return out.ID
}

// BenchmarkCheckTransition measures the state machine lookup on the write path.
func BenchmarkCheckTransition(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		_ = domain.CheckTransition(domain.StateDraft, domain.OpUpdate)
		_ = domain.CheckTransition(domain.StateSent, domain.OpUpdate)
	}
}

// BenchmarkLiveness measures the full middleware chain on the cheapest route.
func BenchmarkLiveness(b *testing.B) {
	engine := newEngine(b)

	b.ReportAllocs()

	for b.Loop() {
		serve(engine, http.MethodGet, "/-/live", "")
	}
}

// BenchmarkReadiness includes a database ping per request.
func BenchmarkReadiness(b *testing.B) {
	engine := newEngine(b)

	b.ReportAllocs()

	for b.Loop() {
		serve(engine, http.MethodGet, "/-/ready", "")
	}
}

// BenchmarkUpdateQuote measures a committed optimistic-lock write end to end.
func BenchmarkUpdateQuote(b *testing.B) {
	engine := newEngine(b)
	path := "/api/v1/quotes/" + createQuote(b, engine)

	b.ReportAllocs()

	version := 1

	for b.Loop() {
		w := serve(engine, http.MethodPatch, path, fmt.Sprintf(`{"notes":"n","expectedVersion":%d}`, version))
		if w.Code != http.StatusOK {
			b.Fatalf("update: %d %s", w.Code, w.Body.String())
		}

		version++
	}
}

// BenchmarkUpdateQuote_Conflict measures the rejected stale-write path.
func BenchmarkUpdateQuote_Conflict(b *testing.B) {
	engine := newEngine(b)
	path := "/api/v1/quotes/" + createQuote(b, engine)

	serve(engine, http.MethodPatch, path, `{"notes":"n","expectedVersion":1}`)

	b.ReportAllocs()

	for b.Loop() {
		if w := serve(engine, http.MethodPatch, path, `{"notes":"stale","expectedVersion":1}`); w.Code != http.StatusConflict {
			b.Fatalf("expected conflict, got %d", w.Code)
		}
	}
}
