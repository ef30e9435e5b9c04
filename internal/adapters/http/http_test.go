package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteguard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/quoteguard/internal/app"
	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           0,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

func TestServerNew(t *testing.T) {
	cfg := testServerConfig()
	cfg.Port = 8080

	srv := New(cfg, discardLogger())

	require.NotNil(t, srv.Engine())
	assert.Equal(t, cfg, srv.Config())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(testServerConfig(), discardLogger())
	errCh := srv.Start()

	time.Sleep(50 * time.Millisecond)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	default:
	}

	require.NoError(t, srv.Shutdown(t.Context()))

	select {
	case _, ok := <-errCh:
		assert.False(t, ok, "error channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for server to shutdown")
	}
}

func TestMaxBodySize(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxRequestSize = 16

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.String(http.StatusOK, string(body))
	})

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNewDefaultRouterConfig(t *testing.T) {
	logger := discardLogger()
	appCfg := &config.AppConfig{Name: "quoteguard"}
	authCfg := &config.AuthConfig{}

	cfg := NewDefaultRouterConfig(logger, appCfg, authCfg, nil, nil)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, appCfg, cfg.AppConfig)
	assert.Equal(t, authCfg, cfg.AuthConfig)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
}

func TestSetupRouter_TransportErrors(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:        discardLogger(),
		AppConfig:     &config.AppConfig{Name: "quoteguard"},
		AuthConfig:    &config.AuthConfig{},
		HealthHandler: handlers.NewHealthHandler(nil, handlers.BuildInfo{}),
		QuoteHandler:  handlers.NewQuoteHandler(nil),
	})

	tests := []struct {
		name       string
		method     string
		path       string
		agent      string
		wantStatus int
		wantCode   string
	}{
		{"liveness needs no agent", http.MethodGet, "/-/live", "", http.StatusOK, ""},
		{"unknown route", http.MethodGet, "/nope", "agent-a", http.StatusNotFound, "ROUTE_NOT_FOUND"},
		{"wrong method", http.MethodPut, "/api/v1/quotes/q-1", "agent-a", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"missing agent", http.MethodGet, "/api/v1/quotes/q-1", "", http.StatusUnauthorized, "UNAUTHENTICATED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.agent != "" {
				req.Header.Set("X-Agent-ID", tt.agent)
			}

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
			assert.Regexp(t, domain.CorrelationIDPattern, w.Header().Get(middleware.HeaderCorrelationID))

			if tt.wantCode == "" {
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["errorCode"])
			assert.Equal(t, w.Header().Get(middleware.HeaderCorrelationID), body["correlationId"])
		})
	}
}

// apiFixture serves the full stack over a migrated SQLite database.
type apiFixture struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := storagetest.OpenSQLite(t)
	clients := storage.NewClientDirectory(db)

	require.NoError(t, clients.SaveClient(t.Context(), &domain.Client{ID: "client-a", AgentID: "agent-a", Name: "Ada"}))

	logger := discardLogger()
	controller := app.NewController(app.ControllerConfig{
		Store:     storage.NewQuoteStore(db),
		Validator: app.NewValidator(clients, decimal.Zero),
		TxTimeout: 5 * time.Second,
	})
	service := app.NewQuoteService(app.QuoteServiceConfig{
		Controller: controller,
		Tracker:    app.NewTracker(logger, nil),
		Logger:     logger,
	})

	engine := gin.New()
	SetupRouter(engine, NewDefaultRouterConfig(logger,
		&config.AppConfig{Name: "quoteguard"}, &config.AuthConfig{},
		nil, handlers.NewQuoteHandler(service)))

	return &apiFixture{db: db, engine: engine}
}

func (f *apiFixture) call(t *testing.T, method, path, agent, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Agent-ID", agent)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}

	return w, out
}

const createBody = `{
	"clientId": "client-a",
	"tripName": "Lisbon long weekend",
	"destination": "Lisbon",
	"startDate": "2026-09-01",
	"endDate": "2026-09-05",
	"adults": 2,
	"currency": "EUR",
	"items": [
		{"category": "flight", "unitPrice": "1000", "quantity": 1},
		{"category": "hotel", "unitPrice": "500", "quantity": 1}
	],
	"pricing": {
		"basePrice": "1500", "subtotal": "1500",
		"agentMarkupPercent": "10", "agentMarkup": "150",
		"taxes": "0", "fees": "0", "discount": "0",
		"total": "1650"
	}
}`

func TestQuoteAPI_ConcurrencyFlow(t *testing.T) {
	f := newAPIFixture(t)

	w, created := f.call(t, http.MethodPost, "/api/v1/quotes", "agent-a", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1), created["version"])
	assert.Equal(t, "1650.00", created["pricing"].(map[string]any)["total"])

	path := "/api/v1/quotes/" + created["id"].(string)

	w, updated := f.call(t, http.MethodPatch, path, "agent-a", `{"notes":"aisle seats","expectedVersion":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), updated["version"])
	assert.Equal(t, `"2"`, w.Header().Get("ETag"))

	w, stale := f.call(t, http.MethodPatch, path, "agent-a", `{"notes":"window seats","expectedVersion":1}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "QUOTE_CONFLICT_VERSION", stale["errorCode"])
	assert.Equal(t, float64(2), stale["details"].(map[string]any)["actualVersion"])
	assert.Equal(t, w.Header().Get(middleware.HeaderCorrelationID), stale["correlationId"],
		"the operation's correlation ID is the request's")

	w, _ = f.call(t, http.MethodGet, path, "agent-b", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "foreign quotes are invisible")

	w, version := f.call(t, http.MethodGet, path+"/version", "agent-a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), version["version"])

	require.NoError(t, f.db.Model(&storage.QuoteModel{}).
		Where("id = ?", created["id"]).
		Update("state", string(domain.StateSent)).Error)

	w, legality := f.call(t, http.MethodGet, path+"/legality?operation=DELETE", "agent-a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, legality["allowed"])

	w, sent := f.call(t, http.MethodDelete, path, "agent-a", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "QUOTE_STATE_INVALID", sent["errorCode"])
	assert.Equal(t, "HIGH", sent["severity"])

	w, frozen := f.call(t, http.MethodPatch, path, "agent-a", `{"notes":"late change","expectedVersion":2}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "QUOTE_ALREADY_SENT", frozen["errorCode"])
	assert.Equal(t, "CRITICAL", frozen["severity"])
	assert.Equal(t, w.Header().Get(middleware.HeaderCorrelationID), frozen["correlationId"])
}

func TestQuoteAPI_CreateValidation(t *testing.T) {
	f := newAPIFixture(t)

	body := strings.Replace(createBody, `"total": "1650"`, `"total": "1700"`, 1)

	w, resp := f.call(t, http.MethodPost, "/api/v1/quotes", "agent-a", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "PRICING_VALIDATION_FAILED", resp["errorCode"])
	assert.Equal(t, w.Header().Get(middleware.HeaderCorrelationID), resp["correlationId"])

	w, resp = f.call(t, http.MethodPost, "/api/v1/quotes", "agent-b", createBody)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CLIENT_NOT_FOUND", resp["errorCode"])
}

func TestQuoteAPI_DeleteDraft(t *testing.T) {
	f := newAPIFixture(t)

	w, created := f.call(t, http.MethodPost, "/api/v1/quotes", "agent-a", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	path := "/api/v1/quotes/" + created["id"].(string)

	w, _ = f.call(t, http.MethodDelete, path, "agent-a", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w, gone := f.call(t, http.MethodGet, path, "agent-a", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "QUOTE_NOT_FOUND", gone["errorCode"])
}
