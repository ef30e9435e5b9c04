//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/adapters/events"
	httpadapter "github.com/jsamuelsen/quoteguard/internal/adapters/http"
	"github.com/jsamuelsen/quoteguard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage"
	"github.com/jsamuelsen/quoteguard/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/quoteguard/internal/app"
	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
	"github.com/jsamuelsen/quoteguard/internal/platform/telemetry"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

const eventChannel = "quote-events"

// stack is the whole service wired over SQLite and an in-memory Redis.
type stack struct {
	db      *gorm.DB
	broker  *miniredis.Miniredis
	events  *redis.Client
	server  *httptest.Server
	metrics *prometheus.Registry
}

func newStack(t *testing.T) *stack {
	t.Helper()

	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	db := storagetest.OpenSQLite(t)
	rds := miniredis.RunT(t)

	directory := storage.NewClientDirectory(db)
	for _, c := range []domain.Client{
		{ID: "client-a", AgentID: "agent-a", Name: "Ada"},
		{ID: "client-b", AgentID: "agent-b", Name: "Bo"},
	} {
		require.NoError(t, directory.SaveClient(t.Context(), &c))
	}

	publisher, err := events.NewRedisPublisher(t.Context(), &config.RedisConfig{
		Addr:        rds.Addr(),
		Channel:     eventChannel,
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Close() })

	store := storage.NewQuoteStore(db)
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewQuoteMetrics(reg)

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Controller: app.NewController(app.ControllerConfig{
			Store:     store,
			Validator: app.NewValidator(directory, decimal.Zero),
			TxTimeout: 5 * time.Second,
			Hooks:     metrics,
		}),
		Tracker:        app.NewTracker(logger, metrics),
		Publisher:      publisher,
		PublishTimeout: time.Second,
		Logger:         logger,
	})

	registry := ports.NewHealthRegistry(time.Second)
	require.NoError(t, registry.Register(store))
	require.NoError(t, registry.RegisterOptional(publisher))

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(
		logger,
		&config.AppConfig{Name: "quoteguard", Version: "test", Environment: "test"},
		&config.AuthConfig{},
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now")),
		handlers.NewQuoteHandler(service),
	))

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	// Scenarios subscribe through go-redis so published events are buffered client-side.
	subscriber := redis.NewClient(&redis.Options{Addr: rds.Addr()})
	t.Cleanup(func() { _ = subscriber.Close() })

	return &stack{db: db, broker: rds, events: subscriber, server: server, metrics: reg}
}

// apiResponse is a decoded reply.
type apiResponse struct {
	status int
	header http.Header
	body   map[string]any
	raw    []byte
}

func (s *stack) do(method, path, agent, body string, header map[string]string) (*apiResponse, error) {
	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	if agent != "" {
		req.Header.Set("X-Agent-ID", agent)
	}

	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := s.server.Client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &apiResponse{status: resp.StatusCode, header: resp.Header, raw: raw}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out.body); err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", method, path, err)
		}
	}

	return out, nil
}

// markSent stands in for the downstream send workflow, which lives outside this service.
func (s *stack) markSent(quoteID string) error {
	return s.db.Model(&storage.QuoteModel{}).
		Where("id = ?", quoteID).
		Update("state", string(domain.StateSent)).Error
}

// quoteBody is a create request whose pricing reconciles: 1000 + 500, plus 10% markup.
func quoteBody(clientID string) string {
	return `{
		"clientId": "` + clientID + `",
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
}
