package acl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteguard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
)

func newDirectory(t *testing.T, h http.HandlerFunc) *CRMDirectory {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := clients.New(&clients.Config{
		BaseURL:     srv.URL,
		ServiceName: "crm",
		Timeout:     time.Second,
		Retry:       config.RetryConfig{MaxAttempts: 1},
		Circuit:     config.CircuitBreakerConfig{MaxFailures: 5, Timeout: time.Minute, HalfOpenLimit: 1},
	})
	require.NoError(t, err)

	return NewCRMDirectory(client, "crm")
}

func respond(status int, payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}
}

func TestCRMDirectory_GetClient(t *testing.T) {
	paths := make(chan string, 1)

	dir := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.EscapedPath()
		respond(http.StatusOK, `{"id":"client 1","ownerAgentId":"agent-a","displayName":"Ana Silva","email":"ana@example.com"}`)(w, r)
	})

	got, err := dir.GetClient(t.Context(), "agent-a", "client 1")
	require.NoError(t, err)

	assert.Equal(t, "/agents/agent-a/clients/client%201", <-paths)
	assert.Equal(t, &domain.Client{ID: "client 1", AgentID: "agent-a", Name: "Ana Silva", Email: "ana@example.com"}, got)
}

func TestCRMDirectory_NotFoundCases(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"404", respond(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"unknown client"}}`)},
		{"403", respond(http.StatusForbidden, `{"code":"FORBIDDEN"}`)},
		{"archived", respond(http.StatusOK, `{"id":"client-1","ownerAgentId":"agent-a","archived":true}`)},
		{"other owner", respond(http.StatusOK, `{"id":"client-1","ownerAgentId":"agent-b"}`)},
		{"other id", respond(http.StatusOK, `{"id":"client-2","ownerAgentId":"agent-a"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDirectory(t, tt.handler).GetClient(t.Context(), "agent-a", "client-1")

			qe, ok := domain.AsQuoteError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, domain.CodeClientNotFound, qe.Code())
		})
	}
}

func TestCRMDirectory_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    error
	}{
		{"server error", respond(http.StatusInternalServerError, `{}`), ErrUnavailable},
		{"bad request", respond(http.StatusBadRequest, `{"message":"bad id"}`), ErrRejected},
		{"garbage body", respond(http.StatusOK, `{"id":`), ErrMalformedResponse},
		{"missing owner", respond(http.StatusOK, `{"id":"client-1"}`), ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDirectory(t, tt.handler).GetClient(t.Context(), "agent-a", "client-1")

			require.ErrorIs(t, err, tt.kind)

			_, isQuoteErr := domain.AsQuoteError(err)
			assert.False(t, isQuoteErr, "lookup failures stay unclassified")
		})
	}
}

func TestCRMDirectory_DeadlinePropagates(t *testing.T) {
	dir := newDirectory(t, func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err := dir.GetClient(ctx, "agent-a", "client-1")

	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCRMDirectory_Health(t *testing.T) {
	var healthy atomic.Bool

	healthy.Store(true)

	dir := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)

		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}

		w.WriteHeader(http.StatusServiceUnavailable)
	})

	assert.Equal(t, "crm", dir.Name())
	require.NoError(t, dir.Check(t.Context()))

	healthy.Store(false)
	assert.ErrorIs(t, dir.Check(t.Context()), ErrUnavailable)
}
