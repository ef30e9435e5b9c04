package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quoteguard/internal/adapters/clients"

	// HeaderRequestID carries the inbound request ID downstream.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries the quote operation's correlation ID downstream.
	HeaderCorrelationID = "X-Correlation-ID"

	defaultTimeout = 5 * time.Second
)

// RequestIDFunc extracts the inbound request ID from a context.
// The HTTP adapter supplies it so this package does not import the router.
type RequestIDFunc func(ctx context.Context) string

// Config configures a downstream client.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// ServiceName identifies the downstream in logs, spans and metrics.
	ServiceName string

	// Timeout bounds each attempt. Retries and backoff add to the wall clock.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// AuthFunc, when set, decorates every attempt including retries.
	AuthFunc func(*http.Request)

	// RequestID, when set, propagates the inbound request ID.
	RequestID RequestIDFunc

	Logger *slog.Logger
}

// Client is a read-only instrumented HTTP client for lookup services.
// Each call runs behind a circuit breaker, retries transport failures and 5xx
// responses with jittered exponential backoff, and records an OpenTelemetry
// span plus duration and count metrics.
type Client struct {
	http    *http.Client
	baseURL string
	cfg     Config
	cb      *CircuitBreaker
	tracer  trace.Tracer

	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a client from cfg.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.ServiceName == "" {
		return nil, ErrMissingServiceName
	}

	c := *cfg
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.Retry.MaxAttempts < 1 {
		c.Retry.MaxAttempts = 1
	}

	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	c.Logger = c.Logger.With(slog.String("downstream", c.ServiceName))

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   c.Circuit.MaxFailures,
		Timeout:       c.Circuit.Timeout,
		HalfOpenLimit: c.Circuit.HalfOpenLimit,
	})

	logger := c.Logger
	cb.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"quoteguard.client.request.duration",
		metric.WithDescription("Duration of downstream lookup requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"quoteguard.client.request.total",
		metric.WithDescription("Downstream lookup requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        c.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: c.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.Transport.IdleConnTimeout,
	}

	return &Client{
		http:            &http.Client{Timeout: c.Timeout, Transport: transport},
		baseURL:         strings.TrimSuffix(c.BaseURL, "/"),
		cfg:             c,
		cb:              cb,
		tracer:          otel.Tracer(instrumentationName),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

// Get issues a GET for path relative to the base URL.
// Any response below 500 is returned to the caller, who owns the body.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return c.Do(ctx, req)
}

// Do executes req. Only bodiless requests are safe to retry.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.cfg.ServiceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.cb.Allow() {
		c.recordMetrics(ctx, req.Method, 0, time.Since(start), "circuit_open")
		logger.Warn("request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	c.injectHeaders(ctx, req)

	ctx, span := c.tracer.Start(ctx, "GET "+c.cfg.ServiceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
			attribute.String("peer.service", c.cfg.ServiceName),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.attempts(ctx, req, logger)
	elapsed := time.Since(start)

	if err != nil {
		c.cb.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.recordMetrics(ctx, req.Method, 0, elapsed, "error")
		logger.Error("downstream request failed", slog.Duration("duration", elapsed), slog.Any("error", err))

		return nil, err
	}

	c.cb.RecordSuccess()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.recordMetrics(ctx, req.Method, resp.StatusCode, elapsed, statusClass(resp.StatusCode))
	logger.Debug("downstream request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

	return resp, nil
}

// CircuitState reports the breaker state.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

func (c *Client) attempts(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for attempt := range c.cfg.Retry.MaxAttempts {
		if attempt > 0 {
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}

			if c.cfg.AuthFunc != nil {
				c.cfg.AuthFunc(req)
			}

			logger.Debug("retrying downstream request", slog.Int("attempt", attempt+1))
		}

		resp, err := c.http.Do(req.WithContext(ctx))

		switch {
		case err != nil && !isRetryableError(err):
			return nil, err
		case err != nil:
			lastErr = err
		case resp.StatusCode >= http.StatusInternalServerError:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("%w: %d", ErrServerStatus, resp.StatusCode)
		default:
			return resp, nil
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if c.cfg.RequestID != nil {
		if id := c.cfg.RequestID(ctx); id != "" {
			req.Header.Set(HeaderRequestID, id)
		}
	}

	if id := domain.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(HeaderCorrelationID, id)
	}

	if c.cfg.AuthFunc != nil {
		c.cfg.AuthFunc(req)
	}
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// backoff returns initial*multiplier^attempt capped at MaxInterval, spread by JitterFactor.
func (c *Client) backoff(attempt int) time.Duration {
	r := c.cfg.Retry

	d := float64(r.InitialInterval) * math.Pow(r.Multiplier, float64(attempt))
	if ceiling := float64(r.MaxInterval); ceiling > 0 && d > ceiling {
		d = ceiling
	}

	if r.JitterFactor > 0 {
		d += d * r.JitterFactor * (rand.Float64()*2 - 1) //nolint:gosec // jitter only
	}

	return time.Duration(d)
}

func (c *Client) recordMetrics(ctx context.Context, method string, status int, d time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", method),
		attribute.String("peer.service", c.cfg.ServiceName),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", status))
	}

	c.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// isRetryableError treats network-level failures as transient. Caller
// cancellation and deadline expiry are final.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
