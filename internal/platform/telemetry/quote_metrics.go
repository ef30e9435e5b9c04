package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

const metricsNamespace = "quoteguard"

// QuoteMetrics exports quote operation outcomes to Prometheus.
// It satisfies app.Hooks.
type QuoteMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	conflicts  *prometheus.CounterVec
	rollbacks  *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote collectors with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /-/metrics handler.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	factory := promauto.With(reg)

	return &QuoteMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quote_operations_total",
			Help:      "Finished quote operations by kind, outcome and error code.",
		}, []string{"operation", "outcome", "error_code"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "quote_operation_duration_seconds",
			Help:      "Wall time of quote operations from start to finalization.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"operation", "outcome"}),

		conflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quote_version_conflicts_total",
			Help:      "Writes rejected because the expected version was stale.",
		}, []string{"operation"}),

		rollbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quote_storage_rollbacks_total",
			Help:      "Transactions rolled back by a storage failure or timeout.",
		}, []string{"error_code"}),
	}
}

// ObserveOperation records one finished tracked operation.
func (m *QuoteMetrics) ObserveOperation(
	kind domain.OperationKind,
	outcome string,
	code domain.ErrorCode,
	elapsed time.Duration,
) {
	m.operations.WithLabelValues(string(kind), outcome, string(code)).Inc()
	m.duration.WithLabelValues(string(kind), outcome).Observe(elapsed.Seconds())
}

// IncConflict counts a version conflict.
func (m *QuoteMetrics) IncConflict(kind domain.OperationKind) {
	m.conflicts.WithLabelValues(string(kind)).Inc()
}

// IncRollback counts a storage-caused rollback.
func (m *QuoteMetrics) IncRollback(code domain.ErrorCode) {
	m.rollbacks.WithLabelValues(string(code)).Inc()
}
