package metrics

import (
	"time"

	"github.com/glimte/intercept-go/interception"
	"github.com/prometheus/client_golang/prometheus"
)

var _ interception.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector exports call metrics to a Prometheus registry
type PrometheusCollector struct {
	calls    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusCollector creates a collector registered with reg. Pass
// prometheus.DefaultRegisterer to use the process-wide registry.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interception_calls_total",
			Help: "Total intercepted calls by operation.",
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interception_errors_total",
			Help: "Total failed intercepted calls by operation and error type.",
		}, []string{"operation", "error_type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interception_call_duration_seconds",
			Help:    "Intercepted call duration by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	for _, collector := range []prometheus.Collector{c.calls, c.errors, c.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// IncrementCallCount implements interception.MetricsCollector
func (c *PrometheusCollector) IncrementCallCount(operation string) {
	c.calls.WithLabelValues(operation).Inc()
}

// RecordDuration implements interception.MetricsCollector
func (c *PrometheusCollector) RecordDuration(operation string, duration time.Duration) {
	c.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncrementErrorCount implements interception.MetricsCollector
func (c *PrometheusCollector) IncrementErrorCount(operation string, errorType string) {
	c.errors.WithLabelValues(operation, errorType).Inc()
}
