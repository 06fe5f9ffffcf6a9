package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"chemstate/pkg/domain"
)

// PrometheusMetricsRecorder exports service metrics on a private registry.
type PrometheusMetricsRecorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	entities   *prometheus.GaugeVec
}

// NewPrometheusMetricsRecorder registers the service collectors under namespace
// ("chemstate" when empty).
func NewPrometheusMetricsRecorder(namespace string) *PrometheusMetricsRecorder {
	if namespace == "" {
		namespace = "chemstate"
	}
	r := &PrometheusMetricsRecorder{registry: prometheus.NewRegistry()}
	r.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Service operations by outcome",
		},
		[]string{"operation", "result"},
	)
	r.durations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Time spent in service operations",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"operation"},
	)
	r.entities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entities",
			Help:      "Records held by the storage bin per reactant kind",
		},
		[]string{"kind"},
	)
	r.registry.MustRegister(r.operations, r.durations, r.entities)
	return r
}

// Registry returns the private registry.
func (r *PrometheusMetricsRecorder) Registry() *prometheus.Registry { return r.registry }

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	result := string(AuditStatusError)
	if success {
		result = string(AuditStatusSuccess)
	}
	r.operations.WithLabelValues(operation, result).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetEntities implements EntityGauge.
func (r *PrometheusMetricsRecorder) SetEntities(kind domain.Kind, n int) {
	r.entities.WithLabelValues(string(kind)).Set(float64(n))
}

// WriteText writes every gathered family in the Prometheus text format.
func (r *PrometheusMetricsRecorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
