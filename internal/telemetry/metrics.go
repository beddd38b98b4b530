package telemetry

import (
	"context"
	"strconv"

	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	Operations         *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
	ResolverErrors     *prometheus.CounterVec
	ResolverDuration   *prometheus.HistogramVec
	SchemaAssembleTime prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gqlcompose_http_requests_total",
				Help: "Total number of HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gqlcompose_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		Operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gqlcompose_operations_total",
				Help: "Total number of GraphQL operations by type and outcome",
			},
			[]string{"operation_type", "outcome"},
		),
		OperationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gqlcompose_operation_duration_seconds",
				Help:    "GraphQL operation duration in seconds by type",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		ResolverErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gqlcompose_resolver_errors_total",
				Help: "Total number of resolver errors by field",
			},
			[]string{"field"},
		),
		ResolverDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gqlcompose_resolver_duration_seconds",
				Help:    "Resolver duration in seconds by field and mode",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"field", "mode"},
		),
		SchemaAssembleTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "gqlcompose_schema_assemble_seconds",
			Help: "Time spent assembling the schema at startup",
		}),
	}
}

// Subscribe feeds m from events published on b. The returned function
// removes every subscription.
func (m *Metrics) Subscribe(b *eventbus.Bus) (unsubscribe func()) {
	subs := []func(){
		eventbus.On(b, func(_ context.Context, e events.HTTPFinish) {
			m.HTTPRequests.WithLabelValues(e.Request.Method, strconv.Itoa(e.Status)).Inc()
			m.HTTPDuration.WithLabelValues(e.Request.Method).Observe(e.Duration.Seconds())
		}),
		eventbus.On(b, func(_ context.Context, e events.GraphQLFinish) {
			opType := e.OperationType
			if opType == "" {
				opType = "unknown"
			}
			outcome := "ok"
			if len(e.Errors) > 0 {
				outcome = "error"
			}
			m.Operations.WithLabelValues(opType, outcome).Inc()
			m.OperationDuration.WithLabelValues(opType).Observe(e.Duration.Seconds())
		}),
		eventbus.On(b, func(_ context.Context, e events.ResolverFinish) {
			field := e.ObjectType + "." + e.Field
			mode := "sync"
			if e.Async {
				mode = "async"
			}
			m.ResolverDuration.WithLabelValues(field, mode).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.ResolverErrors.WithLabelValues(field).Inc()
			}
		}),
		eventbus.On(b, func(_ context.Context, e events.SchemaAssembled) {
			m.SchemaAssembleTime.Set(e.Duration.Seconds())
		}),
	}
	return func() {
		for _, unsubscribe := range subs {
			unsubscribe()
		}
	}
}
