package middleware

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	serrors "github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/router"
)

// MetricsConfig configures the Prometheus navigation metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "storefront").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus navigation metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "storefront",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records navigation and session metrics. It implements
// router.Observer, so one instance can be shared by every session's router.
type Metrics struct {
	navigations      *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	navigationErrors *prometheus.CounterVec
	submits          *prometheus.CounterVec
	opsSent          prometheus.Counter
	activeSessions   prometheus.Gauge
	wsErrors         *prometheus.CounterVec
}

// NewMetrics registers the storefront metrics with the configured registry.
//
// Metrics collected:
//   - storefront_navigations_total: navigations by route and outcome
//   - storefront_navigation_duration_seconds: navigation duration by route
//   - storefront_navigation_errors_total: failed navigations by route and error type
//   - storefront_submits_total: form submissions by form and status
//   - storefront_ops_sent_total: document ops pushed to browsers
//   - storefront_active_sessions: open websocket sessions
//   - storefront_websocket_errors_total: websocket errors by type
//
// NewMetrics panics if the metrics are already registered with the registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by route and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration from hash change to settled outcome",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		submits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submits_total",
			Help:        "Total number of form submissions",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "status"}),

		opsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_sent_total",
			Help:        "Total number of document ops sent to browsers",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open websocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total websocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// ObserveNavigation implements router.Observer.
func (m *Metrics) ObserveNavigation(ev router.Event) {
	m.navigations.WithLabelValues(ev.Route, ev.Outcome.String()).Inc()
	m.duration.WithLabelValues(ev.Route).Observe(ev.Duration.Seconds())
	if ev.Err != nil {
		m.navigationErrors.WithLabelValues(ev.Route, categorizeError(ev.Err)).Inc()
	}
}

// RecordSubmit records a form submission.
func (m *Metrics) RecordSubmit(form string, err error) {
	status := "success"
	if err != nil {
		status = categorizeError(err)
	}
	m.submits.WithLabelValues(form, status).Inc()
}

// RecordOps records document ops sent to a browser.
func (m *Metrics) RecordOps(count int) {
	m.opsSent.Add(float64(count))
}

// SessionOpened records a new websocket session.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed records a closed websocket session.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// RecordWebSocketError records a websocket error.
func (m *Metrics) RecordWebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}

// categorizeError maps an error to a low-cardinality label. Coded errors
// report their code. Anything else is bucketed by message.
func categorizeError(err error) string {
	var se *serrors.StoreError
	if errors.As(err, &se) && se.Code != "" {
		return se.Code
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "canceled"):
		return "canceled"
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "unauthorized"):
		return "unauthorized"
	case strings.Contains(msg, "validation"), strings.Contains(msg, "invalid"):
		return "validation"
	case strings.Contains(msg, "websocket"):
		return "websocket"
	default:
		return "internal"
	}
}
