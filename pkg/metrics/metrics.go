// Package metrics defines the Prometheus collectors shared by the router,
// the browser bridge and the storage layer.
//
// Metrics collected:
//   - navshell_dispatches_total: Counter of dispatches by result
//   - navshell_dispatch_duration_seconds: Histogram of dispatch duration
//   - navshell_navigations_total: Counter of programmatic navigations
//   - navshell_active_connections: Gauge of open bridge connections
//   - navshell_frame_errors_total: Counter of rejected bridge frames by type
//   - navshell_storage_ops_total: Counter of storage operations by op and result
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch results.
const (
	ResultMatched   = "matched"
	ResultNotFound  = "not_found"
	ResultUnhandled = "unhandled"
	ResultPanic     = "panic"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "navshell").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace. An empty namespace keeps the
// default.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		if namespace != "" {
			c.Namespace = namespace
		}
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "navshell",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. Create one per process and share it.
type Metrics struct {
	dispatches  *prometheus.CounterVec
	duration    prometheus.Histogram
	navigations prometheus.Counter
	connections prometheus.Gauge
	frameErrors *prometheus.CounterVec
	storageOps  *prometheus.CounterVec
}

// New registers the collectors and returns them.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of route dispatches",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Route dispatch duration in seconds, handler included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		navigations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of programmatic navigations",
			ConstLabels: config.ConstLabels,
		}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_connections",
			Help:        "Number of open bridge connections",
			ConstLabels: config.ConstLabels,
		}),

		frameErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_errors_total",
			Help:        "Total bridge frames rejected by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		storageOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "storage_ops_total",
			Help:        "Total storage operations by operation and result",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "result"}),
	}
}

// ObserveDispatch records one finished dispatch.
func (m *Metrics) ObserveDispatch(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
}

// IncNavigations counts one programmatic navigation.
func (m *Metrics) IncNavigations() {
	if m == nil {
		return
	}
	m.navigations.Inc()
}

// ConnOpened increments the open connection gauge.
func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

// ConnClosed decrements the open connection gauge.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// FrameError counts a rejected bridge frame.
func (m *Metrics) FrameError(kind string) {
	if m == nil {
		return
	}
	m.frameErrors.WithLabelValues(kind).Inc()
}

// StorageOp counts a storage operation. err decides the result label.
func (m *Metrics) StorageOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storageOps.WithLabelValues(op, result).Inc()
}
