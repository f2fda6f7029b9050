package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ierrors "github.com/statekit-dev/statekit/internal/errors"
	"github.com/statekit-dev/statekit/pkg/store"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "statekit").
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

	// StoreLabel is the value of the "store" label on every metric this
	// middleware instance records (default: "store").
	StoreLabel string
}

// MetricsOption configures the Prometheus metrics middleware.
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

// WithStoreLabel sets the "store" label value for this middleware instance.
// Use it to tell multiple instrumented stores apart on one registry.
func WithStoreLabel(name string) MetricsOption {
	return func(c *MetricsConfig) {
		c.StoreLabel = name
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:  "statekit",
		Buckets:    prometheus.DefBuckets,
		Registry:   prometheus.DefaultRegisterer,
		StoreLabel: "store",
	}
}

// metrics holds the Prometheus metrics shared by all instrumented stores.
type metrics struct {
	dispatchesTotal  *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchErrors   *prometheus.CounterVec
	observersActive  *prometheus.GaugeVec
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of actions dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "action", "status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Dispatch duration in seconds, reducer and observers included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store", "action"}),

		dispatchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_errors_total",
			Help:        "Total number of rejected dispatches by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "action", "code"}),

		observersActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observers_active",
			Help:        "Number of active store observers",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),
	}
}

// Prometheus creates middleware that records Prometheus metrics for every
// dispatch.
//
// Metrics collected:
//   - statekit_dispatches_total: Counter of dispatches by store, action and status
//   - statekit_dispatch_duration_seconds: Histogram of dispatch duration
//   - statekit_dispatch_errors_total: Counter of rejected dispatches by error code
//   - statekit_observers_active: Gauge of active observers (via RecordObserver*)
//
// Example:
//
//	s := counter.NewStore(
//	    store.WithMiddleware[counter.State](
//	        middleware.Prometheus(middleware.WithStoreLabel("counter")),
//	    ),
//	)
//
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) store.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next store.DispatchFunc) store.DispatchFunc {
		return func(a store.Action) error {
			action := actionLabel(a)
			start := time.Now()

			err := next(a)

			m.dispatchDuration.WithLabelValues(config.StoreLabel, action).Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
				m.dispatchErrors.WithLabelValues(config.StoreLabel, action, errorCode(err)).Inc()
			}
			m.dispatchesTotal.WithLabelValues(config.StoreLabel, action, status).Inc()

			return err
		}
	}
}

// actionLabel returns a bounded label value for an action. Action types form
// a closed set per store, so the cardinality stays small.
func actionLabel(a store.Action) string {
	if a == nil {
		return "unknown"
	}
	return a.ActionType()
}

// errorCode maps a dispatch error to its registered code so error messages
// never leak into label values.
func errorCode(err error) string {
	var coded interface{ Coded() *ierrors.Error }
	if errors.As(err, &coded) {
		return coded.Coded().Code
	}
	var serr *ierrors.Error
	if errors.As(err, &serr) && serr.Code != "" {
		return serr.Code
	}
	return "internal"
}

// RecordObserverAdd records a new observer on a store.
// Call this from server code when a subscription is created.
func RecordObserverAdd(storeName string) {
	if globalMetrics != nil {
		globalMetrics.observersActive.WithLabelValues(storeName).Inc()
	}
}

// RecordObserverRemove records an observer going away.
func RecordObserverRemove(storeName string) {
	if globalMetrics != nil {
		globalMetrics.observersActive.WithLabelValues(storeName).Dec()
	}
}
