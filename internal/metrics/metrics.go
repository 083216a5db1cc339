// Package metrics provides Prometheus metrics for the readiness service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "readiness"
)

// Outcome labels for analysis requests. Failure outcomes use the error kind.
const (
	OutcomeSuccess = "success"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets the registry the metrics are registered on.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.runtimeCollectors = true
	}
}

// Manager owns every metric the service exports. All record methods are safe
// on a nil Manager so components can run without metrics in tests.
type Manager struct {
	namespace         string
	registry          *prometheus.Registry
	runtimeCollectors bool

	analysisRequests   *prometheus.CounterVec
	analysisLatency    prometheus.Histogram
	tiersIssued        *prometheus.CounterVec
	overrides          *prometheus.CounterVec
	enrichmentFailures *prometheus.CounterVec
	remoteWrites       *prometheus.CounterVec
	remoteFailures     *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager on its own registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	if m.runtimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.analysisRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "analysis_requests_total",
		Help:      "Readiness analyses by outcome (success or error kind)",
	}, []string{"outcome"})

	m.analysisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Latency of the inference call for a readiness analysis",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
	})

	m.tiersIssued = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "tiers_issued_total",
		Help:      "Reports issued by final readiness tier",
	}, []string{"tier"})

	m.overrides = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "classification_overrides_total",
		Help:      "Reports where the local tier replaced the inference service's classification",
	}, []string{"reported", "derived"})

	m.enrichmentFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "profile_enrichment_failures_total",
		Help:      "Profile enrichment calls that failed and fell back to raw fields",
	}, []string{"kind"})

	m.remoteWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "remote_writes_total",
		Help:      "Remote store writes attempted by table",
	}, []string{"table"})

	m.remoteFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "remote_write_failures_total",
		Help:      "Remote store writes that failed by table",
	}, []string{"table"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by route, method and status code",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status_code"})
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAnalysis counts one analysis and, on success, observes its latency.
func (m *Manager) RecordAnalysis(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.analysisRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.analysisLatency.Observe(duration.Seconds())
	}
}

func (m *Manager) RecordTier(tier string) {
	if m == nil {
		return
	}
	m.tiersIssued.WithLabelValues(tier).Inc()
}

func (m *Manager) RecordOverride(reported, derived string) {
	if m == nil {
		return
	}
	m.overrides.WithLabelValues(reported, derived).Inc()
}

func (m *Manager) RecordEnrichmentFailure(kind string) {
	if m == nil {
		return
	}
	m.enrichmentFailures.WithLabelValues(kind).Inc()
}

// RecordRemoteWrite counts one remote write attempt and whether it failed.
func (m *Manager) RecordRemoteWrite(table string, err error) {
	if m == nil {
		return
	}
	m.remoteWrites.WithLabelValues(table).Inc()
	if err != nil {
		m.remoteFailures.WithLabelValues(table).Inc()
	}
}

func (m *Manager) RecordHTTPRequest(route, method, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(duration.Seconds())
}
