package authfilter

import (
	"sync"
	"time"

	"github.com/back-devcourse/authfilter/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names recorded by the Filter.
const (
	metricRequests = "authfilter_requests_total"
	metricDuration = "authfilter_authenticate_duration_seconds"
)

// Outcome labels.
const (
	outcomeBypass    = "bypass"
	outcomeAnonymous = "anonymous"
	outcomeToken     = "token"
	outcomeAPIKey    = "api_key"
	outcomeRefreshed = "refreshed"
	outcomeError     = "error"
)

func outcomeFor(m core.Method) string {
	switch m {
	case core.MethodAccessToken:
		return outcomeToken
	case core.MethodAPIKey:
		return outcomeAPIKey
	case core.MethodRefreshed:
		return outcomeRefreshed
	default:
		return outcomeAnonymous
	}
}

func (f *Filter) observe(outcome string, start time.Time) {
	tags := map[string]string{"outcome": outcome}
	f.metrics.IncCounter(metricRequests, tags)
	f.metrics.ObserveHistogram(metricDuration, time.Since(start).Seconds(), tags)
}

// Metrics is a generic metrics interface for the filter.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (m *NoopMetrics) IncCounter(name string, tags map[string]string)                      {}
func (m *NoopMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {}

// PrometheusMetrics implements the Metrics interface using Prometheus.
// Vectors are registered on first use; the label set of a name is fixed by
// its first observation.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics returns a Metrics implementation registering on reg,
// or on prometheus.DefaultRegisterer when reg is nil.
func NewPrometheusMetrics(reg prometheus.Registerer) Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name + " counter"}, keys(tags))
		m.registerer.MustRegister(vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()
	vec.With(tags).Inc()
}

func (m *PrometheusMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    name + " histogram",
			Buckets: prometheus.DefBuckets,
		}, keys(tags))
		m.registerer.MustRegister(vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()
	vec.With(tags).Observe(value)
}

func keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
