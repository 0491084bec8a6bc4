// Package metrics exposes planner activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studyplanner"

// Metrics holds the planner collectors and their registry.
type Metrics struct {
	registry    *prometheus.Registry
	mutations   *prometheus.CounterVec
	persistence *prometheus.HistogramVec
	items       *prometheus.GaugeVec
}

// New creates and registers the planner collectors together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Planner mutations by operation and result.",
		}, []string{"operation", "result"}),
		persistence: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persistence_seconds",
			Help:      "Latency of document persistence operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "document_items",
			Help:      "Number of items in each document collection.",
		}, []string{"collection"}),
	}

	m.registry.MustRegister(
		m.mutations,
		m.persistence,
		m.items,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveMutation counts one mutation attempt under its operation and result
// labels, as reported by the planner service.
func (m *Metrics) ObserveMutation(operation, result string) {
	m.mutations.WithLabelValues(operation, result).Inc()
}

// ObservePersistence records how long a persistence operation took.
func (m *Metrics) ObservePersistence(operation string, elapsed time.Duration) {
	m.persistence.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetDocumentSize publishes the current collection sizes.
func (m *Metrics) SetDocumentSize(subjects, tasks, schedule int) {
	m.items.WithLabelValues("subjects").Set(float64(subjects))
	m.items.WithLabelValues("tasks").Set(float64(tasks))
	m.items.WithLabelValues("schedule").Set(float64(schedule))
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
