package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMeter adapts a prometheus.Registerer to the Meter capability.
// Each metric name is registered as a CounterVec/HistogramVec exactly once;
// later calls for the same name reuse the existing vector, matching the
// "metric handles are created once per process per metric name" resource
// rule.
type PrometheusMeter struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMeter returns a Meter backed by registerer. A nil registerer
// falls back to prometheus.DefaultRegisterer.
func NewPrometheusMeter(registerer prometheus.Registerer) *PrometheusMeter {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &PrometheusMeter{
		registerer: registerer,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMeter) Counter(name string, labelNames ...string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, labelNames)
		m.registerer.MustRegister(vec)
		m.counters[name] = vec
	}
	return &prometheusCounter{vec: vec, labelNames: labelNames}
}

func (m *PrometheusMeter) Histogram(name string, _ string, labelNames ...string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Buckets: prometheus.DefBuckets,
		}, labelNames)
		m.registerer.MustRegister(vec)
		m.histograms[name] = vec
	}
	return &prometheusHistogram{vec: vec, labelNames: labelNames}
}

type prometheusCounter struct {
	vec        *prometheus.CounterVec
	labelNames []string
}

func (c *prometheusCounter) Add(_ context.Context, delta float64, attrs ...Attr) {
	c.vec.With(attrsToLabels(c.labelNames, attrs)).Add(delta)
}

type prometheusHistogram struct {
	vec        *prometheus.HistogramVec
	labelNames []string
}

func (h *prometheusHistogram) Observe(_ context.Context, value float64, attrs ...Attr) {
	h.vec.With(attrsToLabels(h.labelNames, attrs)).Observe(value)
}

func attrsToLabels(labelNames []string, attrs []Attr) prometheus.Labels {
	labels := make(prometheus.Labels, len(labelNames))
	for _, name := range labelNames {
		labels[name] = ""
	}
	for _, attr := range attrs {
		if _, declared := labels[attr.Key]; !declared {
			continue
		}
		labels[attr.Key] = fmt.Sprintf("%v", attr.Value)
	}
	return labels
}
