// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "speechpractice"

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions *prometheus.GaugeVec
	messages      prometheus.Counter
	assignments   *prometheus.CounterVec
	checks        *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry
// together with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "gRPC calls by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC call latency. Streams are measured until they end.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		subscriptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscriptions",
			Help:      "Open live subscriptions by kind.",
		}, []string{"kind"}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_sent_total",
			Help:      "Chat messages appended.",
		}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Assignment writes by operation.",
		}, []string{"op"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pronunciation_checks_total",
			Help:      "Pronunciation checks by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.subscriptions,
		m.messages,
		m.assignments,
		m.checks,
	)

	return m
}

// Registry returns the registry to expose over HTTP.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// ObserveRequest records one finished gRPC call.
func (m *Metrics) ObserveRequest(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(seconds)
}

// SubscriptionOpened increments the open subscription gauge and returns the
// matching decrement, to be called once when the subscription ends.
func (m *Metrics) SubscriptionOpened(kind string) func() {
	if m == nil {
		return func() {}
	}
	g := m.subscriptions.WithLabelValues(kind)
	g.Inc()
	return g.Dec
}

// MessageSent counts an appended chat message.
func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.messages.Inc()
}

// AssignmentWritten counts an assignment create or delete.
func (m *Metrics) AssignmentWritten(op string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(op).Inc()
}

// PronunciationChecked counts a scored attempt.
func (m *Metrics) PronunciationChecked(matched bool) {
	if m == nil {
		return
	}
	result := "incorrect"
	if matched {
		result = "correct"
	}
	m.checks.WithLabelValues(result).Inc()
}
