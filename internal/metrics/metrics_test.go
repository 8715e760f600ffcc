package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.MessageSent()
	m.MessageSent()
	m.AssignmentWritten("create")
	m.PronunciationChecked(true)
	m.PronunciationChecked(false)
	m.ObserveRequest("/speech.v1.Chat/Send", "OK", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messages))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assignments.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/speech.v1.Chat/Send", "OK")))
}

func TestMetrics_SubscriptionGauge(t *testing.T) {
	m := New()

	done := m.SubscriptionOpened("chat")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptions.WithLabelValues("chat")))

	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.subscriptions.WithLabelValues("chat")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.MessageSent()
		m.AssignmentWritten("delete")
		m.PronunciationChecked(true)
		m.ObserveRequest("x", "OK", 1)
		m.SubscriptionOpened("chat")()
		_ = m.Registry()
	})
}
