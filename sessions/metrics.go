package sessions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts session lifecycle events by outcome.
type Metrics struct {
	events *prometheus.CounterVec
}

// NewMetrics registers the session counters with reg. A nil reg yields
// unregistered counters, which is what tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "designare",
			Subsystem: "session",
			Name:      "events_total",
			Help:      "Session lifecycle events partitioned by event and outcome.",
		}, []string{"event", "outcome"}),
	}
}

func (m *Metrics) observe(event, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event, outcome).Inc()
}

// Counter exposes a single series, for tests and dashboards that read it directly.
func (m *Metrics) Counter(event, outcome string) prometheus.Counter {
	return m.events.WithLabelValues(event, outcome)
}
