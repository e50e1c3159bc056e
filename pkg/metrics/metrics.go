package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qaforum"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// VoteMetrics counts resolved vote casts by transition and rejected casts by reason.
type VoteMetrics struct {
	Cast     *prometheus.CounterVec
	Rejected *prometheus.CounterVec
}

func NewVoteMetrics(reg prometheus.Registerer) *VoteMetrics {
	m := &VoteMetrics{
		Cast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Total number of applied vote casts, by target kind and transition.",
		}, []string{"target_kind", "transition"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_rejected_total",
			Help:      "Total number of vote casts rejected before or during the write, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.Cast, m.Rejected)
	return m
}

// NotificationMetrics counts persisted notifications and bulk clears.
type NotificationMetrics struct {
	Emitted *prometheus.CounterVec
	Cleared prometheus.Counter
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	m := &NotificationMetrics{
		Emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Total number of notifications persisted, by event kind.",
		}, []string{"event_kind"}),
		Cleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_cleared_total",
			Help:      "Total number of notifications removed by recipients clearing their inbox.",
		}),
	}

	reg.MustRegister(m.Emitted, m.Cleared)
	return m
}
