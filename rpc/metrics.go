package rpc

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the pool operation counters. Each Server carries its own
// registry so tests can run servers side by side.
type metrics struct {
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidopool_operations_total",
			Help: "Successful pool operations by type.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidopool_operation_failures_total",
			Help: "Rejected pool operations by type and reason code.",
		}, []string{"op", "code"}),
	}
	m.registry.MustRegister(m.ops, m.failures)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
