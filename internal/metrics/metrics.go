// Package metrics holds the Prometheus collectors for ordering and status sync.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use through a nil pointer; every method becomes a no-op.
type Metrics struct {
	registry *prometheus.Registry

	ordersCreated     prometheus.Counter
	itemsAppended     prometheus.Counter
	appendFailures    *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	syncPolls         *prometheus.CounterVec
	syncChanges       prometheus.Counter
	activeStreams     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders opened for a table.",
		}),
		itemsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_lines_appended_total",
			Help: "Order lines appended to existing orders.",
		}),
		appendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_append_failures_total",
			Help: "Rejected or failed order additions by reason.",
		}, []string{"reason"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Accepted order status transitions.",
		}, []string{"from", "to"}),
		syncPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "status_sync_polls_total",
			Help: "Status sync fetch attempts by result.",
		}, []string{"result"}),
		syncChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "status_sync_changes_total",
			Help: "Status changes observed by sync loops.",
		}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "status_streams_active",
			Help: "Open websocket status streams.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ordersCreated,
		m.itemsAppended,
		m.appendFailures,
		m.statusTransitions,
		m.syncPolls,
		m.syncChanges,
		m.activeStreams,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) LinesAppended(n int) {
	if m == nil {
		return
	}
	m.itemsAppended.Add(float64(n))
}

func (m *Metrics) AppendFailed(reason string) {
	if m == nil {
		return
	}
	m.appendFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) StatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

// SyncPoll records a fetch result: "ok", "error", or "discarded".
func (m *Metrics) SyncPoll(result string) {
	if m == nil {
		return
	}
	m.syncPolls.WithLabelValues(result).Inc()
}

func (m *Metrics) SyncChange() {
	if m == nil {
		return
	}
	m.syncChanges.Inc()
}

func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.activeStreams.Inc()
}

func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.activeStreams.Dec()
}
