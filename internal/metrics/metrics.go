// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "khatabook"

// Metrics holds the server's collectors. A nil *Metrics records nothing.
type Metrics struct {
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec
	LiveQueries prometheus.Gauge
	TxRetries   prometheus.Counter
	TotalsDrift prometheus.Counter
	Reconciles  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPCs handled, by procedure and Connect code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency, by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		LiveQueries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_queries",
			Help:      "Open WatchTransactions streams.",
		}),
		TxRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_tx_retries_total",
			Help:      "Store transactions retried after a conflict or busy database.",
		}),
		TotalsDrift: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "totals_drift_total",
			Help:      "Totals records found out of line with their transactions and repaired.",
		}),
		Reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Totals reconciliation runs, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.LiveQueries, m.TxRetries, m.TotalsDrift, m.Reconciles)
	return m
}

// ObserveRetry counts one retried store transaction.
func (m *Metrics) ObserveRetry() {
	if m != nil {
		m.TxRetries.Inc()
	}
}

// ObserveDrift counts one repaired totals record.
func (m *Metrics) ObserveDrift() {
	if m != nil {
		m.TotalsDrift.Inc()
	}
}

// ObserveReconcile counts one reconciliation run.
func (m *Metrics) ObserveReconcile(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Reconciles.WithLabelValues(result).Inc()
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCDuration.WithLabelValues(procedure).Observe(seconds)
}

// StreamOpened and StreamClosed track open live queries.
func (m *Metrics) StreamOpened() {
	if m != nil {
		m.LiveQueries.Inc()
	}
}

func (m *Metrics) StreamClosed() {
	if m != nil {
		m.LiveQueries.Dec()
	}
}
