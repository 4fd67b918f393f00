// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitledger"

// Metrics groups the collectors recorded by the RPC layer and the balance
// query path.
type Metrics struct {
	RPCRequests        *prometheus.CounterVec
	RPCDuration        *prometheus.HistogramVec
	BalanceQueries     *prometheus.CounterVec
	SettlementsPerPlan prometheus.Histogram
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		BalanceQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_queries_total",
			Help:      "Group balance computations by outcome.",
		}, []string{"outcome"}),
		SettlementsPerPlan: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlements_per_plan",
			Help:      "Number of transfers in each simplified settle-up plan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}
}

// ObserveBalanceQuery records one balance computation. A nil receiver is a no-op.
func (m *Metrics) ObserveBalanceQuery(settlements int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.BalanceQueries.WithLabelValues("error").Inc()
		return
	}
	m.BalanceQueries.WithLabelValues("ok").Inc()
	m.SettlementsPerPlan.Observe(float64(settlements))
}
