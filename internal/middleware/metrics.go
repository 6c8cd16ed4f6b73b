package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/splitledger/internal/models"
)

const namespace = "splitledger"

// Metrics holds the Prometheus collectors for RPC traffic and ledger activity.
type Metrics struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	splitsAllocated *prometheus.CounterVec
	splitsPaid      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		splitsAllocated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_allocated_total",
			Help:      "Entries whose splits were (re)computed, by split type.",
		}, []string{"split_type"}),
		splitsPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_paid_total",
			Help:      "Splits marked as paid.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.splitsAllocated, m.splitsPaid)
	return m
}

// Interceptor records a request count and latency sample for every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.requests.WithLabelValues(procedure, code).Inc()
			m.latency.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// SplitsAllocated counts one allocation of the given type. Safe on a nil receiver.
func (m *Metrics) SplitsAllocated(t models.SplitType) {
	if m == nil {
		return
	}
	m.splitsAllocated.WithLabelValues(string(t)).Inc()
}

// SplitPaid counts one split marked as paid. Safe on a nil receiver.
func (m *Metrics) SplitPaid() {
	if m == nil {
		return
	}
	m.splitsPaid.Inc()
}
