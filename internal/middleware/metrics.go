package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPC Metrics
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hizbtrack_rpc_requests_total",
			Help: "Total number of RPC requests",
		},
		[]string{"procedure", "code"},
	)

	RPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hizbtrack_rpc_request_duration_seconds",
			Help:    "Duration of RPC requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"procedure"},
	)

	// Group Metrics
	GroupProgressPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hizbtrack_group_progress_percent",
			Help: "Share of the group's total reading completed, in percent",
		},
	)

	GroupMembers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hizbtrack_group_members",
			Help: "Current number of group members",
		},
	)

	ProgressUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hizbtrack_progress_updates_total",
			Help: "Total number of progress updates",
		},
		[]string{"mode"}, // current, historical
	)
)

// MetricsInterceptor returns a Connect interceptor that counts RPCs by
// procedure and result code and records their latency.
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			RPCRequestsTotal.WithLabelValues(procedure, code).Inc()
			RPCRequestDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())

			return resp, err
		}
	}
}

// RecordGroup publishes the current group figures.
func RecordGroup(progressPercent float64, members int) {
	GroupProgressPercent.Set(progressPercent)
	GroupMembers.Set(float64(members))
}
