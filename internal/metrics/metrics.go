// Package metrics exposes Prometheus collectors for scans, points, the
// redemption ledger, store failures and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScanResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecoscan_scan_results_total",
			Help: "Scan completion attempts by outcome",
		},
		[]string{"reason"},
	)

	PointsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecoscan_points_awarded_total",
			Help: "Points awarded by completed activities",
		},
	)

	Redemptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecoscan_redemptions_total",
			Help: "Successful point redemptions",
		},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecoscan_store_errors_total",
			Help: "Failed store operations by operation name",
		},
		[]string{"op"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecoscan_http_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
