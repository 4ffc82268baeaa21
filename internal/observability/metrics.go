package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesReceived = promauto.NewCounter(prometheus.CounterOpts{Namespace: "rider_gps", Name: "updates_received_total", Help: "Location updates accepted and persisted"})
	UpdatesFailed   = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rider_gps", Name: "updates_failed_total", Help: "Location updates that produced a failure ack"},
		[]string{"reason"},
	)
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "rider_gps", Name: "sessions_active", Help: "Open rider location sessions"})
	UpsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rider_gps",
		Name:      "upsert_duration_seconds",
		Help:      "Latency of the per-update store upsert",
		Buckets:   prometheus.DefBuckets,
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rider_gps", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rider_gps",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
