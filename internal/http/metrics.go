package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	UpstreamErrorsTotal *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotgate_requests_total",
				Help: "Total number of gateway requests by endpoint and outcome",
			},
			[]string{"endpoint", "status"},
		),
		UpstreamErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotgate_upstream_errors_total",
				Help: "Total number of failures translated at the component boundary",
			},
			[]string{"operation", "kind"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spotgate_request_duration_seconds",
				Help:    "Time spent serving gateway requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}

	registerer.MustRegister(
		metrics.RequestsTotal,
		metrics.UpstreamErrorsTotal,
		metrics.RequestDuration,
	)

	return metrics
}

func (m *Metrics) RecordRequest(endpoint, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) RecordError(operation, kind string) {
	m.UpstreamErrorsTotal.WithLabelValues(operation, kind).Inc()
}
