// Package telemetry holds the Prometheus collectors exported on /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess labels a committed transfer. Failures are labelled with
// their transfer error kind.
const OutcomeSuccess = "success"

// Metrics groups the collectors of one registry.
type Metrics struct {
	Gatherer prometheus.Gatherer

	TransfersTotal      *prometheus.CounterVec
	TransferDuration    prometheus.Histogram
	TransferRecipients  prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	EventsEmittedTotal  *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Gatherer: reg,

		TransfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitpay_transfers_total",
				Help: "Total number of split transfer attempts",
			},
			[]string{"outcome"},
		),
		TransferDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "splitpay_transfer_duration_seconds",
				Help:    "Time to validate and execute a split transfer",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		TransferRecipients: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "splitpay_transfer_recipients",
				Help:    "Number of recipients per committed transfer",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitpay_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitpay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		EventsEmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitpay_events_emitted_total",
				Help: "Post-commit events handed to the event bus",
			},
			[]string{"type", "result"},
		),
	}
}

// NewDefaultMetrics registers the collectors on a fresh registry that also
// carries the Go runtime and process collectors.
func NewDefaultMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetrics(reg)
}
