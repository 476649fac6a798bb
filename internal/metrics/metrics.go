// Package metrics defines the Prometheus metrics of the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream service labels.
const (
	UpstreamExtraction = "extraction"
	UpstreamSheets     = "sheets"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec
	ItemsExtracted  prometheus.Histogram
	RowsWritten     prometheus.Counter
	LedgersComputed prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "splitshare_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "splitshare_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		UpstreamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "splitshare_upstream_errors_total",
			Help: "Failed calls to upstream services.",
		}, []string{"service"}),
		ItemsExtracted: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitshare_items_extracted",
			Help:    "Number of items found per extraction.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		RowsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "splitshare_sheet_rows_written_total",
			Help: "Rows appended to spreadsheets.",
		}),
		LedgersComputed: f.NewCounter(prometheus.CounterOpts{
			Name: "splitshare_ledgers_computed_total",
			Help: "Ledgers computed through the RPC service.",
		}),
	}
}

// ObserveUpstreamError counts a failed upstream call.
func (m *Metrics) ObserveUpstreamError(service string) {
	m.UpstreamErrors.WithLabelValues(service).Inc()
}
