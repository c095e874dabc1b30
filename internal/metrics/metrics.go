// Package metrics exposes Prometheus collectors for the gacor service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gacor_requests_total",
		Help: "Total number of API requests by provider key and response status.",
	}, []string{"provider", "code"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gacor_fetch_duration_seconds",
		Help:    "Duration of upstream page fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gacor_fetch_errors_total",
		Help: "Total number of upstream fetches that failed or timed out.",
	}, []string{"provider"})

	ItemsExtracted = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gacor_items_extracted",
		Help: "Number of game tiles extracted by the most recent scrape of a provider.",
	}, []string{"provider"})
)

// RecordRequest counts one served API request.
func RecordRequest(provider, code string) {
	RequestsTotal.WithLabelValues(provider, code).Inc()
}

// ObserveFetch records the duration of an upstream fetch that began at start, and
// counts it as an error when err is non-nil.
func ObserveFetch(provider string, start time.Time, err error) {
	FetchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		FetchErrors.WithLabelValues(provider).Inc()
	}
}

// SetItems records how many tiles the latest scrape of provider produced.
func SetItems(provider string, count int) {
	ItemsExtracted.WithLabelValues(provider).Set(float64(count))
}
