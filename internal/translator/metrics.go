package translator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	translationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhwani_translation_requests_total",
			Help: "Total number of translation requests sent to the backend",
		},
		[]string{"device_type", "status"},
	)

	translationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dhwani_translation_request_duration_seconds",
			Help:    "Duration of translation requests in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"device_type", "status"},
	)

	translationChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dhwani_translation_chunks",
			Help:    "Number of word chunks per translation request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	translationRequestSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dhwani_translation_request_size_bytes",
			Help:    "Size of translation request text in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		},
	)
)

// recordRequest records metrics for one backend call. kind is empty on success.
func recordRequest(deviceType string, kind ErrorKind, duration time.Duration, chunks, requestSize int) {
	status := "success"
	if kind != "" {
		status = string(kind)
	}

	translationRequestsTotal.WithLabelValues(deviceType, status).Inc()
	translationRequestDuration.WithLabelValues(deviceType, status).Observe(duration.Seconds())
	translationChunks.Observe(float64(chunks))
	translationRequestSize.Observe(float64(requestSize))
}
