package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	oauthCallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizhub",
			Subsystem: "oauth",
			Name:      "callbacks_total",
			Help:      "OAuth callbacks by platform and outcome.",
		},
		[]string{"platform", "outcome"},
	)

	tokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizhub",
			Subsystem: "oauth",
			Name:      "token_refreshes_total",
			Help:      "Token refresh attempts by platform and result.",
		},
		[]string{"platform", "result"},
	)

	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizhub",
			Subsystem: "ai",
			Name:      "generations_total",
			Help:      "Generation requests by content type and outcome.",
		},
		[]string{"content_type", "outcome"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizhub",
			Subsystem: "ai",
			Name:      "generation_duration_seconds",
			Help:      "Duration of calls to the generative endpoint.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"content_type"},
	)

	generatedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizhub",
			Subsystem: "ai",
			Name:      "generated_records_total",
			Help:      "Records parsed out of generated text.",
		},
		[]string{"content_type"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		oauthCallbacks,
		tokenRefreshes,
		generations,
		generationDuration,
		generatedRecords,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordOAuthCallback(platform, outcome string) {
	oauthCallbacks.WithLabelValues(platform, outcome).Inc()
}

func RecordTokenRefresh(platform, result string) {
	tokenRefreshes.WithLabelValues(platform, result).Inc()
}

func RecordGeneration(contentType, outcome string, duration time.Duration, records int) {
	generations.WithLabelValues(contentType, outcome).Inc()
	generationDuration.WithLabelValues(contentType).Observe(duration.Seconds())
	if records > 0 {
		generatedRecords.WithLabelValues(contentType).Add(float64(records))
	}
}
