// Package metrics owns the Prometheus collectors of the process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var objectsIngestedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "specctl_objects_ingested_total",
		Help: "Total number of manifest objects handed to the engine, by kind.",
	},
	[]string{"kind"},
)

var diagnosticsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "specctl_diagnostics_total",
		Help: "Total number of diagnostics reported by the engine, by category.",
	},
	[]string{"category"},
)

var translationsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "specctl_translations_total",
		Help: "Total number of translation passes, by result (ok, empty, error).",
	},
	[]string{"result"},
)

var translationDuration = promauto.With(prometheus.DefaultRegisterer).NewHistogram(
	prometheus.HistogramOpts{
		Name:    "specctl_translation_duration_seconds",
		Help:    "Duration of a single translation pass.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	},
)

// RecordObjectIngested increments the ingested objects counter for kind.
func RecordObjectIngested(kind string) {
	objectsIngestedTotal.WithLabelValues(kind).Inc()
}

// RecordDiagnostic increments the diagnostics counter for category.
func RecordDiagnostic(category string) {
	diagnosticsTotal.WithLabelValues(category).Inc()
}

// RecordTranslation counts a finished translation and observes its duration.
func RecordTranslation(result string, duration time.Duration) {
	translationsTotal.WithLabelValues(result).Inc()
	translationDuration.Observe(duration.Seconds())
}

// Recorder exposes the package counters through the translator's Recorder port.
type Recorder struct{}

func (Recorder) RecordObject(kind string) {
	RecordObjectIngested(kind)
}

func (Recorder) RecordDiagnostic(category string) {
	RecordDiagnostic(category)
}

func (Recorder) RecordTranslation(result string, duration time.Duration) {
	RecordTranslation(result, duration)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
