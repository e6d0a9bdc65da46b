package bundler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered per Bundler so a process can bundle more than once
// and tests do not share counters.
type metrics struct {
	registry *prometheus.Registry

	bundleDuration   prometheus.Histogram
	bundleTotal      *prometheus.CounterVec
	copiedReferences *prometheus.CounterVec
	copiedBytes      prometheus.Counter
	copyDuration     prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,

		bundleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "joshua_bundle_duration_seconds",
				Help:    "Time taken to generate a complete bundle",
				Buckets: []float64{0.1, 1, 5, 10, 30, 60, 300, 900},
			},
		),

		bundleTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "joshua_bundle_total",
				Help: "Total number of bundle generation attempts",
			},
			[]string{"status"}, // success or error
		),

		copiedReferences: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "joshua_bundle_copied_references_total",
				Help: "Number of configuration references copied into bundles",
			},
			[]string{"key"}, // tm, lm, weights-file
		),

		copiedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "joshua_bundle_copied_bytes_total",
				Help: "Bytes copied into bundles",
			},
		),

		copyDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "joshua_bundle_copy_duration_seconds",
				Help:    "Time taken to copy a single reference",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
			},
		),
	}
}

// Gatherer exposes the bundler's metrics.
func (b *Bundler) Gatherer() prometheus.Gatherer {
	return b.metrics.registry
}

// WriteMetrics writes the bundler's metrics to path in the Prometheus text
// format, suitable for the node exporter textfile collector.
func (b *Bundler) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, b.metrics.registry)
}
