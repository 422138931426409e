package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pos_proximity"

var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "evaluations_total",
			Help:      "Dashboard evaluations by resulting stage.",
		},
		[]string{"stage"}, // no_query|no_match|unknown_outlet|no_producers|none_in_radius|ok|invalid
	)

	NearbySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "nearby_seconds",
			Help:      "Latency of one search + nearby-producer evaluation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	DatasetEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "entities",
			Help:      "Entities in the current store by role.",
		},
		[]string{"role"},
	)

	DatasetReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "reloads_total",
			Help:      "Dataset reloads by result.",
		},
		[]string{"result"}, // ok|error
	)

	ExportJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "jobs_total",
			Help:      "Report export jobs by final status.",
		},
		[]string{"status"}, // done|error
	)
)

var regOnce sync.Once

// MustRegisterAll registers the collectors with the default registry once.
func MustRegisterAll() {
	regOnce.Do(func() {
		prometheus.MustRegister(
			SearchesTotal,
			NearbySeconds,
			DatasetEntities,
			DatasetReloadsTotal,
			ExportJobsTotal,
		)
	})
}
