package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 1. Throughput (Counters)
	TermDissociations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neuroq_term_dissociations_total",
		Help: "Total number of term dissociation requests received",
	})

	LocationDissociations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neuroq_location_dissociations_total",
		Help: "Total number of coordinate dissociation requests received",
	})

	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neuroq_store_errors_total",
		Help: "Total number of requests that failed at the backing store",
	})

	// 2. Latency (Histograms)
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "neuroq_query_duration_seconds",
		Help:    "Time taken to resolve, dissociate and enrich a request",
		Buckets: prometheus.DefBuckets, // []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	})
)
