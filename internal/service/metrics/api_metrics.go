package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finscore",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of stock endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finscore",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by stock endpoint",
		},
		[]string{"endpoint", "code"},
	)

	OnDemandEnrichments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finscore",
			Subsystem: "api",
			Name:      "on_demand_enrichments_total",
			Help:      "Ticker lookups served outside the cached universe",
		},
		[]string{"result"},
	)
)

// Register adds the API collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(APILatency, APIErrors, OnDemandEnrichments)
	})
}
