package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheStatuses = []string{"cold", "loading", "ready", "error"}

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	upstreamCalls *prometheus.CounterVec
	gateWait      prometheus.Histogram
	refreshes     *prometheus.CounterVec
	refreshDur    *prometheus.HistogramVec
	cacheStatus   *prometheus.GaugeVec
	valueScore    *prometheus.GaugeVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_upstream_calls_total",
				Help: "Total number of upstream calls by provider, operation and result",
			},
			[]string{"provider", "op", "result"},
		),
		gateWait: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finscore_gate_wait_seconds",
				Help:    "Time spent waiting on the fetch gate",
				Buckets: []float64{0.01, 0.1, 1, 5, 12, 30, 60, 120},
			},
		),
		refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_refresh_total",
				Help: "Total number of enrichment refresh runs by result",
			},
			[]string{"result"},
		),
		refreshDur: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finscore_refresh_duration_seconds",
				Help:    "Duration of enrichment refresh runs",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
			[]string{"result"},
		),
		cacheStatus: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finscore_cache_status",
				Help: "1 for the current enrichment cache status, 0 otherwise",
			},
			[]string{"status"},
		),
		valueScore: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finscore_value_score",
				Help: "Latest value score per ticker",
			},
			[]string{"ticker"},
		),
	}
}

// RecordUpstreamCall counts one upstream request.
func (r *Recorder) RecordUpstreamCall(provider, op, result string) {
	r.upstreamCalls.WithLabelValues(provider, op, result).Inc()
}

// RecordGateWait observes how long a caller blocked on the fetch gate.
func (r *Recorder) RecordGateWait(seconds float64) {
	r.gateWait.Observe(seconds)
}

// RecordRefresh records a finished refresh run.
func (r *Recorder) RecordRefresh(result string, seconds float64) {
	r.refreshes.WithLabelValues(result).Inc()
	r.refreshDur.WithLabelValues(result).Observe(seconds)
}

// RecordCacheStatus flips the status gauge to the given state.
func (r *Recorder) RecordCacheStatus(status string) {
	for _, s := range cacheStatuses {
		v := 0.0
		if s == status {
			v = 1
		}
		r.cacheStatus.WithLabelValues(s).Set(v)
	}
}

// RecordValueScore records the latest score for a ticker.
func (r *Recorder) RecordValueScore(ticker string, score int) {
	r.valueScore.WithLabelValues(ticker).Set(float64(score))
}
