package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCacheStatusIsExclusive(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordCacheStatus("loading")
	r.RecordCacheStatus("ready")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheStatus.WithLabelValues("ready")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.cacheStatus.WithLabelValues("loading")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.cacheStatus.WithLabelValues("error")))
}

func TestRecorderUpstreamCalls(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordUpstreamCall("polygon", "grouped", "ok")
	r.RecordUpstreamCall("polygon", "grouped", "ok")
	r.RecordUpstreamCall("polygon", "grouped", "error")
	r.RecordValueScore("AAPL", 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamCalls.WithLabelValues("polygon", "grouped", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamCalls.WithLabelValues("polygon", "grouped", "error")))
	assert.Equal(t, 42.0, testutil.ToFloat64(r.valueScore.WithLabelValues("AAPL")))
}
