package repository

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) RecordUpstreamCall(string, string, string) {}
func (NopMetrics) RecordGateWait(float64)                    {}
func (NopMetrics) RecordRefresh(string, float64)             {}
func (NopMetrics) RecordCacheStatus(string)                  {}
func (NopMetrics) RecordValueScore(string, int)              {}
