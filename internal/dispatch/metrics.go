package dispatch

import (
	"github.com/recordar/contact-gateway/pkg/prom"
)

const (
	metricAttemptsTotal   = "delivery_attempts_total"
	metricDispatchSeconds = "pass_duration_seconds"
)

// RegisterMetrics declares the dispatch metric family. Safe to skip when
// the metric system is disabled.
func RegisterMetrics() error {
	if err := prom.CreateMetric(prom.TypeCounterVec, prom.SystemDispatch, metricAttemptsTotal, "channel", "outcome"); err != nil {
		return err
	}
	return prom.CreateMetric(prom.TypeHistogramVec, prom.SystemDispatch, metricDispatchSeconds, "status")
}

func observeAttempt(channel, outcome string) {
	prom.IncCounterVec(prom.SystemDispatch, metricAttemptsTotal, channel, outcome)
}

func observeDispatch(status string, seconds float64) {
	prom.AddHistogramVec(prom.SystemDispatch, metricDispatchSeconds, seconds, status)
}
