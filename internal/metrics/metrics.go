package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartbrief",
		Name:      "extractions_total",
		Help:      "Content extractions by source type and outcome.",
	}, []string{"source_type", "outcome"})

	InferenceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartbrief",
		Name:      "inference_requests_total",
		Help:      "Completion requests by action, model and outcome.",
	}, []string{"action", "model", "outcome"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smartbrief",
		Name:      "inference_duration_seconds",
		Help:      "Latency of completion requests.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"action"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartbrief",
		Name:      "exports_total",
		Help:      "Export requests by format and outcome.",
	}, []string{"format", "outcome"})
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveInference records one completion call.
func ObserveInference(action, model string, started time.Time, err error) {
	InferenceRequestsTotal.WithLabelValues(action, model, Outcome(err)).Inc()
	InferenceDuration.WithLabelValues(action).Observe(time.Since(started).Seconds())
}
