// Package metrics exports retried map operations as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/utkarsh5026/mapretry/retry"
)

// Observer implements retry.Observer on top of Prometheus collectors.
//
// Exported series (namespace prefix omitted):
//   - retry_attempts_total{op, ok}
//   - retry_outcomes_total{op, outcome}
//   - retry_call_duration_seconds{op}
//   - retry_attempts_per_call{op}
type Observer struct {
	attempts        *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	attemptsPerCall *prometheus.HistogramVec
}

var _ retry.Observer = (*Observer)(nil)

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer, namespace string) (*Observer, error) {
	o := &Observer{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "attempts_total",
			Help:      "Total number of single-attempt map primitive calls",
		}, []string{"op", "ok"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "outcomes_total",
			Help:      "Total number of retried calls by terminal outcome",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "call_duration_seconds",
			Help:      "Wall time of retried calls including pauses",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),
		attemptsPerCall: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "attempts_per_call",
			Help:      "Number of primitive calls made by each retried call",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{o.attempts, o.outcomes, o.duration, o.attemptsPerCall} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// ObserveAttempt counts one primitive call.
func (o *Observer) ObserveAttempt(op retry.Op, _ int, ok bool) {
	label := "false"
	if ok {
		label = "true"
	}
	o.attempts.WithLabelValues(op.String(), label).Inc()
}

// ObserveOutcome records the terminal state of one call. Calls rejected by a
// precondition are counted but not timed.
func (o *Observer) ObserveOutcome(op retry.Op, outcome retry.Outcome, attempts int, elapsed time.Duration) {
	o.outcomes.WithLabelValues(op.String(), outcome.String()).Inc()
	if outcome == retry.OutcomePrecondition {
		return
	}
	o.duration.WithLabelValues(op.String()).Observe(elapsed.Seconds())
	o.attemptsPerCall.WithLabelValues(op.String()).Observe(float64(attempts))
}
