// Package metrics exports the engine's request lifecycle as prometheus
// series via an observe.Observer implementation.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/observe"
)

// Observer implements observe.Observer on prometheus collectors.
type Observer struct {
	requests    prometheus.Counter
	failures    prometheus.Counter
	duration    prometheus.Histogram
	attempts    *prometheus.CounterVec
	errors      *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	speculative prometheus.Counter
}

// NewObserver builds the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vela",
			Name:      "requests_total",
			Help:      "Requests submitted to the execution engine.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vela",
			Name:      "request_failures_total",
			Help:      "Requests that exhausted every candidate host.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vela",
			Name:      "request_duration_seconds",
			Help:      "End-to-end request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vela",
			Name:      "attempts_total",
			Help:      "Individual send/response cycles by outcome.",
		}, []string{"outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vela",
			Name:      "attempt_errors_total",
			Help:      "Failed attempts by classified error kind.",
		}, []string{"kind"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vela",
			Name:      "retry_decisions_total",
			Help:      "Retry policy verdicts for failed attempts.",
		}, []string{"decision"}),
		speculative: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vela",
			Name:      "speculative_executions_total",
			Help:      "Speculative executions launched.",
		}),
	}

	if reg != nil {
		reg.MustRegister(o.requests, o.failures, o.duration, o.attempts, o.errors, o.decisions, o.speculative)
	}
	return o
}

func (o *Observer) OnRequestStart(context.Context, string, string) {
	o.requests.Inc()
}

func (o *Observer) OnAttempt(_ context.Context, _ string, rec observe.AttemptRecord) {
	if rec.Err == nil {
		o.attempts.WithLabelValues("ok").Inc()
		return
	}
	o.attempts.WithLabelValues("error").Inc()
	o.errors.WithLabelValues(rec.Kind.String()).Inc()
	o.decisions.WithLabelValues(rec.Decision.String()).Inc()
}

func (o *Observer) OnSpeculativeLaunch(context.Context, string, int, *cluster.Host) {
	o.speculative.Inc()
}

func (o *Observer) OnSuccess(_ context.Context, tr observe.RequestTrace) {
	o.duration.Observe(tr.End.Sub(tr.Start).Seconds())
}

func (o *Observer) OnFailure(_ context.Context, tr observe.RequestTrace) {
	o.failures.Inc()
	o.duration.Observe(tr.End.Sub(tr.Start).Seconds())
}
