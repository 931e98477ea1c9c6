package speculative

import (
	"strings"
	"time"

	"github.com/veladb/vela/wire"
)

// PercentilePolicy schedules speculative executions once the initial
// attempt has been in flight longer than an observed latency quantile.
// Until the tracker has samples it falls back to FallbackDelay, or
// stays silent when that is zero.
type PercentilePolicy struct {
	Tracker    LatencyTracker
	Percentile string // "p50", "p90", "p95", "p99"

	MaxSpeculativeExecutions int

	// FallbackDelay is used while the tracker has no data.
	FallbackDelay time.Duration
}

func (p PercentilePolicy) NewPlan(*wire.Request) Plan {
	delay := p.FallbackDelay
	if p.Tracker != nil {
		if d := p.pick(p.Tracker.Snapshot()); d > 0 {
			delay = d
		}
	}
	if delay <= 0 {
		return nonePlan{}
	}
	return &constantPlan{delay: delay, remaining: p.MaxSpeculativeExecutions}
}

func (p PercentilePolicy) pick(s LatencySnapshot) time.Duration {
	switch strings.ToLower(p.Percentile) {
	case "p50":
		return s.P50
	case "p90":
		return s.P90
	case "p95":
		return s.P95
	case "p99", "":
		return s.P99
	default:
		return 0
	}
}
