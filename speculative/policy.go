// Package speculative holds the speculative-execution policy contract:
// a per-request schedule of delays after which the engine may race an
// additional attempt against another host to hide tail latency.
//
// Speculative executions are only ever armed for idempotent requests;
// the engine enforces that, not the policies here.
package speculative

import (
	"time"

	"github.com/veladb/vela/wire"
)

// Plan is one request's delay schedule. NextDelay returns the wait
// before the next speculative launch and false once the schedule is
// exhausted. A plan is consumed by a single coordinator and need not be
// safe for concurrent use.
type Plan interface {
	NextDelay() (time.Duration, bool)
}

// Policy produces a fresh Plan per request.
type Policy interface {
	NewPlan(req *wire.Request) Plan
}

// NonePolicy never schedules a speculative execution. It is the engine
// default.
type NonePolicy struct{}

func (NonePolicy) NewPlan(*wire.Request) Plan { return nonePlan{} }

type nonePlan struct{}

func (nonePlan) NextDelay() (time.Duration, bool) { return 0, false }

// ConstantPolicy schedules up to MaxSpeculativeExecutions additional
// attempts, each Delay after the previous launch.
type ConstantPolicy struct {
	Delay time.Duration

	// MaxSpeculativeExecutions caps the additional attempts per
	// request. Zero disables the policy.
	MaxSpeculativeExecutions int
}

func (p ConstantPolicy) NewPlan(*wire.Request) Plan {
	return &constantPlan{delay: p.Delay, remaining: p.MaxSpeculativeExecutions}
}

type constantPlan struct {
	delay     time.Duration
	remaining int
}

func (p *constantPlan) NextDelay() (time.Duration, bool) {
	if p.remaining <= 0 {
		return 0, false
	}
	p.remaining--
	return p.delay, true
}
