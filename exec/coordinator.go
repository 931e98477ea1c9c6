package exec

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/veladb/vela/budget"
	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/config"
	"github.com/veladb/vela/lb"
	"github.com/veladb/vela/observe"
	"github.com/veladb/vela/retry"
	"github.com/veladb/vela/speculative"
	"github.com/veladb/vela/wire"
)

// outcomeEvent is one message on the coordinator's result channel:
// either an execution's terminal outcome or the speculative launcher
// announcing it will launch no more.
type outcomeEvent struct {
	success      bool
	launcherExit bool

	index int
	host  *cluster.Host
	resp  *wire.Response
	err   error
}

// coordinator owns one request: the query plan, the racing executions,
// and the single delivered result. It is created per request and never
// reused.
type coordinator struct {
	eng  *Engine
	req  *wire.Request
	opts config.Options

	retryPolicy retry.Policy
	specPolicy  speculative.Policy
	reqInfo     retry.RequestInfo

	id     string
	logger log.Logger

	plan     lb.QueryPlan
	planMu   sync.Mutex
	planDone bool

	tried *TriedHosts

	// execCtx is the caller's context: executions run on it so that a
	// delivered winner never aborts an in-flight send.
	execCtx context.Context

	results chan outcomeEvent
	done    chan struct{}

	winner      atomic.Bool
	outstanding atomic.Int32
	specCount   atomic.Int32

	attemptsMu sync.Mutex
	attempts   []observe.AttemptRecord

	stack error
	start time.Time
}

func newCoordinator(e *Engine, req *wire.Request, opts config.Options, rp retry.Policy, sp speculative.Policy) *coordinator {
	id := uuid.NewString()
	c := &coordinator{
		eng:         e,
		req:         req,
		opts:        opts,
		retryPolicy: rp,
		specPolicy:  sp,
		reqInfo: retry.RequestInfo{
			Idempotent:  opts.IsIdempotent,
			Consistency: opts.Consistency,
		},
		id:      id,
		logger:  log.With(e.logger, "request_id", id),
		plan:    e.loadBalance.NewQueryPlan(req),
		tried:   newTriedHosts(),
		results: make(chan outcomeEvent, 8),
		done:    make(chan struct{}),
	}
	if opts.CaptureStackTrace {
		c.stack = errors.New("vela: request submitted")
	}
	return c
}

func (c *coordinator) run(ctx context.Context) (*Result, error) {
	defer close(c.done)

	c.execCtx = ctx
	c.start = c.eng.clock()
	c.eng.observer.OnRequestStart(ctx, c.id, c.req.Operation())

	host, ok := c.nextHost()
	if !ok {
		return c.fail(ctx)
	}

	// The launcher context stops the speculative timer loop once a
	// result is delivered; it is never handed to executions.
	launcherCtx, stopLauncher := context.WithCancel(ctx)
	defer stopLauncher()

	c.outstanding.Inc()
	go c.runExecution(0, host)

	launcherActive := false
	if c.opts.IsIdempotent {
		if _, none := c.specPolicy.(speculative.NonePolicy); !none {
			launcherActive = true
			go c.speculativeLoop(launcherCtx)
		}
	}

	for {
		select {
		case ev := <-c.results:
			switch {
			case ev.launcherExit:
				launcherActive = false
				if c.outstanding.Load() == 0 {
					return c.fail(ctx)
				}

			case ev.success:
				return c.deliver(ctx, ev)

			default:
				// A terminal failure ends the request only once no
				// execution is outstanding and no speculative launch
				// can still happen.
				if c.outstanding.Dec() == 0 && (!launcherActive || c.planExhausted()) {
					return c.fail(ctx)
				}
			}

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// deliver hands the winning response to the caller. Exactly one
// delivery happens per request; late outcomes are discarded.
func (c *coordinator) deliver(ctx context.Context, ev outcomeEvent) (*Result, error) {
	c.winner.Store(true)
	end := c.eng.clock()

	info := ExecutionInfo{
		QueriedHost:           ev.host,
		SpeculativeExecutions: int(c.specCount.Load()),
		TriedHosts:            c.tried.Snapshot(),
	}

	tr := c.trace(end)
	tr.QueriedHost = ev.host
	tr.SpeculativeExecutions = info.SpeculativeExecutions
	c.eng.observer.OnSuccess(ctx, tr)

	if c.eng.tracker != nil {
		c.eng.tracker.Observe(end.Sub(c.start))
	}

	return &Result{Response: ev.resp, Info: info}, nil
}

// fail aggregates every tried host's final error.
func (c *coordinator) fail(ctx context.Context) (*Result, error) {
	end := c.eng.clock()
	aggErr := &NoHostAvailableError{
		Errors: c.tried.Snapshot(),
		Stack:  c.stack,
	}

	tr := c.trace(end)
	tr.FinalErr = aggErr
	c.eng.observer.OnFailure(ctx, tr)
	level.Error(c.logger).Log("msg", "request failed on every host", "hosts", len(aggErr.Errors))

	return nil, aggErr
}

func (c *coordinator) trace(end time.Time) observe.RequestTrace {
	c.attemptsMu.Lock()
	attempts := make([]observe.AttemptRecord, len(c.attempts))
	copy(attempts, c.attempts)
	c.attemptsMu.Unlock()

	return observe.RequestTrace{
		RequestID:             c.id,
		Operation:             c.req.Operation(),
		Start:                 c.start,
		End:                   end,
		Attempts:              attempts,
		SpeculativeExecutions: int(c.specCount.Load()),
	}
}

func (c *coordinator) recordAttempt(rec observe.AttemptRecord) {
	c.attemptsMu.Lock()
	c.attempts = append(c.attempts, rec)
	c.attemptsMu.Unlock()
	c.eng.observer.OnAttempt(c.execCtx, c.id, rec)
}

// nextHost advances the shared plan. Mutual exclusion guarantees two
// executions never receive the same host.
func (c *coordinator) nextHost() (*cluster.Host, bool) {
	c.planMu.Lock()
	defer c.planMu.Unlock()
	h, ok := c.plan.Next()
	if !ok {
		c.planDone = true
		return nil, false
	}
	return h, true
}

func (c *coordinator) planExhausted() bool {
	c.planMu.Lock()
	defer c.planMu.Unlock()
	return c.planDone
}

// send delivers an event unless the coordinator already returned.
func (c *coordinator) send(ev outcomeEvent) {
	select {
	case c.results <- ev:
	case <-c.done:
	}
}

// speculativeLoop arms the policy's delay schedule and launches an
// additional execution against the next plan host each time a timer
// fires with no winner yet. A zero delay still passes through the
// timer, so launches observe state updates in order.
func (c *coordinator) speculativeLoop(ctx context.Context) {
	defer c.send(outcomeEvent{launcherExit: true})

	plan := c.specPolicy.NewPlan(c.req)
	index := 1

	for {
		delay, ok := plan.NextDelay()
		if !ok {
			return
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if c.winner.Load() {
			return
		}

		dec := c.eng.budget.AllowAttempt(ctx, budget.KindSpeculative)
		if !dec.Allowed {
			level.Debug(c.logger).Log("msg", "speculative launch denied", "reason", dec.Reason)
			continue
		}

		host, ok := c.nextHost()
		if !ok {
			if dec.Release != nil {
				dec.Release()
			}
			level.Debug(c.logger).Log("msg", "speculative schedule stopped", "reason", "plan_exhausted")
			return
		}

		c.outstanding.Inc()
		c.specCount.Inc()
		c.eng.observer.OnSpeculativeLaunch(ctx, c.id, index, host)
		level.Debug(c.logger).Log("msg", "speculative execution launched", "execution", index, "host", host.Address)

		go func(idx int, h *cluster.Host, release func()) {
			if release != nil {
				defer release()
			}
			c.runExecution(idx, h)
		}(index, host, dec.Release)

		index++
	}
}
