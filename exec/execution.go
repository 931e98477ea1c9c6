package exec

import (
	"context"
	"errors"

	"github.com/go-kit/log/level"

	"github.com/veladb/vela/budget"
	"github.com/veladb/vela/classify"
	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/observe"
	"github.com/veladb/vela/retry"
	"github.com/veladb/vela/wire"
)

type executionStatus int

const (
	statusPending executionStatus = iota
	statusSent
	statusSucceeded
	statusFailedRetryable
	statusFailedTerminal
)

// execution is one attempt lineage. It may move across hosts when the
// retry policy says RetryNextHost, but it keeps a single slot index
// (0 = initial, 1..N = speculative).
type execution struct {
	index  int
	host   *cluster.Host
	status executionStatus

	// retryCount counts in-place retries on the current host; it
	// resets to zero when the execution moves hosts.
	retryCount int

	// pendingRelease is the budget release for the attempt in flight.
	pendingRelease func()
}

func (ex *execution) releaseBudget() {
	if ex.pendingRelease != nil {
		ex.pendingRelease()
		ex.pendingRelease = nil
	}
}

// runExecution drives one execution to a terminal outcome and reports
// it to the coordinator exactly once.
func (c *coordinator) runExecution(index int, host *cluster.Host) {
	ex := &execution{index: index, host: host}

	for {
		c.tried.MarkQueried(ex.host)
		ex.status = statusPending

		start := c.eng.clock()
		resp, err := c.attempt(ex)
		end := c.eng.clock()
		ex.releaseBudget()

		if err == nil {
			ex.status = statusSucceeded
			c.recordAttempt(observe.AttemptRecord{
				ExecutionIndex: index,
				Host:           ex.host,
				StartTime:      start,
				EndTime:        end,
				RetryCount:     ex.retryCount,
			})
			c.send(outcomeEvent{success: true, index: index, host: ex.host, resp: resp})
			return
		}

		if errors.Is(err, context.Canceled) {
			// The caller abandoned the request; not a host failure.
			c.terminate(ex, err)
			return
		}

		kind := classify.Classify(err)
		decision := c.decide(ex, kind, err)

		c.recordAttempt(observe.AttemptRecord{
			ExecutionIndex: index,
			Host:           ex.host,
			StartTime:      start,
			EndTime:        end,
			RetryCount:     ex.retryCount,
			Err:            err,
			Kind:           kind,
			Decision:       decision,
		})

		switch decision {
		case retry.Ignore:
			ex.status = statusSucceeded
			c.send(outcomeEvent{success: true, index: index, host: ex.host, resp: wire.Void})
			return

		case retry.RetrySameHost:
			if c.winner.Load() {
				return
			}
			if !c.allowRetry(ex) {
				c.terminate(ex, err)
				return
			}
			ex.retryCount++
			ex.status = statusFailedRetryable
			level.Debug(c.logger).Log("msg", "retrying on same host",
				"execution", index, "host", ex.host.Address, "retry_count", ex.retryCount)

		case retry.RetryNextHost:
			c.tried.Record(ex.host, err)
			if c.winner.Load() {
				return
			}
			next, ok := c.nextHost()
			if !ok {
				c.terminate(ex, err)
				return
			}
			if !c.allowRetry(ex) {
				c.terminate(ex, err)
				return
			}
			level.Debug(c.logger).Log("msg", "moving to next host",
				"execution", index, "from", ex.host.Address, "to", next.Address)
			ex.host = next
			ex.retryCount = 0
			ex.status = statusFailedRetryable

		default: // retry.Rethrow
			c.terminate(ex, err)
			return
		}
	}
}

// decide resolves the retry decision for a classified failure.
// Unprepared errors that survived the in-place repair and client-side
// timeouts with retry disabled never reach the policy.
func (c *coordinator) decide(ex *execution, kind classify.Kind, err error) retry.Decision {
	switch {
	case kind == classify.KindOperationTimedOut && c.opts.DisableTimeoutRetry:
		return retry.Rethrow
	case kind == classify.KindUnprepared:
		return retry.Rethrow
	default:
		return c.retryPolicy.Decide(c.reqInfo, kind, err, ex.retryCount)
	}
}

func (c *coordinator) terminate(ex *execution, err error) {
	ex.status = statusFailedTerminal
	c.tried.Record(ex.host, err)
	c.send(outcomeEvent{index: ex.index, host: ex.host, err: err})
}

// allowRetry consults the budget before a non-initial attempt. The
// release, if any, is called once the attempt finishes.
func (c *coordinator) allowRetry(ex *execution) bool {
	dec := c.eng.budget.AllowAttempt(c.execCtx, budget.KindRetry)
	if !dec.Allowed {
		level.Debug(c.logger).Log("msg", "retry denied by budget",
			"execution", ex.index, "host", ex.host.Address, "reason", dec.Reason)
		return false
	}
	ex.pendingRelease = dec.Release
	return true
}

// attempt performs one send/response cycle: lease a connection, send,
// and repair an unprepared statement in place if needed. A lease
// failure is treated as if the request had been sent and failed.
func (c *coordinator) attempt(ex *execution) (*wire.Response, error) {
	ctx := c.execCtx

	cn, err := c.eng.pool.Lease(ctx, ex.host)
	if err != nil {
		return nil, err
	}

	actx := ctx
	cancel := func() {}
	if c.opts.Timeout > 0 {
		actx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
	}
	defer cancel()

	ex.status = statusSent
	resp, err := cn.Send(actx, c.req)

	var unprepared *wire.UnpreparedError
	if err != nil && errors.As(err, &unprepared) && c.req.Prepared() {
		// In-place repair: one prepare round-trip for the same
		// statement on the same connection, then re-send there. Not
		// counted as a retry and never advances the query plan.
		level.Debug(c.logger).Log("msg", "repreparing statement",
			"execution", ex.index, "host", ex.host.Address)
		if _, perr := cn.Prepare(actx, c.req.Statement); perr != nil {
			return nil, perr
		}
		resp, err = cn.Send(actx, c.req)
	}

	if err != nil {
		// A deadline we armed ourselves surfaces as the client-side
		// timeout kind even if the transport wrapped it.
		if actx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	return resp, nil
}
