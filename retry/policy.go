// Package retry holds the retry policy contract: a pure decision
// function consulted once per classified failure.
package retry

import (
	"github.com/veladb/vela/classify"
	"github.com/veladb/vela/wire"
)

// Decision is the action the engine takes for one failure.
type Decision int

const (
	// RetrySameHost re-sends on the host that just failed, on a fresh
	// connection if the previous one is unusable.
	RetrySameHost Decision = iota

	// RetryNextHost records the failure against the host and moves
	// this execution to the next query-plan host.
	RetryNextHost

	// Rethrow ends this execution with the failure as its terminal
	// error.
	Rethrow

	// Ignore treats the failure as an acceptable outcome: the caller
	// observes a successful void result.
	Ignore
)

func (d Decision) String() string {
	switch d {
	case RetrySameHost:
		return "retry_same_host"
	case RetryNextHost:
		return "retry_next_host"
	case Rethrow:
		return "rethrow"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// RequestInfo is the request metadata a policy may decide on.
type RequestInfo struct {
	Idempotent  bool
	Consistency wire.Consistency
}

// Policy decides what to do with a classified failure. Implementations
// must be pure with respect to one request: Decide holds no per-request
// state and is invoked exactly once per failure, never batched.
// retryCount is the number of prior retries for the current execution
// on its current host; it resets when the execution moves hosts.
type Policy interface {
	Decide(req RequestInfo, kind classify.Kind, err error, retryCount int) Decision
}
