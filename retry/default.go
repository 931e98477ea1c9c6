package retry

import "github.com/veladb/vela/classify"

// DefaultPolicy is the idempotency-aware policy the engine uses when
// none is configured.
//
// Host-level failures (bootstrapping, overloaded, transport) move to
// the next host regardless of idempotency: the request never started
// processing, so re-sending cannot duplicate effects. Ambiguous
// failures (timeouts, unavailability) are retried only where safe:
// reads may retry in place once, writes only when the caller declared
// the request idempotent, client-side timeouts only across hosts and
// only for idempotent requests. Everything else rethrows.
type DefaultPolicy struct {
	// MaxInPlaceRetries bounds RetrySameHost decisions per host.
	// Zero means the default of 1.
	MaxInPlaceRetries int

	// TolerateWriteTimeouts turns write-timeout failures into Ignore:
	// the caller accepts a possibly-applied write and observes a void
	// success. Off by default.
	TolerateWriteTimeouts bool
}

func (p *DefaultPolicy) maxInPlace() int {
	if p.MaxInPlaceRetries <= 0 {
		return 1
	}
	return p.MaxInPlaceRetries
}

func (p *DefaultPolicy) Decide(req RequestInfo, kind classify.Kind, _ error, retryCount int) Decision {
	if kind.HostLevel() {
		return RetryNextHost
	}

	switch kind {
	case classify.KindReadTimeout:
		if retryCount < p.maxInPlace() {
			return RetrySameHost
		}
		return Rethrow

	case classify.KindWriteTimeout:
		if p.TolerateWriteTimeouts {
			return Ignore
		}
		if req.Idempotent && retryCount < p.maxInPlace() {
			return RetrySameHost
		}
		return Rethrow

	case classify.KindUnavailable:
		if retryCount == 0 {
			return RetryNextHost
		}
		return Rethrow

	case classify.KindOperationTimedOut:
		if req.Idempotent {
			return RetryNextHost
		}
		return Rethrow

	default:
		return Rethrow
	}
}

// FallthroughPolicy never retries: every failure is rethrown to the
// caller. Useful when the application implements its own retry logic
// above the driver.
type FallthroughPolicy struct{}

func (FallthroughPolicy) Decide(RequestInfo, classify.Kind, error, int) Decision {
	return Rethrow
}
