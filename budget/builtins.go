package budget

import (
	"context"
	"math"
	"sync"
	"time"
)

// Unlimited allows every attempt. It is the engine default.
type Unlimited struct{}

func (Unlimited) AllowAttempt(context.Context, AttemptKind) Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

// TokenBucket is a token-bucket budget shared across requests.
//
// It starts full (capacity tokens) and refills at refillPerSecond
// tokens/second; each gated attempt consumes one token.
type TokenBucket struct {
	mu sync.Mutex

	capacity        float64
	refillPerSecond float64

	tokens float64
	last   time.Time
}

func NewTokenBucket(capacity int, refillPerSecond float64) *TokenBucket {
	if capacity < 0 {
		capacity = 0
	}
	if refillPerSecond < 0 || math.IsNaN(refillPerSecond) || math.IsInf(refillPerSecond, 0) {
		refillPerSecond = 0
	}
	return &TokenBucket{
		capacity:        float64(capacity),
		refillPerSecond: refillPerSecond,
		tokens:          float64(capacity),
		last:            time.Now(),
	}
}

func (b *TokenBucket) AllowAttempt(context.Context, AttemptKind) Decision {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if b.last.IsZero() {
		b.tokens = b.capacity
		b.last = now
	} else if b.refillPerSecond > 0 && !now.Before(b.last) {
		added := now.Sub(b.last).Seconds() * b.refillPerSecond
		if math.IsNaN(added) || math.IsInf(added, 0) || added < 0 {
			added = 0
		}
		b.tokens += added
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	} else {
		// Advance last on clock skew or when refill is disabled.
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return Decision{Allowed: true, Reason: ReasonAllowed}
	}
	return Decision{Allowed: false, Reason: ReasonBudgetDenied}
}
