package speculative

import (
	"sort"
	"sync"
	"time"
)

// LatencySnapshot contains request latency quantiles observed so far.
type LatencySnapshot struct {
	P50 time.Duration
	P90 time.Duration
	P95 time.Duration
	P99 time.Duration
}

// LatencyTracker accumulates winner latencies; the engine feeds it on
// every successful request when a percentile policy is in use.
type LatencyTracker interface {
	Observe(d time.Duration)
	Snapshot() LatencySnapshot
}

// RingBufferTracker implements LatencyTracker over a fixed-size ring
// buffer. Safe for concurrent use.
type RingBufferTracker struct {
	mu      sync.RWMutex
	samples []time.Duration
	idx     int
	full    bool
}

// NewRingBufferTracker creates a tracker holding the most recent size
// samples.
func NewRingBufferTracker(size int) *RingBufferTracker {
	if size <= 0 {
		size = 256
	}
	return &RingBufferTracker{samples: make([]time.Duration, size)}
}

func (t *RingBufferTracker) Observe(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples[t.idx] = d
	t.idx++
	if t.idx >= len(t.samples) {
		t.idx = 0
		t.full = true
	}
}

func (t *RingBufferTracker) Snapshot() LatencySnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := t.idx
	if t.full {
		count = len(t.samples)
	}
	if count == 0 {
		return LatencySnapshot{}
	}

	// Copy out so the sort happens off-lock-path data.
	sorted := make([]time.Duration, count)
	copy(sorted, t.samples[:count])
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return LatencySnapshot{
		P50: quantile(sorted, 0.50),
		P90: quantile(sorted, 0.90),
		P95: quantile(sorted, 0.95),
		P99: quantile(sorted, 0.99),
	}
}

func quantile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * q)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
