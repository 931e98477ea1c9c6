package speculative

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veladb/vela/wire"
)

func drain(p Plan) []time.Duration {
	var out []time.Duration
	for {
		d, ok := p.NextDelay()
		if !ok {
			return out
		}
		out = append(out, d)
	}
}

func TestNonePolicy(t *testing.T) {
	plan := NonePolicy{}.NewPlan(&wire.Request{})
	assert.Empty(t, drain(plan))
}

func TestConstantPolicy(t *testing.T) {
	p := ConstantPolicy{Delay: 50 * time.Millisecond, MaxSpeculativeExecutions: 3}
	got := drain(p.NewPlan(&wire.Request{}))

	require.Len(t, got, 3)
	for _, d := range got {
		assert.Equal(t, 50*time.Millisecond, d)
	}

	// Each request gets a fresh schedule.
	assert.Len(t, drain(p.NewPlan(&wire.Request{})), 3)
}

func TestConstantPolicyZeroMaxDisables(t *testing.T) {
	p := ConstantPolicy{Delay: 50 * time.Millisecond}
	assert.Empty(t, drain(p.NewPlan(&wire.Request{})))
}

func TestRingBufferTrackerQuantiles(t *testing.T) {
	tr := NewRingBufferTracker(100)
	for i := 1; i <= 100; i++ {
		tr.Observe(time.Duration(i) * time.Millisecond)
	}

	snap := tr.Snapshot()
	assert.Equal(t, 50*time.Millisecond, snap.P50)
	assert.Equal(t, 90*time.Millisecond, snap.P90)
	assert.Equal(t, 95*time.Millisecond, snap.P95)
	assert.Equal(t, 99*time.Millisecond, snap.P99)
}

func TestRingBufferTrackerEvictsOldest(t *testing.T) {
	tr := NewRingBufferTracker(4)
	tr.Observe(time.Second)
	for i := 0; i < 4; i++ {
		tr.Observe(10 * time.Millisecond)
	}

	// The 1s outlier has been overwritten.
	assert.Equal(t, 10*time.Millisecond, tr.Snapshot().P99)
}

func TestRingBufferTrackerEmpty(t *testing.T) {
	assert.Equal(t, LatencySnapshot{}, NewRingBufferTracker(16).Snapshot())
}

func TestPercentilePolicyUsesTrackedQuantile(t *testing.T) {
	tr := NewRingBufferTracker(100)
	for i := 1; i <= 100; i++ {
		tr.Observe(time.Duration(i) * time.Millisecond)
	}

	p := PercentilePolicy{Tracker: tr, Percentile: "p90", MaxSpeculativeExecutions: 2}
	got := drain(p.NewPlan(&wire.Request{}))

	require.Len(t, got, 2)
	assert.Equal(t, 90*time.Millisecond, got[0])
}

func TestPercentilePolicyFallsBackWithoutSamples(t *testing.T) {
	tr := NewRingBufferTracker(16)

	p := PercentilePolicy{
		Tracker:                  tr,
		MaxSpeculativeExecutions: 1,
		FallbackDelay:            30 * time.Millisecond,
	}
	got := drain(p.NewPlan(&wire.Request{}))
	require.Len(t, got, 1)
	assert.Equal(t, 30*time.Millisecond, got[0])

	// No samples and no fallback means no speculative schedule at all.
	silent := PercentilePolicy{Tracker: tr, MaxSpeculativeExecutions: 1}
	assert.Empty(t, drain(silent.NewPlan(&wire.Request{})))
}

func TestSpeculativeRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(PolicyNone, NonePolicy{}))
	require.NoError(t, reg.Register(PolicyConstant, ConstantPolicy{Delay: time.Millisecond, MaxSpeculativeExecutions: 1}))

	_, ok := reg.Get(PolicyConstant)
	assert.True(t, ok)
	_, ok = reg.Get("missing")
	assert.False(t, ok)

	assert.Error(t, reg.Register("", NonePolicy{}))
	assert.Error(t, reg.Register("nil", nil))
}
