package exec

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"

	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/conn"
	"github.com/veladb/vela/lb"
	"github.com/veladb/vela/observe"
	"github.com/veladb/vela/wire"
)

// hostScript primes one fake host's behavior.
type hostScript struct {
	mu sync.Mutex

	leaseErr   error
	prepareErr error

	// delay is applied to every Send before the scripted result.
	delay time.Duration

	// sendFn receives the 1-based send count and returns the scripted
	// result. Nil means instant success.
	sendFn func(n int) (*wire.Response, error)

	sends    int
	prepares int
	leases   int
}

func (s *hostScript) sendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sends
}

func (s *hostScript) prepareCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepares
}

func (s *hostScript) leaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leases
}

// fakeCluster is a deterministic cluster double: a fixed host list with
// per-host scripts, serving as pool and load-balancing policy at once.
type fakeCluster struct {
	hosts   []*cluster.Host
	scripts map[string]*hostScript
}

func newFakeCluster(n int) *fakeCluster {
	fc := &fakeCluster{scripts: make(map[string]*hostScript)}
	for i := 0; i < n; i++ {
		addr := fmt.Sprintf("10.0.0.%d:9042", i+1)
		h := cluster.NewHost(fmt.Sprintf("host-%d", i), addr, "dc1", "r1")
		fc.hosts = append(fc.hosts, h)
		fc.scripts[addr] = &hostScript{}
	}
	return fc
}

func (fc *fakeCluster) script(i int) *hostScript {
	return fc.scripts[fc.hosts[i].Address]
}

// prime scripts host i to answer with resp/err after delay on every
// send.
func (fc *fakeCluster) prime(i int, delay time.Duration, resp *wire.Response, err error) {
	s := fc.script(i)
	s.delay = delay
	s.sendFn = func(int) (*wire.Response, error) { return resp, err }
}

func (fc *fakeCluster) NewQueryPlan(*wire.Request) lb.QueryPlan {
	return lb.NewStaticPlan(fc.hosts...)
}

func (fc *fakeCluster) Lease(_ context.Context, h *cluster.Host) (conn.Connection, error) {
	s := fc.scripts[h.Address]
	s.mu.Lock()
	s.leases++
	leaseErr := s.leaseErr
	s.mu.Unlock()
	if leaseErr != nil {
		return nil, leaseErr
	}
	return &fakeConn{host: h, script: s}, nil
}

type fakeConn struct {
	host   *cluster.Host
	script *hostScript
}

func (c *fakeConn) Send(ctx context.Context, _ *wire.Request) (*wire.Response, error) {
	c.script.mu.Lock()
	c.script.sends++
	n := c.script.sends
	delay := c.script.delay
	fn := c.script.sendFn
	c.script.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if fn == nil {
		return rowsResponse(), nil
	}
	return fn(n)
}

func (c *fakeConn) Prepare(ctx context.Context, _ string) (*wire.Response, error) {
	c.script.mu.Lock()
	c.script.prepares++
	prepareErr := c.script.prepareErr
	c.script.mu.Unlock()
	if prepareErr != nil {
		return nil, prepareErr
	}
	return &wire.Response{Kind: wire.ResponsePrepared, PreparedID: []byte{0x01}}, nil
}

func (c *fakeConn) Host() *cluster.Host { return c.host }
func (c *fakeConn) Close() error        { return nil }

func rowsResponse() *wire.Response {
	return &wire.Response{Kind: wire.ResponseRows, Body: []byte("rows")}
}

func testRequest() *wire.Request {
	return &wire.Request{Statement: "SELECT value FROM t WHERE pk = ?", Consistency: wire.ConsistencyQuorum}
}

func preparedRequest() *wire.Request {
	return &wire.Request{
		Statement:   "SELECT value FROM t WHERE pk = ?",
		PreparedID:  []byte{0xca, 0xfe},
		Consistency: wire.ConsistencyQuorum,
	}
}

func newTestEngine(t *testing.T, fc *fakeCluster, opts ...Option) *Engine {
	t.Helper()
	base := []Option{WithPool(fc), WithLoadBalancer(fc)}
	e, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// countingObserver tallies lifecycle callbacks.
type countingObserver struct {
	observe.BaseObserver

	starts      atomic.Int32
	attempts    atomic.Int32
	speculative atomic.Int32
	successes   atomic.Int32
	failures    atomic.Int32
}

func (o *countingObserver) OnRequestStart(context.Context, string, string) {
	o.starts.Inc()
}

func (o *countingObserver) OnAttempt(context.Context, string, observe.AttemptRecord) {
	o.attempts.Inc()
}

func (o *countingObserver) OnSpeculativeLaunch(context.Context, string, int, *cluster.Host) {
	o.speculative.Inc()
}

func (o *countingObserver) OnSuccess(context.Context, observe.RequestTrace) {
	o.successes.Inc()
}

func (o *countingObserver) OnFailure(context.Context, observe.RequestTrace) {
	o.failures.Inc()
}
