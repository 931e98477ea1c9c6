// Package lb defines the load-balancing contract the engine consumes:
// a policy that turns a request into an ordered, single-use plan of
// candidate hosts.
//
// The engine treats hosts as opaque and tries them in plan order; any
// filtering (health, datacenter locality) happens inside the policy.
package lb

import (
	"go.uber.org/atomic"

	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/wire"
)

// QueryPlan is an ordered sequence of candidate hosts for one request.
// Each host appears at most once. Next after exhaustion keeps
// returning false. Plans are consumed by a single coordinator, which
// serializes calls to Next; implementations need not add their own
// locking.
type QueryPlan interface {
	Next() (*cluster.Host, bool)
}

// Policy produces a fresh QueryPlan per request.
type Policy interface {
	NewQueryPlan(req *wire.Request) QueryPlan
}

// slicePlan walks a fixed host slice once.
type slicePlan struct {
	hosts []*cluster.Host
	idx   int
}

func (p *slicePlan) Next() (*cluster.Host, bool) {
	for p.idx < len(p.hosts) {
		h := p.hosts[p.idx]
		p.idx++
		if h != nil {
			return h, true
		}
	}
	return nil, false
}

// NewStaticPlan returns a plan over hosts in the given order. Intended
// for test doubles and single-host setups.
func NewStaticPlan(hosts ...*cluster.Host) QueryPlan {
	return &slicePlan{hosts: hosts}
}

// RoundRobinPolicy spreads initial hosts across requests by rotating a
// shared cursor over the host list. Hosts marked down are filtered out
// of each plan.
type RoundRobinPolicy struct {
	hosts  []*cluster.Host
	cursor atomic.Uint64
}

// NewRoundRobinPolicy builds a policy over a fixed host list. The slice
// is copied; topology changes require a new policy.
func NewRoundRobinPolicy(hosts []*cluster.Host) *RoundRobinPolicy {
	cp := make([]*cluster.Host, len(hosts))
	copy(cp, hosts)
	return &RoundRobinPolicy{hosts: cp}
}

func (p *RoundRobinPolicy) NewQueryPlan(*wire.Request) QueryPlan {
	n := len(p.hosts)
	if n == 0 {
		return &slicePlan{}
	}

	start := int((p.cursor.Add(1) - 1) % uint64(n))
	ordered := make([]*cluster.Host, 0, n)
	for i := 0; i < n; i++ {
		h := p.hosts[(start+i)%n]
		if h == nil || h.Status() == cluster.HostDown {
			continue
		}
		ordered = append(ordered, h)
	}
	return &slicePlan{hosts: ordered}
}
