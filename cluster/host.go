// Package cluster holds the node identity types the execution engine
// reads. Topology discovery and host state tracking live outside this
// module; the engine only consumes what the load-balancing policy hands
// it.
package cluster

import (
	"fmt"

	"go.uber.org/atomic"
)

// HostStatus is the health state published by the topology subsystem.
type HostStatus int32

const (
	HostUp HostStatus = iota
	HostDown
)

func (s HostStatus) String() string {
	if s == HostDown {
		return "DOWN"
	}
	return "UP"
}

// Host identifies one cluster node. Hosts are owned by the topology
// subsystem and shared across requests; the engine treats them as
// read-only and keys diagnostic maps by Address.
type Host struct {
	ID         string
	Address    string
	Datacenter string
	Rack       string

	status atomic.Int32
}

// NewHost builds a host record for the given address.
func NewHost(id, addr, dc, rack string) *Host {
	return &Host{ID: id, Address: addr, Datacenter: dc, Rack: rack}
}

// Status returns the last published health state.
func (h *Host) Status() HostStatus {
	return HostStatus(h.status.Load())
}

// SetStatus records a health transition. Called by the topology
// subsystem, read by load-balancing policies.
func (h *Host) SetStatus(s HostStatus) {
	h.status.Store(int32(s))
}

func (h *Host) String() string {
	if h == nil {
		return "<nil host>"
	}
	return fmt.Sprintf("%s (%s/%s)", h.Address, h.Datacenter, h.Rack)
}
