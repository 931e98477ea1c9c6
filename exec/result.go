package exec

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/wire"
)

// TriedHosts maps host address → last error encountered there during
// one request. A nil value means the host was queried but reported no
// error (in flight, or the winner). Safe for concurrent use;
// last-write-wins per host key.
type TriedHosts struct {
	mu sync.Mutex
	m  map[string]error
}

func newTriedHosts() *TriedHosts {
	return &TriedHosts{m: make(map[string]error)}
}

// MarkQueried records that an execution started targeting h.
func (t *TriedHosts) MarkQueried(h *cluster.Host) {
	t.mu.Lock()
	if _, ok := t.m[h.Address]; !ok {
		t.m[h.Address] = nil
	}
	t.mu.Unlock()
}

// Record stores err as the last error for h.
func (t *TriedHosts) Record(h *cluster.Host, err error) {
	t.mu.Lock()
	t.m[h.Address] = err
	t.mu.Unlock()
}

// Snapshot returns a copy of the map as of now. Errors folded in after
// the snapshot do not affect it.
func (t *TriedHosts) Snapshot() map[string]error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make(map[string]error, len(t.m))
	for k, v := range t.m {
		cp[k] = v
	}
	return cp
}

// Len returns the number of hosts touched so far.
func (t *TriedHosts) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}

// ExecutionInfo is the success-path diagnostic attached to a Result.
type ExecutionInfo struct {
	// QueriedHost is the host that produced the delivered response.
	QueriedHost *cluster.Host

	// SpeculativeExecutions counts the additional executions actually
	// launched before the winner was observed.
	SpeculativeExecutions int

	// TriedHosts is the per-host diagnostic map snapshotted at
	// delivery time.
	TriedHosts map[string]error
}

// Result is the single delivered outcome of a successful request.
type Result struct {
	Response *wire.Response
	Info     ExecutionInfo
}

// NoHostAvailableError aggregates the final error of every host tried
// when a request ends with no winner.
type NoHostAvailableError struct {
	// Errors maps host address → that host's final error.
	Errors map[string]error

	// Stack is a diagnostic capture from request entry, present only
	// when Options.CaptureStackTrace was set.
	Stack error
}

func (e *NoHostAvailableError) Error() string {
	if len(e.Errors) == 0 {
		return "vela: no host available: query plan yielded no hosts"
	}

	addrs := make([]string, 0, len(e.Errors))
	for addr := range e.Errors {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	var b strings.Builder
	fmt.Fprintf(&b, "vela: no host available after trying %d host(s):", len(addrs))
	for _, addr := range addrs {
		err := e.Errors[addr]
		if err == nil {
			fmt.Fprintf(&b, " %s: <no error>;", addr)
			continue
		}
		fmt.Fprintf(&b, " %s: %v;", addr, err)
	}
	return strings.TrimSuffix(b.String(), ";")
}
