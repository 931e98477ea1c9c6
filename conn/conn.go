// Package conn defines the connection boundary the execution engine
// consumes. The physical socket, framing, and per-host pooling are
// implemented elsewhere; the engine only leases a connection for one
// send/response cycle and returns it.
package conn

import (
	"context"
	"errors"

	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/wire"
)

var (
	// ErrConnectionClosed reports that the leased connection died
	// before or while the request was in flight.
	ErrConnectionClosed = errors.New("conn: connection closed")

	// ErrPoolExhausted reports that the pool has no connection to
	// offer for the host right now.
	ErrPoolExhausted = errors.New("conn: pool exhausted")

	// ErrHostDown reports that the pool refuses the host because the
	// topology subsystem marked it down.
	ErrHostDown = errors.New("conn: host is down")
)

// Connection is one live channel to a host. Send and Prepare are safe
// to call from the goroutine that leased the connection; a connection
// is never shared across executions.
type Connection interface {
	// Send writes the request and blocks until the response, a
	// transport failure, or ctx expiry.
	Send(ctx context.Context, req *wire.Request) (*wire.Response, error)

	// Prepare runs a prepare round-trip for stmt on this connection
	// and returns the prepared response. Used by the in-place repair
	// of unprepared statements.
	Prepare(ctx context.Context, stmt string) (*wire.Response, error)

	// Host returns the node this connection is attached to.
	Host() *cluster.Host

	Close() error
}

// Pool hands out connections per attempt. A lease failure is treated by
// the engine as if the request had been sent to the host and failed.
type Pool interface {
	Lease(ctx context.Context, host *cluster.Host) (Connection, error)
}
