// Package observe defines the lifecycle callbacks the engine emits for
// each request. Observers power logging and metrics without touching
// the execution path.
package observe

import (
	"context"
	"time"

	"github.com/veladb/vela/classify"
	"github.com/veladb/vela/cluster"
	"github.com/veladb/vela/retry"
)

// AttemptRecord describes one send/response cycle against one host.
type AttemptRecord struct {
	// ExecutionIndex is the attempt lineage: 0 for the initial
	// execution, 1..N for speculative slots.
	ExecutionIndex int

	Host      *cluster.Host
	StartTime time.Time
	EndTime   time.Time

	// RetryCount is the in-place retry count for this host when the
	// attempt started.
	RetryCount int

	// Err and Kind are set on failed attempts.
	Err  error
	Kind classify.Kind

	// Decision is the retry policy's verdict for a failed attempt.
	Decision retry.Decision
}

// RequestTrace is the structured record of one request and all of its
// attempts.
type RequestTrace struct {
	RequestID string
	Operation string

	Start time.Time
	End   time.Time

	Attempts []AttemptRecord

	// QueriedHost is the winner on success, nil on failure.
	QueriedHost           *cluster.Host
	SpeculativeExecutions int

	FinalErr error
}

// Observer receives lifecycle callbacks for a single request.
type Observer interface {
	OnRequestStart(ctx context.Context, requestID, operation string)
	OnAttempt(ctx context.Context, requestID string, rec AttemptRecord)

	// OnSpeculativeLaunch fires when the coordinator races an
	// additional execution.
	OnSpeculativeLaunch(ctx context.Context, requestID string, executionIndex int, host *cluster.Host)

	OnSuccess(ctx context.Context, tr RequestTrace)
	OnFailure(ctx context.Context, tr RequestTrace)
}
