package observe

import (
	"context"

	"github.com/veladb/vela/cluster"
)

// MultiObserver fans out events to multiple observers.
type MultiObserver struct {
	Observers []Observer
}

func (m MultiObserver) OnRequestStart(ctx context.Context, requestID, operation string) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnRequestStart(ctx, requestID, operation)
		}
	}
}

func (m MultiObserver) OnAttempt(ctx context.Context, requestID string, rec AttemptRecord) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnAttempt(ctx, requestID, rec)
		}
	}
}

func (m MultiObserver) OnSpeculativeLaunch(ctx context.Context, requestID string, executionIndex int, host *cluster.Host) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnSpeculativeLaunch(ctx, requestID, executionIndex, host)
		}
	}
}

func (m MultiObserver) OnSuccess(ctx context.Context, tr RequestTrace) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnSuccess(ctx, tr)
		}
	}
}

func (m MultiObserver) OnFailure(ctx context.Context, tr RequestTrace) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnFailure(ctx, tr)
		}
	}
}
