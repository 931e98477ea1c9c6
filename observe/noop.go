package observe

import (
	"context"

	"github.com/veladb/vela/cluster"
)

// NoopObserver implements Observer with no-op methods.
type NoopObserver struct{}

func (NoopObserver) OnRequestStart(context.Context, string, string)                  {}
func (NoopObserver) OnAttempt(context.Context, string, AttemptRecord)                {}
func (NoopObserver) OnSpeculativeLaunch(context.Context, string, int, *cluster.Host) {}
func (NoopObserver) OnSuccess(context.Context, RequestTrace)                         {}
func (NoopObserver) OnFailure(context.Context, RequestTrace)                         {}

// BaseObserver implements Observer with no-op methods.
//
// Users can embed BaseObserver to implement only the callbacks they
// need.
type BaseObserver struct{}

func (BaseObserver) OnRequestStart(context.Context, string, string)                  {}
func (BaseObserver) OnAttempt(context.Context, string, AttemptRecord)                {}
func (BaseObserver) OnSpeculativeLaunch(context.Context, string, int, *cluster.Host) {}
func (BaseObserver) OnSuccess(context.Context, RequestTrace)                         {}
func (BaseObserver) OnFailure(context.Context, RequestTrace)                         {}
