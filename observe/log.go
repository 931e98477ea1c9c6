package observe

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/veladb/vela/cluster"
)

// LogObserver writes request lifecycle events to a go-kit logger.
// Attempt-level events log at debug, failed requests at warn.
type LogObserver struct {
	Logger log.Logger
}

// NewLogObserver wraps logger; a nil logger yields a silent observer.
func NewLogObserver(logger log.Logger) *LogObserver {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) OnRequestStart(_ context.Context, requestID, operation string) {
	level.Debug(o.Logger).Log("msg", "request start", "request_id", requestID, "op", operation)
}

func (o *LogObserver) OnAttempt(_ context.Context, requestID string, rec AttemptRecord) {
	if rec.Err == nil {
		level.Debug(o.Logger).Log("msg", "attempt succeeded",
			"request_id", requestID,
			"execution", rec.ExecutionIndex,
			"host", rec.Host.Address,
			"elapsed", rec.EndTime.Sub(rec.StartTime))
		return
	}
	level.Debug(o.Logger).Log("msg", "attempt failed",
		"request_id", requestID,
		"execution", rec.ExecutionIndex,
		"host", rec.Host.Address,
		"kind", rec.Kind,
		"decision", rec.Decision,
		"retry_count", rec.RetryCount,
		"err", rec.Err)
}

func (o *LogObserver) OnSpeculativeLaunch(_ context.Context, requestID string, executionIndex int, host *cluster.Host) {
	level.Debug(o.Logger).Log("msg", "speculative execution launched",
		"request_id", requestID,
		"execution", executionIndex,
		"host", host.Address)
}

func (o *LogObserver) OnSuccess(_ context.Context, tr RequestTrace) {
	level.Debug(o.Logger).Log("msg", "request succeeded",
		"request_id", tr.RequestID,
		"host", tr.QueriedHost.Address,
		"speculative", tr.SpeculativeExecutions,
		"attempts", len(tr.Attempts),
		"elapsed", tr.End.Sub(tr.Start))
}

func (o *LogObserver) OnFailure(_ context.Context, tr RequestTrace) {
	level.Warn(o.Logger).Log("msg", "request failed",
		"request_id", tr.RequestID,
		"attempts", len(tr.Attempts),
		"elapsed", tr.End.Sub(tr.Start),
		"err", tr.FinalErr)
}
