// Package vela is the public entry point of the execution engine: it
// re-exports the types an application needs to build an engine and run
// requests, so that common use needs only this import.
package vela

import (
	"context"

	"github.com/veladb/vela/config"
	"github.com/veladb/vela/exec"
	"github.com/veladb/vela/wire"
)

// Engine executes requests against the cluster.
type Engine = exec.Engine

// Option configures an Engine.
type Option = exec.Option

// Options are the recognized per-call settings.
type Options = config.Options

// Result is the single delivered outcome of a successful request.
type Result = exec.Result

// ExecutionInfo is the success-path diagnostic attached to a Result.
type ExecutionInfo = exec.ExecutionInfo

// NoHostAvailableError aggregates per-host failures when a request
// ends with no winner.
type NoHostAvailableError = exec.NoHostAvailableError

// Request describes one operation against the cluster.
type Request = wire.Request

// New creates an Engine; see exec.New for the required options.
func New(opts ...Option) (*Engine, error) {
	return exec.New(opts...)
}

// Execute runs req on eng with the given options.
func Execute(ctx context.Context, eng *Engine, req *Request, opts *Options) (*Result, error) {
	return eng.Execute(ctx, req, opts)
}
