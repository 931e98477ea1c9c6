// Package config holds the per-call options and named execution
// profiles the engine resolves requests against.
package config

import (
	"fmt"
	"time"

	"github.com/veladb/vela/wire"
)

const (
	// MaxTimeout caps the per-request client timeout.
	MaxTimeout = 5 * time.Minute
)

// Options are the recognized per-call settings. The zero value is the
// documented default: not idempotent, timeout-triggered retry enabled,
// no stack capture, consistency ANY, no client-side timeout.
type Options struct {
	// IsIdempotent declares the request safe to execute more than
	// once. It gates cross-host retry of ambiguous failures and all
	// speculative execution. Default false.
	IsIdempotent bool

	// DisableTimeoutRetry, when set, makes a client-side timeout
	// terminal for its execution without consulting the retry policy.
	// The default (false) keeps timeout-triggered retry enabled.
	DisableTimeoutRetry bool

	// CaptureStackTrace records a stack at request entry and attaches
	// it to an aggregated failure. Diagnostic only; no behavioral
	// effect. Default false.
	CaptureStackTrace bool

	// Consistency is passed through to the wire layer.
	Consistency wire.Consistency

	// Timeout bounds each attempt's send/response cycle on the
	// client side. Zero means no client-side deadline beyond ctx.
	Timeout time.Duration
}

// NormalizeError indicates a fundamentally invalid option value.
type NormalizeError struct {
	Field string
	Value string
}

func (e *NormalizeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("vela: invalid option: %s=%q", e.Field, e.Value)
}

// Normalize validates o and returns the effective options.
func (o Options) Normalize() (Options, error) {
	if o.Timeout < 0 {
		return o, &NormalizeError{Field: "timeout", Value: o.Timeout.String()}
	}
	if o.Timeout > MaxTimeout {
		o.Timeout = MaxTimeout
	}
	return o, nil
}
