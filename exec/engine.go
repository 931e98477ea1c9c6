// Package exec implements the request execution engine: given a query
// plan from the load-balancing policy it races one or more executions
// against candidate hosts, consults the retry policy on every
// classified failure, and delivers exactly one result per request.
package exec

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/pkg/errors"

	"github.com/veladb/vela/budget"
	"github.com/veladb/vela/config"
	"github.com/veladb/vela/conn"
	"github.com/veladb/vela/lb"
	"github.com/veladb/vela/observe"
	"github.com/veladb/vela/retry"
	"github.com/veladb/vela/speculative"
	"github.com/veladb/vela/wire"
)

var (
	// ErrNoPool is returned by New when no connection pool was
	// configured.
	ErrNoPool = errors.New("vela: no connection pool configured")

	// ErrNoLoadBalancer is returned by New when no load-balancing
	// policy was configured.
	ErrNoLoadBalancer = errors.New("vela: no load-balancing policy configured")

	// ErrProfileNotFound is returned when a request names an unknown
	// execution profile.
	ErrProfileNotFound = errors.New("vela: execution profile not found")

	// ErrPolicyNotFound is returned when a profile references a retry
	// or speculative policy name with no registry entry.
	ErrPolicyNotFound = errors.New("vela: policy not found")
)

// Engine executes requests against the cluster. It is safe for
// concurrent use; per-request state lives in a coordinator created for
// each Execute call.
type Engine struct {
	pool        conn.Pool
	loadBalance lb.Policy
	retryPolicy retry.Policy
	specPolicy  speculative.Policy
	budget      budget.Budget
	observer    observe.Observer
	logger      log.Logger
	clock       func() time.Time
	tracker     speculative.LatencyTracker

	retries      *retry.Registry
	speculatives *speculative.Registry
	profiles     *config.Profiles
}

// Option configures an Engine.
type Option func(*Engine)

// WithPool sets the connection pool. Required.
func WithPool(p conn.Pool) Option {
	return func(e *Engine) { e.pool = p }
}

// WithLoadBalancer sets the load-balancing policy. Required.
func WithLoadBalancer(p lb.Policy) Option {
	return func(e *Engine) { e.loadBalance = p }
}

// WithRetryPolicy sets the engine-default retry policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(e *Engine) { e.retryPolicy = p }
}

// WithSpeculativePolicy sets the engine-default speculative execution
// policy.
func WithSpeculativePolicy(p speculative.Policy) Option {
	return func(e *Engine) { e.specPolicy = p }
}

// WithBudget sets the attempt budget gating retries and speculative
// launches.
func WithBudget(b budget.Budget) Option {
	return func(e *Engine) { e.budget = b }
}

// WithObserver sets the lifecycle observer.
func WithObserver(o observe.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the engine logger.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock function. Tests use it for determinism.
func WithClock(f func() time.Time) Option {
	return func(e *Engine) { e.clock = f }
}

// WithLatencyTracker feeds winner latencies into t, typically the
// tracker backing a percentile speculative policy.
func WithLatencyTracker(t speculative.LatencyTracker) Option {
	return func(e *Engine) { e.tracker = t }
}

// WithRetryRegistry sets the registry profile names resolve retry
// policies against.
func WithRetryRegistry(r *retry.Registry) Option {
	return func(e *Engine) { e.retries = r }
}

// WithSpeculativeRegistry sets the registry profile names resolve
// speculative policies against.
func WithSpeculativeRegistry(r *speculative.Registry) Option {
	return func(e *Engine) { e.speculatives = r }
}

// WithProfiles sets the execution profile registry.
func WithProfiles(p *config.Profiles) Option {
	return func(e *Engine) { e.profiles = p }
}

// New creates an Engine. A connection pool and a load-balancing policy
// are required; everything else has conservative defaults.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.pool == nil {
		return nil, ErrNoPool
	}
	if e.loadBalance == nil {
		return nil, ErrNoLoadBalancer
	}

	if e.retryPolicy == nil {
		e.retryPolicy = &retry.DefaultPolicy{}
	}
	if e.specPolicy == nil {
		e.specPolicy = speculative.NonePolicy{}
	}
	if e.budget == nil {
		e.budget = budget.Unlimited{}
	}
	if e.observer == nil {
		e.observer = observe.NoopObserver{}
	}
	if e.logger == nil {
		e.logger = log.NewNopLogger()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.retries == nil {
		e.retries = retry.NewRegistry()
		retry.RegisterBuiltins(e.retries)
	}
	if e.speculatives == nil {
		e.speculatives = speculative.NewRegistry()
		_ = e.speculatives.Register(speculative.PolicyNone, speculative.NonePolicy{})
	}
	if e.profiles == nil {
		e.profiles = config.NewProfiles()
	}

	return e, nil
}

// Execute runs req with the given per-call options and the engine's
// default policies. A nil opts means the documented defaults.
func (e *Engine) Execute(ctx context.Context, req *wire.Request, opts *config.Options) (*Result, error) {
	var o config.Options
	if opts != nil {
		o = *opts
	}
	o, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, req, o, e.retryPolicy, e.specPolicy)
}

// ExecuteProfile runs req under the named execution profile, resolving
// its retry and speculative policy references against the engine's
// registries.
func (e *Engine) ExecuteProfile(ctx context.Context, req *wire.Request, profile string) (*Result, error) {
	p, ok := e.profiles.Get(profile)
	if !ok {
		return nil, errors.Wrap(ErrProfileNotFound, profile)
	}

	rp := e.retryPolicy
	if p.RetryPolicy != "" {
		if rp, ok = e.retries.Get(p.RetryPolicy); !ok {
			return nil, errors.Wrapf(ErrPolicyNotFound, "retry policy %q", p.RetryPolicy)
		}
	}

	sp := speculative.Policy(speculative.NonePolicy{})
	if p.SpeculativePolicy != "" {
		if sp, ok = e.speculatives.Get(p.SpeculativePolicy); !ok {
			return nil, errors.Wrapf(ErrPolicyNotFound, "speculative policy %q", p.SpeculativePolicy)
		}
	}

	return e.execute(ctx, req, p.Options, rp, sp)
}

// RegisterProfiles loads every profile into the engine's registry.
func (e *Engine) RegisterProfiles(profiles ...config.Profile) error {
	for _, p := range profiles {
		if err := e.profiles.Register(p); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) execute(ctx context.Context, req *wire.Request, opts config.Options, rp retry.Policy, sp speculative.Policy) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := newCoordinator(e, req, opts, rp, sp)
	return c.run(ctx)
}
