package speculative

import (
	"errors"
	"strings"
	"sync"

	"github.com/veladb/vela/internal"
)

// Built-in registry names.
const (
	PolicyNone     = "none"
	PolicyConstant = "constant"
)

// Registry is a thread-safe name → Policy map. Execution profiles refer
// to speculative policies by name.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Policy
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Policy)}
}

// Register associates name with p. It returns an error for empty names
// and nil (or typed-nil) policies.
func (r *Registry) Register(name string, p Policy) error {
	if r == nil {
		return errors.New("registry is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("policy name cannot be empty")
	}
	if internal.IsTypedNil(p) {
		return errors.New("policy cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = make(map[string]Policy)
	}
	r.m[name] = p
	return nil
}

func (r *Registry) Get(name string) (Policy, bool) {
	if r == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}

	r.mu.RLock()
	p, ok := r.m[name]
	r.mu.RUnlock()
	return p, ok && p != nil
}
