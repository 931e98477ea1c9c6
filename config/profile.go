package config

import (
	"errors"
	"strings"
	"sync"
)

// DefaultProfileName is the profile the engine falls back to when a
// request names none.
const DefaultProfileName = "default"

// Profile is a named bundle of options and policy references. Retry and
// speculative policies are referenced by registry name so that
// configuration files stay declarative.
type Profile struct {
	Name    string
	Options Options

	// RetryPolicy names an entry in the engine's retry registry.
	// Empty means the engine default.
	RetryPolicy string

	// SpeculativePolicy names an entry in the engine's speculative
	// registry. Empty means no speculative execution.
	SpeculativePolicy string
}

// Profiles is a thread-safe name → Profile registry.
type Profiles struct {
	mu sync.RWMutex
	m  map[string]Profile
}

func NewProfiles() *Profiles {
	return &Profiles{m: make(map[string]Profile)}
}

// Register validates and stores p under its name.
func (r *Profiles) Register(p Profile) error {
	if r == nil {
		return errors.New("profiles registry is nil")
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errors.New("profile name cannot be empty")
	}
	opts, err := p.Options.Normalize()
	if err != nil {
		return err
	}
	p.Name = name
	p.Options = opts

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = make(map[string]Profile)
	}
	r.m[name] = p
	return nil
}

func (r *Profiles) Get(name string) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProfileName
	}

	r.mu.RLock()
	p, ok := r.m[name]
	r.mu.RUnlock()
	return p, ok
}
