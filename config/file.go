package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veladb/vela/wire"
)

// File schema:
//
//	profiles:
//	  - name: default
//	    retry_policy: default
//	    options:
//	      consistency: LOCAL_QUORUM
//	      timeout: 2s
//	  - name: analytics
//	    speculative_policy: constant
//	    options:
//	      is_idempotent: true
type fileSchema struct {
	Profiles []fileProfile `yaml:"profiles"`
}

type fileProfile struct {
	Name              string      `yaml:"name"`
	Options           fileOptions `yaml:"options"`
	RetryPolicy       string      `yaml:"retry_policy"`
	SpeculativePolicy string      `yaml:"speculative_policy"`
}

type fileOptions struct {
	IsIdempotent        bool   `yaml:"is_idempotent"`
	DisableTimeoutRetry bool   `yaml:"disable_timeout_retry"`
	CaptureStackTrace   bool   `yaml:"capture_stack_trace"`
	Consistency         string `yaml:"consistency"`
	Timeout             string `yaml:"timeout"`
}

// Load parses profiles from YAML.
func Load(r io.Reader) ([]Profile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var schema fileSchema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	profiles := make([]Profile, 0, len(schema.Profiles))
	for _, fp := range schema.Profiles {
		p, err := fp.toProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// LoadFile reads profiles from a YAML file.
func LoadFile(path string) ([]Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (fp fileProfile) toProfile() (Profile, error) {
	opts := Options{
		IsIdempotent:        fp.Options.IsIdempotent,
		DisableTimeoutRetry: fp.Options.DisableTimeoutRetry,
		CaptureStackTrace:   fp.Options.CaptureStackTrace,
	}

	if fp.Options.Consistency != "" {
		c, ok := wire.ParseConsistency(fp.Options.Consistency)
		if !ok {
			return Profile{}, &NormalizeError{Field: "consistency", Value: fp.Options.Consistency}
		}
		opts.Consistency = c
	}

	if fp.Options.Timeout != "" {
		d, err := time.ParseDuration(fp.Options.Timeout)
		if err != nil {
			return Profile{}, &NormalizeError{Field: "timeout", Value: fp.Options.Timeout}
		}
		opts.Timeout = d
	}

	opts, err := opts.Normalize()
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		Name:              fp.Name,
		Options:           opts,
		RetryPolicy:       fp.RetryPolicy,
		SpeculativePolicy: fp.SpeculativePolicy,
	}, nil
}
