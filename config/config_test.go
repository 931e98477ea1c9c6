package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veladb/vela/wire"
)

func TestOptionsNormalize(t *testing.T) {
	o, err := Options{}.Normalize()
	require.NoError(t, err)
	assert.False(t, o.IsIdempotent)
	assert.False(t, o.DisableTimeoutRetry)
	assert.Zero(t, o.Timeout)

	o, err = Options{Timeout: time.Hour}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, MaxTimeout, o.Timeout)

	_, err = Options{Timeout: -time.Second}.Normalize()
	var nerr *NormalizeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "timeout", nerr.Field)
}

func TestProfilesRegisterAndGet(t *testing.T) {
	reg := NewProfiles()
	require.NoError(t, reg.Register(Profile{
		Name:        "oltp",
		Options:     Options{Timeout: 2 * time.Second},
		RetryPolicy: "default",
	}))

	p, ok := reg.Get("oltp")
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, p.Options.Timeout)

	_, ok = reg.Get("missing")
	assert.False(t, ok)

	assert.Error(t, reg.Register(Profile{Name: "  "}))
}

func TestProfilesEmptyNameResolvesDefault(t *testing.T) {
	reg := NewProfiles()
	require.NoError(t, reg.Register(Profile{Name: DefaultProfileName}))

	_, ok := reg.Get("")
	assert.True(t, ok)
}

func TestProfilesRegisterNormalizes(t *testing.T) {
	reg := NewProfiles()
	require.NoError(t, reg.Register(Profile{Name: "capped", Options: Options{Timeout: time.Hour}}))

	p, _ := reg.Get("capped")
	assert.Equal(t, MaxTimeout, p.Options.Timeout)

	assert.Error(t, reg.Register(Profile{Name: "bad", Options: Options{Timeout: -1}}))
}

const profilesYAML = `
profiles:
  - name: default
    retry_policy: default
    options:
      consistency: LOCAL_QUORUM
      timeout: 2s
  - name: analytics
    speculative_policy: constant
    options:
      is_idempotent: true
      disable_timeout_retry: true
`

func TestLoadProfiles(t *testing.T) {
	profiles, err := Load(strings.NewReader(profilesYAML))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "default", profiles[0].Name)
	assert.Equal(t, "default", profiles[0].RetryPolicy)
	assert.Equal(t, wire.ConsistencyLocalQuorum, profiles[0].Options.Consistency)
	assert.Equal(t, 2*time.Second, profiles[0].Options.Timeout)

	assert.Equal(t, "analytics", profiles[1].Name)
	assert.Equal(t, "constant", profiles[1].SpeculativePolicy)
	assert.True(t, profiles[1].Options.IsIdempotent)
	assert.True(t, profiles[1].Options.DisableTimeoutRetry)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(strings.NewReader(`
profiles:
  - name: broken
    options:
      consistency: SOMETIMES
`))
	var nerr *NormalizeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "consistency", nerr.Field)

	_, err = Load(strings.NewReader(`
profiles:
  - name: broken
    options:
      timeout: soon
`))
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "timeout", nerr.Field)

	_, err = Load(strings.NewReader("profiles: ["))
	assert.Error(t, err)
}
