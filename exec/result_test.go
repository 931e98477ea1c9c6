package exec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veladb/vela/cluster"
)

func TestTriedHostsMarkQueriedKeepsRecordedError(t *testing.T) {
	h := cluster.NewHost("h1", "10.0.0.1:9042", "dc1", "r1")
	failed := errors.New("read timeout")

	tried := newTriedHosts()
	tried.MarkQueried(h)
	assert.Equal(t, 1, tried.Len())
	assert.NoError(t, tried.Snapshot()[h.Address])

	tried.Record(h, failed)
	assert.ErrorIs(t, tried.Snapshot()[h.Address], failed)

	// A later execution landing on the same host must not erase the
	// recorded error.
	tried.MarkQueried(h)
	assert.ErrorIs(t, tried.Snapshot()[h.Address], failed)
}

func TestTriedHostsSnapshotIsFrozen(t *testing.T) {
	h1 := cluster.NewHost("h1", "10.0.0.1:9042", "dc1", "r1")
	h2 := cluster.NewHost("h2", "10.0.0.2:9042", "dc1", "r1")

	tried := newTriedHosts()
	tried.MarkQueried(h1)

	snap := tried.Snapshot()
	tried.Record(h2, errors.New("late failure"))

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, tried.Len())
}
