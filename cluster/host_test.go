package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostStatusTransitions(t *testing.T) {
	h := NewHost("h1", "10.0.0.1:9042", "dc1", "r1")
	assert.Equal(t, HostUp, h.Status())

	h.SetStatus(HostDown)
	assert.Equal(t, HostDown, h.Status())
	assert.Equal(t, "DOWN", h.Status().String())

	h.SetStatus(HostUp)
	assert.Equal(t, HostUp, h.Status())
}

func TestHostString(t *testing.T) {
	h := NewHost("h1", "10.0.0.1:9042", "dc1", "r2")
	assert.Equal(t, "10.0.0.1:9042 (dc1/r2)", h.String())

	var nilHost *Host
	assert.Equal(t, "<nil host>", nilHost.String())
}
