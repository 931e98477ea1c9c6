package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConsistency(t *testing.T) {
	c, ok := ParseConsistency("local_quorum")
	require.True(t, ok)
	assert.Equal(t, ConsistencyLocalQuorum, c)

	c, ok = ParseConsistency("  QUORUM ")
	require.True(t, ok)
	assert.Equal(t, ConsistencyQuorum, c)

	_, ok = ParseConsistency("SOMETIMES")
	assert.False(t, ok)
}

func TestNewServerErrorTypes(t *testing.T) {
	assert.IsType(t, &UnavailableError{}, NewServerError(CodeUnavailable, ""))
	assert.IsType(t, &OverloadedError{}, NewServerError(CodeOverloaded, ""))
	assert.IsType(t, &BootstrappingError{}, NewServerError(CodeBootstrapping, ""))
	assert.IsType(t, &ReadTimeoutError{}, NewServerError(CodeReadTimeout, ""))
	assert.IsType(t, &WriteTimeoutError{}, NewServerError(CodeWriteTimeout, ""))
	assert.IsType(t, &SyntaxError{}, NewServerError(CodeSyntaxError, ""))
	assert.IsType(t, &UnpreparedError{}, NewServerError(CodeUnprepared, ""))

	// Unknown codes come back as a bare server error carrying the code.
	err := NewServerError(CodeTruncateError, "truncated")
	srv, ok := err.(*ServerError)
	require.True(t, ok)
	assert.Equal(t, CodeTruncateError, srv.Code)
	assert.Contains(t, srv.Error(), "0x1003")
}

func TestRequestPreparedAndOperation(t *testing.T) {
	adhoc := &Request{Statement: "SELECT 1"}
	assert.False(t, adhoc.Prepared())
	assert.Equal(t, "SELECT 1", adhoc.Operation())

	prepared := &Request{Statement: "SELECT 1", PreparedID: []byte{0x01}}
	assert.True(t, prepared.Prepared())
	assert.Equal(t, "prepared", prepared.Operation())
}
