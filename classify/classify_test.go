package classify

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/veladb/vela/conn"
	"github.com/veladb/vela/wire"
)

type fakeNetErr struct{ timeout bool }

func (e fakeNetErr) Error() string   { return "dial tcp: fake" }
func (e fakeNetErr) Timeout() bool   { return e.timeout }
func (e fakeNetErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindServerError},
		{"unavailable", wire.NewServerError(wire.CodeUnavailable, "2 of 3"), KindUnavailable},
		{"overloaded", wire.NewServerError(wire.CodeOverloaded, "shed"), KindOverloaded},
		{"bootstrapping", wire.NewServerError(wire.CodeBootstrapping, "joining"), KindBootstrapping},
		{"read timeout", wire.NewServerError(wire.CodeReadTimeout, "late"), KindReadTimeout},
		{"write timeout", wire.NewServerError(wire.CodeWriteTimeout, "late"), KindWriteTimeout},
		{"unprepared", wire.NewServerError(wire.CodeUnprepared, "evicted"), KindUnprepared},
		{"syntax", wire.NewServerError(wire.CodeSyntaxError, "parse"), KindSyntaxError},
		{"unknown code", wire.NewServerError(wire.CodeTruncateError, "truncate"), KindServerError},
		{"connection closed", conn.ErrConnectionClosed, KindTransportUnavailable},
		{"pool exhausted", conn.ErrPoolExhausted, KindTransportUnavailable},
		{"host down", conn.ErrHostDown, KindTransportUnavailable},
		{"eof", io.EOF, KindTransportUnavailable},
		{"deadline", context.DeadlineExceeded, KindOperationTimedOut},
		{"net timeout", fakeNetErr{timeout: true}, KindOperationTimedOut},
		{"net refused", fakeNetErr{timeout: false}, KindTransportUnavailable},
		{"opaque", errors.New("something else"), KindServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

// Classification must see through wrapping added by intermediate layers.
func TestClassifyWrappedErrors(t *testing.T) {
	err := errors.Wrap(wire.NewServerError(wire.CodeBootstrapping, "joining"), "send failed")
	assert.Equal(t, KindBootstrapping, Classify(err))

	err = errors.Wrap(conn.ErrConnectionClosed, "lease failed")
	assert.Equal(t, KindTransportUnavailable, Classify(err))
}

func TestKindHostLevel(t *testing.T) {
	hostLevel := map[Kind]bool{
		KindTransportUnavailable: true,
		KindOverloaded:           true,
		KindBootstrapping:        true,
	}
	for k := KindTransportUnavailable; k <= KindServerError; k++ {
		assert.Equal(t, hostLevel[k], k.HostLevel(), "kind %s", k)
	}
}
