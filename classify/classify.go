package classify

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/veladb/vela/conn"
	"github.com/veladb/vela/wire"
)

// Classify resolves a raw failure to its Kind. It is total: it never
// panics and never fails, mapping anything it does not recognize to
// KindServerError.
func Classify(err error) Kind {
	if err == nil {
		return KindServerError
	}

	// Typed server errors first; they are the most specific signal.
	var (
		unavailable   *wire.UnavailableError
		overloaded    *wire.OverloadedError
		bootstrapping *wire.BootstrappingError
		readTimeout   *wire.ReadTimeoutError
		writeTimeout  *wire.WriteTimeoutError
		unprepared    *wire.UnpreparedError
		syntax        *wire.SyntaxError
	)
	switch {
	case errors.As(err, &unavailable):
		return KindUnavailable
	case errors.As(err, &overloaded):
		return KindOverloaded
	case errors.As(err, &bootstrapping):
		return KindBootstrapping
	case errors.As(err, &readTimeout):
		return KindReadTimeout
	case errors.As(err, &writeTimeout):
		return KindWriteTimeout
	case errors.As(err, &unprepared):
		return KindUnprepared
	case errors.As(err, &syntax):
		return KindSyntaxError
	}

	// Transport-level failures.
	switch {
	case errors.Is(err, conn.ErrConnectionClosed),
		errors.Is(err, conn.ErrPoolExhausted),
		errors.Is(err, conn.ErrHostDown),
		errors.Is(err, io.EOF):
		return KindTransportUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return KindOperationTimedOut
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindOperationTimedOut
		}
		return KindTransportUnavailable
	}

	// Untyped server errors still carry a code.
	var srv *wire.ServerError
	if errors.As(err, &srv) {
		return fromCode(srv.Code)
	}

	return KindServerError
}

func fromCode(code int) Kind {
	switch code {
	case wire.CodeUnavailable:
		return KindUnavailable
	case wire.CodeOverloaded:
		return KindOverloaded
	case wire.CodeBootstrapping:
		return KindBootstrapping
	case wire.CodeReadTimeout:
		return KindReadTimeout
	case wire.CodeWriteTimeout:
		return KindWriteTimeout
	case wire.CodeUnprepared:
		return KindUnprepared
	case wire.CodeSyntaxError:
		return KindSyntaxError
	default:
		return KindServerError
	}
}
