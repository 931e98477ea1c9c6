// Package classify normalizes raw failures into the closed error
// taxonomy the retry policy decides on.
package classify

// Kind is the normalized category of a failure. The set is closed:
// every raw error resolves to exactly one Kind, with KindServerError as
// the catch-all for codes this engine does not recognize.
type Kind int

const (
	// KindTransportUnavailable covers connection-level failures: the
	// connection died, the pool had nothing to offer, or the host was
	// marked down before the request could be written.
	KindTransportUnavailable Kind = iota

	// KindOperationTimedOut is the client-side deadline elapsing with
	// no response. The request may or may not have been processed.
	KindOperationTimedOut

	KindOverloaded
	KindBootstrapping
	KindUnavailable
	KindReadTimeout
	KindWriteTimeout

	// KindUnprepared never reaches the retry policy: the execution
	// layer repairs it in place with a prepare round-trip.
	KindUnprepared

	KindSyntaxError

	// KindServerError is the generic kind for unknown or
	// non-recoverable server responses. Default decision: rethrow.
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindTransportUnavailable:
		return "transport_unavailable"
	case KindOperationTimedOut:
		return "operation_timed_out"
	case KindOverloaded:
		return "overloaded"
	case KindBootstrapping:
		return "bootstrapping"
	case KindUnavailable:
		return "unavailable"
	case KindReadTimeout:
		return "read_timeout"
	case KindWriteTimeout:
		return "write_timeout"
	case KindUnprepared:
		return "unprepared"
	case KindSyntaxError:
		return "syntax_error"
	default:
		return "server_error"
	}
}

// HostLevel reports whether the failure happened before the host could
// start processing the request. Such failures carry no duplication
// risk, so moving to the next host is safe even for non-idempotent
// requests.
func (k Kind) HostLevel() bool {
	switch k {
	case KindTransportUnavailable, KindOverloaded, KindBootstrapping:
		return true
	default:
		return false
	}
}
