package wire

import "fmt"

// Protocol error codes as sent by the server in an error frame.
const (
	CodeServerError   = 0x0000
	CodeProtocolError = 0x000A
	CodeUnavailable   = 0x1000
	CodeOverloaded    = 0x1001
	CodeBootstrapping = 0x1002
	CodeTruncateError = 0x1003
	CodeWriteTimeout  = 0x1100
	CodeReadTimeout   = 0x1200
	CodeSyntaxError   = 0x2000
	CodeUnauthorized  = 0x2100
	CodeInvalid       = 0x2200
	CodeUnprepared    = 0x2500
)

// ServerError is the decoded form of a server error frame. Concrete
// error types embed it; code-based consumers can also match on Code
// directly.
type ServerError struct {
	Code    int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (code=0x%04X): %s", e.Code, e.Message)
}

// UnavailableError reports that the coordinator host did not see enough
// live replicas to satisfy the requested consistency.
type UnavailableError struct {
	ServerError
	Consistency Consistency
	Required    int
	Alive       int
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("unavailable: consistency %s requires %d replicas, %d alive",
		e.Consistency, e.Required, e.Alive)
}

// ReadTimeoutError reports that replicas did not answer a read before
// the server-side timeout.
type ReadTimeoutError struct {
	ServerError
	Consistency Consistency
	Received    int
	BlockFor    int
	DataPresent bool
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("read timeout: received %d of %d responses (consistency %s)",
		e.Received, e.BlockFor, e.Consistency)
}

// WriteTimeoutError reports that replicas did not acknowledge a write
// before the server-side timeout.
type WriteTimeoutError struct {
	ServerError
	Consistency Consistency
	Received    int
	BlockFor    int
	WriteType   string
}

func (e *WriteTimeoutError) Error() string {
	return fmt.Sprintf("write timeout: received %d of %d acks (consistency %s, writeType %s)",
		e.Received, e.BlockFor, e.Consistency, e.WriteType)
}

// OverloadedError reports that the host shed the request.
type OverloadedError struct {
	ServerError
}

func (e *OverloadedError) Error() string {
	return "host overloaded: " + e.Message
}

// BootstrappingError reports that the host is joining the ring and
// cannot serve requests yet.
type BootstrappingError struct {
	ServerError
}

func (e *BootstrappingError) Error() string {
	return "host is bootstrapping"
}

// SyntaxError reports a malformed statement. Retrying it anywhere is
// pointless.
type SyntaxError struct {
	ServerError
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Message
}

// UnpreparedError reports that the host does not recognize a prepared
// statement id, typically after a restart evicted its cache. The
// execution layer repairs it in place with a prepare round-trip; it
// never reaches the retry policy.
type UnpreparedError struct {
	ServerError
	StatementID []byte
}

func (e *UnpreparedError) Error() string {
	return fmt.Sprintf("unprepared statement %x", e.StatementID)
}

// NewServerError builds the typed error value for a decoded error
// frame. Unknown codes come back as a bare *ServerError.
func NewServerError(code int, msg string) error {
	base := ServerError{Code: code, Message: msg}
	switch code {
	case CodeUnavailable:
		return &UnavailableError{ServerError: base}
	case CodeOverloaded:
		return &OverloadedError{ServerError: base}
	case CodeBootstrapping:
		return &BootstrappingError{ServerError: base}
	case CodeReadTimeout:
		return &ReadTimeoutError{ServerError: base}
	case CodeWriteTimeout:
		return &WriteTimeoutError{ServerError: base}
	case CodeSyntaxError:
		return &SyntaxError{ServerError: base}
	case CodeUnprepared:
		return &UnpreparedError{ServerError: base}
	default:
		return &base
	}
}
