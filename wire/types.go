package wire

import "strings"

// Consistency is the replication consistency level requested for an
// operation. The engine treats it as an opaque passthrough to the
// protocol layer; only the retry policy inspects it.
type Consistency uint16

const (
	ConsistencyAny Consistency = iota
	ConsistencyOne
	ConsistencyTwo
	ConsistencyThree
	ConsistencyQuorum
	ConsistencyAll
	ConsistencyLocalQuorum
	ConsistencyEachQuorum
	ConsistencyLocalOne
)

func (c Consistency) String() string {
	switch c {
	case ConsistencyAny:
		return "ANY"
	case ConsistencyOne:
		return "ONE"
	case ConsistencyTwo:
		return "TWO"
	case ConsistencyThree:
		return "THREE"
	case ConsistencyQuorum:
		return "QUORUM"
	case ConsistencyAll:
		return "ALL"
	case ConsistencyLocalQuorum:
		return "LOCAL_QUORUM"
	case ConsistencyEachQuorum:
		return "EACH_QUORUM"
	case ConsistencyLocalOne:
		return "LOCAL_ONE"
	default:
		return "UNKNOWN"
	}
}

// ParseConsistency maps the textual form (as found in configuration
// files) back to a Consistency level.
func ParseConsistency(s string) (Consistency, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ANY":
		return ConsistencyAny, true
	case "ONE":
		return ConsistencyOne, true
	case "TWO":
		return ConsistencyTwo, true
	case "THREE":
		return ConsistencyThree, true
	case "QUORUM":
		return ConsistencyQuorum, true
	case "ALL":
		return ConsistencyAll, true
	case "LOCAL_QUORUM":
		return ConsistencyLocalQuorum, true
	case "EACH_QUORUM":
		return ConsistencyEachQuorum, true
	case "LOCAL_ONE":
		return ConsistencyLocalOne, true
	default:
		return ConsistencyAny, false
	}
}

// Request describes one operation against the cluster. It is immutable
// once handed to the engine: the engine reads it, never mutates it, and
// may send it to several hosts concurrently.
//
// Exactly one of Statement or PreparedID is set. Values are already
// serialized by the caller; the engine does not interpret them.
type Request struct {
	Statement   string
	PreparedID  []byte
	Values      [][]byte
	Consistency Consistency
	PageSize    int
	PagingState []byte
}

// Prepared reports whether the request executes a previously prepared
// statement.
func (r *Request) Prepared() bool {
	return len(r.PreparedID) > 0
}

// Operation returns a short identifier for logging: the statement text
// for ad-hoc requests, or a marker for prepared ones.
func (r *Request) Operation() string {
	if r.Prepared() {
		return "prepared"
	}
	return r.Statement
}

// ResponseKind discriminates the payloads a host can answer with.
type ResponseKind int

const (
	ResponseVoid ResponseKind = iota
	ResponseRows
	ResponseSetKeyspace
	ResponseSchemaChange
	ResponsePrepared
)

// Response is the already-decoded answer to a request. The engine
// treats Body as opaque; it only discriminates on Kind for the
// prepared-statement repair path.
type Response struct {
	Kind     ResponseKind
	Body     []byte
	Warnings []string

	// PreparedID is set on ResponsePrepared answers.
	PreparedID []byte
}

// Void is the response delivered when the retry policy decides to
// ignore a failure: the caller observes a successful empty result.
var Void = &Response{Kind: ResponseVoid}
