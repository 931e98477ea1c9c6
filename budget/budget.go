// Package budget gates non-initial attempts so retry and speculative
// storms cannot amplify load on an already struggling cluster.
package budget

import "context"

// AttemptKind describes the attempt type being gated.
type AttemptKind int

const (
	KindRetry AttemptKind = iota
	KindSpeculative
)

func (k AttemptKind) String() string {
	if k == KindSpeculative {
		return "speculative"
	}
	return "retry"
}

// Standard Decision.Reason strings.
const (
	ReasonAllowed      = "allowed"
	ReasonBudgetDenied = "budget_denied"
)

// Decision is the result of a budget check.
type Decision struct {
	Allowed bool
	Reason  string

	// Release, when non-nil, is called exactly once after an allowed
	// attempt finishes.
	Release func()
}

// Budget decides whether another attempt may be launched. A denied
// retry surfaces as a rethrow; a denied speculative launch is simply
// skipped.
type Budget interface {
	AllowAttempt(ctx context.Context, kind AttemptKind) Decision
}
