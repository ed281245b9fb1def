package quota

import (
	"context"

	"github.com/learnscout/learnscout/internal/identity"
)

// Unlimited is the remaining-count sentinel for callers with no cap
// enforced here.
const Unlimited = -1

// DefaultFreeLimit is the number of free searches per guest session.
const DefaultFreeLimit = 5

// Counter is the read/write surface the limiter and gateway need from the
// quota store.
type Counter interface {
	Count(ctx context.Context, sessionID string) int
	Increment(ctx context.Context, sessionID string)
	Reset(ctx context.Context, sessionID string)
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Remaining int
}

// Limiter decides whether a caller may perform a search. It is read-only:
// committing a spent search is the gateway's job, after the search actually
// happened.
type Limiter struct {
	Store     Counter
	FreeLimit int
}

// NewLimiter builds a limiter over store. freeLimit <= 0 selects the
// default.
func NewLimiter(store Counter, freeLimit int) *Limiter {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeLimit
	}
	return &Limiter{Store: store, FreeLimit: freeLimit}
}

// Evaluate applies the quota policy to an identity:
//
//   - registered users are never capped here (their usage is tracked in the
//     history store instead),
//   - guests with a session id get whatever is left of the free limit,
//   - guests without a session id are denied outright. A caller that cannot
//     be tracked fails closed rather than getting unlimited access.
func (l *Limiter) Evaluate(ctx context.Context, id identity.Identity) Decision {
	if id.IsAuthenticated() {
		return Decision{Allowed: true, Remaining: Unlimited}
	}
	if id.SessionID == "" {
		return Decision{Allowed: false, Remaining: 0}
	}

	remaining := l.FreeLimit - l.Store.Count(ctx, id.SessionID)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: remaining > 0, Remaining: remaining}
}
