package quota

import (
	"context"
	"testing"

	"github.com/learnscout/learnscout/internal/identity"
)

type fakeCounter struct {
	counts map[string]int
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int)}
}

func (f *fakeCounter) Count(_ context.Context, sessionID string) int {
	return f.counts[sessionID]
}

func (f *fakeCounter) Increment(_ context.Context, sessionID string) {
	f.counts[sessionID]++
}

func (f *fakeCounter) Reset(_ context.Context, sessionID string) {
	delete(f.counts, sessionID)
}

func TestEvaluateAuthenticatedBypass(t *testing.T) {
	store := newFakeCounter()
	store.counts["irrelevant"] = 1000
	l := NewLimiter(store, 5)

	dec := l.Evaluate(context.Background(), identity.Authenticated("user-1"))
	if !dec.Allowed {
		t.Error("authenticated caller denied")
	}
	if dec.Remaining != Unlimited {
		t.Errorf("Remaining = %d, want Unlimited (%d)", dec.Remaining, Unlimited)
	}
}

func TestEvaluateAnonymousWithoutSessionFailsClosed(t *testing.T) {
	l := NewLimiter(newFakeCounter(), 5)

	dec := l.Evaluate(context.Background(), identity.Anonymous(""))
	if dec.Allowed {
		t.Error("untrackable caller allowed")
	}
	if dec.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", dec.Remaining)
	}
}

func TestEvaluateGuestQuota(t *testing.T) {
	tests := []struct {
		name          string
		used          int
		wantAllowed   bool
		wantRemaining int
	}{
		{"fresh session", 0, true, 5},
		{"partially used", 3, true, 2},
		{"last search available", 4, true, 1},
		{"exhausted", 5, false, 0},
		{"over limit never negative", 9, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeCounter()
			store.counts["s1"] = tt.used
			l := NewLimiter(store, 5)

			dec := l.Evaluate(context.Background(), identity.Anonymous("s1"))
			if dec.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", dec.Allowed, tt.wantAllowed)
			}
			if dec.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %d, want %d", dec.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestEvaluateIsReadOnly(t *testing.T) {
	store := newFakeCounter()
	l := NewLimiter(store, 5)

	for i := 0; i < 10; i++ {
		l.Evaluate(context.Background(), identity.Anonymous("s1"))
	}
	if store.counts["s1"] != 0 {
		t.Errorf("Evaluate mutated the counter: %d", store.counts["s1"])
	}
}

func TestQuotaMonotonicity(t *testing.T) {
	store := newFakeCounter()
	l := NewLimiter(store, 5)
	ctx := context.Background()
	id := identity.Anonymous("s1")

	prev := 6
	for i := 0; i < 5; i++ {
		dec := l.Evaluate(ctx, id)
		if !dec.Allowed {
			t.Fatalf("search %d denied early", i+1)
		}
		if dec.Remaining >= prev {
			t.Errorf("search %d: remaining %d did not decrease from %d", i+1, dec.Remaining, prev)
		}
		prev = dec.Remaining
		store.Increment(ctx, "s1")
	}

	dec := l.Evaluate(ctx, id)
	if dec.Allowed || dec.Remaining != 0 {
		t.Errorf("6th search: Allowed=%v Remaining=%d, want denied with 0", dec.Allowed, dec.Remaining)
	}
}

func TestNewLimiterDefaultLimit(t *testing.T) {
	l := NewLimiter(newFakeCounter(), 0)
	if l.FreeLimit != DefaultFreeLimit {
		t.Errorf("FreeLimit = %d, want %d", l.FreeLimit, DefaultFreeLimit)
	}
}
