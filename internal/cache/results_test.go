package cache

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnscout/learnscout/internal/recommend"
)

// unreachableClient points at a port nothing listens on, with aggressive
// timeouts so failure-path tests stay fast.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestResultCacheGetMissOnStoreError(t *testing.T) {
	c := NewResultCache(unreachableClient(), time.Hour, 100*time.Millisecond, zerolog.Nop())

	if _, ok := c.Get(context.Background(), "deadbeef"); ok {
		t.Error("Get() reported a hit against an unreachable store")
	}
}

func TestResultCachePutSwallowsStoreError(t *testing.T) {
	c := NewResultCache(unreachableClient(), time.Hour, 100*time.Millisecond, zerolog.Nop())

	// Must not panic or block; caching is best-effort.
	c.Put(context.Background(), "deadbeef", []recommend.Resource{{ID: 1, Name: "A"}})
}

// Round-trip tests need a live Redis; gate them behind REDIS_ADDR.
func liveRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping live Redis test")
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

func TestResultCacheRoundTrip(t *testing.T) {
	rdb := liveRedis(t)
	c := NewResultCache(rdb, time.Hour, 2*time.Second, zerolog.Nop())
	ctx := context.Background()

	fpA := uuid.NewString()
	fpB := uuid.NewString()

	ranked := []recommend.Resource{
		{ID: 1, Name: "MDN Web Docs", Description: "docs", Type: "website", URL: "https://developer.mozilla.org", Difficulty: "intermediate", Pricing: "free", Rating: 4.8, RelevanceScore: 4.8},
		{ID: 2, Name: "freeCodeCamp", Description: "lessons", Type: "course", URL: "https://freecodecamp.org", Difficulty: "beginner", Pricing: "free", Rating: 4.7, RelevanceScore: 4.7},
	}
	c.Put(ctx, fpA, ranked)

	entry, ok := c.Get(ctx, fpA)
	if !ok {
		t.Fatal("Get() missed immediately after Put()")
	}
	if len(entry.Results) != len(ranked) {
		t.Fatalf("round trip returned %d results, want %d", len(entry.Results), len(ranked))
	}
	if !reflect.DeepEqual(entry.Results, ranked) {
		t.Errorf("round trip results = %+v, want %+v", entry.Results, ranked)
	}
	if entry.CachedAt.IsZero() {
		t.Error("CachedAt not set")
	}

	// Isolation: a different fingerprint stays absent.
	if _, ok := c.Get(ctx, fpB); ok {
		t.Error("Get() under an unrelated fingerprint reported a hit")
	}

	// Overwrite, no merge.
	c.Put(ctx, fpA, ranked[:1])
	entry, ok = c.Get(ctx, fpA)
	if !ok {
		t.Fatal("Get() missed after overwrite")
	}
	if len(entry.Results) != 1 {
		t.Errorf("overwrite left %d results, want 1", len(entry.Results))
	}
}
