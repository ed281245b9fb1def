package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnscout/learnscout/internal/recommend"
)

const resultKeyPrefix = "search_cache:"

// Entry is the payload stored under a fingerprint: the ranked resource list
// plus when it was computed.
type Entry struct {
	CachedAt time.Time            `json:"cached_at"`
	Results  []recommend.Resource `json:"results"`
}

// ResultCache stores ranked result sets in Redis with TTL expiry. Caching is
// best-effort throughout: a broken or unreachable store degrades every Get
// to a miss and every Put to a logged no-op, never to a request failure.
type ResultCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
	log     zerolog.Logger
}

// NewResultCache builds a cache writing entries with the given TTL. timeout
// bounds each round trip to Redis.
func NewResultCache(rdb *redis.Client, ttl, timeout time.Duration, log zerolog.Logger) *ResultCache {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ResultCache{rdb: rdb, ttl: ttl, timeout: timeout, log: log}
}

// Get returns the entry under fingerprint fp, or false on absence, expiry,
// store error, or a corrupt blob.
func (c *ResultCache) Get(ctx context.Context, fp string) (*Entry, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, resultKeyPrefix+fp).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("fingerprint", fp).Msg("result cache read failed")
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.Warn().Err(err).Str("fingerprint", fp).Msg("result cache entry corrupt")
		return nil, false
	}
	return &entry, true
}

// Put stores results under fp, overwriting any prior entry. The write is
// detached from the caller's cancellation so an aborted request cannot leave
// a partial entry behind; SET itself is atomic on the Redis side.
func (c *ResultCache) Put(ctx context.Context, fp string, results []recommend.Resource) {
	entry := Entry{CachedAt: time.Now().UTC(), Results: results}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.log.Error().Err(err).Str("fingerprint", fp).Msg("result cache marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	if err := c.rdb.Set(ctx, resultKeyPrefix+fp, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("fingerprint", fp).Msg("result cache write failed")
	}
}
