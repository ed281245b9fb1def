// Package quota tracks how many free searches a guest session has used and
// decides whether a request may spend one.
package quota

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const counterKeyPrefix = "search_count:"

// CounterTTL is the sliding reset window for guest counters, re-armed on
// every increment.
const CounterTTL = 24 * time.Hour

// Store is the Redis-backed per-session search counter. Quota precision is
// a soft guarantee: every store failure here is logged and swallowed, and
// callers see the safe default (zero usage for reads, a no-op for writes).
type Store struct {
	rdb     *redis.Client
	timeout time.Duration
	log     zerolog.Logger
}

// NewStore builds a counter store. timeout bounds each Redis round trip.
func NewStore(rdb *redis.Client, timeout time.Duration, log zerolog.Logger) *Store {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Store{rdb: rdb, timeout: timeout, log: log}
}

// Count returns the current search count for a session. A missing key or an
// unreachable store both read as zero usage.
func (s *Store) Count(ctx context.Context, sessionID string) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.rdb.Get(ctx, counterKeyPrefix+sessionID).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("session", sessionID).Msg("quota read failed")
		}
		return 0
	}
	return n
}

// Increment bumps the counter and re-arms its 24h expiry. INCR and EXPIRE
// go through one pipeline so a crash between them cannot leave a counter
// without a TTL. The write is detached from the caller's cancellation:
// once a chargeable search happened, the charge should land.
func (s *Store) Increment(ctx context.Context, sessionID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	key := counterKeyPrefix + sessionID
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, CounterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Error().Err(err).Str("session", sessionID).Msg("quota increment failed")
	}
}

// Reset deletes a session's counter. Used when a guest converts to a
// registered account.
func (s *Store) Reset(ctx context.Context, sessionID string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Del(ctx, counterKeyPrefix+sessionID).Err(); err != nil {
		s.log.Error().Err(err).Str("session", sessionID).Msg("quota reset failed")
	}
}
