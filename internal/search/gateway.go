// Package search orchestrates one search request: quota check, cache
// lookup, upstream call, validation/ranking, cache store, quota commit.
package search

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/learnscout/learnscout/internal/cache"
	"github.com/learnscout/learnscout/internal/identity"
	"github.com/learnscout/learnscout/internal/quota"
	"github.com/learnscout/learnscout/internal/recommend"
)

// ErrQuotaExceeded denies a request before any upstream work happens. It
// also covers guests with no session id: the gateway cannot tell "no quota
// left" from "no way to track quota" and refuses both the same way.
var ErrQuotaExceeded = errors.New("search limit exceeded")

// Recommender is the upstream AI collaborator. No availability guarantee;
// the gateway falls back to the built-in catalogue on any error.
type Recommender interface {
	Recommend(ctx context.Context, query string, filters recommend.Filters) ([]recommend.Candidate, error)
}

// ResultCache is the fingerprint-keyed store for ranked result sets.
type ResultCache interface {
	Get(ctx context.Context, fp string) (*cache.Entry, bool)
	Put(ctx context.Context, fp string, results []recommend.Resource)
}

// Request is one inbound search.
type Request struct {
	Query    string
	Filters  recommend.Filters
	Identity identity.Identity
}

// Response is a served search. Remaining is quota.Unlimited for registered
// users.
type Response struct {
	Results   []recommend.Resource
	Remaining int
	CacheHit  bool
}

// Gateway composes the search pipeline. It holds no cross-request state of
// its own; all shared mutable state lives in the quota store and result
// cache.
type Gateway struct {
	limiter     *quota.Limiter
	cache       ResultCache
	recommender Recommender
	log         zerolog.Logger
}

func NewGateway(limiter *quota.Limiter, results ResultCache, rec Recommender, log zerolog.Logger) *Gateway {
	return &Gateway{limiter: limiter, cache: results, recommender: rec, log: log}
}

// Search runs the pipeline for one request.
//
// A cache hit still consumes a guest search: from the caller's perspective a
// completed search happened either way, so both paths commit quota the same
// way. Quota commits are not rolled back if the response later fails to
// reach the caller; that inconsistency window is accepted.
func (g *Gateway) Search(ctx context.Context, req Request) (*Response, error) {
	dec := g.limiter.Evaluate(ctx, req.Identity)
	if !dec.Allowed {
		return nil, ErrQuotaExceeded
	}

	fp := cache.Fingerprint(req.Query, req.Filters)

	if entry, ok := g.cache.Get(ctx, fp); ok {
		remaining := g.commit(ctx, req.Identity, dec)
		g.log.Debug().Str("fingerprint", fp).Msg("search served from cache")
		return &Response{Results: entry.Results, Remaining: remaining, CacheHit: true}, nil
	}

	raw, err := g.recommender.Recommend(ctx, req.Query, req.Filters)
	if err != nil || len(raw) == 0 {
		if err != nil {
			g.log.Warn().Err(err).Str("query", req.Query).Msg("recommender unavailable, using fallback")
		}
		raw = recommend.Fallback(req.Query)
	}

	results := recommend.Rank(raw, req.Query, req.Filters)
	g.cache.Put(ctx, fp, results)

	remaining := g.commit(ctx, req.Identity, dec)
	return &Response{Results: results, Remaining: remaining, CacheHit: false}, nil
}

// commit charges the search against a guest's counter and returns the
// remaining count after the charge. Registered users never increment here.
func (g *Gateway) commit(ctx context.Context, id identity.Identity, dec quota.Decision) int {
	if id.IsAuthenticated() {
		return quota.Unlimited
	}
	g.limiter.Store.Increment(ctx, id.SessionID)
	if dec.Remaining > 0 {
		return dec.Remaining - 1
	}
	return 0
}

// Status answers "could this caller search right now" without executing
// anything or consuming quota.
func (g *Gateway) Status(ctx context.Context, id identity.Identity) (bool, int) {
	dec := g.limiter.Evaluate(ctx, id)
	return dec.Allowed, dec.Remaining
}
