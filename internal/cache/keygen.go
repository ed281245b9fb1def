// Package cache derives stable fingerprints for search requests and stores
// ranked result sets in Redis under them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/learnscout/learnscout/internal/recommend"
)

// Fingerprint returns a deterministic 256-bit hex digest for a (query,
// filters) pair. The query is lowercased and trimmed and the filters are
// flattened to a sorted key/value sequence first, so requests that differ
// only in filter insertion order (or in nil-vs-empty filters) collide, and
// any change to query text or filter content does not.
func Fingerprint(query string, filters recommend.Filters) string {
	canonical := struct {
		Query   string      `json:"query"`
		Filters [][2]string `json:"filters"`
	}{
		Query:   strings.ToLower(strings.TrimSpace(query)),
		Filters: filters.Pairs(),
	}

	// Struct marshalling has a fixed field order, so these bytes are stable.
	raw, _ := json.Marshal(canonical)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
