// Package recommend turns raw, untrusted AI recommendations into a
// validated, ranked resource list.
package recommend

import (
	"sort"
	"strings"
)

// Recognized value domains. Anything else is coerced to the default.
var (
	ValidTypes        = []string{"tool", "youtube", "course", "website"}
	ValidDifficulties = []string{"beginner", "intermediate", "advanced"}
	ValidPricing      = []string{"free", "freemium", "paid"}
)

// Filters narrows a search to recognized dimensions. Unrecognized filter
// keys from clients are dropped at decode time by virtue of the struct.
type Filters struct {
	Types      []string `json:"type,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Pricing    []string `json:"pricing,omitempty"`
}

// IsZero reports whether no filter dimension is set.
func (f Filters) IsZero() bool {
	return len(f.Types) == 0 && f.Difficulty == "" && len(f.Pricing) == 0
}

// Pairs returns the filter content as a lexicographically sorted key/value
// sequence. List values are lowercased and sorted so that semantically
// identical filter sets produce identical sequences.
func (f Filters) Pairs() [][2]string {
	var pairs [][2]string
	if f.Difficulty != "" {
		pairs = append(pairs, [2]string{"difficulty", strings.ToLower(f.Difficulty)})
	}
	for _, v := range sortedLower(f.Pricing) {
		pairs = append(pairs, [2]string{"pricing", v})
	}
	for _, v := range sortedLower(f.Types) {
		pairs = append(pairs, [2]string{"type", v})
	}
	return pairs
}

func sortedLower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Candidate is a raw recommendation as returned by the upstream AI. Every
// field is untrusted: required fields may be missing, ratings out of range,
// URLs malformed. Rating is a pointer so a missing rating can be told apart
// from an explicit zero.
type Candidate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	URL         string   `json:"url"`
	Difficulty  string   `json:"difficulty"`
	Pricing     string   `json:"pricing"`
	Rating      *float64 `json:"rating"`
	Tags        []string `json:"tags"`
	Popularity  string   `json:"popularity"`
}

// Resource is a validated recommendation. Field domains are guaranteed:
// Type, Difficulty and Pricing hold recognized values, Rating is within
// [1.0, 5.0], URL is absolute.
type Resource struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	URL            string   `json:"url"`
	Difficulty     string   `json:"difficulty"`
	Pricing        string   `json:"pricing"`
	Rating         float64  `json:"rating"`
	Tags           []string `json:"tags,omitempty"`
	Popularity     string   `json:"popularity,omitempty"`
	RelevanceScore float64  `json:"relevance_score"`
}

// Candidate converts a validated resource back into candidate form, for
// re-ranking cached or stored results.
func (r Resource) Candidate() Candidate {
	rating := r.Rating
	return Candidate{
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		URL:         r.URL,
		Difficulty:  r.Difficulty,
		Pricing:     r.Pricing,
		Rating:      &rating,
		Tags:        r.Tags,
		Popularity:  r.Popularity,
	}
}
