package recommend

import (
	"sort"
	"strings"
)

const (
	defaultRating = 4.0
	maxScore      = 5.0
)

var popularityBoost = map[string]float64{
	"high":   1.2,
	"medium": 1.0,
	"low":    0.8,
}

// Rank validates raw candidates, scores them against the query and filters,
// and returns them sorted by relevance (descending, stable). Candidates
// missing any of name, description, type or url are dropped. IDs are
// assigned 1-based in output order, regardless of anything upstream sent.
//
// Rank is pure: identical inputs always produce identical output, which is
// what makes cached result sets reproducible.
func Rank(raw []Candidate, query string, filters Filters) []Resource {
	resources := make([]Resource, 0, len(raw))
	for _, c := range raw {
		r, ok := validate(c)
		if !ok {
			continue
		}
		r.RelevanceScore = relevance(r, query, filters)
		resources = append(resources, r)
	}

	// Ties keep validation order.
	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].RelevanceScore > resources[j].RelevanceScore
	})

	for i := range resources {
		resources[i].ID = i + 1
	}
	return resources
}

func validate(c Candidate) (Resource, bool) {
	name := strings.TrimSpace(c.Name)
	desc := strings.TrimSpace(c.Description)
	typ := strings.ToLower(strings.TrimSpace(c.Type))
	rawURL := strings.TrimSpace(c.URL)
	if name == "" || desc == "" || typ == "" || rawURL == "" {
		return Resource{}, false
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	rating := defaultRating
	if c.Rating != nil {
		rating = clamp(*c.Rating, 1.0, 5.0)
	}

	return Resource{
		Name:        name,
		Description: desc,
		Type:        coerce(typ, ValidTypes, "website"),
		URL:         rawURL,
		Difficulty:  coerce(strings.ToLower(strings.TrimSpace(c.Difficulty)), ValidDifficulties, "intermediate"),
		Pricing:     coerce(strings.ToLower(strings.TrimSpace(c.Pricing)), ValidPricing, "free"),
		Rating:      rating,
		Tags:        c.Tags,
		Popularity:  coerce(strings.ToLower(strings.TrimSpace(c.Popularity)), []string{"high", "medium", "low"}, "medium"),
	}, true
}

// relevance computes the ranking key: rating, boosted by popularity, by each
// matching filter dimension, and by query keyword hits, capped at 5.0.
func relevance(r Resource, query string, filters Filters) float64 {
	score := r.Rating
	score *= popularityBoost[r.Popularity]

	if containsFold(filters.Types, r.Type) {
		score *= 1.1
	}
	if filters.Difficulty != "" && strings.EqualFold(filters.Difficulty, r.Difficulty) {
		score *= 1.1
	}
	if containsFold(filters.Pricing, r.Pricing) {
		score *= 1.1
	}

	text := strings.ToLower(r.Name + " " + r.Description)
	matches := 0
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(text, word) {
			matches++
		}
	}
	if matches > 0 {
		score *= 1 + float64(matches)*0.1
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

func coerce(v string, valid []string, fallback string) string {
	for _, ok := range valid {
		if v == ok {
			return v
		}
	}
	return fallback
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
