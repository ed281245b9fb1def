package recommend

import "strings"

const maxFallbackResults = 8

func ratingOf(v float64) *float64 { return &v }

// fallbackCatalogue is served when the recommender is unavailable or returns
// nothing usable. Entries go through Rank like any other candidates.
var fallbackCatalogue = []Candidate{
	{
		Name:        "GitHub",
		Description: "World's largest code repository and collaboration platform",
		Type:        "tool",
		URL:         "https://github.com",
		Difficulty:  "beginner",
		Pricing:     "freemium",
		Rating:      ratingOf(4.8),
		Tags:        []string{"coding", "collaboration", "open-source"},
		Popularity:  "high",
	},
	{
		Name:        "freeCodeCamp",
		Description: "Learn to code for free with interactive lessons",
		Type:        "course",
		URL:         "https://freecodecamp.org",
		Difficulty:  "beginner",
		Pricing:     "free",
		Rating:      ratingOf(4.7),
		Tags:        []string{"web-development", "programming", "certification"},
		Popularity:  "high",
	},
	{
		Name:        "Coursera",
		Description: "Online courses from top universities and companies",
		Type:        "course",
		URL:         "https://coursera.org",
		Difficulty:  "intermediate",
		Pricing:     "freemium",
		Rating:      ratingOf(4.6),
		Tags:        []string{"university", "certification", "professional"},
		Popularity:  "high",
	},
	{
		Name:        "Stack Overflow",
		Description: "Q&A platform for programmers and developers",
		Type:        "website",
		URL:         "https://stackoverflow.com",
		Difficulty:  "intermediate",
		Pricing:     "free",
		Rating:      ratingOf(4.5),
		Tags:        []string{"programming", "Q&A", "community"},
		Popularity:  "high",
	},
	{
		Name:        "Traversy Media",
		Description: "Web development tutorials and crash courses",
		Type:        "youtube",
		URL:         "https://youtube.com/c/TraversyMedia",
		Difficulty:  "beginner",
		Pricing:     "free",
		Rating:      ratingOf(4.6),
		Tags:        []string{"web-development", "tutorials", "javascript"},
		Popularity:  "high",
	},
	{
		Name:        "MDN Web Docs",
		Description: "Comprehensive web development documentation",
		Type:        "website",
		URL:         "https://developer.mozilla.org",
		Difficulty:  "intermediate",
		Pricing:     "free",
		Rating:      ratingOf(4.8),
		Tags:        []string{"documentation", "web-development", "reference"},
		Popularity:  "high",
	},
	{
		Name:        "Codecademy",
		Description: "Interactive coding lessons and projects",
		Type:        "course",
		URL:         "https://codecademy.com",
		Difficulty:  "beginner",
		Pricing:     "freemium",
		Rating:      ratingOf(4.4),
		Tags:        []string{"interactive", "programming", "projects"},
		Popularity:  "high",
	},
	{
		Name:        "Khan Academy",
		Description: "Free educational content for all subjects",
		Type:        "course",
		URL:         "https://khanacademy.org",
		Difficulty:  "beginner",
		Pricing:     "free",
		Rating:      ratingOf(4.5),
		Tags:        []string{"education", "free", "comprehensive"},
		Popularity:  "high",
	},
}

// Fallback returns built-in candidates roughly matching the query. Entries
// with no keyword overlap are filtered out; if nothing overlaps the whole
// catalogue is returned so the caller never serves an empty result set.
func Fallback(query string) []Candidate {
	words := strings.Fields(strings.ToLower(query))

	matched := make([]Candidate, 0, len(fallbackCatalogue))
	for _, c := range fallbackCatalogue {
		text := strings.ToLower(c.Name + " " + c.Description)
		for _, w := range words {
			if strings.Contains(text, w) {
				matched = append(matched, c)
				break
			}
		}
	}

	if len(matched) == 0 {
		matched = append(matched, fallbackCatalogue...)
	}
	if len(matched) > maxFallbackResults {
		matched = matched[:maxFallbackResults]
	}
	return matched
}
