package recommend

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert AI assistant that helps students and developers find the best learning resources. " +
	"You specialize in recommending AI tools, YouTube channels, online courses, and educational websites. " +
	"Always provide accurate, up-to-date, and relevant recommendations."

// BuildPrompt renders the user prompt sent to the recommender for a query
// and filter set. The response contract (a single JSON object with a
// "resources" array) is part of the prompt so parsing stays tolerant.
func BuildPrompt(query string, filters Filters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find the best learning resources for: %q\n\n", query)
	b.WriteString("Please provide 8-12 high-quality recommendations including AI tools, YouTube channels, online courses, and educational websites.\n\n")

	if len(filters.Types) > 0 {
		fmt.Fprintf(&b, "Focus on: %s\n", strings.Join(filters.Types, ", "))
	}
	if filters.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty level: %s\n", filters.Difficulty)
	}
	if containsFold(filters.Pricing, "free") {
		b.WriteString("Include free resources\n")
	}
	if containsFold(filters.Pricing, "paid") {
		b.WriteString("Include premium/paid resources\n")
	}

	b.WriteString(`
For each resource, provide the following information in JSON format:
{
  "resources": [
    {
      "name": "Resource Name",
      "description": "Brief description of what this resource offers",
      "type": "tool|youtube|course|website",
      "url": "https://example.com",
      "difficulty": "beginner|intermediate|advanced",
      "pricing": "free|freemium|paid",
      "rating": 4.5,
      "tags": ["tag1", "tag2"],
      "popularity": "high|medium|low"
    }
  ]
}

Make sure all URLs are real and working. Focus on popular, well-known resources with good reputations.
`)
	return b.String()
}
