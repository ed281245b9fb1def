package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.openai.com"

// ErrMalformedResponse indicates the upstream answered but the body did not
// contain a usable resource list.
var ErrMalformedResponse = errors.New("malformed recommender response")

// Client calls an OpenAI-compatible chat-completions API to generate
// resource recommendations. It makes no availability promises; callers are
// expected to fall back on error.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	apiKey  string
	model   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("apiKey required")
	}
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: u,
		apiKey:  apiKey,
		model:   "gpt-3.5-turbo",
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Recommend asks the model for candidates matching query and filters. The
// returned list is raw and must go through Rank before serving.
func (c *Client) Recommend(ctx context.Context, query string, filters Filters) ([]Candidate, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(query, filters)},
		},
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommender request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read recommender response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("recommender status %d: %s", resp.StatusCode, string(raw))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chat.Choices) == 0 {
		return nil, ErrMalformedResponse
	}

	return ParseCandidates(chat.Choices[0].Message.Content)
}

// ParseCandidates extracts the resource list from model output. Models wrap
// JSON in prose more often than not, so it takes the outermost brace pair.
func ParseCandidates(content string) ([]Candidate, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrMalformedResponse
	}

	var payload struct {
		Resources []Candidate `json:"resources"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.Resources, nil
}
