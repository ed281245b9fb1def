// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DatabaseURL string `env:"DATABASE_URL"`
	AuthSecret  string `env:"AUTH_SECRET" envDefault:"dev-secret-change-me"`

	OpenAI OpenAIConfig
	Search SearchConfig
}

// OpenAIConfig holds recommender configuration. An empty APIKey is valid:
// searches are then served from the built-in fallback catalogue.
type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
}

// SearchConfig holds quota and cache tuning. CACHE_TTL is whole seconds.
type SearchConfig struct {
	FreeLimit    int           `env:"FREE_SEARCH_LIMIT" envDefault:"5"`
	CacheTTLSec  int           `env:"CACHE_TTL" envDefault:"3600"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"2s"`
}

// CacheTTL returns the result cache expiry as a duration.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSec) * time.Second
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is internally consistent
func (c *Config) Validate() error {
	if c.Search.FreeLimit < 0 {
		return fmt.Errorf("FREE_SEARCH_LIMIT must be >= 0, got %d", c.Search.FreeLimit)
	}
	if c.Search.CacheTTLSec <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %d", c.Search.CacheTTLSec)
	}
	return nil
}

// HasOpenAI returns true if the AI recommender is configured
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}
