package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Search.FreeLimit != 5 {
		t.Errorf("FreeLimit = %d, want 5", cfg.Search.FreeLimit)
	}
	if cfg.Search.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.Search.CacheTTL())
	}
	if cfg.HasOpenAI() {
		t.Error("HasOpenAI() = true with no key set")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FREE_SEARCH_LIMIT", "10")
	t.Setenv("CACHE_TTL", "7200")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Search.FreeLimit != 10 {
		t.Errorf("FreeLimit = %d, want 10", cfg.Search.FreeLimit)
	}
	if cfg.Search.CacheTTL() != 2*time.Hour {
		t.Errorf("CacheTTL = %v, want 2h", cfg.Search.CacheTTL())
	}
	if !cfg.HasOpenAI() {
		t.Error("HasOpenAI() = false with key set")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("FREE_SEARCH_LIMIT", "-1")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted a negative free limit")
	}
}

func TestCacheTTLIsBareSeconds(t *testing.T) {
	t.Setenv("CACHE_TTL", "3600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() rejected CACHE_TTL in seconds: %v", err)
	}
	if cfg.Search.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.Search.CacheTTL())
	}

	t.Setenv("CACHE_TTL", "0")
	if _, err := Load(); err == nil {
		t.Error("Load() accepted a zero cache TTL")
	}
}
