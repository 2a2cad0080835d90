package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	if c.Weights.Fundamental != 0.4 || c.Weights.Technical != 0.3 {
		t.Errorf("unexpected default weights: %+v", c.Weights)
	}
	if c.Thresholds.MinMarketCap != 1e9 {
		t.Errorf("min_market_cap = %v, want 1e9", c.Thresholds.MinMarketCap)
	}
	if c.Retry.BaseDelay.Std() != 500*time.Millisecond {
		t.Errorf("base_delay = %v, want 500ms", c.Retry.BaseDelay.Std())
	}
	if c.Screener.Workers != 6 {
		t.Errorf("workers = %d, want 6", c.Screener.Workers)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadConfigParsesDurations(t *testing.T) {
	path := writeConfig(t, `
retry:
  attempts: 5
  base_delay: 250ms
  max_delay: 30s
news:
  cache_ttl: 1h
universe:
  cache_ttl: 12h
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if c.Retry.Attempts != 5 {
		t.Errorf("attempts = %d, want 5", c.Retry.Attempts)
	}
	if c.Retry.BaseDelay.Std() != 250*time.Millisecond {
		t.Errorf("base_delay = %v", c.Retry.BaseDelay.Std())
	}
	if c.Retry.MaxDelay.Std() != 30*time.Second {
		t.Errorf("max_delay = %v", c.Retry.MaxDelay.Std())
	}
	if c.News.CacheTTL.Std() != time.Hour {
		t.Errorf("news cache_ttl = %v", c.News.CacheTTL.Std())
	}
	if c.Universe.CacheTTL.Std() != 12*time.Hour {
		t.Errorf("universe cache_ttl = %v", c.Universe.CacheTTL.Std())
	}
	// Sections not present in the file still get defaults.
	if c.Weights.Fundamental != 0.4 {
		t.Errorf("weights not defaulted: %+v", c.Weights)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "retry:\n  base_delay: soon\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Weights.Sentiment = -0.1 }},
		{"weight above one", func(c *Config) { c.Weights.Growth = 1.5 }},
		{"rsi band inverted", func(c *Config) { c.Thresholds.RSIOversold = 80 }},
		{"ma ordering", func(c *Config) { c.Thresholds.MAShort = 60 }},
		{"zero retry attempts", func(c *Config) { c.Retry.Attempts = -1 }},
		{"too few workers", func(c *Config) { c.Screener.Workers = 2 }},
		{"too many workers", func(c *Config) { c.Screener.Workers = 12 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
