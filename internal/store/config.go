package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings
// like "500ms" or "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Weights struct {
		Fundamental float64 `yaml:"fundamental"`
		Technical   float64 `yaml:"technical"`
		Sentiment   float64 `yaml:"sentiment"`
		Growth      float64 `yaml:"growth"`
	} `yaml:"weights"`
	Thresholds struct {
		RSIOversold   float64 `yaml:"rsi_oversold"`
		RSIOverbought float64 `yaml:"rsi_overbought"`
		MAShort       int     `yaml:"ma_short"`
		MALong        int     `yaml:"ma_long"`
		MinMarketCap  float64 `yaml:"min_market_cap"`
		MaxPERatio    float64 `yaml:"max_pe_ratio"`
		MinROE        float64 `yaml:"min_roe"`
	} `yaml:"thresholds"`
	MarketData struct {
		HistoryDays       int     `yaml:"history_days"`
		MinCandles        int     `yaml:"min_candles"`
		RequestsPerMinute float64 `yaml:"requests_per_minute"`
		Burst             int     `yaml:"burst"`
	} `yaml:"market_data"`
	Retry struct {
		Attempts  int      `yaml:"attempts"`
		BaseDelay Duration `yaml:"base_delay"`
		MaxDelay  Duration `yaml:"max_delay"`
		Jitter    bool     `yaml:"jitter"`
	} `yaml:"retry"`
	News struct {
		APIKeyEnv    string   `yaml:"api_key_env"`
		MaxArticles  int      `yaml:"max_articles"`
		CacheTTL     Duration `yaml:"cache_ttl"`
		ScrapeBudget Duration `yaml:"scrape_budget"`
	} `yaml:"news"`
	Screener struct {
		Workers    int `yaml:"workers"`
		MaxResults int `yaml:"max_results"`
	} `yaml:"screener"`
	Universe struct {
		CSVPath     string   `yaml:"csv_path"`
		CacheTTL    Duration `yaml:"cache_ttl"`
		RefreshCron string   `yaml:"refresh_cron"`
	} `yaml:"universe"`
	Narrative struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"narrative"`
}

func (c *Config) Validate() error {
	for name, w := range map[string]float64{
		"fundamental": c.Weights.Fundamental,
		"technical":   c.Weights.Technical,
		"sentiment":   c.Weights.Sentiment,
		"growth":      c.Weights.Growth,
	} {
		if w < 0 {
			return fmt.Errorf("weights.%s must be non-negative, got %.2f", name, w)
		}
		if w > 1 {
			return fmt.Errorf("weights.%s must be at most 1.0, got %.2f", name, w)
		}
	}
	if c.Thresholds.RSIOversold >= c.Thresholds.RSIOverbought {
		return fmt.Errorf("thresholds.rsi_oversold (%.1f) must be below rsi_overbought (%.1f)",
			c.Thresholds.RSIOversold, c.Thresholds.RSIOverbought)
	}
	if c.Thresholds.MAShort >= c.Thresholds.MALong {
		return fmt.Errorf("thresholds.ma_short (%d) must be below ma_long (%d)",
			c.Thresholds.MAShort, c.Thresholds.MALong)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	if c.Screener.Workers < 4 || c.Screener.Workers > 8 {
		return fmt.Errorf("screener.workers must be between 4-8, got %d", c.Screener.Workers)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Weights.Fundamental == 0 && c.Weights.Technical == 0 &&
		c.Weights.Sentiment == 0 && c.Weights.Growth == 0 {
		c.Weights.Fundamental = 0.4
		c.Weights.Technical = 0.3
		c.Weights.Sentiment = 0.2
		c.Weights.Growth = 0.1
	}
	if c.Thresholds.RSIOversold == 0 {
		c.Thresholds.RSIOversold = 30
	}
	if c.Thresholds.RSIOverbought == 0 {
		c.Thresholds.RSIOverbought = 70
	}
	if c.Thresholds.MAShort == 0 {
		c.Thresholds.MAShort = 20
	}
	if c.Thresholds.MALong == 0 {
		c.Thresholds.MALong = 50
	}
	if c.Thresholds.MinMarketCap == 0 {
		c.Thresholds.MinMarketCap = 1e9
	}
	if c.Thresholds.MaxPERatio == 0 {
		c.Thresholds.MaxPERatio = 50
	}
	if c.Thresholds.MinROE == 0 {
		c.Thresholds.MinROE = 0.10
	}
	if c.MarketData.HistoryDays == 0 {
		c.MarketData.HistoryDays = 365
	}
	if c.MarketData.MinCandles == 0 {
		c.MarketData.MinCandles = 60
	}
	if c.MarketData.RequestsPerMinute == 0 {
		c.MarketData.RequestsPerMinute = 120
	}
	if c.MarketData.Burst == 0 {
		c.MarketData.Burst = 10
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = Duration(500 * time.Millisecond)
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = Duration(10 * time.Second)
	}
	if c.News.APIKeyEnv == "" {
		c.News.APIKeyEnv = "NEWS_API_KEY"
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 10
	}
	if c.News.CacheTTL == 0 {
		c.News.CacheTTL = Duration(15 * time.Minute)
	}
	if c.News.ScrapeBudget == 0 {
		c.News.ScrapeBudget = Duration(20 * time.Second)
	}
	if c.Screener.Workers == 0 {
		c.Screener.Workers = 6
	}
	if c.Screener.MaxResults == 0 {
		c.Screener.MaxResults = 20
	}
	if c.Universe.CacheTTL == 0 {
		c.Universe.CacheTTL = Duration(24 * time.Hour)
	}
	if c.Narrative.Provider == "" {
		c.Narrative.Provider = "template"
	}
	if c.Narrative.MaxTokens == 0 {
		c.Narrative.MaxTokens = 512
	}
}
