package news

import (
	"context"
	"sync"
	"time"

	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

// Service provides news sentiment analysis with caching
type Service struct {
	client   *Client
	scraper  *Scraper
	analyzer *SentimentAnalyzer
	cache    *sentimentCache
	cfg      *ServiceConfig
}

// ServiceConfig configures the news sentiment service
type ServiceConfig struct {
	APIKey         string        // NewsAPI key; empty falls back to scraping
	MaxArticles    int           // Maximum articles per ticker
	CacheDuration  time.Duration // How long to cache sentiment data
	ScraperTimeout time.Duration // Timeout for scraping operations
	Enabled        bool          // Whether sentiment analysis is enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:    10,
		CacheDuration:  15 * time.Minute,
		ScraperTimeout: 20 * time.Second,
		Enabled:        true,
	}
}

// sentimentCache stores sentiment results temporarily
type sentimentCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	summary   types.SentimentSummary
	articles  []types.NewsArticle
	timestamp time.Time
}

// newSentimentCache creates a new cache
func newSentimentCache(ttl time.Duration) *sentimentCache {
	cache := &sentimentCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

// get retrieves cached sentiment if valid
func (c *sentimentCache) get(ticker string) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[ticker]
	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}

	return entry, true
}

// set stores sentiment in cache
func (c *sentimentCache) set(ticker string, summary types.SentimentSummary, articles []types.NewsArticle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[ticker] = &cacheEntry{
		summary:   summary,
		articles:  articles,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *sentimentCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup removes expired entries
func (c *sentimentCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for ticker, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, ticker)
		}
	}
}

// NewService creates a new news sentiment service
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}

	return &Service{
		client:   NewClient(cfg.APIKey),
		scraper:  NewScraper(cfg.ScraperTimeout),
		analyzer: NewSentimentAnalyzer(),
		cache:    newSentimentCache(cfg.CacheDuration),
		cfg:      cfg,
	}
}

// GetSentiment returns the sentiment summary and annotated articles
// for a ticker, served from cache when fresh.
func (s *Service) GetSentiment(ctx context.Context, ticker string) (types.SentimentSummary, []types.NewsArticle, error) {
	if !s.cfg.Enabled {
		return types.SentimentSummary{Label: "neutral"}, nil, nil
	}

	if entry, ok := s.cache.get(ticker); ok {
		logger.Debug(ctx, "Using cached sentiment", "ticker", ticker,
			"age_minutes", time.Since(entry.timestamp).Minutes())
		return entry.summary, entry.articles, nil
	}

	summary, articles := s.fetchFreshSentiment(ctx, ticker)
	s.cache.set(ticker, summary, articles)
	return summary, articles, nil
}

// fetchFreshSentiment collects articles and analyzes them. Collection
// failures degrade to an empty neutral summary rather than an error;
// a missing news feed must not sink the whole analysis.
func (s *Service) fetchFreshSentiment(ctx context.Context, ticker string) (types.SentimentSummary, []types.NewsArticle) {
	articles, err := s.client.Fetch(ctx, ticker, s.cfg.MaxArticles)
	if err != nil {
		if err != ErrNoAPIKey {
			logger.ErrorWithErr(ctx, "News API fetch failed", err, "ticker", ticker)
		}
		articles, err = s.scraper.ScrapeGoogleNews(ctx, ticker, s.cfg.MaxArticles)
		if err != nil {
			logger.ErrorWithErr(ctx, "Google News fallback failed", err, "ticker", ticker)
			articles = nil
		}
	}
	if len(articles) == 0 {
		// Last resort: canned headlines keep the pipeline usable offline.
		logger.Debug(ctx, "Using sample articles", "ticker", ticker)
		articles = SampleArticles(ticker)
	}

	s.analyzer.AnnotateArticles(articles)
	return Aggregate(articles), articles
}

// marketCacheKey is reserved; real tickers are plain symbols.
const marketCacheKey = "_market"

// MarketSentiment aggregates sentiment over broad business headlines
// rather than a single ticker's coverage.
func (s *Service) MarketSentiment(ctx context.Context) (types.SentimentSummary, []types.NewsArticle, error) {
	if !s.cfg.Enabled {
		return types.SentimentSummary{Label: "neutral"}, nil, nil
	}

	if entry, ok := s.cache.get(marketCacheKey); ok {
		return entry.summary, entry.articles, nil
	}

	articles, err := s.client.MarketNews(ctx, s.cfg.MaxArticles)
	if err != nil {
		if err != ErrNoAPIKey {
			logger.ErrorWithErr(ctx, "Market news fetch failed", err)
		}
		articles = nil
	}
	if len(articles) == 0 {
		articles = SampleMarketArticles()
	}

	s.analyzer.AnnotateArticles(articles)
	summary := Aggregate(articles)
	s.cache.set(marketCacheKey, summary, articles)
	return summary, articles, nil
}

// RefreshSentiment forces a refresh of sentiment data (bypasses cache)
func (s *Service) RefreshSentiment(ctx context.Context, ticker string) (types.SentimentSummary, []types.NewsArticle) {
	summary, articles := s.fetchFreshSentiment(ctx, ticker)
	s.cache.set(ticker, summary, articles)
	return summary, articles
}

// ClearCache removes all cached sentiment data
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

// CachedTickers returns the tickers with cached sentiment
func (s *Service) CachedTickers() []string {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	tickers := make([]string, 0, len(s.cache.data))
	for ticker := range s.cache.data {
		tickers = append(tickers, ticker)
	}
	return tickers
}
