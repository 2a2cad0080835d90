// Package universe maintains the cached set of screenable stocks.
package universe

import (
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/robfig/cron/v3"

	"stock-advisor/internal/logger"
)

// Stock is one universe entry, loadable from CSV.
type Stock struct {
	Ticker   string `csv:"ticker" json:"ticker"`
	Name     string `csv:"name" json:"name"`
	Exchange string `csv:"exchange" json:"exchange"`
	Sector   string `csv:"sector" json:"sector"`
}

// Cache holds an atomically swapped snapshot of the universe with a
// TTL. Readers never block on a refresh.
type Cache struct {
	csvPath  string
	ttl      time.Duration
	now      func() time.Time
	snapshot atomic.Value // *snapshotData
	mu       sync.Mutex   // serializes refreshes
	cron     *cron.Cron
}

type snapshotData struct {
	stocks   []Stock
	loadedAt time.Time
}

// NewCache creates a universe cache. csvPath may be empty; the
// built-in list is then used. A nil clock defaults to time.Now.
func NewCache(csvPath string, ttl time.Duration, clock func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		csvPath: csvPath,
		ttl:     ttl,
		now:     clock,
	}
}

// Stocks returns the current universe, refreshing first if the
// snapshot is missing or older than the TTL.
func (c *Cache) Stocks(ctx context.Context) []Stock {
	if snap := c.current(); snap != nil && c.now().Sub(snap.loadedAt) < c.ttl {
		return snap.stocks
	}
	c.Refresh(ctx)
	if snap := c.current(); snap != nil {
		return snap.stocks
	}
	return nil
}

// Tickers returns just the ticker symbols of the current universe.
func (c *Cache) Tickers(ctx context.Context) []string {
	stocks := c.Stocks(ctx)
	out := make([]string, len(stocks))
	for i, s := range stocks {
		out[i] = s.Ticker
	}
	return out
}

// Refresh reloads the universe immediately. On a load failure the
// previous snapshot stays in place; with no snapshot at all the
// built-in list is installed.
func (c *Cache) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stocks, err := c.load()
	if err != nil {
		logger.ErrorWithErr(ctx, "Universe load failed", err, "path", c.csvPath)
		if c.current() != nil {
			return
		}
		stocks = defaultUniverse()
	}

	c.snapshot.Store(&snapshotData{stocks: stocks, loadedAt: c.now()})
	logger.Info(ctx, "Universe refreshed", "stocks", len(stocks))
}

// StartScheduledRefresh installs a cron-driven refresh ("@daily" is
// the usual spec). The returned stop function halts the scheduler.
func (c *Cache) StartScheduledRefresh(ctx context.Context, spec string) (func(), error) {
	c.cron = cron.New()
	_, err := c.cron.AddFunc(spec, func() {
		c.Refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.cron.Start()
	return func() { c.cron.Stop() }, nil
}

// Search returns stocks whose ticker or name contains the query,
// case-insensitive.
func (c *Cache) Search(ctx context.Context, query string) []Stock {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []Stock
	for _, s := range c.Stocks(ctx) {
		if strings.Contains(strings.ToUpper(s.Ticker), query) ||
			strings.Contains(strings.ToUpper(s.Name), query) {
			matches = append(matches, s)
		}
	}
	return matches
}

// ByExchange filters the universe to one exchange, case-insensitive.
func (c *Cache) ByExchange(ctx context.Context, exchange string) []Stock {
	exchange = strings.ToUpper(strings.TrimSpace(exchange))
	var matches []Stock
	for _, s := range c.Stocks(ctx) {
		if strings.ToUpper(s.Exchange) == exchange {
			matches = append(matches, s)
		}
	}
	return matches
}

func (c *Cache) current() *snapshotData {
	snap, _ := c.snapshot.Load().(*snapshotData)
	return snap
}

func (c *Cache) load() ([]Stock, error) {
	if c.csvPath == "" {
		return defaultUniverse(), nil
	}

	f, err := os.Open(c.csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var stocks []Stock
	if err := gocsv.UnmarshalFile(f, &stocks); err != nil {
		return nil, err
	}

	cleaned := stocks[:0]
	for _, s := range stocks {
		s.Ticker = strings.ToUpper(strings.TrimSpace(s.Ticker))
		if s.Ticker != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned, nil
}

// defaultUniverse is the built-in fallback of widely traded US names.
func defaultUniverse() []Stock {
	return []Stock{
		{"AAPL", "Apple Inc.", "NASDAQ", "Technology"},
		{"MSFT", "Microsoft Corporation", "NASDAQ", "Technology"},
		{"GOOGL", "Alphabet Inc.", "NASDAQ", "Communication Services"},
		{"AMZN", "Amazon.com Inc.", "NASDAQ", "Consumer Cyclical"},
		{"NVDA", "NVIDIA Corporation", "NASDAQ", "Technology"},
		{"META", "Meta Platforms Inc.", "NASDAQ", "Communication Services"},
		{"TSLA", "Tesla Inc.", "NASDAQ", "Consumer Cyclical"},
		{"BRK-B", "Berkshire Hathaway Inc.", "NYSE", "Financial Services"},
		{"JPM", "JPMorgan Chase & Co.", "NYSE", "Financial Services"},
		{"V", "Visa Inc.", "NYSE", "Financial Services"},
		{"JNJ", "Johnson & Johnson", "NYSE", "Healthcare"},
		{"WMT", "Walmart Inc.", "NYSE", "Consumer Defensive"},
		{"PG", "Procter & Gamble Co.", "NYSE", "Consumer Defensive"},
		{"UNH", "UnitedHealth Group Inc.", "NYSE", "Healthcare"},
		{"HD", "Home Depot Inc.", "NYSE", "Consumer Cyclical"},
		{"MA", "Mastercard Inc.", "NYSE", "Financial Services"},
		{"DIS", "Walt Disney Co.", "NYSE", "Communication Services"},
		{"BAC", "Bank of America Corp.", "NYSE", "Financial Services"},
		{"XOM", "Exxon Mobil Corporation", "NYSE", "Energy"},
		{"PFE", "Pfizer Inc.", "NYSE", "Healthcare"},
		{"KO", "Coca-Cola Co.", "NYSE", "Consumer Defensive"},
		{"PEP", "PepsiCo Inc.", "NASDAQ", "Consumer Defensive"},
		{"CSCO", "Cisco Systems Inc.", "NASDAQ", "Technology"},
		{"ADBE", "Adobe Inc.", "NASDAQ", "Technology"},
		{"NFLX", "Netflix Inc.", "NASDAQ", "Communication Services"},
		{"INTC", "Intel Corporation", "NASDAQ", "Technology"},
		{"AMD", "Advanced Micro Devices", "NASDAQ", "Technology"},
		{"CRM", "Salesforce Inc.", "NYSE", "Technology"},
		{"ORCL", "Oracle Corporation", "NYSE", "Technology"},
		{"NKE", "Nike Inc.", "NYSE", "Consumer Cyclical"},
	}
}
