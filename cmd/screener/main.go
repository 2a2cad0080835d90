package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stock-advisor/internal/advisor"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/marketdata"
	"stock-advisor/internal/narrative"
	"stock-advisor/internal/news"
	"stock-advisor/internal/screener"
	"stock-advisor/internal/store"
	"stock-advisor/internal/types"
	"stock-advisor/internal/universe"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		configPath     = flag.String("config", "config.yaml", "path to config file")
		offline        = flag.Bool("offline", false, "use deterministic sample data instead of live quotes")
		minScore       = flag.Float64("min-score", 0, "minimum composite score")
		maxScore       = flag.Float64("max-score", 0, "maximum composite score (0 = unbounded)")
		minMarketCap   = flag.Float64("min-market-cap", 0, "minimum market cap in dollars")
		recommendation = flag.String("recommendation", "", "exact recommendation bucket to match")
		exchange       = flag.String("exchange", "", "listing exchange to match")
		maxResults     = flag.Int("max-results", 0, "cap on returned matches (0 = config default)")
		watch          = flag.Bool("watch", false, "keep running and rescreen on the universe refresh schedule")
	)
	flag.Parse()

	must(logger.Init())
	defer logger.Shutdown(context.Background())

	cfg, err := loadConfig(*configPath)
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uni := universe.NewCache(cfg.Universe.CSVPath, cfg.Universe.CacheTTL.Std(), nil)
	eng := buildEngine(cfg, *offline)
	scr := screener.New(eng, cfg.Screener.Workers)

	criteria := types.ScreenerCriteria{
		MinScore:       *minScore,
		MaxScore:       *maxScore,
		MinMarketCap:   *minMarketCap,
		Recommendation: strings.ToUpper(*recommendation),
		Exchange:       *exchange,
		MaxResults:     *maxResults,
	}
	if criteria.MaxResults == 0 {
		criteria.MaxResults = cfg.Screener.MaxResults
	}

	// Tickers given on the command line override the universe.
	tickers := flag.Args()
	if len(tickers) == 0 {
		tickers = uni.Tickers(ctx)
	}

	runOnce(ctx, scr, tickers, criteria)

	if *watch {
		spec := cfg.Universe.RefreshCron
		if spec == "" {
			spec = "@daily"
		}
		stop, err := uni.StartScheduledRefresh(ctx, spec)
		must(err)
		defer stop()

		tick := time.NewTicker(cfg.Universe.CacheTTL.Std())
		defer tick.Stop()
		for range tick.C {
			runOnce(ctx, scr, uni.Tickers(ctx), criteria)
		}
	}
}

func runOnce(ctx context.Context, scr *screener.Screener, tickers []string, criteria types.ScreenerCriteria) {
	out := scr.Screen(ctx, tickers, criteria)

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	fmt.Println(string(b))
}

func loadConfig(path string) (*store.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return store.DefaultConfig(), nil
	}
	return store.LoadConfig(path)
}

func buildEngine(cfg *store.Config, offline bool) *advisor.Engine {
	var provider marketdata.Provider
	if offline {
		provider = marketdata.NewSampleProvider()
	} else {
		provider = marketdata.NewYahooProvider(
			marketdata.NewRateLimiterPerMinute(cfg.MarketData.RequestsPerMinute, cfg.MarketData.Burst),
			marketdata.RetryPolicy{
				Attempts:  cfg.Retry.Attempts,
				BaseDelay: cfg.Retry.BaseDelay.Std(),
				MaxDelay:  cfg.Retry.MaxDelay.Std(),
				Jitter:    cfg.Retry.Jitter,
			},
		)
	}

	newsSvc := news.NewService(&news.ServiceConfig{
		APIKey:         os.Getenv(cfg.News.APIKeyEnv),
		MaxArticles:    cfg.News.MaxArticles,
		CacheDuration:  cfg.News.CacheTTL.Std(),
		ScraperTimeout: cfg.News.ScrapeBudget.Std(),
		Enabled:        true,
	})

	chain := narrative.NewChainForProvider(
		cfg.Narrative.Provider,
		cfg.Narrative.Model,
		cfg.Narrative.MaxTokens,
		cfg.Narrative.Temperature,
	)

	return advisor.NewEngine(cfg, provider, newsSvc, chain)
}
