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
	"stock-advisor/internal/journal"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/marketdata"
	"stock-advisor/internal/narrative"
	"stock-advisor/internal/news"
	"stock-advisor/internal/store"
	"stock-advisor/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		autonomous = flag.Bool("autonomous", false, "emit the full recommendation bundle")
		offline    = flag.Bool("offline", false, "use deterministic sample data instead of live quotes")
		tolerance  = flag.String("risk", types.RiskModerate, "risk tolerance: conservative, moderate or aggressive")
		amount     = flag.Float64("amount", 10000, "investment amount in dollars")
		keep       = flag.Bool("journal", false, "append results to the daily journal under ADVISOR_LOG_DIR")
		market     = flag.Bool("market", false, "print the market-wide sentiment overview")
	)
	flag.Parse()

	if flag.NArg() == 0 && !*market {
		log.Fatal("usage: advisor [flags] TICKER [TICKER...]")
	}

	must(logger.Init())
	defer logger.Shutdown(context.Background())

	cfg, err := loadConfig(*configPath)
	must(err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	newsSvc := buildNews(cfg)
	eng := buildEngine(cfg, *offline, newsSvc)

	if *market {
		summary, articles, err := newsSvc.MarketSentiment(ctx)
		must(err)
		printJSON(map[string]any{"market_sentiment": summary, "articles": articles})
	}

	profile := types.UserProfile{
		RiskTolerance:    strings.ToLower(*tolerance),
		InvestmentAmount: *amount,
	}

	if *keep {
		if err := journal.CompressOlder(30); err != nil {
			log.Printf("journal retention: %v", err)
		}
	}

	for _, ticker := range flag.Args() {
		ticker = strings.ToUpper(ticker)
		if *autonomous {
			result, bundle := eng.Recommend(ctx, ticker, profile)
			printJSON(map[string]any{"analysis": result, "recommendation": bundle})
			journalResult(*keep, result, bundle)
		} else {
			result := eng.Analyze(ctx, ticker)
			printJSON(result)
			journalResult(*keep, result, nil)
		}
	}
}

func journalResult(enabled bool, r types.CompositeResult, bundle *types.RecommendationBundle) {
	if !enabled || r.Skipped() {
		return
	}
	e := journal.Entry{
		Ticker:           r.Ticker,
		Recommendation:   r.Recommendation,
		OverallScore:     r.OverallScore,
		FundamentalScore: r.FundamentalScore,
		TechnicalScore:   r.TechnicalScore,
		Price:            r.CurrentPrice,
		Reasons:          append(r.FundamentalReasons, r.TechnicalReasons...),
	}
	if bundle != nil {
		e.Confidence = bundle.ConfidenceScore
	}
	if err := journal.Append(e); err != nil {
		log.Printf("journal append: %v", err)
	}
}

func loadConfig(path string) (*store.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return store.DefaultConfig(), nil
	}
	return store.LoadConfig(path)
}

func buildNews(cfg *store.Config) *news.Service {
	return news.NewService(&news.ServiceConfig{
		APIKey:         os.Getenv(cfg.News.APIKeyEnv),
		MaxArticles:    cfg.News.MaxArticles,
		CacheDuration:  cfg.News.CacheTTL.Std(),
		ScraperTimeout: cfg.News.ScrapeBudget.Std(),
		Enabled:        true,
	})
}

func buildEngine(cfg *store.Config, offline bool, newsSvc *news.Service) *advisor.Engine {
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

	chain := narrative.NewChainForProvider(
		cfg.Narrative.Provider,
		cfg.Narrative.Model,
		cfg.Narrative.MaxTokens,
		cfg.Narrative.Temperature,
	)

	return advisor.NewEngine(cfg, provider, newsSvc, chain)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	fmt.Println(string(b))
}
