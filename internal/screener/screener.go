// Package screener evaluates a universe of tickers concurrently and
// filters the results against user criteria.
package screener

import (
	"context"
	"sort"
	"sync"

	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

// Analyzer produces a composite result for one ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) types.CompositeResult
}

const (
	minWorkers     = 4
	maxWorkers     = 8
	defaultWorkers = 6
)

// Screener fans analysis out over a bounded worker pool.
type Screener struct {
	analyzer Analyzer
	workers  int
}

// New creates a screener. The worker count is clamped to the 4-8
// band; zero means the default of 6.
func New(analyzer Analyzer, workers int) *Screener {
	switch {
	case workers == 0:
		workers = defaultWorkers
	case workers < minWorkers:
		workers = minWorkers
	case workers > maxWorkers:
		workers = maxWorkers
	}
	return &Screener{analyzer: analyzer, workers: workers}
}

// Screen analyzes every ticker, keeps those passing the criteria,
// sorts by score descending and truncates to MaxResults. Tickers
// whose analysis was skipped are excluded but still counted as
// evaluated. Cancelling ctx stops scheduling new work; results
// accumulated so far are still returned.
func (s *Screener) Screen(ctx context.Context, tickers []string, criteria types.ScreenerCriteria) types.ScreenResult {
	timer := logger.StartOperation(ctx, "screen", "tickers", len(tickers), "workers", s.workers)
	ctx = timer.GetContext()

	jobs := make(chan string)
	resultsCh := make(chan types.CompositeResult)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				resultsCh <- s.analyzer.Analyze(ctx, ticker)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, ticker := range tickers {
			select {
			case <-ctx.Done():
				return
			case jobs <- ticker:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	evaluated := 0
	var matches []types.CompositeResult
	for result := range resultsCh {
		evaluated++
		if result.Skipped() {
			logger.DataIssue(ctx, result.Ticker, "screen_skip", "error", result.Err)
			continue
		}
		if Matches(result, criteria) {
			matches = append(matches, result)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].OverallScore > matches[j].OverallScore
	})
	if criteria.MaxResults > 0 && len(matches) > criteria.MaxResults {
		matches = matches[:criteria.MaxResults]
	}

	logger.Screen(ctx, evaluated, len(matches))
	timer.End("evaluated", evaluated, "matched", len(matches))
	return types.ScreenResult{Matches: matches, Evaluated: evaluated}
}

// Matches reports whether a result passes every bound in the
// criteria. Zero-valued or nil bounds are unconstrained, except
// MaxScore where 0 means "no upper bound".
func Matches(r types.CompositeResult, c types.ScreenerCriteria) bool {
	if r.OverallScore < c.MinScore {
		return false
	}
	if c.MaxScore > 0 && r.OverallScore > c.MaxScore {
		return false
	}
	if c.MinMarketCap > 0 && r.MarketCap < c.MinMarketCap {
		return false
	}
	if c.Recommendation != "" && r.Recommendation != c.Recommendation {
		return false
	}
	if c.Exchange != "" && r.Exchange != c.Exchange {
		return false
	}
	if c.MaxPE != nil {
		pe := r.FundamentalMetrics.PERatio
		if pe == nil || *pe <= 0 || *pe > *c.MaxPE {
			return false
		}
	}
	if c.MinROE != nil {
		roe := r.FundamentalMetrics.ROE
		if roe == nil || *roe < *c.MinROE {
			return false
		}
	}
	return true
}
