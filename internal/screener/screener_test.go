package screener

import (
	"context"
	"sync"
	"testing"

	"stock-advisor/internal/types"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	results map[string]types.CompositeResult
	calls   int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, ticker string) types.CompositeResult {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if r, ok := f.results[ticker]; ok {
		return r
	}
	return types.CompositeResult{Ticker: ticker, Recommendation: types.Skip, Err: "unknown"}
}

func result(ticker string, score float64, rec string) types.CompositeResult {
	return types.CompositeResult{
		Ticker:         ticker,
		OverallScore:   score,
		Recommendation: rec,
		MarketCap:      5e9,
		FundamentalMetrics: types.FundamentalProfile{
			PERatio: types.Float(25),
			ROE:     types.Float(0.20),
		},
	}
}

func TestScreenFiltersAndRanks(t *testing.T) {
	fa := &fakeAnalyzer{results: map[string]types.CompositeResult{
		"LOW":  result("LOW", 35, types.Sell),
		"MID":  result("MID", 55, types.Hold),
		"HIGH": result("HIGH", 72, types.Buy),
	}}
	s := New(fa, 0)

	out := s.Screen(context.Background(), []string{"LOW", "MID", "HIGH"}, types.ScreenerCriteria{
		MinScore: 50,
	})

	if out.Evaluated != 3 {
		t.Errorf("evaluated = %d, want 3", out.Evaluated)
	}
	if len(out.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(out.Matches))
	}
	if out.Matches[0].Ticker != "HIGH" || out.Matches[1].Ticker != "MID" {
		t.Errorf("expected descending score order, got %s then %s",
			out.Matches[0].Ticker, out.Matches[1].Ticker)
	}
}

func TestScreenExcludesFailuresButCountsThem(t *testing.T) {
	fa := &fakeAnalyzer{results: map[string]types.CompositeResult{
		"GOOD": result("GOOD", 65, types.Buy),
	}}
	s := New(fa, 4)

	out := s.Screen(context.Background(), []string{"GOOD", "BROKEN"}, types.ScreenerCriteria{})

	if out.Evaluated != 2 {
		t.Errorf("evaluated = %d, want 2 (failures still count)", out.Evaluated)
	}
	if len(out.Matches) != 1 || out.Matches[0].Ticker != "GOOD" {
		t.Errorf("matches = %+v", out.Matches)
	}
}

func TestScreenTruncatesToMaxResults(t *testing.T) {
	results := map[string]types.CompositeResult{}
	tickers := []string{"A", "B", "C", "D", "E"}
	for i, sym := range tickers {
		results[sym] = result(sym, float64(50+i*5), types.Hold)
	}
	s := New(&fakeAnalyzer{results: results}, 4)

	out := s.Screen(context.Background(), tickers, types.ScreenerCriteria{MaxResults: 2})

	if len(out.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(out.Matches))
	}
	if out.Matches[0].Ticker != "E" || out.Matches[1].Ticker != "D" {
		t.Errorf("expected top two scores, got %s, %s",
			out.Matches[0].Ticker, out.Matches[1].Ticker)
	}
	if out.Evaluated != 5 {
		t.Errorf("evaluated = %d, want 5", out.Evaluated)
	}
}

func TestScreenCancelledContextStopsScheduling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fa := &fakeAnalyzer{results: map[string]types.CompositeResult{}}
	s := New(fa, 4)

	// Returning at all proves the pool shut down cleanly.
	out := s.Screen(ctx, []string{"A", "B", "C"}, types.ScreenerCriteria{})

	if out.Evaluated > 3 {
		t.Errorf("evaluated = %d, more tickers than submitted", out.Evaluated)
	}
	if len(out.Matches) > out.Evaluated {
		t.Error("matches cannot exceed evaluated count")
	}
}

func TestNewClampsWorkers(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 6},
		{1, 4},
		{5, 5},
		{20, 8},
	}
	for _, tt := range tests {
		if got := New(&fakeAnalyzer{}, tt.in).workers; got != tt.want {
			t.Errorf("New(workers=%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMatchesCriteria(t *testing.T) {
	r := result("AAPL", 72, types.Buy)
	r.Exchange = "NASDAQ"

	tests := []struct {
		name     string
		criteria types.ScreenerCriteria
		want     bool
	}{
		{"empty criteria", types.ScreenerCriteria{}, true},
		{"min score pass", types.ScreenerCriteria{MinScore: 70}, true},
		{"min score fail", types.ScreenerCriteria{MinScore: 80}, false},
		{"max score fail", types.ScreenerCriteria{MaxScore: 70}, false},
		{"market cap pass", types.ScreenerCriteria{MinMarketCap: 1e9}, true},
		{"market cap fail", types.ScreenerCriteria{MinMarketCap: 1e10}, false},
		{"recommendation pass", types.ScreenerCriteria{Recommendation: types.Buy}, true},
		{"recommendation fail", types.ScreenerCriteria{Recommendation: types.StrongBuy}, false},
		{"exchange pass", types.ScreenerCriteria{Exchange: "NASDAQ"}, true},
		{"exchange fail", types.ScreenerCriteria{Exchange: "NYSE"}, false},
		{"max pe pass", types.ScreenerCriteria{MaxPE: types.Float(30)}, true},
		{"max pe fail", types.ScreenerCriteria{MaxPE: types.Float(20)}, false},
		{"min roe pass", types.ScreenerCriteria{MinROE: types.Float(0.15)}, true},
		{"min roe fail", types.ScreenerCriteria{MinROE: types.Float(0.25)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(r, tt.criteria); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesMissingFundamentalsFailClosed(t *testing.T) {
	r := result("X", 60, types.Hold)
	r.FundamentalMetrics.PERatio = nil
	r.FundamentalMetrics.ROE = nil

	if Matches(r, types.ScreenerCriteria{MaxPE: types.Float(30)}) {
		t.Error("missing PE must fail a PE-bound screen")
	}
	if Matches(r, types.ScreenerCriteria{MinROE: types.Float(0.10)}) {
		t.Error("missing ROE must fail an ROE-bound screen")
	}
}
