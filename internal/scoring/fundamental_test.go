package scoring

import (
	"testing"

	"stock-advisor/internal/types"
)

func strongProfile() types.FundamentalProfile {
	return types.FundamentalProfile{
		Symbol:        "AAPL",
		CurrentPrice:  190,
		MarketCap:     types.Float(3e12),
		PERatio:       types.Float(28),
		ROE:           types.Float(0.45),
		DebtToEquity:  types.Float(0.4),
		RevenueGrowth: types.Float(0.12),
		ProfitMargins: types.Float(0.25),
		Beta:          types.Float(1.1),
	}
}

func TestScoreFundamentalsMaxProfile(t *testing.T) {
	r := ScoreFundamentals(strongProfile(), DefaultThresholds())
	// 15 + 15 + 20 + 15 + 15 + 10 + 5 = 95
	if r.Score != 95 {
		t.Fatalf("expected 95, got %d", r.Score)
	}
	if len(r.Reasons) != 7 {
		t.Fatalf("expected 7 reasons, got %d: %v", len(r.Reasons), r.Reasons)
	}
}

func TestScoreFundamentalsReasonsCarryValues(t *testing.T) {
	profile := types.FundamentalProfile{
		PERatio:       types.Float(28.5),
		ROE:           types.Float(0.45),
		RevenueGrowth: types.Float(0.12),
		ProfitMargins: types.Float(0.25),
	}
	r := ScoreFundamentals(profile, DefaultThresholds())

	want := []string{
		"Reasonable P/E ratio (28.50)",
		"Strong return on equity (45.00%)",
		"Strong revenue growth (12.00%)",
		"Healthy profit margins (25.00%)",
	}
	if len(r.Reasons) != len(want) {
		t.Fatalf("expected %d reasons, got %v", len(want), r.Reasons)
	}
	for i, w := range want {
		if r.Reasons[i] != w {
			t.Errorf("reason[%d] = %q, want %q", i, r.Reasons[i], w)
		}
	}
}

func TestScoreFundamentalsLowerTierReasonsCarryValues(t *testing.T) {
	profile := types.FundamentalProfile{
		PERatio:       types.Float(80),
		ROE:           types.Float(0.05),
		RevenueGrowth: types.Float(0.04),
		ProfitMargins: types.Float(0.08),
	}
	r := ScoreFundamentals(profile, DefaultThresholds())

	want := []string{
		"High P/E ratio (80.00), possibly overvalued",
		"Positive return on equity (5.00%)",
		"Positive revenue growth (4.00%)",
		"Positive profit margins (8.00%)",
	}
	if len(r.Reasons) != len(want) {
		t.Fatalf("expected %d reasons, got %v", len(want), r.Reasons)
	}
	for i, w := range want {
		if r.Reasons[i] != w {
			t.Errorf("reason[%d] = %q, want %q", i, r.Reasons[i], w)
		}
	}
}

func TestScoreFundamentalsEmptyProfile(t *testing.T) {
	r := ScoreFundamentals(types.FundamentalProfile{Symbol: "XXXX"}, DefaultThresholds())
	if r.Score != 0 {
		t.Fatalf("expected 0 for empty profile, got %d", r.Score)
	}
	if len(r.Reasons) != 1 || r.Reasons[0] != "No fundamental data available" {
		t.Fatalf("expected single diagnostic reason, got %v", r.Reasons)
	}
}

func TestScoreFundamentalsMissingFieldsContributeNothing(t *testing.T) {
	full := ScoreFundamentals(strongProfile(), DefaultThresholds())

	partial := strongProfile()
	partial.ROE = nil
	got := ScoreFundamentals(partial, DefaultThresholds())
	if got.Score != full.Score-20 {
		t.Fatalf("dropping ROE should remove exactly 20 points: full=%d partial=%d", full.Score, got.Score)
	}
}

func TestScoreFundamentalsTiers(t *testing.T) {
	tests := []struct {
		name    string
		profile types.FundamentalProfile
		want    int
	}{
		{"mid cap", types.FundamentalProfile{MarketCap: types.Float(600e6)}, 10},
		{"small cap", types.FundamentalProfile{MarketCap: types.Float(100e6)}, 0},
		{"high pe", types.FundamentalProfile{PERatio: types.Float(80)}, 5},
		{"negative pe", types.FundamentalProfile{PERatio: types.Float(-12)}, 0},
		{"modest roe", types.FundamentalProfile{ROE: types.Float(0.05)}, 10},
		{"negative roe", types.FundamentalProfile{ROE: types.Float(-0.02)}, 0},
		{"moderate debt", types.FundamentalProfile{DebtToEquity: types.Float(0.8)}, 10},
		{"heavy debt", types.FundamentalProfile{DebtToEquity: types.Float(2.5)}, 0},
		{"slow growth", types.FundamentalProfile{RevenueGrowth: types.Float(0.04)}, 10},
		{"shrinking revenue", types.FundamentalProfile{RevenueGrowth: types.Float(-0.05)}, 0},
		{"thin margins", types.FundamentalProfile{ProfitMargins: types.Float(0.08)}, 5},
		{"high beta", types.FundamentalProfile{Beta: types.Float(1.8)}, 0},
		{"low beta", types.FundamentalProfile{Beta: types.Float(0.9)}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreFundamentals(tt.profile, DefaultThresholds()); got.Score != tt.want {
				t.Errorf("got %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestScoreFundamentalsBoundaries(t *testing.T) {
	th := DefaultThresholds()

	// Exactly $1B takes the large-cap tier.
	got := ScoreFundamentals(types.FundamentalProfile{MarketCap: types.Float(1e9)}, th)
	if got.Score != 15 {
		t.Errorf("market cap at threshold: got %d, want 15", got.Score)
	}

	// PE exactly at the cap still counts as reasonable.
	got = ScoreFundamentals(types.FundamentalProfile{PERatio: types.Float(50)}, th)
	if got.Score != 15 {
		t.Errorf("pe at threshold: got %d, want 15", got.Score)
	}

	// ROE exactly at the minimum takes the strong tier.
	got = ScoreFundamentals(types.FundamentalProfile{ROE: types.Float(0.10)}, th)
	if got.Score != 20 {
		t.Errorf("roe at threshold: got %d, want 20", got.Score)
	}
}
