package types

import "github.com/shopspring/decimal"

// Candle is one period of price history.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// FundamentalProfile is a snapshot of descriptive company metrics.
// Fields are pointers because any of them may be missing from the data
// provider; a nil field contributes nothing to scoring.
type FundamentalProfile struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  float64  `json:"current_price"`
	Volume        float64  `json:"volume"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	PBRatio       *float64 `json:"pb_ratio,omitempty"`
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	ProfitMargins *float64 `json:"profit_margins,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
}

// TechnicalIndicators is derived fresh from a candle series on every
// analysis. Nil means the indicator could not be computed (insufficient
// history or a degenerate window) and scorers must skip it.
type TechnicalIndicators struct {
	RSI          *float64 `json:"rsi,omitempty"`
	MA20         *float64 `json:"ma_20,omitempty"`
	MA50         *float64 `json:"ma_50,omitempty"`
	PriceVsMA20  *float64 `json:"price_vs_ma20,omitempty"`
	PriceVsMA50  *float64 `json:"price_vs_ma50,omitempty"`
	MACD         *float64 `json:"macd,omitempty"`
	MACDSignal   *float64 `json:"macd_signal,omitempty"`
	BBPosition   *float64 `json:"bb_position,omitempty"`
	ATR          *float64 `json:"atr,omitempty"`
	VolumeRatio  *float64 `json:"volume_ratio,omitempty"`
	CurrentPrice float64  `json:"current_price"`
	Periods      int      `json:"periods"`
}

// ScoreResult is the output of one scorer: a clamped 0-100 score plus
// the reasons that produced it, in rule order.
type ScoreResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Sentiment is the per-article polarity classification, computed once
// at ingestion and carried on the article.
type Sentiment struct {
	Polarity     float64 `json:"polarity"`     // [-1, 1]
	Subjectivity float64 `json:"subjectivity"` // [0, 1]
	Label        string  `json:"label"`        // positive | negative | neutral
}

// NewsArticle is one article as returned by the news collaborator,
// enriched with local sentiment.
type NewsArticle struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt string     `json:"published_at"`
	Source      string     `json:"source"`
	Sentiment   *Sentiment `json:"sentiment,omitempty"`
}

// SentimentSummary aggregates article sentiment onto a 0-100 scale.
type SentimentSummary struct {
	Score         float64 `json:"score"`
	Label         string  `json:"label"`
	ArticleCount  int     `json:"article_count"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
	AvgPolarity   float64 `json:"avg_polarity"`
}

// Recommendation buckets for the composite score.
const (
	StrongBuy  = "STRONG_BUY"
	Buy        = "BUY"
	Hold       = "HOLD"
	Sell       = "SELL"
	StrongSell = "STRONG_SELL"
	Skip       = "SKIP"
)

// CompositeResult is the full output of one ticker analysis. It is a
// pure value: recomputed per call, never cached.
type CompositeResult struct {
	Ticker              string              `json:"ticker"`
	OverallScore        float64             `json:"overall_score"`
	FundamentalScore    int                 `json:"fundamental_score"`
	TechnicalScore      int                 `json:"technical_score"`
	Recommendation      string              `json:"recommendation"`
	FundamentalReasons  []string            `json:"fundamental_reasons"`
	TechnicalReasons    []string            `json:"technical_reasons"`
	FundamentalMetrics  FundamentalProfile  `json:"fundamental_metrics"`
	TechnicalIndicators TechnicalIndicators `json:"technical_indicators"`
	CurrentPrice        float64             `json:"current_price"`
	MarketCap           float64             `json:"market_cap"`
	Volume              float64             `json:"volume"`
	Exchange            string              `json:"exchange,omitempty"`
	Err                 string              `json:"error,omitempty"`
}

// Skipped reports whether the analysis failed terminally for this
// ticker (no price data); downstream derivations must not run.
func (r *CompositeResult) Skipped() bool {
	return r.Recommendation == Skip
}

// Risk tolerance levels for position sizing.
const (
	RiskConservative = "conservative"
	RiskModerate     = "moderate"
	RiskAggressive   = "aggressive"
)

// UserProfile describes the investor the autonomous bundle is sized for.
type UserProfile struct {
	RiskTolerance     string  `json:"risk_tolerance"`
	InvestmentHorizon string  `json:"investment_horizon"`
	InvestmentAmount  float64 `json:"investment_amount"`
	ExperienceLevel   string  `json:"experience_level"`
}

// DefaultUserProfile is applied when a caller asks for an autonomous
// recommendation without supplying a profile.
func DefaultUserProfile() UserProfile {
	return UserProfile{
		RiskTolerance:     RiskModerate,
		InvestmentHorizon: "long_term",
		InvestmentAmount:  10000,
		ExperienceLevel:   "intermediate",
	}
}

// RiskAssessment reports two independent risk axes: volatility risk
// (realized range via ATR when history is available, beta otherwise)
// and conviction risk from the composite score.
type RiskAssessment struct {
	RiskLevel  string  `json:"risk_level"`
	Beta       float64 `json:"beta"`
	ATRPercent float64 `json:"atr_percent,omitempty"`
	Volatility string  `json:"volatility"`
	ScoreRisk  string  `json:"score_risk"`
}

// EntryStrategy holds the derived entry price ladder.
type EntryStrategy struct {
	ImmediateEntry    float64   `json:"immediate_entry"`
	DollarCostAverage float64   `json:"dollar_cost_average"`
	LimitOrders       []float64 `json:"limit_orders"`
	EntryTiming       string    `json:"entry_timing"`
}

// ExitStrategy holds the stop loss, profit targets and time milestones.
type ExitStrategy struct {
	StopLoss      float64        `json:"stop_loss"`
	ProfitTargets []float64      `json:"profit_targets"`
	TimeBasedExit TimeBasedExits `json:"time_based_exits"`
}

// TimeBasedExits are the expected price milestones if the thesis holds.
type TimeBasedExits struct {
	ThreeMonths float64 `json:"3_months"`
	SixMonths   float64 `json:"6_months"`
	OneYear     float64 `json:"1_year"`
}

// PositionSizing is the dollar-accurate allocation for the user.
type PositionSizing struct {
	Percentage     float64         `json:"percentage"`
	DollarAmount   decimal.Decimal `json:"dollar_amount"`
	Shares         int64           `json:"shares"`
	MaxPositionPct float64         `json:"max_position"`
}

// MonitoringPoint is one entry of the fixed monitoring checklist.
type MonitoringPoint struct {
	Metric      string    `json:"metric"`
	Frequency   string    `json:"frequency"`
	AlertLevels []float64 `json:"alert_levels,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// RecommendationBundle is the autonomous decision bundle: everything a
// user needs to act on a CompositeResult without further research.
type RecommendationBundle struct {
	Ticker           string            `json:"ticker"`
	ConfidenceScore  float64           `json:"confidence_score"`
	RiskAssessment   RiskAssessment    `json:"risk_assessment"`
	EntryStrategy    EntryStrategy     `json:"entry_strategy"`
	ExitStrategy     ExitStrategy      `json:"exit_strategy"`
	PositionSizing   PositionSizing    `json:"position_sizing"`
	MonitoringPoints []MonitoringPoint `json:"monitoring_points"`
	Narrative        string            `json:"narrative"`
	Timestamp        int64             `json:"timestamp"`
}

// ScreenerCriteria is a conjunction of optional bounds; a zero-value
// or nil bound imposes no constraint.
type ScreenerCriteria struct {
	MinScore       float64  `json:"min_score"`
	MaxScore       float64  `json:"max_score"`
	MinMarketCap   float64  `json:"min_market_cap"`
	MaxResults     int      `json:"max_results"`
	Recommendation string   `json:"recommendation,omitempty"`
	Exchange       string   `json:"exchange,omitempty"`
	MaxPE          *float64 `json:"max_pe,omitempty"`
	MinROE         *float64 `json:"min_roe,omitempty"`
}

// ScreenResult is the screener output plus honest coverage reporting.
type ScreenResult struct {
	Matches   []CompositeResult `json:"matches"`
	Evaluated int               `json:"evaluated"`
}

// Float is a convenience constructor for optional numeric fields.
func Float(v float64) *float64 { return &v }
