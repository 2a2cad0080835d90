package news

import (
	"strings"
	"unicode"

	"stock-advisor/internal/types"
)

// Per-article polarity thresholds for labelling.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// SentimentAnalyzer scores article text with financial sentiment word
// lists (Loughran-McDonald style). It is deterministic and offline.
type SentimentAnalyzer struct {
	positiveWords    map[string]bool
	negativeWords    map[string]bool
	uncertaintyWords map[string]bool
}

// NewSentimentAnalyzer creates a new sentiment analyzer
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{
		positiveWords:    loadPositiveWords(),
		negativeWords:    loadNegativeWords(),
		uncertaintyWords: loadUncertaintyWords(),
	}
}

// Analyze scores a single piece of text. Polarity is the amplified net
// positive-minus-negative word ratio clamped to [-1, 1]; subjectivity
// is the share of opinionated words scaled to [0, 1].
func (sa *SentimentAnalyzer) Analyze(text string) types.Sentiment {
	words := sa.tokenize(strings.ToLower(text))
	if len(words) == 0 {
		return types.Sentiment{Label: "neutral"}
	}

	positive, negative, uncertain := 0, 0, 0
	for _, word := range words {
		if sa.positiveWords[word] {
			positive++
		}
		if sa.negativeWords[word] {
			negative++
		}
		if sa.uncertaintyWords[word] {
			uncertain++
		}
	}

	total := float64(len(words))
	// Sentiment-bearing words are a small fraction of any text, so the
	// raw ratio is amplified before clamping.
	polarity := clamp((float64(positive)-float64(negative))/total*10, -1, 1)
	subjectivity := clamp(float64(positive+negative+uncertain)/total*10, 0, 1)

	return types.Sentiment{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Label:        labelPolarity(polarity),
	}
}

// AnnotateArticles attaches a sentiment to every article in place,
// scoring the title and description together.
func (sa *SentimentAnalyzer) AnnotateArticles(articles []types.NewsArticle) {
	for i := range articles {
		s := sa.Analyze(articles[i].Title + ". " + articles[i].Description)
		articles[i].Sentiment = &s
	}
}

// Aggregate folds per-article sentiment into a 0-100 summary. The
// score maps mean polarity linearly: -1 to 0, 0 to 50, +1 to 100.
// With no articles the summary is the neutral zero value.
func Aggregate(articles []types.NewsArticle) types.SentimentSummary {
	summary := types.SentimentSummary{Label: "neutral"}
	if len(articles) == 0 {
		return summary
	}

	sum := 0.0
	for _, a := range articles {
		if a.Sentiment == nil {
			summary.NeutralCount++
			continue
		}
		sum += a.Sentiment.Polarity
		switch a.Sentiment.Label {
		case "positive":
			summary.PositiveCount++
		case "negative":
			summary.NegativeCount++
		default:
			summary.NeutralCount++
		}
	}

	summary.ArticleCount = len(articles)
	summary.AvgPolarity = sum / float64(len(articles))
	summary.Score = (summary.AvgPolarity + 1) * 50
	switch {
	case summary.Score > 60:
		summary.Label = "positive"
	case summary.Score < 40:
		summary.Label = "negative"
	}
	return summary
}

func labelPolarity(polarity float64) string {
	switch {
	case polarity > positiveThreshold:
		return "positive"
	case polarity < negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tokenize splits text into words
func (sa *SentimentAnalyzer) tokenize(text string) []string {
	var words []string
	var currentWord strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			currentWord.WriteRune(r)
		} else if currentWord.Len() > 0 {
			words = append(words, currentWord.String())
			currentWord.Reset()
		}
	}

	if currentWord.Len() > 0 {
		words = append(words, currentWord.String())
	}

	return words
}

// Word lists based on financial sentiment dictionaries
// (Loughran-McDonald financial sentiment word lists)

func loadPositiveWords() map[string]bool {
	words := []string{
		"achieve", "attain", "beat", "beats", "benefit", "better", "bullish",
		"competitive", "delight", "enhance", "excellent", "exceptional",
		"extraordinary", "favorable", "gain", "gains", "good", "great", "grew",
		"growth", "improve", "improved", "improvement", "increasing",
		"innovation", "innovative", "leader", "leading", "opportunity",
		"optimal", "optimistic", "outperform", "positive", "profitable",
		"progress", "prosper", "rally", "record", "remarkable", "robust",
		"soar", "soars", "solid", "strength", "strong", "succeed", "success",
		"successful", "superior", "surge", "surges", "surpass", "tremendous",
		"upbeat", "upgrade", "valuable", "winning",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"abandon", "adverse", "bearish", "challenge", "challenging", "concern",
		"concerns", "crash", "crisis", "damage", "decline", "decrease",
		"deficit", "deteriorate", "difficult", "difficulty", "disappoint",
		"disappointing", "disadvantage", "downgrade", "downturn", "drop",
		"drops", "erode", "fail", "failure", "falling", "falls", "fear",
		"headwind", "impair", "impairment", "inability", "inadequate",
		"ineffective", "lawsuit", "loss", "losses", "miss", "misses",
		"negative", "obstacle", "plunge", "plunges", "poor", "problem",
		"recession", "restructuring", "risk", "risks", "slow", "slowdown",
		"slump", "tumble", "tumbles", "uncertain", "uncertainty",
		"underperform", "unfavorable", "unprofitable", "volatile",
		"volatility", "weak", "weakness", "worse", "worsen", "worst",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadUncertaintyWords() map[string]bool {
	words := []string{
		"almost", "anticipate", "anticipates", "appear", "appears",
		"approximately", "assume", "assumes", "believe", "believes", "could",
		"depend", "depending", "estimate", "estimates", "expect", "expects",
		"forecast", "forecasts", "if", "intend", "intends", "likely", "may",
		"maybe", "might", "outlook", "pending", "perhaps", "plan", "plans",
		"possible", "possibly", "potential", "predict", "predicts", "project",
		"projects", "should", "somewhat", "suggest", "suggests", "unclear",
		"unlikely", "variable", "would",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}
