package news

import (
	"math"
	"testing"

	"stock-advisor/internal/types"
)

func TestAnalyzePositiveText(t *testing.T) {
	sa := NewSentimentAnalyzer()
	s := sa.Analyze("Company reports strong growth and record profits, analysts optimistic")
	if s.Polarity <= 0.1 {
		t.Errorf("expected positive polarity, got %v", s.Polarity)
	}
	if s.Label != "positive" {
		t.Errorf("expected positive label, got %s", s.Label)
	}
}

func TestAnalyzeNegativeText(t *testing.T) {
	sa := NewSentimentAnalyzer()
	s := sa.Analyze("Shares plunge after disappointing results, weak outlook raises concerns")
	if s.Polarity >= -0.1 {
		t.Errorf("expected negative polarity, got %v", s.Polarity)
	}
	if s.Label != "negative" {
		t.Errorf("expected negative label, got %s", s.Label)
	}
}

func TestAnalyzeNeutralText(t *testing.T) {
	sa := NewSentimentAnalyzer()
	s := sa.Analyze("The company held its annual meeting on Tuesday in the city")
	if s.Label != "neutral" {
		t.Errorf("expected neutral label for plain text, got %s (polarity %v)", s.Label, s.Polarity)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	sa := NewSentimentAnalyzer()
	s := sa.Analyze("")
	if s.Polarity != 0 || s.Subjectivity != 0 || s.Label != "neutral" {
		t.Errorf("empty text should be neutral zero value, got %+v", s)
	}
}

func TestAnalyzePolarityBounds(t *testing.T) {
	sa := NewSentimentAnalyzer()
	s := sa.Analyze("strong strong strong growth growth gains gains record record robust")
	if s.Polarity != 1 {
		t.Errorf("saturated positive text should clamp to 1, got %v", s.Polarity)
	}
	if s.Subjectivity < 0 || s.Subjectivity > 1 {
		t.Errorf("subjectivity out of range: %v", s.Subjectivity)
	}
}

func withSentiment(polarity float64) types.NewsArticle {
	label := "neutral"
	if polarity > positiveThreshold {
		label = "positive"
	} else if polarity < negativeThreshold {
		label = "negative"
	}
	return types.NewsArticle{
		Title:     "t",
		Sentiment: &types.Sentiment{Polarity: polarity, Label: label},
	}
}

func TestAggregateMixedArticles(t *testing.T) {
	articles := []types.NewsArticle{
		withSentiment(0.5),
		withSentiment(0.5),
		withSentiment(-0.5),
	}
	summary := Aggregate(articles)

	// mean polarity 1/6 -> score 58.33
	if math.Abs(summary.Score-58.333333) > 0.001 {
		t.Errorf("expected score 58.33, got %v", summary.Score)
	}
	if summary.Label != "neutral" {
		t.Errorf("58.33 is inside the neutral band, got %s", summary.Label)
	}
	if summary.PositiveCount != 2 || summary.NegativeCount != 1 || summary.NeutralCount != 0 {
		t.Errorf("bad counts: %+v", summary)
	}
	if summary.ArticleCount != 3 {
		t.Errorf("expected 3 articles, got %d", summary.ArticleCount)
	}
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	if summary.Score != 0 || summary.Label != "neutral" || summary.ArticleCount != 0 {
		t.Errorf("empty aggregate should be neutral zero value, got %+v", summary)
	}
}

func TestAggregateLabels(t *testing.T) {
	positive := Aggregate([]types.NewsArticle{withSentiment(0.5), withSentiment(0.3)})
	if positive.Label != "positive" {
		t.Errorf("expected positive label, got %s (score %v)", positive.Label, positive.Score)
	}

	negative := Aggregate([]types.NewsArticle{withSentiment(-0.6), withSentiment(-0.4)})
	if negative.Label != "negative" {
		t.Errorf("expected negative label, got %s (score %v)", negative.Label, negative.Score)
	}
}

func TestAnnotateArticles(t *testing.T) {
	sa := NewSentimentAnalyzer()
	articles := []types.NewsArticle{
		{Title: "Record growth and strong gains"},
		{Title: "Plain announcement"},
	}
	sa.AnnotateArticles(articles)
	for i, a := range articles {
		if a.Sentiment == nil {
			t.Fatalf("article %d not annotated", i)
		}
	}
	if articles[0].Sentiment.Label != "positive" {
		t.Errorf("expected positive for first article, got %s", articles[0].Sentiment.Label)
	}
}
