package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stock-advisor/internal/types"
)

type failingGenerator struct{ calls int }

func (f *failingGenerator) Name() string { return "failing" }
func (f *failingGenerator) Generate(context.Context, Input) (string, error) {
	f.calls++
	return "", errors.New("provider down")
}

func sampleInput() Input {
	return Input{
		Result: types.CompositeResult{
			Ticker:             "AAPL",
			OverallScore:       71.0,
			FundamentalScore:   95,
			TechnicalScore:     40,
			Recommendation:     types.Buy,
			FundamentalReasons: []string{"Strong return on equity", "Low debt levels"},
			TechnicalReasons:   []string{"Price above 20-day MA"},
		},
		Sentiment: types.SentimentSummary{
			Score: 65, Label: "positive", ArticleCount: 5, PositiveCount: 3,
		},
	}
}

func TestTemplateGeneratorMentionsCoreFacts(t *testing.T) {
	text, err := NewTemplateGenerator().Generate(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("template generator must not fail: %v", err)
	}
	for _, want := range []string{"AAPL", "71.0", "buy", "95", "40", "positive"} {
		if !strings.Contains(text, want) {
			t.Errorf("narrative missing %q:\n%s", want, text)
		}
	}
}

func TestTemplateGeneratorIncludesBundle(t *testing.T) {
	in := sampleInput()
	in.Bundle = &types.RecommendationBundle{
		EntryStrategy: types.EntryStrategy{ImmediateEntry: 190, EntryTiming: "Immediate"},
		ExitStrategy:  types.ExitStrategy{StopLoss: 161.50, ProfitTargets: []float64{218.50}},
	}
	text, err := NewTemplateGenerator().Generate(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"190.00", "161.50", "218.50"} {
		if !strings.Contains(text, want) {
			t.Errorf("narrative missing %q:\n%s", want, text)
		}
	}
}

func TestChainFallsThroughToTemplate(t *testing.T) {
	failing := &failingGenerator{}
	chain := NewChain(failing)

	text, err := chain.Generate(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("chain with template terminal must not fail: %v", err)
	}
	if failing.calls != 1 {
		t.Errorf("expected failing provider to be tried once, got %d", failing.calls)
	}
	if !strings.Contains(text, "AAPL") {
		t.Errorf("fallback narrative should mention the ticker:\n%s", text)
	}
}

func TestChainForUnknownProviderUsesTemplate(t *testing.T) {
	chain := NewChainForProvider("nope", "", 0, 0)
	if len(chain.generators) != 1 || chain.generators[0].Name() != "template" {
		t.Fatalf("unknown provider should yield template-only chain: %+v", chain.generators)
	}
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	failing := &failingGenerator{}
	chain := NewChain(NewTemplateGenerator(), failing)

	if _, err := chain.Generate(context.Background(), sampleInput()); err != nil {
		t.Fatal(err)
	}
	if failing.calls != 0 {
		t.Error("later providers must not run after a success")
	}
}
