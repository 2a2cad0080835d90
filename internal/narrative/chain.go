package narrative

import (
	"context"
	"errors"

	"stock-advisor/internal/logger"
)

// Chain tries generators in order and returns the first success.
type Chain struct {
	generators []Generator
}

// NewChain builds a chain; the template generator is appended as the
// terminal member if not already present, so Generate cannot fail.
func NewChain(generators ...Generator) *Chain {
	hasTemplate := false
	for _, g := range generators {
		if g.Name() == "template" {
			hasTemplate = true
		}
	}
	if !hasTemplate {
		generators = append(generators, NewTemplateGenerator())
	}
	return &Chain{generators: generators}
}

// NewChainForProvider wires the chain named in configuration.
func NewChainForProvider(provider, model string, maxTokens int, temperature float32) *Chain {
	switch provider {
	case "openai":
		return NewChain(NewOpenAIGenerator(model, maxTokens, temperature))
	default:
		return NewChain()
	}
}

func (c *Chain) Name() string { return "chain" }

// Generate implements Generator.
func (c *Chain) Generate(ctx context.Context, in Input) (string, error) {
	var lastErr error
	for _, g := range c.generators {
		text, err := g.Generate(ctx, in)
		if err == nil {
			return text, nil
		}
		lastErr = err
		logger.Warn(ctx, "Narrative provider failed, trying next",
			"provider", g.Name(), "ticker", in.Result.Ticker, "error", err.Error())
	}
	if lastErr == nil {
		lastErr = errors.New("narrative: no generators configured")
	}
	return "", lastErr
}
