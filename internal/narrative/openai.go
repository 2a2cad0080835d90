package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"stock-advisor/internal/logger"
)

// OpenAIGenerator calls the OpenAI chat completions API to write the
// narrative. It needs OPENAI_API_KEY; a custom endpoint can be set via
// OPENAI_API_ENDPOINT for proxies.
type OpenAIGenerator struct {
	endpoint    string
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIGenerator creates a generator for the given model.
func NewOpenAIGenerator(model string, maxTokens int, temperature float32) *OpenAIGenerator {
	endpoint := "https://api.openai.com/v1/chat/completions"
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxTokens == 0 {
		maxTokens = 512
	}
	return &OpenAIGenerator{
		endpoint:    endpoint,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, in Input) (string, error) {
	ctx, span := logger.StartSpan(ctx, "openai-narrative")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	stateB, _ := json.Marshal(map[string]any{
		"ticker":            in.Result.Ticker,
		"overall_score":     in.Result.OverallScore,
		"recommendation":    in.Result.Recommendation,
		"fundamental_score": in.Result.FundamentalScore,
		"technical_score":   in.Result.TechnicalScore,
		"reasons":           append(in.Result.FundamentalReasons, in.Result.TechnicalReasons...),
		"sentiment":         in.Sentiment,
	})

	system := "You are an equity research assistant. Write a short, factual summary " +
		"of the analysis below for a retail investor. Two paragraphs maximum. " +
		"Do not invent numbers that are not in the data."
	user := fmt.Sprintf("Analysis data:\n%s", string(stateB))

	reqBody := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens":  g.maxTokens,
		"temperature": g.temperature,
	}

	bb, _ := json.Marshal(reqBody)
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewReader(bb))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		logger.ErrorWithErr(ctx, "OpenAI request failed", err,
			"ticker", in.Result.Ticker, "latency_ms", latency.Milliseconds())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("openai decode: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty content")
	}

	logger.Info(ctx, "Narrative generated", "provider", "openai",
		"ticker", in.Result.Ticker, "latency_ms", latency.Milliseconds())
	return text, nil
}
