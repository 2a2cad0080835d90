package news

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"stock-advisor/internal/types"
)

const (
	newsAPIEndpoint      = "https://newsapi.org/v2/everything"
	topHeadlinesEndpoint = "https://newsapi.org/v2/top-headlines"
)

// Client fetches recent articles for a ticker from NewsAPI.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient creates a NewsAPI client. An empty key is allowed; Fetch
// then reports ErrNoAPIKey so the caller can fall back to scraping.
func NewClient(apiKey string) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(10 * time.Second).
			SetHeader("User-Agent", "stock-advisor/1.0"),
		apiKey: apiKey,
	}
}

// ErrNoAPIKey signals the client has no credentials configured.
var ErrNoAPIKey = fmt.Errorf("news: no API key configured")

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Fetch returns up to maxArticles recent English articles for a query.
func (c *Client) Fetch(ctx context.Context, query string, maxArticles int) ([]types.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if maxArticles < 1 {
		maxArticles = 10
	}

	var parsed newsAPIResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": fmt.Sprintf("%d", maxArticles),
			"apiKey":   c.apiKey,
		}).
		SetResult(&parsed).
		Get(newsAPIEndpoint)
	if err != nil {
		return nil, fmt.Errorf("news fetch %q: %w", query, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("news fetch %q: status %d", query, resp.StatusCode())
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("news fetch %q: api status %s", query, parsed.Status)
	}

	articles := make([]types.NewsArticle, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, types.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}
	return articles, nil
}

// MarketNews returns broad business-category headlines for the market
// overview, independent of any ticker.
func (c *Client) MarketNews(ctx context.Context, maxArticles int) ([]types.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if maxArticles < 1 {
		maxArticles = 10
	}

	var parsed newsAPIResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"category": "business",
			"country":  "us",
			"pageSize": fmt.Sprintf("%d", maxArticles),
			"apiKey":   c.apiKey,
		}).
		SetResult(&parsed).
		Get(topHeadlinesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("market news fetch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("market news fetch: status %d", resp.StatusCode())
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("market news fetch: api status %s", parsed.Status)
	}

	articles := make([]types.NewsArticle, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, types.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}
	return articles, nil
}

// SampleArticles returns canned headlines so sentiment stays usable
// offline. The set leans mildly positive, mirroring typical coverage
// of large caps.
func SampleArticles(ticker string) []types.NewsArticle {
	now := time.Now().UTC().Format(time.RFC3339)
	return []types.NewsArticle{
		{
			Title:       fmt.Sprintf("%s reports strong quarterly results, beats estimates", ticker),
			Description: "Revenue growth and improved margins drove an earnings beat.",
			Source:      "Sample",
			PublishedAt: now,
		},
		{
			Title:       fmt.Sprintf("Analysts remain optimistic on %s growth outlook", ticker),
			Description: "Consensus price targets edged higher after the update.",
			Source:      "Sample",
			PublishedAt: now,
		},
		{
			Title:       fmt.Sprintf("%s faces competitive challenges in key segment", ticker),
			Description: "Rivals are pressuring margins in the core business.",
			Source:      "Sample",
			PublishedAt: now,
		},
		{
			Title:       fmt.Sprintf("%s announces innovative product roadmap", ticker),
			Description: "Management laid out an upbeat multi-year plan.",
			Source:      "Sample",
			PublishedAt: now,
		},
	}
}

// SampleMarketArticles is the market-wide analogue of SampleArticles.
func SampleMarketArticles() []types.NewsArticle {
	now := time.Now().UTC().Format(time.RFC3339)
	return []types.NewsArticle{
		{
			Title:       "Markets rally as earnings season beats expectations",
			Description: "Broad gains across sectors lifted the major indexes.",
			Source:      "Sample",
			PublishedAt: now,
		},
		{
			Title:       "Fed signals steady policy amid stable inflation data",
			Description: "Officials see no urgency to change course.",
			Source:      "Sample",
			PublishedAt: now,
		},
		{
			Title:       "Tech stocks decline on profit-taking after strong run",
			Description: "Investors trimmed positions in the year's biggest winners.",
			Source:      "Sample",
			PublishedAt: now,
		},
		{
			Title:       "Energy sector gains on rising demand outlook",
			Description: "Producers rose with firmer commodity prices.",
			Source:      "Sample",
			PublishedAt: now,
		},
	}
}
