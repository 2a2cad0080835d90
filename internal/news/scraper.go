package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

// Scraper collects headlines from Google News when no API key is
// available, and pulls full article bodies on demand.
type Scraper struct {
	timeout time.Duration
}

// NewScraper creates a news scraper.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{timeout: timeout}
}

// ScrapeGoogleNews searches Google News for ticker headlines.
func (s *Scraper) ScrapeGoogleNews(ctx context.Context, ticker string, maxArticles int) ([]types.NewsArticle, error) {
	articles := []types.NewsArticle{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)

	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := e.ChildText("h3, h4")
		link := e.ChildAttr("a", "href")

		if title != "" && link != "" {
			// Clean up Google News redirect URL
			if strings.HasPrefix(link, "./articles/") {
				link = "https://news.google.com" + link[1:]
			}

			articles = append(articles, types.NewsArticle{
				Title:       title,
				URL:         link,
				Source:      "GoogleNews",
				PublishedAt: e.ChildAttr("time", "datetime"),
			})
		}
	})

	searchQuery := url.QueryEscape(ticker + " stock news")
	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en", searchQuery)

	err := c.Visit(searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}

	c.Wait()

	logger.Info(ctx, "Google News scraping completed", "ticker", ticker, "articles", len(articles))
	return articles, nil
}

// FetchArticleBody downloads an article page and extracts paragraph
// text from the usual content containers. Empty string on any failure;
// headlines alone are still enough for sentiment.
func (s *Scraper) FetchArticleBody(ctx context.Context, articleURL string) string {
	c := colly.NewCollector()
	c.SetRequestTimeout(s.timeout)

	var body string

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(r.Body)))
		if err != nil {
			return
		}
		body = extractParagraphs(doc)
	})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	if err := c.Visit(articleURL); err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch article content", err, "url", articleURL)
		return ""
	}

	return body
}

// extractParagraphs pulls meaningful paragraph text out of a document.
func extractParagraphs(doc *goquery.Document) string {
	containers := doc.Find("article, div.article-body, div.content-body, div.story-content")
	if containers.Length() == 0 {
		containers = doc.Find("body")
	}

	paragraphs := []string{}
	containers.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 20 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}
