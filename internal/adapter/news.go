package adapter

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/util"
)

// NewsAdapter pulls posts from a CryptoPanic-shape feed and classifies impact
// and category from the headline, since the provider carries neither.
type NewsAdapter struct {
	base
	provider config.ProviderConfig
}

func NewNewsAdapter(provider config.ProviderConfig, deps Deps) *NewsAdapter {
	return &NewsAdapter{base: base{deps: deps}, provider: provider}
}

type panicFeed struct {
	Results []struct {
		ID          json.Number `json:"id"`
		Title       string      `json:"title"`
		URL         string      `json:"url"`
		PublishedAt string      `json:"published_at"`
		Source      struct {
			Title  string `json:"title"`
			Domain string `json:"domain"`
		} `json:"source"`
		Votes struct {
			Positive int `json:"positive"`
			Negative int `json:"negative"`
		} `json:"votes"`
	} `json:"results"`
}

// Fetch returns news items and whether the feed answered.
func (a *NewsAdapter) Fetch(ctx context.Context) ([]models.NewsItem, bool) {
	q := url.Values{}
	q.Set("public", "true")
	if a.provider.APIKey != "" {
		q.Set("auth_token", a.provider.APIKey)
	}

	var feed panicFeed
	if err := a.getJSON(ctx, "cryptopanic", a.provider.BaseURL, "/posts/", q, nil, &feed); err != nil {
		a.deps.Log.Warn("news feed unavailable", logger.Error(err))
		return fallbackNews(time.Now()), false
	}

	items := make([]models.NewsItem, 0, len(feed.Results))
	for _, r := range feed.Results {
		if r.ID.String() == "" || r.Title == "" {
			continue
		}
		source := r.Source.Title
		if source == "" {
			source = r.Source.Domain
		}
		items = append(items, models.NewsItem{
			ID:          "cp-" + r.ID.String(),
			Title:       r.Title,
			Source:      source,
			URL:         strPtr(r.URL),
			Category:    classifyCategory(r.Title),
			Impact:      classifyImpact(r.Title),
			Sentiment:   voteSentiment(r.Votes.Positive, r.Votes.Negative),
			PublishedAt: util.ParseTimeDefault(r.PublishedAt, time.Now()),
		})
	}
	return items, true
}

var highImpactWords = []string{"hack", "exploit", "sec ", "etf", "ban", "fed", "rate", "crash", "halt"}
var mediumImpactWords = []string{"regulation", "regulatory", "partnership", "lawsuit", "upgrade", "fork", "listing"}

func classifyImpact(title string) string {
	t := strings.ToLower(title)
	for _, w := range highImpactWords {
		if strings.Contains(t, w) {
			return models.ImpactHigh
		}
	}
	for _, w := range mediumImpactWords {
		if strings.Contains(t, w) {
			return models.ImpactMedium
		}
	}
	return models.ImpactLow
}

func classifyCategory(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "regulation") || strings.Contains(t, "sec ") || strings.Contains(t, "lawsuit"):
		return "regulation"
	case strings.Contains(t, "fed") || strings.Contains(t, "inflation") || strings.Contains(t, "treasury") || strings.Contains(t, "cpi"):
		return "economy"
	case strings.Contains(t, "stocks") || strings.Contains(t, "nasdaq") || strings.Contains(t, "s&p"):
		return "markets"
	case strings.Contains(t, "bitcoin") || strings.Contains(t, "ethereum") || strings.Contains(t, "crypto") || strings.Contains(t, "token"):
		return "crypto"
	default:
		return "general"
	}
}

func voteSentiment(positive, negative int) *string {
	switch {
	case positive == 0 && negative == 0:
		return nil
	case positive >= negative:
		return strPtr("positive")
	default:
		return strPtr("negative")
	}
}
