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

// FedAdapter pulls policy releases from a FRED-shape API and attaches the
// latest upper-bound target rate when the observations series is available.
type FedAdapter struct {
	base
	provider config.ProviderConfig
}

func NewFedAdapter(provider config.ProviderConfig, deps Deps) *FedAdapter {
	return &FedAdapter{base: base{deps: deps}, provider: provider}
}

type fredReleases struct {
	Releases []struct {
		ID            json.Number `json:"id"`
		Name          string      `json:"name"`
		PressRelease  bool        `json:"press_release"`
		Link          string      `json:"link"`
		RealtimeStart string      `json:"realtime_start"`
	} `json:"releases"`
}

type fredObservations struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Fetch returns policy updates and whether the releases feed answered.
func (a *FedAdapter) Fetch(ctx context.Context) ([]models.FedUpdate, bool) {
	q := a.query()
	q.Set("order_by", "release_id")
	q.Set("sort_order", "desc")
	q.Set("limit", "25")

	var feed fredReleases
	if err := a.getJSON(ctx, "fred", a.provider.BaseURL, "/fred/releases", q, nil, &feed); err != nil {
		a.deps.Log.Warn("fed releases unavailable", logger.Error(err))
		return fallbackFed(time.Now()), false
	}

	rate := a.latestTargetRate(ctx)
	out := make([]models.FedUpdate, 0, len(feed.Releases))
	for _, r := range feed.Releases {
		if r.ID.String() == "" || r.Name == "" {
			continue
		}
		typ := classifyFedType(r.Name)
		u := models.FedUpdate{
			ID:          "fred-" + r.ID.String(),
			Title:       r.Name,
			Type:        typ,
			Content:     strPtr(r.Link),
			PublishedAt: util.ParseTimeDefault(r.RealtimeStart, time.Now()),
		}
		if typ == models.FedTypeRateDecision && rate != "" {
			u.Rate = strPtr(rate)
		}
		out = append(out, u)
	}
	return out, true
}

func (a *FedAdapter) latestTargetRate(ctx context.Context) string {
	q := a.query()
	q.Set("series_id", "DFEDTARU")
	q.Set("sort_order", "desc")
	q.Set("limit", "1")

	var obs fredObservations
	if err := a.getJSON(ctx, "fred", a.provider.BaseURL, "/fred/series/observations", q, nil, &obs); err != nil {
		a.deps.Log.Warn("target rate series unavailable", logger.Error(err))
		return ""
	}
	if len(obs.Observations) == 0 || obs.Observations[0].Value == "." {
		return ""
	}
	return obs.Observations[0].Value
}

func (a *FedAdapter) query() url.Values {
	q := url.Values{}
	q.Set("file_type", "json")
	if a.provider.APIKey != "" {
		q.Set("api_key", a.provider.APIKey)
	}
	return q
}

func classifyFedType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "fomc statement") || strings.Contains(t, "federal funds"):
		return models.FedTypeRateDecision
	case strings.Contains(t, "minutes"):
		return models.FedTypeMinutes
	case strings.Contains(t, "speech") || strings.Contains(t, "testimony"):
		return models.FedTypeSpeech
	case strings.Contains(t, "projection"):
		return models.FedTypeProjection
	default:
		return models.FedTypeSpeech
	}
}
