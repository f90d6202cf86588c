package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/util"
)

// CalendarAdapter pulls upcoming macro events from an economic-calendar feed.
type CalendarAdapter struct {
	base
	provider config.ProviderConfig
}

func NewCalendarAdapter(provider config.ProviderConfig, deps Deps) *CalendarAdapter {
	return &CalendarAdapter{base: base{deps: deps}, provider: provider}
}

type calendarEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Impact   string `json:"impact"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
	Actual   string `json:"actual"`
	Date     string `json:"date"`
}

// Fetch returns upcoming events and whether the feed answered. Entries
// without a stable provider id get a generated one, so reruns may duplicate
// them; the store cap keeps that bounded.
func (a *CalendarAdapter) Fetch(ctx context.Context) ([]models.EconomicEvent, bool) {
	var entries []calendarEntry
	if err := a.getJSON(ctx, "calendar", a.provider.BaseURL, "/events", nil, nil, &entries); err != nil {
		a.deps.Log.Warn("calendar feed unavailable", logger.Error(err))
		return fallbackEvents(time.Now()), false
	}

	out := make([]models.EconomicEvent, 0, len(entries))
	for _, e := range entries {
		if e.Title == "" {
			continue
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, models.EconomicEvent{
			ID:       "cal-" + id,
			Title:    e.Title,
			Country:  strings.ToUpper(e.Country),
			Currency: strPtr(strings.ToUpper(e.Currency)),
			Impact:   mapCalendarImpact(e.Impact),
			Forecast: strPtr(e.Forecast),
			Previous: strPtr(e.Previous),
			Actual:   strPtr(e.Actual),
			EventAt:  util.ParseTimeDefault(e.Date, time.Now()),
		})
	}
	return out, true
}

func mapCalendarImpact(s string) string {
	switch strings.ToLower(s) {
	case "high", "3":
		return models.ImpactHigh
	case "medium", "moderate", "2":
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}
