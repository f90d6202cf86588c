package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/repository"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	apphttp "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

// Gate admits or denies one outbound call under a provider key.
type Gate interface {
	Allow(key string) bool
}

// Deps bundles the plumbing shared by every source adapter.
type Deps struct {
	Client  *apphttp.Client
	Gate    Gate
	Log     *logger.Logger
	Metrics repository.Metrics
}

// Sources groups one adapter per refresh concern.
type Sources struct {
	Prices    *PricesAdapter
	Aggregate *AggregateAdapter
	News      *NewsAdapter
	Whales    *WhalesAdapter
	Calendar  *CalendarAdapter
	Fed       *FedAdapter
}

// NewSources wires all six adapters against the configured providers.
func NewSources(cfg *config.Config, deps Deps) *Sources {
	return &Sources{
		Prices:    NewPricesAdapter(cfg.Upstream.CoinGecko, cfg.Upstream.CoinPaprika, deps),
		Aggregate: NewAggregateAdapter(cfg.Upstream.CoinGecko, cfg.Upstream.FearGreed, deps),
		News:      NewNewsAdapter(cfg.Upstream.CryptoPanic, deps),
		Whales:    NewWhalesAdapter(cfg.Upstream.WhaleAlert, deps),
		Calendar:  NewCalendarAdapter(cfg.Upstream.Calendar, deps),
		Fed:       NewFedAdapter(cfg.Upstream.Fred, deps),
	}
}

var errGateDenied = errors.New("outbound gate denied")
var errProviderDisabled = errors.New("provider not configured")

// base carries the shared provider-call discipline: a gate check before every
// call, latency and error metrics per provider, failures absorbed by callers.
type base struct {
	deps Deps
}

func (b *base) getJSON(ctx context.Context, provider, baseURL, path string, query url.Values, headers map[string]string, dest interface{}) error {
	if baseURL == "" {
		return errProviderDisabled
	}
	if b.deps.Gate != nil && !b.deps.Gate.Allow(provider) {
		b.deps.Metrics.RecordRateLimited("outbound")
		b.deps.Log.Warn("outbound gate denied provider call", logger.String("provider", provider))
		return errGateDenied
	}

	start := time.Now()
	err := b.deps.Client.GetJSON(ctx, baseURL+path, query, headers, dest)
	b.deps.Metrics.RecordLatency("upstream_"+provider, time.Since(start).Seconds())
	if err != nil {
		b.deps.Metrics.RecordError("upstream_" + provider)
	}
	return err
}

// numStr normalizes a provider numeric to its exact decimal text, or def when
// the provider omitted the field.
func numStr(n json.Number, def string) string {
	if n.String() == "" {
		return def
	}
	return n.String()
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
