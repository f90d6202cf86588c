package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

// AggregateAdapter builds the market summary from CoinGecko global stats plus
// the alternative.me fear & greed index. The index is best-effort: when its
// feed fails the rest of the summary still counts as live, with index 50.
type AggregateAdapter struct {
	base
	gecko     config.ProviderConfig
	fearGreed config.ProviderConfig
}

func NewAggregateAdapter(gecko, fearGreed config.ProviderConfig, deps Deps) *AggregateAdapter {
	return &AggregateAdapter{base: base{deps: deps}, gecko: gecko, fearGreed: fearGreed}
}

type geckoGlobal struct {
	Data struct {
		TotalMarketCap  map[string]json.Number `json:"total_market_cap"`
		TotalVolume     map[string]json.Number `json:"total_volume"`
		MarketCapPct    map[string]json.Number `json:"market_cap_percentage"`
		MarketCapChange json.Number            `json:"market_cap_change_percentage_24h_usd"`
	} `json:"data"`
}

type fearGreedFeed struct {
	Data []struct {
		Value json.Number `json:"value"`
	} `json:"data"`
}

// Fetch returns the summary and whether the global stats came from upstream.
func (a *AggregateAdapter) Fetch(ctx context.Context) (models.MarketSummary, bool) {
	now := time.Now()

	var global geckoGlobal
	if err := a.getJSON(ctx, "coingecko", a.gecko.BaseURL, "/global", nil, nil, &global); err != nil {
		a.deps.Log.Warn("global stats unavailable", logger.Error(err))
		return fallbackSummary(now), false
	}

	summary := models.MarketSummary{
		TotalMarketCap: numStr(global.Data.TotalMarketCap["usd"], "0"),
		TotalVolume:    numStr(global.Data.TotalVolume["usd"], "0"),
		BTCDominance:   numStr(global.Data.MarketCapPct["btc"], "0"),
		Change24h:      numStr(global.Data.MarketCapChange, "0"),
		FearGreedIndex: a.fetchFearGreed(ctx),
		UpdatedAt:      now,
	}
	return summary, true
}

func (a *AggregateAdapter) fetchFearGreed(ctx context.Context) int {
	var feed fearGreedFeed
	if err := a.getJSON(ctx, "fear_greed", a.fearGreed.BaseURL, "/fng/", nil, nil, &feed); err != nil {
		a.deps.Log.Warn("fear & greed feed unavailable", logger.Error(err))
		return 50
	}
	if len(feed.Data) == 0 {
		return 50
	}
	v, err := feed.Data[0].Value.Int64()
	if err != nil || v < 0 || v > 100 {
		return 50
	}
	return int(v)
}
