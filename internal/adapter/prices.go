package adapter

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

// PricesAdapter pulls spot prices from CoinGecko and CoinPaprika concurrently
// and concatenates the results. The store upsert dedupes by asset ID, so
// overlap between the two providers is harmless.
type PricesAdapter struct {
	base
	gecko    config.ProviderConfig
	paprika  config.ProviderConfig
	pageSize int
}

func NewPricesAdapter(gecko, paprika config.ProviderConfig, deps Deps) *PricesAdapter {
	return &PricesAdapter{
		base:     base{deps: deps},
		gecko:    gecko,
		paprika:  paprika,
		pageSize: 50,
	}
}

// Fetch returns the combined asset set and whether any provider answered.
// When both providers fail or are unconfigured, the fallback set is returned.
func (a *PricesAdapter) Fetch(ctx context.Context) ([]models.CryptoAsset, bool) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		merged  []models.CryptoAsset
		anyLive bool
	)

	fetch := func(name string, fn func(context.Context) ([]models.CryptoAsset, error)) {
		defer wg.Done()
		assets, err := fn(ctx)
		if err != nil {
			a.deps.Log.Warn("price provider unavailable",
				logger.String("provider", name), logger.Error(err))
			return
		}
		mu.Lock()
		merged = append(merged, assets...)
		anyLive = true
		mu.Unlock()
	}

	wg.Add(2)
	go fetch("coingecko", a.fetchCoinGecko)
	go fetch("coinpaprika", a.fetchCoinPaprika)
	wg.Wait()

	if !anyLive {
		return fallbackAssets(time.Now()), false
	}
	return merged, true
}

type geckoMarket struct {
	ID        string      `json:"id"`
	Symbol    string      `json:"symbol"`
	Name      string      `json:"name"`
	Price     json.Number `json:"current_price"`
	Change24h json.Number `json:"price_change_percentage_24h"`
	MarketCap json.Number `json:"market_cap"`
	Volume    json.Number `json:"total_volume"`
	Sparkline struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

func (a *PricesAdapter) fetchCoinGecko(ctx context.Context) ([]models.CryptoAsset, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", "50")
	q.Set("sparkline", "true")
	q.Set("price_change_percentage", "24h")

	headers := map[string]string{}
	if a.gecko.APIKey != "" {
		headers["x-cg-demo-api-key"] = a.gecko.APIKey
	}

	var markets []geckoMarket
	if err := a.getJSON(ctx, "coingecko", a.gecko.BaseURL, "/coins/markets", q, headers, &markets); err != nil {
		return nil, err
	}

	now := time.Now()
	assets := make([]models.CryptoAsset, 0, len(markets))
	for _, m := range markets {
		if m.ID == "" {
			continue
		}
		spark := m.Sparkline.Price
		if len(spark) > models.SparklineCap {
			spark = spark[len(spark)-models.SparklineCap:]
		}
		assets = append(assets, models.CryptoAsset{
			ID:        m.ID,
			Symbol:    strings.ToUpper(m.Symbol),
			Name:      m.Name,
			Price:     numStr(m.Price, "0"),
			Change24h: numStr(m.Change24h, "0"),
			MarketCap: numStr(m.MarketCap, "0"),
			Volume24h: numStr(m.Volume, "0"),
			Sparkline: spark,
			UpdatedAt: now,
		})
	}
	return assets, nil
}

type paprikaTicker struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Quotes struct {
		USD struct {
			Price     json.Number `json:"price"`
			Change24h json.Number `json:"percent_change_24h"`
			MarketCap json.Number `json:"market_cap"`
			Volume    json.Number `json:"volume_24h"`
		} `json:"USD"`
	} `json:"quotes"`
}

func (a *PricesAdapter) fetchCoinPaprika(ctx context.Context) ([]models.CryptoAsset, error) {
	q := url.Values{}
	q.Set("quotes", "USD")
	q.Set("limit", "50")

	var tickers []paprikaTicker
	if err := a.getJSON(ctx, "coinpaprika", a.paprika.BaseURL, "/tickers", q, nil, &tickers); err != nil {
		return nil, err
	}

	now := time.Now()
	assets := make([]models.CryptoAsset, 0, len(tickers))
	for _, t := range tickers {
		if t.ID == "" {
			continue
		}
		usd := t.Quotes.USD
		assets = append(assets, models.CryptoAsset{
			ID:        t.ID,
			Symbol:    strings.ToUpper(t.Symbol),
			Name:      t.Name,
			Price:     numStr(usd.Price, "0"),
			Change24h: numStr(usd.Change24h, "0"),
			MarketCap: numStr(usd.MarketCap, "0"),
			Volume24h: numStr(usd.Volume, "0"),
			UpdatedAt: now,
		})
	}
	return assets, nil
}
