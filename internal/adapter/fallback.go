package adapter

import (
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
)

// Fallback datasets keep every surface populated when a provider is down,
// unconfigured, or gated. Values are fixed; timestamps are taken relative to
// the call so ordering stays sane across restarts.

func fallbackAssets(now time.Time) []models.CryptoAsset {
	return []models.CryptoAsset{
		{
			ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin",
			Price: "43250.50", Change24h: "2.15", MarketCap: "847000000000", Volume24h: "28500000000",
			Sparkline: []float64{42100, 42350, 42800, 43100, 42950, 43250.50},
			UpdatedAt: now,
		},
		{
			ID: "ethereum", Symbol: "ETH", Name: "Ethereum",
			Price: "2280.75", Change24h: "1.42", MarketCap: "274000000000", Volume24h: "12400000000",
			Sparkline: []float64{2245, 2251, 2268, 2290, 2275, 2280.75},
			UpdatedAt: now,
		},
		{
			ID: "binancecoin", Symbol: "BNB", Name: "BNB",
			Price: "312.15", Change24h: "-0.68", MarketCap: "48000000000", Volume24h: "1200000000",
			Sparkline: []float64{315.2, 314.1, 313.5, 311.8, 312.6, 312.15},
			UpdatedAt: now,
		},
		{
			ID: "solana", Symbol: "SOL", Name: "Solana",
			Price: "98.40", Change24h: "4.87", MarketCap: "42500000000", Volume24h: "3100000000",
			Sparkline: []float64{93.1, 94.5, 95.8, 97.2, 98.9, 98.40},
			UpdatedAt: now,
		},
		{
			ID: "ripple", Symbol: "XRP", Name: "XRP",
			Price: "0.5245", Change24h: "-1.23", MarketCap: "28300000000", Volume24h: "1450000000",
			Sparkline: []float64{0.533, 0.531, 0.528, 0.526, 0.523, 0.5245},
			UpdatedAt: now,
		},
	}
}

func fallbackSummary(now time.Time) models.MarketSummary {
	return models.MarketSummary{
		TotalMarketCap: "1680000000000",
		TotalVolume:    "85400000000",
		BTCDominance:   "52.3",
		FearGreedIndex: 50,
		Change24h:      "0.85",
		UpdatedAt:      now,
	}
}

func fallbackNews(now time.Time) []models.NewsItem {
	return []models.NewsItem{
		{
			ID: "fallback-news-1", Title: "Bitcoin ETF inflows hit weekly high",
			Source: "sample", Category: "crypto", Impact: models.ImpactHigh,
			PublishedAt: now.Add(-30 * time.Minute),
		},
		{
			ID: "fallback-news-2", Title: "Ethereum staking rate climbs past 28%",
			Source: "sample", Category: "crypto", Impact: models.ImpactLow,
			PublishedAt: now.Add(-2 * time.Hour),
		},
		{
			ID: "fallback-news-3", Title: "EU parliament advances stablecoin regulation framework",
			Source: "sample", Category: "regulation", Impact: models.ImpactMedium,
			PublishedAt: now.Add(-4 * time.Hour),
		},
		{
			ID: "fallback-news-4", Title: "Treasury yields ease ahead of inflation print",
			Source: "sample", Category: "economy", Impact: models.ImpactMedium,
			PublishedAt: now.Add(-6 * time.Hour),
		},
	}
}

func fallbackWhales(now time.Time) []models.WhaleTransaction {
	return []models.WhaleTransaction{
		{
			ID: "fallback-whale-1", Symbol: "BTC", TxHash: "f4a1b0",
			Amount: "1250.0", AmountUSD: strPtr("54063125.00"),
			Direction: models.DirectionInflow,
			ToLabel:   strPtr("binance"),
			Timestamp: now.Add(-15 * time.Minute),
		},
		{
			ID: "fallback-whale-2", Symbol: "ETH", TxHash: "09cc7e",
			Amount: "18000.0", AmountUSD: strPtr("41053500.00"),
			Direction: models.DirectionOutflow,
			FromLabel: strPtr("coinbase"),
			Timestamp: now.Add(-45 * time.Minute),
		},
		{
			ID: "fallback-whale-3", Symbol: "USDT", TxHash: "77d2ba",
			Amount: "25000000.0", AmountUSD: strPtr("25000000.00"),
			Direction: models.DirectionTransfer,
			Timestamp: now.Add(-90 * time.Minute),
		},
	}
}

func fallbackEvents(now time.Time) []models.EconomicEvent {
	return []models.EconomicEvent{
		{
			ID: "fallback-event-1", Title: "CPI YoY", Country: "US",
			Currency: strPtr("USD"), Impact: models.ImpactHigh,
			Forecast: strPtr("3.1%"), Previous: strPtr("3.4%"),
			EventAt: now.Add(24 * time.Hour),
		},
		{
			ID: "fallback-event-2", Title: "ECB Interest Rate Decision", Country: "EU",
			Currency: strPtr("EUR"), Impact: models.ImpactHigh,
			Forecast: strPtr("4.50%"), Previous: strPtr("4.50%"),
			EventAt: now.Add(48 * time.Hour),
		},
		{
			ID: "fallback-event-3", Title: "Unemployment Claims", Country: "US",
			Currency: strPtr("USD"), Impact: models.ImpactMedium,
			Forecast: strPtr("218K"), Previous: strPtr("212K"),
			EventAt: now.Add(72 * time.Hour),
		},
	}
}

func fallbackFed(now time.Time) []models.FedUpdate {
	return []models.FedUpdate{
		{
			ID: "fallback-fed-1", Title: "FOMC Statement", Type: models.FedTypeRateDecision,
			Rate:        strPtr("5.50"),
			PublishedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "fallback-fed-2", Title: "Minutes of the Federal Open Market Committee", Type: models.FedTypeMinutes,
			PublishedAt: now.Add(-72 * time.Hour),
		},
	}
}
