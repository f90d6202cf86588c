package models

import "time"

// SparklineCap bounds the recent-price sample series carried by an asset.
const SparklineCap = 48

// CryptoAsset is the latest known state of one tracked asset.
// Monetary and percentage fields are decimal strings carrying the providers'
// exact JSON number text, so no binary-float precision is lost on the way to
// clients. Price and UpdatedAt are always written together.
type CryptoAsset struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Change24h string    `json:"change24h"`
	MarketCap string    `json:"marketCap"`
	Volume24h string    `json:"volume24h"`
	Sparkline []float64 `json:"sparkline,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarketSummary is the single aggregate record for the whole market.
// Writes replace the record as a whole.
type MarketSummary struct {
	TotalMarketCap string    `json:"totalMarketCap"`
	TotalVolume    string    `json:"totalVolume"`
	BTCDominance   string    `json:"btcDominance"`
	FearGreedIndex int       `json:"fearGreedIndex"`
	Change24h      string    `json:"change24h"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
