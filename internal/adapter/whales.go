package adapter

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

// WhalesAdapter pulls large transfers from a whale-alert-shape feed.
// Direction is classified from the owner types of both legs.
type WhalesAdapter struct {
	base
	provider config.ProviderConfig
	minUSD   int64
}

func NewWhalesAdapter(provider config.ProviderConfig, deps Deps) *WhalesAdapter {
	return &WhalesAdapter{base: base{deps: deps}, provider: provider, minUSD: 500000}
}

type whaleParty struct {
	Address   string `json:"address"`
	Owner     string `json:"owner"`
	OwnerType string `json:"owner_type"`
}

type whaleFeed struct {
	Transactions []struct {
		ID        json.Number `json:"id"`
		Hash      string      `json:"hash"`
		Symbol    string      `json:"symbol"`
		Amount    json.Number `json:"amount"`
		AmountUSD json.Number `json:"amount_usd"`
		From      whaleParty  `json:"from"`
		To        whaleParty  `json:"to"`
		Timestamp int64       `json:"timestamp"`
	} `json:"transactions"`
}

// Fetch returns transfers at or above the minimum USD value and whether the
// feed answered.
func (a *WhalesAdapter) Fetch(ctx context.Context) ([]models.WhaleTransaction, bool) {
	q := url.Values{}
	q.Set("min_value", strconv.FormatInt(a.minUSD, 10))
	q.Set("start", strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10))
	if a.provider.APIKey != "" {
		q.Set("api_key", a.provider.APIKey)
	}

	var feed whaleFeed
	if err := a.getJSON(ctx, "whale_alert", a.provider.BaseURL, "/transactions", q, nil, &feed); err != nil {
		a.deps.Log.Warn("whale feed unavailable", logger.Error(err))
		return fallbackWhales(time.Now()), false
	}

	out := make([]models.WhaleTransaction, 0, len(feed.Transactions))
	for _, tx := range feed.Transactions {
		if tx.ID.String() == "" && tx.Hash == "" {
			continue
		}
		if usd, err := tx.AmountUSD.Float64(); err == nil && usd < float64(a.minUSD) {
			continue
		}
		id := tx.ID.String()
		if id == "" {
			id = tx.Hash
		}
		out = append(out, models.WhaleTransaction{
			ID:          "wa-" + id,
			Symbol:      strings.ToUpper(tx.Symbol),
			TxHash:      tx.Hash,
			Amount:      numStr(tx.Amount, "0"),
			AmountUSD:   strPtr(tx.AmountUSD.String()),
			Direction:   classifyDirection(tx.From, tx.To),
			FromAddress: strPtr(tx.From.Address),
			ToAddress:   strPtr(tx.To.Address),
			FromLabel:   strPtr(tx.From.Owner),
			ToLabel:     strPtr(tx.To.Owner),
			Timestamp:   time.Unix(tx.Timestamp, 0).UTC(),
		})
	}
	return out, true
}

// classifyDirection: money moving onto an exchange is an inflow, off an
// exchange an outflow, anything else a plain transfer.
func classifyDirection(from, to whaleParty) string {
	fromExchange := from.OwnerType == "exchange"
	toExchange := to.OwnerType == "exchange"
	switch {
	case toExchange && !fromExchange:
		return models.DirectionInflow
	case fromExchange && !toExchange:
		return models.DirectionOutflow
	default:
		return models.DirectionTransfer
	}
}
