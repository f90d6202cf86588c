package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	apphttp "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordCycle(string, string)    {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordBroadcast(string)        {}
func (nopMetrics) RecordRateLimited(string)      {}
func (nopMetrics) SetConnectedObservers(int)     {}

type openGate struct{}

func (openGate) Allow(string) bool { return true }

type closedGate struct{}

func (closedGate) Allow(string) bool { return false }

func testDeps(gate Gate) Deps {
	return Deps{
		Client:  apphttp.NewClient(),
		Gate:    gate,
		Log:     logger.Nop(),
		Metrics: nopMetrics{},
	}
}

func provider(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{BaseURL: baseURL}
}

func TestPricesFallbackWhenUpstreamFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewPricesAdapter(provider(srv.URL), provider(srv.URL), testDeps(openGate{}))
	assets, live := a.Fetch(context.Background())

	if live {
		t.Fatal("expected fallback result when both providers fail")
	}
	var btc *models.CryptoAsset
	for i := range assets {
		if assets[i].ID == "bitcoin" {
			btc = &assets[i]
		}
	}
	if btc == nil {
		t.Fatal("fallback set missing bitcoin")
	}
	if btc.Price != "43250.50" {
		t.Fatalf("fallback BTC price = %q, want 43250.50", btc.Price)
	}
}

func TestPricesMergesBothProviders(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin",
			"current_price":67123.45,"price_change_percentage_24h":1.2,
			"market_cap":1320000000000,"total_volume":31000000000,
			"sparkline_in_7d":{"price":[66000,66500,67123.45]}}]`))
	}))
	defer gecko.Close()

	paprika := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tickers" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"eth-ethereum","symbol":"eth","name":"Ethereum",
			"quotes":{"USD":{"price":3500.10,"percent_change_24h":-0.5,
			"market_cap":420000000000,"volume_24h":15000000000}}}]`))
	}))
	defer paprika.Close()

	a := NewPricesAdapter(provider(gecko.URL), provider(paprika.URL), testDeps(openGate{}))
	assets, live := a.Fetch(context.Background())

	if !live {
		t.Fatal("expected live result")
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	byID := map[string]models.CryptoAsset{}
	for _, a := range assets {
		byID[a.ID] = a
	}
	if btc := byID["bitcoin"]; btc.Price != "67123.45" || btc.Symbol != "BTC" {
		t.Fatalf("unexpected bitcoin normalization: %+v", btc)
	}
	if eth := byID["eth-ethereum"]; eth.Price != "3500.10" || eth.Change24h != "-0.5" {
		t.Fatalf("unexpected ethereum normalization: %+v", eth)
	}
}

func TestPricesGateDenialFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("gated adapter must not reach upstream")
	}))
	defer srv.Close()

	a := NewPricesAdapter(provider(srv.URL), provider(srv.URL), testDeps(closedGate{}))
	assets, live := a.Fetch(context.Background())
	if live {
		t.Fatal("expected fallback when the outbound gate denies")
	}
	if len(assets) == 0 {
		t.Fatal("fallback set must not be empty")
	}
}

func TestAggregateFearGreedBestEffort(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"total_market_cap":{"usd":2500000000000},
			"total_volume":{"usd":98000000000},
			"market_cap_percentage":{"btc":54.2},
			"market_cap_change_percentage_24h_usd":1.7}}`))
	}))
	defer gecko.Close()

	a := NewAggregateAdapter(provider(gecko.URL), provider(""), testDeps(openGate{}))
	summary, live := a.Fetch(context.Background())

	if !live {
		t.Fatal("expected live result when global stats answer")
	}
	if summary.BTCDominance != "54.2" {
		t.Fatalf("BTCDominance = %q, want 54.2", summary.BTCDominance)
	}
	if summary.FearGreedIndex != 50 {
		t.Fatalf("FearGreedIndex = %d, want neutral 50 when feed disabled", summary.FearGreedIndex)
	}
}

func TestNewsClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":1,"title":"Exchange hack drains $40M","published_at":"2026-08-30T10:00:00Z",
			 "source":{"title":"Wire"},"votes":{"positive":1,"negative":9}},
			{"id":2,"title":"New DeFi partnership announced","published_at":"2026-08-30T09:00:00Z",
			 "source":{"domain":"example.com"},"votes":{}}
		]}`))
	}))
	defer srv.Close()

	a := NewNewsAdapter(provider(srv.URL), testDeps(openGate{}))
	items, live := a.Fetch(context.Background())

	if !live || len(items) != 2 {
		t.Fatalf("got live=%v len=%d, want live with 2 items", live, len(items))
	}
	if items[0].Impact != models.ImpactHigh {
		t.Fatalf("hack headline impact = %q, want high", items[0].Impact)
	}
	if items[0].Sentiment == nil || *items[0].Sentiment != "negative" {
		t.Fatalf("expected negative sentiment, got %v", items[0].Sentiment)
	}
	if items[1].Impact != models.ImpactMedium {
		t.Fatalf("partnership headline impact = %q, want medium", items[1].Impact)
	}
	if items[1].Source != "example.com" {
		t.Fatalf("source fallback to domain failed: %q", items[1].Source)
	}
}

func TestWhaleDirectionRule(t *testing.T) {
	cases := []struct {
		name string
		from whaleParty
		to   whaleParty
		want string
	}{
		{"wallet to exchange", whaleParty{OwnerType: "unknown"}, whaleParty{OwnerType: "exchange"}, models.DirectionInflow},
		{"exchange to wallet", whaleParty{OwnerType: "exchange"}, whaleParty{OwnerType: "unknown"}, models.DirectionOutflow},
		{"exchange to exchange", whaleParty{OwnerType: "exchange"}, whaleParty{OwnerType: "exchange"}, models.DirectionTransfer},
		{"wallet to wallet", whaleParty{}, whaleParty{}, models.DirectionTransfer},
	}
	for _, tc := range cases {
		if got := classifyDirection(tc.from, tc.to); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestWhalesSkipBelowMinimum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transactions":[
			{"id":10,"hash":"aa","symbol":"btc","amount":500,"amount_usd":30000000,
			 "from":{"owner_type":"unknown"},"to":{"owner":"binance","owner_type":"exchange"},
			 "timestamp":1756700000},
			{"id":11,"hash":"bb","symbol":"eth","amount":2,"amount_usd":7000,
			 "from":{},"to":{},"timestamp":1756700100}
		]}`))
	}))
	defer srv.Close()

	a := NewWhalesAdapter(provider(srv.URL), testDeps(openGate{}))
	txs, live := a.Fetch(context.Background())

	if !live || len(txs) != 1 {
		t.Fatalf("got live=%v len=%d, want live with 1 transfer", live, len(txs))
	}
	if txs[0].Direction != models.DirectionInflow {
		t.Fatalf("direction = %q, want inflow", txs[0].Direction)
	}
	if txs[0].ToLabel == nil || *txs[0].ToLabel != "binance" {
		t.Fatalf("expected exchange label, got %v", txs[0].ToLabel)
	}
}

func TestFedTypeClassification(t *testing.T) {
	cases := map[string]string{
		"FOMC Statement":                  models.FedTypeRateDecision,
		"Minutes of the FOMC":             models.FedTypeMinutes,
		"Chair Testimony before Congress": models.FedTypeSpeech,
		"Summary of Economic Projections": models.FedTypeProjection,
	}
	for title, want := range cases {
		if got := classifyFedType(title); got != want {
			t.Errorf("classifyFedType(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestCalendarImpactMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"e1","title":"CPI YoY","country":"us","currency":"usd",
			 "impact":"High","forecast":"3.1%","date":"2026-09-02T12:30:00Z"},
			{"title":"Retail Sales","country":"de","impact":"2","date":"2026-09-03"}
		]`))
	}))
	defer srv.Close()

	a := NewCalendarAdapter(provider(srv.URL), testDeps(openGate{}))
	events, live := a.Fetch(context.Background())

	if !live || len(events) != 2 {
		t.Fatalf("got live=%v len=%d, want live with 2 events", live, len(events))
	}
	if events[0].Impact != models.ImpactHigh || events[0].Country != "US" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Impact != models.ImpactMedium {
		t.Fatalf("numeric impact mapping failed: %+v", events[1])
	}
	if events[1].ID == "cal-" {
		t.Fatal("missing provider id must be generated")
	}
}
