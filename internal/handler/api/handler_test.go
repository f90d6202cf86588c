package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/adapter"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/handler/ws"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/service/ratelimit"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/store"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/usecase"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/cache"
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

// newTestServer wires the handler over disabled providers, so every refresh
// cycle runs on fallback data.
func newTestServer(t *testing.T, inboundMax int) (*echo.Echo, *store.Store) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Refresh.Prices = time.Minute
	cfg.Refresh.Aggregate = time.Minute
	cfg.Refresh.News = time.Minute
	cfg.Refresh.Whales = time.Minute
	cfg.Refresh.Calendar = time.Minute
	cfg.Refresh.Fed = time.Minute

	st := store.New(store.DefaultCaps())
	log := logger.Nop()

	sources := adapter.NewSources(cfg, adapter.Deps{
		Client:  apphttp.NewClient(),
		Log:     log,
		Metrics: nopMetrics{},
	})
	hub := ws.NewHub(st, nil, nopMetrics{}, log)
	refresher := usecase.NewRefresher(cfg, sources, st, hub, nil, nopMetrics{}, log)

	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(100))
	t.Cleanup(func() { mem.Close() })

	gate := ratelimit.New(time.Minute, inboundMax)
	t.Cleanup(gate.Close)

	h := NewHandler(log, st, refresher, hub, mem, time.Second, gate, time.Minute, nil)
	e := echo.New()
	h.RegisterRoutes(e)
	return e, st
}

func doRequest(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestAssetsSortedByMarketCap(t *testing.T) {
	e, st := newTestServer(t, 100)
	st.UpsertAsset(models.CryptoAsset{ID: "small", Symbol: "SML", MarketCap: "1000", UpdatedAt: time.Now()})
	st.UpsertAsset(models.CryptoAsset{ID: "big", Symbol: "BIG", MarketCap: "90000000000", UpdatedAt: time.Now()})

	rec := doRequest(e, http.MethodGet, "/api/crypto")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("expected success envelope")
	}
	var assets []models.CryptoAsset
	if err := json.Unmarshal(env.Data, &assets); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(assets) != 2 || assets[0].ID != "big" {
		t.Fatalf("unexpected order: %+v", assets)
	}
}

func TestAssetNotFoundEnvelope(t *testing.T) {
	e, _ := newTestServer(t, 100)

	rec := doRequest(e, http.MethodGet, "/api/crypto/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatal("404 must carry a failure envelope")
	}
	if env.Code != "ERR_NOT_FOUND" {
		t.Fatalf("404 code = %q, want ERR_NOT_FOUND", env.Code)
	}
	if env.Message == "" {
		t.Fatal("404 envelope must carry a message")
	}
}

func TestAssetsValidationError(t *testing.T) {
	e, _ := newTestServer(t, 100)

	rec := doRequest(e, http.MethodGet, "/api/crypto?sort=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatal("validation failure must carry a failure envelope")
	}
	if env.Code != "ERR_VALIDATION" {
		t.Fatalf("400 code = %q, want ERR_VALIDATION", env.Code)
	}
}

func TestInboundGateDenies(t *testing.T) {
	e, _ := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		if rec := doRequest(e, http.MethodGet, "/api/market-summary"); rec.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d unexpectedly gated", i)
		}
	}
	rec := doRequest(e, http.MethodGet, "/api/market-summary")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q, want the 60s gate window", rec.Header().Get("Retry-After"))
	}
	if env := decodeEnvelope(t, rec); env.Code != "ERR_RATE_LIMITED" {
		t.Fatalf("429 code = %q, want ERR_RATE_LIMITED", env.Code)
	}
}

func TestNewsCategoryFilterNewestFirst(t *testing.T) {
	e, st := newTestServer(t, 100)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		st.InsertNews(models.NewsItem{
			ID: fmt.Sprintf("c%d", i), Title: fmt.Sprintf("crypto %d", i),
			Source: "t", Category: "crypto", Impact: models.ImpactLow,
			PublishedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	st.InsertNews(models.NewsItem{
		ID: "other", Title: "macro", Source: "t", Category: "economy",
		Impact: models.ImpactLow, PublishedAt: base.Add(time.Hour),
	})

	rec := doRequest(e, http.MethodGet, "/api/news?category=crypto&limit=5")
	env := decodeEnvelope(t, rec)
	var items []models.NewsItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	if items[0].ID != "c5" || items[4].ID != "c1" {
		t.Fatalf("unexpected order: first=%s last=%s", items[0].ID, items[4].ID)
	}
	for _, it := range items {
		if it.Category != "crypto" {
			t.Fatalf("category filter leaked %q", it.ID)
		}
	}
}

func TestCalendarDateRange(t *testing.T) {
	e, st := newTestServer(t, 100)
	st.InsertEvent(models.EconomicEvent{
		ID: "in", Title: "CPI", Country: "US", Impact: models.ImpactHigh,
		EventAt: time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC),
	})
	st.InsertEvent(models.EconomicEvent{
		ID: "out", Title: "GDP", Country: "US", Impact: models.ImpactHigh,
		EventAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	})

	rec := doRequest(e, http.MethodGet, "/api/calendar?from=2026-09-01&to=2026-09-03")
	env := decodeEnvelope(t, rec)
	var events []models.EconomicEvent
	if err := json.Unmarshal(env.Data, &events); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(events) != 1 || events[0].ID != "in" {
		t.Fatalf("unexpected range result: %+v", events)
	}
}

func TestRefreshAckAndFallbackSeed(t *testing.T) {
	e, st := newTestServer(t, 100)

	rec := doRequest(e, http.MethodPost, "/api/refresh/prices")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message == "" {
		t.Fatalf("expected ack envelope, got %s", rec.Body.String())
	}
	if len(env.Data) != 0 && string(env.Data) != "null" {
		t.Fatalf("ack must not carry data, got %s", env.Data)
	}

	btc, ok := st.GetAsset("bitcoin")
	if !ok || btc.Price != "43250.50" {
		t.Fatalf("fallback seed missing, got %+v ok=%v", btc, ok)
	}
}

func TestRefreshUnknownConcern(t *testing.T) {
	e, _ := newTestServer(t, 100)

	rec := doRequest(e, http.MethodPost, "/api/refresh/weather")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "ERR_VALIDATION" {
		t.Fatalf("400 code = %q, want ERR_VALIDATION", env.Code)
	}
}

func TestListResponsesServedFromCache(t *testing.T) {
	e, st := newTestServer(t, 100)
	st.UpsertAsset(models.CryptoAsset{ID: "one", Symbol: "ONE", MarketCap: "10", UpdatedAt: time.Now()})

	first := doRequest(e, http.MethodGet, "/api/crypto?limit=10")
	st.UpsertAsset(models.CryptoAsset{ID: "two", Symbol: "TWO", MarketCap: "20", UpdatedAt: time.Now()})
	second := doRequest(e, http.MethodGet, "/api/crypto?limit=10")

	if first.Body.String() != second.Body.String() {
		t.Fatal("cached window must serve the same body")
	}
}
