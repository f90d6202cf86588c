package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/adapter"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/repository"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/store"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	apphttp "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

type recordingMetrics struct {
	mu     sync.Mutex
	cycles map[string]string
}

func (m *recordingMetrics) RecordCycle(concern, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cycles == nil {
		m.cycles = map[string]string{}
	}
	m.cycles[concern] = result
}
func (m *recordingMetrics) RecordError(string)            {}
func (m *recordingMetrics) RecordLatency(string, float64) {}
func (m *recordingMetrics) RecordBroadcast(string)        {}
func (m *recordingMetrics) RecordRateLimited(string)      {}
func (m *recordingMetrics) SetConnectedObservers(int)     {}

type recordingHub struct {
	mu    sync.Mutex
	kinds []string
}

func (h *recordingHub) Broadcast(kind string, payload interface{}) {
	h.mu.Lock()
	h.kinds = append(h.kinds, kind)
	h.mu.Unlock()
}

func (h *recordingHub) broadcasts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.kinds...)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key []byte, _ interface{}) error {
	p.mu.Lock()
	p.keys = append(p.keys, string(key))
	p.mu.Unlock()
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func newTestRefresher(t *testing.T, pub repository.Publisher) (*Refresher, *store.Store, *recordingHub, *recordingMetrics) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Refresh.Prices = time.Minute
	cfg.Refresh.Aggregate = time.Minute
	cfg.Refresh.News = time.Minute
	cfg.Refresh.Whales = time.Minute
	cfg.Refresh.Calendar = time.Minute
	cfg.Refresh.Fed = time.Minute

	st := store.New(store.DefaultCaps())
	hub := &recordingHub{}
	metrics := &recordingMetrics{}
	sources := adapter.NewSources(cfg, adapter.Deps{
		Client:  apphttp.NewClient(),
		Log:     logger.Nop(),
		Metrics: metrics,
	})
	return NewRefresher(cfg, sources, st, hub, pub, metrics, logger.Nop()), st, hub, metrics
}

func TestPricesCycleFallbackSeedsStoreAndBroadcastsOnce(t *testing.T) {
	r, st, hub, metrics := newTestRefresher(t, nil)

	r.TriggerPrices(context.Background())

	btc, ok := st.GetAsset("bitcoin")
	if !ok || btc.Price != "43250.50" {
		t.Fatalf("fallback BTC missing: %+v ok=%v", btc, ok)
	}

	kinds := hub.broadcasts()
	if len(kinds) != 1 || kinds[0] != repository.KindCryptoUpdate {
		t.Fatalf("broadcasts = %v, want exactly one CRYPTO_UPDATE", kinds)
	}
	if metrics.cycles[ConcernPrices] != "fallback" {
		t.Fatalf("cycle result = %q, want fallback", metrics.cycles[ConcernPrices])
	}
}

func TestEveryConcernBroadcastsItsKind(t *testing.T) {
	r, _, hub, _ := newTestRefresher(t, nil)
	ctx := context.Background()

	r.TriggerAggregate(ctx)
	r.TriggerNews(ctx)
	r.TriggerWhales(ctx)
	r.TriggerCalendar(ctx)
	r.TriggerFed(ctx)

	want := []string{
		repository.KindCryptoUpdate,
		repository.KindNewsUpdate,
		repository.KindWhaleUpdate,
		repository.KindCalendarUpdate,
		repository.KindFedUpdate,
	}
	got := hub.broadcasts()
	if len(got) != len(want) {
		t.Fatalf("broadcasts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("broadcast[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExportPublishesEnvelope(t *testing.T) {
	pub := &recordingPublisher{}
	r, _, _, _ := newTestRefresher(t, pub)

	r.TriggerNews(context.Background())

	if len(pub.keys) != 1 || pub.keys[0] != repository.KindNewsUpdate {
		t.Fatalf("export keys = %v, want one NEWS_UPDATE", pub.keys)
	}
}

func TestTriggerUnknownConcern(t *testing.T) {
	r, _, _, _ := newTestRefresher(t, nil)
	if err := r.Trigger(context.Background(), "weather"); err == nil {
		t.Fatal("unknown concern must error")
	}
}

func TestTriggerDispatch(t *testing.T) {
	r, st, _, _ := newTestRefresher(t, nil)
	if err := r.Trigger(context.Background(), ConcernAggregate); err != nil {
		t.Fatalf("trigger aggregate: %v", err)
	}
	sum, ok := st.Summary()
	if !ok || sum.FearGreedIndex != 50 {
		t.Fatalf("aggregate fallback summary missing: %+v ok=%v", sum, ok)
	}
}
