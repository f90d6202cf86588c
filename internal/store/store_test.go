package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
)

func asset(id, marketCap, volume, change string) models.CryptoAsset {
	return models.CryptoAsset{
		ID: id, Symbol: id, Name: id,
		Price: "1", MarketCap: marketCap, Volume24h: volume, Change24h: change,
		UpdatedAt: time.Now(),
	}
}

func TestUpsertReplacesWhole(t *testing.T) {
	s := New(DefaultCaps())
	s.UpsertAsset(asset("btc", "100", "10", "1"))
	s.UpsertAsset(models.CryptoAsset{ID: "btc", Symbol: "BTC", Price: "2", MarketCap: "200"})

	got, ok := s.GetAsset("btc")
	if !ok {
		t.Fatal("asset missing after upsert")
	}
	if got.Price != "2" || got.Volume24h != "" {
		t.Fatalf("upsert must replace the whole record, got %+v", got)
	}
}

func TestListAssetsNumericDescending(t *testing.T) {
	s := New(DefaultCaps())
	// Lexicographic order would put "9" after "1000000"; numeric must not.
	s.UpsertAsset(asset("a", "9", "5", "0.5"))
	s.UpsertAsset(asset("b", "1000000", "2", "-3"))
	s.UpsertAsset(asset("c", "42.5", "9", "2.25"))

	got := s.ListAssets(SortByMarketCap, 0)
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("market_cap order[%d] = %s, want %s", i, got[i].ID, id)
		}
	}

	got = s.ListAssets(SortByVolume, 2)
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("volume order with limit: %+v", got)
	}

	got = s.ListAssets(SortByChange, 0)
	if got[0].ID != "c" || got[2].ID != "b" {
		t.Fatalf("change order must handle negatives: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSparklineBounded(t *testing.T) {
	s := New(DefaultCaps())
	spark := make([]float64, models.SparklineCap+20)
	for i := range spark {
		spark[i] = float64(i)
	}
	a := asset("btc", "1", "1", "1")
	a.Sparkline = spark

	got := s.UpsertAsset(a)
	if len(got.Sparkline) != models.SparklineCap {
		t.Fatalf("sparkline len = %d, want %d", len(got.Sparkline), models.SparklineCap)
	}
	// The newest points survive.
	if got.Sparkline[len(got.Sparkline)-1] != float64(len(spark)-1) {
		t.Fatal("sparkline must keep the tail")
	}
}

func TestInsertNewsDedupes(t *testing.T) {
	s := New(DefaultCaps())
	orig := models.NewsItem{ID: "n1", Title: "first", Category: "crypto", PublishedAt: time.Now()}
	s.InsertNews(orig)
	got := s.InsertNews(models.NewsItem{ID: "n1", Title: "imposter", Category: "crypto"})

	if got.Title != "first" {
		t.Fatalf("dedup must keep the original, got %q", got.Title)
	}
	if items := s.ListNews("", 0); len(items) != 1 {
		t.Fatalf("store holds %d items, want 1", len(items))
	}
}

func TestNewsCapDropsOldest(t *testing.T) {
	s := New(Caps{News: 3, Whales: 3, Events: 3, Fed: 3})
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.InsertNews(models.NewsItem{
			ID: fmt.Sprintf("n%d", i), Title: "t", Category: "crypto",
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	items := s.ListNews("", 0)
	if len(items) != 3 {
		t.Fatalf("got %d items, want cap 3", len(items))
	}
	for _, it := range items {
		if it.ID == "n0" || it.ID == "n1" {
			t.Fatalf("oldest item %s must have been evicted", it.ID)
		}
	}
}

func TestListEventsRangeAndOrder(t *testing.T) {
	s := New(DefaultCaps())
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	s.InsertEvent(models.EconomicEvent{ID: "later", Title: "b", Country: "US", EventAt: base.Add(48 * time.Hour)})
	s.InsertEvent(models.EconomicEvent{ID: "sooner", Title: "a", Country: "US", EventAt: base.Add(12 * time.Hour)})
	s.InsertEvent(models.EconomicEvent{ID: "eu", Title: "c", Country: "EU", EventAt: base.Add(24 * time.Hour)})

	got := s.ListEvents("US", time.Time{}, time.Time{}, 0)
	if len(got) != 2 || got[0].ID != "sooner" {
		t.Fatalf("soonest-first order broken: %+v", got)
	}

	got = s.ListEvents("", base, base.Add(30*time.Hour), 0)
	if len(got) != 2 {
		t.Fatalf("range filter returned %d, want 2", len(got))
	}
}

func TestWhalesNewestFirst(t *testing.T) {
	s := New(DefaultCaps())
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	s.InsertWhale(models.WhaleTransaction{ID: "old", Symbol: "BTC", Direction: models.DirectionInflow, Timestamp: base})
	s.InsertWhale(models.WhaleTransaction{ID: "new", Symbol: "BTC", Direction: models.DirectionOutflow, Timestamp: base.Add(time.Hour)})
	s.InsertWhale(models.WhaleTransaction{ID: "eth", Symbol: "ETH", Direction: models.DirectionTransfer, Timestamp: base.Add(2 * time.Hour)})

	got := s.ListWhales("BTC", 0)
	if len(got) != 2 || got[0].ID != "new" {
		t.Fatalf("newest-first symbol filter broken: %+v", got)
	}
}

func TestFedTypeFilter(t *testing.T) {
	s := New(DefaultCaps())
	now := time.Now()
	s.InsertFedUpdate(models.FedUpdate{ID: "r", Type: models.FedTypeRateDecision, Title: "a", PublishedAt: now})
	s.InsertFedUpdate(models.FedUpdate{ID: "m", Type: models.FedTypeMinutes, Title: "b", PublishedAt: now})

	got := s.ListFedUpdates(models.FedTypeMinutes, 0)
	if len(got) != 1 || got[0].ID != "m" {
		t.Fatalf("type filter broken: %+v", got)
	}
}

func TestSummaryLifecycle(t *testing.T) {
	s := New(DefaultCaps())
	if _, ok := s.Summary(); ok {
		t.Fatal("summary must be absent before first write")
	}
	s.SetSummary(models.MarketSummary{TotalMarketCap: "1", FearGreedIndex: 61, UpdatedAt: time.Now()})
	got, ok := s.Summary()
	if !ok || got.FearGreedIndex != 61 {
		t.Fatalf("summary round trip broken: %+v ok=%v", got, ok)
	}
}

func TestSnapshotCoversAllKinds(t *testing.T) {
	s := New(DefaultCaps())
	now := time.Now()
	s.UpsertAsset(asset("btc", "1", "1", "1"))
	s.SetSummary(models.MarketSummary{TotalMarketCap: "1", UpdatedAt: now})
	s.InsertNews(models.NewsItem{ID: "n", Category: "crypto", PublishedAt: now})
	s.InsertWhale(models.WhaleTransaction{ID: "w", Symbol: "BTC", Timestamp: now})
	s.InsertEvent(models.EconomicEvent{ID: "e", Country: "US", EventAt: now})
	s.InsertFedUpdate(models.FedUpdate{ID: "f", Type: models.FedTypeMinutes, PublishedAt: now})

	snap := s.Snapshot()
	if len(snap.Assets) != 1 || snap.Summary == nil || len(snap.News) != 1 ||
		len(snap.Whales) != 1 || len(snap.Events) != 1 || len(snap.Fed) != 1 {
		t.Fatalf("snapshot incomplete: %+v", snap)
	}
}
