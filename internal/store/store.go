package store

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
)

// Asset sort keys accepted by ListAssets. All three sort descending.
const (
	SortByMarketCap = "market_cap"
	SortByVolume    = "volume"
	SortByChange    = "change"
)

// Caps bound the append-only kinds; the oldest record is dropped beyond the cap.
type Caps struct {
	News   int
	Whales int
	Events int
	Fed    int
}

// DefaultCaps returns the documented per-kind retention caps.
func DefaultCaps() Caps {
	return Caps{News: 200, Whales: 200, Events: 500, Fed: 100}
}

// Store is the volatile in-memory repository, one backing map per entity kind.
// Each kind group is guarded by its own mutex, so operations are atomic with
// respect to one kind but cross-kind reads are not a consistent cut.
type Store struct {
	caps Caps

	assetsMu sync.RWMutex
	assets   map[string]models.CryptoAsset

	summaryMu sync.RWMutex
	summary   *models.MarketSummary

	newsMu sync.RWMutex
	news   map[string]models.NewsItem

	eventsMu sync.RWMutex
	events   map[string]models.EconomicEvent

	whalesMu sync.RWMutex
	whales   map[string]models.WhaleTransaction

	fedMu sync.RWMutex
	fed   map[string]models.FedUpdate
}

// New constructs an empty store. There is no package-level instance; the one
// shared store is built in DI and injected everywhere it is needed.
func New(caps Caps) *Store {
	return &Store{
		caps:   caps,
		assets: make(map[string]models.CryptoAsset),
		news:   make(map[string]models.NewsItem),
		events: make(map[string]models.EconomicEvent),
		whales: make(map[string]models.WhaleTransaction),
		fed:    make(map[string]models.FedUpdate),
	}
}

// --- assets ---

// UpsertAsset creates or fully replaces the asset under its ID.
func (s *Store) UpsertAsset(a models.CryptoAsset) models.CryptoAsset {
	if len(a.Sparkline) > models.SparklineCap {
		a.Sparkline = a.Sparkline[len(a.Sparkline)-models.SparklineCap:]
	}
	s.assetsMu.Lock()
	s.assets[a.ID] = a
	s.assetsMu.Unlock()
	return a
}

// GetAsset returns the asset and whether it exists.
func (s *Store) GetAsset(id string) (models.CryptoAsset, bool) {
	s.assetsMu.RLock()
	a, ok := s.assets[id]
	s.assetsMu.RUnlock()
	return a, ok
}

// ListAssets returns assets ordered by the given sort key, descending.
func (s *Store) ListAssets(sortBy string, limit int) []models.CryptoAsset {
	s.assetsMu.RLock()
	out := make([]models.CryptoAsset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a)
	}
	s.assetsMu.RUnlock()

	key := func(a models.CryptoAsset) decimal.Decimal {
		switch sortBy {
		case SortByVolume:
			return parseDecimal(a.Volume24h)
		case SortByChange:
			return parseDecimal(a.Change24h)
		default:
			return parseDecimal(a.MarketCap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := key(out[i]), key(out[j])
		if !ki.Equal(kj) {
			return ki.GreaterThan(kj)
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out, limit)
}

// --- market summary ---

// SetSummary replaces the aggregate record as a whole.
func (s *Store) SetSummary(m models.MarketSummary) {
	s.summaryMu.Lock()
	s.summary = &m
	s.summaryMu.Unlock()
}

// Summary returns the current aggregate, or false when never written.
func (s *Store) Summary() (models.MarketSummary, bool) {
	s.summaryMu.RLock()
	defer s.summaryMu.RUnlock()
	if s.summary == nil {
		return models.MarketSummary{}, false
	}
	return *s.summary, true
}

// --- news ---

// InsertNews stores an item unless its ID already exists.
func (s *Store) InsertNews(n models.NewsItem) models.NewsItem {
	s.newsMu.Lock()
	defer s.newsMu.Unlock()
	if existing, ok := s.news[n.ID]; ok {
		return existing
	}
	s.news[n.ID] = n
	evictOldest(s.news, s.caps.News, func(v models.NewsItem) time.Time { return v.PublishedAt })
	return n
}

// ListNews returns items matching the category (empty matches all), newest first.
func (s *Store) ListNews(category string, limit int) []models.NewsItem {
	s.newsMu.RLock()
	out := make([]models.NewsItem, 0, len(s.news))
	for _, n := range s.news {
		if category != "" && n.Category != category {
			continue
		}
		out = append(out, n)
	}
	s.newsMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out, limit)
}

// --- calendar events ---

// InsertEvent stores an event unless its ID already exists.
func (s *Store) InsertEvent(e models.EconomicEvent) models.EconomicEvent {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	if existing, ok := s.events[e.ID]; ok {
		return existing
	}
	s.events[e.ID] = e
	evictOldest(s.events, s.caps.Events, func(v models.EconomicEvent) time.Time { return v.EventAt })
	return e
}

// ListEvents filters by country and date range, then orders soonest first.
// Zero from/to disable the respective bound.
func (s *Store) ListEvents(country string, from, to time.Time, limit int) []models.EconomicEvent {
	s.eventsMu.RLock()
	out := make([]models.EconomicEvent, 0, len(s.events))
	for _, e := range s.events {
		if country != "" && e.Country != country {
			continue
		}
		if !from.IsZero() && e.EventAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.EventAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	s.eventsMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EventAt.Equal(out[j].EventAt) {
			return out[i].EventAt.Before(out[j].EventAt)
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out, limit)
}

// --- whale transactions ---

// InsertWhale stores a transfer unless its ID already exists.
func (s *Store) InsertWhale(w models.WhaleTransaction) models.WhaleTransaction {
	s.whalesMu.Lock()
	defer s.whalesMu.Unlock()
	if existing, ok := s.whales[w.ID]; ok {
		return existing
	}
	s.whales[w.ID] = w
	evictOldest(s.whales, s.caps.Whales, func(v models.WhaleTransaction) time.Time { return v.Timestamp })
	return w
}

// ListWhales returns transfers matching the symbol (empty matches all), newest first.
func (s *Store) ListWhales(symbol string, limit int) []models.WhaleTransaction {
	s.whalesMu.RLock()
	out := make([]models.WhaleTransaction, 0, len(s.whales))
	for _, w := range s.whales {
		if symbol != "" && w.Symbol != symbol {
			continue
		}
		out = append(out, w)
	}
	s.whalesMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out, limit)
}

// --- fed updates ---

// InsertFedUpdate stores an update unless its ID already exists.
func (s *Store) InsertFedUpdate(f models.FedUpdate) models.FedUpdate {
	s.fedMu.Lock()
	defer s.fedMu.Unlock()
	if existing, ok := s.fed[f.ID]; ok {
		return existing
	}
	s.fed[f.ID] = f
	evictOldest(s.fed, s.caps.Fed, func(v models.FedUpdate) time.Time { return v.PublishedAt })
	return f
}

// ListFedUpdates returns updates matching the type (empty matches all), newest first.
func (s *Store) ListFedUpdates(typ string, limit int) []models.FedUpdate {
	s.fedMu.RLock()
	out := make([]models.FedUpdate, 0, len(s.fed))
	for _, f := range s.fed {
		if typ != "" && f.Type != typ {
			continue
		}
		out = append(out, f)
	}
	s.fedMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out, limit)
}

// Snapshot is the full-store read sent to a newly connected observer.
// Each kind is read atomically; the snapshot as a whole is not a consistent
// cross-kind cut, which is acceptable for INITIAL_DATA.
type Snapshot struct {
	Assets  []models.CryptoAsset      `json:"assets"`
	Summary *models.MarketSummary     `json:"summary,omitempty"`
	News    []models.NewsItem         `json:"news"`
	Whales  []models.WhaleTransaction `json:"whales"`
	Events  []models.EconomicEvent    `json:"events"`
	Fed     []models.FedUpdate        `json:"fed"`
}

// Snapshot assembles the current state of every kind.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Assets: s.ListAssets(SortByMarketCap, 0),
		News:   s.ListNews("", 0),
		Whales: s.ListWhales("", 0),
		Events: s.ListEvents("", time.Time{}, time.Time{}, 0),
		Fed:    s.ListFedUpdates("", 0),
	}
	if sum, ok := s.Summary(); ok {
		snap.Summary = &sum
	}
	return snap
}

func truncate[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

// evictOldest drops the oldest entries until the map fits the cap.
func evictOldest[T any](m map[string]T, max int, ts func(T) time.Time) {
	if max <= 0 {
		return
	}
	for len(m) > max {
		var oldestKey string
		var oldest time.Time
		first := true
		for k, v := range m {
			if t := ts(v); first || t.Before(oldest) {
				oldest = t
				oldestKey = k
				first = false
			}
		}
		delete(m, oldestKey)
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
