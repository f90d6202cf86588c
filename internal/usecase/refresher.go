package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/adapter"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/repository"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/store"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

// Refresh concerns. Each maps to one adapter, one cron entry and one
// broadcast kind.
const (
	ConcernPrices    = "prices"
	ConcernAggregate = "aggregate"
	ConcernNews      = "news"
	ConcernWhales    = "whales"
	ConcernCalendar  = "calendar"
	ConcernFed       = "fed"
)

// Refresher drives the periodic refresh cycles. Per-concern schedules never
// overlap themselves: a still-running cycle makes cron skip the next firing.
type Refresher struct {
	cron      *cron.Cron
	sources   *adapter.Sources
	store     *store.Store
	hub       repository.Broadcaster
	publisher repository.Publisher
	metrics   repository.Metrics
	log       *logger.Logger
	cadence   map[string]time.Duration
}

// NewRefresher builds the scheduler. publisher may be nil when the export
// sink is disabled.
func NewRefresher(
	cfg *config.Config,
	sources *adapter.Sources,
	st *store.Store,
	hub repository.Broadcaster,
	publisher repository.Publisher,
	metrics repository.Metrics,
	log *logger.Logger,
) *Refresher {
	return &Refresher{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		sources:   sources,
		store:     st,
		hub:       hub,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		cadence: map[string]time.Duration{
			ConcernPrices:    cfg.Refresh.Prices,
			ConcernAggregate: cfg.Refresh.Aggregate,
			ConcernNews:      cfg.Refresh.News,
			ConcernWhales:    cfg.Refresh.Whales,
			ConcernCalendar:  cfg.Refresh.Calendar,
			ConcernFed:       cfg.Refresh.Fed,
		},
	}
}

// Start runs every concern once eagerly so the store is warm before the first
// observer connects, then hands the cadences to cron.
func (r *Refresher) Start(ctx context.Context) error {
	triggers := map[string]func(context.Context){
		ConcernPrices:    r.TriggerPrices,
		ConcernAggregate: r.TriggerAggregate,
		ConcernNews:      r.TriggerNews,
		ConcernWhales:    r.TriggerWhales,
		ConcernCalendar:  r.TriggerCalendar,
		ConcernFed:       r.TriggerFed,
	}

	for concern, trigger := range triggers {
		go trigger(ctx)

		spec := fmt.Sprintf("@every %s", r.cadence[concern])
		run := trigger
		if _, err := r.cron.AddFunc(spec, func() { run(context.Background()) }); err != nil {
			return fmt.Errorf("schedule %s: %w", concern, err)
		}
	}

	r.cron.Start()
	r.log.Info("refresh scheduler started", logger.Int("concerns", len(triggers)))
	return nil
}

// Stop halts the scheduler and waits for in-flight cycles.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info("refresh scheduler stopped")
}

// Trigger runs one concern by name. Used by the POST refresh surface.
func (r *Refresher) Trigger(ctx context.Context, concern string) error {
	switch concern {
	case ConcernPrices:
		r.TriggerPrices(ctx)
	case ConcernAggregate:
		r.TriggerAggregate(ctx)
	case ConcernNews:
		r.TriggerNews(ctx)
	case ConcernWhales:
		r.TriggerWhales(ctx)
	case ConcernCalendar:
		r.TriggerCalendar(ctx)
	case ConcernFed:
		r.TriggerFed(ctx)
	default:
		return fmt.Errorf("unknown concern %q", concern)
	}
	return nil
}

// TriggerPrices refreshes spot prices and fans out the full asset list.
func (r *Refresher) TriggerPrices(ctx context.Context) {
	assets, live := r.sources.Prices.Fetch(ctx)
	for _, a := range assets {
		r.store.UpsertAsset(a)
	}
	payload := r.store.ListAssets(store.SortByMarketCap, 0)
	r.finish(ctx, ConcernPrices, repository.KindCryptoUpdate, payload, live, len(assets))
}

// TriggerAggregate refreshes the market summary.
func (r *Refresher) TriggerAggregate(ctx context.Context) {
	summary, live := r.sources.Aggregate.Fetch(ctx)
	r.store.SetSummary(summary)
	r.finish(ctx, ConcernAggregate, repository.KindCryptoUpdate, summary, live, 1)
}

// TriggerNews refreshes the news feed.
func (r *Refresher) TriggerNews(ctx context.Context) {
	items, live := r.sources.News.Fetch(ctx)
	for _, n := range items {
		r.store.InsertNews(n)
	}
	payload := r.store.ListNews("", 0)
	r.finish(ctx, ConcernNews, repository.KindNewsUpdate, payload, live, len(items))
}

// TriggerWhales refreshes large transfers.
func (r *Refresher) TriggerWhales(ctx context.Context) {
	txs, live := r.sources.Whales.Fetch(ctx)
	for _, w := range txs {
		r.store.InsertWhale(w)
	}
	payload := r.store.ListWhales("", 0)
	r.finish(ctx, ConcernWhales, repository.KindWhaleUpdate, payload, live, len(txs))
}

// TriggerCalendar refreshes the macro calendar.
func (r *Refresher) TriggerCalendar(ctx context.Context) {
	events, live := r.sources.Calendar.Fetch(ctx)
	for _, e := range events {
		r.store.InsertEvent(e)
	}
	payload := r.store.ListEvents("", time.Time{}, time.Time{}, 0)
	r.finish(ctx, ConcernCalendar, repository.KindCalendarUpdate, payload, live, len(events))
}

// TriggerFed refreshes central-bank updates.
func (r *Refresher) TriggerFed(ctx context.Context) {
	updates, live := r.sources.Fed.Fetch(ctx)
	for _, u := range updates {
		r.store.InsertFedUpdate(u)
	}
	payload := r.store.ListFedUpdates("", 0)
	r.finish(ctx, ConcernFed, repository.KindFedUpdate, payload, live, len(updates))
}

// finish closes one cycle: metrics, fan-out, optional export, one log line.
// Every completed cycle broadcasts, fallback cycles included, so observers
// converge on whatever the store now holds.
func (r *Refresher) finish(ctx context.Context, concern, kind string, payload interface{}, live bool, count int) {
	result := "fallback"
	if live {
		result = "live"
	}
	r.metrics.RecordCycle(concern, result)

	r.hub.Broadcast(kind, payload)
	r.metrics.RecordBroadcast(kind)

	if r.publisher != nil {
		envelope := map[string]interface{}{
			"type":      kind,
			"data":      payload,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if err := r.publisher.Publish(ctx, []byte(kind), envelope); err != nil {
			r.metrics.RecordError("export_publish")
			r.log.Warn("export publish failed", logger.String("kind", kind), logger.Error(err))
		}
	}

	r.log.Info("refresh cycle completed",
		logger.String("concern", concern),
		logger.String("result", result),
		logger.Int("records", count))
}
