package di

import (
	"fmt"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/adapter"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/repository"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/handler/api"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/handler/ws"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/service/ratelimit"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/store"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/usecase"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/cache"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	apphttp "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http"
	pkgkafka "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/kafka"
	applogger "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/metrics"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStore creates the shared in-memory entity store.
func ProvideStore() *store.Store {
	return store.New(store.DefaultCaps())
}

// ProvideGates creates the three rate-gate instances.
func ProvideGates(cfg *config.Config) *ratelimit.Gates {
	return &ratelimit.Gates{
		Inbound:  ratelimit.New(cfg.RateLimit.Inbound.Window, cfg.RateLimit.Inbound.Max),
		Outbound: ratelimit.New(cfg.RateLimit.Outbound.Window, cfg.RateLimit.Outbound.Max),
		Push:     ratelimit.New(cfg.RateLimit.Push.Window, cfg.RateLimit.Push.Max),
	}
}

// ProvideHTTPClient creates the upstream HTTP client.
func ProvideHTTPClient(cfg *config.Config) *apphttp.Client {
	return apphttp.NewClient(apphttp.WithTimeout(cfg.Upstream.Timeout))
}

// ProvideSources wires the six concern adapters behind the outbound gate.
func ProvideSources(
	cfg *config.Config,
	client *apphttp.Client,
	gates *ratelimit.Gates,
	log *applogger.Logger,
	m repository.Metrics,
) *adapter.Sources {
	return adapter.NewSources(cfg, adapter.Deps{
		Client:  client,
		Gate:    gates.Outbound,
		Log:     log,
		Metrics: m,
	})
}

// ProvideBytesCache creates the response cache: Redis when configured,
// in-memory otherwise.
func ProvideBytesCache(cfg *config.Config, log *applogger.Logger) (cache.BytesCache, error) {
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		log.Info("response cache backed by redis", applogger.String("addr", cfg.Cache.Redis.Addr))
		return rc, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvidePublisher creates the Kafka export producer, or nil when disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Export.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Export.Brokers),
		pkgkafka.WithTopic(cfg.Export.Topic),
		pkgkafka.WithCompression(cfg.Export.Compression),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideHub creates the fan-out hub over the store and the push gate.
func ProvideHub(st *store.Store, gates *ratelimit.Gates, m repository.Metrics, log *applogger.Logger) *ws.Hub {
	return ws.NewHub(st, gates.Push, m, log)
}

// ProvideRefresher creates the refresh scheduler.
func ProvideRefresher(
	cfg *config.Config,
	sources *adapter.Sources,
	st *store.Store,
	hub *ws.Hub,
	publisher repository.Publisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Refresher {
	return usecase.NewRefresher(cfg, sources, st, hub, publisher, m, log)
}

// ProvideHandler creates the HTTP query and command surface.
func ProvideHandler(
	cfg *config.Config,
	log *applogger.Logger,
	st *store.Store,
	refresher *usecase.Refresher,
	hub *ws.Hub,
	bytesCache cache.BytesCache,
	gates *ratelimit.Gates,
	m repository.Metrics,
) *api.Handler {
	onDenied := func(string) { m.RecordRateLimited("inbound") }
	return api.NewHandler(log, st, refresher, hub, bytesCache, cfg.Cache.TTL,
		gates.Inbound, cfg.RateLimit.Inbound.Window, onDenied)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	hub *ws.Hub,
	refresher *usecase.Refresher,
	handler *api.Handler,
	publisher repository.Publisher,
	bytesCache cache.BytesCache,
	gates *ratelimit.Gates,
) *server.App {
	return server.New(cfg, log, hub, refresher, handler, publisher, bytesCache, gates)
}
