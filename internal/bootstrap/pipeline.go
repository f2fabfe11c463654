package bootstrap

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/config"
	"github.com/kailas-cloud/regalo/internal/db/postgres"
	"github.com/kailas-cloud/regalo/internal/db/redis"
	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	"github.com/kailas-cloud/regalo/internal/metrics"
	analyticsrepo "github.com/kailas-cloud/regalo/internal/repository/analytics"
	catalogrepo "github.com/kailas-cloud/regalo/internal/repository/catalog"
	"github.com/kailas-cloud/regalo/internal/repository/intentcache"
	analyticsuc "github.com/kailas-cloud/regalo/internal/usecase/analytics"
	healthuc "github.com/kailas-cloud/regalo/internal/usecase/health"
	intentuc "github.com/kailas-cloud/regalo/internal/usecase/intent"
	searchuc "github.com/kailas-cloud/regalo/internal/usecase/search"
)

// Pipeline holds the wired use case services.
type Pipeline struct {
	Provider  domintent.ProviderID
	Intents   *intentuc.Service
	Search    *searchuc.Service
	Analytics *analyticsuc.Service
	Health    *healthuc.Service
}

// Build wires repositories and services. cache may be nil to run without the intent cache.
func Build(cfg *config.Config, catalog *postgres.Store, cache *redis.Store, logger *zap.Logger) (*Pipeline, error) {
	metrics.RegisterPipelineMetrics()

	hosted, id, err := HostedProvider(cfg.Intent.Provider, cfg.Intent.Providers, logger)
	if err != nil {
		return nil, err
	}

	// Pass nil interfaces (not typed nil pointers) when a component is absent.
	var (
		primary     intentuc.Provider
		checker     healthuc.ProviderChecker
		cachePinger healthuc.DBPinger
	)
	if hosted != nil {
		primary = hosted
		checker = hosted
		if cache != nil {
			primary = intentcache.New(
				hosted, string(id)+":"+hosted.Model(), cache, cfg.CacheTTL(), metrics.IntentCacheTotal, logger,
			)
		}
	}
	if cache != nil {
		cachePinger = cache
	}

	intents := intentuc.New(primary, intentuc.NewHeuristic(), cfg.IntentTimeout(), logger)
	analytics := analyticsuc.New(analyticsrepo.New(catalog))
	search := searchuc.New(
		intents,
		catalogrepo.New(catalog, logger),
		analytics,
		searchuc.Options{
			DisplayCurrency: domcat.Currency(cfg.Currency.Display),
			ExchangeRate:    cfg.Currency.USDUYU,
		},
		logger,
	)

	return &Pipeline{
		Provider:  id,
		Intents:   intents,
		Search:    search,
		Analytics: analytics,
		Health:    healthuc.New(catalog, cachePinger, checker),
	}, nil
}
