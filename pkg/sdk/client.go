package regalo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/bootstrap"
	"github.com/kailas-cloud/regalo/internal/config"
	"github.com/kailas-cloud/regalo/internal/db/postgres"
	"github.com/kailas-cloud/regalo/internal/db/redis"
	"github.com/kailas-cloud/regalo/internal/domain"
	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	analyticsuc "github.com/kailas-cloud/regalo/internal/usecase/analytics"
	searchuc "github.com/kailas-cloud/regalo/internal/usecase/search"
)

const readinessTimeout = 10 * time.Second

// Client is the entry point for the regalo SDK.
type Client struct {
	intentSvc intentUseCase
	searchSvc searchUseCase
	clickSvc  clickUseCase
	healthSvc healthUseCase
	obs       *observer
	closers   []func()
}

// Internal interfaces for use case dependencies (enables testing with mocks).
type intentUseCase interface {
	Parse(ctx context.Context, query string) (domintent.Intent, error)
}

type searchUseCase interface {
	Search(ctx context.Context, req searchuc.Request) (searchuc.Response, error)
}

type clickUseCase interface {
	RecordClick(ctx context.Context, in analyticsuc.ClickInput) (domanalytics.LeadAttribution, error)
}

// New creates a Client connected to the catalog database and, optionally, the intent cache.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}
	appCfg, err := cfg.appConfig()
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := postgres.NewStore(postgres.Config{DSN: cfg.dsn})
	if err != nil {
		return nil, fmt.Errorf("regalo: %w", err)
	}
	if err := store.WaitForReady(ctx, readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("regalo: connect catalog: %w", err)
	}

	var cache *redis.Store
	if len(cfg.cacheAddrs) > 0 {
		cache, err = redis.NewStore(redis.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePassword})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("regalo: %w", err)
		}
		if err := cache.WaitForReady(ctx, readinessTimeout); err != nil {
			cache.Close()
			store.Close()
			return nil, fmt.Errorf("regalo: connect cache: %w", err)
		}
	}

	p, err := bootstrap.Build(appCfg, store, cache, zap.NewNop())
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		store.Close()
		return nil, fmt.Errorf("regalo: %w", err)
	}

	c := &Client{
		intentSvc: p.Intents,
		searchSvc: p.Search,
		clickSvc:  p.Analytics,
		healthSvc: p.Health,
		obs:       obs,
		closers:   []func(){store.Close},
	}
	if cache != nil {
		c.closers = append(c.closers, cache.Close)
	}
	return c, nil
}

// appConfig validates the options and maps them onto the service configuration.
func (c *clientConfig) appConfig() (*config.Config, error) {
	if c.dsn == "" {
		return nil, errors.New("regalo: catalog DSN is required (use WithPostgres)")
	}
	id, err := domintent.ParseProviderID(c.provider)
	if err != nil {
		return nil, fmt.Errorf("regalo: %w", err)
	}
	if id.IsHosted() && c.apiKey == "" {
		return nil, fmt.Errorf("regalo: %w: %s", domain.ErrMissingCredentials, id)
	}
	switch strings.ToUpper(c.displayCurrency) {
	case "USD", "UYU":
	default:
		return nil, fmt.Errorf("regalo: unsupported display currency %q", c.displayCurrency)
	}

	appCfg := &config.Config{}
	appCfg.Database.DSN = c.dsn
	appCfg.Cache.TTLSec = int(c.cacheTTL / time.Second)
	appCfg.Intent.Provider = string(id)
	appCfg.Intent.TimeoutMS = int(c.intentTimeout / time.Millisecond)
	if id.IsHosted() {
		appCfg.Intent.Providers = map[string]config.ProviderConfig{
			string(id): {APIKey: c.apiKey, BaseURL: c.baseURL, Model: c.model},
		}
	}
	appCfg.Currency.Display = strings.ToUpper(c.displayCurrency)
	appCfg.Currency.USDUYU = c.exchangeRate
	appCfg.ApplyDefaults()
	return appCfg, nil
}

// Close releases database and cache connections.
func (c *Client) Close() error {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
	return nil
}

// ParseIntent turns a free-text query into a structured intent.
// A failing hosted provider degrades to the local heuristic, so errors are rare.
func (c *Client) ParseIntent(ctx context.Context, query string) (Intent, error) {
	start := time.Now()
	in, err := c.intentSvc.Parse(ctx, query)
	c.obs.observe("intent.parse", start, err)
	if err != nil {
		return Intent{}, err
	}
	return intentFromDomain(in), nil
}

// Search parses the query, retrieves matching products and ranks them.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	resp, err := c.searchSvc.Search(ctx, searchuc.Request{
		Query:  req.Query,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	c.obs.observe("search", start, err)
	if err != nil {
		return nil, err
	}
	out := searchResultFromDomain(&resp)
	return &out, nil
}

// RecordClick stores a click-through and returns the lead attributed to the store.
func (c *Client) RecordClick(ctx context.Context, click Click) (*Lead, error) {
	start := time.Now()
	in, err := clickInput(click)
	if err != nil {
		c.obs.observe("click.record", start, err)
		return nil, err
	}
	lead, err := c.clickSvc.RecordClick(ctx, in)
	c.obs.observe("click.record", start, err)
	if err != nil {
		return nil, err
	}
	out := leadFromDomain(lead)
	return &out, nil
}

func clickInput(click Click) (analyticsuc.ClickInput, error) {
	var in analyticsuc.ClickInput
	ids := []struct {
		name string
		raw  string
		dst  *uuid.UUID
	}{
		{"session_id", click.SessionID, &in.SessionID},
		{"product_id", click.ProductID, &in.ProductID},
		{"store_id", click.StoreID, &in.StoreID},
	}
	for _, id := range ids {
		parsed, err := uuid.Parse(id.raw)
		if err != nil {
			return analyticsuc.ClickInput{}, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidQuery, id.name, id.raw)
		}
		*id.dst = parsed
	}
	in.UserAgent = click.UserAgent
	in.Referrer = click.Referrer
	return in, nil
}
