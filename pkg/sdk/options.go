package regalo

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn           string
	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	provider      string
	apiKey        string
	baseURL       string
	model         string
	intentTimeout time.Duration

	displayCurrency string
	exchangeRate    float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		cacheTTL:        time.Hour,
		provider:        "local",
		intentTimeout:   8 * time.Second,
		displayCurrency: "UYU",
		exchangeRate:    40,
	}
}

// WithPostgres sets the catalog database connection string. Required.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithRedis enables the intent cache on a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets how long parsed intents stay cached. Default: 1h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithProvider selects a hosted intent provider ("openai" or "deepseek") and its API key.
// Without it the client parses queries with the local heuristic.
func WithProvider(name, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = name
		c.apiKey = apiKey
	})
}

// WithProviderEndpoint overrides the hosted provider base URL and model.
// Empty values keep the provider defaults.
func WithProviderEndpoint(baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
		c.model = model
	})
}

// WithIntentTimeout bounds each hosted provider call. Default: 8s.
func WithIntentTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.intentTimeout = d
	})
}

// WithDisplayCurrency sets the currency of price estimates ("USD" or "UYU")
// and the USD to UYU exchange rate. Defaults: UYU, 40.
func WithDisplayCurrency(currency string, usdUYU float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.displayCurrency = currency
		c.exchangeRate = usdUYU
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
