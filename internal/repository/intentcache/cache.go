package intentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/db"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
)

const cacheKeyPrefix = "regalo:intent_cache:"

// store is the consumer interface for the intent cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// provider is the decorated intent provider.
type provider interface {
	ParseIntent(ctx context.Context, query string) (domintent.Intent, error)
}

// CachedProvider caches parsed intents in a key-value store.
// Only successful parses are cached; failures keep flowing to the caller's fallback.
type CachedProvider struct {
	inner      provider
	namespace  string
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// namespace separates entries of different providers or models.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner provider,
	namespace string,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedProvider {
	return &CachedProvider{
		inner:      inner,
		namespace:  namespace,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ParseIntent returns a cached intent or calls the inner provider.
func (c *CachedProvider) ParseIntent(ctx context.Context, query string) (domintent.Intent, error) {
	key := c.cacheKey(query)

	if in, ok := c.getFromCache(ctx, key, query); ok {
		c.incCache("hit")
		return in, nil
	}

	c.incCache("miss")

	in, err := c.inner.ParseIntent(ctx, query)
	if err != nil {
		return domintent.Intent{}, fmt.Errorf("parse intent: %w", err)
	}

	c.putToCache(ctx, key, in)
	return in, nil
}

func (c *CachedProvider) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey normalizes case and surrounding whitespace so trivially different queries share an entry.
func (c *CachedProvider) cacheKey(query string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cacheKeyPrefix + c.namespace + ":" + hex.EncodeToString(h[:])
}

func (c *CachedProvider) getFromCache(ctx context.Context, key, query string) (domintent.Intent, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached intent", zap.String("key", key), zap.Error(err))
		}
		return domintent.Intent{}, false
	}
	if len(data) == 0 {
		return domintent.Intent{}, false
	}

	in, err := domintent.Decode(query, data)
	if err != nil {
		c.logger.Warn("Failed to parse cached intent", zap.String("key", key), zap.Error(err))
		return domintent.Intent{}, false
	}
	return in, true
}

func (c *CachedProvider) putToCache(ctx context.Context, key string, in domintent.Intent) {
	data, err := json.Marshal(in)
	if err != nil {
		c.logger.Warn("Failed to encode intent", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache intent", zap.String("key", key), zap.Error(err))
	}
}
