package intentcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/db"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
)

type mockProvider struct {
	result domintent.Intent
	err    error
	calls  int
}

func (m *mockProvider) ParseIntent(_ context.Context, _ string) (domintent.Intent, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedProvider(t *testing.T, inner *mockProvider) (*CachedProvider, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cp := New(inner, "openai", ms, time.Hour, nil, zap.NewNop())
	return cp, ms
}
