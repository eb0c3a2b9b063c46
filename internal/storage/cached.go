package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/internal/cache"
)

// CachedStore wraps a payload store with a byte cache. Hits never
// reach the inner store; misses are fetched once and written back.
type CachedStore struct {
	inner  PayloadStore
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStore wraps inner with c. A zero ttl uses the cache's
// default.
func NewCachedStore(inner PayloadStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// Payload returns the cached bytes when present, otherwise fetches
// from the inner store and populates the cache. Cache write failures
// are logged, not surfaced: the payload was still retrieved.
func (s *CachedStore) Payload(ctx context.Context, loc path.Locator) ([]byte, error) {
	key := cache.PayloadKey(loc.String())

	if data, err := s.cache.Get(ctx, key); err == nil {
		s.logger.Debug("payload cache hit", zap.String("path", loc.String()))
		return data, nil
	} else if !cache.IsCacheMiss(err) {
		s.logger.Warn("payload cache read failed",
			zap.String("path", loc.String()), zap.Error(err))
	}

	data, err := s.inner.Payload(ctx, loc)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("payload cache write failed",
			zap.String("path", loc.String()), zap.Error(err))
	}

	return data, nil
}
