package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// cacheStore is the error-returning contract both backends satisfy.
type cacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// FailoverListingCache serves from Redis while it is healthy and degrades
// to the in-memory cache when it is not. After a minute the primary is
// probed again. Implements domain.ListingCache; callers never see cache
// errors, a broken cache just behaves like a miss.
type FailoverListingCache struct {
	primary   cacheStore
	fallback  cacheStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverListingCache(primary, fallback cacheStore, logger *zerolog.Logger) *FailoverListingCache {
	return &FailoverListingCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverListingCache) active() cacheStore {
	if !f.isDown.Load() {
		return f.primary
	}
	// Try to recover after a minute
	if time.Since(time.Unix(f.lastCheck.Load(), 0)) > time.Minute {
		f.isDown.Store(false)
		return f.primary
	}
	return f.fallback
}

func (f *FailoverListingCache) markDown(err error) {
	f.logger.Error().Err(err).Msg("Listing cache primary failed, falling back to memory")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().Unix())
}

func (f *FailoverListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	store := f.active()
	val, err := store.Get(ctx, key)
	if err != nil {
		if store == f.primary {
			f.markDown(err)
			val, err = f.fallback.Get(ctx, key)
		}
		if err != nil {
			return nil, false
		}
	}
	return val, val != nil
}

func (f *FailoverListingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	store := f.active()
	if err := store.Set(ctx, key, value, ttl); err != nil {
		if store == f.primary {
			f.markDown(err)
			_ = f.fallback.Set(ctx, key, value, ttl)
		}
	}
}

// Invalidate clears both backends. Stale entries in the idle backend would
// otherwise resurface after a failover.
func (f *FailoverListingCache) Invalidate(ctx context.Context) {
	if err := f.primary.Invalidate(ctx); err != nil {
		f.markDown(err)
	}
	_ = f.fallback.Invalidate(ctx)
}
