// Package repository arbitrates between the local cache store and the
// remote catalog service. Each repository composes the freshness
// policy, a remote fetcher and a cache scope into one read/write API.
package repository

import (
	"context"
	"time"

	"github.com/gencidev/storefront/internal/freshness"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Connectivity is the slice of the connectivity observer the
// repositories depend on.
type Connectivity interface {
	IsOnline() bool
}

// cachedCollection binds one cache scope to its remote fetcher. It is
// the single generic implementation of the read-through-with-fallback
// contract shared by the product, category and cart read paths.
type cachedCollection[T any] struct {
	// scope names the cache partition; it doubles as the
	// deduplication key for in-flight refreshes.
	scope     string
	threshold time.Duration
	flight    *singleflight.Group

	snapshot func(ctx context.Context) (freshness.Snapshot, error)
	read     func(ctx context.Context) ([]T, error)
	replace  func(ctx context.Context, items []T) error
	fetch    func(ctx context.Context) ([]T, error)
}

// load applies the freshness policy and runs the read. On a remote
// failure the pre-read cache snapshot decides between a stale-cache
// fallback and surfacing the error.
func (c *cachedCollection[T]) load(ctx context.Context, online bool) ([]T, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: cache snapshot", c.scope)
	}

	switch freshness.Evaluate(snap, time.Now(), c.threshold, online) {
	case freshness.ServeCache:
		zap.S().Debugf("%s: serving %d cached records", c.scope, snap.Count)
		return c.read(ctx)
	case freshness.NoData:
		return nil, errors.Wrap(ErrNotCached, c.scope)
	}

	fresh, err := c.refresh(ctx)
	if err == nil {
		return fresh, nil
	}

	// Store failures are more serious than a network hiccup and are
	// never masked by the fallback.
	var cw *CacheWriteError
	if errors.As(err, &cw) {
		return nil, err
	}

	if snap.Count > 0 {
		cached, rerr := c.read(ctx)
		if rerr == nil {
			zap.L().Warn("remote fetch failed, serving stale cache",
				zap.String("scope", c.scope),
				zap.Int64("cached", snap.Count),
				zap.Error(err))
			return cached, nil
		}
	}
	return nil, err
}

// refresh fetches from remote and replaces the cache scope. Concurrent
// refreshes of the same scope collapse into one remote call; the cache
// replace only runs after the response is fully received, so an
// abandoned caller never leaves a partial write behind.
func (c *cachedCollection[T]) refresh(ctx context.Context) ([]T, error) {
	v, err, shared := c.flight.Do(c.scope, func() (interface{}, error) {
		items, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.replace(ctx, items); err != nil {
			return nil, &CacheWriteError{Err: err}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.S().Debugf("%s: refresh shared with concurrent caller", c.scope)
	}
	return v.([]T), nil
}
