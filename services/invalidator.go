package services

import (
	"context"

	"skillcheck/cache"
	"skillcheck/logger"
)

// keyForgetter is implemented by readers that collapse concurrent loads of a
// key and must drop the ones an invalidation overtook.
type keyForgetter interface {
	forget(key string)
}

// CacheInvalidator deletes cache entries after the writes that made them stale.
// Failures are logged and swallowed: a stale entry still expires by TTL.
type CacheInvalidator struct {
	cache   cache.Cache
	readers []keyForgetter
	log     *logger.Logger
}

func NewCacheInvalidator(c cache.Cache, log *logger.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: c, log: log.With("service", "CacheInvalidator")}
}

// Track makes every later Invalidate also reach the loads in flight in the
// given readers. Call it during wiring, before serving.
func (i *CacheInvalidator) Track(readers ...keyForgetter) {
	i.readers = append(i.readers, readers...)
}

// Invalidate removes keys in a single delete call. Empty and repeated keys are
// dropped first.
func (i *CacheInvalidator) Invalidate(ctx context.Context, keys ...string) {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	if len(unique) == 0 {
		return
	}

	for _, r := range i.readers {
		for _, k := range unique {
			r.forget(k)
		}
	}

	if err := i.cache.Delete(ctx, unique...); err != nil {
		i.log.Warn("cache invalidation failed", "keys", unique, "error", err)
		return
	}
	i.log.Debug("cache invalidated", "keys", unique)
}
