package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"skillcheck/cache"
	"skillcheck/logger"
)

// loadTimeout bounds a shared load once it no longer follows any caller's
// context.
const loadTimeout = 30 * time.Second

// loadGroup collapses concurrent cache misses on a key into one store read and
// writes the result back. A load that an invalidation overtook is returned to
// the callers that joined it but never written to the cache.
type loadGroup struct {
	cache cache.Cache
	log   *logger.Logger
	group singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

func newLoadGroup(c cache.Cache, log *logger.Logger) *loadGroup {
	return &loadGroup{cache: c, log: log, gens: make(map[string]uint64)}
}

func (g *loadGroup) generation(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[key]
}

// forget detaches callers arriving from now on from any load in flight for
// key and marks that load stale.
func (g *loadGroup) forget(key string) {
	g.mu.Lock()
	g.gens[key]++
	g.mu.Unlock()
	g.group.Forget(key)
}

// do returns the value read serves for key, or else runs load unless one is
// already in flight and caches its value for ttl. A flight that starts after
// another one filled the key serves the filled value. The load runs detached
// from ctx so one caller going away does not fail the others; each caller
// still stops waiting when its own ctx ends.
func (g *loadGroup) do(
	ctx context.Context,
	key string,
	ttl time.Duration,
	read func(context.Context) (any, bool),
	load func(context.Context) (any, error),
) (any, error) {
	if v, ok := read(ctx); ok {
		return v, nil
	}

	ch := g.group.DoChan(key, func() (any, error) {
		gen := g.generation(key)

		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		if v, ok := read(lctx); ok {
			return v, nil
		}
		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if g.generation(key) == gen {
			g.fill(lctx, key, v, ttl)
			// An invalidation landing between the check and the write may
			// have deleted before the write did.
			if g.generation(key) != gen {
				g.evict(lctx, key)
			}
		}
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *loadGroup) fill(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		g.log.Error("encode cache entry", "key", key, "error", err)
		return
	}
	if err := g.cache.SetWithTTL(ctx, key, data, ttl); err != nil {
		g.log.Warn("cache write failed", "key", key, "error", err)
	}
}

func (g *loadGroup) evict(ctx context.Context, key string) {
	if err := g.cache.Delete(ctx, key); err != nil {
		g.log.Warn("cache delete failed", "key", key, "error", err)
	}
}
