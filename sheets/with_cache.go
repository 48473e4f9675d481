package sheets

import (
	"context"

	"github.com/vipmap/inventory-server/cache"
	"github.com/vipmap/inventory-server/metrics"
)

const cacheKeyPrefix = "sheet_"

// CacheKey derives the cache key of a named table.
func CacheKey(name string) string {
	return cacheKeyPrefix + name
}

// CachedFetcher is a Fetcher which checks a TTL cache before delegating to a
// backing Fetcher, saving whatever the backing fetch returns.
type CachedFetcher struct {
	fetcher       Fetcher
	cache         *cache.Cache
	metricsEngine metrics.Engine
}

// WithCache wraps fetcher with the given cache. Table snapshots are stored
// under CacheKey(name) with the cache's default TTL.
func WithCache(fetcher Fetcher, c *cache.Cache, metricsEngine metrics.Engine) *CachedFetcher {
	return &CachedFetcher{
		fetcher:       fetcher,
		cache:         c,
		metricsEngine: metricsEngine,
	}
}

func (f *CachedFetcher) FetchTable(ctx context.Context, name string) ([][]string, error) {
	if cached, ok := f.cache.Get(CacheKey(name)); ok {
		if rows, ok := cached.([][]string); ok {
			f.metricsEngine.RecordCacheResult(metrics.CacheHit)
			return rows, nil
		}
	}
	f.metricsEngine.RecordCacheResult(metrics.CacheMiss)

	rows, err := f.fetcher.FetchTable(ctx, name)
	f.metricsEngine.RecordSheetFetch(name, err == nil)
	if err != nil {
		return nil, err
	}

	f.cache.Set(CacheKey(name), rows)
	return rows, nil
}

// Invalidate drops the cached snapshot of one table.
func (f *CachedFetcher) Invalidate(name string) {
	f.cache.Delete(CacheKey(name))
}

// InvalidateAll sweeps every expired entry immediately. Used by the on-demand
// refresh trigger.
func (f *CachedFetcher) InvalidateAll() {
	f.cache.Cleanup()
}
