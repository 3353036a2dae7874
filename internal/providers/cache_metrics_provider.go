package providers

import (
	"strings"

	"sitestats/internal/structures"
)

const keySeparator = ":"

// CacheKey joins a scope and its parts into a response cache key. The scope
// labels hit and miss counters.
func CacheKey(scope string, parts ...string) string {
	return strings.Join(append([]string{scope}, parts...), keySeparator)
}

func cacheScope(key string) string {
	scope, _, _ := strings.Cut(key, keySeparator)
	return scope
}

// scopedMetricsCache counts lookups per key scope.
type scopedMetricsCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *scopedMetricsCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits(cacheScope(key))
	} else {
		c.metrics.IncCacheMisses(cacheScope(key))
	}
	return val, ok
}

func (c *scopedMetricsCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// NewInstrumentedCacheProvider returns the response cache, counting lookups
// when caching is on. A disabled cache would only report misses, so it is
// returned bare.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, off := inner.(*noopCache); off {
		return inner
	}
	return &scopedMetricsCache{inner: inner, metrics: metrics}
}
