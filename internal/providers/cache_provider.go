package providers

import (
	"unsafe"

	"github.com/coocood/freecache"

	"sitestats/internal/structures"
)

// CacheProviderInterface caches encoded API responses by key.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// permanentScopes hold responses that cannot change while the process runs.
var permanentScopes = map[string]struct{}{"facets": {}}

// ResponseCache keeps encoded responses in a freecache ring. Site stats
// expire after the configured TTL; their keys carry the store revision, so
// a newer commit is always a miss.
type ResponseCache struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Response cache disabled")
		return &noopCache{}
	}

	ttl := max(int(conf.Cache.TTL.Seconds()), 1)
	logger.Infof(TypeApp, "Response cache initialized: %dMB, stats TTL=%ds", conf.Cache.Size, ttl)

	return &ResponseCache{
		cache: freecache.NewCache(conf.Cache.Size * 1024 * 1024),
		ttl:   ttl,
	}
}

// keyBytes views key without copying; freecache copies keys it keeps.
func keyBytes(key string) []byte {
	if len(key) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(key), len(key))
}

func (c *ResponseCache) expiry(key string) int {
	if _, ok := permanentScopes[cacheScope(key)]; ok {
		return 0
	}
	return c.ttl
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(keyBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *ResponseCache) Set(key string, value []byte) {
	_ = c.cache.Set(keyBytes(key), value, c.expiry(key))
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
