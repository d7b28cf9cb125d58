package cache

import (
	"unsafe"

	"sanctuary-mural/internal/core/ports"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog"
)

// snapshotTTL bounds how long a superseded snapshot version lingers.
const snapshotTTL = 300 // seconds

// SnapshotCache implements ports.SnapshotCache on freecache.
// Keys carry the mural version, so entries never need invalidation.
// freecache rejects entries larger than 1/1024 of its size; such snapshots
// are served uncached.
type SnapshotCache struct {
	cache *freecache.Cache
	ttl   int
	log   zerolog.Logger
}

// NewSnapshotCache returns a freecache-backed cache of sizeMB megabytes,
// or a no-op cache when sizeMB is zero. Hits and misses are counted on m.
func NewSnapshotCache(sizeMB int, m ports.Metrics, log zerolog.Logger) ports.SnapshotCache {
	if sizeMB <= 0 {
		log.Info().Msg("Snapshot cache disabled")
		return noopCache{}
	}

	log.Info().Int("size_mb", sizeMB).Int("ttl_s", snapshotTTL).Msg("Snapshot cache initialized")
	return &instrumented{
		inner: &SnapshotCache{
			cache: freecache.NewCache(sizeMB * 1024 * 1024),
			ttl:   snapshotTTL,
			log:   log,
		},
		metrics: m,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys, so the result is never written through.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *SnapshotCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *SnapshotCache) Set(key string, value []byte) {
	if err := c.cache.Set(unsafeStringToBytes(key), value, c.ttl); err != nil {
		c.log.Debug().Err(err).Str("key", key).Int("bytes", len(value)).Msg("snapshot not cached")
	}
}

// instrumented counts hits and misses on every Get.
type instrumented struct {
	inner   ports.SnapshotCache
	metrics ports.Metrics
}

func (c *instrumented) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *instrumented) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

type noopCache struct{}

func (noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (noopCache) Set(_ string, _ []byte)      {}
