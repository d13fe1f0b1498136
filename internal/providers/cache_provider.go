package providers

import (
	"msd/internal/structures"
	"time"
	"unsafe"

	"github.com/coocood/freecache"
)

const (
	defaultDataCacheMB = 16
	settingsCacheBytes = 512 * 1024 // freecache minimum
	defaultDataTTL     = 300 * time.Second
	defaultSettingsTTL = 60 * time.Second
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Del(key string)
	Clear()
}

// DataCache holds per-group roster documents. SettingsCache holds the single
// settings document with a shorter TTL so changes propagate quickly. Distinct
// types so the two instances stay distinguishable at wiring time.
type DataCache interface{ CacheProviderInterface }

type SettingsCache interface{ CacheProviderInterface }

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewDataCache(conf *structures.Config, logger Logger) DataCache {
	if !conf.Cache.Enabled {
		logger.Infof(TypeApp, "Data cache disabled")
		return &noopCache{}
	}

	sizeMB := conf.Cache.DataSize
	if sizeMB <= 0 {
		sizeMB = defaultDataCacheMB
	}
	ttl := conf.Cache.DataTTL
	if ttl <= 0 {
		ttl = defaultDataTTL
	}

	logger.Infof(TypeApp, "Data cache initialized: %dMB, TTL=%s", sizeMB, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   int(ttl.Seconds()),
	}
}

func NewSettingsCache(conf *structures.Config, logger Logger) SettingsCache {
	if !conf.Cache.Enabled {
		logger.Infof(TypeApp, "Settings cache disabled")
		return &noopCache{}
	}

	ttl := conf.Cache.SettingsTTL
	if ttl <= 0 {
		ttl = defaultSettingsTTL
	}

	logger.Infof(TypeApp, "Settings cache initialized: TTL=%s", ttl)

	return &CacheProvider{
		cache: freecache.NewCache(settingsCacheBytes),
		ttl:   int(ttl.Seconds()),
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache — it copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
}

func (c *CacheProvider) Del(key string) {
	c.cache.Del(unsafeStringToBytes(key))
}

func (c *CacheProvider) Clear() {
	c.cache.Clear()
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Del(_ string)                {}
func (n *noopCache) Clear()                      {}
