package foods

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/suvamneog/foodanalyserr/internal/telemetry"
)

const (
	oneHour     = 60 * 60
	cacheExpire = oneHour
	megabyte    = 1024 * 1024
)

// CachedProvider keeps successful lookups in memory for an hour. Misses and
// upstream failures are never cached.
type CachedProvider struct {
	next    Provider
	cache   *freecache.Cache
	metrics *telemetry.Manager
}

// NewCachedProvider wraps next. sizeMB <= 0 means 16 MB; metrics may be nil.
func NewCachedProvider(next Provider, sizeMB int, metrics *telemetry.Manager) *CachedProvider {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	return &CachedProvider{
		next:    next,
		cache:   freecache.NewCache(sizeMB * megabyte),
		metrics: metrics,
	}
}

func (c *CachedProvider) Search(ctx context.Context, query string) (Food, error) {
	key := normalizeQuery(query)
	if key == "" {
		return Food{}, ErrInvalidQuery
	}
	cacheKey := []byte("search::" + key)

	var food Food
	if c.load(cacheKey, &food) {
		c.count(SourceCache)
		return food, nil
	}

	food, err := c.next.Search(ctx, query)
	if err != nil {
		return Food{}, err
	}
	c.count(food.Source)
	c.store(cacheKey, food)
	return food, nil
}

func (c *CachedProvider) Barcode(ctx context.Context, code string) (Product, error) {
	cacheKey := []byte(fmt.Sprintf("barcode::%s", code))

	var product Product
	if c.load(cacheKey, &product) {
		c.count(SourceCache)
		return product, nil
	}

	product, err := c.next.Barcode(ctx, code)
	if err != nil {
		return Product{}, err
	}
	c.count(product.Source)
	c.store(cacheKey, product)
	return product, nil
}

// EntryCount reports cached entries.
func (c *CachedProvider) EntryCount() int64 {
	return c.cache.EntryCount()
}

func (c *CachedProvider) load(key []byte, dst interface{}) bool {
	raw, err := c.cache.Get(key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Errorf("foods: failed to unmarshal cached %s: %s", key, err)
		return false
	}
	log.Tracef("foods: cache hit %s", key)
	return true
}

func (c *CachedProvider) store(key []byte, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Errorf("foods: failed to marshal %s for cache: %s", key, err)
		return
	}
	if err := c.cache.Set(key, raw, cacheExpire); err != nil {
		log.Errorf("foods: failed to write cache %s: %s", key, err)
	}
}

func (c *CachedProvider) count(source string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CounterFoodLookups.WithLabelValues(source).Inc()
}
