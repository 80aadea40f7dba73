package clients

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"plant-gallery/internal/models"
)

// CoordinatePrecision is the number of decimals coordinates are rounded to
// before a cache lookup. Four decimals is roughly 11 m.
const CoordinatePrecision = 4

// Geocoder resolves coordinates to place names.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*models.Location, error)
}

// CacheStats reports how effective the cache has been.
type CacheStats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// CachingGeocoder memoizes reverse lookups of nearby coordinates, so a batch
// of photos taken in one garden costs a single upstream request. Failed
// lookups are never cached. The least recently used entry is evicted once
// maxEntries is reached.
type CachingGeocoder struct {
	next    Geocoder
	entries *expirable.LRU[string, models.Location]

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachingGeocoder wraps next. A ttl of zero keeps entries until evicted.
func NewCachingGeocoder(next Geocoder, maxEntries int, ttl time.Duration) *CachingGeocoder {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &CachingGeocoder{
		next:    next,
		entries: expirable.NewLRU[string, models.Location](maxEntries, nil, ttl),
	}
}

func (c *CachingGeocoder) Reverse(ctx context.Context, lat, lon float64) (*models.Location, error) {
	key := coordinateKey(lat, lon)
	if loc, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return &loc, nil
	}
	c.misses.Add(1)

	loc, err := c.next.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, *loc)
	return loc, nil
}

// Stats returns the current entry count and hit statistics.
func (c *CachingGeocoder) Stats() CacheStats {
	entries := c.entries.Len()
	hits, misses := c.hits.Load(), c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return CacheStats{Entries: entries, Hits: hits, Misses: misses, HitRate: hitRate}
}

func coordinateKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', CoordinatePrecision, 64) + "," +
		strconv.FormatFloat(lon, 'f', CoordinatePrecision, 64)
}
