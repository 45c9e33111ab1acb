// README: Redis-backed geocode cache; consulted after pattern matching, before the provider.
package location

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "location:geocode:"
	// Geocodes drift slowly; a month keeps repeat lookups for regular
	// customers off the provider without risking very stale data.
	cacheTTL = 30 * 24 * time.Hour
)

type Cache struct {
	redis *redis.Client
}

func NewCache(redis *redis.Client) *Cache {
	return &Cache{redis: redis}
}

// Get returns a cached resolution for the normalized text, if present.
// Redis errors are treated as misses; the resolver falls through to the
// provider chain.
func (c *Cache) Get(ctx context.Context, text string) (Location, bool) {
	val, err := c.redis.Get(ctx, cacheKey(text)).Result()
	if err != nil {
		return Location{}, false
	}
	var loc Location
	if err := json.Unmarshal([]byte(val), &loc); err != nil {
		return Location{}, false
	}
	return loc, true
}

// Put stores a successful provider resolution. Best effort: a write failure
// only costs a future provider call.
func (c *Cache) Put(ctx context.Context, text string, loc Location) {
	data, err := json.Marshal(loc)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, cacheKey(text), data, cacheTTL).Err()
}

func cacheKey(text string) string {
	return cacheKeyPrefix + strings.ToLower(strings.Join(strings.Fields(text), " "))
}
