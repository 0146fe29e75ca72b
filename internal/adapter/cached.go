package adapter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fortuna/vantage/internal/cache"
	"github.com/fortuna/vantage/internal/metrics"
)

// Default TTLs by volatility. Team identity barely moves; fixtures and
// injuries do.
const (
	TTLTeam     = time.Hour
	TTLStats    = 30 * time.Minute
	TTLMatches  = 5 * time.Minute
	TTLH2H      = time.Hour
	TTLInjuries = 10 * time.Minute
)

// CacheGet loads and decodes a cached value into out. Any decode problem
// is a miss; a poisoned entry must never fail a request. Hits and misses
// are counted per sport, taken from the key's leading segment.
func CacheGet(ctx context.Context, store cache.Store, key string, out interface{}) bool {
	if store == nil {
		return false
	}
	raw, ok := store.Get(ctx, key)
	if ok {
		ok = json.Unmarshal(raw, out) == nil
	}
	sport, _, _ := strings.Cut(key, ":")
	if ok {
		metrics.Default().RecordCacheHit(sport)
	} else {
		metrics.Default().RecordCacheMiss(sport)
	}
	return ok
}

// CachePut encodes and stores a value. Encode failures are silently
// dropped; the cache is an optimization only.
func CachePut(ctx context.Context, store cache.Store, key string, v interface{}, ttl time.Duration) {
	if store == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	store.Set(ctx, key, raw, ttl)
}
