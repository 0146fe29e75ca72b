package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fortuna/vantage/internal/cache"
	"github.com/fortuna/vantage/internal/metrics"
)

func TestCacheGetCountsHitsAndMisses(t *testing.T) {
	store := cache.NewMemory()
	ctx := context.Background()
	key := cache.Key("basketball", "team", "counter-check")

	m := metrics.Default()
	hits := func() float64 {
		return testutil.ToFloat64(m.CacheHits.WithLabelValues("basketball"))
	}
	misses := func() float64 {
		return testutil.ToFloat64(m.CacheMisses.WithLabelValues("basketball"))
	}
	hits0, misses0 := hits(), misses()

	var out string
	if CacheGet(ctx, store, key, &out) {
		t.Fatal("empty cache should miss")
	}
	if got := misses(); got != misses0+1 {
		t.Errorf("miss not counted: %v -> %v", misses0, got)
	}

	CachePut(ctx, store, key, "cached", time.Minute)
	if !CacheGet(ctx, store, key, &out) || out != "cached" {
		t.Fatalf("expected cache hit, got %q", out)
	}
	if got := hits(); got != hits0+1 {
		t.Errorf("hit not counted: %v -> %v", hits0, got)
	}
}

func TestCacheGetPoisonedEntryIsMiss(t *testing.T) {
	store := cache.NewMemory()
	ctx := context.Background()
	key := cache.Key("soccer", "team", "poisoned")
	store.Set(ctx, key, []byte("{not json"), time.Minute)

	var out string
	if CacheGet(ctx, store, key, &out) {
		t.Fatal("undecodable entry should be a miss")
	}
}
