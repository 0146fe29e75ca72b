// Package cache provides the short-TTL store shared by all provider
// clients and adapters. The cache is an optimization only: every fault is
// treated as a miss and never surfaced to the caller.
package cache

import (
	"context"
	"strings"
	"time"
)

// Store is the cache contract. A value older than its TTL is absent.
// Implementations must be safe for concurrent readers and writers.
type Store interface {
	// Get returns the cached bytes for key, or found=false on miss,
	// expiry, or any backend fault.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. Backend faults are swallowed.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Key builds a deterministic cache key from a sport, operation and
// arguments, e.g. "basketball:stats:141:2024".
func Key(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		cleaned = append(cleaned, strings.ToLower(strings.TrimSpace(p)))
	}
	return strings.Join(cleaned, ":")
}
