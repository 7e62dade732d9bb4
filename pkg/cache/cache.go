// Package cache provides pluggable result caching for layout runs.
//
// Two artifacts are cacheable: positioned graphs, keyed by input graph hash
// plus engine fingerprint, and scene documents, keyed by layout hash plus
// generated-id width. Keys are derived through a Keyer so embedders can swap
// key schemes or namespace them per tenant (ScopedKeyer).
//
// Backends:
//   - FileCache: directory-backed, for CLI usage
//   - MemoryCache: in-process, for single-instance servers and tests
//   - RedisCache: shared cache for multi-instance deployments
//   - NullCache: caching disabled
//
// # Usage
//
//	c, err := cache.NewFileCache("")
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(doc), client.Fingerprint())
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // Skip the engine call.
//	}
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache lifetimes per artifact. Layout answers are deterministic for a given
// engine fingerprint, so these bound staleness across engine upgrades rather
// than correctness.
const (
	// TTLLayout is the lifetime of cached positioned graphs.
	TTLLayout = 24 * time.Hour

	// TTLScene is the lifetime of cached scene documents.
	TTLScene = 24 * time.Hour
)
