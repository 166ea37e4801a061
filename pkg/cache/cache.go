// Package cache stores rendered diagram artifacts.
//
// # Overview
//
// Rendering is the expensive step of the pipeline, so images are cached by
// the hash of the DOT source they were produced from plus the options that
// affect encoding. The same DOT always renders to the same image, which makes
// the cache safe to share between the CLI and the HTTP API.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under ~/.cache/treeviz (CLI default)
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: one document per entry, expired by a TTL index
//   - [NullCache]: caching disabled
//
// [New] picks the backend from configuration. [Instrument] wraps any backend
// so lookups reach the observability cache hooks.
//
// # Keys
//
// A [Keyer] derives keys from content hashes; [ScopedKeyer] prefixes them so
// several tenants can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases connections held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLs for cached values.
const (
	TTLArtifact    = 7 * 24 * time.Hour
	TTLDescription = 24 * time.Hour
)

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *NullCache) Delete(context.Context, string) error                     { return nil }
func (c *NullCache) Clear(context.Context) error                              { return nil }
func (c *NullCache) Close() error                                             { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
