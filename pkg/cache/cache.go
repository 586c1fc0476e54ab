// Package cache provides pluggable byte caches used for elevation tiles and
// sampled grids.
//
// Four backends implement the same Cache interface:
//   - FileCache: XDG cache directory, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - MongoCache: shared cache backed by a MongoDB collection with TTL index
//   - NullCache: no-op, for tests and --no-cache
//
// Keys are opaque strings; helpers in keys.go derive stable keys from
// sampling parameters so identical requests hit the same entry.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Terrain barely changes; the TTLs mainly bound
// cache growth.
const (
	// TTLGrid applies to sampled elevation grids.
	TTLGrid = 7 * 24 * time.Hour

	// TTLTile applies to raw elevation tile bytes.
	TTLTile = 30 * 24 * time.Hour
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration;
	// a negative TTL stores the entry already expired.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
