package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GridKeyOpts identifies a sampled elevation grid. Two requests with equal
// options resolve to the same cache entry.
type GridKeyOpts struct {
	Lng1, Lat1 float64
	Lng2, Lat2 float64
	Projection string
	Rows, Cols int
	Source     string
}

// GridKey generates a cache key for a sampled elevation grid.
func GridKey(opts GridKeyOpts) string {
	return hashKey("grid", opts)
}

// TileKey generates a cache key for a raw elevation tile.
func TileKey(source string, z, x, y uint32) string {
	return fmt.Sprintf("tile:%s:%d/%d/%d", source, z, x, y)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
