// Package cache provides pluggable byte caches for layout results.
//
// Computing a layout is deterministic, so a result can be cached under a
// hash of the input graph and the options that produced it. The CLI uses a
// file-backed cache; the HTTP server can share a redis-backed one across
// instances, with a [ScopedKeyer] namespacing keys per deployment or tenant.
// The null cache disables caching without branching at call sites.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with optional expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKey derives the unscoped cache key for a layout, a convenience for
// callers that don't carry a [Keyer]. See [ScopedKeyer] for namespaced keys.
func LayoutKey(graphHash string, opts any) string {
	return NewDefaultKeyer().LayoutKey(graphHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes the SHA-256 content hash of data as a hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
