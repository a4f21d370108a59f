// Package cache provides byte-oriented caching with pluggable backends.
//
// cardpath uses it to memoize vault scans (keyed by file path and
// modification time) and flashcard-store stat snapshots. Three backends
// cover the deployment spectrum:
//
//   - [FileCache]: per-user on-disk cache for CLI usage (the default)
//   - [RedisCache]: shared cache when the HTTP API runs alongside other
//     instances
//   - [NullCache]: caching disabled, for tests and --no-cache runs
//
// Keys are arbitrary strings; backends hash them before storage, so long
// or filesystem-hostile keys are fine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get retrieves a value. The bool reports whether a fresh entry was
	// found; an expired or missing entry is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Hash computes the SHA-256 hex digest of data. Backends use it to derive
// storage keys; callers use it to build content-addressed cache keys
// (e.g. path + mtime for scan memoization).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
