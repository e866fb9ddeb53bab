// Package cache stores encoded frames so repeated renders of the same
// request are served without replaying the scene.
//
// A render is fully determined by its paragraph, seed, input history,
// surface size and constants, so its encoded output can be cached under a
// key derived from exactly those values (see [Keyer]). Three backends are
// provided:
//
//   - [FileCache]: one JSON entry per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the frame server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Cache failures are reported to the caller but are never meant to fail a
// render; the pipeline treats them as misses.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLArtifact is how long an encoded frame stays cached.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLServe is the shorter lifetime used by the frame server.
	TTLServe = time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value. A missing or expired key is a miss
	// (hit=false) with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
