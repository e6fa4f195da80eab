// Package cache provides a pluggable byte cache used to memoize corpus
// scans.
//
// Scanning a full device configuration tree parses thousands of JSONC
// files; the stats commands cache their reports keyed by a corpus
// fingerprint so repeated invocations are instant until a file changes.
//
// Three backends implement [Cache]:
//   - [FileCache]: per-user cache directory, the CLI default
//   - [NullCache]: caching disabled
//   - [RedisCache]: shared cache for CI runners processing the same tree
//
// Note the resolver's template cache is intentionally NOT built on this
// package: it is per-run, in-memory, and never shared by design.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached scan reports stay valid.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented cache with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
