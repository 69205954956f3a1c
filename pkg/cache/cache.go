// Package cache stores rendered artifacts (charts and schematics) between runs.
//
// Only artifacts are cached. Sizing results are cheap and are recomputed on
// every run, so the series hash that keys an artifact always reflects the
// current section list.
//
// Backends:
//   - [FileCache]: sharded files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer]. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a cached artifact.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Type   string `json:"type"`   // chart or schematic
	Format string `json:"format"` // svg, png or json
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of an artifact rendered from the series
	// identified by seriesHash.
	ArtifactKey(seriesHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unprefixed keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the series hash together with the render options.
func (DefaultKeyer) ArtifactKey(seriesHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", seriesHash, opts)
}
