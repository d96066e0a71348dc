// Package cache stores generated displacement maps and rendered artifacts.
//
// Producing a texture is cheap but not free, and interactive consumers
// (the tuner, the HTTP API) ask for the same configuration many times in a
// row. Every backend implements [Cache]; keys come from a [Keyer] so the
// same configuration always lands on the same entry:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().DisplacementKey(cfg)
//	data, hit, err := c.Get(ctx, key)
//
// Backends:
//   - [NullCache] stores nothing.
//   - [MemoryCache] keeps a bounded number of entries in process.
//   - [FileCache] persists entries as JSON files for the CLI.
//   - [RedisCache] shares entries between server instances.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/liquidglass/pkg/glass"
)

// Default lifetimes for cached values.
const (
	// TTLDisplacement applies to generated displacement map results.
	TTLDisplacement = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered output (filter documents, PNG, PDF).
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// DisplacementKey identifies the result of generating cfg.
	DisplacementKey(cfg glass.Config) string

	// ArtifactKey identifies an artifact rendered from a result whose
	// content hash is resultHash.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds everything besides the result that changes an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	FilterID string  `json:"filter_id,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Preview  bool    `json:"preview,omitempty"`
}

// DefaultKeyer hashes the full input of each entry.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DisplacementKey hashes every field of cfg, so any change to geometry or
// visual settings produces a different key.
func (DefaultKeyer) DisplacementKey(cfg glass.Config) string {
	return hashKey("displacement", cfg)
}

// ArtifactKey hashes the result hash together with opts.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

var _ Keyer = DefaultKeyer{}
