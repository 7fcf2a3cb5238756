// Package cache stores rasterized icons between runs.
//
// Rasterizing an SVG with an external tool is by far the slowest part of
// building an atlas, and most icons in a set rarely change. The [Cache]
// interface abstracts where rasterized PNG bytes are kept:
//
//   - [FileCache]: a directory of JSON entries, the default for CLI use
//   - [RedisCache]: a shared Redis instance, for CI runners and build farms
//   - [NullCache]: no caching at all (--no-cache)
//
// Keys are produced by a [Keyer] so that every input affecting the raster
// output (SVG content, mode, size, distance range) ends up in the key.
package cache

import (
	"context"
	"time"
)

// TTLRaster is how long a rasterized icon stays cached.
const TTLRaster = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	// Misses are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// RasterKeyOpts holds the rasterizer settings that affect the output image.
type RasterKeyOpts struct {
	Mode  string  `json:"mode"`
	Size  int     `json:"size"`
	Range float64 `json:"range,omitempty"`
	Tool  string  `json:"tool,omitempty"` // rasterizer identity, e.g. its version string
}

// Keyer builds cache keys.
type Keyer interface {
	// RasterKey returns the key for the raster of an SVG with the given content hash.
	RasterKey(svgHash string, opts RasterKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RasterKey returns "raster:" followed by a digest of the SVG hash and every
// option field.
func (DefaultKeyer) RasterKey(svgHash string, opts RasterKeyOpts) string {
	return digest("raster", append([]string{svgHash}, opts.fields()...)...)
}
