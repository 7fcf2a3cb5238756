package raster

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iconatlas/pkg/cache"
	"github.com/matzehuels/iconatlas/pkg/observability"
	"github.com/matzehuels/iconatlas/pkg/source"
)

// cacheKeyType labels raster entries in cache hooks.
const cacheKeyType = "raster"

// Cached serves rasters from a cache and falls back to an inner Rasterizer.
// Keys cover the SVG content and every option that changes the output, so
// editing an icon or switching modes never returns a stale image.
//
// Cache failures are logged and treated as misses: a broken cache slows a
// build down but never fails it.
type Cached struct {
	inner  Rasterizer
	cache  cache.Cache
	keyer  cache.Keyer
	opts   cache.RasterKeyOpts
	logger *log.Logger
}

// NewCached wraps inner with c. A nil keyer uses the default keyer; a nil
// logger discards output.
func NewCached(inner Rasterizer, c cache.Cache, keyer cache.Keyer, opts cache.RasterKeyOpts, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, opts: opts, logger: logger}
}

// Rasterize returns the cached raster for src or produces and stores it.
func (c *Cached) Rasterize(ctx context.Context, src source.Source) (*image.NRGBA, error) {
	svg, err := os.ReadFile(src.Path)
	if err != nil {
		return c.inner.Rasterize(ctx, src)
	}
	key := c.keyer.RasterKey(cache.Hash(svg), c.opts)

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Debug("cache read failed", "icon", src.Name, "err", err)
	}
	if hit {
		if img, err := Decode(bytes.NewReader(data)); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			c.logger.Debug("cache hit", "icon", src.Name)
			return img, nil
		}
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	img, err := c.inner.Rasterize(ctx, src)
	if err != nil {
		return nil, err
	}

	if data, err := EncodePNG(img); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.TTLRaster); err != nil {
			c.logger.Debug("cache write failed", "icon", src.Name, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return img, nil
}

var _ Rasterizer = (*Cached)(nil)
