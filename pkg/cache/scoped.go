package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when a Redis instance is shared with other tools, or when
// several icon sets with different rasterizer builds share one cache.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "iconatlas:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RasterKey generates a prefixed key for raster caching.
func (k *ScopedKeyer) RasterKey(svgHash string, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(svgHash, opts)
}
