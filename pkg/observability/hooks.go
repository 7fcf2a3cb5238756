// Package observability lets callers watch atlas builds without the build
// code knowing who is watching.
//
// Two hook sets exist: [PipelineHooks] for the discover, rasterize, pack and
// write stages, and [CacheHooks] for the raster cache. Both default to no-op
// implementations. The CLI registers pipeline hooks to drive its spinner;
// metrics exporters can register their own:
//
//	observability.SetPipelineHooks(&buildMetrics{})
//	defer observability.Reset()
//
// Emitting an event is a plain method call on the current hooks:
//
//	observability.Pipeline().OnRasterizeStart(ctx, name)
//	// ... run the rasterizer ...
//	observability.Pipeline().OnRasterizeComplete(ctx, name, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives stage events of an atlas build. Rasterize events
// fire once per icon, in source order.
type PipelineHooks interface {
	OnDiscover(ctx context.Context, dir string, sources int)

	OnRasterizeStart(ctx context.Context, name string)
	OnRasterizeComplete(ctx context.Context, name string, duration time.Duration, err error)

	OnPackStart(ctx context.Context, images int)
	// size is the sheet edge length, or 0 when packing failed.
	OnPackComplete(ctx context.Context, size int, duration time.Duration, err error)

	OnWrite(ctx context.Context, path string, bytes int, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives cache lookups and writes. kind names the cached
// artifact; the raster cache reports "raster".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, bytes int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every event. Embed it to implement only some
// PipelineHooks methods.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDiscover(context.Context, string, int)                           {}
func (NoopPipelineHooks) OnRasterizeStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnRasterizeComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnPackStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnPackComplete(context.Context, int, time.Duration, error)         {}
func (NoopPipelineHooks) OnWrite(context.Context, string, int, error)                       {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Registry
// =============================================================================

// hookSet is swapped as a whole so readers never see a half-updated pair.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
}

var current atomic.Pointer[hookSet]

func init() { Reset() }

func load() *hookSet { return current.Load() }

// update installs a copy of the current set modified by fn.
func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h for all following pipeline events.
// A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	update(func(s *hookSet) { s.pipeline = h })
}

// SetCacheHooks installs h for all following cache events.
// A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	update(func(s *hookSet) { s.cache = h })
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return load().cache }

// Reset reinstalls the no-op hooks.
func Reset() {
	current.Store(&hookSet{pipeline: NoopPipelineHooks{}, cache: NoopCacheHooks{}})
}
