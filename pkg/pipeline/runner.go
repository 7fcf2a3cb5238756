package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iconatlas/pkg/atlas"
	"github.com/matzehuels/iconatlas/pkg/cache"
	"github.com/matzehuels/iconatlas/pkg/errors"
	"github.com/matzehuels/iconatlas/pkg/observability"
	"github.com/matzehuels/iconatlas/pkg/raster"
	"github.com/matzehuels/iconatlas/pkg/sink"
	"github.com/matzehuels/iconatlas/pkg/source"
)

// Runner encapsulates pipeline execution with raster caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Rasterizer overrides msdfgen discovery. When nil, each Execute locates
	// msdfgen from Options.MsdfgenPath and removes its work directory after
	// the run.
	Rasterizer raster.Rasterizer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete discover → rasterize → pack → write pipeline.
//
// An input directory without SVG files yields a Result with Empty set and no
// error. When icons exist but none could be rasterized, Execute fails with
// NO_IMAGES_PRODUCED. Outputs are only written after packing succeeded.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	if err := source.CheckDir(opts.InputDir); err != nil {
		return nil, err
	}

	rasterizer, cleanup, err := r.rasterizer(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Stage 1: Discover
	sources, err := source.Discover(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	observability.Pipeline().OnDiscover(ctx, opts.InputDir, len(sources))

	result := &Result{Sources: sources}
	result.Stats.Sources = len(sources)
	if len(sources) == 0 {
		result.Empty = true
		logger.Info("no SVG files found", "dir", opts.InputDir)
		return result, nil
	}
	logger.Info("found icons", "count", len(sources), "dir", opts.InputDir)

	// Stage 2: Rasterize
	rasterStart := time.Now()
	images, failures, err := raster.RasterizeAll(ctx, rasterizer, sources, logger)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	result.Failures = failures
	result.Stats.Rasterized = len(images)
	result.Stats.Failed = len(failures)
	result.Stats.RasterizeTime = time.Since(rasterStart)

	logger.Info("rasterized icons",
		"processed", len(images),
		"failed", len(failures),
		"duration", result.Stats.RasterizeTime)

	if len(images) == 0 {
		return result, errors.New(errors.ErrCodeNoImagesProduced,
			"no images were successfully generated (%d of %d icons failed)", len(failures), len(sources))
	}

	// Stage 3: Pack
	packStart := time.Now()
	packed, err := r.Pack(ctx, images, opts.Padding)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Atlas = packed
	result.Metadata = atlas.NewMetadata(packed)
	result.Stats.SheetSize = packed.Sheet.Width
	result.Stats.Utilization = packed.Utilization()
	result.Stats.PackTime = time.Since(packStart)

	// Stage 4: Write
	writeStart := time.Now()
	if err := r.Write(ctx, result, opts); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Stats.WriteTime = time.Since(writeStart)

	return result, nil
}

// Pack builds the atlas for already rasterized images.
func (r *Runner) Pack(ctx context.Context, images []atlas.Image, padding int) (*atlas.Result, error) {
	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, len(images))

	start := time.Now()
	res, err := atlas.Build(images, padding)
	size := 0
	if res != nil {
		size = res.Sheet.Width
	}
	hooks.OnPackComplete(ctx, size, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("packed atlas",
		"icons", len(res.Placements),
		"size", fmt.Sprintf("%dx%d", res.Sheet.Width, res.Sheet.Height),
		"utilization", fmt.Sprintf("%.1f%%", res.Utilization()*100))
	return res, nil
}

// Write saves the sheet and metadata of result to the output paths in opts,
// recording the written paths and sizes on result. Neither target is
// replaced unless both files could be staged.
func (r *Runner) Write(ctx context.Context, result *Result, opts Options) error {
	if result.Atlas == nil {
		return errors.New(errors.ErrCodeInternal, "nothing to write")
	}
	hooks := observability.Pipeline()

	n, err := sink.WriteAtlasFiles(opts.OutputAtlas, result.Atlas.Sheet.Pixels, opts.OutputJSON, result.Metadata)
	hooks.OnWrite(ctx, opts.OutputAtlas, n.SheetBytes, err)
	hooks.OnWrite(ctx, opts.OutputJSON, n.MetadataBytes, err)
	if err != nil {
		return err
	}

	result.Files = append(result.Files, opts.OutputAtlas, opts.OutputJSON)
	result.Stats.SheetBytes = n.SheetBytes
	result.Stats.MetadataBytes = n.MetadataBytes
	r.Logger.Debug("saved atlas",
		"image", opts.OutputAtlas, "image_bytes", n.SheetBytes,
		"metadata", opts.OutputJSON, "metadata_bytes", n.MetadataBytes)
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// rasterizer returns the cached rasterizer for a run and a cleanup func that
// must be called once the run is over.
func (r *Runner) rasterizer(ctx context.Context, opts Options) (raster.Rasterizer, func(), error) {
	inner := r.Rasterizer
	tool := ""
	cleanup := func() {}

	if inner == nil {
		path, err := raster.FindMsdfgen(opts.MsdfgenPath)
		if err != nil {
			return nil, nil, err
		}
		m, err := raster.NewMsdfgen(path, opts.RasterOptions())
		if err != nil {
			return nil, nil, err
		}
		tool = m.Version(ctx)
		if tool == "" {
			tool = path
		}
		opts.Logger.Debug("using msdfgen", "path", m.Path(), "version", tool, "workdir", m.WorkDir())

		inner = m
		cleanup = func() {
			if err := m.Close(); err != nil {
				opts.Logger.Warn("cleanup failed", "dir", m.WorkDir(), "err", err)
				return
			}
			opts.Logger.Debug("cleanup complete", "dir", m.WorkDir())
		}
	}

	return raster.NewCached(inner, r.Cache, r.Keyer, opts.RasterKeyOpts(tool), opts.Logger), cleanup, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
