// Package raster turns vector icons into raster images.
//
// Rasterization is delegated to an external tool behind the [Rasterizer]
// interface; the packing core never runs processes itself. [Msdfgen] invokes
// the msdfgen command line tool to produce multi-channel signed distance
// fields, and [Cached] puts a [cache.Cache] in front of any Rasterizer.
//
// [RasterizeAll] drives a Rasterizer over a list of sources, tolerating
// per-icon failures: they are logged, reported, and left out of the result.
//
// [cache.Cache]: github.com/matzehuels/iconatlas/pkg/cache
package raster

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iconatlas/pkg/atlas"
	"github.com/matzehuels/iconatlas/pkg/errors"
	"github.com/matzehuels/iconatlas/pkg/observability"
	"github.com/matzehuels/iconatlas/pkg/source"
)

// Distance field modes understood by msdfgen.
const (
	ModeMSDF  = "msdf"  // multi-channel signed distance field (RGB)
	ModeMTSDF = "mtsdf" // msdf plus true distance in alpha (RGBA)
	ModeSDF   = "sdf"   // single-channel signed distance field
	ModePSDF  = "psdf"  // single-channel pseudo-distance field
)

// Intermediate file formats msdfgen can write.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// ValidModes is the set of supported distance field modes.
var ValidModes = map[string]bool{ModeMSDF: true, ModeMTSDF: true, ModeSDF: true, ModePSDF: true}

// ValidFormats is the set of supported intermediate formats.
var ValidFormats = map[string]bool{FormatPNG: true, FormatBMP: true, FormatTIFF: true}

// Rasterizer produces a raster image for one vector source.
type Rasterizer interface {
	Rasterize(ctx context.Context, src source.Source) (*image.NRGBA, error)
}

// Options controls how icons are rasterized.
type Options struct {
	Mode   string  // distance field mode, default msdf
	Size   int     // output width and height in pixels, default 64
	Range  float64 // distance range in pixels; 0 leaves msdfgen's default
	Format string  // intermediate file format, default png
}

// Defaults for Options.
const (
	DefaultMode   = ModeMSDF
	DefaultSize   = 64
	DefaultFormat = FormatPNG
)

// Validate applies defaults and checks the options.
func (o *Options) Validate() error {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if !ValidModes[o.Mode] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid mode: %q (must be one of: msdf, mtsdf, sdf, psdf)", o.Mode)
	}
	if !ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid raster format: %q (must be one of: png, bmp, tiff)", o.Format)
	}
	if o.Size < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %d", o.Size)
	}
	if o.Range < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "range must be non-negative, got %g", o.Range)
	}
	return nil
}

// Failure records a source that could not be rasterized.
type Failure struct {
	Source source.Source
	Err    error
}

// RasterizeAll rasterizes every source in order. Sources that fail are
// logged as warnings and returned as failures; the images of the others keep
// the source order. The only error returned is context cancellation.
func RasterizeAll(ctx context.Context, r Rasterizer, sources []source.Source, logger *log.Logger) ([]atlas.Image, []Failure, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hooks := observability.Pipeline()

	images := make([]atlas.Image, 0, len(sources))
	var failures []Failure

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		hooks.OnRasterizeStart(ctx, src.Name)
		start := time.Now()
		img, err := r.Rasterize(ctx, src)
		hooks.OnRasterizeComplete(ctx, src.Name, time.Since(start), err)

		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			logger.Warn("rasterizer failed", "icon", src.Name, "path", src.Path, "err", errors.UserMessage(err))
			failures = append(failures, Failure{Source: src, Err: err})
			continue
		}

		logger.Debug("processed", "icon", src.Name, "size", img.Bounds().Size())
		images = append(images, atlas.Image{Name: src.Name, Pixels: img})
	}

	return images, failures, nil
}
