// Package pipeline provides the atlas build pipeline for iconatlas.
//
// This package implements the complete discover → rasterize → pack → write
// pipeline used by the CLI commands. By centralizing this logic, the build
// and serve commands behave identically and tests can drive the whole flow
// with a fake rasterizer.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Discover: list the SVG icons in the input directory
//  2. Rasterize: turn each icon into a distance field image (msdfgen)
//  3. Pack: lay the images out on a square power-of-two sheet
//  4. Write: save the sheet and its JSON metadata
//
// Rasterization failures of single icons are tolerated and reported; every
// other failure aborts the run before any output is written.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    InputDir:    "icons",
//	    OutputAtlas: "atlas.png",
//	    OutputJSON:  "atlas.json",
//	    Padding:     pipeline.DefaultPadding,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.Empty {
//	    fmt.Println("no SVG files found")
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iconatlas/pkg/atlas"
	"github.com/matzehuels/iconatlas/pkg/cache"
	"github.com/matzehuels/iconatlas/pkg/errors"
	"github.com/matzehuels/iconatlas/pkg/raster"
	"github.com/matzehuels/iconatlas/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultOutputAtlas is the default sheet image path.
	DefaultOutputAtlas = "atlas.png"

	// DefaultOutputJSON is the default metadata path.
	DefaultOutputJSON = "atlas.json"

	// DefaultSize is the default width and height of each rasterized icon.
	DefaultSize = raster.DefaultSize

	// DefaultPadding is the default gap between icons and sheet edges.
	// Options.Padding is used as given, so callers pass this explicitly.
	DefaultPadding = 2

	// DefaultMode is the default distance field mode.
	DefaultMode = raster.DefaultMode

	// DefaultFormat is the default intermediate raster format.
	DefaultFormat = raster.DefaultFormat
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for an atlas build.
type Options struct {
	// Input
	InputDir string `json:"input_dir"`

	// Rasterization
	Size        int     `json:"size,omitempty"`
	Mode        string  `json:"mode,omitempty"`
	Range       float64 `json:"range,omitempty"`
	Format      string  `json:"format,omitempty"` // intermediate file format
	MsdfgenPath string  `json:"msdfgen_path,omitempty"`

	// Packing
	Padding int `json:"padding"`

	// Output
	OutputAtlas string `json:"output_atlas,omitempty"`
	OutputJSON  string `json:"output_json,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Empty is set when the input directory held no SVG files. Nothing is
	// rasterized or written in that case, and it is not an error.
	Empty bool

	// Sources are the discovered icons, in packing input order.
	Sources []source.Source

	// Atlas is the packed sheet and its placements.
	Atlas *atlas.Result

	// Metadata is the JSON-ready name → rectangle mapping.
	Metadata atlas.Metadata

	// Failures lists the icons the rasterizer could not process.
	Failures []raster.Failure

	// Files lists the paths written, sheet first.
	Files []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sources       int
	Rasterized    int
	Failed        int
	SheetSize     int
	Utilization   float64
	SheetBytes    int
	MetadataBytes int
	RasterizeTime time.Duration
	PackTime      time.Duration
	WriteTime     time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputDir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input directory is required")
	}
	if o.OutputAtlas == "" {
		o.OutputAtlas = DefaultOutputAtlas
	}
	if o.OutputJSON == "" {
		o.OutputJSON = DefaultOutputJSON
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidPadding, "padding must be non-negative, got %d", o.Padding)
	}
	for _, p := range []string{o.OutputAtlas, o.OutputJSON} {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
	}

	ro := o.RasterOptions()
	if err := ro.Validate(); err != nil {
		return err
	}
	o.Mode, o.Size, o.Format = ro.Mode, ro.Size, ro.Format

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RasterOptions returns the rasterizer settings.
func (o *Options) RasterOptions() raster.Options {
	return raster.Options{Mode: o.Mode, Size: o.Size, Range: o.Range, Format: o.Format}
}

// RasterKeyOpts returns cache key options for rasterized icons. tool
// identifies the rasterizer build, so upgrading msdfgen invalidates entries.
func (o *Options) RasterKeyOpts(tool string) cache.RasterKeyOpts {
	return cache.RasterKeyOpts{
		Mode:  o.Mode,
		Size:  o.Size,
		Range: o.Range,
		Tool:  tool,
	}
}
