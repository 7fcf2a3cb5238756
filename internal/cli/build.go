package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iconatlas/pkg/config"
	"github.com/matzehuels/iconatlas/pkg/errors"
	"github.com/matzehuels/iconatlas/pkg/observability"
	"github.com/matzehuels/iconatlas/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	inputDir   string        // directory containing SVG icons
	configPath string        // explicit config file (default: <input-dir>/iconatlas.toml)
	noCache    bool          // disable the raster cache
	settings   config.Config // flag values, merged with the config file
}

// buildCommand creates the build command.
//
// Default settings:
//   - output: atlas.png and atlas.json in the working directory
//   - size: 64×64 pixels per icon
//   - padding: 2 pixels
//   - mode: msdf
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{
		settings: config.Config{
			Size:        pipeline.DefaultSize,
			Padding:     pipeline.DefaultPadding,
			Mode:        pipeline.DefaultMode,
			Format:      pipeline.DefaultFormat,
			OutputAtlas: pipeline.DefaultOutputAtlas,
			OutputJSON:  pipeline.DefaultOutputJSON,
		},
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate an MSDF atlas from a folder of SVGs",
		Example: `  iconatlas build --input-dir icons
  iconatlas build --input-dir icons --size 48 --padding 4 --output-atlas assets/icons.png
  iconatlas build --input-dir icons --mode mtsdf --range 6 --msdfgen-path ./build/msdfgen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), &opts)
		},
	}

	s := &opts.settings
	cmd.Flags().StringVar(&opts.inputDir, "input-dir", "", "directory containing SVG icons (required)")
	cmd.Flags().StringVar(&s.OutputAtlas, config.FlagName(config.KeyOutputAtlas), s.OutputAtlas, "output file for the atlas image (.png, .bmp, .tiff)")
	cmd.Flags().StringVar(&s.OutputJSON, config.FlagName(config.KeyOutputJSON), s.OutputJSON, "output JSON map file")
	cmd.Flags().IntVar(&s.Size, config.FlagName(config.KeySize), s.Size, "resolution of each icon's MSDF")
	cmd.Flags().IntVar(&s.Padding, config.FlagName(config.KeyPadding), s.Padding, "padding pixels between icons in the atlas")
	cmd.Flags().StringVar(&s.Mode, config.FlagName(config.KeyMode), s.Mode, "distance field mode: msdf (default), mtsdf, sdf, psdf")
	cmd.Flags().Float64Var(&s.Range, config.FlagName(config.KeyRange), s.Range, "distance range in pixels (default: msdfgen's)")
	cmd.Flags().StringVar(&s.Format, config.FlagName(config.KeyFormat), s.Format, "intermediate raster format: png (default), bmp, tiff")
	cmd.Flags().StringVar(&s.MsdfgenPath, config.FlagName(config.KeyMsdfgenPath), "", "explicit path to the msdfgen binary")
	cmd.Flags().StringVar(&s.CacheURL, config.FlagName(config.KeyCacheURL), "", "shared raster cache (redis://host:port/db)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: <input-dir>/"+config.FileName+" if present)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the raster cache")
	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagDirname("input-dir")

	return cmd
}

// mergeConfig applies the config file, if any, underneath the flags that
// were set explicitly.
func (c *CLI) mergeConfig(cmd *cobra.Command, opts *buildOpts) error {
	path := opts.configPath
	if path == "" {
		found, ok := config.Find(opts.inputDir)
		if !ok {
			return nil
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.ApplyTo(&opts.settings, func(key string) bool {
		return cmd.Flags().Changed(config.FlagName(key))
	})
	loggerFromContext(cmd.Context()).Debug("loaded config", "path", path)
	return nil
}

// pipelineOptions converts the merged settings into pipeline options.
func (o *buildOpts) pipelineOptions() pipeline.Options {
	s := o.settings
	return pipeline.Options{
		InputDir:    o.inputDir,
		Size:        s.Size,
		Mode:        s.Mode,
		Range:       s.Range,
		Format:      s.Format,
		MsdfgenPath: s.MsdfgenPath,
		Padding:     s.Padding,
		OutputAtlas: s.OutputAtlas,
		OutputJSON:  s.OutputJSON,
	}
}

// runBuild executes the pipeline and reports the outcome.
// A directory without SVG files is reported and treated as success.
func (c *CLI) runBuild(ctx context.Context, opts *buildOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache, opts.settings.CacheURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.pipelineOptions()
	popts.Logger = logger

	var spinner *Spinner
	if !c.verbose() {
		spinner = newSpinnerWithContext(ctx, "Rasterizing icons...")
		observability.SetPipelineHooks(&spinnerHooks{spinner: spinner})
		defer observability.Reset()
		spinner.Start()
	}

	result, err := runner.Execute(ctx, popts)
	if spinner != nil {
		if err != nil && !spinner.Cancelled() {
			spinner.StopWithError("Atlas build failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		if errors.Is(err, errors.ErrCodeNoImagesProduced) && result != nil {
			reportFailures(result)
		}
		return err
	}

	if result.Empty {
		printWarning("No SVG files found in '%s'", opts.inputDir)
		return nil
	}

	reportFailures(result)
	size := result.Stats.SheetSize
	printSuccess("Built atlas (%dx%d)", size, size)
	for _, f := range result.Files {
		printFile(f)
	}
	printStats(result.Stats)
	printNextStep("Preview it", fmt.Sprintf("%s serve --atlas %s --json %s", appName, result.Files[0], result.Files[1]))

	prog.donef("Built atlas for %d icons", result.Stats.Rasterized)
	return nil
}

// reportFailures lists the icons the rasterizer rejected.
func reportFailures(result *pipeline.Result) {
	if len(result.Failures) == 0 {
		return
	}
	printWarning("%d of %d icons could not be rasterized", len(result.Failures), result.Stats.Sources)
	for _, f := range result.Failures {
		printDetail("%s: %s", f.Source.Name, errors.UserMessage(f.Err))
	}
}

// =============================================================================
// Progress Hooks
// =============================================================================

// spinnerHooks shows pipeline progress on a spinner.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner

	mu    sync.Mutex
	total int
	done  int
}

func (h *spinnerHooks) OnDiscover(_ context.Context, _ string, sources int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total = sources
	h.spinner.Update(fmt.Sprintf("Rasterizing icons (0/%d)...", sources))
}

func (h *spinnerHooks) OnRasterizeComplete(_ context.Context, _ string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done++
	h.spinner.Update(fmt.Sprintf("Rasterizing icons (%d/%d)...", h.done, h.total))
}

func (h *spinnerHooks) OnPackStart(_ context.Context, images int) {
	h.spinner.Update(fmt.Sprintf("Packing %d icons...", images))
}

func (h *spinnerHooks) OnWrite(_ context.Context, path string, _ int, _ error) {
	h.spinner.Update("Writing " + path + "...")
}
