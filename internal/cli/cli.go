// Package cli implements the iconatlas command-line interface.
//
// # Commands
//
//   - build: rasterize a folder of SVG icons and pack them into an atlas
//   - serve: preview a built atlas over HTTP
//   - cache: manage the raster cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// replaces the spinner with per-icon log lines. The root command attaches the
// CLI logger to the command context; commands fetch it with loggerFromContext.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iconatlas/pkg/buildinfo"
	"github.com/matzehuels/iconatlas/pkg/cache"
	"github.com/matzehuels/iconatlas/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "iconatlas"

	// defaultAddr is the default listen address of the preview server.
	defaultAddr = "127.0.0.1:8080"

	// redisPingTimeout bounds the reachability check of a shared cache.
	redisPingTimeout = 2 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// verbose reports whether debug logging is enabled.
func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "iconatlas packs SVG icons into an MSDF texture atlas",
		Long:         `iconatlas rasterizes a folder of SVG icons into multi-channel signed distance fields with msdfgen and packs them into a single square power-of-two texture, together with JSON metadata locating every icon.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. An unreachable Redis
// cache is dropped with a warning; the build then runs uncached.
func (c *CLI) newRunner(ctx context.Context, noCache bool, cacheURL string) (*pipeline.Runner, error) {
	ch, keyer, err := newCache(noCache, cacheURL)
	if err != nil {
		return nil, err
	}
	if rc, ok := ch.(*cache.RedisCache); ok {
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			c.Logger.Warn("raster cache unreachable, building without it", "url", cacheURL, "err", err)
			_ = rc.Close()
			ch, keyer = cache.NewNullCache(), nil
		}
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache picks the raster cache: none, a shared Redis instance, or the
// local cache directory. Redis keys are prefixed so the instance can be
// shared with other applications.
func newCache(noCache bool, cacheURL string) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), nil, nil
	}
	if cacheURL != "" {
		rc, err := cache.NewRedisCache(cacheURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/iconatlas/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
