// Package cli implements the ridgemap command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ridgemap/ridgemap/pkg/buildinfo"
	"github.com/ridgemap/ridgemap/pkg/cache"
	"github.com/ridgemap/ridgemap/pkg/errors"
	"github.com/ridgemap/ridgemap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "ridgemap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Cache backend names accepted by --cache-backend.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
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

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ridgemap",
		Short:        "Ridgemap draws terrain as layered ridge lines",
		Long:         `Ridgemap samples real-world elevation data over a bounding box and renders it as an SVG of stacked ridge-line strokes, in the style of classic skyline posters.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheSettings selects the cache backend shared by generate and serve.
type cacheSettings struct {
	backend string
	addr    string // redis address or mongo URI
	noCache bool
}

// registerCacheFlags wires the shared cache flags onto a command.
func (s *cacheSettings) registerCacheFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.backend, "cache-backend", backendFile, "cache backend: file, redis, mongo, none")
	cmd.Flags().StringVar(&s.addr, "cache-addr", "", "redis address or mongo URI for shared backends")
	cmd.Flags().BoolVar(&s.noCache, "no-cache", false, "disable caching (same as --cache-backend=none)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, settings cacheSettings) (*pipeline.Runner, error) {
	store, err := newCache(cmd.Context(), settings)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.Logger), nil
}

func newCache(ctx context.Context, settings cacheSettings) (cache.Cache, error) {
	if settings.noCache {
		return cache.NewNullCache(), nil
	}
	switch settings.backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendFile, "":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case backendRedis:
		if settings.addr == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "redis cache backend needs --cache-addr")
		}
		return cache.NewRedisCache(ctx, settings.addr)
	case backendMongo:
		if settings.addr == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "mongo cache backend needs --cache-addr")
		}
		return cache.NewMongoCache(ctx, settings.addr)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown cache backend: %q (must be file, redis, mongo, or none)", settings.backend)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ridgemap/).
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

// configPath returns the default config file path (~/.config/ridgemap/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseBBox parses a "lng1,lat1,lng2,lat2" bounding box string.
func parseBBox(s string) (lng1, lat1, lng2, lat2 float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, errors.New(errors.ErrCodeInvalidInput,
			"bounding box must be lng1,lat1,lng2,lat2, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, 0, errors.New(errors.ErrCodeInvalidInput,
				"bad bounding box coordinate %q", p)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
