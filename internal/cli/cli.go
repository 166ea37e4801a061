// Package cli implements the treeviz command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the --config file, or the default location when the
// flag is unset.
func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The caller closes it.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := c.Config.Cache.KeyPrefix; prefix != "" {
		keyer = cache.NewScopedKeyer(nil, prefix)
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the configured cache. An unreachable remote cache falls back
// to no caching with a warning so rendering still works offline.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.New(ctx, c.Config.Cache)
	if err != nil {
		if errors.Is(err, cache.ErrUnavailable) {
			c.Logger.Warn("cache unavailable, continuing without it", "backend", c.Config.Cache.Backend, "error", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory using XDG standard (~/.cache/treeviz/).
func cacheDir() (string, error) {
	return config.Default().Cache.Directory()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineDefaults returns pipeline options seeded from the configuration.
func (c *CLI) pipelineDefaults() pipeline.Options {
	return pipeline.Options{
		FontName: c.Config.FontName,
		FontSize: c.Config.FontSize,
		RankDir:  c.Config.RankDir,
		Engine:   c.Config.Engine,
		Backend:  c.Config.Backend,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
