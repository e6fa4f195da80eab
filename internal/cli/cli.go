// Package cli implements the zwconf command-line interface.
//
// This package provides commands for resolving device configuration
// templates into self-contained artifacts, inspecting corpus
// statistics, and managing the scan report cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - resolve: Expand $import templates into a versioned artifact
//   - stats: Corpus-wide statistics (parameter keys, descriptions)
//   - cache: Manage the scan report cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The
// logger lives on the CLI struct shared by every command.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zwavetools/zwconf/pkg/buildinfo"
	"github.com/zwavetools/zwconf/pkg/cache"
	"github.com/zwavetools/zwconf/pkg/config"
)

// appName is the application name used for directories and display.
const appName = "zwconf"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// progress tracks the start time of an operation and logs completion
// with elapsed duration. Safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to milliseconds.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "zwconf resolves device configuration templates",
		Long:         `zwconf expands $import references in Z-Wave device configuration files into self-contained, versioned artifacts, and reports statistics over the configuration corpus.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/zwconf/config.toml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// loadConfig loads the config file once and memoizes it. Flags that
// override config fields are applied by the individual commands.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// openCache builds the scan report cache backend selected by the
// config. The caller owns the returned cache and must Close it.
func (c *CLI) openCache(cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(cfg.Cache.RedisAddr)
	case config.BackendFile, "":
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
