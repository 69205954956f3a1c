// Package cli implements the revetment command-line interface.
//
// Sections are kept in the configured store between runs. Every command
// loads them, works on the ordered list, and saves it back when it changed.
// Sizing is recomputed on every command; only rendered plots are cached.
//
// # Commands
//
//   - section: add, edit, remove, move, list and show river sections
//   - series: print the per-section D50 series along the reach
//   - plot: render the chart and reach schematic
//   - import, export: move sections in and out as JSON or YAML
//   - history, restore: list and restore earlier saves (sqlite backend)
//   - browse: interactive table of sections
//   - materials: print the material coefficient tables
//   - cache, config: inspect and manage local state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline and cache events. The logger travels through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/internal/config"
	"github.com/matzehuels/revetment/pkg/buildinfo"
	"github.com/matzehuels/revetment/pkg/cache"
	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/observability"
	"github.com/matzehuels/revetment/pkg/pipeline"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/store"
)

// appName is the application name used for directories and display.
const appName = config.AppName

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

// New creates a new CLI instance logging to w.
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
		Use:   appName,
		Short: "Revetment sizes riprap bank protection along a river reach",
		Long: `Revetment estimates the median stone size (D50) needed to protect a river bank.

Each river section is sized with two methods, the empirical Escarameia & May
formula and the Pilarczyk stability formula, and the results are plotted
along the reach.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/revetment/config.toml)")

	root.AddCommand(c.sectionCommand())
	root.AddCommand(c.seriesCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.restoreCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.materialsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per CLI.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Storage
// =============================================================================

// openStore opens the configured section store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "locate storage")
	}
	logger := loggerFromContext(ctx)
	logger.Debug("opening store", "backend", cfg.Storage.Backend, "path", path)
	return store.Open(store.Options{Backend: cfg.Storage.Backend, Path: path, Logger: logger})
}

// withSequence loads the stored sections, runs fn on them and saves the
// result when fn reports a change.
func (c *CLI) withSequence(ctx context.Context, fn func(*reach.Sequence) (bool, error)) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sections, err := st.Load(ctx)
	if err != nil {
		return err
	}
	seq := reach.NewSequence(sections...)

	changed, err := fn(seq)
	if err != nil || !changed {
		return err
	}
	return st.Save(ctx, seq.Sections())
}

// loadSequence returns the stored sections without holding the store open.
func (c *CLI) loadSequence(ctx context.Context) (*reach.Sequence, error) {
	var out *reach.Sequence
	err := c.withSequence(ctx, func(seq *reach.Sequence) (bool, error) {
		out = seq
		return false, nil
	})
	return out, err
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	r := pipeline.NewRunner(cc, keyer, loggerFromContext(ctx))
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

// newCache opens the configured artifact cache. An unreachable Redis falls
// back to no caching so plots still render.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if noCache {
		return cache.NewNullCache(), nil
	}

	logger := loggerFromContext(ctx)
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("redis unavailable, caching disabled", "addr", cfg.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}

	dir, err := cfg.CacheDirectory()
	if err != nil {
		logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
