package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/internal/config"
	"github.com/matzehuels/revetment/pkg/cache"
	"github.com/matzehuels/revetment/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered plot cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached plots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "cache backend cannot be cleared")
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}

			out := cmd.OutOrStdout()
			if count == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached entries", count)
			printDetail(out, "Location: %s", cacheLocation(cc))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached plots are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				fmt.Fprintln(cmd.OutOrStdout(), "redis://"+cfg.Cache.RedisAddr)
				return nil
			case config.CacheNone:
				printInfo(cmd.OutOrStdout(), "Caching is disabled")
				return nil
			}
			dir, err := cfg.CacheDirectory()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "locate cache directory")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func cacheLocation(cc cache.Cache) string {
	switch v := cc.(type) {
	case *cache.FileCache:
		return v.Dir()
	case *cache.RedisCache:
		return "redis://" + v.Addr()
	}
	return "none"
}
