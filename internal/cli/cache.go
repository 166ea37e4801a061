package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg := c.Config.Cache
	if cfg.Backend == config.CacheNone {
		printInfo("Caching is disabled")
		return nil
	}

	store, err := cache.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	defer store.Close()

	cl, ok := store.(cache.Clearer)
	if !ok {
		return fmt.Errorf("%s cache cannot be cleared", cfg.Backend)
	}
	if err := cl.Clear(ctx); err != nil {
		return err
	}

	printSuccess("Cleared %s cache", cfg.Backend)
	printDetail("Location: %s", cacheLocation(cfg))
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the configured cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(out, cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cacheLocation describes the cache: a directory for the file backend,
// a URL for the remote ones.
func cacheLocation(cfg config.Cache) string {
	switch cfg.Backend {
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.RedisAddr, cfg.RedisDB)
	case config.CacheMongo:
		return fmt.Sprintf("%s (database %s, collection %s)", cfg.MongoURI, cfg.MongoDatabase, cache.DefaultMongoCollection)
	case config.CacheNone:
		return "disabled"
	default:
		dir, err := cfg.Directory()
		if err != nil {
			return "unknown (" + err.Error() + ")"
		}
		return dir
	}
}
