package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/parenfmt/internal/configloader"
	"github.com/yaklabco/parenfmt/pkg/cache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clean the format cache",
		Long: `The format cache remembers files that were already formatted so later runs
can skip them. It lives in the user cache directory unless cache.path is
set in the configuration.`,
	}

	cmd.AddCommand(newCacheInfoCommand(), newCachePruneCommand())
	return cmd
}

func newCacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where the cache lives and how many files it tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(cmd, func(ctx context.Context, c *cache.Cache) error {
				n, err := c.Len(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "path:    %s\nentries: %d\n", c.Path(), n)
				return err
			})
		},
	}
}

func newCachePruneCommand() *cobra.Command {
	var olderThan time.Duration
	var all bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop entries for deleted files and, optionally, stale entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var before time.Time
			switch {
			case all:
				// Everything written before now, which is everything.
				before = time.Now().Add(time.Second)
			case olderThan > 0:
				before = time.Now().Add(-olderThan)
			}

			return withCache(cmd, func(ctx context.Context, c *cache.Cache) error {
				removed, err := c.Prune(ctx, before)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d %s\n", removed, plural(removed, "entry", "entries"))
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "also drop entries not refreshed within this duration")
	cmd.Flags().BoolVar(&all, "all", false, "drop every entry")
	return cmd
}

// withCache resolves the cache location from the configuration and runs fn
// against the opened database.
func withCache(cmd *cobra.Command, fn func(context.Context, *cache.Cache) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	path := loaded.Config.Cache.Path
	if path == "" {
		if path, err = cache.DefaultPath(); err != nil {
			return err
		}
	}

	c, err := cache.Open(ctx, path)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
