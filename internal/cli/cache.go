package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/errors"
)

// cacheCommand groups the cache maintenance subcommands. Each takes an
// optional project root whose archgraph.toml selects the backend.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the layout and diagram cache",
	}
	cmd.AddCommand(
		c.cacheInfoCommand(),
		c.cachePruneCommand(),
		c.cacheClearCommand(),
		c.cachePathCommand(),
	)
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [root]",
		Short: "Show the configured backend and what it holds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.cacheSettings(rootArg(args))
			if err != nil {
				return err
			}
			cc, err := cache.Open(settings)
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "open cache")
			}
			defer cc.Close()

			out := newPrinter(cmd.OutOrStdout())
			out.keyValue("Backend", settings.Backend)
			switch settings.Backend {
			case cache.BackendFile:
				out.keyValue("Directory", settings.Dir)
			case cache.BackendRedis:
				out.keyValue("URL", settings.RedisURL)
			}

			insp, ok := cc.(cache.Inspector)
			if !ok {
				return nil
			}
			stats, err := insp.Stats(cmd.Context())
			if err != nil {
				out.warning("cannot read cache contents: %v", err)
				return nil
			}
			out.keyValue("Entries", strconv.Itoa(stats.Entries))
			if stats.Bytes >= 0 {
				out.keyValue("Size", formatBytes(stats.Bytes))
			}
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune [root]",
		Short: "Remove expired and unreadable entries from the file cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache(rootArg(args))
			if err != nil {
				return err
			}
			n, err := fc.Prune()
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "prune cache")
			}
			out := newPrinter(cmd.OutOrStdout())
			out.success("Pruned %s", entries(n))
			out.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [root]",
		Short: "Remove every cached layout and diagram from the file cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache(rootArg(args))
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "clear cache")
			}
			out := newPrinter(cmd.OutOrStdout())
			if n == 0 {
				out.info("Cache is already empty")
				return nil
			}
			out.success("Cleared %s", entries(n))
			out.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path [root]",
		Short: "Print the file cache directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.cacheSettings(rootArg(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), settings.Dir)
			return nil
		},
	}
}

// cacheSettings resolves the backend for root, filling in the per-user
// directory when the file backend has none configured.
func (c *CLI) cacheSettings(root string) (cache.Config, error) {
	cfg, err := c.loadConfig(root)
	if err != nil {
		return cache.Config{}, err
	}
	settings := cfg.CacheSettings()
	if settings.Backend == "" {
		settings.Backend = cache.BackendFile
	}
	if settings.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.Config{}, errors.Wrap(errors.ErrCodeCache, err, "locate cache directory")
		}
		settings.Dir = dir
	}
	return settings, nil
}

// openFileCache opens the file cache for root. Prune and clear only make
// sense for it: memory entries die with the process and Redis has its own
// eviction.
func (c *CLI) openFileCache(root string) (*cache.FileCache, error) {
	settings, err := c.cacheSettings(root)
	if err != nil {
		return nil, err
	}
	if settings.Backend != cache.BackendFile {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cache backend %q has no local entries to maintain", settings.Backend)
	}
	fc, err := cache.NewFileCache(settings.Dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "open cache")
	}
	return fc, nil
}

func entries(n int) string {
	if n == 1 {
		return "1 cached entry"
	}
	return fmt.Sprintf("%d cached entries", n)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
