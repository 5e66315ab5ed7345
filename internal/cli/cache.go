package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchor/pkg/cache"
)

// cacheCommand groups the result cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the result cache",
		Long: `Resolved scenes and sweeps are cached on disk, keyed by a hash of the scene.
Editing a scene file changes its key, so stale entries are never served; they
expire after 24 hours or when cleared.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached results and sweeps",
			Args:  cobra.NoArgs,
			RunE:  c.withFileCache(c.runCacheClear),
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show the number and size of cached entries",
			Args:  cobra.NoArgs,
			RunE:  c.withFileCache(c.runCacheStats),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(c.out, dir)
				return nil
			},
		},
	)
	return cmd
}

// withFileCache opens the CLI's cache directory for fn. A directory that
// does not exist yet is reported as empty without creating it.
func (c *CLI) withFileCache(fn func(*cache.FileCache) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("get cache dir: %w", err)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			printInfo(c.out, "Cache is empty")
			return nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return err
		}
		defer fc.Close()
		return fn(fc)
	}
}

func (c *CLI) runCacheClear(fc *cache.FileCache) error {
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	printSuccess(c.out, "Cleared %d cached entries", n)
	printDetail(c.out, "Directory: %s", fc.Dir())
	return nil
}

func (c *CLI) runCacheStats(fc *cache.FileCache) error {
	st, err := fc.Stats()
	if err != nil {
		return err
	}
	printKeyValue(c.out, "directory", fc.Dir())
	printKeyValue(c.out, "entries", fmt.Sprint(st.Entries))
	printKeyValue(c.out, "expired", fmt.Sprint(st.Expired))
	printKeyValue(c.out, "size", formatBytes(st.Bytes))
	return nil
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
