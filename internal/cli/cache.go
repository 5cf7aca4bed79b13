package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/defscan/defscan/internal/cache"
	"github.com/defscan/defscan/internal/config"
)

// cacheCmd groups cache management subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the scan result cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache statistics and recent runs",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached file reports",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCacheForRoot() (*cache.Cache, string, error) {
	rootDir, err := resolveRoot()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}
	c, err := cache.Open(cfg.Cache.Location)
	if err != nil {
		return nil, "", err
	}
	return c, rootDir, nil
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	c, rootDir, err := openCacheForRoot()
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Cached file reports: %d\n", entries)

	runs, err := c.RecentRuns(rootDir, 5)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs for this project.")
		return nil
	}

	fmt.Println("\nRecent runs:")
	for _, run := range runs {
		fmt.Printf("  %s  %s  %d files, %d definitions, %d diagnostics (%.1fs)\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.ID[:8],
			run.FilesScanned, run.Definitions, run.Diagnostics,
			run.Duration.Seconds())
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, _, err := openCacheForRoot()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}
