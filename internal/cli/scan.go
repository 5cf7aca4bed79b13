package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/defscan/defscan/internal/cache"
	"github.com/defscan/defscan/internal/config"
	"github.com/defscan/defscan/internal/discovery"
	"github.com/defscan/defscan/internal/render"
)

var (
	formatFlag  string
	quietFlag   bool
	noCacheFlag bool
	failFlag    bool
	outputFlag  string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Scan the project tree for type definitions",
	Long: `Scan walks the project tree, scans every matching C/C++ source file, and
reports all struct, class, union, and enum definitions found.

Unchanged files are served from the result cache; use --no-cache to force a
full rescan.

Examples:
  # Scan the current directory
  defscan scan

  # Machine-readable output
  defscan scan --format json > report.json

  # Fail the build when any file has diagnostics
  defscan scan --fail-on-diagnostics
`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: text, json, or yaml")
	scanCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	scanCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Rescan every file, bypassing the result cache")
	scanCmd.Flags().BoolVar(&failFlag, "fail-on-diagnostics", false, "Exit non-zero when any diagnostic is reported")
	scanCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the report to a file instead of stdout")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling scan...")
		cancel()
	}()

	rootDir, err := resolveRoot(args...)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyScanFlags(cmd, cfg)

	progress := NewCLIProgressReporter(cfg.Output.Quiet)
	doc, err := executeScan(ctx, rootDir, cfg, progress)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("scan cancelled")
		}
		return err
	}

	out := os.Stdout
	if outputFlag != "" {
		f, err := os.Create(outputFlag)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	useColor := cfg.Output.Color && outputFlag == ""
	renderer, err := render.New(cfg.Output.Format, useColor)
	if err != nil {
		return err
	}
	if err := renderer.Render(out, doc); err != nil {
		return err
	}

	if cfg.Scan.FailOnDiagnostics && doc.Summary.Diagnostics > 0 {
		return fmt.Errorf("scan reported %d diagnostics", doc.Summary.Diagnostics)
	}
	return nil
}

// applyScanFlags layers command-line flags over the loaded configuration.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if quietFlag {
		cfg.Output.Quiet = true
	}
	if noCacheFlag {
		cfg.Cache.Enabled = false
	}
	if failFlag {
		cfg.Scan.FailOnDiagnostics = true
	}
}

// executeScan runs one full scan of rootDir and records it in the run history
// when caching is enabled.
func executeScan(ctx context.Context, rootDir string, cfg *config.Config, progress discovery.ProgressReporter) (*render.Document, error) {
	fd, err := discovery.NewFileDiscovery(
		rootDir, cfg.Paths.Include, cfg.Paths.Ignore, cfg.Paths.UseGitignore)
	if err != nil {
		return nil, fmt.Errorf("failed to set up discovery: %w", err)
	}

	var fileScanner discovery.FileScanner
	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache, err = cache.Open(cfg.Cache.Location)
		if err != nil {
			// A broken cache degrades to direct scanning, never blocks the run.
			log.Printf("Warning: cache unavailable, scanning without it: %v", err)
		} else {
			defer resultCache.Close()
			fileScanner = cache.NewCachingScanner(resultCache)
		}
	}

	maxSize := int64(cfg.Scan.MaxFileSizeMB * 1024 * 1024)
	runner := discovery.NewRunner(rootDir, fd, fileScanner, cfg.Scan.Workers, maxSize, progress)

	startedAt := time.Now()
	reports, stats, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	if resultCache != nil {
		if _, err := resultCache.RecordRun(rootDir, startedAt, stats.ScanTime,
			stats.FilesScanned, stats.Definitions, stats.Diagnostics); err != nil {
			log.Printf("Warning: failed to record run: %v", err)
		}
	}

	return render.NewDocument(rootDir, reports, stats), nil
}
