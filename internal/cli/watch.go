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

	"github.com/defscan/defscan/internal/config"
	"github.com/defscan/defscan/internal/render"
	"github.com/defscan/defscan/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Rescan automatically when source files change",
	Long: `Watch performs an initial scan, then monitors the project tree and rescans
whenever source files change. Unchanged files are served from the result
cache, so incremental rescans are cheap.

Example:
  defscan watch --format text
`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: text, json, or yaml")
	watchCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nStopping watch mode...")
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

	renderer, err := render.New(cfg.Output.Format, cfg.Output.Color)
	if err != nil {
		return err
	}

	rescan := func() {
		progress := NewCLIProgressReporter(cfg.Output.Quiet)
		doc, err := executeScan(ctx, rootDir, cfg, progress)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Scan failed: %v", err)
			}
			return
		}
		if err := renderer.Render(os.Stdout, doc); err != nil {
			log.Printf("Render failed: %v", err)
		}
	}

	rescan()

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watcher.New(rootDir, cfg.SourceExtensions(), debounce)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx, func(files []string) {
		if !cfg.Output.Quiet {
			log.Printf("%d files changed, rescanning...", len(files))
		}
		rescan()
	}); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !cfg.Output.Quiet {
		log.Println("Watching for changes (Ctrl+C to stop)...")
	}
	<-ctx.Done()
	return nil
}
