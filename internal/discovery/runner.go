package discovery

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/defscan/defscan/internal/scanner"
)

// FileScanner produces a report for one source file. The default
// implementation reads and scans the file; wrappers can add caching.
type FileScanner interface {
	// ScanFile scans the file at absPath. relPath is the root-relative path
	// recorded in the report.
	ScanFile(ctx context.Context, absPath, relPath string) (*scanner.FileReport, error)
}

// ScanFunc adapts a function to the FileScanner interface.
type ScanFunc func(ctx context.Context, absPath, relPath string) (*scanner.FileReport, error)

func (f ScanFunc) ScanFile(ctx context.Context, absPath, relPath string) (*scanner.FileReport, error) {
	return f(ctx, absPath, relPath)
}

// DirectScanner reads and scans files with no caching.
func DirectScanner() FileScanner {
	return ScanFunc(func(ctx context.Context, absPath, relPath string) (*scanner.FileReport, error) {
		source, err := ReadSource(absPath)
		if err != nil {
			return nil, err
		}
		return scanner.Scan(source, relPath), nil
	})
}

// Stats tracks what a run processed.
type Stats struct {
	FilesScanned int
	FilesSkipped int
	Definitions  int
	Diagnostics  int
	ScanTime     time.Duration
}

// Runner discovers source files and scans them in parallel.
type Runner struct {
	rootDir     string
	workers     int
	maxFileSize int64 // bytes; 0 means unlimited
	fd          *FileDiscovery
	fileScanner FileScanner
	progress    ProgressReporter
}

// NewRunner creates a Runner over the given discovery. A nil progress
// reporter disables progress callbacks; a nil fileScanner scans directly.
func NewRunner(rootDir string, fd *FileDiscovery, fileScanner FileScanner, workers int, maxFileSize int64, progress ProgressReporter) *Runner {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	if fileScanner == nil {
		fileScanner = DirectScanner()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		rootDir:     rootDir,
		workers:     workers,
		maxFileSize: maxFileSize,
		fd:          fd,
		fileScanner: fileScanner,
		progress:    progress,
	}
}

// Run discovers and scans all matching files. Reports come back in discovery
// order regardless of worker scheduling. Per-file read failures are logged
// and skipped; only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context) ([]*scanner.FileReport, *Stats, error) {
	startTime := time.Now()
	stats := &Stats{}

	r.progress.OnDiscoveryStart()
	files, err := r.fd.DiscoverFiles()
	if err != nil {
		return nil, nil, fmt.Errorf("file discovery failed: %w", err)
	}
	r.progress.OnDiscoveryComplete(len(files))

	if len(files) == 0 {
		stats.ScanTime = time.Since(startTime)
		r.progress.OnComplete(stats)
		return []*scanner.FileReport{}, stats, nil
	}

	r.progress.OnScanStart(len(files))

	results := make([]*scanner.FileReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if r.maxFileSize > 0 {
				info, err := os.Stat(file)
				if err == nil && info.Size() > r.maxFileSize {
					r.progress.OnFileScanned(file)
					return nil
				}
			}

			relPath, err := filepath.Rel(r.rootDir, file)
			if err != nil {
				relPath = file
			}
			relPath = filepath.ToSlash(relPath)

			report, err := r.fileScanner.ScanFile(gctx, file, relPath)
			if err != nil {
				log.Printf("Warning: failed to scan %s: %v\n", relPath, err)
				r.progress.OnFileScanned(file)
				return nil
			}
			results[i] = report
			r.progress.OnFileScanned(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	reports := make([]*scanner.FileReport, 0, len(results))
	for _, report := range results {
		if report == nil {
			stats.FilesSkipped++
			continue
		}
		reports = append(reports, report)
		stats.FilesScanned++
		stats.Definitions += len(report.Definitions)
		stats.Diagnostics += len(report.Diagnostics)
		for i := range report.Definitions {
			stats.Diagnostics += len(report.Definitions[i].Diagnostics)
		}
	}

	stats.ScanTime = time.Since(startTime)
	r.progress.OnComplete(stats)
	return reports, stats, nil
}
