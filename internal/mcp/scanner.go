package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/defscan/defscan/internal/config"
	"github.com/defscan/defscan/internal/discovery"
	"github.com/defscan/defscan/internal/render"
	"github.com/defscan/defscan/internal/scanner"
)

// TreeScanner runs scans on behalf of MCP tool handlers.
type TreeScanner interface {
	// ScanTree scans every matching file under the configured root.
	ScanTree(ctx context.Context) (*render.Document, error)

	// ScanOne scans a single file. Relative paths resolve against the root.
	ScanOne(ctx context.Context, path string) (*scanner.FileReport, error)
}

type treeScanner struct {
	rootDir string
	cfg     *config.Config
}

// NewTreeScanner creates the production TreeScanner over a project root.
func NewTreeScanner(rootDir string, cfg *config.Config) TreeScanner {
	return &treeScanner{rootDir: rootDir, cfg: cfg}
}

func (t *treeScanner) ScanTree(ctx context.Context) (*render.Document, error) {
	fd, err := discovery.NewFileDiscovery(
		t.rootDir, t.cfg.Paths.Include, t.cfg.Paths.Ignore, t.cfg.Paths.UseGitignore)
	if err != nil {
		return nil, fmt.Errorf("failed to set up discovery: %w", err)
	}

	maxSize := int64(t.cfg.Scan.MaxFileSizeMB * 1024 * 1024)
	runner := discovery.NewRunner(t.rootDir, fd, nil, t.cfg.Scan.Workers, maxSize, nil)

	reports, stats, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}
	return render.NewDocument(t.rootDir, reports, stats), nil
}

func (t *treeScanner) ScanOne(ctx context.Context, path string) (*scanner.FileReport, error) {
	absPath := path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(t.rootDir, path)
	}
	relPath, err := filepath.Rel(t.rootDir, absPath)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	source, err := discovery.ReadSource(absPath)
	if err != nil {
		return nil, err
	}
	return scanner.Scan(source, relPath), nil
}
