package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/defscan/defscan/internal/discovery"
	"github.com/defscan/defscan/internal/scanner"
)

// Document is the complete output of one scan run, in a shape shared by all
// output formats.
type Document struct {
	Root        string                `json:"root" yaml:"root"`
	GeneratedAt time.Time             `json:"generated_at" yaml:"generated_at"`
	Files       []*scanner.FileReport `json:"files" yaml:"files"`
	Summary     Summary               `json:"summary" yaml:"summary"`
}

// Summary aggregates run-level counts.
type Summary struct {
	FilesScanned int   `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped int   `json:"files_skipped,omitempty" yaml:"files_skipped,omitempty"`
	Definitions  int   `json:"definitions" yaml:"definitions"`
	Diagnostics  int   `json:"diagnostics" yaml:"diagnostics"`
	DurationMs   int64 `json:"duration_ms" yaml:"duration_ms"`
}

// NewDocument assembles a Document from run results.
func NewDocument(root string, reports []*scanner.FileReport, stats *discovery.Stats) *Document {
	return &Document{
		Root:        root,
		GeneratedAt: time.Now().UTC(),
		Files:       reports,
		Summary: Summary{
			FilesScanned: stats.FilesScanned,
			FilesSkipped: stats.FilesSkipped,
			Definitions:  stats.Definitions,
			Diagnostics:  stats.Diagnostics,
			DurationMs:   stats.ScanTime.Milliseconds(),
		},
	}
}

// Renderer writes a Document in one output format.
type Renderer interface {
	Render(w io.Writer, doc *Document) error
}

// New returns the renderer for a format name ("text", "json", or "yaml").
func New(format string, useColor bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "text":
		return NewTextRenderer(useColor), nil
	case "json":
		return &JSONRenderer{}, nil
	case "yaml":
		return &YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
