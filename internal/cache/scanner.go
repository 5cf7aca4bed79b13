package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/defscan/defscan/internal/discovery"
	"github.com/defscan/defscan/internal/scanner"
)

// CachingScanner is a discovery.FileScanner that skips rescanning unchanged
// files. A file is unchanged when size and mtime match the cached record, or
// failing that, when its content hash matches.
type CachingScanner struct {
	cache *Cache
}

// NewCachingScanner creates a scanner backed by the given cache.
func NewCachingScanner(c *Cache) *CachingScanner {
	return &CachingScanner{cache: c}
}

// ScanFile implements discovery.FileScanner.
func (s *CachingScanner) ScanFile(ctx context.Context, absPath, relPath string) (*scanner.FileReport, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", absPath, err)
	}

	entry, found, err := s.cache.Lookup(absPath)
	if err != nil {
		return nil, err
	}

	// Fast path: stat matches, skip reading the file entirely.
	if found && entry.Size == info.Size() && entry.MtimeNs == info.ModTime().UnixNano() {
		return decodeReport(entry.Report, relPath)
	}

	source, err := discovery.ReadSource(absPath)
	if err != nil {
		return nil, err
	}
	hash := hashSource(source)

	// Content unchanged despite a stat mismatch (e.g. touch, checkout):
	// refresh the stat columns and reuse the stored report.
	if found && entry.SHA256 == hash {
		if err := s.cache.Touch(absPath, info.Size(), info.ModTime().UnixNano()); err != nil {
			return nil, err
		}
		return decodeReport(entry.Report, relPath)
	}

	report := scanner.Scan(source, relPath)
	encoded, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report for %s: %w", relPath, err)
	}
	if err := s.cache.Store(&Entry{
		Path:    absPath,
		Size:    info.Size(),
		MtimeNs: info.ModTime().UnixNano(),
		SHA256:  hash,
		Report:  string(encoded),
	}); err != nil {
		return nil, err
	}
	return report, nil
}

func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func decodeReport(encoded, relPath string) (*scanner.FileReport, error) {
	var report scanner.FileReport
	if err := json.Unmarshal([]byte(encoded), &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	// The cached copy may have been written from a different working
	// directory; the caller's relative path wins.
	report.FilePath = relPath
	return &report, nil
}
