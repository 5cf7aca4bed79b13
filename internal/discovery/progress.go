package discovery

// ProgressReporter provides callbacks for reporting scan progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(files int)

	// OnScanStart is called before scanning files.
	OnScanStart(totalFiles int)

	// OnFileScanned is called after each file is scanned or skipped.
	OnFileScanned(fileName string)

	// OnComplete is called when the run completes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()             {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(files int) {}
func (n *NoOpProgressReporter) OnScanStart(totalFiles int)    {}
func (n *NoOpProgressReporter) OnFileScanned(fileName string) {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)       {}
