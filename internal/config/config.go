package config

// Config represents the complete defscan configuration.
// It can be loaded from .defscan/config.yml with environment variable overrides.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// PathsConfig defines which files to scan and which to ignore.
type PathsConfig struct {
	Include      []string `yaml:"include" mapstructure:"include"`             // glob patterns for source files
	Ignore       []string `yaml:"ignore" mapstructure:"ignore"`               // glob patterns to skip
	UseGitignore bool     `yaml:"use_gitignore" mapstructure:"use_gitignore"` // honor .gitignore files
}

// ScanConfig tunes the scan pipeline.
type ScanConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`                         // parallel file scanners; 0 means GOMAXPROCS
	MaxFileSizeMB     float64 `yaml:"max_file_size_mb" mapstructure:"max_file_size_mb"`       // skip files larger than this
	FailOnDiagnostics bool    `yaml:"fail_on_diagnostics" mapstructure:"fail_on_diagnostics"` // non-zero exit when any diagnostic is reported
}

// CacheConfig defines result cache behavior.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Location string `yaml:"location" mapstructure:"location"` // override default ~/.defscan/cache
}

// OutputConfig defines report rendering.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text", "json", or "yaml"
	Color  bool   `yaml:"color" mapstructure:"color"`
	Quiet  bool   `yaml:"quiet" mapstructure:"quiet"`
}

// WatchConfig tunes the filesystem watcher.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before a rescan
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.c",
				"**/*.cc",
				"**/*.cpp",
				"**/*.cxx",
				"**/*.h",
				"**/*.hh",
				"**/*.hpp",
				"**/*.hxx",
			},
			Ignore: []string{
				".git/**",
				"build/**",
				"cmake-build-*/**",
				"third_party/**",
				"vendor/**",
			},
			UseGitignore: true,
		},
		Scan: ScanConfig{
			Workers:           0,
			MaxFileSizeMB:     16,
			FailOnDiagnostics: false,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Location: "", // empty means use default ~/.defscan/cache
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
			Quiet:  false,
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
	}
}

// SourceExtensions extracts unique file extensions from the include patterns.
// Returns extensions with leading dot (e.g., []string{".cpp", ".h"}).
func (c *Config) SourceExtensions() []string {
	extMap := make(map[string]bool)
	for _, pattern := range c.Paths.Include {
		if ext := extractExtension(pattern); ext != "" {
			extMap[ext] = true
		}
	}

	extensions := make([]string, 0, len(extMap))
	for ext := range extMap {
		extensions = append(extensions, ext)
	}
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if the pattern doesn't end in a *.ext form.
// Examples: "**/*.cpp" -> ".cpp", "*.h" -> ".h"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
