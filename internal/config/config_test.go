package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() loads from .defscan/config.yml when present
// - Load() merges config file with defaults
// - Environment variables override config file values
// - Load() returns error for malformed YAML
// - Load() returns error for invalid configuration values
// - Validate() rejects invalid format, negative workers, negative debounce
// - SourceExtensions() derives extensions from include patterns

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)

	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.False(t, cfg.Output.Quiet)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "", cfg.Cache.Location)

	assert.Equal(t, 0, cfg.Scan.Workers)
	assert.Equal(t, 16.0, cfg.Scan.MaxFileSizeMB)
	assert.False(t, cfg.Scan.FailOnDiagnostics)

	assert.Equal(t, 300, cfg.Watch.DebounceMs)

	assert.NotEmpty(t, cfg.Paths.Include)
	assert.NotEmpty(t, cfg.Paths.Ignore)
	assert.True(t, cfg.Paths.UseGitignore)

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().Output.Format, cfg.Output.Format)
	assert.Equal(t, Default().Paths.Include, cfg.Paths.Include)
}

func TestLoadConfig_LoadsFromConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	writeConfigFile(t, tempDir, `
output:
  format: json
  color: false
scan:
  workers: 4
  fail_on_diagnostics: true
`)

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.True(t, cfg.Scan.FailOnDiagnostics)

	// Unspecified sections keep their defaults.
	assert.Equal(t, Default().Watch.DebounceMs, cfg.Watch.DebounceMs)
	assert.Equal(t, Default().Paths.Include, cfg.Paths.Include)
}

func TestLoadConfig_EnvOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	writeConfigFile(t, tempDir, `
output:
  format: json
`)
	t.Setenv("DEFSCAN_OUTPUT_FORMAT", "yaml")

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("DEFSCAN_WATCH_DEBOUNCE_MS", "750")
	t.Setenv("DEFSCAN_CACHE_ENABLED", "false")

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, 750, cfg.Watch.DebounceMs)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	writeConfigFile(t, tempDir, "output: [unclosed")

	_, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	writeConfigFile(t, tempDir, `
output:
  format: xml
`)

	_, err := NewLoader(tempDir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"invalid format", func(c *Config) { c.Output.Format = "csv" }, ErrInvalidFormat},
		{"negative workers", func(c *Config) { c.Scan.Workers = -1 }, ErrInvalidWorkers},
		{"negative file size", func(c *Config) { c.Scan.MaxFileSizeMB = -1 }, ErrInvalidFileSize},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -10 }, ErrInvalidDebounce},
		{"no include patterns", func(c *Config) { c.Paths.Include = nil }, ErrEmptyInclude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "csv"
	cfg.Scan.Workers = -3

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
	assert.Contains(t, err.Error(), "invalid worker count")
}

func TestSourceExtensions(t *testing.T) {
	cfg := Default()
	cfg.Paths.Include = []string{"**/*.cpp", "**/*.h", "src/*.cpp"}

	exts := cfg.SourceExtensions()
	assert.ElementsMatch(t, []string{".cpp", ".h"}, exts)
}

func writeConfigFile(t *testing.T, rootDir, content string) {
	t.Helper()
	configDir := filepath.Join(rootDir, ".defscan")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0o644))
}
