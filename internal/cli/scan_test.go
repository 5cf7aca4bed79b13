package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defscan/defscan/internal/render"
)

// Test Plan for the scan command:
// - End-to-end: scan a temp project, write JSON to a file, decode it
// - --fail-on-diagnostics exits non-zero when a file has diagnostics
// - --no-cache scans without touching the cache
// - Unknown --format is rejected

func executeCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestScanCommand_JSONOutput(t *testing.T) {
	t.Setenv("DEFSCAN_CACHE_LOCATION", t.TempDir())
	root := writeProject(t, map[string]string{
		"src/point.hpp": "struct Point { int x; int y; };",
		"src/color.hpp": "enum class Color { Red, Green };",
	})
	outPath := filepath.Join(t.TempDir(), "report.json")

	err := executeCLI(t, "scan",
		"--root", root, "--format", "json", "--quiet",
		"--output", outPath, "--no-cache=false", "--fail-on-diagnostics=false")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc render.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.Summary.FilesScanned)
	assert.Equal(t, 2, doc.Summary.Definitions)

	names := map[string]bool{}
	for _, f := range doc.Files {
		for _, d := range f.Definitions {
			names[d.Name] = true
		}
	}
	assert.True(t, names["Point"])
	assert.True(t, names["Color"])
}

func TestScanCommand_FailOnDiagnostics(t *testing.T) {
	t.Setenv("DEFSCAN_CACHE_LOCATION", t.TempDir())
	root := writeProject(t, map[string]string{
		"broken.cpp": "struct Broken {\n    int x;\n",
	})
	outPath := filepath.Join(t.TempDir(), "report.json")

	err := executeCLI(t, "scan",
		"--root", root, "--format", "json", "--quiet",
		"--output", outPath, "--no-cache", "--fail-on-diagnostics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diagnostics")

	// The report is still written before the failure exit.
	_, statErr := os.Stat(outPath)
	assert.NoError(t, statErr)
}

func TestScanCommand_UnknownFormat(t *testing.T) {
	t.Setenv("DEFSCAN_CACHE_LOCATION", t.TempDir())
	root := writeProject(t, map[string]string{"a.cpp": "struct A {};"})

	err := executeCLI(t, "scan",
		"--root", root, "--format", "xml", "--quiet",
		"--output", filepath.Join(t.TempDir(), "r"), "--no-cache",
		"--fail-on-diagnostics=false")
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("DEFSCAN_CACHE_LOCATION", t.TempDir())
	root := writeProject(t, map[string]string{"a.cpp": "struct A { int x; };"})
	outPath := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, executeCLI(t, "scan",
		"--root", root, "--format", "json", "--quiet",
		"--output", outPath, "--no-cache=false", "--fail-on-diagnostics=false"))

	assert.NoError(t, executeCLI(t, "cache", "info", "--root", root))
	assert.NoError(t, executeCLI(t, "cache", "clear", "--root", root))
}
