package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defscan/defscan/internal/config"
	"github.com/defscan/defscan/internal/render"
	"github.com/defscan/defscan/internal/scanner"
)

// Test Plan for MCP Tools:
// - defscan_scan returns the full document as JSON text
// - defscan_file scans one file and returns its report
// - defscan_file rejects missing path argument and unreadable files
// - The production TreeScanner scans a real tree and resolves relative paths

type fakeScans struct {
	doc    *render.Document
	report *scanner.FileReport
	gotPath string
}

func (f *fakeScans) ScanTree(ctx context.Context) (*render.Document, error) {
	return f.doc, nil
}

func (f *fakeScans) ScanOne(ctx context.Context, path string) (*scanner.FileReport, error) {
	f.gotPath = path
	return f.report, nil
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestScanHandler_ReturnsDocumentJSON(t *testing.T) {
	t.Parallel()

	fake := &fakeScans{
		doc: &render.Document{
			Root:  "/proj",
			Files: []*scanner.FileReport{{FilePath: "a.cpp", Definitions: []scanner.Definition{}}},
		},
	}
	handler := createScanHandler(fake)

	res, err := handler(context.Background(), callRequest(nil))
	require.NoError(t, err)

	var doc render.Document
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &doc))
	assert.Equal(t, "/proj", doc.Root)
	require.Len(t, doc.Files, 1)
}

func TestFileHandler_ScansRequestedPath(t *testing.T) {
	t.Parallel()

	fake := &fakeScans{
		report: &scanner.FileReport{FilePath: "src/x.hpp", Definitions: []scanner.Definition{}},
	}
	handler := createFileHandler(fake)

	res, err := handler(context.Background(), callRequest(map[string]interface{}{"path": "src/x.hpp"}))
	require.NoError(t, err)
	assert.Equal(t, "src/x.hpp", fake.gotPath)

	var report scanner.FileReport
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &report))
	assert.Equal(t, "src/x.hpp", report.FilePath)
}

func TestFileHandler_MissingPath(t *testing.T) {
	t.Parallel()

	handler := createFileHandler(&fakeScans{})
	res, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTreeScanner_ScansRealTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.cpp", "struct A { int x; };")
	writeFile(t, root, "skip.md", "struct NotCode {};")

	scans := NewTreeScanner(root, config.Default())
	doc, err := scans.ScanTree(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "a.cpp", doc.Files[0].FilePath)
	assert.Equal(t, 1, doc.Summary.Definitions)
}

func TestTreeScanner_ScanOneResolvesRelativePath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "b.hpp", "enum E { A, B };")

	scans := NewTreeScanner(root, config.Default())
	report, err := scans.ScanOne(context.Background(), "b.hpp")
	require.NoError(t, err)
	assert.Equal(t, "b.hpp", report.FilePath)
	require.Len(t, report.Definitions, 1)
	assert.Equal(t, scanner.KindEnum, report.Definitions[0].Kind)

	_, err = scans.ScanOne(context.Background(), "missing.hpp")
	assert.Error(t, err)
}
