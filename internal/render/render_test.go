package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/defscan/defscan/internal/discovery"
	"github.com/defscan/defscan/internal/scanner"
)

// Test Plan for Report Rendering:
// - New() selects the renderer by format name and rejects unknown formats
// - Text output lists definitions with qualified names, fields, and summary
// - Text output marks unterminated definitions and diagnostics
// - JSON output round-trips through encoding/json
// - YAML output round-trips through yaml.v3
// - Files with no findings are omitted from text output

func sampleDocument() *Document {
	report := scanner.Scan(`
namespace app {
struct Point {
    int x;
    int y = 0;
    unsigned flags : 3;
};
}
`, "src/point.hpp")

	empty := scanner.Scan("int x;", "src/empty.cpp")

	return NewDocument("/proj",
		[]*scanner.FileReport{report, empty},
		&discovery.Stats{
			FilesScanned: 2,
			Definitions:  1,
			ScanTime:     1500 * time.Millisecond,
		})
}

func TestNew_SelectsFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"text", "json", "yaml", "JSON"} {
		r, err := New(format, false)
		require.NoError(t, err, format)
		assert.NotNil(t, r)
	}

	_, err := New("xml", false)
	assert.Error(t, err)
}

func TestTextRenderer_Output(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewTextRenderer(false)
	require.NoError(t, r.Render(&buf, sampleDocument()))
	out := buf.String()

	assert.Contains(t, out, "src/point.hpp")
	assert.Contains(t, out, "struct app::Point")
	assert.Contains(t, out, "int x")
	assert.Contains(t, out, "int y = ...")
	assert.Contains(t, out, "flags : 3")
	assert.Contains(t, out, "1 definitions in 2 files")
	assert.Contains(t, out, "(1.5s)")

	assert.NotContains(t, out, "src/empty.cpp", "files without findings are omitted")
	assert.NotContains(t, out, "\x1b[", "colors disabled")
}

func TestTextRenderer_UnterminatedAndDiagnostics(t *testing.T) {
	t.Parallel()

	report := scanner.Scan("struct Broken {\n    int x;\n", "broken.cpp")
	doc := NewDocument("/proj", []*scanner.FileReport{report},
		&discovery.Stats{FilesScanned: 1, Definitions: 1, Diagnostics: 1})

	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer(false).Render(&buf, doc))
	out := buf.String()

	assert.Contains(t, out, "[unterminated]")
	assert.Contains(t, out, "opening brace is never closed")
	assert.Contains(t, out, "1 diagnostics")
}

func TestJSONRenderer_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&JSONRenderer{}).Render(&buf, sampleDocument()))

	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/proj", decoded.Root)
	require.Len(t, decoded.Files, 2)
	require.Len(t, decoded.Files[0].Definitions, 1)
	assert.Equal(t, "Point", decoded.Files[0].Definitions[0].Name)
	assert.Equal(t, []string{"app"}, decoded.Files[0].Definitions[0].NestingPath)
	assert.Equal(t, 1, decoded.Summary.Definitions)
}

func TestYAMLRenderer_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&YAMLRenderer{}).Render(&buf, sampleDocument()))

	var decoded Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, "Point", decoded.Files[0].Definitions[0].Name)
	assert.True(t, strings.Contains(buf.String(), "kind: struct"))
}
