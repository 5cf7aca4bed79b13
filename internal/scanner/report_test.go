package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Report Assembly:
// - Scan never returns nil and never fails, whatever the input
// - Definition spans round-trip: source[Start:End] is the brace-delimited text
// - Start and end line numbers are 1-based and correct
// - Diagnostics attach to the innermost enclosing definition, else file-level
// - TotalFields aggregates across definitions

func TestReport_EmptyInput(t *testing.T) {
	t.Parallel()

	report := Scan("", "empty.cpp")
	require.NotNil(t, report)
	assert.Equal(t, "empty.cpp", report.FilePath)
	assert.NotNil(t, report.Definitions)
	assert.Empty(t, report.Definitions)
	assert.Empty(t, report.Diagnostics)
}

func TestReport_SpanRoundTrip(t *testing.T) {
	t.Parallel()

	src := `namespace app {
struct Inner {
    int value;
};
}
`
	report := Scan(src, "roundtrip.cpp")
	require.Len(t, report.Definitions, 1)

	d := report.Definitions[0]
	body := src[d.Span.Start:d.Span.End]
	assert.True(t, strings.HasPrefix(body, "{"))
	assert.True(t, strings.HasSuffix(body, "}"))
	assert.Contains(t, body, "int value;")
}

func TestReport_LineNumbers(t *testing.T) {
	t.Parallel()

	src := "// header\nstruct A {\n    int x;\n};\n"
	report := Scan(src, "lines.cpp")
	require.Len(t, report.Definitions, 1)

	d := report.Definitions[0]
	assert.Equal(t, 2, d.StartLine)
	assert.Equal(t, 4, d.EndLine)
}

func TestReport_DiagnosticInsideDefinition(t *testing.T) {
	t.Parallel()

	src := `struct Broken {
    const char* s = "never closed
    int after;
};
`
	report := Scan(src, "diag.cpp")
	require.Len(t, report.Definitions, 1)

	d := report.Definitions[0]
	require.Len(t, d.Diagnostics, 1)
	assert.Equal(t, DiagUnterminatedString, d.Diagnostics[0].Kind)
	assert.Equal(t, 2, d.Diagnostics[0].Line)
	assert.Empty(t, report.Diagnostics, "the diagnostic belongs to the definition, not the file")
}

func TestReport_DiagnosticOutsideDefinitionIsFileLevel(t *testing.T) {
	t.Parallel()

	src := "const char* s = \"broken\nstruct Fine { int x; };\n"
	report := Scan(src, "diag.cpp")
	require.Len(t, report.Definitions, 1)
	assert.Empty(t, report.Definitions[0].Diagnostics)

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, DiagUnterminatedString, report.Diagnostics[0].Kind)
}

func TestReport_DiagnosticAttachesToInnermost(t *testing.T) {
	t.Parallel()

	src := `struct Outer {
    struct Inner {
        const char* s = "oops
    };
    int ok;
};
`
	report := Scan(src, "nested.cpp")
	require.Len(t, report.Definitions, 2)

	outer := report.Definitions[0]
	inner := report.Definitions[1]
	assert.Equal(t, "Outer", outer.Name)
	assert.Empty(t, outer.Diagnostics)
	require.Len(t, inner.Diagnostics, 1)
	assert.Equal(t, DiagUnterminatedString, inner.Diagnostics[0].Kind)
}

func TestReport_UnterminatedCommentAtEOF(t *testing.T) {
	t.Parallel()

	src := "struct Done { int x; };\n/* trailing thought"
	report := Scan(src, "comment.cpp")
	require.Len(t, report.Definitions, 1)
	assert.Empty(t, report.Definitions[0].Diagnostics)

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, DiagUnterminatedComment, report.Diagnostics[0].Kind)
}

func TestReport_TotalFields(t *testing.T) {
	t.Parallel()

	report := Scan(`
struct A { int x; int y; };
struct B { int z; };
enum C { ONE, TWO, THREE };
`, "totals.cpp")
	require.Len(t, report.Definitions, 3)
	assert.Equal(t, 6, report.TotalFields())
}

func TestReport_GarbageInputDoesNotPanic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"}}}}{{{{",
		"struct",
		"struct {",
		"< > < < > ; ; {",
		"\"\x00\xff\" struct \x01 {",
		strings.Repeat("{", 500),
	}
	for _, src := range inputs {
		report := Scan(src, "garbage.cpp")
		require.NotNil(t, report)
	}
}

func TestReport_StrayClosingBraceRecovers(t *testing.T) {
	t.Parallel()

	report := Scan(`
}
struct AfterStray {
    int x;
};
`, "stray.cpp")
	require.Len(t, report.Definitions, 1)
	assert.Equal(t, "AfterStray", report.Definitions[0].Name)
	assert.False(t, report.Definitions[0].Unterminated)
}
