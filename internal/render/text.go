package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/defscan/defscan/internal/scanner"
)

// TextRenderer writes a human-readable report.
type TextRenderer struct {
	path *color.Color
	kind *color.Color
	name *color.Color
	warn *color.Color
	dim  *color.Color
}

// NewTextRenderer creates a text renderer. Colors are disabled when useColor
// is false (e.g. piped output).
func NewTextRenderer(useColor bool) *TextRenderer {
	r := &TextRenderer{
		path: color.New(color.FgCyan, color.Bold),
		kind: color.New(color.FgGreen),
		name: color.New(color.Bold),
		warn: color.New(color.FgYellow),
		dim:  color.New(color.Faint),
	}
	if !useColor {
		for _, c := range []*color.Color{r.path, r.kind, r.name, r.warn, r.dim} {
			c.DisableColor()
		}
	}
	return r
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, doc *Document) error {
	for _, file := range doc.Files {
		if len(file.Definitions) == 0 && len(file.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", r.path.Sprint(file.FilePath))

		for i := range file.Definitions {
			r.renderDefinition(w, &file.Definitions[i])
		}
		for _, d := range file.Diagnostics {
			fmt.Fprintf(w, "  %s %s (line %d)\n", r.warn.Sprint("!"), d.Message, d.Line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d definitions in %d files",
		doc.Summary.Definitions, doc.Summary.FilesScanned)
	if doc.Summary.Diagnostics > 0 {
		fmt.Fprintf(w, ", %s", r.warn.Sprintf("%d diagnostics", doc.Summary.Diagnostics))
	}
	fmt.Fprintf(w, " (%.1fs)\n", float64(doc.Summary.DurationMs)/1000)
	return nil
}

func (r *TextRenderer) renderDefinition(w io.Writer, d *scanner.Definition) {
	header := fmt.Sprintf("  %s %s", r.kind.Sprint(describeKind(d)), r.name.Sprint(d.QualifiedName()))
	if d.AssociatedName != "" {
		header += fmt.Sprintf(" (as %s)", d.AssociatedName)
	}
	header += r.dim.Sprintf("  lines %d-%d", d.StartLine, d.EndLine)
	if d.Unterminated {
		header += " " + r.warn.Sprint("[unterminated]")
	}
	fmt.Fprintln(w, header)

	for _, f := range d.Fields {
		fmt.Fprintf(w, "    %s\n", describeField(&f))
	}
	for _, diag := range d.Diagnostics {
		fmt.Fprintf(w, "    %s %s (line %d)\n", r.warn.Sprint("!"), diag.Message, diag.Line)
	}
}

func describeKind(d *scanner.Definition) string {
	var parts []string
	if d.IsTypedef {
		parts = append(parts, "typedef")
	}
	if d.IsTemplate {
		parts = append(parts, "template")
	}
	if d.ScopedEnum {
		parts = append(parts, "enum class")
	} else {
		parts = append(parts, string(d.Kind))
	}
	return strings.Join(parts, " ")
}

func describeField(f *scanner.Field) string {
	var b strings.Builder
	if f.TypeText != "" {
		b.WriteString(f.TypeText)
		b.WriteByte(' ')
	}
	b.WriteString(f.Name)
	if f.Bitfield {
		fmt.Fprintf(&b, " : %d", f.BitfieldWidth)
	}
	if f.HasInitializer {
		b.WriteString(" = ...")
	}
	return b.String()
}
