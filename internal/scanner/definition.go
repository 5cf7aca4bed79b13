package scanner

// AnonymousName is the name assigned to definitions declared without an
// identifier, e.g. `struct { ... } instance;`.
const AnonymousName = "anonymous"

// Kind identifies which keyword introduced a definition.
type Kind string

const (
	KindStruct Kind = "struct"
	KindClass  Kind = "class"
	KindUnion  Kind = "union"
	KindEnum   Kind = "enum"
)

// Extent is a half-open byte range [Start, End) into the scanned source.
// For a Definition it covers the brace-delimited body including both braces,
// so source[Start:End] reproduces the original text exactly.
type Extent struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Definition is a confirmed struct/class/union/enum declaration with a body.
// Forward declarations are never emitted as Definitions.
type Definition struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`

	// AssociatedName is the instance or typedef name following the closing
	// brace (`} foo;`). It is not the type's name.
	AssociatedName string `json:"associated_name,omitempty" yaml:"associated_name,omitempty"`

	IsTypedef bool `json:"is_typedef,omitempty" yaml:"is_typedef,omitempty"`

	// ScopedEnum marks `enum class` / `enum struct` definitions.
	ScopedEnum bool `json:"scoped_enum,omitempty" yaml:"scoped_enum,omitempty"`

	IsTemplate     bool   `json:"is_template,omitempty" yaml:"is_template,omitempty"`
	TemplateParams string `json:"template_params,omitempty" yaml:"template_params,omitempty"`

	// TemplateArgs holds the raw argument text of an explicit specialization,
	// e.g. "int" for `template<> struct Base<int> { ... }`.
	TemplateArgs string `json:"template_args,omitempty" yaml:"template_args,omitempty"`

	// NestingPath is the ordered chain of enclosing namespace and definition
	// names, outermost first. Namespaces contribute names but are not
	// themselves emitted as Definitions.
	NestingPath []string `json:"nesting_path,omitempty" yaml:"nesting_path,omitempty"`

	Span      Extent `json:"span" yaml:"span"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`

	// Unterminated is set when end-of-input was reached before the matching
	// closing brace. The Span then extends to the end of the source.
	Unterminated bool `json:"unterminated,omitempty" yaml:"unterminated,omitempty"`

	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// QualifiedName joins the nesting path and the definition name with "::".
func (d *Definition) QualifiedName() string {
	if len(d.NestingPath) == 0 {
		return d.Name
	}
	out := ""
	for _, part := range d.NestingPath {
		out += part + "::"
	}
	return out + d.Name
}

// Field is a single member declaration inside a definition. Members of nested
// definitions belong to the nested definition, never to the enclosing one.
type Field struct {
	// TypeText is the raw, unparsed declaration text preceding the member
	// name. Empty for enumerators.
	TypeText string `json:"type,omitempty" yaml:"type,omitempty"`

	Name string `json:"name" yaml:"name"`

	Bitfield      bool `json:"bitfield,omitempty" yaml:"bitfield,omitempty"`
	BitfieldWidth int  `json:"bitfield_width,omitempty" yaml:"bitfield_width,omitempty"`

	HasInitializer bool `json:"has_initializer,omitempty" yaml:"has_initializer,omitempty"`

	Line int `json:"line" yaml:"line"`
}

// DiagnosticKind classifies a non-fatal scan problem.
type DiagnosticKind string

const (
	DiagUnterminatedComment    DiagnosticKind = "unterminated_comment"
	DiagUnterminatedString     DiagnosticKind = "unterminated_string"
	DiagUnterminatedDefinition DiagnosticKind = "unterminated_definition"
	DiagAmbiguousAngleBracket  DiagnosticKind = "ambiguous_angle_bracket"
)

// Diagnostic reports degraded input. Diagnostics never abort a scan: the
// engine always returns best-effort results alongside them.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Message string         `json:"message" yaml:"message"`
	Offset  int            `json:"offset" yaml:"offset"`
	Line    int            `json:"line" yaml:"line"`
}

// FileReport is the result of scanning one source file. Definitions appear in
// document order of their opening braces. Diagnostics here are file-level;
// diagnostics inside a definition's span are attached to that definition.
type FileReport struct {
	FilePath    string       `json:"file_path" yaml:"file_path"`
	Definitions []Definition `json:"definitions" yaml:"definitions"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}
