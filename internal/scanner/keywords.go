package scanner

// Dialect tables. Kept as one static configuration block so additional
// dialect keywords can be added without touching the matcher logic.

// kindKeywords maps the definition-introducing keywords to their Kind.
var kindKeywords = map[string]Kind{
	"struct": KindStruct,
	"class":  KindClass,
	"union":  KindUnion,
	"enum":   KindEnum,
}

// attrKeywords are keyword-style attribute specifiers that take a
// parenthesized group, e.g. __attribute__((packed)) or alignas(16).
var attrKeywords = map[string]bool{
	"__attribute__": true,
	"__declspec":    true,
	"alignas":       true,
}

// headSpecifiers may precede the kind keyword in a definition head without
// invalidating the match, e.g. `typedef struct`, `static const struct`.
var headSpecifiers = map[string]bool{
	"typedef":   true,
	"extern":    true,
	"static":    true,
	"inline":    true,
	"constexpr": true,
	"const":     true,
	"volatile":  true,
	"friend":    true,
}

// postNameKeywords may appear between a definition's name and its opening
// brace, e.g. `class Foo final {`.
var postNameKeywords = map[string]bool{
	"final":  true,
	"sealed": true,
}

// accessSpecifiers introduce member sections and are never fields.
var accessSpecifiers = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
}

// builtinTypeKeywords are fundamental type and width keywords. A declarator
// consisting of one of these alone names no member (anonymous bit-field
// padding, `unsigned : 3;`).
var builtinTypeKeywords = map[string]bool{
	"void":     true,
	"bool":     true,
	"char":     true,
	"short":    true,
	"int":      true,
	"long":     true,
	"float":    true,
	"double":   true,
	"signed":   true,
	"unsigned": true,
	"wchar_t":  true,
	"char8_t":  true,
	"char16_t": true,
	"char32_t": true,
}

// skippedMemberLeads start member declarations that are recorded as skipped
// rather than extracted as fields.
var skippedMemberLeads = map[string]bool{
	"using":         true,
	"static_assert": true,
	"friend":        true,
	"typedef":       true,
	"template":      true,
}
