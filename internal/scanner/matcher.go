package scanner

import "strings"

// scan is the single-pass state for one file: the token stream, the context
// stack, and the arena of definitions. Definitions are kept in an arena
// referenced by index rather than as an ownership tree, so partial trees
// survive unterminated input and emission order stays the document order of
// opening braces.
type scan struct {
	src   string
	toks  []token
	lines *lineIndex

	defs  []Definition
	stack []*scopeFrame // stack[0] is the file-level pseudo frame
	diags []Diagnostic
}

func newScan(src string, toks []token) *scan {
	return &scan{
		src:   src,
		toks:  toks,
		lines: newLineIndex(src),
		stack: []*scopeFrame{newFrame(roleBlock, 0)},
	}
}

func (s *scan) top() *scopeFrame { return s.stack[len(s.stack)-1] }

func (s *scan) push(f *scopeFrame) { s.stack = append(s.stack, f) }

func (s *scan) pop() *scopeFrame {
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return f
}

// run drives the whole match: every token flows through exactly once.
func (s *scan) run() {
	for ti := range s.toks {
		f := s.top()
		switch s.toks[ti].text {
		case "{":
			s.openBrace(ti)
		case "}":
			s.closeBrace(ti)
		case ";":
			s.endStatement(f)
		case ",":
			if f.isEnum && f.parenDepth == 0 {
				s.emitEnumerator(f)
				f.resetRun()
				continue
			}
			f.run = append(f.run, ti)
		case "(":
			f.parenDepth++
			f.run = append(f.run, ti)
		case ")":
			if f.parenDepth > 0 {
				f.parenDepth--
			}
			f.run = append(f.run, ti)
		case ":":
			// `public:` and friends end a member section header, not a field
			if f.role == roleDefinition && f.parenDepth == 0 && len(f.run) == 1 &&
				accessSpecifiers[s.toks[f.run[0]].text] {
				f.resetRun()
				continue
			}
			f.run = append(f.run, ti)
		default:
			f.run = append(f.run, ti)
		}
	}
	s.finish()
}

// openBrace classifies a structural '{' as a definition, namespace, linkage
// block, or opaque block, based on the pending token run since the last
// statement boundary.
func (s *scan) openBrace(ti int) {
	f := s.top()
	offset := s.toks[ti].start

	if f.parenDepth > 0 {
		// Brace inside parens (compound literal, lambda argument): opaque,
		// and the surrounding run stays live.
		s.push(newFrame(roleBlock, offset))
		return
	}

	head := s.classifyHead(f.run)
	switch head.role {
	case roleDefinition:
		name := head.name
		if name == "" {
			name = AnonymousName
		}
		d := Definition{
			Kind:           head.kind,
			Name:           name,
			IsTypedef:      head.isTypedef,
			ScopedEnum:     head.scoped,
			IsTemplate:     head.isTemplate,
			TemplateParams: head.templateParams,
			TemplateArgs:   head.templateArgs,
			NestingPath:    s.currentPath(),
			Span:           Extent{Start: offset},
			StartLine:      s.lines.LineFor(head.startOffset),
			Fields:         []Field{},
		}
		nf := newFrame(roleDefinition, offset)
		nf.defIndex = len(s.defs)
		nf.isEnum = head.kind == KindEnum
		s.defs = append(s.defs, d)
		f.resetRun()
		s.push(nf)

	case roleNamespace:
		nf := newFrame(roleNamespace, offset)
		nf.names = head.names
		f.resetRun()
		s.push(nf)

	case roleLinkage:
		f.resetRun()
		s.push(newFrame(roleLinkage, offset))

	default:
		// Function body vs. brace initializer: a head with top-level parens
		// is a function or method, whose members are never fields; a head
		// without parens keeps accumulating (`int x{0};`).
		if s.runHasTopLevelParen(f.run) {
			f.resetRun()
		} else if len(f.run) > 0 {
			f.pendingInit = true
		}
		s.push(newFrame(roleBlock, offset))
	}
}

func (s *scan) closeBrace(ti int) {
	if len(s.stack) == 1 {
		// Stray '}' at file level: skip it and keep scanning.
		s.top().resetRun()
		return
	}
	f := s.pop()
	if f.role != roleDefinition {
		return
	}
	d := &s.defs[f.defIndex]
	if f.isEnum && len(f.run) > 0 {
		s.emitEnumerator(f)
	}
	d.Span.End = s.toks[ti].end
	d.EndLine = s.lines.LineFor(s.toks[ti].start)
	s.top().closedNested = f.defIndex
}

func (s *scan) endStatement(f *scopeFrame) {
	f.parenDepth = 0
	if f.closedNested >= 0 {
		s.recordAssociatedName(f)
		f.closedNested = -1
		f.resetRun()
		return
	}
	if f.role == roleDefinition && !f.isEnum {
		s.extractField(f)
	}
	f.resetRun()
}

// recordAssociatedName captures the instance or typedef name between a
// definition's closing brace and the terminating ';' (`} foo;`). The name is
// associated with the type but is not the type's name.
func (s *scan) recordAssociatedName(f *scopeFrame) {
	run := s.stripAttributes(f.run)
	for _, ri := range run {
		t := s.toks[ri]
		if t.kind == tokIdent && !headSpecifiers[t.text] {
			s.defs[f.closedNested].AssociatedName = t.text
			return
		}
	}
}

// finish finalizes frames still open at end-of-input. Every open definition
// is emitted with an unterminated span rather than discarded, so callers see
// partial results for broken files.
func (s *scan) finish() {
	for len(s.stack) > 1 {
		f := s.pop()
		if f.role != roleDefinition {
			continue
		}
		d := &s.defs[f.defIndex]
		if f.isEnum && len(f.run) > 0 {
			s.emitEnumerator(f)
		}
		d.Unterminated = true
		d.Span.End = len(s.src)
		d.EndLine = s.lines.lastLine()
		d.Diagnostics = append(d.Diagnostics, Diagnostic{
			Kind:    DiagUnterminatedDefinition,
			Message: "opening brace is never closed",
			Offset:  f.open,
			Line:    s.lines.LineFor(f.open),
		})
	}
}

// currentPath returns the ordered chain of enclosing namespace and
// definition names. Anonymous namespaces contribute nothing.
func (s *scan) currentPath() []string {
	var path []string
	for _, f := range s.stack {
		switch f.role {
		case roleNamespace:
			path = append(path, f.names...)
		case roleDefinition:
			path = append(path, s.defs[f.defIndex].Name)
		}
	}
	return path
}

func (s *scan) runHasTopLevelParen(run []int) bool {
	depth := 0
	for _, ri := range run {
		switch s.toks[ri].text {
		case "(":
			if depth == 0 {
				return true
			}
			depth++
		case ")":
			if depth > 0 {
				depth--
			}
		}
	}
	return false
}

// defHead is the parsed head of a confirmed definition opening.
type defHead struct {
	role           braceRole
	kind           Kind
	name           string
	scoped         bool
	isTypedef      bool
	isTemplate     bool
	templateParams string
	templateArgs   string
	names          []string // namespace components
	startOffset    int
}

// classifyHead decides what the brace following the given run opens.
// Definition heads look like:
//
//	[specifiers] [attrs] [template<...>] kind-keyword [attrs] [name[<args>]] [final] [: bases]
//
// Anything else is a namespace, a linkage block, or an opaque block. Forward
// declarations never reach here: they end in ';' and the run is discarded.
func (s *scan) classifyHead(run []int) defHead {
	h := defHead{role: roleBlock}
	if len(run) == 0 {
		return h
	}
	h.startOffset = s.toks[run[0]].start

	filtered := s.stripAttributes(run)
	if len(filtered) == 0 {
		return h
	}

	if nh, ok := s.classifyNamespace(filtered); ok {
		nh.startOffset = h.startOffset
		return nh
	}
	if len(filtered) == 1 && s.toks[filtered[0]].text == "extern" {
		// The classifier blanked the linkage string, leaving bare `extern`.
		return defHead{role: roleLinkage, startOffset: h.startOffset}
	}

	depths := s.parenDepths(filtered)

	// Try kind keywords right to left so `template<class T> struct X` and
	// `struct X : Base<class Y>` both resolve to the structural keyword.
	for k := len(filtered) - 1; k >= 0; k-- {
		t := s.toks[filtered[k]]
		if t.kind != tokIdent || depths[k] != 0 {
			continue
		}
		kind, ok := kindKeywords[t.text]
		if !ok {
			continue
		}
		headEnd := k
		scoped := false
		if (t.text == "class" || t.text == "struct") && k > 0 && s.toks[filtered[k-1]].text == "enum" {
			kind = KindEnum
			scoped = true
			headEnd = k - 1
		}
		if dh, ok := s.validateDefHead(filtered, headEnd, k, kind, scoped); ok {
			dh.startOffset = h.startOffset
			return dh
		}
	}
	return h
}

func (s *scan) classifyNamespace(filtered []int) (defHead, bool) {
	i := 0
	if s.toks[filtered[0]].text == "inline" && len(filtered) > 1 {
		i = 1
	}
	if s.toks[filtered[i]].text != "namespace" {
		return defHead{}, false
	}
	h := defHead{role: roleNamespace}
	for _, ri := range filtered[i+1:] {
		t := s.toks[ri]
		switch {
		case t.kind == tokIdent:
			h.names = append(h.names, t.text)
		case t.text == "::":
			// C++17 nested namespace definition: namespace a::b { ... }
		default:
			return defHead{}, false
		}
	}
	return h, true
}

// validateDefHead checks the tokens before and after a candidate kind
// keyword. headEnd is the position of the keyword (or of `enum` for scoped
// enums); tailStart is the position of the keyword itself.
func (s *scan) validateDefHead(filtered []int, headEnd, tailStart int, kind Kind, scoped bool) (defHead, bool) {
	h := defHead{role: roleDefinition, kind: kind, scoped: scoped}

	// Head: specifiers and template headers only.
	for i := 0; i < headEnd; i++ {
		t := s.toks[filtered[i]]
		switch {
		case t.text == "template":
			if i+1 >= headEnd || s.toks[filtered[i+1]].text != "<" {
				return defHead{}, false
			}
			j := s.matchAngleRun(filtered[:headEnd], i+1)
			if j < 0 {
				s.noteAmbiguousAngle(s.toks[filtered[i+1]])
				return defHead{}, false
			}
			h.isTemplate = true
			h.templateParams = strings.TrimSpace(
				s.src[s.toks[filtered[i+1]].end:s.toks[filtered[j]].start])
			i = j
		case headSpecifiers[t.text]:
			if t.text == "typedef" {
				h.isTypedef = true
			}
		case t.kind == tokIdent:
			// Unknown specifier macro (export macros etc.): tolerated.
		default:
			return defHead{}, false
		}
	}

	// Tail: optional qualified name, optional template argument list,
	// optional `final`, optional base clause.
	i := tailStart + 1
	if i < len(filtered) {
		t := s.toks[filtered[i]]
		if t.kind == tokIdent && !postNameKeywords[t.text] {
			h.name = t.text
			i++
			for i+1 < len(filtered) && s.toks[filtered[i]].text == "::" &&
				s.toks[filtered[i+1]].kind == tokIdent {
				h.name += "::" + s.toks[filtered[i+1]].text
				i += 2
			}
			if i < len(filtered) && s.toks[filtered[i]].text == "<" {
				j := s.matchAngleRun(filtered, i)
				if j < 0 {
					s.noteAmbiguousAngle(s.toks[filtered[i]])
					return defHead{}, false
				}
				h.templateArgs = strings.TrimSpace(
					s.src[s.toks[filtered[i]].end:s.toks[filtered[j]].start])
				i = j + 1
			}
		}
	}
	for i < len(filtered) && postNameKeywords[s.toks[filtered[i]].text] {
		i++
	}
	if i < len(filtered) {
		// Only a base clause (or enum underlying type) may remain. Anything
		// else is a declaration using the type, not a definition.
		if s.toks[filtered[i]].text != ":" {
			return defHead{}, false
		}
	}
	return h, true
}

// stripAttributes removes [[...]] groups and keyword attributes with their
// parenthesized arguments from a run, returning the remaining token indices.
func (s *scan) stripAttributes(run []int) []int {
	out := make([]int, 0, len(run))
	for i := 0; i < len(run); i++ {
		t := s.toks[run[i]].text
		if t == "[[" {
			depth := 1
			i++
			for i < len(run) && depth > 0 {
				switch s.toks[run[i]].text {
				case "[[":
					depth++
				case "]]":
					depth--
				}
				i++
			}
			i--
			continue
		}
		if attrKeywords[t] && i+1 < len(run) && s.toks[run[i+1]].text == "(" {
			depth := 0
			i++
			for i < len(run) {
				switch s.toks[run[i]].text {
				case "(":
					depth++
				case ")":
					depth--
				}
				i++
				if depth == 0 {
					break
				}
			}
			i--
			continue
		}
		out = append(out, run[i])
	}
	return out
}

// parenDepths returns the paren nesting depth at each run position, with
// opening and closing parens reported at the outer depth.
func (s *scan) parenDepths(run []int) []int {
	depths := make([]int, len(run))
	d := 0
	for i, ri := range run {
		switch s.toks[ri].text {
		case "(":
			depths[i] = d
			d++
		case ")":
			if d > 0 {
				d--
			}
			depths[i] = d
		default:
			depths[i] = d
		}
	}
	return depths
}
