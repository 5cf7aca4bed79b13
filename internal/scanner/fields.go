package scanner

import (
	"strconv"
	"strings"
)

// extractField parses the member run that just ended in ';' at a
// definition's immediate depth. Nested definitions never reach here: their
// braces open their own frames and their fields belong to them alone.
func (s *scan) extractField(f *scopeFrame) {
	run := s.stripAttributes(f.run)
	if len(run) == 0 {
		return
	}
	lead := s.toks[run[0]].text
	if skippedMemberLeads[lead] || accessSpecifiers[lead] {
		return
	}

	depths := s.memberDepths(run)
	inAngle := s.angleRegions(run)

	// Split into declarator groups on top-level commas: `int x, y;`.
	// Commas inside parens, brackets, or template argument lists stay put.
	var groups [][]int
	var cur []int
	for i, ri := range run {
		if s.toks[ri].text == "," && depths[i] == 0 && !inAngle[i] {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, ri)
	}
	groups = append(groups, cur)

	d := &s.defs[f.defIndex]
	baseType := ""
	for gi, g := range groups {
		fld, ok := s.parseDeclarator(g, f.pendingInit)
		if !ok {
			if gi == 0 {
				// A method or unparseable lead declarator skips the run.
				return
			}
			continue
		}
		if gi == 0 {
			baseType = fld.TypeText
		} else {
			fld.TypeText = strings.TrimSpace(baseType + " " + fld.TypeText)
		}
		d.Fields = append(d.Fields, fld)
	}
}

// parseDeclarator turns one declarator group into a Field. It reports false
// for method declarations and for groups with no extractable name.
func (s *scan) parseDeclarator(g []int, pendingInit bool) (Field, bool) {
	if len(g) == 0 {
		return Field{}, false
	}
	depths := s.memberDepths(g)

	// Initializer boundary: everything after a top-level '=' is ignored.
	end := len(g)
	hasInit := pendingInit
	for i := range g {
		if s.toks[g[i]].text == "=" && depths[i] == 0 {
			hasInit = true
			end = i
			break
		}
	}

	// Bit-field: `name : width` before the initializer.
	bitfield := false
	width := 0
	nameEnd := end
	for i := 0; i < end; i++ {
		if s.toks[g[i]].text == ":" && depths[i] == 0 {
			if i+1 < end && s.toks[g[i+1]].kind == tokNumber {
				if w, err := strconv.Atoi(s.toks[g[i+1]].text); err == nil {
					bitfield = true
					width = w
				}
			}
			nameEnd = i
			break
		}
	}

	decl := g[:nameEnd]
	if len(decl) == 0 {
		return Field{}, false
	}

	nameTok, ok := s.declaratorName(decl)
	if !ok {
		return Field{}, false
	}

	typeText := strings.TrimSpace(s.src[s.toks[decl[0]].start:nameTok.start])
	return Field{
		TypeText:       typeText,
		Name:           nameTok.text,
		Bitfield:       bitfield,
		BitfieldWidth:  width,
		HasInitializer: hasInit,
		Line:           s.lines.LineFor(nameTok.start),
	}, true
}

// declaratorName locates the member name inside a declarator.
//
// Plain members: the last identifier outside array brackets (`int arr[3]`).
// Function pointers: the identifier inside the `(*name)` group. Any other
// parenthesized declarator is a method declaration, which is not a field.
func (s *scan) declaratorName(decl []int) (token, bool) {
	parenAt := -1
	depth := 0
	for i, ri := range decl {
		switch s.toks[ri].text {
		case "(":
			if depth == 0 && parenAt < 0 {
				parenAt = i
			}
			depth++
		case ")":
			if depth > 0 {
				depth--
			}
		}
	}

	if parenAt >= 0 {
		// First paren group: function pointer if it holds a '*'.
		group := []int{}
		depth = 0
		for _, ri := range decl[parenAt:] {
			t := s.toks[ri].text
			if t == "(" {
				depth++
				continue
			}
			if t == ")" {
				depth--
				if depth == 0 {
					break
				}
				continue
			}
			if depth == 1 {
				group = append(group, ri)
			}
		}
		star := false
		var name token
		found := false
		for _, ri := range group {
			t := s.toks[ri]
			if t.text == "*" || t.text == "^" {
				star = true
			}
			if t.kind == tokIdent {
				name = t
				found = true
			}
		}
		if star && found {
			return name, true
		}
		return token{}, false
	}

	// Walk back over array extents to the declarator identifier.
	bracket := 0
	for i := len(decl) - 1; i >= 0; i-- {
		t := s.toks[decl[i]]
		switch t.text {
		case "]", "]]":
			bracket++
		case "[", "[[":
			if bracket > 0 {
				bracket--
			}
		default:
			if bracket == 0 && t.kind == tokIdent {
				if i == 0 && len(decl) == 1 {
					if builtinTypeKeywords[t.text] || headSpecifiers[t.text] {
						// Anonymous bit-field padding: the lone token is the
						// type, not a member name.
						return token{}, false
					}
					return t, true // subsequent declarator: `int x, y;`
				}
				if i > 0 {
					return t, true
				}
				return token{}, false
			}
		}
	}
	return token{}, false
}

// memberDepths returns combined paren and bracket nesting depth per position.
func (s *scan) memberDepths(run []int) []int {
	depths := make([]int, len(run))
	d := 0
	for i, ri := range run {
		switch s.toks[ri].text {
		case "(", "[":
			depths[i] = d
			d++
		case ")", "]":
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

// emitEnumerator records one enumerator of an enum body. Enumerators have no
// type text; an '=' marks an explicit value.
func (s *scan) emitEnumerator(f *scopeFrame) {
	run := s.stripAttributes(f.run)
	if len(run) == 0 {
		return
	}
	t := s.toks[run[0]]
	if t.kind != tokIdent {
		return
	}
	hasInit := false
	for _, ri := range run[1:] {
		if s.toks[ri].text == "=" {
			hasInit = true
			break
		}
	}
	s.defs[f.defIndex].Fields = append(s.defs[f.defIndex].Fields, Field{
		Name:           t.text,
		HasInitializer: hasInit,
		Line:           s.lines.LineFor(t.start),
	})
}
