package scanner

// braceRole says what a structural brace belongs to. Only definitions and
// namespaces influence nesting paths; everything else (function bodies,
// initializer lists, lambdas) is an opaque block the matcher still descends
// into, since definitions may appear inside function bodies.
type braceRole int

const (
	roleBlock braceRole = iota
	roleDefinition
	roleNamespace
	roleLinkage // extern "C" { ... }
)

// scopeFrame is one open brace on the context stack. Frames are pushed and
// popped in strict LIFO order; paren depth is tracked per frame so commas
// inside parameter or function-pointer lists never split member runs.
type scopeFrame struct {
	role     braceRole
	open     int      // offset of the opening brace
	defIndex int      // arena index when role == roleDefinition
	names    []string // namespace components when role == roleNamespace

	isEnum bool // enum body: members are enumerators, not declarations

	run          []int // token indices since the last statement boundary
	parenDepth   int
	pendingInit  bool // a brace initializer belongs to the current run
	closedNested int  // def index of a just-closed nested definition, -1 if none
}

func newFrame(role braceRole, open int) *scopeFrame {
	return &scopeFrame{role: role, open: open, defIndex: -1, closedNested: -1}
}

func (f *scopeFrame) resetRun() {
	f.run = f.run[:0]
	f.pendingInit = false
}

// matchAngleRun decides whether the '<' at position i of a token run opens a
// template argument list. This is a constrained lookahead keyed on the
// preceding token class, not an expression parser: callers only invoke it
// when the '<' follows an identifier or a template header, and it scans the
// rest of the run (already bounded by a statement terminator or structural
// brace) for a plausibly matching unmatched '>'. Returns the run position of
// the matching '>' or -1, in which case '<' is an ordinary operator.
func (s *scan) matchAngleRun(run []int, i int) int {
	depth := 0
	for j := i; j < len(run); j++ {
		t := s.toks[run[j]].text
		switch t {
		case "<":
			depth++
		case ">":
			depth--
			if depth == 0 {
				return j
			}
		case "&", "|":
			// && and || never appear inside template argument lists, so
			// `a < b && c > d` resolves to a pair of comparisons.
			if j+1 < len(run) && s.toks[run[j+1]].text == t {
				return -1
			}
		}
	}
	return -1
}

// angleRegions marks every run position lying inside a matched template
// argument list, so commas inside e.g. std::map<int, string> do not split
// declarators. Unmatched '<' falls back to "not a template" and scanning
// continues, per the disambiguation policy.
func (s *scan) angleRegions(run []int) []bool {
	in := make([]bool, len(run))
	for i := 1; i < len(run); i++ {
		if in[i] || s.toks[run[i]].text != "<" {
			continue
		}
		if s.toks[run[i-1]].kind != tokIdent {
			continue
		}
		if j := s.matchAngleRun(run, i); j > 0 {
			for k := i; k <= j; k++ {
				in[k] = true
			}
		}
	}
	return in
}

func (s *scan) noteAmbiguousAngle(t token) {
	s.diags = append(s.diags, Diagnostic{
		Kind:    DiagAmbiguousAngleBracket,
		Message: "cannot resolve '<' as template argument list; treating as operator",
		Offset:  t.start,
	})
}
