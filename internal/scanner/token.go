package scanner

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokPunct
)

// token is one code-context lexeme. Offsets index the original source so raw
// text (type expressions, template parameter lists) can be recovered exactly.
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

// tokenize emits tokens from the Code spans only. Non-code spans are never
// tokenized, so braces and keywords inside literals or comments are invisible
// to all later stages.
//
// Preprocessor directive lines (leading '#', with backslash continuations)
// are consumed without emitting tokens: the engine does not expand macros, so
// a definition keyword inside a macro body is plain text, not a definition.
func tokenize(src string, spans []Span) []token {
	var toks []token

	atLineStart := true // only whitespace seen since the last newline
	inDirective := false
	contLine := false // directive line ended with a backslash

	for _, sp := range spans {
		if sp.Tag != TagCode {
			continue
		}
		i := sp.Start
		for i < sp.End {
			c := src[i]

			if c == '\n' {
				if inDirective && !contLine {
					inDirective = false
				}
				contLine = false
				atLineStart = true
				i++
				continue
			}
			if isSpaceByte(c) {
				i++
				continue
			}

			if inDirective {
				if c == '\\' {
					contLine = true
				} else {
					contLine = false
				}
				i++
				continue
			}

			if c == '#' && atLineStart {
				inDirective = true
				atLineStart = false
				i++
				continue
			}
			atLineStart = false

			switch {
			case isIdentByte(c) && !isDigitByte(c):
				start := i
				for i < sp.End && isIdentByte(src[i]) {
					i++
				}
				toks = append(toks, token{kind: tokIdent, text: src[start:i], start: start, end: i})

			case isDigitByte(c) || (c == '.' && i+1 < sp.End && isDigitByte(src[i+1])):
				start := i
				for i < sp.End && (isIdentByte(src[i]) || src[i] == '.' || src[i] == '\'') {
					i++
				}
				toks = append(toks, token{kind: tokNumber, text: src[start:i], start: start, end: i})

			default:
				start := i
				end := i + 1
				// Multi-byte punctuators the matcher cares about. Everything
				// else stays a single byte; the matcher reassembles operator
				// pairs (e.g. >>) itself.
				if i+1 < sp.End {
					two := src[i : i+2]
					if two == "[[" || two == "]]" || two == "::" {
						end = i + 2
					}
				}
				toks = append(toks, token{kind: tokPunct, text: src[start:end], start: start, end: end})
				i = end
			}
		}
	}
	return toks
}
