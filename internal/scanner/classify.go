package scanner

import "strings"

// ContextTag classifies a source span as code or one of the non-code
// contexts. Later stages only ever inspect Code spans, which is the primary
// defense against definitions faked inside literals and comments.
type ContextTag int

const (
	TagCode ContextTag = iota
	TagLineComment
	TagBlockComment
	TagStringLiteral
	TagRawStringLiteral
	TagCharLiteral
)

func (t ContextTag) String() string {
	switch t {
	case TagCode:
		return "code"
	case TagLineComment:
		return "line_comment"
	case TagBlockComment:
		return "block_comment"
	case TagStringLiteral:
		return "string"
	case TagRawStringLiteral:
		return "raw_string"
	case TagCharLiteral:
		return "char"
	default:
		return "unknown"
	}
}

// Span is a contiguous region of source with a single context tag. The spans
// produced by Classify are non-overlapping and cover the input completely.
type Span struct {
	Tag   ContextTag
	Start int
	End   int // exclusive
}

// Classify splits source text into context-tagged spans. It is total: every
// byte of src belongs to exactly one span. Malformed input (unterminated
// comments or literals) is reported as diagnostics, never as a failure.
//
// Policy for broken literals: an unterminated string or character literal
// ends at the end of its line so it cannot swallow the rest of the file; an
// unterminated block comment or raw string extends to end-of-input.
func Classify(src string) ([]Span, []Diagnostic) {
	var spans []Span
	var diags []Diagnostic
	n := len(src)
	i := 0
	codeStart := 0

	emitCode := func(end int) {
		if end > codeStart {
			spans = append(spans, Span{Tag: TagCode, Start: codeStart, End: end})
		}
	}

	for i < n {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/':
			emitCode(i)
			start := i
			i += 2
			for i < n && src[i] != '\n' {
				i++
			}
			spans = append(spans, Span{Tag: TagLineComment, Start: start, End: i})
			codeStart = i

		case c == '/' && i+1 < n && src[i+1] == '*':
			emitCode(i)
			start := i
			if end := strings.Index(src[i+2:], "*/"); end >= 0 {
				i += 2 + end + 2
			} else {
				diags = append(diags, Diagnostic{
					Kind:    DiagUnterminatedComment,
					Message: "block comment is never closed",
					Offset:  start,
				})
				i = n
			}
			spans = append(spans, Span{Tag: TagBlockComment, Start: start, End: i})
			codeStart = i

		case c == '"':
			if start, ok := rawStringStart(src, i); ok {
				end, terminated := scanRawString(src, i)
				emitCode(start)
				if !terminated {
					diags = append(diags, Diagnostic{
						Kind:    DiagUnterminatedString,
						Message: "raw string literal is never closed",
						Offset:  start,
					})
				}
				spans = append(spans, Span{Tag: TagRawStringLiteral, Start: start, End: end})
				i = end
				codeStart = i
				continue
			}
			emitCode(i)
			start := i
			end, terminated := scanQuoted(src, i, '"')
			if !terminated {
				diags = append(diags, Diagnostic{
					Kind:    DiagUnterminatedString,
					Message: "string literal is never closed",
					Offset:  start,
				})
			}
			spans = append(spans, Span{Tag: TagStringLiteral, Start: start, End: end})
			i = end
			codeStart = i

		case c == '\'':
			start, ok := charLiteralStart(src, i)
			if !ok {
				// A quote attached to an identifier or digit is a C++14 digit
				// separator or part of a suffix, not a character literal.
				i++
				continue
			}
			emitCode(start)
			end, terminated := scanQuoted(src, i, '\'')
			if !terminated {
				diags = append(diags, Diagnostic{
					Kind:    DiagUnterminatedString,
					Message: "character literal is never closed",
					Offset:  start,
				})
			}
			spans = append(spans, Span{Tag: TagCharLiteral, Start: start, End: end})
			i = end
			codeStart = i

		default:
			i++
		}
	}
	emitCode(n)
	return spans, diags
}

// scanQuoted scans a quoted literal starting at the opening quote. It honors
// backslash escapes so an escaped quote does not terminate the literal.
// Returns the end offset (past the closing quote) and whether the literal was
// terminated. Unterminated literals end at end-of-line or end-of-input.
func scanQuoted(src string, start int, quote byte) (end int, terminated bool) {
	i := start + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1, true
		case '\n':
			return i, false
		default:
			i++
		}
	}
	if i > len(src) {
		i = len(src)
	}
	return i, false
}

// charLiteralStart reports whether the single quote at offset i opens a
// character literal, and if so where the literal begins. The u8/u/U/L
// encoding prefixes are part of the literal (L'}' and friends); any other
// preceding identifier or digit byte marks a digit separator or suffix tail.
func charLiteralStart(src string, i int) (start int, ok bool) {
	if i == 0 || !isIdentByte(src[i-1]) {
		return i, true
	}
	if i >= 2 && src[i-2] == 'u' && src[i-1] == '8' {
		start = i - 2
	} else if src[i-1] == 'u' || src[i-1] == 'U' || src[i-1] == 'L' {
		start = i - 1
	} else {
		return 0, false
	}
	// Must not be the tail of a longer identifier like FOOL'x'.
	if start > 0 && isIdentByte(src[start-1]) {
		return 0, false
	}
	return start, true
}

// rawStringStart reports whether the double quote at offset i opens a raw
// string literal (R"..." with an optional u8/u/U/L encoding prefix), and if
// so returns the offset where the prefix begins.
func rawStringStart(src string, i int) (start int, ok bool) {
	if i < 1 || src[i-1] != 'R' {
		return 0, false
	}
	start = i - 1
	// Optional encoding prefix before R.
	if start >= 2 && src[start-2] == 'u' && src[start-1] == '8' {
		start -= 2
	} else if start >= 1 && (src[start-1] == 'u' || src[start-1] == 'U' || src[start-1] == 'L') {
		start--
	}
	// Must not be the tail of a longer identifier like FooR"...".
	if start > 0 && isIdentByte(src[start-1]) {
		return 0, false
	}
	return start, true
}

// scanRawString scans R"delim( ... )delim" starting at the opening quote.
// The content is raw regardless of embedded braces, quotes, or backslashes.
func scanRawString(src string, quote int) (end int, terminated bool) {
	i := quote + 1
	delimStart := i
	for i < len(src) && src[i] != '(' {
		// Raw string delimiters are short and never contain these.
		if src[i] == ')' || src[i] == '\\' || src[i] == '"' || src[i] == '\n' || i-delimStart > 16 {
			return scanQuoted(src, quote, '"')
		}
		i++
	}
	if i >= len(src) {
		return len(src), false
	}
	delim := src[delimStart:i]
	closer := ")" + delim + `"`
	if pos := strings.Index(src[i+1:], closer); pos >= 0 {
		return i + 1 + pos + len(closer), true
	}
	return len(src), false
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(src string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// lastLine returns the 1-based number of the final line.
func (li *lineIndex) lastLine() int {
	return len(li.starts)
}

// LineFor returns the 1-based line number containing the given offset.
func (li *lineIndex) LineFor(offset int) int {
	lo, hi := 0, len(li.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
