package parser

// Lexer implements a zero-copy, pull-based lexer for mot files.
//
// The zero-copy approach:
// - Tokens store spans into the source buffer, not copies of the text
// - Only text-bearing tokens materialize a string value
// - Word values are interned, since declaration types repeat constantly
//
// Indentation is significant. At the start of every meaningful line the
// lexer measures the leading spaces and emits Indent or Outdent tokens so
// that the parser never has to count columns itself.

import (
	"math"
	"strings"

	"github.com/robinvdvleuten/mot/source"
	"github.com/robinvdvleuten/mot/text"
	"github.com/robinvdvleuten/mot/token"
)

// SpacesPerIndent is the number of spaces that make up one indent level.
const SpacesPerIndent = 4

// Lexer tokenizes a single source buffer. It is not safe for concurrent use.
type Lexer struct {
	buf  *source.Buffer
	src  []byte
	size uint32

	pos         uint32 // Current byte position
	triviaStart uint32 // Start of the trivia attached to the next token
	lineSpaces  uint32 // Leading spaces of the current meaningful line
	atLineStart bool   // Indentation of the next line has not been measured yet

	indentLevel int // Indent tokens emitted minus Outdent tokens emitted
	pending     int // Structural tokens still owed: >0 indents, <0 outdents

	lastType token.Type
	next     *token.Token // Lookahead filled by Peek
	eoi      *token.Token // Returned forever once input is exhausted

	interner *Interner
}

// NewLexer creates a lexer for the given buffer.
func NewLexer(buf *source.Buffer) *Lexer {
	// Scale interner capacity with source size; declaration types are few.
	internerCap := int(buf.Len() / 64)
	if internerCap < 64 {
		internerCap = 64
	}

	return &Lexer{
		buf:         buf,
		src:         buf.Bytes(),
		size:        buf.Len(),
		atLineStart: true,
		lastType:    token.StartOfInput,
		interner:    NewInterner(internerCap),
	}
}

// Interner returns the string interner used for word values.
func (l *Lexer) Interner() *Interner {
	return l.interner
}

// IndentLevel returns the net number of Indent tokens lexed so far.
func (l *Lexer) IndentLevel() int {
	return l.indentLevel
}

// Peek returns the next token without consuming it. Repeated calls return
// the same token until Advance is called.
func (l *Lexer) Peek() *token.Token {
	if l.next == nil {
		l.next = l.lex()
	}
	return l.next
}

// Advance consumes and returns the next token.
func (l *Lexer) Advance() *token.Token {
	if tok := l.next; tok != nil {
		l.next = nil
		return tok
	}
	return l.lex()
}

// ScanAll lexes the remaining input and returns every token up to and
// including EndOfInput.
func (l *Lexer) ScanAll() []*token.Token {
	var tokens []*token.Token
	for {
		tok := l.Advance()
		tokens = append(tokens, tok)
		if tok.Type == token.EndOfInput {
			return tokens
		}
	}
}

// lex produces the next token from the input.
func (l *Lexer) lex() *token.Token {
	if l.eoi != nil {
		return l.eoi
	}

	if l.pending != 0 {
		return l.lexPendingIndentation()
	}

	if l.atLineStart {
		if tok := l.lexIndentation(); tok != nil {
			return tok
		}
	}

	l.consumeTrivia()

	if l.pos >= l.size {
		return l.lexEndOfInput()
	}

	ch := l.src[l.pos]

	// Line breaks end every construct, including values.
	if ch == '\n' || ch == '\r' && l.peekByte(1) == '\n' {
		return l.lexEndOfLine()
	}

	// Directly after a colon the rest of the line is a value.
	if l.lastType == token.Colon {
		switch {
		case ch == '"':
			return l.lexQuotedText()
		case ch == '>' && l.restOfLineIsBlank(l.pos+1):
			return l.lexBlockText()
		default:
			return l.lexLineText()
		}
	}

	switch {
	case isWordStart(ch):
		return l.lexWord()
	case ch == '"':
		return l.lexQuotedText()
	case ch == ':':
		l.pos++
		return l.newToken(token.Colon, l.pos-1, nil)
	case ch == '>':
		l.pos++
		return l.newToken(token.GreaterThan, l.pos-1, nil)
	default:
		l.pos++
		return l.newToken(token.ErrUnexpectedCharacter, l.pos-1, nil)
	}
}

// newToken creates a token whose text runs from start to the current
// position. Everything between the end of the previous token and start is
// attached as trivia.
func (l *Lexer) newToken(typ token.Type, start uint32, value *text.String) *token.Token {
	tok := token.New(typ, l.buf.Span(l.triviaStart, start), l.buf.Span(start, l.pos), value)
	l.triviaStart = l.pos
	l.lastType = typ
	return tok
}

// lexIndentation handles the start of a line. Blank lines and comment
// lines are skipped as trivia. For the first meaningful line, the leading
// whitespace is measured and turned into structural or error tokens. It
// returns nil when the indent level is unchanged.
func (l *Lexer) lexIndentation() *token.Token {
	for {
		start := l.pos
		end := start
		hasTab := false
		for end < l.size && (l.src[end] == ' ' || l.src[end] == '\t') {
			if l.src[end] == '\t' {
				hasTab = true
			}
			end++
		}

		if end >= l.size {
			// Only whitespace left; it becomes trivia of EndOfInput.
			l.pos = end
			l.atLineStart = false
			return nil
		}

		switch ch := l.src[end]; {
		case ch == '\n':
			l.pos = end + 1
			continue
		case ch == '\r' && end+1 < l.size && l.src[end+1] == '\n':
			l.pos = end + 2
			continue
		case ch == '#':
			l.pos = l.skipToLineEnd(end)
			if l.pos < l.size {
				l.pos = l.skipLineTerminator(l.pos)
			}
			continue
		}

		l.atLineStart = false
		l.pos = end
		l.lineSpaces = end - start

		if hasTab {
			return l.newToken(token.ErrTabIndent, start, nil)
		}
		if l.lineSpaces%SpacesPerIndent != 0 {
			return l.newToken(token.ErrMisalignedIndentation, start, nil)
		}

		delta := int(l.lineSpaces/SpacesPerIndent) - l.indentLevel
		switch {
		case delta > 0:
			l.indentLevel++
			l.pending = delta - 1
			return l.newToken(token.Indent, start, nil)
		case delta < 0:
			l.indentLevel--
			l.pending = delta + 1
			return l.newToken(token.Outdent, start, nil)
		default:
			// Unchanged level: the leading spaces stay trivia.
			return nil
		}
	}
}

// lexPendingIndentation emits the remaining zero-length Indent or Outdent
// tokens of a multi-level indentation change.
func (l *Lexer) lexPendingIndentation() *token.Token {
	if l.pending > 0 {
		l.pending--
		l.indentLevel++
		return l.newToken(token.Indent, l.pos, nil)
	}
	l.pending++
	l.indentLevel--
	return l.newToken(token.Outdent, l.pos, nil)
}

// lexEndOfInput terminates the last line if needed, closes every open
// indent level and finally emits EndOfInput.
func (l *Lexer) lexEndOfInput() *token.Token {
	switch l.lastType {
	case token.StartOfInput, token.EndOfLine, token.Outdent:
	default:
		return l.newToken(token.EndOfLine, l.pos, nil)
	}

	if l.indentLevel > 0 {
		l.indentLevel--
		return l.newToken(token.Outdent, l.pos, nil)
	}

	l.eoi = l.newToken(token.EndOfInput, l.pos, nil)
	return l.eoi
}

// lexEndOfLine consumes an LF or CRLF line terminator.
func (l *Lexer) lexEndOfLine() *token.Token {
	start := l.pos
	l.pos = l.skipLineTerminator(l.pos)
	l.atLineStart = true
	return l.newToken(token.EndOfLine, start, nil)
}

// lexWord scans a maximal run of word characters.
func (l *Lexer) lexWord() *token.Token {
	start := l.pos
	l.pos++
	for l.pos < l.size && isWordPart(l.src[l.pos]) {
		l.pos++
	}
	value := l.interner.InternBytes(l.src[start:l.pos])
	return l.newToken(token.Word, start, value)
}

// lexQuotedText scans "..." and interprets escape sequences. A line break
// or the end of input before the closing quote yields an
// ErrUnterminatedString token spanning up to the end of the line.
func (l *Lexer) lexQuotedText() *token.Token {
	start := l.pos
	l.pos++ // opening quote

	var value strings.Builder
	for {
		if l.pos >= l.size || l.src[l.pos] == '\n' || l.src[l.pos] == '\r' && l.peekByte(1) == '\n' {
			return l.newToken(token.ErrUnterminatedString, start, nil)
		}

		ch := l.src[l.pos]
		switch {
		case ch == '"':
			l.pos++
			return l.newToken(token.QuotedText, start, text.New(value.String()))
		case ch == '\\' && l.pos+1 < l.size:
			if r, ok := unescape(l.src[l.pos+1]); ok {
				value.WriteByte(r)
				l.pos += 2
				continue
			}
			// Unknown escapes are kept as written. A backslash before a
			// line break leaves the break to terminate the string.
			value.WriteByte(ch)
			l.pos++
		default:
			value.WriteByte(ch)
			l.pos++
		}
	}
}

// unescape maps the character following a backslash to the byte it denotes.
func unescape(ch byte) (byte, bool) {
	switch ch {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '0':
		return 0, true
	default:
		return 0, false
	}
}

// lexLineText scans the rest of the physical line as a single value.
// Trailing blanks are left as trivia of the following EndOfLine.
func (l *Lexer) lexLineText() *token.Token {
	start := l.pos
	end := l.skipToLineEnd(start)
	for end > start && isBlank(l.src[end-1]) {
		end--
	}
	l.pos = end
	return l.newToken(token.LineText, start, text.FromBytes(l.src[start:end]))
}

// lexBlockText scans a '>' introducer followed by every subsequent line
// that is indented deeper than the introducing line. Blank lines inside
// the block are kept; trailing blank lines are not part of it. The value is
// the block's lines with their common leading spaces removed.
func (l *Lexer) lexBlockText() *token.Token {
	start := l.pos
	textEnd := start + 1

	var lines [][]byte
	committed := 0
	minIndent := uint32(math.MaxUint32)

	next := l.skipToLineEnd(start)
	if next < l.size {
		next = l.skipLineTerminator(next)
	}

scan:
	for next < l.size {
		lineStart := next
		lineEnd := l.skipToLineEnd(lineStart)

		spaces := uint32(0)
		for lineStart+spaces < lineEnd && l.src[lineStart+spaces] == ' ' {
			spaces++
		}

		switch {
		case l.restOfLineIsBlank(lineStart):
			lines = append(lines, nil)
		case spaces <= l.lineSpaces:
			break scan
		default:
			lines = append(lines, l.src[lineStart:lineEnd])
			committed = len(lines)
			minIndent = min(minIndent, spaces)
			textEnd = lineEnd
		}

		if lineEnd >= l.size {
			break
		}
		next = l.skipLineTerminator(lineEnd)
	}

	lines = lines[:committed]

	var value strings.Builder
	for i, line := range lines {
		if i > 0 {
			value.WriteByte('\n')
		}
		if line != nil {
			value.Write(line[minIndent:])
		}
	}

	l.pos = textEnd
	return l.newToken(token.BlockText, start, text.New(value.String()))
}

// consumeTrivia skips blanks between tokens. Outside of a value position a
// '#' starts a comment that runs to the end of the line.
func (l *Lexer) consumeTrivia() {
	for l.pos < l.size {
		ch := l.src[l.pos]
		switch {
		case isBlank(ch):
			l.pos++
		case ch == '#' && l.lastType != token.Colon:
			l.pos = l.skipToLineEnd(l.pos)
		default:
			return
		}
	}
}

// skipToLineEnd returns the offset of the line terminator (LF or CRLF) of
// the line containing i, or the end of input.
func (l *Lexer) skipToLineEnd(i uint32) uint32 {
	for i < l.size {
		if l.src[i] == '\n' || l.src[i] == '\r' && i+1 < l.size && l.src[i+1] == '\n' {
			return i
		}
		i++
	}
	return i
}

// skipLineTerminator returns the offset just past the LF or CRLF at i.
func (l *Lexer) skipLineTerminator(i uint32) uint32 {
	if l.src[i] == '\r' {
		return i + 2
	}
	return i + 1
}

// restOfLineIsBlank reports whether only blanks follow i on its line.
func (l *Lexer) restOfLineIsBlank(i uint32) bool {
	end := l.skipToLineEnd(i)
	for ; i < end; i++ {
		if !isBlank(l.src[i]) {
			return false
		}
	}
	return true
}

func (l *Lexer) peekByte(offset uint32) byte {
	if l.pos+offset >= l.size {
		return 0
	}
	return l.src[l.pos+offset]
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// isWordStart accepts ASCII letters, underscores and any byte of a
// multi-byte UTF-8 sequence, so non-ASCII letters can start a word.
func isWordStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isWordPart(ch byte) bool {
	return isWordStart(ch) || ch >= '0' && ch <= '9' || ch == '-' || ch == '.'
}
