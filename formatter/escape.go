package formatter

import (
	"strings"

	"github.com/robinvdvleuten/mot/token"
)

// StringEscapeStyle controls how quoted text is written.
type StringEscapeStyle int

const (
	// EscapeStyleCStyle re-escapes the parsed value. Quotes, backslashes,
	// newlines, carriage returns, tabs and NUL bytes are escaped.
	EscapeStyleCStyle StringEscapeStyle = iota
	// EscapeStyleOriginal writes quoted text exactly as it appears in the
	// source, keeping the author's escapes.
	EscapeStyleOriginal
)

// ParseStringEscapeStyle maps a style name to a StringEscapeStyle.
func ParseStringEscapeStyle(name string) (StringEscapeStyle, bool) {
	switch name {
	case "", "cstyle":
		return EscapeStyleCStyle, true
	case "original":
		return EscapeStyleOriginal, true
	default:
		return 0, false
	}
}

// formatQuoted writes a QuotedText token to the buffer.
func (f *Formatter) formatQuoted(tok *token.Token, buf *strings.Builder) {
	if f.StringEscapeStyle == EscapeStyleOriginal {
		buf.Write(tok.Text.Bytes())
		return
	}

	buf.WriteByte('"')
	buf.WriteString(escapeCStyle(tok.Value.String()))
	buf.WriteByte('"')
}

// escapeCStyle escapes special characters using C-style escape sequences.
func escapeCStyle(s string) string {
	needsEscape := strings.ContainsAny(s, "\"\\\n\r\t\x00")
	if !needsEscape {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 10)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case 0:
			buf.WriteString(`\0`)
		default:
			buf.WriteByte(c)
		}
	}

	return buf.String()
}
