// Package formatter prints syntax trees back as canonical mot source.
//
// Canonical form uses four spaces per nesting level, a single space between
// a declaration's type and name, and ": " before values. Comments and blank
// lines are recovered from token trivia, so formatting a file never loses
// them. Formatting the output of Format again yields the same text.
package formatter

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/robinvdvleuten/mot/ast"
	"github.com/robinvdvleuten/mot/parser"
	"github.com/robinvdvleuten/mot/telemetry"
	"github.com/robinvdvleuten/mot/token"
)

// DefaultBlockIndent is how far block text bodies are indented past their
// declaration.
const DefaultBlockIndent = parser.SpacesPerIndent

// Formatter handles formatting of mot files.
type Formatter struct {
	// StringEscapeStyle controls how quoted names and values are written.
	StringEscapeStyle StringEscapeStyle

	// BlockIndent is the number of spaces block text bodies are indented
	// relative to their declaration. Must be at least one.
	BlockIndent int

	// PreserveComments controls whether comments are preserved.
	// Default: true
	PreserveComments bool

	// PreserveBlanks controls whether blank lines between declarations are
	// preserved. Runs of blank lines collapse into one.
	// Default: true
	PreserveBlanks bool
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithStringEscapeStyle sets how quoted text is written.
func WithStringEscapeStyle(style StringEscapeStyle) Option {
	return func(f *Formatter) {
		f.StringEscapeStyle = style
	}
}

// WithBlockIndent sets the indentation of block text bodies. Values below
// one are ignored.
func WithBlockIndent(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.BlockIndent = n
		}
	}
}

// WithPreserveComments controls whether comments are preserved.
func WithPreserveComments(preserve bool) Option {
	return func(f *Formatter) {
		f.PreserveComments = preserve
	}
}

// WithPreserveBlanks controls whether blank lines are preserved.
func WithPreserveBlanks(preserve bool) Option {
	return func(f *Formatter) {
		f.PreserveBlanks = preserve
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		StringEscapeStyle: EscapeStyleCStyle,
		BlockIndent:       DefaultBlockIndent,
		PreserveComments:  true,
		PreserveBlanks:    true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format writes file in canonical form to w.
func (f *Formatter) Format(ctx context.Context, file *ast.FileNode, w io.Writer) error {
	_, timer := telemetry.StartTimer(ctx, "format")
	defer timer.End()

	p := &printer{f: f}
	for _, decl := range file.Declarations {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.declaration(decl, 0)
	}
	p.collect(file.EndOfInput)
	p.finish()

	_, err := io.WriteString(w, p.buf.String())
	return err
}

// FormatDeclaration writes a single declaration and its children at the
// given nesting depth. Comments attached to it are not included.
func (f *Formatter) FormatDeclaration(decl *ast.PropertyDeclarationNode, depth int, w io.Writer) error {
	p := &printer{f: &Formatter{
		StringEscapeStyle: f.StringEscapeStyle,
		BlockIndent:       f.BlockIndent,
	}}
	p.declaration(decl, depth)

	_, err := io.WriteString(w, p.buf.String())
	return err
}

// printer accumulates output for a single Format call. Comments and blank
// lines found in trivia are queued and written in front of the next
// declaration, at that declaration's depth.
type printer struct {
	f       *Formatter
	buf     strings.Builder
	pending []string // "" is a blank line, anything else a comment
	started bool
}

func (p *printer) declaration(decl *ast.PropertyDeclarationNode, depth int) {
	p.collect(decl.TypeToken)
	p.flush(depth)

	indent := strings.Repeat(" ", depth*parser.SpacesPerIndent)
	p.buf.WriteString(indent)
	p.buf.WriteString(decl.PropertyType().String())

	if decl.NameToken != nil {
		p.buf.WriteByte(' ')
		p.writeText(decl.NameToken, depth)
	}

	if decl.Colon != nil {
		p.buf.WriteByte(':')
		if decl.ValueToken != nil {
			p.buf.WriteByte(' ')
			p.writeText(decl.ValueToken, depth)
		}
	}

	if trailing := p.collect(decl.EndOfLine); trailing != "" {
		p.buf.WriteByte(' ')
		p.buf.WriteString(trailing)
	}
	p.buf.WriteByte('\n')
	p.started = true

	if decl.Indent == nil {
		return
	}
	p.collect(decl.Indent)
	for _, child := range decl.Children {
		p.declaration(child, depth+1)
	}
	p.collect(decl.Outdent)
}

// writeText writes a name or value token.
func (p *printer) writeText(tok *token.Token, depth int) {
	switch tok.Type {
	case token.QuotedText:
		p.f.formatQuoted(tok, &p.buf)
	case token.BlockText:
		p.buf.WriteByte('>')
		if tok.Value.ByteLength() == 0 {
			return
		}
		indent := strings.Repeat(" ", depth*parser.SpacesPerIndent+p.f.BlockIndent)
		for _, line := range strings.Split(tok.Value.String(), "\n") {
			p.buf.WriteByte('\n')
			if line != "" {
				p.buf.WriteString(indent)
				p.buf.WriteString(line)
			}
		}
	default:
		p.buf.WriteString(tok.Value.String())
	}
}

// collect queues the comments and blank lines in tok's trivia. A comment
// sharing the line of an EndOfLine token is returned instead of queued.
func (p *printer) collect(tok *token.Token) (trailing string) {
	if tok == nil {
		return ""
	}

	lines := bytes.Split(tok.Trivia.Bytes(), []byte("\n"))
	for _, line := range lines[:len(lines)-1] {
		p.queue(bytes.TrimSpace(line))
	}

	last := bytes.TrimSpace(lines[len(lines)-1])
	if len(last) == 0 || last[0] != '#' {
		return ""
	}
	if tok.Type == token.EndOfLine {
		if p.f.PreserveComments {
			return string(last)
		}
		return ""
	}
	// A comment on the last line of input, without a line break.
	p.queue(last)
	return ""
}

// queue records one line of trivia.
func (p *printer) queue(line []byte) {
	switch {
	case len(line) == 0:
		if !p.f.PreserveBlanks || !p.started && len(p.pending) == 0 {
			return
		}
		if n := len(p.pending); n > 0 && p.pending[n-1] == "" {
			return
		}
		p.pending = append(p.pending, "")
	case line[0] == '#':
		if p.f.PreserveComments {
			p.pending = append(p.pending, string(line))
		}
	}
}

// flush writes queued comments and blank lines at the given depth.
func (p *printer) flush(depth int) {
	indent := strings.Repeat(" ", depth*parser.SpacesPerIndent)
	for _, line := range p.pending {
		if line != "" {
			p.buf.WriteString(indent)
			p.buf.WriteString(line)
		}
		p.buf.WriteByte('\n')
	}
	p.pending = p.pending[:0]
}

// finish writes trailing comments, dropping trailing blank lines.
func (p *printer) finish() {
	for n := len(p.pending); n > 0 && p.pending[n-1] == ""; n-- {
		p.pending = p.pending[:n-1]
	}
	p.flush(0)
}
