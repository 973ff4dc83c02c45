// Package parser turns mot source text into a syntax tree.
//
// The grammar is small enough that a hand-written recursive descent parser
// pulling tokens from the Lexer is both the fastest and the clearest option:
//
//	file        := declaration* EndOfInput
//	declaration := Word [Word | QuotedText]
//	               [Colon [LineText | QuotedText | BlockText]]
//	               EndOfLine
//	               [Indent declaration+ Outdent]
//
// Parsing stops at the first error.
package parser

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/mot/ast"
	"github.com/robinvdvleuten/mot/source"
	"github.com/robinvdvleuten/mot/telemetry"
	"github.com/robinvdvleuten/mot/token"
)

// Parser builds a FileNode from the tokens of a single buffer.
type Parser struct {
	ctx   context.Context
	buf   *source.Buffer
	lexer *Lexer
}

// New creates a parser for buf.
func New(ctx context.Context, buf *source.Buffer) *Parser {
	return &Parser{
		ctx:   ctx,
		buf:   buf,
		lexer: NewLexer(buf),
	}
}

// Parse parses a source buffer. On failure the returned error is a
// *ParseError, or the context's error if ctx was cancelled.
func Parse(ctx context.Context, buf *source.Buffer) (*ast.FileNode, error) {
	name := buf.Filename
	if name == "" {
		name = "<input>"
	}
	ctx, timer := telemetry.StartTimer(ctx, "parse "+filepath.Base(name))
	defer timer.End()

	file, err := New(ctx, buf).Parse()
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", name).
		Int("declarations", len(file.Declarations)).
		Msg("parsed file")

	return file, nil
}

// ParseBytes parses data as the contents of filename.
func ParseBytes(ctx context.Context, filename string, data []byte) (*ast.FileNode, error) {
	buf, err := source.NewBuffer(filename, data)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, buf)
}

// ParseString parses the given string.
func ParseString(ctx context.Context, str string) (*ast.FileNode, error) {
	return ParseBytes(ctx, "", []byte(str))
}

// ParseConfigurationFile parses buf and reports success. When parsing
// fails, the error is written to w and the returned tree is nil.
func ParseConfigurationFile(ctx context.Context, w io.Writer, buf *source.Buffer) (*ast.FileNode, bool) {
	file, err := Parse(ctx, buf)
	if err != nil {
		_, _ = fmt.Fprintln(w, err)
		return nil, false
	}
	return file, true
}

// Parse consumes the whole input.
func (p *Parser) Parse() (*ast.FileNode, error) {
	file := &ast.FileNode{Buffer: p.buf}

	for {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}

		tok := p.lexer.Peek()
		switch tok.Type {
		case token.EndOfInput:
			file.EndOfInput = p.lexer.Advance()
			return file, nil
		case token.Word:
			decl, err := p.parseDeclaration()
			if err != nil {
				return nil, err
			}
			file.Declarations = append(file.Declarations, decl)
		default:
			return nil, p.errorf(tok, "a declaration")
		}
	}
}

// parseDeclaration parses one declaration and, recursively, its children.
// The current token must be a Word.
func (p *Parser) parseDeclaration() (*ast.PropertyDeclarationNode, error) {
	typ := p.lexer.Advance()

	var name *token.Token
	if next := p.lexer.Peek(); next.Type == token.Word || next.Type == token.QuotedText {
		name = p.lexer.Advance()
	}

	decl := ast.NewPropertyDeclaration(typ, name)

	if p.lexer.Peek().Type == token.Colon {
		decl.Colon = p.lexer.Advance()

		switch p.lexer.Peek().Type {
		case token.LineText, token.QuotedText, token.BlockText:
			decl.ValueToken = p.lexer.Advance()
		}
	}

	eol, err := p.expect(token.EndOfLine, "end of line")
	if err != nil {
		return nil, err
	}
	decl.EndOfLine = eol

	if p.lexer.Peek().Type != token.Indent {
		return decl, nil
	}
	decl.Indent = p.lexer.Advance()

	for {
		tok := p.lexer.Peek()
		switch {
		case tok.Type == token.Word:
			child, err := p.parseDeclaration()
			if err != nil {
				return nil, err
			}
			decl.Children = append(decl.Children, child)
		case tok.Type == token.Outdent && len(decl.Children) > 0:
			decl.Outdent = p.lexer.Advance()
			return decl, nil
		default:
			return nil, p.errorf(tok, "a declaration")
		}
	}
}

func (p *Parser) expect(typ token.Type, what string) (*token.Token, error) {
	tok := p.lexer.Peek()
	if tok.Type != typ {
		return nil, p.errorf(tok, what)
	}
	return p.lexer.Advance(), nil
}

func (p *Parser) errorf(tok *token.Token, expected string) error {
	return newParseError(p.buf, tok, expected)
}
