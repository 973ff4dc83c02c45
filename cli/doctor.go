package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/mot/ast"
	"github.com/robinvdvleuten/mot/parser"
	"github.com/robinvdvleuten/mot/source"
	"github.com/robinvdvleuten/mot/token"
)

// DoctorCmd provides doctor utilities for debugging mot files.
type DoctorCmd struct {
	Lex  LexCmd  `cmd:"" help:"Show lexical tokens from a mot file."`
	Tree TreeCmd `cmd:"" help:"Show the declaration tree of a mot file."`
}

// LexCmd shows lexical tokens from a mot file.
type LexCmd struct {
	File      FileOrStdin `help:"Mot input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Positions bool        `short:"p" help:"Show the line and column of each token."`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(kctx *kong.Context, ctx context.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.newSession(ctx, kctx, "lex")
	if err != nil {
		return err
	}
	defer s.close()

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return lexTokens(s.stdout, cmd.File.Filename, content, cmd.Positions, s.styles.Enabled())
}

// lexTokens prints every token of content, error tokens included.
func lexTokens(w io.Writer, filename string, content []byte, positions, useColor bool) error {
	buf, err := source.NewBuffer(filename, content)
	if err != nil {
		return err
	}

	for _, tok := range parser.NewLexer(buf).ScanAll() {
		if err := token.DebugPrint(w, tok, positions, useColor); err != nil {
			return err
		}
	}
	return nil
}

// TreeCmd shows the declaration tree of a mot file.
type TreeCmd struct {
	File FileOrStdin `help:"Mot input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the tree command.
func (cmd *TreeCmd) Run(kctx *kong.Context, ctx context.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.newSession(ctx, kctx, "tree")
	if err != nil {
		return err
	}
	defer s.close()

	result, err := cmd.File.Load(s.ctx, s.loader)
	if err != nil {
		_, _ = fmt.Fprintln(s.stderr, NewErrorRenderer(errorContextLines).Render(err))
		return NewCommandError(1)
	}

	printTree(s.stdout, result.File)
	return nil
}

// declaration is the printable form of a declaration.
type declaration struct {
	Type     string
	Name     string
	Value    string
	Line     int
	Children []declaration
}

func printTree(w io.Writer, file *ast.FileNode) {
	var convert func(decls []*ast.PropertyDeclarationNode) []declaration
	convert = func(decls []*ast.PropertyDeclarationNode) []declaration {
		out := make([]declaration, 0, len(decls))
		for _, d := range decls {
			out = append(out, declaration{
				Type:     d.PropertyType().String(),
				Name:     d.PropertyName().String(),
				Value:    d.PropertyValue().String(),
				Line:     d.Position().Line,
				Children: convert(d.Children),
			})
		}
		return out
	}

	repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(convert(file.Declarations))
}
