package parser

import (
	"fmt"

	"github.com/robinvdvleuten/mot/source"
	"github.com/robinvdvleuten/mot/token"
)

// ParseError represents a syntax error during parsing. Parsing stops at the
// first error, so a failed parse yields exactly one ParseError.
type ParseError struct {
	Pos      source.Position
	Found    token.Type // Type of the offending token
	Expected string     // What the parser was looking for
	Message  string
	Source   *source.Buffer
}

func newParseError(buf *source.Buffer, tok *token.Token, expected string) *ParseError {
	var found string
	switch {
	case tok.Type.IsError():
		found = tok.Type.Description()
	case tok.Type == token.Word || tok.Type == token.LineText:
		found = fmt.Sprintf("%s %q", tok.Type.Description(), tok.Text.String())
	default:
		found = tok.Type.Description()
	}

	return &ParseError{
		Pos:      tok.Position(),
		Found:    tok.Type,
		Expected: expected,
		Message:  fmt.Sprintf("expected %s, found %s", expected, found),
		Source:   buf,
	}
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d, column %d", e.Pos.Line, e.Pos.Column)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

// GetPosition returns where the offending token starts.
func (e *ParseError) GetPosition() source.Position {
	return e.Pos
}

// GetSource returns the buffer the error was found in.
func (e *ParseError) GetSource() *source.Buffer {
	return e.Source
}

// IsLexical reports whether the parse failed on a malformed token rather
// than on a well-formed token in the wrong place.
func (e *ParseError) IsLexical() bool {
	return e.Found.IsError()
}
