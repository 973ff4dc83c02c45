// Package token defines the lexical units produced by the lexer.
package token

import (
	"fmt"

	"github.com/robinvdvleuten/mot/source"
	"github.com/robinvdvleuten/mot/text"
)

// Type represents the type of a token.
type Type uint8

const (
	// Error tokens. All error types sort before errorSentinel so IsError is
	// a single comparison.
	ErrUnexpectedCharacter Type = iota
	ErrMisalignedIndentation
	ErrUnterminatedString
	ErrTabIndent
	errorSentinel

	// StartOfInput is the lexer's initial state. It is never emitted.
	StartOfInput

	// Whitespace
	EndOfInput
	EndOfLine
	Indent
	Outdent

	// Text
	Word
	LineText
	QuotedText
	BlockText

	// Symbols
	Colon
	GreaterThan
)

var typeNames = [...]string{
	ErrUnexpectedCharacter:   "Error_UnexpectedCharacter",
	ErrMisalignedIndentation: "Error_MisalignedIndentation",
	ErrUnterminatedString:    "Error_UnterminatedString",
	ErrTabIndent:             "Error_TabIndent",
	errorSentinel:            "Error_",

	StartOfInput: "StartOfInput",
	EndOfInput:   "EndOfInput",
	EndOfLine:    "EndOfLine",
	Indent:       "Indent",
	Outdent:      "Outdent",

	Word:       "Word",
	LineText:   "LineText",
	QuotedText: "QuotedText",
	BlockText:  "BlockText",

	Colon:       "Colon",
	GreaterThan: "GreaterThan",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// IsError reports whether t is one of the lexical error types.
func (t Type) IsError() bool {
	return t < errorSentinel
}

// IsText reports whether tokens of type t carry a parsed string value.
func (t Type) IsText() bool {
	switch t {
	case Word, LineText, QuotedText, BlockText:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the token type,
// used in parse error messages.
func (t Type) Description() string {
	switch t {
	case ErrUnexpectedCharacter:
		return "unexpected character"
	case ErrMisalignedIndentation:
		return "indentation is not a multiple of 4 spaces"
	case ErrUnterminatedString:
		return "unterminated quoted text"
	case ErrTabIndent:
		return "tabs cannot be used for indentation"
	case EndOfInput:
		return "end of input"
	case EndOfLine:
		return "end of line"
	case Indent:
		return "indent"
	case Outdent:
		return "outdent"
	case Word:
		return "word"
	case LineText:
		return "line text"
	case QuotedText:
		return "quoted text"
	case BlockText:
		return "block text"
	case Colon:
		return "':'"
	case GreaterThan:
		return "'>'"
	default:
		return t.String()
	}
}

// Token is an immutable lexical unit. Trivia is the whitespace and comments
// immediately preceding Text. Value is set for text-bearing types only.
type Token struct {
	Type   Type
	Trivia source.Span
	Text   source.Span
	Value  *text.String
}

// New constructs a token. It panics if trivia does not end where the text
// starts, or if value presence does not match the token type.
func New(typ Type, trivia, txt source.Span, value *text.String) *Token {
	if trivia.End != txt.Start {
		panic(fmt.Sprintf("token: trivia ends at %d but %s text starts at %d", trivia.End, typ, txt.Start))
	}
	if typ.IsText() != (value != nil) {
		panic(fmt.Sprintf("token: value presence does not match type %s", typ))
	}
	return &Token{Type: typ, Trivia: trivia, Text: txt, Value: value}
}

// Position returns the position of the first byte of the token's text.
func (t *Token) Position() source.Position {
	return t.Text.Position()
}

// ValueOrText returns the parsed value for text tokens and the raw source
// text for all others.
func (t *Token) ValueOrText() string {
	if t.Value != nil {
		return t.Value.String()
	}
	return t.Text.String()
}

func (t *Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s(%q)", t.Type, t.Value.String())
	}
	return t.Type.String()
}
