// Package ast declares the types used to represent syntax trees for mot files.
//
// A file is a list of property declarations. Every declaration has a type,
// an optional name and an optional value, and may own an indented block of
// child declarations:
//
//	service web
//	    image: nginx:1.27
//	    port: "8080"
//	    command: >
//	        nginx -g
//	        daemon off;
//
// Nodes keep the tokens they were built from, so a tree can always be
// traced back to the exact source text, trivia included.
package ast

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/mot/source"
	"github.com/robinvdvleuten/mot/text"
	"github.com/robinvdvleuten/mot/token"
)

// NodeType identifies the concrete type of a Node.
type NodeType uint8

const (
	FileNodeType NodeType = iota
	PropertyDeclarationNodeType
)

func (t NodeType) String() string {
	switch t {
	case FileNodeType:
		return "File"
	case PropertyDeclarationNodeType:
		return "PropertyDeclaration"
	default:
		return fmt.Sprintf("NodeType(%d)", uint8(t))
	}
}

// Node is implemented by every syntax tree node. The set of nodes is closed.
type Node interface {
	Type() NodeType
	// Span covers the node's tokens, excluding leading trivia.
	Span() source.Span
	node()
}

// FileNode is the root of a parsed file.
type FileNode struct {
	Buffer       *source.Buffer
	Declarations []*PropertyDeclarationNode
	EndOfInput   *token.Token
}

func (*FileNode) Type() NodeType { return FileNodeType }
func (*FileNode) node()          {}

func (f *FileNode) Span() source.Span {
	if f.EndOfInput == nil {
		return source.Span{}
	}
	return f.Buffer.Span(0, f.EndOfInput.Text.End)
}

// Find returns the top-level declarations whose type matches typ,
// ignoring case.
func (f *FileNode) Find(typ string) []*PropertyDeclarationNode {
	return findByType(f.Declarations, typ)
}

// PropertyDeclarationNode is a single declaration with its optional child
// block. Token fields that were absent in the source are nil.
type PropertyDeclarationNode struct {
	TypeToken  *token.Token // Word
	NameToken  *token.Token // Word or QuotedText
	Colon      *token.Token
	ValueToken *token.Token // LineText, QuotedText or BlockText
	EndOfLine  *token.Token

	Indent   *token.Token
	Children []*PropertyDeclarationNode
	Outdent  *token.Token
}

// NewPropertyDeclaration creates a declaration from its type and optional
// name tokens. It panics if typ is not a Word or name is neither a Word nor
// a QuotedText.
func NewPropertyDeclaration(typ, name *token.Token) *PropertyDeclarationNode {
	if typ == nil || typ.Type != token.Word {
		panic("ast: property type must be a Word token")
	}
	if name != nil && name.Type != token.Word && name.Type != token.QuotedText {
		panic(fmt.Sprintf("ast: property name cannot be a %s token", name.Type))
	}
	return &PropertyDeclarationNode{TypeToken: typ, NameToken: name}
}

func (*PropertyDeclarationNode) Type() NodeType { return PropertyDeclarationNodeType }
func (*PropertyDeclarationNode) node()          {}

func (d *PropertyDeclarationNode) Span() source.Span {
	span := d.TypeToken.Text
	elements := Elements(d)
	last := elements[len(elements)-1]
	if last.Token != nil {
		return span.Cover(last.Token.Text)
	}
	return span.Cover(last.Node.Span())
}

// Position returns where the declaration's type word starts.
func (d *PropertyDeclarationNode) Position() source.Position {
	return d.TypeToken.Position()
}

// PropertyType returns the declaration's type word.
func (d *PropertyDeclarationNode) PropertyType() *text.String {
	return d.TypeToken.Value
}

// HasName reports whether the declaration has a name.
func (d *PropertyDeclarationNode) HasName() bool {
	return d.NameToken != nil
}

// PropertyName returns the declaration's name, or the empty string.
func (d *PropertyDeclarationNode) PropertyName() *text.String {
	if d.NameToken == nil {
		return text.Empty()
	}
	return d.NameToken.Value
}

// HasValue reports whether the declaration has a value. A colon without a
// value does not count.
func (d *PropertyDeclarationNode) HasValue() bool {
	return d.ValueToken != nil
}

// PropertyValue returns the declaration's value, or the empty string.
func (d *PropertyDeclarationNode) PropertyValue() *text.String {
	if d.ValueToken == nil {
		return text.Empty()
	}
	return d.ValueToken.Value
}

// Find returns the child declarations whose type matches typ, ignoring case.
func (d *PropertyDeclarationNode) Find(typ string) []*PropertyDeclarationNode {
	return findByType(d.Children, typ)
}

// Child returns the first child declaration whose type matches typ,
// ignoring case, or nil.
func (d *PropertyDeclarationNode) Child(typ string) *PropertyDeclarationNode {
	want := text.New(typ)
	i := slices.IndexFunc(d.Children, func(c *PropertyDeclarationNode) bool {
		return text.AreCaseInsensitiveEqual(c.PropertyType(), want)
	})
	if i < 0 {
		return nil
	}
	return d.Children[i]
}

func findByType(decls []*PropertyDeclarationNode, typ string) []*PropertyDeclarationNode {
	want := text.New(typ)
	var found []*PropertyDeclarationNode
	for _, decl := range decls {
		if text.AreCaseInsensitiveEqual(decl.PropertyType(), want) {
			found = append(found, decl)
		}
	}
	return found
}
