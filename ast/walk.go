package ast

import "github.com/robinvdvleuten/mot/token"

// Element is either a token or a child node of a syntax tree node.
// Exactly one of the fields is set.
type Element struct {
	Token *token.Token
	Node  Node
}

// IsToken reports whether the element holds a token.
func (e Element) IsToken() bool {
	return e.Token != nil
}

// Elements returns the direct elements of n in source order. Absent
// optional tokens are skipped.
func Elements(n Node) []Element {
	switch n := n.(type) {
	case *FileNode:
		elements := make([]Element, 0, len(n.Declarations)+1)
		for _, decl := range n.Declarations {
			elements = append(elements, Element{Node: decl})
		}
		if n.EndOfInput != nil {
			elements = append(elements, Element{Token: n.EndOfInput})
		}
		return elements

	case *PropertyDeclarationNode:
		elements := make([]Element, 0, 7+len(n.Children))
		for _, tok := range []*token.Token{n.TypeToken, n.NameToken, n.Colon, n.ValueToken, n.EndOfLine, n.Indent} {
			if tok != nil {
				elements = append(elements, Element{Token: tok})
			}
		}
		for _, child := range n.Children {
			elements = append(elements, Element{Node: child})
		}
		if n.Outdent != nil {
			elements = append(elements, Element{Token: n.Outdent})
		}
		return elements

	default:
		panic("ast: unknown node type")
	}
}

// Walk traverses the tree rooted at n depth-first in source order, calling
// fn for every node and token. If fn returns false for a node, its
// elements are skipped.
func Walk(n Node, fn func(Element) bool) {
	if !fn(Element{Node: n}) {
		return
	}
	for _, e := range Elements(n) {
		if e.Node != nil {
			Walk(e.Node, fn)
			continue
		}
		fn(e)
	}
}

// Inspect traverses the nodes of the tree rooted at n depth-first. If fn
// returns false, the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	Walk(n, func(e Element) bool {
		if e.Node == nil {
			return true
		}
		return fn(e.Node)
	})
}

// Tokens returns every token of the tree rooted at n in source order.
func Tokens(n Node) []*token.Token {
	var tokens []*token.Token
	Walk(n, func(e Element) bool {
		if e.Token != nil {
			tokens = append(tokens, e.Token)
		}
		return true
	})
	return tokens
}
