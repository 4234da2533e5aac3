package ast

import (
	"fmt"
	"strings"

	"github.com/takoeight0821/lox/token"
)

// Node is an expression tree node. Every node exclusively owns its children.
type Node interface {
	fmt.Stringer
	// Base returns the token used to locate the node in diagnostics.
	Base() token.Token
	// Plate applies the given function to each child node.
	// If f returns an error, f also must return the original argument n.
	Plate(error, func(Node, error) (Node, error)) (Node, error)
}

// Literal is a NUMBER, STRING, `true`, `false` or `nil` token.
type Literal struct {
	token.Token
}

func (l Literal) String() string {
	return parenthesize("literal", lexeme(l.Token)).String()
}

func (l *Literal) Base() token.Token {
	return l.Token
}

func (l *Literal) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return l, err
}

var _ Node = &Literal{}

// Grouping is a parenthesized expression.
type Grouping struct {
	Paren token.Token
	Expr  Node
}

func (g Grouping) String() string {
	return parenthesize("grouping", g.Expr).String()
}

func (g *Grouping) Base() token.Token {
	return g.Paren
}

func (g *Grouping) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	g.Expr, err = f(g.Expr, err)
	return g, err
}

var _ Node = &Grouping{}

type Unary struct {
	Op    token.Token
	Right Node
}

func (u Unary) String() string {
	return parenthesize("unary", lexeme(u.Op), u.Right).String()
}

func (u *Unary) Base() token.Token {
	return u.Op
}

func (u *Unary) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	u.Right, err = f(u.Right, err)
	return u, err
}

var _ Node = &Unary{}

type Binary struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (b Binary) String() string {
	return parenthesize("binary", lexeme(b.Op), b.Left, b.Right).String()
}

func (b *Binary) Base() token.Token {
	return b.Op
}

func (b *Binary) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	b.Left, err = f(b.Left, err)
	b.Right, err = f(b.Right, err)
	return b, err
}

var _ Node = &Binary{}

type lexeme token.Token

func (l lexeme) String() string {
	return l.Lexeme
}

// parenthesize takes a head string and a variadic number of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is parenthesized and separated by a space.
// If the head string is not empty, it is added at the beginning of the string.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for i, elem := range elems {
		str := elem.String()
		if str == "" {
			continue
		}
		if i != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}

// Traverse the [Node] in depth-first order.
// f is called for each node.
// If f returns an error, f also must return the original argument n.
// Traverse modifies each child before n.
func Traverse(n Node, f func(Node, error) (Node, error)) (Node, error) {
	n, err := n.Plate(nil, func(n Node, err error) (Node, error) {
		child, childErr := Traverse(n, f)
		if err != nil {
			return child, err
		}
		return child, childErr
	})
	return f(n, err)
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	var children []Node
	_, err := n.Plate(nil, func(n Node, _ error) (Node, error) {
		children = append(children, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return children
}

// Universe returns n and all of its descendants in post-order.
func Universe(n Node) []Node {
	var nodes []Node
	_, err := Traverse(n, func(n Node, _ error) (Node, error) {
		nodes = append(nodes, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return nodes
}

// Depth returns the height of the tree rooted at n; a leaf has depth 1.
func Depth(n Node) int {
	depth := 0
	for _, child := range Children(n) {
		depth = max(depth, Depth(child))
	}
	return depth + 1
}
