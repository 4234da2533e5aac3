package parser

import (
	"strings"

	"github.com/takoeight0821/lox/ast"
	"github.com/takoeight0821/lox/token"
	"github.com/takoeight0821/lox/utils"
)

type Parser struct {
	tokens  []token.Token
	current int
}

// NewParser returns a parser over tokens. The slice must end with an EOF
// token, as produced by the lexer.
func NewParser(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Kind: token.EOF, Line: line})
	}

	return &Parser{tokens, 0}
}

// ParseExpr parses exactly one expression followed by the end of input.
// The first syntax error aborts parsing.
func (p *Parser) ParseExpr() (ast.Node, error) {
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.IsAtEnd() {
		return nil, unexpectedToken(p.peek(), "end of input")
	}

	return node, nil
}

// expr = equality ;
func (p *Parser) expr() (ast.Node, error) {
	return p.equality()
}

// equality = comparison (("!=" | "==") comparison)* ;
func (p *Parser) equality() (ast.Node, error) {
	return p.binary(p.comparison, token.BANGEQUAL, token.EQUALEQUAL)
}

// comparison = term ((">" | ">=" | "<" | "<=") term)* ;
func (p *Parser) comparison() (ast.Node, error) {
	return p.binary(p.term, token.GREATER, token.GREATEREQUAL, token.LESS, token.LESSEQUAL)
}

// term = factor (("+" | "-") factor)* ;
func (p *Parser) term() (ast.Node, error) {
	return p.binary(p.factor, token.PLUS, token.MINUS)
}

// factor = unary (("*" | "/") unary)* ;
func (p *Parser) factor() (ast.Node, error) {
	return p.binary(p.unary, token.STAR, token.SLASH)
}

// binary parses a left-associative chain of operand separated by one of ops.
func (p *Parser) binary(operand func() (ast.Node, error), ops ...token.Kind) (ast.Node, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr, nil
}

// unary = ("!" | "-") unary | primary ;
func (p *Parser) unary() (ast.Node, error) {
	if p.match(token.BANG, token.MINUS) {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &ast.Unary{Op: op, Right: right}, nil
	}

	return p.primary()
}

// primary = NUMBER | STRING | "true" | "false" | "nil" | "(" expr ")" ;
func (p *Parser) primary() (ast.Node, error) {
	//exhaustive:ignore
	switch tok := p.peek(); tok.Kind {
	case token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NIL:
		p.advance()

		return &ast.Literal{Token: tok}, nil
	case token.LEFTPAREN:
		p.advance()
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHTPAREN, "`)`"); err != nil {
			return nil, err
		}

		return &ast.Grouping{Paren: tok, Expr: expr}, nil
	default:
		return nil, unexpectedToken(tok, "number", "string", "`true`", "`false`", "`nil`", "`(`")
	}
}

// synchronize discards tokens until a statement boundary: just past a `;`, or
// before a keyword that starts a statement. Expressions have no such boundary,
// so ParseExpr never calls it.
func (p *Parser) synchronize() {
	if p.IsAtEnd() {
		return
	}
	p.advance()
	for !p.IsAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}

		//exhaustive:ignore
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}

func (p Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	if !p.IsAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p Parser) match(kinds ...token.Kind) bool {
	if p.IsAtEnd() {
		return false
	}
	for _, kind := range kinds {
		if p.peek().Kind == kind {
			return true
		}
	}

	return false
}

func (p *Parser) consume(kind token.Kind, expected string) (token.Token, error) {
	if p.match(kind) {
		return p.advance(), nil
	}

	return p.peek(), unexpectedToken(p.peek(), expected)
}

type UnexpectedTokenError struct {
	Expected []string
}

func (e UnexpectedTokenError) Error() string {
	return "unexpected token: expected " + strings.Join(e.Expected, ", ")
}

func unexpectedToken(t token.Token, expected ...string) error {
	return utils.ErrorAt{Where: t, Err: UnexpectedTokenError{Expected: expected}}
}
