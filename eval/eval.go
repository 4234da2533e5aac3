// Package eval reduces an expression tree to a runtime value.
package eval

import (
	"fmt"

	"github.com/takoeight0821/lox/ast"
	"github.com/takoeight0821/lox/token"
	"github.com/takoeight0821/lox/utils"
)

// TypeError reports an operator applied to operands of the wrong kind.
// Left is nil for unary operators.
type TypeError struct {
	Op    string
	Want  string
	Left  Value
	Right Value
}

func (e TypeError) Error() string {
	if e.Left == nil {
		return fmt.Sprintf("type error: operand of `%s` must be %s, got %v", e.Op, e.Want, e.Right.Kind())
	}
	return fmt.Sprintf("type error: operands of `%s` must be %s, got %v and %v", e.Op, e.Want, e.Left.Kind(), e.Right.Kind())
}

func typeError(op token.Token, want string, left, right Value) error {
	return utils.ErrorAt{Where: op, Err: TypeError{Op: op.Lexeme, Want: want, Left: left, Right: right}}
}

// Eval evaluates node in post-order. The first type error aborts evaluation.
func Eval(node ast.Node) (Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return evalLiteral(n.Token)
	case *ast.Grouping:
		return Eval(n.Expr)
	case *ast.Unary:
		right, err := Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return evalUnary(n.Op, right)
	case *ast.Binary:
		left, err := Eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return evalBinary(n.Op, left, right)
	default:
		return nil, fmt.Errorf("eval: unexpected node %v", node)
	}
}

func evalLiteral(tok token.Token) (Value, error) {
	//exhaustive:ignore
	switch tok.Kind {
	case token.NUMBER:
		if f, ok := tok.Literal.(float64); ok {
			return Number(f), nil
		}
	case token.STRING:
		if s, ok := tok.Literal.(string); ok {
			return String(s), nil
		}
	case token.TRUE:
		return Bool(true), nil
	case token.FALSE:
		return Bool(false), nil
	case token.NIL:
		return Nil{}, nil
	}

	return nil, utils.ErrorAt{Where: tok, Err: fmt.Errorf("unexpected literal: %v", tok)}
}

func evalUnary(op token.Token, right Value) (Value, error) {
	//exhaustive:ignore
	switch op.Kind {
	case token.MINUS:
		r, ok := right.(Number)
		if !ok {
			return nil, typeError(op, "a number", nil, right)
		}
		return -r, nil
	case token.BANG:
		return Bool(!Truthy(right)), nil
	default:
		return nil, utils.ErrorAt{Where: op, Err: fmt.Errorf("unexpected unary operator")}
	}
}

func evalBinary(op token.Token, left, right Value) (Value, error) {
	//exhaustive:ignore
	switch op.Kind {
	case token.EQUALEQUAL:
		return Bool(Equal(left, right)), nil
	case token.BANGEQUAL:
		return Bool(!Equal(left, right)), nil
	case token.PLUS:
		if l, ok := left.(Number); ok {
			if r, ok := right.(Number); ok {
				return l + r, nil
			}
		}
		if l, ok := left.(String); ok {
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
		return nil, typeError(op, "two numbers or two strings", left, right)
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return nil, typeError(op, "numbers", left, right)
	}

	//exhaustive:ignore
	switch op.Kind {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		return l / r, nil
	case token.GREATER:
		return Bool(l > r), nil
	case token.GREATEREQUAL:
		return Bool(l >= r), nil
	case token.LESS:
		return Bool(l < r), nil
	case token.LESSEQUAL:
		return Bool(l <= r), nil
	default:
		return nil, utils.ErrorAt{Where: op, Err: fmt.Errorf("unexpected binary operator")}
	}
}
