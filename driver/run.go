package driver

import (
	"errors"
	"fmt"

	"github.com/takoeight0821/lox/ast"
	"github.com/takoeight0821/lox/eval"
	"github.com/takoeight0821/lox/lexer"
	"github.com/takoeight0821/lox/parser"
	"github.com/takoeight0821/lox/token"
	"github.com/takoeight0821/lox/utils"
)

// Stage identifies the pipeline stage that rejected the input.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageEval
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageEval:
		return "eval"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Error is the diagnostic returned for any rejected input.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errors returns the individual diagnostics. Only the lex stage reports more
// than one.
func (e *Error) Errors() []error {
	if errs, ok := e.Err.(interface{ Unwrap() []error }); ok {
		return errs.Unwrap()
	}
	return []error{e.Err}
}

// Line returns the source line of the first diagnostic, or 0 if unknown.
func (e *Error) Line() int {
	err := e.Errors()[0]

	var at utils.ErrorAt
	if errors.As(err, &at) {
		return at.Where.Line
	}

	var (
		unexpected   lexer.UnexpectedCharacterError
		unterminated lexer.UnterminatedStringError
		encoding     lexer.InvalidEncodingError
		number       lexer.InvalidNumberError
	)
	switch {
	case errors.As(err, &unexpected):
		return unexpected.Line
	case errors.As(err, &unterminated):
		return unterminated.Line
	case errors.As(err, &encoding):
		return encoding.Line
	case errors.As(err, &number):
		return number.Line
	}

	return 0
}

// Logger receives debug output about each run.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Runner feeds one source unit through lexer, parser and evaluator. It keeps
// no state between calls.
type Runner struct {
	log Logger
}

func NewRunner(log Logger) *Runner {
	if log == nil {
		log = nopLogger{}
	}
	return &Runner{log: log}
}

// Tokens lexes source. Unlike Run, the tokens recognized so far are returned
// along with any lexical error.
func (r *Runner) Tokens(source []byte) ([]token.Token, error) {
	tokens, err := lexer.LexAll(source)
	r.log.Debugf("lexed %d bytes into %d tokens", len(source), len(tokens))
	if err != nil {
		return tokens, &Error{Stage: StageLex, Err: err}
	}

	return tokens, nil
}

// Parse lexes and parses source into a single expression tree.
func (r *Runner) Parse(source []byte) (ast.Node, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, &Error{Stage: StageLex, Err: err}
	}
	r.log.Debugf("lexed %d bytes into %d tokens", len(source), len(tokens))

	expr, err := parser.NewParser(tokens).ParseExpr()
	if err != nil {
		return nil, &Error{Stage: StageParse, Err: err}
	}
	r.log.Debugf("parsed %d nodes, depth %d", len(ast.Universe(expr)), ast.Depth(expr))

	return expr, nil
}

// Run evaluates source and returns its value.
func (r *Runner) Run(source []byte) (eval.Value, error) {
	expr, err := r.Parse(source)
	if err != nil {
		return nil, err
	}

	value, err := eval.Eval(expr)
	if err != nil {
		return nil, &Error{Stage: StageEval, Err: err}
	}
	r.log.Debugf("evaluated to %v (%v)", value, value.Kind())

	return value, nil
}
