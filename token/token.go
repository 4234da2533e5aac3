package token

import "fmt"

type Kind int

const (
	EOF Kind = iota

	// Single-character tokens.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	SLASH
	STAR

	// One or two character tokens.
	BANG
	BANGEQUAL
	EQUAL
	EQUALEQUAL
	GREATER
	GREATEREQUAL
	LESS
	LESSEQUAL

	// Literals and identifiers.
	IDENT
	STRING
	NUMBER

	// Keywords.
	AND
	CLASS
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
)

var kindNames = [...]string{
	EOF:          "EOF",
	LEFTPAREN:    "LEFT_PAREN",
	RIGHTPAREN:   "RIGHT_PAREN",
	LEFTBRACE:    "LEFT_BRACE",
	RIGHTBRACE:   "RIGHT_BRACE",
	COMMA:        "COMMA",
	DOT:          "DOT",
	MINUS:        "MINUS",
	PLUS:         "PLUS",
	SEMICOLON:    "SEMICOLON",
	SLASH:        "SLASH",
	STAR:         "STAR",
	BANG:         "BANG",
	BANGEQUAL:    "BANG_EQUAL",
	EQUAL:        "EQUAL",
	EQUALEQUAL:   "EQUAL_EQUAL",
	GREATER:      "GREATER",
	GREATEREQUAL: "GREATER_EQUAL",
	LESS:         "LESS",
	LESSEQUAL:    "LESS_EQUAL",
	IDENT:        "IDENT",
	STRING:       "STRING",
	NUMBER:       "NUMBER",
	AND:          "AND",
	CLASS:        "CLASS",
	ELSE:         "ELSE",
	FALSE:        "FALSE",
	FOR:          "FOR",
	FUN:          "FUN",
	IF:           "IF",
	NIL:          "NIL",
	OR:           "OR",
	PRINT:        "PRINT",
	RETURN:       "RETURN",
	SUPER:        "SUPER",
	THIS:         "THIS",
	TRUE:         "TRUE",
	VAR:          "VAR",
	WHILE:        "WHILE",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

var keywords = map[string]Kind{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// Keyword reports the keyword kind spelled by text.
func Keyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

// Token is a lexical unit. Literal holds a float64 for NUMBER, a string for
// STRING and nil for every other kind.
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Literal any
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %d, %v}", t.Kind, t.Lexeme, t.Line, t.Literal)
}
