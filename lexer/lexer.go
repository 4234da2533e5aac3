package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/takoeight0821/lox/token"
)

// Lex scans source into tokens. If any lexical error occurs, the tokens are
// discarded and all errors are returned joined in source order.
func Lex(source []byte) ([]token.Token, error) {
	tokens, err := LexAll(source)
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

// LexAll is like Lex but always returns the tokens it recognized, so callers
// can inspect a partially valid input. The token slice always ends with EOF.
func LexAll(source []byte) ([]token.Token, error) {
	lexer := lexer{
		source:  source,
		tokens:  []token.Token{},
		start:   0,
		current: 0,
		line:    1,
	}

	var errs []error

	for !lexer.isAtEnd() {
		if err := lexer.scanToken(); err != nil {
			errs = append(errs, err)
		}
	}

	lexer.tokens = append(lexer.tokens, token.Token{Kind: token.EOF, Lexeme: "", Line: lexer.line, Literal: nil})

	return lexer.tokens, errors.Join(errs...)
}

type lexer struct {
	source []byte
	tokens []token.Token

	start   int // start of current lexeme
	current int // current position in source
	line    int // current line number
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}

	return l.source[l.current]
}

func (l lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}

	return l.source[l.current+1]
}

func (l *lexer) advance() byte {
	c := l.source[l.current]
	l.current++

	return c
}

// match consumes the current byte if it is expected.
func (l *lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++

	return true
}

func (l *lexer) addToken(kind token.Kind, literal any) {
	l.addTokenAt(kind, literal, l.line)
}

func (l *lexer) addTokenAt(kind token.Kind, literal any, line int) {
	text := string(l.source[l.start:l.current])
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: text, Line: line, Literal: literal})
}

type UnexpectedCharacterError struct {
	Line int
	Char rune
}

func (e UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("unexpected character: %q at line %d", e.Char, e.Line)
}

type UnterminatedStringError struct {
	Line int
}

func (e UnterminatedStringError) Error() string {
	return fmt.Sprintf("unterminated string at line %d", e.Line)
}

type InvalidEncodingError struct {
	Line int
}

func (e InvalidEncodingError) Error() string {
	return fmt.Sprintf("invalid UTF-8 encoding at line %d", e.Line)
}

type InvalidNumberError struct {
	Line int
	Text string
}

func (e InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number %q at line %d", e.Text, e.Line)
}

func (l *lexer) scanToken() error {
	l.start = l.current
	char := l.advance()
	switch char {
	case ' ', '\r', '\t':
		// ignore whitespace
		return nil
	case '\n':
		l.line++

		return nil
	case '(':
		l.addToken(token.LEFTPAREN, nil)
	case ')':
		l.addToken(token.RIGHTPAREN, nil)
	case '{':
		l.addToken(token.LEFTBRACE, nil)
	case '}':
		l.addToken(token.RIGHTBRACE, nil)
	case ',':
		l.addToken(token.COMMA, nil)
	case '.':
		l.addToken(token.DOT, nil)
	case '-':
		l.addToken(token.MINUS, nil)
	case '+':
		l.addToken(token.PLUS, nil)
	case ';':
		l.addToken(token.SEMICOLON, nil)
	case '*':
		l.addToken(token.STAR, nil)
	case '!':
		l.addToken(l.either('=', token.BANGEQUAL, token.BANG), nil)
	case '=':
		l.addToken(l.either('=', token.EQUALEQUAL, token.EQUAL), nil)
	case '<':
		l.addToken(l.either('=', token.LESSEQUAL, token.LESS), nil)
	case '>':
		l.addToken(l.either('=', token.GREATEREQUAL, token.GREATER), nil)
	case '/':
		if l.match('/') {
			// a comment goes until the end of the line
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(token.SLASH, nil)
		}
	case '"':
		return l.string()
	default:
		if isDigit(char) {
			return l.number()
		}
		if isAlpha(char) {
			l.identifier()

			return nil
		}

		return l.unexpected(char)
	}

	return nil
}

func (l *lexer) either(next byte, matched, single token.Kind) token.Kind {
	if l.match(next) {
		return matched
	}

	return single
}

// unexpected reports char, which has already been consumed. A multi-byte
// UTF-8 sequence is reported once and skipped whole.
func (l *lexer) unexpected(char byte) error {
	if char < utf8.RuneSelf {
		return UnexpectedCharacterError{Line: l.line, Char: rune(char)}
	}

	r, width := utf8.DecodeRune(l.source[l.start:])
	if r == utf8.RuneError && width <= 1 {
		return InvalidEncodingError{Line: l.line}
	}
	l.current = l.start + width

	return UnexpectedCharacterError{Line: l.line, Char: r}
}

func (l *lexer) string() error {
	startLine := l.line
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		return UnterminatedStringError{Line: startLine}
	}

	// the closing "
	l.advance()

	value := l.source[l.start+1 : l.current-1]
	if !utf8.Valid(value) {
		return InvalidEncodingError{Line: startLine}
	}
	l.addTokenAt(token.STRING, string(value), startLine)

	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) number() error {
	for isDigit(l.peek()) {
		l.advance()
	}

	// a fractional part needs at least one digit after the dot
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	text := string(l.source[l.start:l.current])
	// out of range literals keep the +Inf or 0 that ParseFloat rounds to
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return InvalidNumberError{Line: l.line, Text: text}
	}
	l.addToken(token.NUMBER, value)

	return nil
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func (l *lexer) identifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	value := string(l.source[l.start:l.current])

	if k, ok := token.Keyword(value); ok {
		l.addToken(k, nil)
	} else {
		l.addToken(token.IDENT, nil)
	}
}
