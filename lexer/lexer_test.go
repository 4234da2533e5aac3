package lexer_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takoeight0821/lox/lexer"
	"github.com/takoeight0821/lox/token"
	"github.com/takoeight0821/lox/utils"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Fatalf("failed to find test files: %v", err)
	}

	for _, testfile := range testfiles {
		source, err := os.ReadFile(testfile)
		if err != nil {
			t.Fatalf("failed to read %s: %v", testfile, err)
		}

		tokens, err := lexer.Lex(source)
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			continue
		}

		var builder strings.Builder
		for _, token := range tokens {
			builder.WriteString(token.String())
			builder.WriteString("\n")
		}

		g := goldie.New(t)
		g.Assert(t, strings.TrimSuffix(filepath.Base(testfile), ".lox"), []byte(builder.String()))
	}
}

type kindLine struct {
	Kind token.Kind
	Line int
}

func kindLines(tokens []token.Token) []kindLine {
	result := make([]kindLine, len(tokens))
	for i, t := range tokens {
		result[i] = kindLine{t.Kind, t.Line}
	}
	return result
}

func TestOperators(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex([]byte("(){}!=!(===<<=>>="))
	require.NoError(t, err)

	expected := []kindLine{
		{token.LEFTPAREN, 1},
		{token.RIGHTPAREN, 1},
		{token.LEFTBRACE, 1},
		{token.RIGHTBRACE, 1},
		{token.BANGEQUAL, 1},
		{token.BANG, 1},
		{token.LEFTPAREN, 1},
		{token.EQUALEQUAL, 1},
		{token.EQUAL, 1},
		{token.LESS, 1},
		{token.LESSEQUAL, 1},
		{token.GREATER, 1},
		{token.GREATEREQUAL, 1},
		{token.EOF, 1},
	}
	if diff := cmp.Diff(expected, kindLines(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
}

func TestCommentsAndLines(t *testing.T) {
	t.Parallel()

	source := `
// this is a comment
(( )){} // grouping stuff
!*+-/=<> <= == // operators
`
	tokens, err := lexer.Lex([]byte(source))
	require.NoError(t, err)

	expected := []kindLine{
		{token.LEFTPAREN, 3},
		{token.LEFTPAREN, 3},
		{token.RIGHTPAREN, 3},
		{token.RIGHTPAREN, 3},
		{token.LEFTBRACE, 3},
		{token.RIGHTBRACE, 3},
		{token.BANG, 4},
		{token.STAR, 4},
		{token.PLUS, 4},
		{token.MINUS, 4},
		{token.SLASH, 4},
		{token.EQUAL, 4},
		{token.LESS, 4},
		{token.GREATER, 4},
		{token.LESSEQUAL, 4},
		{token.EQUALEQUAL, 4},
		{token.EOF, 5},
	}
	if diff := cmp.Diff(expected, kindLines(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
}

func TestCommentAtEndOfInput(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex([]byte("1 // no newline"))
	require.NoError(t, err)
	assert.Equal(t, []kindLine{{token.NUMBER, 1}, {token.EOF, 1}}, kindLines(tokens))
}

func TestStrings(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex([]byte(` "foo" "bar" `))
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, token.Token{Kind: token.STRING, Lexeme: `"foo"`, Line: 1, Literal: "foo"}, tokens[0])
	assert.Equal(t, token.Token{Kind: token.STRING, Lexeme: `"bar"`, Line: 1, Literal: "bar"}, tokens[1])

	// newlines are kept verbatim and there are no escape sequences
	tokens, err = lexer.Lex([]byte("\"b\nar\\n\""))
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "b\nar\\n", tokens[0].Literal)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, token.Token{Kind: token.EOF, Line: 2}, tokens[1])
}

func TestNumbers(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex([]byte("123.32 123.12 7"))
	require.NoError(t, err)

	var literals []any
	for _, tok := range tokens[:len(tokens)-1] {
		literals = append(literals, tok.Literal)
	}
	assert.Equal(t, []any{123.32, 123.12, 7.0}, literals)

	// a dot without a following digit is not part of the number
	tokens, err = lexer.Lex([]byte("1. .5"))
	require.NoError(t, err)
	assert.Equal(t, []kindLine{
		{token.NUMBER, 1},
		{token.DOT, 1},
		{token.DOT, 1},
		{token.NUMBER, 1},
		{token.EOF, 1},
	}, kindLines(tokens))
	assert.Equal(t, 5.0, tokens[3].Literal)
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex([]byte("abc or foo and while _bar9"))
	require.NoError(t, err)

	var kinds []token.Kind
	var lexemes []string
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
		lexemes = append(lexemes, tok.Lexeme)
	}
	assert.Equal(t, []token.Kind{token.IDENT, token.OR, token.IDENT, token.AND, token.WHILE, token.IDENT, token.EOF}, kinds)
	assert.Equal(t, []string{"abc", "or", "foo", "and", "while", "_bar9", ""}, lexemes)
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	words := "and class else false for fun if nil or print return super this true var while"
	tokens, err := lexer.Lex([]byte(words))
	require.NoError(t, err)
	require.Len(t, tokens, 17)
	for _, tok := range tokens[:16] {
		assert.NotEqual(t, token.IDENT, tok.Kind, tok.Lexeme)
		assert.Equal(t, strings.ToUpper(tok.Lexeme), tok.Kind.String())
	}
}

func unwrapAll(t *testing.T, err error) []error {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "error %v does not wrap a list", err)
	return errs.Unwrap()
}

func TestUnexpectedCharacters(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex([]byte("@ # $"))
	assert.Nil(t, tokens)
	assert.Equal(t, []error{
		lexer.UnexpectedCharacterError{Line: 1, Char: '@'},
		lexer.UnexpectedCharacterError{Line: 1, Char: '#'},
		lexer.UnexpectedCharacterError{Line: 1, Char: '$'},
	}, unwrapAll(t, err))

	_, err = lexer.Lex([]byte("1\n@\n2 #"))
	assert.Equal(t, []error{
		lexer.UnexpectedCharacterError{Line: 2, Char: '@'},
		lexer.UnexpectedCharacterError{Line: 3, Char: '#'},
	}, unwrapAll(t, err))
}

func TestUnterminatedString(t *testing.T) {
	t.Parallel()

	_, err := lexer.Lex([]byte(`"abc`))
	assert.Equal(t, []error{lexer.UnterminatedStringError{Line: 1}}, unwrapAll(t, err))

	// the line where the string began is reported
	_, err = lexer.Lex([]byte("1\n\"ab\nc\n"))
	assert.Equal(t, []error{lexer.UnterminatedStringError{Line: 2}}, unwrapAll(t, err))
}

func TestInvalidEncoding(t *testing.T) {
	t.Parallel()

	_, err := lexer.Lex([]byte("\"a\xffb\""))
	assert.Equal(t, []error{lexer.InvalidEncodingError{Line: 1}}, unwrapAll(t, err))

	_, err = lexer.Lex([]byte("1 \xff 2"))
	assert.Equal(t, []error{lexer.InvalidEncodingError{Line: 1}}, unwrapAll(t, err))

	// a valid multi-byte character is reported once
	_, err = lexer.Lex([]byte("é"))
	assert.Equal(t, []error{lexer.UnexpectedCharacterError{Line: 1, Char: 'é'}}, unwrapAll(t, err))
}

func TestOutOfRangeNumbers(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("9", 400)
	tokens, err := lexer.Lex([]byte(huge))
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, token.NUMBER, tokens[0].Kind)
	assert.Equal(t, huge, tokens[0].Lexeme)
	assert.True(t, math.IsInf(tokens[0].Literal.(float64), 1))

	tiny := "0." + strings.Repeat("0", 400) + "1"
	tokens, err = lexer.Lex([]byte(tiny))
	require.NoError(t, err)
	assert.Equal(t, token.NUMBER, tokens[0].Kind)
	assert.Equal(t, 0.0, tokens[0].Literal)
}

func TestLexAllKeepsTokens(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.LexAll([]byte("1 @ 2"))
	assert.Len(t, unwrapAll(t, err), 1)
	assert.Equal(t, []kindLine{{token.NUMBER, 1}, {token.NUMBER, 1}, {token.EOF, 1}}, kindLines(tokens))
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex(nil)
	require.NoError(t, err)
	assert.Equal(t, []token.Token{{Kind: token.EOF, Line: 1}}, tokens)
}
