package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/loxwalk/pkgs/diag"
	"github.com/aledsdavies/loxwalk/pkgs/token"
)

func scanAll(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "(){}+-*/,;! != = == < <= > >=")
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.COMMA, token.SEMI,
		token.BANG, token.BANG_EQ, token.EQUAL, token.EQUAL_EQ,
		token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ,
		token.EOF,
	}, kinds)
}

func TestLexerNumber(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "123 4.5")
	require.Len(t, toks, 3)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, float64(123), toks[0].Num)
	assert.Equal(t, token.NUMBER, toks[1].Kind)
	assert.Equal(t, 4.5, toks[1].Num)
}

func TestLexerTrailingDot(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "12.")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
	err := Diagnose(toks[0])
	require.NotNil(t, err)
	assert.Equal(t, diag.KindTrailingDot, err.Kind)
}

func TestLexerMultilineString(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "\"hello\nworld\"")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
	err := Diagnose(toks[0])
	require.NotNil(t, err)
	assert.Equal(t, diag.KindMultilineString, err.Kind)
}

func TestLexerUnrecognisedCharacter(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "@")
	require.Len(t, toks, 2)
	err := Diagnose(toks[0])
	require.NotNil(t, err)
	assert.Equal(t, diag.KindUnrecognised, err.Kind)
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "var foo fun while")
	require.Len(t, toks, 5)
	assert.Equal(t, token.VAR, toks[0].Kind)
	assert.Equal(t, token.IDENTIFIER, toks[1].Kind)
	assert.Equal(t, "foo", toks[1].Lexeme)
	assert.Equal(t, token.FUN, toks[2].Kind)
	assert.Equal(t, token.WHILE, toks[3].Kind)
}

func TestLexerLineComment(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "1 // a comment\n2")
	require.Len(t, toks, 3)
	assert.Equal(t, float64(1), toks[0].Num)
	assert.Equal(t, float64(2), toks[1].Num)
}

func TestLexerFeedIsIncremental(t *testing.T) {
	t.Parallel()
	l := New("")
	l.Feed("1 + ")
	first := l.Next()
	assert.Equal(t, token.NUMBER, first.Kind)
	second := l.Next()
	assert.Equal(t, token.PLUS, second.Kind)

	l.Feed("2")
	third := l.Next()
	assert.Equal(t, token.NUMBER, third.Kind)
	assert.Equal(t, float64(2), third.Num)
}

func TestLexerStringLiteralVerbatim(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, `"print"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "print", toks[0].Lexeme)
}

func TestLexerLocationTracksLineAndColumn(t *testing.T) {
	t.Parallel()
	toks := scanAll(t, "1\n  2")
	require.Len(t, toks, 3)
	assert.Equal(t, 0, toks[0].Loc.Line)
	assert.Equal(t, 1, toks[1].Loc.Line)
}
