package scanner_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loxwalk/internal/errs"
	"loxwalk/internal/scanner"
	"loxwalk/internal/token"
)

func scanAll(t *testing.T, source string) ([]token.Token, string) {
	t.Helper()
	var out bytes.Buffer
	sink := errs.New(&out)
	toks := scanner.New(source, sink).ScanTokens()
	return toks, out.String()
}

func TestSingleCharacterTokens(t *testing.T) {
	toks, errOut := scanAll(t, "(){};,+-*!===<=>=!=<>/.")
	require.Empty(t, errOut)

	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Semicolon, token.Comma, token.Plus, token.Minus, token.Star,
		token.BangEqual, token.EqualEqual, token.LessEqual, token.GreaterEqual,
		token.BangEqual, token.Less, token.Greater, token.Slash, token.Dot,
		token.EOF,
	}
	got := make([]token.Kind, len(toks))
	for i, tok := range toks {
		got[i] = tok.Kind
	}
	assert.Equal(t, want, got)
}

func TestNumberAndDotDisambiguation(t *testing.T) {
	// "3a.5" tokenizes as NUMBER(3) IDENTIFIER(a) DOT NUMBER(5): the
	// trailing dot is only consumed into a number when followed by a
	// digit, per spec.md §4.1.
	toks, errOut := scanAll(t, "3a.5")
	require.Empty(t, errOut)
	require.Len(t, toks, 5) // 3, a, ., 5, EOF

	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, "3", toks[0].Lexeme)
	assert.Equal(t, token.Identifier, toks[1].Kind)
	assert.Equal(t, "a", toks[1].Lexeme)
	assert.Equal(t, token.Dot, toks[2].Kind)
	assert.Equal(t, token.Number, toks[3].Kind)
	assert.Equal(t, "5", toks[3].Lexeme)
}

func TestTrailingDotNotConsumed(t *testing.T) {
	toks, _ := scanAll(t, "123.")
	require.Len(t, toks, 3) // 123, ., EOF
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, "123", toks[0].Lexeme)
	assert.Equal(t, token.Dot, toks[1].Kind)
}

func TestLeadingDotIsNotANumber(t *testing.T) {
	toks, _ := scanAll(t, ".456")
	require.Len(t, toks, 3) // ., 456, EOF
	assert.Equal(t, token.Dot, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks, _ := scanAll(t, "and class else false for fun if nil or print return super this true var while myvar")
	wantKinds := []token.Kind{
		token.And, token.Class, token.Else, token.False, token.For, token.Fun,
		token.If, token.Nil, token.Or, token.Print, token.Return, token.Super,
		token.This, token.True, token.Var, token.While, token.Identifier, token.EOF,
	}
	got := make([]token.Kind, len(toks))
	for i, tok := range toks {
		got[i] = tok.Kind
	}
	assert.Equal(t, wantKinds, got)
}

func TestStringLiteral(t *testing.T) {
	toks, errOut := scanAll(t, `"string"`)
	require.Empty(t, errOut)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.True(t, toks[0].Literal.IsStr)
	assert.Equal(t, "string", toks[0].Literal.Str)
}

func TestStringLiteralSpansNewlines(t *testing.T) {
	toks, errOut := scanAll(t, "\"a\nb\" 1")
	require.Empty(t, errOut)
	require.Len(t, toks, 3)
	assert.Equal(t, "a\nb", toks[0].Literal.Str)
	// the NUMBER token after the string must see the advanced line count
	assert.Equal(t, 2, toks[1].Line)
}

func TestUnterminatedString(t *testing.T) {
	toks, errOut := scanAll(t, `"never closed`)
	assert.Contains(t, errOut, "Unterminated string.")
	// no STRING token is emitted for it
	require.Len(t, toks, 1) // just EOF
	assert.Equal(t, token.EOF, toks[0].Kind)
}

func TestUnexpectedCharacterContinuesScanning(t *testing.T) {
	toks, errOut := scanAll(t, "1 @ 2")
	assert.Contains(t, errOut, "Unexpected character: @")
	require.Len(t, toks, 3) // 1, 2, EOF
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
}

func TestLineCommentDiscarded(t *testing.T) {
	toks, errOut := scanAll(t, "1 // a comment\n2")
	require.Empty(t, errOut)
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
}

func TestFinalTokenIsAlwaysEOF(t *testing.T) {
	for _, src := range []string{"", "1", "var a = 1;", "// just a comment"} {
		toks, _ := scanAll(t, src)
		require.NotEmpty(t, toks)
		assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	}
}
