/*
File    : yqlang/lexer/lexer_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type tokenizeCase struct {
	Input    string
	Expected []Token
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func expectedKinds(toks []Token) []TokenKind { return kinds(toks) }

func TestTokenize_OperatorsAndLiterals(t *testing.T) {
	cases := []tokenizeCase{
		{
			Input: `1 + 2 * 3`,
			Expected: []Token{
				{Kind: IntLit, Lexeme: "1"},
				{Kind: Plus, Lexeme: "+"},
				{Kind: IntLit, Lexeme: "2"},
				{Kind: Star, Lexeme: "*"},
				{Kind: IntLit, Lexeme: "3"},
			},
		},
		{
			Input: `a += 1; b -= 2`,
			Expected: []Token{
				{Kind: Ident, Lexeme: "a"},
				{Kind: PlusAssign, Lexeme: "+="},
				{Kind: IntLit, Lexeme: "1"},
				{Kind: LineBreak, Lexeme: ";"},
				{Kind: Ident, Lexeme: "b"},
				{Kind: MinusAssign, Lexeme: "-="},
				{Kind: IntLit, Lexeme: "2"},
			},
		},
		{
			Input: `x <= y && z >= 1 || !done`,
			Expected: []Token{
				{Kind: Ident, Lexeme: "x"},
				{Kind: LessEq, Lexeme: "<="},
				{Kind: Ident, Lexeme: "y"},
				{Kind: AndAnd, Lexeme: "&&"},
				{Kind: Ident, Lexeme: "z"},
				{Kind: GtrEq, Lexeme: ">="},
				{Kind: IntLit, Lexeme: "1"},
				{Kind: OrOr, Lexeme: "||"},
				{Kind: Bang, Lexeme: "!"},
				{Kind: Ident, Lexeme: "done"},
			},
		},
	}

	for _, c := range cases {
		toks, err := Tokenize(c.Input)
		require.NoError(t, err)
		require.Equal(t, expectedKinds(c.Expected), kinds(toks), c.Input)
		for i, exp := range c.Expected {
			require.Equal(t, exp.Lexeme, toks[i].Lexeme, c.Input)
		}
	}
}

func TestTokenize_Keywords(t *testing.T) {
	toks, err := Tokenize(`if else func return while continue break for in init say nudge picsave picsend true false null`)
	require.NoError(t, err)
	require.Equal(t, []TokenKind{
		KwIf, KwElse, KwFunc, KwReturn, KwWhile, KwContinue, KwBreak, KwFor,
		KwIn, KwInit, KwSay, KwNudge, KwPicsave, KwPicsend, KwTrue, KwFalse, KwNull,
	}, kinds(toks))
}

func TestTokenize_Strings(t *testing.T) {
	toks, err := Tokenize(`"a\nb" 'c\td' r"no\nescape"`)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	require.Equal(t, "a\nb", toks[0].Lexeme)
	require.Equal(t, "c\td", toks[1].Lexeme)
	require.Equal(t, `no\nescape`, toks[2].Lexeme)
}

func TestTokenize_UnterminatedStringIsLexError(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenize_ShorthandClosureParams(t *testing.T) {
	toks, err := Tokenize(`$0 * $1 + $`)
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Ident, Star, Ident, Plus, Ident}, kinds(toks))
	require.Equal(t, "$0", toks[0].Lexeme)
	require.Equal(t, "$1", toks[2].Lexeme)
	require.Equal(t, "$", toks[4].Lexeme)
}

func TestTokenize_HashTerminatesInput(t *testing.T) {
	toks, err := Tokenize("say 1\n# anything goes here, not code { } \" ")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{KwSay, IntLit, LineBreak}, kinds(toks))
}

func TestTokenize_LineCommentsAndLineBreaks(t *testing.T) {
	toks, err := Tokenize("a = 1 // comment\nb = 2")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Ident, Assign, IntLit, LineBreak, Ident, Assign, IntLit}, kinds(toks))
}
