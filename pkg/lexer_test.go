package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		fail   bool
		expect []Token
	}{
		{
			name: "symbols and keywords",
			data: "var x = 1;",
			expect: []Token{
				{Typ: TokenVar, Lexeme: "var"},
				{Typ: TokenIdentifier, Lexeme: "x"},
				{Typ: TokenEqual, Lexeme: "="},
				{Typ: TokenNumber, Lexeme: "1"},
				{Typ: TokenSemicolon, Lexeme: ";"},
				{Typ: TokenEOF},
			},
		},
		{
			name: "two-char operators",
			data: "a <= b >= c != d == e",
			expect: []Token{
				{Typ: TokenIdentifier, Lexeme: "a"},
				{Typ: TokenLessEqual, Lexeme: "<="},
				{Typ: TokenIdentifier, Lexeme: "b"},
				{Typ: TokenGreaterEqual, Lexeme: ">="},
				{Typ: TokenIdentifier, Lexeme: "c"},
				{Typ: TokenBangEqual, Lexeme: "!="},
				{Typ: TokenIdentifier, Lexeme: "d"},
				{Typ: TokenEqualEqual, Lexeme: "=="},
				{Typ: TokenIdentifier, Lexeme: "e"},
				{Typ: TokenEOF},
			},
		},
		{
			name: "line comment is skipped",
			data: "1 // a comment\n2",
			expect: []Token{
				{Typ: TokenNumber, Lexeme: "1"},
				{Typ: TokenNumber, Lexeme: "2"},
				{Typ: TokenEOF},
			},
		},
		{
			name: "float literal",
			data: "3.14",
			expect: []Token{
				{Typ: TokenNumber, Lexeme: "3.14"},
				{Typ: TokenEOF},
			},
		},
		{
			name: "string literal",
			data: `"hello world"`,
			expect: []Token{
				{Typ: TokenString, Lexeme: "hello world"},
				{Typ: TokenEOF},
			},
		},
		{
			name: "unterminated string is an error",
			data: `"oops`,
			fail: true,
			expect: []Token{
				{Typ: TokenEOF},
			},
		},
		{
			name: "unknown symbol is an error but lexing continues",
			data: "1 @ 2",
			fail: true,
			expect: []Token{
				{Typ: TokenNumber, Lexeme: "1"},
				{Typ: TokenNumber, Lexeme: "2"},
				{Typ: TokenEOF},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := NewLexer(c.data, "test").Run()

			if c.fail {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if assert.Len(t, toks, len(c.expect)) {
				for i, want := range c.expect {
					assert.Equal(t, want.Typ, toks[i].Typ)
					assert.Equal(t, want.Lexeme, toks[i].Lexeme)
				}
			}
		})
	}
}

func TestLexerLocations(t *testing.T) {
	toks, err := NewLexer("var\nx = 1;", "test").Run()
	assert.NoError(t, err)

	assert.Equal(t, Location{Line: 1, Col: 1}, toks[0].Loc) // var
	assert.Equal(t, Location{Line: 2, Col: 1}, toks[1].Loc) // x
}
