package edn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty input",
			input: "",
			expected: []Token{
				{Type: TokenEOF, Line: 1, Col: 1},
			},
		},
		{
			name:  "whitespace and commas",
			input: " ,\n  \t",
			expected: []Token{
				{Type: TokenEOF, Line: 2, Col: 4},
			},
		},
		{
			name:  "atoms",
			input: "foo :bar 42",
			expected: []Token{
				{Type: TokenAtom, Value: "foo", Line: 1, Col: 1},
				{Type: TokenAtom, Value: ":bar", Line: 1, Col: 5},
				{Type: TokenAtom, Value: "42", Line: 1, Col: 10},
				{Type: TokenEOF, Line: 1, Col: 12},
			},
		},
		{
			name:  "string with escapes",
			input: `"a\n\"b\"é"`,
			expected: []Token{
				{Type: TokenString, Value: "a\n\"b\"é", Line: 1, Col: 1},
				{Type: TokenEOF, Line: 1, Col: 12},
			},
		},
		{
			name:  "columns count runes",
			input: `"⟨⟩" x`,
			expected: []Token{
				{Type: TokenString, Value: "⟨⟩", Line: 1, Col: 1},
				{Type: TokenAtom, Value: "x", Line: 1, Col: 6},
				{Type: TokenEOF, Line: 1, Col: 7},
			},
		},
		{
			name:  "delimiters",
			input: "([{}])",
			expected: []Token{
				{Type: TokenLeftParen, Line: 1, Col: 1},
				{Type: TokenLeftBracket, Line: 1, Col: 2},
				{Type: TokenLeftBrace, Line: 1, Col: 3},
				{Type: TokenRightBrace, Line: 1, Col: 4},
				{Type: TokenRightBracket, Line: 1, Col: 5},
				{Type: TokenRightParen, Line: 1, Col: 6},
				{Type: TokenEOF, Line: 1, Col: 7},
			},
		},
		{
			name:  "set opener",
			input: "#{1}",
			expected: []Token{
				{Type: TokenAtom, Value: "#{", Line: 1, Col: 1},
				{Type: TokenAtom, Value: "1", Line: 1, Col: 3},
				{Type: TokenRightBrace, Line: 1, Col: 4},
				{Type: TokenEOF, Line: 1, Col: 5},
			},
		},
		{
			name:  "char literal owns a delimiter",
			input: `[\( \]]`,
			expected: []Token{
				{Type: TokenLeftBracket, Line: 1, Col: 1},
				{Type: TokenAtom, Value: `\(`, Line: 1, Col: 2},
				{Type: TokenAtom, Value: `\]`, Line: 1, Col: 5},
				{Type: TokenRightBracket, Line: 1, Col: 7},
				{Type: TokenEOF, Line: 1, Col: 8},
			},
		},
		{
			name:  "comment",
			input: "a ; rest of line\nb",
			expected: []Token{
				{Type: TokenAtom, Value: "a", Line: 1, Col: 1},
				{Type: TokenAtom, Value: "b", Line: 2, Col: 1},
				{Type: TokenEOF, Line: 2, Col: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLexer(tt.input)
			require.NoError(t, l.Lex())
			var got []Token
			for {
				tok := l.NextToken()
				got = append(got, tok)
				if tok.Type == TokenEOF {
					break
				}
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"unterminated string", `"abc`, "unterminated string"},
		{"bad escape", `"\q"`, "invalid escape sequence"},
		{"short unicode escape", `"\u12"`, "short unicode escape"},
		{"bad unicode escape", `"\uzzzz"`, "invalid unicode escape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLexer(tt.input).Lex()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}
