package edn

import "fmt"

// TokenType represents the type of EDN token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenString
	TokenAtom
	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket
	TokenLeftBrace
	TokenRightBrace
)

var tokenNames = [...]string{
	TokenEOF:          "EOF",
	TokenString:       "String",
	TokenAtom:         "Atom",
	TokenLeftParen:    "LeftParen",
	TokenRightParen:   "RightParen",
	TokenLeftBracket:  "LeftBracket",
	TokenRightBracket: "RightBracket",
	TokenLeftBrace:    "LeftBrace",
	TokenRightBrace:   "RightBrace",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "Unknown"
}

// Token represents a lexical token in EDN
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenString:
		return fmt.Sprintf("String[%d:%d]:%q", t.Line, t.Col, t.Value)
	case TokenAtom:
		return fmt.Sprintf("Atom[%d:%d]:%s", t.Line, t.Col, t.Value)
	}
	return fmt.Sprintf("%s[%d:%d]", t.Type, t.Line, t.Col)
}
