package edn

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes EDN input
type Lexer struct {
	input   string
	pos     int
	line    int
	col     int
	tokens  []Token
	current int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

var delimiters = map[byte]TokenType{
	'(': TokenLeftParen,
	')': TokenRightParen,
	'[': TokenLeftBracket,
	']': TokenRightBracket,
	'{': TokenLeftBrace,
	'}': TokenRightBrace,
}

// Lex tokenizes the entire input
func (l *Lexer) Lex() error {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		startLine := l.line
		startCol := l.col

		ch := l.peek()
		if typ, ok := delimiters[ch]; ok {
			l.advance()
			l.tokens = append(l.tokens, Token{Type: typ, Line: startLine, Col: startCol})
			continue
		}
		if ch == '"' {
			str, err := l.readString()
			if err != nil {
				return err
			}
			l.tokens = append(l.tokens, Token{
				Type:  TokenString,
				Value: str,
				Line:  startLine,
				Col:   startCol,
			})
			continue
		}

		atom := l.readAtom()
		if atom == "" {
			return fmt.Errorf("unexpected character '%c' at %d:%d", ch, l.line, l.col)
		}
		l.tokens = append(l.tokens, Token{
			Type:  TokenAtom,
			Value: atom,
			Line:  startLine,
			Col:   startCol,
		})
	}

	l.tokens = append(l.tokens, Token{
		Type: TokenEOF,
		Line: l.line,
		Col:  l.col,
	})

	return nil
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	token := l.tokens[l.current]
	l.current++
	return token
}

// PeekToken returns the next token without advancing
func (l *Lexer) PeekToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	return l.tokens[l.current]
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// advance moves one byte; columns count runes
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	switch b := l.input[l.pos]; {
	case b == '\n':
		l.line++
		l.col = 1
	case b&0xC0 != 0x80:
		l.col++
	}
	l.pos++
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if unicode.IsSpace(rune(ch)) || ch == ',' {
			l.advance()
		} else if ch == ';' {
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		} else {
			break
		}
	}
}

// readString reads a string literal
func (l *Lexer) readString() (string, error) {
	var result strings.Builder
	l.advance() // opening quote

	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '"' {
			l.advance()
			return result.String(), nil
		}
		if ch != '\\' {
			result.WriteByte(ch)
			l.advance()
			continue
		}
		l.advance()
		if l.pos >= len(l.input) {
			return "", fmt.Errorf("unexpected end of input in string at %d:%d", l.line, l.col)
		}
		escaped := l.peek()
		switch escaped {
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case 'n':
			result.WriteByte('\n')
		case '\\':
			result.WriteByte('\\')
		case '"':
			result.WriteByte('"')
		case 'u':
			r, err := l.readUnicodeEscape()
			if err != nil {
				return "", err
			}
			result.WriteRune(r)
			continue
		default:
			return "", fmt.Errorf("invalid escape sequence '\\%c' at %d:%d", escaped, l.line, l.col)
		}
		l.advance()
	}

	return "", fmt.Errorf("unterminated string at %d:%d", l.line, l.col)
}

// readUnicodeEscape reads the XXXX of \uXXXX with the lexer on the u
func (l *Lexer) readUnicodeEscape() (rune, error) {
	if l.pos+5 > len(l.input) {
		return 0, fmt.Errorf("short unicode escape at %d:%d", l.line, l.col)
	}
	n, err := strconv.ParseUint(l.input[l.pos+1:l.pos+5], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape at %d:%d", l.line, l.col)
	}
	for i := 0; i < 5; i++ {
		l.advance()
	}
	return rune(n), nil
}

// readAtom reads an atom (non-string, non-delimiter token)
func (l *Lexer) readAtom() string {
	start := l.pos

	if strings.HasPrefix(l.input[l.pos:], "#{") {
		l.advance()
		l.advance()
		return "#{"
	}

	// a character literal owns the rune after the backslash, even a delimiter
	if l.peek() == '\\' && l.pos+1 < len(l.input) {
		l.advance()
		_, size := utf8.DecodeRuneInString(l.input[l.pos:])
		for i := 0; i < size; i++ {
			l.advance()
		}
	}

	for l.pos < len(l.input) {
		ch := l.peek()
		if isDelimiter(ch) || unicode.IsSpace(rune(ch)) || ch == ',' {
			break
		}
		l.advance()
	}

	return l.input[start:l.pos]
}

func isDelimiter(ch byte) bool {
	_, ok := delimiters[ch]
	return ok || ch == '"' || ch == ';'
}
