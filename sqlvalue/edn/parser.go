package edn

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	symbolChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.*+!-_?$%&=<>/#"

	intPattern   = regexp.MustCompile(`^[+-]?\d+[MN]?$`)
	floatPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d+)?M?$`)
)

// DefaultMaxDepth bounds nesting when ParseOptions leaves MaxDepth unset
const DefaultMaxDepth = 512

// ParseOptions tunes the parser
type ParseOptions struct {
	// MaxDepth is the deepest collection or tag nesting accepted
	MaxDepth int
}

// Parser parses EDN tokens into an AST
type Parser struct {
	lexer    *Lexer
	maxDepth int
	depth    int
}

// NewParser creates a new parser
func NewParser(lexer *Lexer, opts ParseOptions) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{lexer: lexer, maxDepth: opts.MaxDepth}
}

// Parse reads the first value of input with default options
func Parse(input string) (*Node, error) {
	return ParseWithOptions(input, ParseOptions{})
}

// ParseWithOptions reads the first value of input
func ParseWithOptions(input string, opts ParseOptions) (*Node, error) {
	lexer := NewLexer(input)
	if err := lexer.Lex(); err != nil {
		return nil, err
	}
	return NewParser(lexer, opts).Parse()
}

// ParseAllWithOptions reads every value of input
func ParseAllWithOptions(input string, opts ParseOptions) ([]Node, error) {
	lexer := NewLexer(input)
	if err := lexer.Lex(); err != nil {
		return nil, err
	}
	return NewParser(lexer, opts).ParseAll()
}

// Parse reads a single value, skipping discarded forms before it
func (p *Parser) Parse() (*Node, error) {
	for {
		node, err := p.readNode()
		if err != nil || node != nil {
			return node, err
		}
	}
}

// ParseAll reads all values until EOF
func (p *Parser) ParseAll() ([]Node, error) {
	var nodes []Node

	for p.lexer.PeekToken().Type != TokenEOF {
		node, err := p.readNode()
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		nodes = append(nodes, *node)
	}

	return nodes, nil
}

// readNode reads a single node; a nil node is a discarded form
func (p *Parser) readNode() (*Node, error) {
	token := p.lexer.PeekToken()

	switch token.Type {
	case TokenEOF:
		return nil, fmt.Errorf("unexpected EOF at %d:%d", token.Line, token.Col)
	case TokenString:
		p.lexer.NextToken()
		return &Node{Type: NodeString, Value: token.Value, Line: token.Line, Col: token.Col}, nil
	case TokenAtom:
		return p.readAtom()
	case TokenLeftParen:
		return p.readCollection(NodeList, p.lexer.NextToken(), TokenRightParen)
	case TokenLeftBracket:
		return p.readCollection(NodeVector, p.lexer.NextToken(), TokenRightBracket)
	case TokenLeftBrace:
		return p.readCollection(NodeMap, p.lexer.NextToken(), TokenRightBrace)
	}
	return nil, fmt.Errorf("unexpected token %v at %d:%d", token.Type, token.Line, token.Col)
}

func (p *Parser) enter(token Token) error {
	p.depth++
	if p.depth > p.maxDepth {
		return fmt.Errorf("nesting exceeds %d levels at %d:%d", p.maxDepth, token.Line, token.Col)
	}
	return nil
}

// readAtom reads and classifies an atom
func (p *Parser) readAtom() (*Node, error) {
	token := p.lexer.NextToken()
	value := token.Value
	leaf := func(typ NodeType) (*Node, error) {
		return &Node{Type: typ, Value: value, Line: token.Line, Col: token.Col}, nil
	}

	switch value {
	case "nil":
		return &Node{Type: NodeNil, Line: token.Line, Col: token.Col}, nil
	case "true", "false":
		return leaf(NodeBool)
	case "##NaN", "##Inf", "##-Inf":
		return leaf(NodeFloat)
	case "#_":
		if _, err := p.readNode(); err != nil {
			return nil, err
		}
		return nil, nil
	case "#{":
		return p.readCollection(NodeSet, token, TokenRightBrace)
	}

	switch {
	case strings.HasPrefix(value, "#_"):
		return nil, nil
	case strings.HasPrefix(value, "#"):
		return p.readTagged(token)
	case strings.HasPrefix(value, `\`):
		return readChar(token)
	case strings.HasPrefix(value, ":"):
		if err := validateKeyword(value); err != nil {
			return nil, fmt.Errorf("%v at %d:%d", err, token.Line, token.Col)
		}
		return leaf(NodeKeyword)
	case isValidInt(value):
		return leaf(NodeInt)
	case isValidFloat(value):
		return leaf(NodeFloat)
	}

	if err := validateSymbol(value); err != nil {
		return nil, fmt.Errorf("%v at %d:%d", err, token.Line, token.Col)
	}
	return leaf(NodeSymbol)
}

func readChar(token Token) (*Node, error) {
	char := func(r rune) (*Node, error) {
		return &Node{Type: NodeChar, Value: string(r), Line: token.Line, Col: token.Col}, nil
	}
	rest := token.Value[1:]
	if r, size := utf8.DecodeRuneInString(rest); size > 0 && size == len(rest) {
		return char(r)
	}
	for r, name := range charNames {
		if rest == name {
			return char(r)
		}
	}
	if len(rest) == 5 && rest[0] == 'u' {
		if n, err := strconv.ParseUint(rest[1:], 16, 32); err == nil {
			return char(rune(n))
		}
	}
	return nil, fmt.Errorf("invalid character literal %s at %d:%d", token.Value, token.Line, token.Col)
}

// readTagged reads the value following a #tag and checks it has the shape
// the tag requires
func (p *Parser) readTagged(token Token) (*Node, error) {
	tag := token.Value[1:]
	if err := p.enter(token); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	var tagged *Node
	for tagged == nil {
		if p.lexer.PeekToken().Type == TokenEOF {
			return nil, fmt.Errorf("tag #%s has no value at %d:%d", tag, token.Line, token.Col)
		}
		var err error
		if tagged, err = p.readNode(); err != nil {
			return nil, err
		}
	}
	if err := checkTagged(tag, tagged); err != nil {
		return nil, fmt.Errorf("%v at %d:%d", err, token.Line, token.Col)
	}
	return &Node{
		Type:   NodeTagged,
		Tag:    tag,
		Tagged: tagged,
		Line:   token.Line,
		Col:    token.Col,
	}, nil
}

// readCollection reads the elements of a list, vector, map or set after
// the already consumed opening token
func (p *Parser) readCollection(typ NodeType, start Token, closing TokenType) (*Node, error) {
	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	var nodes []Node
	for {
		token := p.lexer.PeekToken()
		if token.Type == closing {
			p.lexer.NextToken()
			break
		}
		if token.Type == TokenEOF {
			return nil, fmt.Errorf("unterminated %s starting at %d:%d", typ, start.Line, start.Col)
		}

		node, err := p.readNode()
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, *node)
		}
	}

	if typ == NodeMap && len(nodes)%2 != 0 {
		return nil, fmt.Errorf("map must have even number of elements at %d:%d", start.Line, start.Col)
	}

	return &Node{
		Type:  typ,
		Nodes: nodes,
		Line:  start.Line,
		Col:   start.Col,
	}, nil
}

// anyNode matches every node type in a tag shape
const anyNode NodeType = -1

// eventShapes lists, for each event tag carried in a vector, the type of
// every element
var eventShapes = map[string][]NodeType{
	tagUnitVariant:   {NodeString, NodeString},
	tagNewtype:       {NodeString, anyNode},
	tagVariant:       {NodeString, NodeString, anyNode},
	tagTupleStruct:   {NodeString, NodeVector},
	tagTupleVariant:  {NodeString, NodeString, NodeVector},
	tagStruct:        {NodeString, NodeMap},
	tagStructVariant: {NodeString, NodeString, NodeMap},
}

func checkTagged(tag string, n *Node) error {
	if shape, ok := eventShapes[tag]; ok {
		if n.Type != NodeVector || len(n.Nodes) != len(shape) {
			return fmt.Errorf("#%s expects a vector of %d elements", tag, len(shape))
		}
		for i, want := range shape {
			if want != anyNode && n.Nodes[i].Type != want {
				return fmt.Errorf("#%s element %d must be a %s, got %s", tag, i, want, n.Nodes[i].Type)
			}
		}
		if tag == tagStruct || tag == tagStructVariant {
			return checkFieldNames(tag, n.Nodes[len(n.Nodes)-1])
		}
		return nil
	}

	switch tag {
	case tagSome:
		return nil
	case tagUnit:
		if n.Type != NodeNil {
			return fmt.Errorf("#%s expects nil", tag)
		}
		return nil
	case tagTuple:
		if n.Type != NodeVector {
			return fmt.Errorf("#%s expects a vector", tag)
		}
		return nil
	case tagUnitStruct, tagBytes, tagInst, tagUUID:
		if n.Type != NodeString {
			return fmt.Errorf("#%s expects a string", tag)
		}
	default:
		return fmt.Errorf("unknown tag #%s", tag)
	}

	var err error
	switch tag {
	case tagBytes:
		_, err = base64.StdEncoding.DecodeString(n.Value)
	case tagInst:
		_, err = time.Parse(time.RFC3339Nano, n.Value)
	case tagUUID:
		_, err = uuid.Parse(n.Value)
	}
	if err != nil {
		return fmt.Errorf("#%s: %w", tag, err)
	}
	return nil
}

func checkFieldNames(tag string, m Node) error {
	for i := 0; i < len(m.Nodes); i += 2 {
		if k := m.Nodes[i].Type; k != NodeString && k != NodeKeyword {
			return fmt.Errorf("#%s field names must be strings or keywords, got %s", tag, k)
		}
	}
	return nil
}

func validateSymbol(s string) error {
	if s == "" {
		return fmt.Errorf("empty symbol")
	}

	if unicode.IsDigit(rune(s[0])) {
		return fmt.Errorf("symbol cannot start with digit: %s", s)
	}

	for _, ch := range strings.ToUpper(s) {
		if !strings.ContainsRune(symbolChars, ch) {
			return fmt.Errorf("invalid character '%c' in symbol: %s", ch, s)
		}
	}

	return nil
}

func validateKeyword(s string) error {
	if len(s) == 1 {
		return fmt.Errorf("empty keyword")
	}
	return validateSymbol(s[1:])
}

func isValidInt(s string) bool {
	return intPattern.MatchString(s)
}

func isValidFloat(s string) bool {
	return !isValidInt(s) && floatPattern.MatchString(s)
}
