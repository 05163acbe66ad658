package edn

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// NodeType represents the type of EDN node
type NodeType int

const (
	NodeNil NodeType = iota
	NodeBool
	NodeInt
	NodeFloat
	NodeString
	NodeChar
	NodeSymbol
	NodeKeyword
	NodeList
	NodeVector
	NodeMap
	NodeSet
	NodeTagged
)

var nodeNames = [...]string{
	"nil", "bool", "int", "float", "string", "char", "symbol",
	"keyword", "list", "vector", "map", "set", "tagged",
}

func (t NodeType) String() string {
	if int(t) < len(nodeNames) {
		return nodeNames[t]
	}
	return "unknown"
}

// Node represents an EDN value.
//
// Atoms keep their literal text in Value, including numeric suffixes.
// Strings and chars hold the decoded text. Maps store keys and values
// alternately in Nodes.
type Node struct {
	Type   NodeType
	Line   int
	Col    int
	Value  string
	Nodes  []Node
	Tag    string
	Tagged *Node
}

var charNames = map[rune]string{
	'\n': "newline",
	'\r': "return",
	' ':  "space",
	'\t': "tab",
}

// String renders the node as EDN text that Parse reads back
func (n Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	switch n.Type {
	case NodeNil:
		b.WriteString("nil")
	case NodeString:
		writeString(b, n.Value)
	case NodeChar:
		writeChar(b, n.Value)
	case NodeList:
		writeNodes(b, "(", n.Nodes, ")")
	case NodeVector:
		writeNodes(b, "[", n.Nodes, "]")
	case NodeMap:
		writeNodes(b, "{", n.Nodes, "}")
	case NodeSet:
		writeNodes(b, "#{", n.Nodes, "}")
	case NodeTagged:
		b.WriteString("#" + n.Tag + " ")
		if n.Tagged == nil {
			b.WriteString("nil")
			return
		}
		n.Tagged.write(b)
	default:
		b.WriteString(n.Value)
	}
}

func writeNodes(b *strings.Builder, open string, nodes []Node, close string) {
	b.WriteString(open)
	for i, node := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		node.write(b)
	}
	b.WriteString(close)
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func writeChar(b *strings.Builder, s string) {
	r, _ := utf8.DecodeRuneInString(s)
	if name, ok := charNames[r]; ok {
		b.WriteString(`\` + name)
		return
	}
	if r < 0x20 || r == 0x7f {
		fmt.Fprintf(b, `\u%04x`, r)
		return
	}
	b.WriteByte('\\')
	b.WriteRune(r)
}

// AsString returns the string value of a string node
func (n Node) AsString() (string, error) {
	if n.Type != NodeString {
		return "", fmt.Errorf("node is not a string")
	}
	return n.Value, nil
}

// AsInt returns the int value of an int node
func (n Node) AsInt() (int64, error) {
	if n.Type != NodeInt {
		return 0, fmt.Errorf("node is not an int")
	}
	return strconv.ParseInt(strings.TrimRight(n.Value, "NM"), 10, 64)
}

// AsFloat returns the float value of a float node
func (n Node) AsFloat() (float64, error) {
	if n.Type != NodeFloat {
		return 0, fmt.Errorf("node is not a float")
	}
	return parseFloat(n.Value)
}

// AsBool returns the bool value of a bool node
func (n Node) AsBool() (bool, error) {
	if n.Type != NodeBool {
		return false, fmt.Errorf("node is not a bool")
	}
	return n.Value == "true", nil
}

// AsKeyword returns the keyword name without its colon
func (n Node) AsKeyword() (string, error) {
	if n.Type != NodeKeyword {
		return "", fmt.Errorf("node is not a keyword")
	}
	return n.Value[1:], nil
}

// IsNil returns true if the node is nil
func (n Node) IsNil() bool {
	return n.Type == NodeNil
}

// IsCollection returns true if the node is a collection type
func (n Node) IsCollection() bool {
	return n.Type == NodeList || n.Type == NodeVector || n.Type == NodeMap || n.Type == NodeSet
}

func parseFloat(s string) (float64, error) {
	switch s {
	case "##NaN":
		return strconv.ParseFloat("NaN", 64)
	case "##Inf":
		return strconv.ParseFloat("+Inf", 64)
	case "##-Inf":
		return strconv.ParseFloat("-Inf", 64)
	}
	return strconv.ParseFloat(s, 64)
}
