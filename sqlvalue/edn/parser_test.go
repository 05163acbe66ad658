package edn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserAtoms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Node
	}{
		{"nil", "nil", Node{Type: NodeNil, Line: 1, Col: 1}},
		{"true", "true", Node{Type: NodeBool, Value: "true", Line: 1, Col: 1}},
		{"negative integer", "-42", Node{Type: NodeInt, Value: "-42", Line: 1, Col: 1}},
		{"big integer", "42N", Node{Type: NodeInt, Value: "42N", Line: 1, Col: 1}},
		{"float", "1.23e-4", Node{Type: NodeFloat, Value: "1.23e-4", Line: 1, Col: 1}},
		{"decimal", "1.5M", Node{Type: NodeFloat, Value: "1.5M", Line: 1, Col: 1}},
		{"nan", "##NaN", Node{Type: NodeFloat, Value: "##NaN", Line: 1, Col: 1}},
		{"string", `"hi"`, Node{Type: NodeString, Value: "hi", Line: 1, Col: 1}},
		{"char", `\a`, Node{Type: NodeChar, Value: "a", Line: 1, Col: 1}},
		{"unicode char", `\é`, Node{Type: NodeChar, Value: "é", Line: 1, Col: 1}},
		{"named char", `\newline`, Node{Type: NodeChar, Value: "\n", Line: 1, Col: 1}},
		{"escaped char", `\u0007`, Node{Type: NodeChar, Value: "\a", Line: 1, Col: 1}},
		{"symbol", "foo-bar*", Node{Type: NodeSymbol, Value: "foo-bar*", Line: 1, Col: 1}},
		{"keyword", ":db/id", Node{Type: NodeKeyword, Value: ":db/id", Line: 1, Col: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestParserCollections(t *testing.T) {
	node, err := Parse(`{:a [1 #_2 3] "b" #{x} :c (nil)}`)
	require.NoError(t, err)
	require.Equal(t, NodeMap, node.Type)
	require.Len(t, node.Nodes, 6)

	vec := node.Nodes[1]
	assert.Equal(t, NodeVector, vec.Type)
	require.Len(t, vec.Nodes, 2)
	assert.Equal(t, "3", vec.Nodes[1].Value)

	assert.Equal(t, NodeSet, node.Nodes[3].Type)
	assert.Equal(t, NodeList, node.Nodes[5].Type)
	assert.Equal(t, `{:a [1 3] "b" #{x} :c (nil)}`, node.String())
}

func TestParserTags(t *testing.T) {
	valid := []string{
		`#inst "2024-01-02T03:04:05Z"`,
		`#uuid "0190d6a4-5f4c-7a3e-9b1d-2c3e4f5a6b7c"`,
		`#sql/bytes "aGk="`,
		`#sql/some 1`,
		`#sql/unit nil`,
		`#sql/unit-struct "Empty"`,
		`#sql/unit-variant ["Color" "Red"]`,
		`#sql/newtype ["Meters" 5]`,
		`#sql/variant ["Shape" "Circle" 1.0]`,
		`#sql/tuple [1 2]`,
		`#sql/tuple-struct ["Pair" [1 2]]`,
		`#sql/tuple-variant ["Op" "Add" [1 2]]`,
		`#sql/struct ["Point" {"x" 1 :y 2}]`,
		`#sql/struct-variant ["Shape" "Rect" {"w" 1 "h" 2}]`,
		`#_ ignored #sql/some #_ skipped 1`,
	}
	for _, input := range valid {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.NoError(t, err)
		})
	}

	invalid := map[string]string{
		`#inst "yesterday"`:               "#inst",
		`#uuid "nope"`:                    "#uuid",
		`#sql/bytes "!!"`:                 "#sql/bytes",
		`#sql/unit 1`:                     "expects nil",
		`#sql/unit-variant ["Color"]`:     "expects a vector of 2 elements",
		`#sql/newtype [1 2]`:              "element 0 must be a string, got int",
		`#sql/struct ["P" {1 2}]`:         "field names must be strings or keywords",
		`#sql/tuple-struct ["P" (1 2)]`:   "element 1 must be a vector, got list",
		`#sql/what 1`:                     "unknown tag #sql/what",
		`#sql/some`:                       "tag #sql/some has no value",
		`#sql/struct-variant ["S" "V" 1]`: "element 2 must be a map, got int",
	}
	for input, msg := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), msg)
		})
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"empty", "", "unexpected EOF"},
		{"unterminated vector", "[1 2", "unterminated vector starting at 1:1"},
		{"odd map", "{:a}", "map must have even number of elements"},
		{"stray close", "]", "unexpected token RightBracket"},
		{"bad symbol", "a@b", "invalid character '@'"},
		{"bad char", `\bogus`, "invalid character literal"},
		{"empty keyword", ":", "empty keyword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestParserMaxDepth(t *testing.T) {
	deep := strings.Repeat("[", 10) + strings.Repeat("]", 10)

	_, err := ParseWithOptions(deep, ParseOptions{MaxDepth: 10})
	require.NoError(t, err)

	_, err = ParseWithOptions(deep, ParseOptions{MaxDepth: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting exceeds 9 levels at 1:10")

	tags := strings.Repeat("#sql/some ", 4) + "1"
	_, err = ParseWithOptions(tags, ParseOptions{MaxDepth: 3})
	assert.Error(t, err)
}

func TestParseAll(t *testing.T) {
	l := NewLexer(`1 #_2 "three" [4]`)
	require.NoError(t, l.Lex())
	nodes, err := NewParser(l, ParseOptions{}).ParseAll()
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, NodeInt, nodes[0].Type)
	assert.Equal(t, NodeString, nodes[1].Type)
	assert.Equal(t, NodeVector, nodes[2].Type)
}
