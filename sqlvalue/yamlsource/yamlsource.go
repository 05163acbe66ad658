// Package yamlsource replays YAML and JSON documents as serialization
// events, so they convert into values like any other source.
//
// Core schema tags map onto primitives: !!null, !!bool, !!int, !!float,
// !!str, !!binary, !!timestamp, sequences and mappings. Local tags mark
// scalars that carry a domain value:
//
//	!uuid      a UUID
//	!duration  a duration such as 1h30m
//	!datetime  an RFC 3339 instant
//	!table     a table name
//	!param     a parameter name
//	!regex     a regular expression
//	!decimal   an exact decimal number
//	!thing     a record id such as person:tobie
package yamlsource

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// DefaultMaxDepth bounds nesting when Options leaves MaxDepth unset
const DefaultMaxDepth = 512

// When Options leaves MaxNodes unset, a stream may expand to ten nodes per
// input byte plus this allowance.
const nodeAllowance = 10000

// Options tunes parsing
type Options struct {
	// MaxDepth is the deepest collection nesting accepted, aliases included
	MaxDepth int
	// MaxNodes bounds the nodes of the whole stream with every alias
	// expanded
	MaxNodes int
}

// Document is one parsed YAML document
type Document struct {
	root *yaml.Node
}

type emitter func(n *yaml.Node, s ser.Serializer[ser.Ok]) (ser.Ok, error)

// local tags that turn their scalar into a domain value
var valueTags = map[string]emitter{
	"!uuid":     newtype(sqlvalue.TokenUuid),
	"!duration": newtype(sqlvalue.TokenDuration),
	"!datetime": newtype(sqlvalue.TokenDatetime),
	"!table":    newtype(sqlvalue.TokenTable),
	"!param":    newtype(sqlvalue.TokenParam),
	"!regex":    newtype(sqlvalue.TokenRegex),
	"!decimal":  marshalDecimal,
	"!thing":    marshalThing,
}

func newtype(token string) emitter {
	return func(n *yaml.Node, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
		return s.SerializeNewtypeStruct(token, n.Value)
	}
}

func marshalDecimal(n *yaml.Node, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeVariant(sqlvalue.TokenNumber, uint32(sqlvalue.NumberDecimal), sqlvalue.NumberDecimal.String(), n.Value)
}

func marshalThing(n *yaml.Node, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	t, err := sqlvalue.ParseThing(n.Value)
	if err != nil {
		return ser.Ok{}, lineError(n, err)
	}
	return t.MarshalEvents(s)
}

var integral = regexp.MustCompile(`^[-+]?[0-9]+$`)

// Parse reads the first document of data. Empty input is a document
// holding null.
func Parse(data []byte, opts Options) (*Document, error) {
	docs, err := parse(data, opts, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return &Document{}, nil
	}
	return docs[0], nil
}

// ParseAll reads every document of a multi-document stream
func ParseAll(data []byte, opts Options) ([]*Document, error) {
	return parse(data, opts, -1)
}

func parse(data []byte, opts Options, limit int) ([]*Document, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = 10*len(data) + nodeAllowance
	}
	c := &checker{maxDepth: opts.MaxDepth, maxNodes: opts.MaxNodes}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*Document
	for limit < 0 || len(docs) < limit {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("yaml: %w", err)
		}
		if err := c.check(&root, 1); err != nil {
			return nil, err
		}
		docs = append(docs, &Document{root: &root})
	}
	return docs, nil
}

// checker validates tags and bounds depth and expanded size before any
// event is emitted
type checker struct {
	maxDepth int
	maxNodes int
	nodes    int
}

// check visits n as emission would, following aliases. depth is the
// nesting level a collection at n would occupy.
func (c *checker) check(n *yaml.Node, depth int) error {
	c.nodes++
	if c.nodes > c.maxNodes {
		return fmt.Errorf("yaml: line %d: document expands to more than %d nodes", n.Line, c.maxNodes)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			if err := c.check(child, depth); err != nil {
				return err
			}
		}
		return nil
	case yaml.AliasNode:
		return c.check(n.Alias, depth)
	case yaml.SequenceNode, yaml.MappingNode:
		if depth > c.maxDepth {
			return fmt.Errorf("yaml: line %d: nesting exceeds %d levels", n.Line, c.maxDepth)
		}
		for _, child := range n.Content {
			if err := c.check(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	tag := n.ShortTag()
	if _, ok := valueTags[tag]; ok {
		return nil
	}
	switch tag {
	case "!!null", "!!bool", "!!int", "!!float", "!!str", "!!binary", "!!timestamp", "!!merge":
		return nil
	}
	return fmt.Errorf("yaml: line %d: unsupported tag %s", n.Line, n.Tag)
}

// MarshalEvents emits the document
func (d *Document) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	if d.root == nil {
		return s.SerializeNone()
	}
	return node{d.root}.MarshalEvents(s)
}

// node is a yaml.Node that emits itself
type node struct {
	n *yaml.Node
}

func (w node) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	n := w.n
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return s.SerializeNone()
		}
		return node{n.Content[0]}.MarshalEvents(s)
	case yaml.AliasNode:
		return node{n.Alias}.MarshalEvents(s)
	case yaml.SequenceNode:
		seq, err := s.SerializeSeq(len(n.Content))
		if err != nil {
			return ser.Ok{}, err
		}
		for _, c := range n.Content {
			if err := seq.SerializeElement(node{c}); err != nil {
				return ser.Ok{}, err
			}
		}
		return seq.End()
	case yaml.MappingNode:
		return marshalMapping(n, s)
	}
	return marshalScalar(n, s)
}

// pairs flattens a mapping, expanding << merge keys. Explicit keys win
// over merged ones.
func pairs(n *yaml.Node) []*yaml.Node {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].ShortTag() != "!!merge" {
			explicit[n.Content[i].Value] = true
		}
	}
	var out []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() != "!!merge" {
			out = append(out, k, v)
			continue
		}
		sources := []*yaml.Node{v}
		if resolve(v).Kind == yaml.SequenceNode {
			sources = resolve(v).Content
		}
		for _, src := range sources {
			src = resolve(src)
			if src.Kind != yaml.MappingNode {
				continue
			}
			merged := pairs(src)
			for j := 0; j+1 < len(merged); j += 2 {
				if !explicit[merged[j].Value] {
					out = append(out, merged[j], merged[j+1])
				}
			}
		}
	}
	return out
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func marshalMapping(n *yaml.Node, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	kvs := pairs(n)
	m, err := s.SerializeMap(len(kvs) / 2)
	if err != nil {
		return ser.Ok{}, err
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		if err := m.SerializeKey(node{kvs[i]}); err != nil {
			return ser.Ok{}, err
		}
		if err := m.SerializeValue(node{kvs[i+1]}); err != nil {
			return ser.Ok{}, err
		}
	}
	return m.End()
}

func marshalScalar(n *yaml.Node, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	tag := n.ShortTag()
	if emit, ok := valueTags[tag]; ok {
		return emit(n, s)
	}
	switch tag {
	case "!!null":
		return s.SerializeNone()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return ser.Ok{}, lineError(n, err)
		}
		return s.SerializeBool(b)
	case "!!int":
		return marshalInt(n, s)
	case "!!float":
		// plain integers too wide for 64 bits resolve as floats
		if n.Style&yaml.TaggedStyle == 0 && integral.MatchString(n.Value) {
			return marshalInt(n, s)
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return ser.Ok{}, lineError(n, err)
		}
		return s.SerializeFloat64(f)
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(n.Value)
		if err != nil {
			return ser.Ok{}, lineError(n, err)
		}
		return s.SerializeNewtypeStruct(sqlvalue.TokenBytes, b)
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return ser.Ok{}, lineError(n, err)
		}
		return s.SerializeNewtypeStruct(sqlvalue.TokenDatetime, t.UTC().Format(time.RFC3339Nano))
	}
	return s.SerializeStr(n.Value)
}

// marshalInt accepts any integer literal YAML does, widening to 128 bits
func marshalInt(n *yaml.Node, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	b, ok := new(big.Int).SetString(n.Value, 0)
	if !ok {
		var i int64
		if err := n.Decode(&i); err != nil {
			return ser.Ok{}, lineError(n, err)
		}
		return s.SerializeInt64(i)
	}
	if b.IsInt64() {
		return s.SerializeInt64(b.Int64())
	}
	if v, ok := ser.Int128FromBig(b); ok {
		return s.SerializeInt128(v)
	}
	if v, ok := ser.Uint128FromBig(b); ok {
		return s.SerializeUint128(v)
	}
	return ser.Ok{}, &ser.RangeError{Literal: n.Value, Target: "u128"}
}

func lineError(n *yaml.Node, err error) error {
	return fmt.Errorf("yaml: line %d: %w", n.Line, err)
}
