package edn

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// Marshal renders v as EDN text. Parsing the text and replaying the node
// with MarshalEvents yields the events v emitted, up to integer widths.
func Marshal(v any) (string, error) {
	n, err := Encode(v)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// Encode builds the node tree for v
func Encode(v any) (Node, error) {
	return ser.Serialize[Node](v, writer{})
}

// writer is a ser.Serializer producing EDN nodes
type writer struct{}

func (writer) SerializeBool(v bool) (Node, error)           { return atom(NodeBool, strconv.FormatBool(v)), nil }
func (w writer) SerializeInt8(v int8) (Node, error)         { return w.SerializeInt64(int64(v)) }
func (w writer) SerializeInt16(v int16) (Node, error)       { return w.SerializeInt64(int64(v)) }
func (w writer) SerializeInt32(v int32) (Node, error)       { return w.SerializeInt64(int64(v)) }
func (writer) SerializeInt64(v int64) (Node, error)         { return atom(NodeInt, strconv.FormatInt(v, 10)), nil }
func (writer) SerializeInt128(v ser.Int128) (Node, error)   { return atom(NodeInt, v.String()+"N"), nil }
func (w writer) SerializeUint8(v uint8) (Node, error)       { return w.SerializeUint64(uint64(v)) }
func (w writer) SerializeUint16(v uint16) (Node, error)     { return w.SerializeUint64(uint64(v)) }
func (w writer) SerializeUint32(v uint32) (Node, error)     { return w.SerializeUint64(uint64(v)) }
func (writer) SerializeUint64(v uint64) (Node, error)       { return atom(NodeInt, strconv.FormatUint(v, 10)), nil }
func (writer) SerializeUint128(v ser.Uint128) (Node, error) { return atom(NodeInt, v.String()+"N"), nil }
func (w writer) SerializeFloat32(v float32) (Node, error)   { return w.SerializeFloat64(float64(v)) }
func (writer) SerializeFloat64(v float64) (Node, error)     { return atom(NodeFloat, formatFloat(v)), nil }
func (writer) SerializeChar(v rune) (Node, error)           { return atom(NodeChar, string(v)), nil }
func (writer) SerializeStr(v string) (Node, error)          { return atom(NodeString, v), nil }
func (writer) SerializeNone() (Node, error)                 { return Node{Type: NodeNil}, nil }

func (writer) SerializeBytes(v []byte) (Node, error) {
	return tagged(tagBytes, atom(NodeString, base64.StdEncoding.EncodeToString(v))), nil
}

func (w writer) SerializeSome(v any) (Node, error) {
	inner, err := ser.Serialize[Node](v, w)
	if err != nil {
		return Node{}, err
	}
	return tagged(tagSome, inner), nil
}

func (writer) SerializeUnit() (Node, error) {
	return tagged(tagUnit, Node{Type: NodeNil}), nil
}

func (writer) SerializeUnitStruct(name string) (Node, error) {
	return tagged(tagUnitStruct, atom(NodeString, name)), nil
}

func (writer) SerializeUnitVariant(name string, _ uint32, variant string) (Node, error) {
	return tagged(tagUnitVariant, vector(atom(NodeString, name), atom(NodeString, variant))), nil
}

func (w writer) SerializeNewtypeStruct(name string, v any) (Node, error) {
	inner, err := ser.Serialize[Node](v, w)
	if err != nil {
		return Node{}, err
	}
	if inner.Type == NodeString {
		switch name {
		case sqlvalue.TokenDatetime:
			if _, err := time.Parse(time.RFC3339Nano, inner.Value); err == nil {
				return tagged(tagInst, inner), nil
			}
		case sqlvalue.TokenUuid:
			if _, err := uuid.Parse(inner.Value); err == nil {
				return tagged(tagUUID, inner), nil
			}
		}
	}
	return tagged(tagNewtype, vector(atom(NodeString, name), inner)), nil
}

func (w writer) SerializeNewtypeVariant(name string, _ uint32, variant string, v any) (Node, error) {
	inner, err := ser.Serialize[Node](v, w)
	if err != nil {
		return Node{}, err
	}
	return tagged(tagVariant, vector(atom(NodeString, name), atom(NodeString, variant), inner)), nil
}

func (writer) SerializeSeq(length int) (ser.SeqSerializer[Node], error) {
	return newNodeList(length, func(items []Node) Node { return vector(items...) }), nil
}

func (writer) SerializeTuple(length int) (ser.SeqSerializer[Node], error) {
	return newNodeList(length, func(items []Node) Node {
		return tagged(tagTuple, vector(items...))
	}), nil
}

func (writer) SerializeTupleStruct(name string, length int) (ser.SeqSerializer[Node], error) {
	return newNodeList(length, func(items []Node) Node {
		return tagged(tagTupleStruct, vector(atom(NodeString, name), vector(items...)))
	}), nil
}

func (writer) SerializeTupleVariant(name string, _ uint32, variant string, length int) (ser.TupleVariantSerializer[Node], error) {
	return newNodeList(length, func(items []Node) Node {
		return tagged(tagTupleVariant, vector(atom(NodeString, name), atom(NodeString, variant), vector(items...)))
	}), nil
}

func (writer) SerializeMap(length int) (ser.MapSerializer[Node], error) {
	return &nodeMap{nodes: make([]Node, 0, 2*max(length, 0))}, nil
}

func (writer) SerializeStruct(name string, length int) (ser.StructSerializer[Node], error) {
	return &nodeFields{
		nodes: make([]Node, 0, 2*max(length, 0)),
		finish: func(m Node) Node {
			return tagged(tagStruct, vector(atom(NodeString, name), m))
		},
	}, nil
}

func (writer) SerializeStructVariant(name string, _ uint32, variant string, length int) (ser.StructSerializer[Node], error) {
	return &nodeFields{
		nodes: make([]Node, 0, 2*max(length, 0)),
		finish: func(m Node) Node {
			return tagged(tagStructVariant, vector(atom(NodeString, name), atom(NodeString, variant), m))
		},
	}, nil
}

// nodeList collects the elements of sequences and positional fields
type nodeList struct {
	items  []Node
	finish func([]Node) Node
}

func newNodeList(length int, finish func([]Node) Node) *nodeList {
	return &nodeList{items: make([]Node, 0, max(length, 0)), finish: finish}
}

func (l *nodeList) SerializeElement(v any) error {
	n, err := ser.Serialize[Node](v, writer{})
	if err != nil {
		return err
	}
	l.items = append(l.items, n)
	return nil
}

func (l *nodeList) SerializeField(v any) error { return l.SerializeElement(v) }
func (l *nodeList) End() (Node, error)         { return l.finish(l.items), nil }

type nodeMap struct {
	nodes   []Node
	pending bool
}

func (m *nodeMap) SerializeKey(k any) error {
	if m.pending {
		return ser.Custom("map key has no value")
	}
	n, err := ser.Serialize[Node](k, writer{})
	if err != nil {
		return err
	}
	m.nodes = append(m.nodes, n)
	m.pending = true
	return nil
}

func (m *nodeMap) SerializeValue(v any) error {
	if !m.pending {
		return ser.Custom("map value serialized before its key")
	}
	n, err := ser.Serialize[Node](v, writer{})
	if err != nil {
		return err
	}
	m.nodes = append(m.nodes, n)
	m.pending = false
	return nil
}

func (m *nodeMap) End() (Node, error) {
	if m.pending {
		return Node{}, ser.Custom("map key has no value")
	}
	return Node{Type: NodeMap, Nodes: m.nodes}, nil
}

type nodeFields struct {
	nodes  []Node
	finish func(Node) Node
}

func (f *nodeFields) SerializeField(key string, v any) error {
	n, err := ser.Serialize[Node](v, writer{})
	if err != nil {
		return err
	}
	f.nodes = append(f.nodes, atom(NodeString, key), n)
	return nil
}

func (f *nodeFields) End() (Node, error) {
	return f.finish(Node{Type: NodeMap, Nodes: f.nodes}), nil
}

func atom(typ NodeType, value string) Node {
	return Node{Type: typ, Value: value}
}

func vector(items ...Node) Node {
	return Node{Type: NodeVector, Nodes: items}
}

func tagged(tag string, inner Node) Node {
	return Node{Type: NodeTagged, Tag: tag, Tagged: &inner}
}

// formatFloat writes floats so they never read back as integers
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "##NaN"
	case math.IsInf(f, 1):
		return "##Inf"
	case math.IsInf(f, -1):
		return "##-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
