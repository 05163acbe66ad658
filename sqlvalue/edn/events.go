package edn

import (
	"encoding/base64"
	"math/big"
	"strconv"
	"strings"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// Tags that carry serialization events a plain EDN value cannot express.
const (
	tagInst          = "inst"
	tagUUID          = "uuid"
	tagBytes         = "sql/bytes"
	tagSome          = "sql/some"
	tagUnit          = "sql/unit"
	tagUnitStruct    = "sql/unit-struct"
	tagUnitVariant   = "sql/unit-variant"
	tagNewtype       = "sql/newtype"
	tagVariant       = "sql/variant"
	tagTuple         = "sql/tuple"
	tagTupleStruct   = "sql/tuple-struct"
	tagTupleVariant  = "sql/tuple-variant"
	tagStruct        = "sql/struct"
	tagStructVariant = "sql/struct-variant"
)

// MarshalEvents replays the node as serialization events:
//
//	nil                       none
//	true, false               bool
//	42                        i64, or i128/u128 when out of range or suffixed N
//	1.5, ##NaN                f64
//	1.5M, 42M                 Number::Decimal
//	"s", sym, :kw             str (keywords drop the colon)
//	\c                        char
//	[..], (..), #{..}         seq
//	{k v ..}                  map
//	#inst "..."               Datetime newtype over the text
//	#uuid "..."               Uuid newtype over the text
//	#sql/bytes "base64"       bytes
//
// and the remaining #sql/ tags name the event they carry.
func (n Node) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	switch n.Type {
	case NodeNil:
		return s.SerializeNone()
	case NodeBool:
		return s.SerializeBool(n.Value == "true")
	case NodeInt:
		return marshalInt(n.Value, s)
	case NodeFloat:
		if strings.HasSuffix(n.Value, "M") {
			return marshalDecimal(strings.TrimSuffix(n.Value, "M"), s)
		}
		f, err := parseFloat(n.Value)
		if err != nil {
			return ser.Ok{}, ser.Custom("invalid float %s at %d:%d", n.Value, n.Line, n.Col)
		}
		return s.SerializeFloat64(f)
	case NodeString, NodeSymbol:
		return s.SerializeStr(n.Value)
	case NodeKeyword:
		return s.SerializeStr(strings.TrimPrefix(n.Value, ":"))
	case NodeChar:
		r := []rune(n.Value)
		if len(r) != 1 {
			return ser.Ok{}, ser.Custom("invalid char at %d:%d", n.Line, n.Col)
		}
		return s.SerializeChar(r[0])
	case NodeList, NodeVector, NodeSet:
		seq, err := s.SerializeSeq(len(n.Nodes))
		if err != nil {
			return ser.Ok{}, err
		}
		return elements(seq, n.Nodes)
	case NodeMap:
		m, err := s.SerializeMap(len(n.Nodes) / 2)
		if err != nil {
			return ser.Ok{}, err
		}
		for i := 0; i+1 < len(n.Nodes); i += 2 {
			if err := m.SerializeKey(n.Nodes[i]); err != nil {
				return ser.Ok{}, err
			}
			if err := m.SerializeValue(n.Nodes[i+1]); err != nil {
				return ser.Ok{}, err
			}
		}
		return m.End()
	case NodeTagged:
		return n.marshalTagged(s)
	}
	return ser.Ok{}, ser.Custom("unknown node type %d at %d:%d", n.Type, n.Line, n.Col)
}

func marshalInt(text string, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	switch {
	case strings.HasSuffix(text, "M"):
		return marshalDecimal(strings.TrimSuffix(text, "M"), s)
	case strings.HasSuffix(text, "N"):
		return marshalBig(strings.TrimSuffix(text, "N"), s)
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return s.SerializeInt64(i)
	}
	return marshalBig(text, s)
}

// marshalBig emits an integer as i128, or u128 above the i128 range
func marshalBig(text string, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	b, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return ser.Ok{}, ser.Custom("invalid integer %s", text)
	}
	if v, ok := ser.Int128FromBig(b); ok {
		return s.SerializeInt128(v)
	}
	if v, ok := ser.Uint128FromBig(b); ok {
		return s.SerializeUint128(v)
	}
	return ser.Ok{}, &ser.RangeError{Literal: strings.TrimPrefix(text, "+"), Target: "u128"}
}

func marshalDecimal(text string, s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeVariant(sqlvalue.TokenNumber, uint32(sqlvalue.NumberDecimal), sqlvalue.NumberDecimal.String(), text)
}

func elements(seq ser.SeqSerializer[ser.Ok], nodes []Node) (ser.Ok, error) {
	for _, e := range nodes {
		if err := seq.SerializeElement(e); err != nil {
			return ser.Ok{}, err
		}
	}
	return seq.End()
}

func (n Node) marshalTagged(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	if n.Tagged == nil {
		return ser.Ok{}, ser.Custom("tag #%s without a value at %d:%d", n.Tag, n.Line, n.Col)
	}
	if err := checkTagged(n.Tag, n.Tagged); err != nil {
		return ser.Ok{}, ser.Custom("%v at %d:%d", err, n.Line, n.Col)
	}
	inner := *n.Tagged
	args := inner.Nodes
	switch n.Tag {
	case tagInst:
		return s.SerializeNewtypeStruct(sqlvalue.TokenDatetime, inner.Value)
	case tagUUID:
		return s.SerializeNewtypeStruct(sqlvalue.TokenUuid, inner.Value)
	case tagBytes:
		b, err := base64.StdEncoding.DecodeString(inner.Value)
		if err != nil {
			return ser.Ok{}, err
		}
		return s.SerializeBytes(b)
	case tagSome:
		return s.SerializeSome(inner)
	case tagUnit:
		return s.SerializeUnit()
	case tagUnitStruct:
		return s.SerializeUnitStruct(inner.Value)
	case tagUnitVariant:
		return s.SerializeUnitVariant(args[0].Value, 0, args[1].Value)
	case tagNewtype:
		return s.SerializeNewtypeStruct(args[0].Value, args[1])
	case tagVariant:
		return s.SerializeNewtypeVariant(args[0].Value, 0, args[1].Value, args[2])
	case tagTuple:
		seq, err := s.SerializeTuple(len(args))
		if err != nil {
			return ser.Ok{}, err
		}
		return elements(seq, args)
	case tagTupleStruct:
		seq, err := s.SerializeTupleStruct(args[0].Value, len(args[1].Nodes))
		if err != nil {
			return ser.Ok{}, err
		}
		return elements(seq, args[1].Nodes)
	case tagTupleVariant:
		fields := args[2].Nodes
		tv, err := s.SerializeTupleVariant(args[0].Value, 0, args[1].Value, len(fields))
		if err != nil {
			return ser.Ok{}, err
		}
		for _, f := range fields {
			if err := tv.SerializeField(f); err != nil {
				return ser.Ok{}, err
			}
		}
		return tv.End()
	case tagStruct:
		st, err := s.SerializeStruct(args[0].Value, len(args[1].Nodes)/2)
		if err != nil {
			return ser.Ok{}, err
		}
		return fields(st, args[1].Nodes)
	case tagStructVariant:
		st, err := s.SerializeStructVariant(args[0].Value, 0, args[1].Value, len(args[2].Nodes)/2)
		if err != nil {
			return ser.Ok{}, err
		}
		return fields(st, args[2].Nodes)
	}
	return ser.Ok{}, ser.Custom("unknown tag #%s at %d:%d", n.Tag, n.Line, n.Col)
}

func fields(st ser.StructSerializer[ser.Ok], kvs []Node) (ser.Ok, error) {
	for i := 0; i+1 < len(kvs); i += 2 {
		name := kvs[i].Value
		if kvs[i].Type == NodeKeyword {
			name = name[1:]
		}
		if err := st.SerializeField(name, kvs[i+1]); err != nil {
			return ser.Ok{}, err
		}
	}
	return st.End()
}
