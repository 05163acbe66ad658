// Package convert turns any serializable Go value into a sqlvalue.Value.
//
// The root Serializer maps primitive events onto the nearest Value case
// and maps composites onto Array and Object. Events carrying one of the
// reserved sqlvalue.Token names are reconstructed as the domain case they
// name, so every Value converts back to an equal Value whether it is
// serialized bare or through sqlvalue.AsVariant. Reserved names are only
// recognized at the call sites their case uses; anywhere else they are
// ordinary names.
package convert

import (
	"math"
	"math/big"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// ToValue converts v into a Value
func ToValue(v any) (sqlvalue.Value, error) {
	return ser.Serialize[sqlvalue.Value](v, Serializer{})
}

// Serializer produces a Value from any event
type Serializer struct{}

func (Serializer) SerializeBool(v bool) (sqlvalue.Value, error)       { return sqlvalue.Bool(v), nil }
func (Serializer) SerializeInt8(v int8) (sqlvalue.Value, error)       { return sqlvalue.Int(int64(v)), nil }
func (Serializer) SerializeInt16(v int16) (sqlvalue.Value, error)     { return sqlvalue.Int(int64(v)), nil }
func (Serializer) SerializeInt32(v int32) (sqlvalue.Value, error)     { return sqlvalue.Int(int64(v)), nil }
func (Serializer) SerializeInt64(v int64) (sqlvalue.Value, error)     { return sqlvalue.Int(v), nil }
func (Serializer) SerializeUint8(v uint8) (sqlvalue.Value, error)     { return sqlvalue.Int(int64(v)), nil }
func (Serializer) SerializeUint16(v uint16) (sqlvalue.Value, error)   { return sqlvalue.Int(int64(v)), nil }
func (Serializer) SerializeUint32(v uint32) (sqlvalue.Value, error)   { return sqlvalue.Int(int64(v)), nil }
func (Serializer) SerializeFloat32(v float32) (sqlvalue.Value, error) { return sqlvalue.Float(float64(v)), nil }
func (Serializer) SerializeFloat64(v float64) (sqlvalue.Value, error) { return sqlvalue.Float(v), nil }
func (Serializer) SerializeChar(v rune) (sqlvalue.Value, error)       { return sqlvalue.Strand(string(v)), nil }
func (Serializer) SerializeStr(v string) (sqlvalue.Value, error)      { return sqlvalue.Strand(v), nil }

// SerializeUint64 keeps values above the int64 range exact as decimals
func (Serializer) SerializeUint64(v uint64) (sqlvalue.Value, error) {
	if v <= math.MaxInt64 {
		return sqlvalue.Int(int64(v)), nil
	}
	return decimal(new(big.Int).SetUint64(v))
}

// SerializeInt128 always widens into the decimal leaf, even for values
// that would fit an Int
func (Serializer) SerializeInt128(v ser.Int128) (sqlvalue.Value, error) {
	return decimal(v.Big())
}

func (Serializer) SerializeUint128(v ser.Uint128) (sqlvalue.Value, error) {
	return decimal(v.Big())
}

func decimal(b *big.Int) (sqlvalue.Value, error) {
	n, err := sqlvalue.DecimalFromBig(b)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// SerializeBytes produces an Array of byte-valued integers. Only the
// TokenBytes wrapper yields Bytes.
func (Serializer) SerializeBytes(v []byte) (sqlvalue.Value, error) {
	out := make(sqlvalue.Array, len(v))
	for i, b := range v {
		out[i] = sqlvalue.Int(int64(b))
	}
	return out, nil
}

func (Serializer) SerializeNone() (sqlvalue.Value, error)             { return sqlvalue.None{}, nil }
func (Serializer) SerializeUnit() (sqlvalue.Value, error)             { return sqlvalue.None{}, nil }
func (Serializer) SerializeUnitStruct(string) (sqlvalue.Value, error) { return sqlvalue.None{}, nil }

func (Serializer) SerializeSome(v any) (sqlvalue.Value, error) {
	return ToValue(v)
}

func (Serializer) SerializeUnitVariant(name string, _ uint32, variant string) (sqlvalue.Value, error) {
	switch unitVariantRules[name] {
	case ruleConstant:
		c, ok := sqlvalue.ConstantOf(variant)
		if !ok {
			return nil, ser.Custom("unknown constant `%s`", variant)
		}
		return c, nil
	case ruleValue:
		switch variant {
		case "None":
			return sqlvalue.None{}, nil
		case "Null":
			return sqlvalue.Null{}, nil
		case "False":
			return sqlvalue.False, nil
		case "True":
			return sqlvalue.True, nil
		}
		return nil, ser.Custom("unknown unit variant `Value::%s`", variant)
	}
	return sqlvalue.Strand(variant), nil
}

func (Serializer) SerializeNewtypeStruct(name string, v any) (sqlvalue.Value, error) {
	switch newtypeStructRules[name] {
	case ruleStrand:
		return convertTo(v, text, func(s string) sqlvalue.Value { return sqlvalue.Strand(s) })
	case ruleParam:
		return convertTo(v, text, func(s string) sqlvalue.Value { return sqlvalue.Param(s) })
	case ruleTable:
		return convertTo(v, text, func(s string) sqlvalue.Value { return sqlvalue.Table(s) })
	case ruleBytes:
		return convertTo(v, blob, func(b []byte) sqlvalue.Value { return sqlvalue.Bytes(b) })
	case ruleDuration:
		return convertTo(v, span, func(d sqlvalue.Duration) sqlvalue.Value { return d })
	case ruleDatetime:
		return convertTo(v, instant, func(d sqlvalue.Datetime) sqlvalue.Value { return d })
	case ruleUuid:
		return convertTo(v, ident, func(u sqlvalue.Uuid) sqlvalue.Value { return u })
	case ruleArray:
		return convertTo(v, values, func(a []sqlvalue.Value) sqlvalue.Value { return sqlvalue.Array(a) })
	case ruleObject:
		return convertTo(v, objects, func(o *sqlvalue.Object) sqlvalue.Value { return o })
	case ruleIdiom:
		return convertTo(v, parts, func(p []sqlvalue.Part) sqlvalue.Value { return sqlvalue.Idiom(p) })
	case ruleBlock:
		return convertTo(v, entries, func(e []sqlvalue.Entry) sqlvalue.Value {
			return &sqlvalue.Block{Entries: e}
		})
	case ruleFuture:
		return convertTo(v, entries, func(e []sqlvalue.Entry) sqlvalue.Value {
			return &sqlvalue.Future{Block: sqlvalue.Block{Entries: e}}
		})
	case ruleRegex:
		pattern, err := ser.Serialize[string](v, text)
		if err != nil {
			return nil, err
		}
		re, err := sqlvalue.NewRegex(pattern)
		if err != nil {
			return nil, ser.Custom("invalid regex `%s`: %v", pattern, err)
		}
		return re, nil
	}
	return ToValue(v)
}

// convertTo runs v through a narrow serializer and wraps the result
func convertTo[P any](v any, s ser.Serializer[P], as func(P) sqlvalue.Value) (sqlvalue.Value, error) {
	p, err := ser.Serialize[P](v, s)
	if err != nil {
		return nil, err
	}
	return as(p), nil
}

func (Serializer) SerializeNewtypeVariant(name string, _ uint32, variant string, v any) (sqlvalue.Value, error) {
	switch newtypeVariantRules[name] {
	case ruleNumber:
		n, err := numberFromVariant(variant, v)
		if err != nil {
			return nil, err
		}
		return n, nil
	case ruleSubquery:
		q, err := subqueryFromVariant(variant, v)
		if err != nil {
			return nil, err
		}
		return q, nil
	case ruleGeometry:
		g, err := geometryFromVariant(variant, v)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ruleValue:
		return ToValue(v)
	}
	val, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	return wrap(variant, val), nil
}

func (Serializer) SerializeSeq(n int) (ser.SeqSerializer[sqlvalue.Value], error) {
	return newValuesBuilder(n, asArray), nil
}

func (Serializer) SerializeTuple(n int) (ser.SeqSerializer[sqlvalue.Value], error) {
	return newValuesBuilder(n, asArray), nil
}

func (Serializer) SerializeTupleStruct(_ string, n int) (ser.SeqSerializer[sqlvalue.Value], error) {
	return newValuesBuilder(n, asArray), nil
}

func asArray(a sqlvalue.Array) (sqlvalue.Value, error) { return a, nil }

func (Serializer) SerializeTupleVariant(name string, _ uint32, variant string, n int) (ser.TupleVariantSerializer[sqlvalue.Value], error) {
	switch tupleVariantRules[name] {
	case ruleModel:
		m, err := newModelFields(variant)
		if err != nil {
			return nil, err
		}
		return liftTupleVariant[*sqlvalue.Model]{m}, nil
	case ruleFunction:
		f, err := newFunctionFields(variant)
		if err != nil {
			return nil, err
		}
		return liftTupleVariant[*sqlvalue.Function]{f}, nil
	}
	return newValuesBuilder(n, func(a sqlvalue.Array) (sqlvalue.Value, error) {
		return wrap(variant, a), nil
	}), nil
}

func (Serializer) SerializeMap(n int) (ser.MapSerializer[sqlvalue.Value], error) {
	return newObjectBuilder(n, asObject), nil
}

func asObject(o *sqlvalue.Object) (sqlvalue.Value, error) { return o, nil }

func (Serializer) SerializeStruct(name string, n int) (ser.StructSerializer[sqlvalue.Value], error) {
	switch structRules[name] {
	case ruleThing:
		return liftStruct[sqlvalue.Thing]{&thingFields{}}, nil
	case ruleExpression:
		return liftStruct[*sqlvalue.Expression]{&expressionFields{}}, nil
	case ruleEdges:
		return liftStruct[*sqlvalue.Edges]{&edgesFields{}}, nil
	case ruleRange:
		return liftStruct[*sqlvalue.Range]{&rangeFields{}}, nil
	}
	return newObjectBuilder(n, asObject), nil
}

func (Serializer) SerializeStructVariant(_ string, _ uint32, variant string, n int) (ser.StructSerializer[sqlvalue.Value], error) {
	return newObjectBuilder(n, func(o *sqlvalue.Object) (sqlvalue.Value, error) {
		return wrap(variant, o), nil
	}), nil
}
