package convert

import (
	"math"
	"math/big"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// numberSerializer accepts a TokenNumber variant or a bare numeric event
type numberSerializer struct {
	expecting[sqlvalue.Number]
}

var number = numberSerializer{expecting[sqlvalue.Number]{what: "a number"}}

func (numberSerializer) SerializeInt8(v int8) (sqlvalue.Number, error)     { return sqlvalue.Int(int64(v)), nil }
func (numberSerializer) SerializeInt16(v int16) (sqlvalue.Number, error)   { return sqlvalue.Int(int64(v)), nil }
func (numberSerializer) SerializeInt32(v int32) (sqlvalue.Number, error)   { return sqlvalue.Int(int64(v)), nil }
func (numberSerializer) SerializeInt64(v int64) (sqlvalue.Number, error)   { return sqlvalue.Int(v), nil }
func (numberSerializer) SerializeUint8(v uint8) (sqlvalue.Number, error)   { return sqlvalue.Int(int64(v)), nil }
func (numberSerializer) SerializeUint16(v uint16) (sqlvalue.Number, error) { return sqlvalue.Int(int64(v)), nil }
func (numberSerializer) SerializeUint32(v uint32) (sqlvalue.Number, error) { return sqlvalue.Int(int64(v)), nil }

func (numberSerializer) SerializeFloat32(v float32) (sqlvalue.Number, error) {
	return sqlvalue.Float(float64(v)), nil
}

func (numberSerializer) SerializeFloat64(v float64) (sqlvalue.Number, error) {
	return sqlvalue.Float(v), nil
}

func (numberSerializer) SerializeUint64(v uint64) (sqlvalue.Number, error) {
	if v <= math.MaxInt64 {
		return sqlvalue.Int(int64(v)), nil
	}
	return sqlvalue.DecimalFromBig(new(big.Int).SetUint64(v))
}

func (numberSerializer) SerializeInt128(v ser.Int128) (sqlvalue.Number, error) {
	return sqlvalue.DecimalFromBig(v.Big())
}

func (numberSerializer) SerializeUint128(v ser.Uint128) (sqlvalue.Number, error) {
	return sqlvalue.DecimalFromBig(v.Big())
}

// SerializeStr reads decimal text
func (numberSerializer) SerializeStr(v string) (sqlvalue.Number, error) {
	return sqlvalue.ParseDecimal(v)
}

func (n numberSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Number, error) {
	return ser.Serialize[sqlvalue.Number](v, n)
}

func (n numberSerializer) SerializeNewtypeVariant(name string, _ uint32, variant string, v any) (sqlvalue.Number, error) {
	if name != sqlvalue.TokenNumber {
		return n.failf("newtype variant `%s::%s`", name, variant)
	}
	return numberFromVariant(variant, v)
}

// numberFromVariant rebuilds Int, Float or Decimal from its payload.
// Decimals travel as their canonical text.
func numberFromVariant(variant string, v any) (sqlvalue.Number, error) {
	k, ok := sqlvalue.NumberKindOf(variant)
	if !ok {
		return sqlvalue.Number{}, ser.Custom("unknown variant `Number::%s`", variant)
	}
	switch k {
	case sqlvalue.NumberFloat:
		f, err := ser.Serialize[float64](v, float)
		if err != nil {
			return sqlvalue.Number{}, err
		}
		return sqlvalue.Float(f), nil
	case sqlvalue.NumberDecimal:
		s, err := ser.Serialize[string](v, text)
		if err != nil {
			return sqlvalue.Number{}, err
		}
		return sqlvalue.ParseDecimal(s)
	}
	i, err := ser.Serialize[int64](v, integer)
	if err != nil {
		return sqlvalue.Number{}, err
	}
	return sqlvalue.Int(i), nil
}
