package convert

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// stringSerializer accepts text only. Named newtypes are unwrapped.
type stringSerializer struct {
	expecting[string]
}

var text = stringSerializer{expecting[string]{what: "a string"}}

func (stringSerializer) SerializeStr(v string) (string, error) { return v, nil }
func (stringSerializer) SerializeChar(v rune) (string, error)  { return string(v), nil }

func (s stringSerializer) SerializeNewtypeStruct(_ string, v any) (string, error) {
	return ser.Serialize[string](v, s)
}

// int64Serializer accepts integers that fit in an int64
type int64Serializer struct {
	expecting[int64]
}

var integer = int64Serializer{expecting[int64]{what: "an integer"}}

func (int64Serializer) SerializeInt8(v int8) (int64, error)     { return int64(v), nil }
func (int64Serializer) SerializeInt16(v int16) (int64, error)   { return int64(v), nil }
func (int64Serializer) SerializeInt32(v int32) (int64, error)   { return int64(v), nil }
func (int64Serializer) SerializeInt64(v int64) (int64, error)   { return v, nil }
func (int64Serializer) SerializeUint8(v uint8) (int64, error)   { return int64(v), nil }
func (int64Serializer) SerializeUint16(v uint16) (int64, error) { return int64(v), nil }
func (int64Serializer) SerializeUint32(v uint32) (int64, error) { return int64(v), nil }

func (int64Serializer) SerializeUint64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, &ser.RangeError{Literal: strconv.FormatUint(v, 10), Target: "i64"}
	}
	return int64(v), nil
}

func (int64Serializer) SerializeInt128(v ser.Int128) (int64, error) {
	b := v.Big()
	if !b.IsInt64() {
		return 0, &ser.RangeError{Literal: b.String(), Target: "i64"}
	}
	return b.Int64(), nil
}

func (int64Serializer) SerializeUint128(v ser.Uint128) (int64, error) {
	b := v.Big()
	if !b.IsInt64() {
		return 0, &ser.RangeError{Literal: b.String(), Target: "i64"}
	}
	return b.Int64(), nil
}

func (s int64Serializer) SerializeNewtypeStruct(_ string, v any) (int64, error) {
	return ser.Serialize[int64](v, s)
}

// uint64Serializer accepts non-negative integers
type uint64Serializer struct {
	expecting[uint64]
}

var unsigned = uint64Serializer{expecting[uint64]{what: "an unsigned integer"}}

func (s uint64Serializer) signed(v int64) (uint64, error) {
	if v < 0 {
		return 0, &ser.RangeError{Literal: strconv.FormatInt(v, 10), Target: "u64"}
	}
	return uint64(v), nil
}

func (s uint64Serializer) SerializeInt8(v int8) (uint64, error)     { return s.signed(int64(v)) }
func (s uint64Serializer) SerializeInt16(v int16) (uint64, error)   { return s.signed(int64(v)) }
func (s uint64Serializer) SerializeInt32(v int32) (uint64, error)   { return s.signed(int64(v)) }
func (s uint64Serializer) SerializeInt64(v int64) (uint64, error)   { return s.signed(v) }
func (s uint64Serializer) SerializeUint8(v uint8) (uint64, error)   { return uint64(v), nil }
func (s uint64Serializer) SerializeUint16(v uint16) (uint64, error) { return uint64(v), nil }
func (s uint64Serializer) SerializeUint32(v uint32) (uint64, error) { return uint64(v), nil }
func (s uint64Serializer) SerializeUint64(v uint64) (uint64, error) { return v, nil }

func (s uint64Serializer) SerializeInt128(v ser.Int128) (uint64, error) {
	b := v.Big()
	if !b.IsUint64() {
		return 0, &ser.RangeError{Literal: b.String(), Target: "u64"}
	}
	return b.Uint64(), nil
}

func (s uint64Serializer) SerializeUint128(v ser.Uint128) (uint64, error) {
	b := v.Big()
	if !b.IsUint64() {
		return 0, &ser.RangeError{Literal: b.String(), Target: "u64"}
	}
	return b.Uint64(), nil
}

func (s uint64Serializer) SerializeNewtypeStruct(_ string, v any) (uint64, error) {
	return ser.Serialize[uint64](v, s)
}

// byteSerializer accepts integers in 0..255
type byteSerializer struct {
	expecting[byte]
}

var octet = byteSerializer{expecting[byte]{what: "a byte"}}

func (s byteSerializer) check(v int64) (byte, error) {
	if v < 0 || v > math.MaxUint8 {
		return 0, &ser.RangeError{Literal: strconv.FormatInt(v, 10), Target: "u8"}
	}
	return byte(v), nil
}

func (s byteSerializer) SerializeUint8(v uint8) (byte, error)   { return v, nil }
func (s byteSerializer) SerializeInt8(v int8) (byte, error)     { return s.check(int64(v)) }
func (s byteSerializer) SerializeInt16(v int16) (byte, error)   { return s.check(int64(v)) }
func (s byteSerializer) SerializeInt32(v int32) (byte, error)   { return s.check(int64(v)) }
func (s byteSerializer) SerializeInt64(v int64) (byte, error)   { return s.check(v) }
func (s byteSerializer) SerializeUint16(v uint16) (byte, error) { return s.check(int64(v)) }
func (s byteSerializer) SerializeUint32(v uint32) (byte, error) { return s.check(int64(v)) }

func (s byteSerializer) SerializeUint64(v uint64) (byte, error) {
	if v > math.MaxUint8 {
		return 0, &ser.RangeError{Literal: strconv.FormatUint(v, 10), Target: "u8"}
	}
	return byte(v), nil
}

// float64Serializer accepts floats and integers
type float64Serializer struct {
	expecting[float64]
}

var float = float64Serializer{expecting[float64]{what: "a float"}}

func (float64Serializer) SerializeFloat32(v float32) (float64, error) { return float64(v), nil }
func (float64Serializer) SerializeFloat64(v float64) (float64, error) { return v, nil }
func (float64Serializer) SerializeInt8(v int8) (float64, error)       { return float64(v), nil }
func (float64Serializer) SerializeInt16(v int16) (float64, error)     { return float64(v), nil }
func (float64Serializer) SerializeInt32(v int32) (float64, error)     { return float64(v), nil }
func (float64Serializer) SerializeInt64(v int64) (float64, error)     { return float64(v), nil }
func (float64Serializer) SerializeUint8(v uint8) (float64, error)     { return float64(v), nil }
func (float64Serializer) SerializeUint16(v uint16) (float64, error)   { return float64(v), nil }
func (float64Serializer) SerializeUint32(v uint32) (float64, error)   { return float64(v), nil }
func (float64Serializer) SerializeUint64(v uint64) (float64, error)   { return float64(v), nil }

func (s float64Serializer) SerializeNewtypeStruct(_ string, v any) (float64, error) {
	return ser.Serialize[float64](v, s)
}

// bytesSerializer accepts a byte string or a sequence of bytes
type bytesSerializer struct {
	expecting[[]byte]
}

var blob = bytesSerializer{expecting[[]byte]{what: "bytes"}}

func (bytesSerializer) SerializeBytes(v []byte) ([]byte, error) {
	return append([]byte{}, v...), nil
}

func (bytesSerializer) SerializeSeq(n int) (ser.SeqSerializer[[]byte], error) {
	return newSeqOf[byte](octet, n), nil
}

func (s bytesSerializer) SerializeNewtypeStruct(_ string, v any) ([]byte, error) {
	return ser.Serialize[[]byte](v, s)
}

// durationSerializer accepts nanoseconds or duration text
type durationSerializer struct {
	expecting[sqlvalue.Duration]
}

var span = durationSerializer{expecting[sqlvalue.Duration]{what: "a duration"}}

func (durationSerializer) nanos(v any) (sqlvalue.Duration, error) {
	n, err := ser.Serialize[int64](v, integer)
	if err != nil {
		return 0, err
	}
	return sqlvalue.Duration(n), nil
}

func (s durationSerializer) SerializeInt8(v int8) (sqlvalue.Duration, error)     { return s.nanos(v) }
func (s durationSerializer) SerializeInt16(v int16) (sqlvalue.Duration, error)   { return s.nanos(v) }
func (s durationSerializer) SerializeInt32(v int32) (sqlvalue.Duration, error)   { return s.nanos(v) }
func (s durationSerializer) SerializeInt64(v int64) (sqlvalue.Duration, error)   { return s.nanos(v) }
func (s durationSerializer) SerializeUint8(v uint8) (sqlvalue.Duration, error)   { return s.nanos(v) }
func (s durationSerializer) SerializeUint16(v uint16) (sqlvalue.Duration, error) { return s.nanos(v) }
func (s durationSerializer) SerializeUint32(v uint32) (sqlvalue.Duration, error) { return s.nanos(v) }
func (s durationSerializer) SerializeUint64(v uint64) (sqlvalue.Duration, error) { return s.nanos(v) }

func (durationSerializer) SerializeStr(v string) (sqlvalue.Duration, error) {
	d, err := sqlvalue.ParseDuration(v)
	if err != nil {
		return 0, ser.Custom("%v", err)
	}
	return d, nil
}

func (s durationSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Duration, error) {
	return ser.Serialize[sqlvalue.Duration](v, s)
}

// datetimeSerializer accepts RFC 3339 text
type datetimeSerializer struct {
	expecting[sqlvalue.Datetime]
}

var instant = datetimeSerializer{expecting[sqlvalue.Datetime]{what: "an RFC 3339 datetime"}}

func (datetimeSerializer) SerializeStr(v string) (sqlvalue.Datetime, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return sqlvalue.Datetime{}, ser.Custom("invalid datetime `%s`: %v", v, err)
	}
	return sqlvalue.NewDatetime(t), nil
}

func (s datetimeSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Datetime, error) {
	return ser.Serialize[sqlvalue.Datetime](v, s)
}

// uuidSerializer accepts canonical text or 16 raw bytes
type uuidSerializer struct {
	expecting[sqlvalue.Uuid]
}

var ident = uuidSerializer{expecting[sqlvalue.Uuid]{what: "a uuid"}}

func (uuidSerializer) SerializeStr(v string) (sqlvalue.Uuid, error) {
	u, err := uuid.Parse(v)
	if err != nil {
		return sqlvalue.Uuid{}, ser.Custom("invalid uuid `%s`: %v", v, err)
	}
	return sqlvalue.Uuid(u), nil
}

func (uuidSerializer) SerializeBytes(v []byte) (sqlvalue.Uuid, error) {
	u, err := uuid.FromBytes(v)
	if err != nil {
		return sqlvalue.Uuid{}, ser.Custom("invalid uuid bytes: %v", err)
	}
	return sqlvalue.Uuid(u), nil
}

func (s uuidSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Uuid, error) {
	return ser.Serialize[sqlvalue.Uuid](v, s)
}
