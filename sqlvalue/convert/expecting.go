package convert

import (
	"fmt"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// expecting rejects every event with an InvalidTypeError naming what the
// enclosing serializer wanted. Narrow serializers embed it and override
// only the events they accept.
type expecting[T any] struct {
	what string
}

func (e expecting[T]) fail(got string) (T, error) {
	var zero T
	return zero, &ser.InvalidTypeError{Got: got, Expected: e.what}
}

func (e expecting[T]) failf(format string, args ...any) (T, error) {
	return e.fail(fmt.Sprintf(format, args...))
}

func (e expecting[T]) SerializeBool(bool) (T, error)           { return e.fail("bool") }
func (e expecting[T]) SerializeInt8(int8) (T, error)           { return e.fail("i8") }
func (e expecting[T]) SerializeInt16(int16) (T, error)         { return e.fail("i16") }
func (e expecting[T]) SerializeInt32(int32) (T, error)         { return e.fail("i32") }
func (e expecting[T]) SerializeInt64(int64) (T, error)         { return e.fail("i64") }
func (e expecting[T]) SerializeInt128(ser.Int128) (T, error)   { return e.fail("i128") }
func (e expecting[T]) SerializeUint8(uint8) (T, error)         { return e.fail("u8") }
func (e expecting[T]) SerializeUint16(uint16) (T, error)       { return e.fail("u16") }
func (e expecting[T]) SerializeUint32(uint32) (T, error)       { return e.fail("u32") }
func (e expecting[T]) SerializeUint64(uint64) (T, error)       { return e.fail("u64") }
func (e expecting[T]) SerializeUint128(ser.Uint128) (T, error) { return e.fail("u128") }
func (e expecting[T]) SerializeFloat32(float32) (T, error)     { return e.fail("f32") }
func (e expecting[T]) SerializeFloat64(float64) (T, error)     { return e.fail("f64") }
func (e expecting[T]) SerializeChar(rune) (T, error)           { return e.fail("char") }
func (e expecting[T]) SerializeStr(string) (T, error)          { return e.fail("string") }
func (e expecting[T]) SerializeBytes([]byte) (T, error)        { return e.fail("bytes") }
func (e expecting[T]) SerializeNone() (T, error)               { return e.fail("none") }
func (e expecting[T]) SerializeSome(any) (T, error)            { return e.fail("option") }
func (e expecting[T]) SerializeUnit() (T, error)               { return e.fail("unit") }

func (e expecting[T]) SerializeUnitStruct(name string) (T, error) {
	return e.failf("unit struct `%s`", name)
}

func (e expecting[T]) SerializeUnitVariant(name string, _ uint32, variant string) (T, error) {
	return e.failf("unit variant `%s::%s`", name, variant)
}

func (e expecting[T]) SerializeNewtypeStruct(name string, _ any) (T, error) {
	return e.failf("newtype struct `%s`", name)
}

func (e expecting[T]) SerializeNewtypeVariant(name string, _ uint32, variant string, _ any) (T, error) {
	return e.failf("newtype variant `%s::%s`", name, variant)
}

func (e expecting[T]) SerializeSeq(int) (ser.SeqSerializer[T], error) {
	_, err := e.fail("sequence")
	return nil, err
}

func (e expecting[T]) SerializeTuple(int) (ser.SeqSerializer[T], error) {
	_, err := e.fail("tuple")
	return nil, err
}

func (e expecting[T]) SerializeTupleStruct(name string, _ int) (ser.SeqSerializer[T], error) {
	_, err := e.failf("tuple struct `%s`", name)
	return nil, err
}

func (e expecting[T]) SerializeTupleVariant(name string, _ uint32, variant string, _ int) (ser.TupleVariantSerializer[T], error) {
	_, err := e.failf("tuple variant `%s::%s`", name, variant)
	return nil, err
}

func (e expecting[T]) SerializeMap(int) (ser.MapSerializer[T], error) {
	_, err := e.fail("map")
	return nil, err
}

func (e expecting[T]) SerializeStruct(name string, _ int) (ser.StructSerializer[T], error) {
	_, err := e.failf("struct `%s`", name)
	return nil, err
}

func (e expecting[T]) SerializeStructVariant(name string, _ uint32, variant string, _ int) (ser.StructSerializer[T], error) {
	_, err := e.failf("struct variant `%s::%s`", name, variant)
	return nil, err
}
