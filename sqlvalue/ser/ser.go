// Package ser defines the generic serialization protocol values are
// converted through.
//
// A source emits exactly one event into a Serializer: a primitive, an
// optional, a named wrapper, a named union case, or the opening of a
// composite (sequence, map, struct, union case with fields). Composite
// openings return a builder that receives the nested values and yields the
// finished result from End.
//
// The protocol is generic over what the consumer produces. Types that
// describe their own shape implement Marshaler against the opaque Ok
// instantiation; Serialize adapts any Serializer[T] to it.
package ser

// Serializer consumes one serialization event and produces a T.
//
// Length hints are advisory; a negative hint means the length is unknown.
// Variant indexes are informational and consumers may ignore them.
type Serializer[T any] interface {
	SerializeBool(v bool) (T, error)
	SerializeInt8(v int8) (T, error)
	SerializeInt16(v int16) (T, error)
	SerializeInt32(v int32) (T, error)
	SerializeInt64(v int64) (T, error)
	SerializeInt128(v Int128) (T, error)
	SerializeUint8(v uint8) (T, error)
	SerializeUint16(v uint16) (T, error)
	SerializeUint32(v uint32) (T, error)
	SerializeUint64(v uint64) (T, error)
	SerializeUint128(v Uint128) (T, error)
	SerializeFloat32(v float32) (T, error)
	SerializeFloat64(v float64) (T, error)
	SerializeChar(v rune) (T, error)
	SerializeStr(v string) (T, error)
	SerializeBytes(v []byte) (T, error)

	SerializeNone() (T, error)
	SerializeSome(v any) (T, error)
	SerializeUnit() (T, error)
	SerializeUnitStruct(name string) (T, error)
	SerializeUnitVariant(name string, index uint32, variant string) (T, error)
	SerializeNewtypeStruct(name string, v any) (T, error)
	SerializeNewtypeVariant(name string, index uint32, variant string, v any) (T, error)

	SerializeSeq(length int) (SeqSerializer[T], error)
	SerializeTuple(length int) (SeqSerializer[T], error)
	SerializeTupleStruct(name string, length int) (SeqSerializer[T], error)
	SerializeTupleVariant(name string, index uint32, variant string, length int) (TupleVariantSerializer[T], error)
	SerializeMap(length int) (MapSerializer[T], error)
	SerializeStruct(name string, length int) (StructSerializer[T], error)
	SerializeStructVariant(name string, index uint32, variant string, length int) (StructSerializer[T], error)
}

// SeqSerializer receives the elements of a sequence, tuple or tuple struct.
type SeqSerializer[T any] interface {
	SerializeElement(v any) error
	End() (T, error)
}

// TupleVariantSerializer receives the positional fields of a union case.
type TupleVariantSerializer[T any] interface {
	SerializeField(v any) error
	End() (T, error)
}

// MapSerializer receives alternating keys and values.
type MapSerializer[T any] interface {
	SerializeKey(k any) error
	SerializeValue(v any) error
	End() (T, error)
}

// StructSerializer receives named fields of a struct or struct variant.
type StructSerializer[T any] interface {
	SerializeField(key string, v any) error
	End() (T, error)
}

// Ok is the opaque result Marshalers return. Only Serialize can produce a
// meaningful one; a Marshaler just passes through what its Serializer gave it.
type Ok struct{}

// Marshaler is implemented by types that emit their own serialization
// event instead of being walked by reflection.
type Marshaler interface {
	MarshalEvents(s Serializer[Ok]) (Ok, error)
}

// Char is a rune that serializes as a character rather than an int32.
type Char rune

// MarshalEvents emits a char event
func (c Char) MarshalEvents(s Serializer[Ok]) (Ok, error) {
	return s.SerializeChar(rune(c))
}
