package ser

// adapter lets a Marshaler written against Serializer[Ok] drive a
// Serializer[T]. The T produced by the single top-level event is kept in
// out; the Marshaler only ever sees Ok.
type adapter[T any] struct {
	s    Serializer[T]
	out  T
	done bool
}

func (a *adapter[T]) finish(v T, err error) (Ok, error) {
	if err != nil {
		return Ok{}, err
	}
	if a.done {
		return Ok{}, Custom("serializer received more than one event")
	}
	a.out = v
	a.done = true
	return Ok{}, nil
}

func (a *adapter[T]) SerializeBool(v bool) (Ok, error)       { return a.finish(a.s.SerializeBool(v)) }
func (a *adapter[T]) SerializeInt8(v int8) (Ok, error)       { return a.finish(a.s.SerializeInt8(v)) }
func (a *adapter[T]) SerializeInt16(v int16) (Ok, error)     { return a.finish(a.s.SerializeInt16(v)) }
func (a *adapter[T]) SerializeInt32(v int32) (Ok, error)     { return a.finish(a.s.SerializeInt32(v)) }
func (a *adapter[T]) SerializeInt64(v int64) (Ok, error)     { return a.finish(a.s.SerializeInt64(v)) }
func (a *adapter[T]) SerializeInt128(v Int128) (Ok, error)   { return a.finish(a.s.SerializeInt128(v)) }
func (a *adapter[T]) SerializeUint8(v uint8) (Ok, error)     { return a.finish(a.s.SerializeUint8(v)) }
func (a *adapter[T]) SerializeUint16(v uint16) (Ok, error)   { return a.finish(a.s.SerializeUint16(v)) }
func (a *adapter[T]) SerializeUint32(v uint32) (Ok, error)   { return a.finish(a.s.SerializeUint32(v)) }
func (a *adapter[T]) SerializeUint64(v uint64) (Ok, error)   { return a.finish(a.s.SerializeUint64(v)) }
func (a *adapter[T]) SerializeUint128(v Uint128) (Ok, error) { return a.finish(a.s.SerializeUint128(v)) }
func (a *adapter[T]) SerializeFloat32(v float32) (Ok, error) { return a.finish(a.s.SerializeFloat32(v)) }
func (a *adapter[T]) SerializeFloat64(v float64) (Ok, error) { return a.finish(a.s.SerializeFloat64(v)) }
func (a *adapter[T]) SerializeChar(v rune) (Ok, error)       { return a.finish(a.s.SerializeChar(v)) }
func (a *adapter[T]) SerializeStr(v string) (Ok, error)      { return a.finish(a.s.SerializeStr(v)) }
func (a *adapter[T]) SerializeBytes(v []byte) (Ok, error)    { return a.finish(a.s.SerializeBytes(v)) }
func (a *adapter[T]) SerializeNone() (Ok, error)             { return a.finish(a.s.SerializeNone()) }
func (a *adapter[T]) SerializeSome(v any) (Ok, error)        { return a.finish(a.s.SerializeSome(v)) }
func (a *adapter[T]) SerializeUnit() (Ok, error)             { return a.finish(a.s.SerializeUnit()) }

func (a *adapter[T]) SerializeUnitStruct(name string) (Ok, error) {
	return a.finish(a.s.SerializeUnitStruct(name))
}

func (a *adapter[T]) SerializeUnitVariant(name string, index uint32, variant string) (Ok, error) {
	return a.finish(a.s.SerializeUnitVariant(name, index, variant))
}

func (a *adapter[T]) SerializeNewtypeStruct(name string, v any) (Ok, error) {
	return a.finish(a.s.SerializeNewtypeStruct(name, v))
}

func (a *adapter[T]) SerializeNewtypeVariant(name string, index uint32, variant string, v any) (Ok, error) {
	return a.finish(a.s.SerializeNewtypeVariant(name, index, variant, v))
}

func (a *adapter[T]) SerializeSeq(length int) (SeqSerializer[Ok], error) {
	inner, err := a.s.SerializeSeq(length)
	if err != nil {
		return nil, err
	}
	return &seqAdapter[T]{parent: a, inner: inner}, nil
}

func (a *adapter[T]) SerializeTuple(length int) (SeqSerializer[Ok], error) {
	inner, err := a.s.SerializeTuple(length)
	if err != nil {
		return nil, err
	}
	return &seqAdapter[T]{parent: a, inner: inner}, nil
}

func (a *adapter[T]) SerializeTupleStruct(name string, length int) (SeqSerializer[Ok], error) {
	inner, err := a.s.SerializeTupleStruct(name, length)
	if err != nil {
		return nil, err
	}
	return &seqAdapter[T]{parent: a, inner: inner}, nil
}

func (a *adapter[T]) SerializeTupleVariant(name string, index uint32, variant string, length int) (TupleVariantSerializer[Ok], error) {
	inner, err := a.s.SerializeTupleVariant(name, index, variant, length)
	if err != nil {
		return nil, err
	}
	return &tupleVariantAdapter[T]{parent: a, inner: inner}, nil
}

func (a *adapter[T]) SerializeMap(length int) (MapSerializer[Ok], error) {
	inner, err := a.s.SerializeMap(length)
	if err != nil {
		return nil, err
	}
	return &mapAdapter[T]{parent: a, inner: inner}, nil
}

func (a *adapter[T]) SerializeStruct(name string, length int) (StructSerializer[Ok], error) {
	inner, err := a.s.SerializeStruct(name, length)
	if err != nil {
		return nil, err
	}
	return &structAdapter[T]{parent: a, inner: inner}, nil
}

func (a *adapter[T]) SerializeStructVariant(name string, index uint32, variant string, length int) (StructSerializer[Ok], error) {
	inner, err := a.s.SerializeStructVariant(name, index, variant, length)
	if err != nil {
		return nil, err
	}
	return &structAdapter[T]{parent: a, inner: inner}, nil
}

type seqAdapter[T any] struct {
	parent *adapter[T]
	inner  SeqSerializer[T]
}

func (s *seqAdapter[T]) SerializeElement(v any) error { return s.inner.SerializeElement(v) }
func (s *seqAdapter[T]) End() (Ok, error)             { return s.parent.finish(s.inner.End()) }

type tupleVariantAdapter[T any] struct {
	parent *adapter[T]
	inner  TupleVariantSerializer[T]
}

func (s *tupleVariantAdapter[T]) SerializeField(v any) error { return s.inner.SerializeField(v) }
func (s *tupleVariantAdapter[T]) End() (Ok, error)           { return s.parent.finish(s.inner.End()) }

type mapAdapter[T any] struct {
	parent *adapter[T]
	inner  MapSerializer[T]
}

func (s *mapAdapter[T]) SerializeKey(k any) error   { return s.inner.SerializeKey(k) }
func (s *mapAdapter[T]) SerializeValue(v any) error { return s.inner.SerializeValue(v) }
func (s *mapAdapter[T]) End() (Ok, error)           { return s.parent.finish(s.inner.End()) }

type structAdapter[T any] struct {
	parent *adapter[T]
	inner  StructSerializer[T]
}

func (s *structAdapter[T]) SerializeField(key string, v any) error {
	return s.inner.SerializeField(key, v)
}

func (s *structAdapter[T]) End() (Ok, error) { return s.parent.finish(s.inner.End()) }
