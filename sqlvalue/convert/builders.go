package convert

import (
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// seqOf collects sequence elements through elem
type seqOf[E any] struct {
	elem ser.Serializer[E]
	out  []E
}

func newSeqOf[E any](elem ser.Serializer[E], n int) *seqOf[E] {
	return &seqOf[E]{elem: elem, out: make([]E, 0, max(n, 0))}
}

func (s *seqOf[E]) SerializeElement(v any) error {
	e, err := ser.Serialize[E](v, s.elem)
	if err != nil {
		return err
	}
	s.out = append(s.out, e)
	return nil
}

func (s *seqOf[E]) End() ([]E, error) { return s.out, nil }

// listSerializer accepts a sequence or tuple whose elements elem accepts
type listSerializer[E any] struct {
	expecting[[]E]
	elem ser.Serializer[E]
}

func listOf[E any](what string, elem ser.Serializer[E]) listSerializer[E] {
	return listSerializer[E]{expecting: expecting[[]E]{what: what}, elem: elem}
}

func (l listSerializer[E]) SerializeSeq(n int) (ser.SeqSerializer[[]E], error) {
	return newSeqOf(l.elem, n), nil
}

func (l listSerializer[E]) SerializeTuple(n int) (ser.SeqSerializer[[]E], error) {
	return newSeqOf(l.elem, n), nil
}

func (l listSerializer[E]) SerializeNewtypeStruct(_ string, v any) ([]E, error) {
	return ser.Serialize[[]E](v, l)
}

// valuesBuilder collects elements or positional fields as an Array and
// hands it to done
type valuesBuilder[T any] struct {
	vals sqlvalue.Array
	done func(sqlvalue.Array) (T, error)
}

func newValuesBuilder[T any](n int, done func(sqlvalue.Array) (T, error)) *valuesBuilder[T] {
	return &valuesBuilder[T]{vals: make(sqlvalue.Array, 0, max(n, 0)), done: done}
}

func (b *valuesBuilder[T]) SerializeElement(v any) error {
	val, err := ToValue(v)
	if err != nil {
		return err
	}
	b.vals = append(b.vals, val)
	return nil
}

func (b *valuesBuilder[T]) SerializeField(v any) error { return b.SerializeElement(v) }
func (b *valuesBuilder[T]) End() (T, error)            { return b.done(b.vals) }

// objectBuilder collects map entries or named fields into an Object and
// hands it to done. Map keys must serialize as strings.
type objectBuilder[T any] struct {
	obj    *sqlvalue.Object
	key    string
	hasKey bool
	done   func(*sqlvalue.Object) (T, error)
}

func newObjectBuilder[T any](n int, done func(*sqlvalue.Object) (T, error)) *objectBuilder[T] {
	return &objectBuilder[T]{obj: sqlvalue.NewObject(max(n, 0)), done: done}
}

func (b *objectBuilder[T]) SerializeKey(k any) error {
	if b.hasKey {
		return ser.Custom("map key `%s` has no value", b.key)
	}
	key, err := ser.Serialize[string](k, text)
	if err != nil {
		return err
	}
	b.key, b.hasKey = key, true
	return nil
}

func (b *objectBuilder[T]) SerializeValue(v any) error {
	if !b.hasKey {
		return ser.Custom("map value serialized before its key")
	}
	val, err := ToValue(v)
	if err != nil {
		return err
	}
	b.obj.Set(b.key, val)
	b.key, b.hasKey = "", false
	return nil
}

// SerializeField lets objectBuilder receive struct fields
func (b *objectBuilder[T]) SerializeField(key string, v any) error {
	val, err := ToValue(v)
	if err != nil {
		return err
	}
	b.obj.Set(key, val)
	return nil
}

func (b *objectBuilder[T]) End() (T, error) {
	if b.hasKey {
		var zero T
		return zero, ser.Custom("map key `%s` has no value", b.key)
	}
	return b.done(b.obj)
}

// structFields is the shape every field accumulator shares
type structFields[P any] interface {
	SerializeField(key string, v any) error
	End() (P, error)
}

// liftStruct widens a field accumulator producing one Value case to a
// StructSerializer producing Value
type liftStruct[P sqlvalue.Value] struct {
	inner structFields[P]
}

func (l liftStruct[P]) SerializeField(key string, v any) error {
	return l.inner.SerializeField(key, v)
}

func (l liftStruct[P]) End() (sqlvalue.Value, error) {
	p, err := l.inner.End()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// positionalFields is the shape tuple variant accumulators share
type positionalFields[P any] interface {
	SerializeField(v any) error
	End() (P, error)
}

// liftTupleVariant is liftStruct for positional fields
type liftTupleVariant[P sqlvalue.Value] struct {
	inner positionalFields[P]
}

func (l liftTupleVariant[P]) SerializeField(v any) error { return l.inner.SerializeField(v) }

func (l liftTupleVariant[P]) End() (sqlvalue.Value, error) {
	p, err := l.inner.End()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// wrap returns an object holding v under the variant name
func wrap(variant string, v sqlvalue.Value) *sqlvalue.Object {
	return sqlvalue.ObjectOf(sqlvalue.Field{Key: variant, Value: v})
}

// values accepts any sequence and converts each element
var values = listOf[sqlvalue.Value]("an array", Serializer{})

// mapSerializer accepts a map and builds an Object
type mapSerializer struct {
	expecting[*sqlvalue.Object]
}

var objects = mapSerializer{expecting[*sqlvalue.Object]{what: "an object"}}

func (mapSerializer) SerializeMap(n int) (ser.MapSerializer[*sqlvalue.Object], error) {
	return newObjectBuilder(n, func(o *sqlvalue.Object) (*sqlvalue.Object, error) { return o, nil }), nil
}

func (m mapSerializer) SerializeNewtypeStruct(_ string, v any) (*sqlvalue.Object, error) {
	return ser.Serialize[*sqlvalue.Object](v, m)
}
