package ser

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Serialize emits v into s and returns what s produced.
//
// Marshalers describe themselves. Everything else is walked by reflection:
// nil pointers and interfaces emit none, non-nil ones emit some, []byte
// emits bytes, slices emit seq, arrays emit tuple, maps emit map with keys
// sorted by their formatted form, and structs emit struct named by the Go
// type name. Struct fields are named by their `value` tag, falling back to
// the field name; a tag of "-" skips the field and ",omitempty" skips zero
// values. A struct with no emitted fields is a unit struct.
func Serialize[T any](v any, s Serializer[T]) (T, error) {
	if v == nil {
		return s.SerializeNone()
	}
	rv := reflect.ValueOf(v)
	if isNilPointer(rv) {
		return s.SerializeNone()
	}
	if m, ok := v.(Marshaler); ok {
		return marshal(m, s)
	}
	if tm, ok := v.(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			var zero T
			return zero, err
		}
		return s.SerializeStr(string(text))
	}
	return reflectValue(rv, s)
}

func isNilPointer(rv reflect.Value) bool {
	k := rv.Kind()
	return (k == reflect.Pointer || k == reflect.Interface) && rv.IsNil()
}

func marshal[T any](m Marshaler, s Serializer[T]) (T, error) {
	a := &adapter[T]{s: s}
	_, err := m.MarshalEvents(a)
	if err != nil {
		var zero T
		return zero, err
	}
	if !a.done {
		var zero T
		return zero, Custom("%T emitted no serialization event", m)
	}
	return a.out, nil
}

func reflectValue[T any](rv reflect.Value, s Serializer[T]) (T, error) {
	var zero T
	switch rv.Kind() {
	case reflect.Bool:
		return s.SerializeBool(rv.Bool())
	case reflect.Int8:
		return s.SerializeInt8(int8(rv.Int()))
	case reflect.Int16:
		return s.SerializeInt16(int16(rv.Int()))
	case reflect.Int32:
		return s.SerializeInt32(int32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return s.SerializeInt64(rv.Int())
	case reflect.Uint8:
		return s.SerializeUint8(uint8(rv.Uint()))
	case reflect.Uint16:
		return s.SerializeUint16(uint16(rv.Uint()))
	case reflect.Uint32:
		return s.SerializeUint32(uint32(rv.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return s.SerializeUint64(rv.Uint())
	case reflect.Float32:
		return s.SerializeFloat32(float32(rv.Float()))
	case reflect.Float64:
		return s.SerializeFloat64(rv.Float())
	case reflect.String:
		return s.SerializeStr(rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return s.SerializeNone()
		}
		return s.SerializeSome(rv.Elem().Interface())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return s.SerializeBytes(rv.Bytes())
		}
		seq, err := s.SerializeSeq(rv.Len())
		if err != nil {
			return zero, err
		}
		return elements(rv, seq)
	case reflect.Array:
		seq, err := s.SerializeTuple(rv.Len())
		if err != nil {
			return zero, err
		}
		return elements(rv, seq)
	case reflect.Map:
		return reflectMap(rv, s)
	case reflect.Struct:
		return reflectStruct(rv, s)
	}
	return zero, Custom("unsupported type %s", rv.Type())
}

func elements[T any](rv reflect.Value, seq SeqSerializer[T]) (T, error) {
	for i := 0; i < rv.Len(); i++ {
		if err := seq.SerializeElement(rv.Index(i).Interface()); err != nil {
			var zero T
			return zero, err
		}
	}
	return seq.End()
}

func reflectMap[T any](rv reflect.Value, s Serializer[T]) (T, error) {
	var zero T
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	m, err := s.SerializeMap(len(keys))
	if err != nil {
		return zero, err
	}
	for _, k := range keys {
		if err := m.SerializeKey(k.Interface()); err != nil {
			return zero, err
		}
		if err := m.SerializeValue(rv.MapIndex(k).Interface()); err != nil {
			return zero, err
		}
	}
	return m.End()
}

type structField struct {
	name  string
	index int
}

func structFields(rv reflect.Value) []structField {
	t := rv.Type()
	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		omitEmpty := false
		if tag, ok := f.Tag.Lookup("value"); ok {
			if tag == "-" {
				continue
			}
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}
		if omitEmpty && rv.Field(i).IsZero() {
			continue
		}
		fields = append(fields, structField{name: name, index: i})
	}
	return fields
}

func reflectStruct[T any](rv reflect.Value, s Serializer[T]) (T, error) {
	var zero T
	name := rv.Type().Name()
	fields := structFields(rv)
	if len(fields) == 0 {
		return s.SerializeUnitStruct(name)
	}
	st, err := s.SerializeStruct(name, len(fields))
	if err != nil {
		return zero, err
	}
	for _, f := range fields {
		if err := st.SerializeField(f.name, rv.Field(f.index).Interface()); err != nil {
			return zero, err
		}
	}
	return st.End()
}
