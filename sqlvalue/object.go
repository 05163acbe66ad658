package sqlvalue

import (
	"strings"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// Field is one key and value of an Object
type Field struct {
	Key   string
	Value Value
}

// Object is a string-keyed map that remembers insertion order for display.
// Order plays no part in equality.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty object with room for n fields
func NewObject(n int) *Object {
	return &Object{
		keys: make([]string, 0, n),
		vals: make(map[string]Value, n),
	}
}

// ObjectOf builds an object from fields in order
func ObjectOf(fields ...Field) *Object {
	o := NewObject(len(fields))
	for _, f := range fields {
		o.Set(f.Key, f.Value)
	}
	return o
}

// Set stores v under k. A key already present keeps its position.
func (o *Object) Set(k string, v Value) {
	if o.vals == nil {
		o.vals = make(map[string]Value)
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

// Get returns the value under k
func (o *Object) Get(k string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[k]
	return v, ok
}

// Len returns the number of fields
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Fields returns the fields in insertion order
func (o *Object) Fields() []Field {
	if o == nil {
		return nil
	}
	out := make([]Field, len(o.keys))
	for i, k := range o.keys {
		out[i] = Field{Key: k, Value: o.vals[k]}
	}
	return out
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) isValue()   {}

// MarshalEvents emits a TokenObject newtype over a map of union forms
func (o *Object) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenObject, objectPayload{o})
}

// objectPayload is the map an Object wraps, values in union form
type objectPayload struct {
	o *Object
}

func (p objectPayload) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	m, err := s.SerializeMap(p.o.Len())
	if err != nil {
		return ser.Ok{}, err
	}
	for _, f := range p.o.Fields() {
		if err := m.SerializeKey(f.Key); err != nil {
			return ser.Ok{}, err
		}
		if err := m.SerializeValue(AsVariant(f.Value)); err != nil {
			return ser.Ok{}, err
		}
	}
	return m.End()
}

func (o *Object) String() string {
	if o.Len() == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for i, f := range o.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(EscapeKey(f.Key))
		b.WriteString(": ")
		b.WriteString(render(f.Value))
	}
	b.WriteString(" }")
	return b.String()
}

// EscapeKey renders an object key, quoting keys that are not plain
// identifiers
func EscapeKey(k string) string {
	if escapeIdent(k) == k {
		return k
	}
	return quote(k)
}
