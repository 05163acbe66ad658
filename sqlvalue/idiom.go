package sqlvalue

import (
	"strings"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// PartKind selects the step a Part takes
type PartKind uint8

const (
	PartAll PartKind = iota
	PartLast
	PartFirst
	PartField
	PartIndex
	PartWhere
)

var partKindNames = [...]string{"All", "Last", "First", "Field", "Index", "Where"}

func (k PartKind) String() string { return partKindNames[k] }

// PartKindOf looks up a step by variant name
func PartKindOf(name string) (PartKind, bool) {
	for i, n := range partKindNames {
		if n == name {
			return PartKind(i), true
		}
	}
	return 0, false
}

// Part is one step of an Idiom. Field uses Name, Index uses Index and
// Where uses Cond.
type Part struct {
	Form  PartKind
	Name  string
	Index Number
	Cond  Value
}

func AllPart() Part              { return Part{Form: PartAll} }
func LastPart() Part             { return Part{Form: PartLast} }
func FirstPart() Part            { return Part{Form: PartFirst} }
func FieldPart(name string) Part { return Part{Form: PartField, Name: name} }
func IndexPart(n Number) Part    { return Part{Form: PartIndex, Index: n} }
func WherePart(cond Value) Part  { return Part{Form: PartWhere, Cond: cond} }

// MarshalEvents emits a TokenPart variant
func (p Part) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	idx, name := uint32(p.Form), p.Form.String()
	switch p.Form {
	case PartField:
		return s.SerializeNewtypeVariant(TokenPart, idx, name, p.Name)
	case PartIndex:
		return s.SerializeNewtypeVariant(TokenPart, idx, name, p.Index)
	case PartWhere:
		return s.SerializeNewtypeVariant(TokenPart, idx, name, AsVariant(p.Cond))
	}
	return s.SerializeUnitVariant(TokenPart, idx, name)
}

func (p Part) String() string {
	switch p.Form {
	case PartAll:
		return "[*]"
	case PartLast:
		return "[$]"
	case PartFirst:
		return "[0]"
	case PartField:
		return "." + escapeIdent(p.Name)
	case PartIndex:
		return "[" + p.Index.String() + "]"
	}
	return "[WHERE " + render(p.Cond) + "]"
}

func equalParts(a, b Part) bool {
	if a.Form != b.Form {
		return false
	}
	switch a.Form {
	case PartField:
		return a.Name == b.Name
	case PartIndex:
		return equalNumbers(a.Index, b.Index)
	case PartWhere:
		return Equal(a.Cond, b.Cond)
	}
	return true
}

// Idiom is a path into a value: a.b[0][*]
type Idiom []Part

func (Idiom) Kind() Kind { return KindIdiom }
func (Idiom) isValue()   {}

// MarshalEvents emits a TokenIdiom newtype over the parts
func (i Idiom) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	parts := []Part(i)
	if parts == nil {
		parts = []Part{}
	}
	return s.SerializeNewtypeStruct(TokenIdiom, parts)
}

func (i Idiom) String() string {
	var b strings.Builder
	for n, p := range i {
		s := p.String()
		if n == 0 && p.Form == PartField {
			s = s[1:]
		}
		b.WriteString(s)
	}
	return b.String()
}
