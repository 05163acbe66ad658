package sqlvalue

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

// Compare orders two values and returns:
//
//	-1 if left < right
//	 0 if left == right
//	 1 if left > right
//
// Values of different kinds order by kind. Numbers compare by value across
// Int, Float and Decimal; arrays element-wise; objects by sorted keys and
// then values; records by table then id. Domain composites without a
// natural order fall back to their rendering. A nil Value sorts as None.
func Compare(left, right Value) int {
	left, right = orNone(left), orNone(right)
	if c := cmp.Compare(left.Kind(), right.Kind()); c != 0 {
		return c
	}
	switch l := left.(type) {
	case Number:
		return compareNumbers(l, right.(Number))
	case Strand:
		return strings.Compare(string(l), string(right.(Strand)))
	case Bytes:
		return bytes.Compare(l, right.(Bytes))
	case Duration:
		return cmp.Compare(l, right.(Duration))
	case Datetime:
		return l.t.Compare(right.(Datetime).t)
	case Uuid:
		r := right.(Uuid)
		return bytes.Compare(l[:], r[:])
	case Param:
		return strings.Compare(string(l), string(right.(Param)))
	case Table:
		return strings.Compare(string(l), string(right.(Table)))
	case Regex:
		return strings.Compare(l.Pattern(), right.(Regex).Pattern())
	case Array:
		return compareArrays(l, right.(Array))
	case *Object:
		return compareObjects(l, right.(*Object))
	case Thing:
		return compareThings(l, right.(Thing))
	case Constant:
		return cmp.Compare(l, right.(Constant))
	case None, Null, Bool:
		return 0
	}
	return strings.Compare(left.String(), right.String())
}

func orNone(v Value) Value {
	if v == nil {
		return None{}
	}
	return v
}

func compareArrays(a, b Array) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func sortedKeys(o *Object) []string {
	keys := o.Keys()
	slices.Sort(keys)
	return keys
}

func compareObjects(a, b *Object) int {
	ak, bk := sortedKeys(a), sortedKeys(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		av, _ := a.Get(ak[i])
		bv, _ := b.Get(bk[i])
		if c := Compare(av, bv); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ak), len(bk))
}

func compareIds(a, b Id) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	switch a.Kind {
	case IdString:
		return strings.Compare(a.Str, b.Str)
	case IdArray:
		return compareArrays(a.Array, b.Array)
	case IdObject:
		return compareObjects(a.Object, b.Object)
	}
	return cmp.Compare(a.Num, b.Num)
}

func compareThings(a, b Thing) int {
	if c := strings.Compare(a.Tb, b.Tb); c != 0 {
		return c
	}
	return compareIds(a.ID, b.ID)
}

// Equal reports structural equality. Unlike Compare, numbers are equal
// only within the same numeric kind, and object key order is ignored.
// A nil Value equals None.
func Equal(a, b Value) bool {
	a, b = orNone(a), orNone(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch l := a.(type) {
	case None, Null, Bool:
		return true
	case Number:
		return equalNumbers(l, b.(Number))
	case Strand, Param, Table, Duration, Constant:
		return a == b
	case Bytes:
		return bytes.Equal(l, b.(Bytes))
	case Datetime:
		return l.t.Equal(b.(Datetime).t)
	case Uuid:
		return l == b.(Uuid)
	case Regex:
		return l.Pattern() == b.(Regex).Pattern()
	case Array:
		return equalArrays(l, b.(Array))
	case *Object:
		return equalObjects(l, b.(*Object))
	case Thing:
		return equalThings(l, b.(Thing))
	case *Range:
		r := b.(*Range)
		return l.Tb == r.Tb && equalBounds(l.Beg, r.Beg) && equalBounds(l.End, r.End)
	case *Edges:
		r := b.(*Edges)
		return l.Dir == r.Dir && equalThings(l.From, r.From) && slices.Equal(l.What, r.What)
	case *Expression:
		r := b.(*Expression)
		return l.O == r.O && Equal(l.L, r.L) && Equal(l.R, r.R)
	case *Function:
		r := b.(*Function)
		return l.Form == r.Form && l.Name == r.Name && equalArrays(l.Args, r.Args)
	case *Model:
		return *l == *b.(*Model)
	case Geometry:
		return equalGeometry(l, b.(Geometry))
	case *Subquery:
		r := b.(*Subquery)
		if l.Form != r.Form {
			return false
		}
		if l.Form == SubqueryIfelse {
			return equalIfelse(l.ifelse(), r.ifelse())
		}
		return Equal(l.Value, r.Value)
	case *Block:
		return equalEntries(l.entries(), b.(*Block).entries())
	case *Future:
		return equalEntries(l.Block.entries(), b.(*Future).Block.entries())
	case Idiom:
		r := b.(Idiom)
		if len(l) != len(r) {
			return false
		}
		for i := range l {
			if !equalParts(l[i], r[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalArrays(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalObjects(a, b *Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func equalIds(a, b Id) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case IdString:
		return a.Str == b.Str
	case IdArray:
		return equalArrays(a.Array, b.Array)
	case IdObject:
		return equalObjects(a.Object, b.Object)
	}
	return a.Num == b.Num
}

func equalThings(a, b Thing) bool {
	return a.Tb == b.Tb && equalIds(a.ID, b.ID)
}

func equalBounds(a, b Bound) bool {
	if a.Kind != b.Kind {
		return false
	}
	return a.Kind == Unbounded || equalIds(a.ID, b.ID)
}
