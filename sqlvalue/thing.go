package sqlvalue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wbrown/janus-values/sqlvalue/codec"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// IdKind selects the representation of a record Id
type IdKind uint8

const (
	IdNumber IdKind = iota
	IdString
	IdArray
	IdObject
)

var idKindNames = [...]string{"Number", "String", "Array", "Object"}

func (k IdKind) String() string { return idKindNames[k] }

// IdKindOf looks up an Id representation by its variant name
func IdKindOf(name string) (IdKind, bool) {
	for i, n := range idKindNames {
		if n == name {
			return IdKind(i), true
		}
	}
	return 0, false
}

// Id identifies a record within a table
type Id struct {
	Kind   IdKind
	Num    int64
	Str    string
	Array  Array
	Object *Object
}

func IdFromInt(n int64) Id      { return Id{Kind: IdNumber, Num: n} }
func IdFromString(s string) Id  { return Id{Kind: IdString, Str: s} }
func IdFromArray(a Array) Id    { return Id{Kind: IdArray, Array: a} }
func IdFromObject(o *Object) Id { return Id{Kind: IdObject, Object: o} }

// MarshalEvents emits a TokenId newtype variant
func (id Id) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	name := id.Kind.String()
	switch id.Kind {
	case IdString:
		return s.SerializeNewtypeVariant(TokenId, uint32(id.Kind), name, id.Str)
	case IdArray:
		return s.SerializeNewtypeVariant(TokenId, uint32(id.Kind), name, variants(id.Array))
	case IdObject:
		return s.SerializeNewtypeVariant(TokenId, uint32(id.Kind), name, objectPayload{id.Object})
	}
	return s.SerializeNewtypeVariant(TokenId, uint32(id.Kind), name, id.Num)
}

func (id Id) String() string {
	switch id.Kind {
	case IdString:
		return escapeIdent(id.Str)
	case IdArray:
		return id.Array.String()
	case IdObject:
		if id.Object == nil {
			return "{}"
		}
		return id.Object.String()
	}
	return strconv.FormatInt(id.Num, 10)
}

// Thing is a record identifier: a table and an Id
type Thing struct {
	Tb string
	ID Id
}

// NewThing returns tb:id
func NewThing(tb string, id Id) Thing { return Thing{Tb: tb, ID: id} }

// ParseThing reads "tb:id". Ids made only of digits are numbers, ids in
// angle brackets are taken verbatim, anything else is a string id.
func ParseThing(s string) (Thing, error) {
	tb, id, ok := strings.Cut(s, ":")
	if !ok || tb == "" || id == "" {
		return Thing{}, fmt.Errorf("invalid record id %q", s)
	}
	tb = unescapeIdent(tb)
	if strings.HasPrefix(id, "⟨") && strings.HasSuffix(id, "⟩") {
		return NewThing(tb, IdFromString(unescapeIdent(id))), nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return NewThing(tb, IdFromInt(n)), nil
	}
	return NewThing(tb, IdFromString(id)), nil
}

func unescapeIdent(s string) string {
	if strings.HasPrefix(s, "⟨") && strings.HasSuffix(s, "⟩") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "⟨"), "⟩")
		return strings.ReplaceAll(s, `\⟩`, "⟩")
	}
	return s
}

// Key returns the storage key of the record: the table name, a zero byte,
// then the L85 digest of the rendered id. Keys of one table share the
// prefix table+"\x00".
func (t Thing) Key() []byte {
	digest := codec.Digest(t.ID.String())
	key := make([]byte, 0, len(t.Tb)+1+len(digest))
	key = append(key, t.Tb...)
	key = append(key, 0)
	return append(key, digest...)
}

// TablePrefix is the key prefix shared by every record of tb
func TablePrefix(tb string) []byte {
	return append([]byte(tb), 0)
}

func (Thing) Kind() Kind { return KindThing }
func (Thing) isValue()   {}

// MarshalEvents emits a TokenThing struct {tb, id}
func (t Thing) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	st, err := s.SerializeStruct(TokenThing, 2)
	if err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("tb", t.Tb); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("id", t.ID); err != nil {
		return ser.Ok{}, err
	}
	return st.End()
}

func (t Thing) String() string {
	return escapeIdent(t.Tb) + ":" + t.ID.String()
}

// BoundKind says whether a range end is open, inclusive or exclusive
type BoundKind uint8

const (
	Included BoundKind = iota
	Excluded
	Unbounded
)

var boundKindNames = [...]string{"Included", "Excluded", "Unbounded"}

func (k BoundKind) String() string { return boundKindNames[k] }

// BoundKindOf looks up a bound by its variant name
func BoundKindOf(name string) (BoundKind, bool) {
	for i, n := range boundKindNames {
		if n == name {
			return BoundKind(i), true
		}
	}
	return 0, false
}

// Bound is one end of a Range
type Bound struct {
	Kind BoundKind
	ID   Id
}

func IncludedBound(id Id) Bound { return Bound{Kind: Included, ID: id} }
func ExcludedBound(id Id) Bound { return Bound{Kind: Excluded, ID: id} }
func UnboundedBound() Bound     { return Bound{Kind: Unbounded} }

// MarshalEvents emits a TokenBound variant
func (b Bound) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	if b.Kind == Unbounded {
		return s.SerializeUnitVariant(TokenBound, uint32(b.Kind), b.Kind.String())
	}
	return s.SerializeNewtypeVariant(TokenBound, uint32(b.Kind), b.Kind.String(), b.ID)
}

// Range is a span of record ids within one table
type Range struct {
	Tb  string
	Beg Bound
	End Bound
}

func (*Range) Kind() Kind { return KindRange }
func (*Range) isValue()   {}

// MarshalEvents emits a TokenRange struct {tb, beg, end}
func (r *Range) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	st, err := s.SerializeStruct(TokenRange, 3)
	if err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("tb", r.Tb); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("beg", r.Beg); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("end", r.End); err != nil {
		return ser.Ok{}, err
	}
	return st.End()
}

func (r *Range) String() string {
	var b strings.Builder
	b.WriteString(escapeIdent(r.Tb))
	b.WriteByte(':')
	switch r.Beg.Kind {
	case Included:
		b.WriteString(r.Beg.ID.String())
	case Excluded:
		b.WriteString(r.Beg.ID.String())
		b.WriteByte('>')
	}
	b.WriteString("..")
	switch r.End.Kind {
	case Included:
		b.WriteByte('=')
		b.WriteString(r.End.ID.String())
	case Excluded:
		b.WriteString(r.End.ID.String())
	}
	return b.String()
}

// Dir is the direction of a graph traversal
type Dir uint8

const (
	In Dir = iota
	Out
	Both
)

var dirNames = [...]string{"In", "Out", "Both"}
var dirArrows = [...]string{"<-", "->", "<->"}

func (d Dir) String() string { return dirNames[d] }

// DirOf looks up a direction by its variant name
func DirOf(name string) (Dir, bool) {
	for i, n := range dirNames {
		if n == name {
			return Dir(i), true
		}
	}
	return 0, false
}

// MarshalEvents emits a TokenDir unit variant
func (d Dir) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeUnitVariant(TokenDir, uint32(d), d.String())
}

// Edges is a graph traversal from one record over edge tables
type Edges struct {
	Dir  Dir
	From Thing
	What []Table
}

func (*Edges) Kind() Kind { return KindEdges }
func (*Edges) isValue()   {}

// MarshalEvents emits a TokenEdges struct {dir, from, what}
func (e *Edges) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	st, err := s.SerializeStruct(TokenEdges, 3)
	if err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("dir", e.Dir); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("from", e.From); err != nil {
		return ser.Ok{}, err
	}
	what := e.What
	if what == nil {
		what = []Table{}
	}
	if err := st.SerializeField("what", what); err != nil {
		return ser.Ok{}, err
	}
	return st.End()
}

func (e *Edges) String() string {
	var b strings.Builder
	b.WriteString(e.From.String())
	b.WriteString(dirArrows[e.Dir])
	switch len(e.What) {
	case 0:
		b.WriteByte('?')
	case 1:
		b.WriteString(e.What[0].String())
	default:
		b.WriteByte('(')
		for i, t := range e.What {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}
