package convert

import (
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// idSerializer accepts a TokenId variant, or a bare integer, string,
// sequence or map
type idSerializer struct {
	expecting[sqlvalue.Id]
}

var ids = idSerializer{expecting[sqlvalue.Id]{what: "a record id"}}

func (idSerializer) fromInt(v any) (sqlvalue.Id, error) {
	n, err := ser.Serialize[int64](v, integer)
	if err != nil {
		return sqlvalue.Id{}, err
	}
	return sqlvalue.IdFromInt(n), nil
}

func (s idSerializer) SerializeInt8(v int8) (sqlvalue.Id, error)     { return s.fromInt(v) }
func (s idSerializer) SerializeInt16(v int16) (sqlvalue.Id, error)   { return s.fromInt(v) }
func (s idSerializer) SerializeInt32(v int32) (sqlvalue.Id, error)   { return s.fromInt(v) }
func (s idSerializer) SerializeInt64(v int64) (sqlvalue.Id, error)   { return s.fromInt(v) }
func (s idSerializer) SerializeUint8(v uint8) (sqlvalue.Id, error)   { return s.fromInt(v) }
func (s idSerializer) SerializeUint16(v uint16) (sqlvalue.Id, error) { return s.fromInt(v) }
func (s idSerializer) SerializeUint32(v uint32) (sqlvalue.Id, error) { return s.fromInt(v) }
func (s idSerializer) SerializeUint64(v uint64) (sqlvalue.Id, error) { return s.fromInt(v) }

func (idSerializer) SerializeStr(v string) (sqlvalue.Id, error) {
	return sqlvalue.IdFromString(v), nil
}

func (idSerializer) SerializeSeq(n int) (ser.SeqSerializer[sqlvalue.Id], error) {
	return newValuesBuilder(n, func(a sqlvalue.Array) (sqlvalue.Id, error) {
		return sqlvalue.IdFromArray(a), nil
	}), nil
}

func (idSerializer) SerializeMap(n int) (ser.MapSerializer[sqlvalue.Id], error) {
	return newObjectBuilder(n, func(o *sqlvalue.Object) (sqlvalue.Id, error) {
		return sqlvalue.IdFromObject(o), nil
	}), nil
}

func (s idSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Id, error) {
	return ser.Serialize[sqlvalue.Id](v, s)
}

func (s idSerializer) SerializeNewtypeVariant(name string, _ uint32, variant string, v any) (sqlvalue.Id, error) {
	if name != sqlvalue.TokenId {
		return s.failf("newtype variant `%s::%s`", name, variant)
	}
	k, ok := sqlvalue.IdKindOf(variant)
	if !ok {
		return sqlvalue.Id{}, ser.Custom("unknown variant `Id::%s`", variant)
	}
	switch k {
	case sqlvalue.IdString:
		str, err := ser.Serialize[string](v, text)
		if err != nil {
			return sqlvalue.Id{}, err
		}
		return sqlvalue.IdFromString(str), nil
	case sqlvalue.IdArray:
		a, err := ser.Serialize[[]sqlvalue.Value](v, values)
		if err != nil {
			return sqlvalue.Id{}, err
		}
		return sqlvalue.IdFromArray(a), nil
	case sqlvalue.IdObject:
		o, err := ser.Serialize[*sqlvalue.Object](v, objects)
		if err != nil {
			return sqlvalue.Id{}, err
		}
		return sqlvalue.IdFromObject(o), nil
	}
	return s.fromInt(v)
}

// thingFields accumulates a TokenThing struct
type thingFields struct {
	tb    string
	id    sqlvalue.Id
	hasTb bool
	hasID bool
}

func (f *thingFields) SerializeField(key string, v any) error {
	var err error
	switch key {
	case "tb":
		f.tb, err = ser.Serialize[string](v, text)
		f.hasTb = true
	case "id":
		f.id, err = ser.Serialize[sqlvalue.Id](v, ids)
		f.hasID = true
	default:
		return ser.Custom("unexpected field `Thing::%s`", key)
	}
	return ser.AtField(err, "Thing", key)
}

func (f *thingFields) End() (sqlvalue.Thing, error) {
	switch {
	case !f.hasTb:
		return sqlvalue.Thing{}, &ser.MissingFieldError{Type: "Thing", Field: "tb"}
	case !f.hasID:
		return sqlvalue.Thing{}, &ser.MissingFieldError{Type: "Thing", Field: "id"}
	}
	return sqlvalue.NewThing(f.tb, f.id), nil
}

// thingSerializer accepts a TokenThing struct or "tb:id" text
type thingSerializer struct {
	expecting[sqlvalue.Thing]
}

var things = thingSerializer{expecting[sqlvalue.Thing]{what: "a record"}}

func (thingSerializer) SerializeStr(v string) (sqlvalue.Thing, error) {
	t, err := sqlvalue.ParseThing(v)
	if err != nil {
		return sqlvalue.Thing{}, ser.Custom("%v", err)
	}
	return t, nil
}

func (s thingSerializer) SerializeStruct(name string, n int) (ser.StructSerializer[sqlvalue.Thing], error) {
	if name != sqlvalue.TokenThing {
		return s.expecting.SerializeStruct(name, n)
	}
	return &thingFields{}, nil
}

func (s thingSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Thing, error) {
	return ser.Serialize[sqlvalue.Thing](v, s)
}

// boundSerializer accepts a TokenBound variant
type boundSerializer struct {
	expecting[sqlvalue.Bound]
}

var bounds = boundSerializer{expecting[sqlvalue.Bound]{what: "a range bound"}}

func (s boundSerializer) SerializeUnitVariant(name string, idx uint32, variant string) (sqlvalue.Bound, error) {
	if name != sqlvalue.TokenBound {
		return s.expecting.SerializeUnitVariant(name, idx, variant)
	}
	if k, ok := sqlvalue.BoundKindOf(variant); !ok || k != sqlvalue.Unbounded {
		return sqlvalue.Bound{}, ser.Custom("unknown unit variant `Bound::%s`", variant)
	}
	return sqlvalue.UnboundedBound(), nil
}

func (s boundSerializer) SerializeNewtypeVariant(name string, idx uint32, variant string, v any) (sqlvalue.Bound, error) {
	if name != sqlvalue.TokenBound {
		return s.expecting.SerializeNewtypeVariant(name, idx, variant, v)
	}
	k, ok := sqlvalue.BoundKindOf(variant)
	if !ok || k == sqlvalue.Unbounded {
		return sqlvalue.Bound{}, ser.Custom("unknown variant `Bound::%s`", variant)
	}
	id, err := ser.Serialize[sqlvalue.Id](v, ids)
	if err != nil {
		return sqlvalue.Bound{}, err
	}
	return sqlvalue.Bound{Kind: k, ID: id}, nil
}

// rangeFields accumulates a TokenRange struct
type rangeFields struct {
	out  sqlvalue.Range
	seen [3]bool
}

var rangeFieldNames = [...]string{"tb", "beg", "end"}

func (f *rangeFields) SerializeField(key string, v any) error {
	var err error
	switch key {
	case "tb":
		f.out.Tb, err = ser.Serialize[string](v, text)
		f.seen[0] = true
	case "beg":
		f.out.Beg, err = ser.Serialize[sqlvalue.Bound](v, bounds)
		f.seen[1] = true
	case "end":
		f.out.End, err = ser.Serialize[sqlvalue.Bound](v, bounds)
		f.seen[2] = true
	default:
		return ser.Custom("unexpected field `Range::%s`", key)
	}
	return ser.AtField(err, "Range", key)
}

func (f *rangeFields) End() (*sqlvalue.Range, error) {
	for i, ok := range f.seen {
		if !ok {
			return nil, &ser.MissingFieldError{Type: "Range", Field: rangeFieldNames[i]}
		}
	}
	out := f.out
	return &out, nil
}

// dirSerializer accepts a TokenDir unit variant
type dirSerializer struct {
	expecting[sqlvalue.Dir]
}

var dirs = dirSerializer{expecting[sqlvalue.Dir]{what: "an edge direction"}}

func (s dirSerializer) SerializeUnitVariant(name string, idx uint32, variant string) (sqlvalue.Dir, error) {
	if name != sqlvalue.TokenDir {
		return s.expecting.SerializeUnitVariant(name, idx, variant)
	}
	d, ok := sqlvalue.DirOf(variant)
	if !ok {
		return 0, ser.Custom("unknown unit variant `Dir::%s`", variant)
	}
	return d, nil
}

// tableSerializer accepts a table name, bare or wrapped
type tableSerializer struct {
	expecting[sqlvalue.Table]
}

var table = tableSerializer{expecting[sqlvalue.Table]{what: "a table name"}}

func (tableSerializer) SerializeStr(v string) (sqlvalue.Table, error) {
	return sqlvalue.Table(v), nil
}

func (s tableSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Table, error) {
	return ser.Serialize[sqlvalue.Table](v, s)
}

var tables = listOf[sqlvalue.Table]("a list of tables", table)

// edgesFields accumulates a TokenEdges struct
type edgesFields struct {
	out  sqlvalue.Edges
	seen [3]bool
}

var edgesFieldNames = [...]string{"dir", "from", "what"}

func (f *edgesFields) SerializeField(key string, v any) error {
	var err error
	switch key {
	case "dir":
		f.out.Dir, err = ser.Serialize[sqlvalue.Dir](v, dirs)
		f.seen[0] = true
	case "from":
		f.out.From, err = ser.Serialize[sqlvalue.Thing](v, things)
		f.seen[1] = true
	case "what":
		f.out.What, err = ser.Serialize[[]sqlvalue.Table](v, tables)
		f.seen[2] = true
	default:
		return ser.Custom("unexpected field `Edges::%s`", key)
	}
	return ser.AtField(err, "Edges", key)
}

func (f *edgesFields) End() (*sqlvalue.Edges, error) {
	for i, ok := range f.seen {
		if !ok {
			return nil, &ser.MissingFieldError{Type: "Edges", Field: edgesFieldNames[i]}
		}
	}
	out := f.out
	return &out, nil
}
