package convert

import (
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// optionValueSerializer is the root Serializer except that an absent
// value stays absent instead of becoming None
type optionValueSerializer struct {
	Serializer
}

var optional = optionValueSerializer{}

func (optionValueSerializer) SerializeNone() (sqlvalue.Value, error) { return nil, nil }

// branchSerializer accepts a (condition, result) pair
type branchSerializer struct {
	expecting[sqlvalue.Branch]
}

var branch = branchSerializer{expecting[sqlvalue.Branch]{what: "a condition and result pair"}}

func (branchSerializer) SerializeSeq(int) (ser.SeqSerializer[sqlvalue.Branch], error) {
	return newValuesBuilder(2, pairToBranch), nil
}

func (branchSerializer) SerializeTuple(int) (ser.SeqSerializer[sqlvalue.Branch], error) {
	return newValuesBuilder(2, pairToBranch), nil
}

func pairToBranch(a sqlvalue.Array) (sqlvalue.Branch, error) {
	if len(a) != 2 {
		return sqlvalue.Branch{}, ser.Custom("a branch has 2 elements, got %d", len(a))
	}
	return sqlvalue.Branch{Cond: a[0], Then: a[1]}, nil
}

var branches = listOf[sqlvalue.Branch]("a list of branches", branch)

// ifelseSerializer accepts a TokenIfelse struct
type ifelseSerializer struct {
	expecting[*sqlvalue.IfelseStatement]
}

var ifelses = ifelseSerializer{expecting[*sqlvalue.IfelseStatement]{what: "an IF statement"}}

func (s ifelseSerializer) SerializeStruct(name string, n int) (ser.StructSerializer[*sqlvalue.IfelseStatement], error) {
	if name != sqlvalue.TokenIfelse {
		return s.expecting.SerializeStruct(name, n)
	}
	return &ifelseFields{}, nil
}

// ifelseFields accumulates the branches and optional ELSE of an IF
type ifelseFields struct {
	out      sqlvalue.IfelseStatement
	hasExprs bool
}

func (f *ifelseFields) SerializeField(key string, v any) error {
	var err error
	switch key {
	case "exprs":
		f.out.Exprs, err = ser.Serialize[[]sqlvalue.Branch](v, branches)
		f.hasExprs = true
	case "close":
		f.out.Close, err = ser.Serialize[sqlvalue.Value](v, optional)
	default:
		return ser.Custom("unexpected field `IfelseStatement::%s`", key)
	}
	return ser.AtField(err, "IfelseStatement", key)
}

func (f *ifelseFields) End() (*sqlvalue.IfelseStatement, error) {
	if !f.hasExprs {
		return nil, &ser.MissingFieldError{Type: "IfelseStatement", Field: "exprs"}
	}
	out := f.out
	return &out, nil
}

// subqueryFromVariant rebuilds a Subquery from its statement payload
func subqueryFromVariant(variant string, v any) (*sqlvalue.Subquery, error) {
	k, ok := sqlvalue.SubqueryKindOf(variant)
	if !ok {
		return nil, ser.Custom("unknown variant `Subquery::%s`", variant)
	}
	if k == sqlvalue.SubqueryIfelse {
		s, err := ser.Serialize[*sqlvalue.IfelseStatement](v, ifelses)
		if err != nil {
			return nil, err
		}
		return &sqlvalue.Subquery{Form: k, Ifelse: s}, nil
	}
	val, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	return &sqlvalue.Subquery{Form: k, Value: val}, nil
}

// entrySerializer accepts a TokenEntry variant
type entrySerializer struct {
	expecting[sqlvalue.Entry]
}

var entry = entrySerializer{expecting[sqlvalue.Entry]{what: "a block entry"}}

func (s entrySerializer) SerializeNewtypeVariant(name string, idx uint32, variant string, v any) (sqlvalue.Entry, error) {
	if name != sqlvalue.TokenEntry {
		return s.expecting.SerializeNewtypeVariant(name, idx, variant, v)
	}
	k, ok := sqlvalue.EntryKindOf(variant)
	if !ok {
		return sqlvalue.Entry{}, ser.Custom("unknown variant `Entry::%s`", variant)
	}
	if k == sqlvalue.EntryIfelse {
		st, err := ser.Serialize[*sqlvalue.IfelseStatement](v, ifelses)
		if err != nil {
			return sqlvalue.Entry{}, err
		}
		return sqlvalue.Entry{Form: k, Ifelse: st}, nil
	}
	val, err := ToValue(v)
	if err != nil {
		return sqlvalue.Entry{}, err
	}
	return sqlvalue.Entry{Form: k, Value: val}, nil
}

var entries = listOf[sqlvalue.Entry]("block entries", entry)
