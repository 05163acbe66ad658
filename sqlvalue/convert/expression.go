package convert

import (
	"strconv"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// operatorSerializer accepts a TokenOperator unit variant
type operatorSerializer struct {
	expecting[sqlvalue.Operator]
}

var operators = operatorSerializer{expecting[sqlvalue.Operator]{what: "an operator"}}

func (s operatorSerializer) SerializeUnitVariant(name string, idx uint32, variant string) (sqlvalue.Operator, error) {
	if name != sqlvalue.TokenOperator {
		return s.expecting.SerializeUnitVariant(name, idx, variant)
	}
	op, ok := sqlvalue.OperatorOf(variant)
	if !ok {
		return 0, ser.Custom("unknown unit variant `Operator::%s`", variant)
	}
	return op, nil
}

// expressionFields accumulates a TokenExpression struct
type expressionFields struct {
	out  sqlvalue.Expression
	seen [3]bool
}

var expressionFieldNames = [...]string{"l", "o", "r"}

func (f *expressionFields) SerializeField(key string, v any) error {
	var err error
	switch key {
	case "l":
		f.out.L, err = ToValue(v)
		f.seen[0] = true
	case "o":
		f.out.O, err = ser.Serialize[sqlvalue.Operator](v, operators)
		f.seen[1] = true
	case "r":
		f.out.R, err = ToValue(v)
		f.seen[2] = true
	default:
		return ser.Custom("unexpected field `Expression::%s`", key)
	}
	return ser.AtField(err, "Expression", key)
}

func (f *expressionFields) End() (*sqlvalue.Expression, error) {
	for i, ok := range f.seen {
		if !ok {
			return nil, &ser.MissingFieldError{Type: "Expression", Field: expressionFieldNames[i]}
		}
	}
	out := f.out
	return &out, nil
}

// functionFields accumulates the positional fields of a TokenFunction
// variant: the name, then the operand of a cast or the argument list
type functionFields struct {
	out sqlvalue.Function
	n   int
}

func newFunctionFields(variant string) (*functionFields, error) {
	k, ok := sqlvalue.FunctionKindOf(variant)
	if !ok {
		return nil, ser.Custom("unknown variant `Function::%s`", variant)
	}
	return &functionFields{out: sqlvalue.Function{Form: k}}, nil
}

func (f *functionFields) typ() string { return "Function::" + f.out.Form.String() }

func (f *functionFields) SerializeField(v any) error {
	var err error
	switch f.n {
	case 0:
		f.out.Name, err = ser.Serialize[string](v, text)
	case 1:
		if f.out.Form == sqlvalue.FuncCast {
			var operand sqlvalue.Value
			operand, err = ToValue(v)
			f.out.Args = []sqlvalue.Value{operand}
		} else {
			f.out.Args, err = ser.Serialize[[]sqlvalue.Value](v, values)
		}
	default:
		return ser.Custom("unexpected field %d for `%s`", f.n, f.typ())
	}
	if err != nil {
		return ser.AtField(err, f.typ(), strconv.Itoa(f.n))
	}
	f.n++
	return nil
}

func (f *functionFields) End() (*sqlvalue.Function, error) {
	if f.n < 2 {
		return nil, &ser.MissingFieldError{Type: f.typ(), Field: strconv.Itoa(f.n)}
	}
	out := f.out
	return &out, nil
}

// modelFields accumulates the positional fields of a TokenModel variant:
// table and count, or table, begin and end
type modelFields struct {
	out sqlvalue.Model
	n   int
}

func newModelFields(variant string) (*modelFields, error) {
	k, ok := sqlvalue.ModelKindOf(variant)
	if !ok {
		return nil, ser.Custom("unknown variant `Model::%s`", variant)
	}
	return &modelFields{out: sqlvalue.Model{Form: k}}, nil
}

func (f *modelFields) typ() string { return "Model::" + f.out.Form.String() }

func (f *modelFields) arity() int {
	if f.out.Form == sqlvalue.ModelRange {
		return 3
	}
	return 2
}

func (f *modelFields) SerializeField(v any) error {
	if f.n >= f.arity() {
		return ser.Custom("unexpected field %d for `%s`", f.n, f.typ())
	}
	var err error
	switch f.n {
	case 0:
		f.out.Table, err = ser.Serialize[string](v, text)
	case 1:
		if f.out.Form == sqlvalue.ModelRange {
			f.out.Beg, err = ser.Serialize[uint64](v, unsigned)
		} else {
			f.out.Count, err = ser.Serialize[uint64](v, unsigned)
		}
	case 2:
		f.out.End, err = ser.Serialize[uint64](v, unsigned)
	}
	if err != nil {
		return ser.AtField(err, f.typ(), strconv.Itoa(f.n))
	}
	f.n++
	return nil
}

func (f *modelFields) End() (*sqlvalue.Model, error) {
	if f.n < f.arity() {
		return nil, &ser.MissingFieldError{Type: f.typ(), Field: strconv.Itoa(f.n)}
	}
	out := f.out
	return &out, nil
}
