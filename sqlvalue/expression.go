package sqlvalue

import (
	"strconv"
	"strings"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// Operator is a binary operator of an Expression
type Operator uint8

const (
	OpOr Operator = iota
	OpAnd
	OpTco
	OpNco
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpExact
	OpEqual
	OpNotEqual
	OpAllEqual
	OpAnyEqual
	OpLike
	OpNotLike
	OpAllLike
	OpAnyLike
	OpLessThan
	OpLessThanOrEqual
	OpMoreThan
	OpMoreThanOrEqual
	OpContain
	OpNotContain
	OpContainAll
	OpContainAny
	OpContainNone
	OpInside
	OpNotInside
	OpAllInside
	OpAnyInside
	OpNoneInside
	OpOutside
	OpIntersects
)

var operators = [...]struct {
	name   string
	symbol string
}{
	OpOr:              {"Or", "OR"},
	OpAnd:             {"And", "AND"},
	OpTco:             {"Tco", "?:"},
	OpNco:             {"Nco", "??"},
	OpAdd:             {"Add", "+"},
	OpSub:             {"Sub", "-"},
	OpMul:             {"Mul", "*"},
	OpDiv:             {"Div", "/"},
	OpPow:             {"Pow", "**"},
	OpExact:           {"Exact", "=="},
	OpEqual:           {"Equal", "="},
	OpNotEqual:        {"NotEqual", "!="},
	OpAllEqual:        {"AllEqual", "*="},
	OpAnyEqual:        {"AnyEqual", "?="},
	OpLike:            {"Like", "~"},
	OpNotLike:         {"NotLike", "!~"},
	OpAllLike:         {"AllLike", "*~"},
	OpAnyLike:         {"AnyLike", "?~"},
	OpLessThan:        {"LessThan", "<"},
	OpLessThanOrEqual: {"LessThanOrEqual", "<="},
	OpMoreThan:        {"MoreThan", ">"},
	OpMoreThanOrEqual: {"MoreThanOrEqual", ">="},
	OpContain:         {"Contain", "CONTAINS"},
	OpNotContain:      {"NotContain", "CONTAINSNOT"},
	OpContainAll:      {"ContainAll", "CONTAINSALL"},
	OpContainAny:      {"ContainAny", "CONTAINSANY"},
	OpContainNone:     {"ContainNone", "CONTAINSNONE"},
	OpInside:          {"Inside", "INSIDE"},
	OpNotInside:       {"NotInside", "NOTINSIDE"},
	OpAllInside:       {"AllInside", "ALLINSIDE"},
	OpAnyInside:       {"AnyInside", "ANYINSIDE"},
	OpNoneInside:      {"NoneInside", "NONEINSIDE"},
	OpOutside:         {"Outside", "OUTSIDE"},
	OpIntersects:      {"Intersects", "INTERSECTS"},
}

// String returns the variant name
func (o Operator) String() string { return operators[o].name }

// Symbol returns the operator as written in a query
func (o Operator) Symbol() string { return operators[o].symbol }

// OperatorOf looks up an operator by variant name
func OperatorOf(name string) (Operator, bool) {
	for i, op := range operators {
		if op.name == name {
			return Operator(i), true
		}
	}
	return 0, false
}

// MarshalEvents emits a TokenOperator unit variant
func (o Operator) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeUnitVariant(TokenOperator, uint32(o), o.String())
}

// Expression is a binary operation
type Expression struct {
	L Value
	O Operator
	R Value
}

func (*Expression) Kind() Kind { return KindExpression }
func (*Expression) isValue()   {}

// MarshalEvents emits a TokenExpression struct {l, o, r}
func (e *Expression) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	st, err := s.SerializeStruct(TokenExpression, 3)
	if err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("l", AsVariant(e.L)); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("o", e.O); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("r", AsVariant(e.R)); err != nil {
		return ser.Ok{}, err
	}
	return st.End()
}

func (e *Expression) String() string {
	return render(e.L) + " " + e.O.Symbol() + " " + render(e.R)
}

// FunctionKind selects the form of a function call
type FunctionKind uint8

const (
	FuncCast FunctionKind = iota
	FuncNormal
	FuncCustom
	FuncScript
)

var functionKindNames = [...]string{"Cast", "Normal", "Custom", "Script"}

func (k FunctionKind) String() string { return functionKindNames[k] }

// FunctionKindOf looks up a function form by variant name
func FunctionKindOf(name string) (FunctionKind, bool) {
	for i, n := range functionKindNames {
		if n == name {
			return FunctionKind(i), true
		}
	}
	return 0, false
}

// Function is a call. Cast carries the target type in Name and the operand
// as the single argument; Script carries the script source in Name.
type Function struct {
	Form FunctionKind
	Name string
	Args []Value
}

// Cast returns <name> v
func Cast(name string, v Value) *Function {
	return &Function{Form: FuncCast, Name: name, Args: []Value{v}}
}

// Call returns name(args...)
func Call(name string, args ...Value) *Function {
	return &Function{Form: FuncNormal, Name: name, Args: args}
}

func (*Function) Kind() Kind { return KindFunction }
func (*Function) isValue()   {}

// MarshalEvents emits a TokenFunction tuple variant: Cast(name, value) or
// Normal/Custom/Script(name, [args])
func (f *Function) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	tv, err := s.SerializeTupleVariant(TokenFunction, uint32(f.Form), f.Form.String(), 2)
	if err != nil {
		return ser.Ok{}, err
	}
	if err := tv.SerializeField(f.Name); err != nil {
		return ser.Ok{}, err
	}
	if f.Form == FuncCast {
		var operand Value = None{}
		if len(f.Args) > 0 {
			operand = f.Args[0]
		}
		err = tv.SerializeField(AsVariant(operand))
	} else {
		err = tv.SerializeField(variants(f.Args))
	}
	if err != nil {
		return ser.Ok{}, err
	}
	return tv.End()
}

func (f *Function) String() string {
	var b strings.Builder
	switch f.Form {
	case FuncCast:
		b.WriteString("<" + f.Name + "> ")
		if len(f.Args) > 0 {
			b.WriteString(render(f.Args[0]))
		} else {
			b.WriteString(None{}.String())
		}
		return b.String()
	case FuncCustom:
		b.WriteString("fn::" + f.Name)
	case FuncScript:
		b.WriteString("function")
	default:
		b.WriteString(f.Name)
	}
	b.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(render(a))
	}
	b.WriteByte(')')
	if f.Form == FuncScript {
		b.WriteString(" {" + f.Name + "}")
	}
	return b.String()
}

// ModelKind selects how a Model enumerates record ids
type ModelKind uint8

const (
	ModelCount ModelKind = iota
	ModelRange
)

var modelKindNames = [...]string{"Count", "Range"}

func (k ModelKind) String() string { return modelKindNames[k] }

// ModelKindOf looks up a model form by variant name
func ModelKindOf(name string) (ModelKind, bool) {
	for i, n := range modelKindNames {
		if n == name {
			return ModelKind(i), true
		}
	}
	return 0, false
}

// Model generates record ids: Count ids in Table, or the ids Beg..End
type Model struct {
	Form  ModelKind
	Table string
	Count uint64
	Beg   uint64
	End   uint64
}

func (*Model) Kind() Kind { return KindModel }
func (*Model) isValue()   {}

// MarshalEvents emits a TokenModel tuple variant: Count(table, n) or
// Range(table, beg, end)
func (m *Model) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	fields := []any{m.Table, m.Count}
	if m.Form == ModelRange {
		fields = []any{m.Table, m.Beg, m.End}
	}
	tv, err := s.SerializeTupleVariant(TokenModel, uint32(m.Form), m.Form.String(), len(fields))
	if err != nil {
		return ser.Ok{}, err
	}
	for _, f := range fields {
		if err := tv.SerializeField(f); err != nil {
			return ser.Ok{}, err
		}
	}
	return tv.End()
}

func (m *Model) String() string {
	if m.Form == ModelRange {
		return "|" + m.Table + ":" + strconv.FormatUint(m.Beg, 10) + ".." + strconv.FormatUint(m.End, 10) + "|"
	}
	return "|" + m.Table + ":" + strconv.FormatUint(m.Count, 10) + "|"
}
