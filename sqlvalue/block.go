package sqlvalue

import (
	"math"
	"strings"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// Branch is one condition and result of an IF statement
type Branch struct {
	Cond Value
	Then Value
}

// IfelseStatement is IF c THEN v [ELSE IF ...] [ELSE v] END. Close is the
// final ELSE, nil when there is none.
type IfelseStatement struct {
	Exprs []Branch
	Close Value
}

// MarshalEvents emits a TokenIfelse struct {exprs, close}; exprs is a
// sequence of (cond, then) pairs and close is optional.
func (s *IfelseStatement) MarshalEvents(out ser.Serializer[ser.Ok]) (ser.Ok, error) {
	st, err := out.SerializeStruct(TokenIfelse, 2)
	if err != nil {
		return ser.Ok{}, err
	}
	exprs := make([][2]any, len(s.Exprs))
	for i, b := range s.Exprs {
		exprs[i] = [2]any{AsVariant(b.Cond), AsVariant(b.Then)}
	}
	if err := st.SerializeField("exprs", exprs); err != nil {
		return ser.Ok{}, err
	}
	var closing any
	if s.Close != nil {
		closing = AsVariant(s.Close)
	}
	if err := st.SerializeField("close", closing); err != nil {
		return ser.Ok{}, err
	}
	return st.End()
}

func (s *IfelseStatement) String() string {
	var b strings.Builder
	for i, br := range s.Exprs {
		if i > 0 {
			b.WriteString(" ELSE ")
		}
		b.WriteString("IF ")
		b.WriteString(render(br.Cond))
		b.WriteString(" THEN ")
		b.WriteString(render(br.Then))
	}
	if s.Close != nil {
		b.WriteString(" ELSE ")
		b.WriteString(s.Close.String())
	}
	b.WriteString(" END")
	return b.String()
}

func equalIfelse(a, b *IfelseStatement) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Exprs) != len(b.Exprs) {
		return false
	}
	for i := range a.Exprs {
		if !Equal(a.Exprs[i].Cond, b.Exprs[i].Cond) || !Equal(a.Exprs[i].Then, b.Exprs[i].Then) {
			return false
		}
	}
	if a.Close == nil || b.Close == nil {
		return a.Close == nil && b.Close == nil
	}
	return Equal(a.Close, b.Close)
}

// SubqueryKind selects the statement inside a Subquery
type SubqueryKind uint8

const (
	SubqueryValue SubqueryKind = iota
	SubqueryIfelse
	SubqueryOutput
)

var subqueryKindNames = [...]string{"Value", "Ifelse", "Output"}

func (k SubqueryKind) String() string { return subqueryKindNames[k] }

// SubqueryKindOf looks up a statement kind by variant name
func SubqueryKindOf(name string) (SubqueryKind, bool) {
	for i, n := range subqueryKindNames {
		if n == name {
			return SubqueryKind(i), true
		}
	}
	return 0, false
}

// Subquery is a parenthesised value or statement. Ifelse is set for
// SubqueryIfelse, Value otherwise.
type Subquery struct {
	Form   SubqueryKind
	Value  Value
	Ifelse *IfelseStatement
}

func (*Subquery) Kind() Kind { return KindSubquery }
func (*Subquery) isValue()   {}

// MarshalEvents emits a TokenSubquery newtype variant
func (q *Subquery) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	if q.Form == SubqueryIfelse {
		return s.SerializeNewtypeVariant(TokenSubquery, uint32(q.Form), q.Form.String(), q.ifelse())
	}
	return s.SerializeNewtypeVariant(TokenSubquery, uint32(q.Form), q.Form.String(), AsVariant(q.Value))
}

func (q *Subquery) ifelse() *IfelseStatement {
	if q.Ifelse == nil {
		return &IfelseStatement{}
	}
	return q.Ifelse
}

func (q *Subquery) String() string {
	switch q.Form {
	case SubqueryIfelse:
		return "(" + q.ifelse().String() + ")"
	case SubqueryOutput:
		return "(RETURN " + render(q.Value) + ")"
	}
	return "(" + render(q.Value) + ")"
}

// EntryKind selects the statement of a block Entry
type EntryKind uint8

const (
	EntryValue EntryKind = iota
	EntryIfelse
	EntryOutput
)

var entryKindNames = [...]string{"Value", "Ifelse", "Output"}

func (k EntryKind) String() string { return entryKindNames[k] }

// EntryKindOf looks up a statement kind by variant name
func EntryKindOf(name string) (EntryKind, bool) {
	for i, n := range entryKindNames {
		if n == name {
			return EntryKind(i), true
		}
	}
	return 0, false
}

// Entry is one statement of a Block
type Entry struct {
	Form   EntryKind
	Value  Value
	Ifelse *IfelseStatement
}

// MarshalEvents emits a TokenEntry newtype variant
func (e Entry) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	if e.Form == EntryIfelse {
		ifelse := e.Ifelse
		if ifelse == nil {
			ifelse = &IfelseStatement{}
		}
		return s.SerializeNewtypeVariant(TokenEntry, uint32(e.Form), e.Form.String(), ifelse)
	}
	return s.SerializeNewtypeVariant(TokenEntry, uint32(e.Form), e.Form.String(), AsVariant(e.Value))
}

func (e Entry) String() string {
	switch e.Form {
	case EntryIfelse:
		if e.Ifelse == nil {
			return (&IfelseStatement{}).String()
		}
		return e.Ifelse.String()
	case EntryOutput:
		return "RETURN " + render(e.Value)
	}
	return render(e.Value)
}

func equalEntries(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Form != b[i].Form {
			return false
		}
		if a[i].Form == EntryIfelse {
			if !equalIfelse(a[i].Ifelse, b[i].Ifelse) {
				return false
			}
		} else if !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// Block is a sequence of statements
type Block struct {
	Entries []Entry
}

func (*Block) Kind() Kind { return KindBlock }
func (*Block) isValue()   {}

// MarshalEvents emits a TokenBlock newtype over the entries
func (b *Block) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenBlock, b.entries())
}

func (b *Block) entries() []Entry {
	if b == nil || b.Entries == nil {
		return []Entry{}
	}
	return b.Entries
}

func (b *Block) String() string {
	entries := b.entries()
	if len(entries) == 0 {
		return "{}"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Future is a block evaluated lazily
type Future struct {
	Block Block
}

func (*Future) Kind() Kind { return KindFuture }
func (*Future) isValue()   {}

// MarshalEvents emits a TokenFuture newtype over the block entries
func (f *Future) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenFuture, f.Block.entries())
}

func (f *Future) String() string {
	return "<future> " + f.Block.String()
}

// Constant is a named mathematical constant
type Constant uint8

const (
	MathE Constant = iota
	MathFrac1Pi
	MathFrac1Sqrt2
	MathFrac2Pi
	MathFrac2SqrtPi
	MathFracPi2
	MathFracPi3
	MathFracPi4
	MathFracPi6
	MathFracPi8
	MathLn10
	MathLn2
	MathLog102
	MathLog10E
	MathLog210
	MathLog2E
	MathPi
	MathSqrt2
	MathTau
)

var constants = [...]struct {
	name  string
	text  string
	value float64
}{
	MathE:           {"MathE", "math::e", math.E},
	MathFrac1Pi:     {"MathFrac1Pi", "math::frac_1_pi", 1 / math.Pi},
	MathFrac1Sqrt2:  {"MathFrac1Sqrt2", "math::frac_1_sqrt_2", 1 / math.Sqrt2},
	MathFrac2Pi:     {"MathFrac2Pi", "math::frac_2_pi", 2 / math.Pi},
	MathFrac2SqrtPi: {"MathFrac2SqrtPi", "math::frac_2_sqrt_pi", 2 / math.SqrtPi},
	MathFracPi2:     {"MathFracPi2", "math::frac_pi_2", math.Pi / 2},
	MathFracPi3:     {"MathFracPi3", "math::frac_pi_3", math.Pi / 3},
	MathFracPi4:     {"MathFracPi4", "math::frac_pi_4", math.Pi / 4},
	MathFracPi6:     {"MathFracPi6", "math::frac_pi_6", math.Pi / 6},
	MathFracPi8:     {"MathFracPi8", "math::frac_pi_8", math.Pi / 8},
	MathLn10:        {"MathLn10", "math::ln_10", math.Ln10},
	MathLn2:         {"MathLn2", "math::ln_2", math.Ln2},
	MathLog102:      {"MathLog102", "math::log10_2", math.Log10E * math.Ln2},
	MathLog10E:      {"MathLog10E", "math::log10_e", math.Log10E},
	MathLog210:      {"MathLog210", "math::log2_10", math.Log2E * math.Ln10},
	MathLog2E:       {"MathLog2E", "math::log2_e", math.Log2E},
	MathPi:          {"MathPi", "math::pi", math.Pi},
	MathSqrt2:       {"MathSqrt2", "math::sqrt_2", math.Sqrt2},
	MathTau:         {"MathTau", "math::tau", 2 * math.Pi},
}

// ConstantOf looks up a constant by variant name
func ConstantOf(name string) (Constant, bool) {
	for i, c := range constants {
		if c.name == name {
			return Constant(i), true
		}
	}
	return 0, false
}

// Name returns the variant name
func (c Constant) Name() string { return constants[c].name }

// Float64 returns the value of the constant
func (c Constant) Float64() float64 { return constants[c].value }

func (Constant) Kind() Kind { return KindConstant }
func (Constant) isValue()   {}

// MarshalEvents emits a TokenConstant unit variant
func (c Constant) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeUnitVariant(TokenConstant, uint32(c), c.Name())
}

func (c Constant) String() string { return constants[c].text }
