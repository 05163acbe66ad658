package sqlvalue

import (
	"cmp"
	"math"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// NumberKind selects the representation held by a Number
type NumberKind uint8

const (
	NumberInt NumberKind = iota
	NumberFloat
	NumberDecimal
)

var numberKindNames = [...]string{"Int", "Float", "Decimal"}

func (k NumberKind) String() string { return numberKindNames[k] }

// NumberKindOf looks up a representation by its variant name
func NumberKindOf(name string) (NumberKind, bool) {
	for i, n := range numberKindNames {
		if n == name {
			return NumberKind(i), true
		}
	}
	return 0, false
}

// maxDecimalCoefficient is 2^96-1, the largest coefficient a Decimal holds
var maxDecimalCoefficient = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

// Number is an Int, a Float or a Decimal
type Number struct {
	kind NumberKind
	i    int64
	f    float64
	d    *apd.Decimal
}

// Int returns an integer Number
func Int(i int64) Number { return Number{kind: NumberInt, i: i} }

// Float returns a floating point Number
func Float(f float64) Number { return Number{kind: NumberFloat, f: f} }

// Decimal returns a decimal Number holding a copy of d. Decimals whose
// coefficient needs more than 96 bits, or that are not finite, fail with
// a *ser.RangeError.
func Decimal(d *apd.Decimal) (Number, error) {
	if d.Form != apd.Finite {
		return Number{}, &ser.RangeError{Literal: d.String(), Target: "Decimal"}
	}
	coeff, ok := new(big.Int).SetString(d.Coeff.String(), 10)
	if !ok || coeff.CmpAbs(maxDecimalCoefficient) > 0 {
		return Number{}, &ser.RangeError{Literal: d.String(), Target: "Decimal"}
	}
	out := new(apd.Decimal)
	out.Set(d)
	return Number{kind: NumberDecimal, d: out}, nil
}

// DecimalFromBig returns the integer b as a Decimal
func DecimalFromBig(b *big.Int) (Number, error) {
	if b.CmpAbs(maxDecimalCoefficient) > 0 {
		return Number{}, &ser.RangeError{Literal: b.String(), Target: "Decimal"}
	}
	d, _, err := apd.NewFromString(b.String())
	if err != nil {
		return Number{}, err
	}
	return Number{kind: NumberDecimal, d: d}, nil
}

// ParseDecimal reads a decimal literal
func ParseDecimal(s string) (Number, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Number{}, &ser.RangeError{Literal: s, Target: "Decimal"}
	}
	return Decimal(d)
}

// MustDecimal is ParseDecimal for literals known to be valid
func MustDecimal(s string) Number {
	n, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (Number) Kind() Kind { return KindNumber }
func (Number) isValue()   {}

// NumberKind reports which representation n holds
func (n Number) NumberKind() NumberKind { return n.kind }

// Int64 returns n truncated to an integer
func (n Number) Int64() int64 {
	switch n.kind {
	case NumberFloat:
		return int64(n.f)
	case NumberDecimal:
		var i apd.Decimal
		ctx := apd.BaseContext.WithPrecision(40)
		ctx.Rounding = apd.RoundDown
		_, _ = ctx.RoundToIntegralValue(&i, n.decimal())
		v, err := i.Int64()
		if err != nil {
			return 0
		}
		return v
	}
	return n.i
}

// Float64 returns n as a float
func (n Number) Float64() float64 {
	switch n.kind {
	case NumberInt:
		return float64(n.i)
	case NumberDecimal:
		f, err := n.decimal().Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return n.f
}

// Decimal returns a copy of n as a decimal. Floats that are not finite
// have no decimal form and return nil.
func (n Number) Decimal() *apd.Decimal {
	switch n.kind {
	case NumberInt:
		return apd.New(n.i, 0)
	case NumberFloat:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(n.f); err != nil || d.Form != apd.Finite {
			return nil
		}
		return d
	}
	out := new(apd.Decimal)
	out.Set(n.decimal())
	return out
}

// decimal treats the zero Decimal as 0
func (n Number) decimal() *apd.Decimal {
	if n.d == nil {
		return apd.New(0, 0)
	}
	return n.d
}

// MarshalEvents emits the number as a TokenNumber variant; decimals travel
// as their exact text.
func (n Number) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	switch n.kind {
	case NumberFloat:
		return s.SerializeNewtypeVariant(TokenNumber, uint32(n.kind), n.kind.String(), n.f)
	case NumberDecimal:
		return s.SerializeNewtypeVariant(TokenNumber, uint32(n.kind), n.kind.String(), n.decimal().String())
	}
	return s.SerializeNewtypeVariant(TokenNumber, uint32(n.kind), n.kind.String(), n.i)
}

func (n Number) String() string {
	switch n.kind {
	case NumberFloat:
		switch {
		case math.IsNaN(n.f):
			return "NaN"
		case math.IsInf(n.f, 1):
			return "Infinity"
		case math.IsInf(n.f, -1):
			return "-Infinity"
		}
		return strconv.FormatFloat(n.f, 'g', -1, 64) + "f"
	case NumberDecimal:
		return n.decimal().Text('f') + "dec"
	}
	return strconv.FormatInt(n.i, 10)
}

func compareNumbers(a, b Number) int {
	if a.kind == NumberInt && b.kind == NumberInt {
		return cmp.Compare(a.i, b.i)
	}
	if a.kind != NumberDecimal && b.kind != NumberDecimal {
		return compareFloats(a.Float64(), b.Float64())
	}
	da, db := a.Decimal(), b.Decimal()
	if da == nil || db == nil {
		return compareFloats(a.Float64(), b.Float64())
	}
	return da.Cmp(db)
}

// compareFloats orders NaN below every other float
func compareFloats(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	return cmp.Compare(a, b)
}

func equalNumbers(a, b Number) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NumberFloat:
		return compareFloats(a.f, b.f) == 0
	case NumberDecimal:
		return a.decimal().Cmp(b.decimal()) == 0
	}
	return a.i == b.i
}
