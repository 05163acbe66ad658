package ser

import (
	"math/big"
)

var (
	two64       = new(big.Int).Lsh(big.NewInt(1), 64)
	two128      = new(big.Int).Lsh(big.NewInt(1), 128)
	minInt128   = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	maxUint128  = new(big.Int).Sub(two128, big.NewInt(1))
	lowWordMask = new(big.Int).Sub(two64, big.NewInt(1))
)

// Int128 is a signed 128-bit integer in two's complement, high word first.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Uint128 is an unsigned 128-bit integer, high word first.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Int128From64 sign-extends v
func Int128From64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// Int128FromBig returns b as an Int128, or false if it does not fit
func Int128FromBig(b *big.Int) (Int128, bool) {
	if b.Cmp(minInt128) < 0 || b.Cmp(maxInt128) > 0 {
		return Int128{}, false
	}
	u := new(big.Int).Set(b)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	lo := new(big.Int).And(u, lowWordMask).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return Int128{Hi: int64(hi), Lo: lo}, true
}

// Big returns the value as a big.Int
func (i Int128) Big() *big.Int {
	b := big.NewInt(i.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

// String returns the decimal literal
func (i Int128) String() string {
	return i.Big().String()
}

// MarshalEvents emits an i128 event
func (i Int128) MarshalEvents(s Serializer[Ok]) (Ok, error) {
	return s.SerializeInt128(i)
}

// Uint128FromBig returns b as a Uint128, or false if it does not fit
func Uint128FromBig(b *big.Int) (Uint128, bool) {
	if b.Sign() < 0 || b.Cmp(maxUint128) > 0 {
		return Uint128{}, false
	}
	lo := new(big.Int).And(b, lowWordMask).Uint64()
	hi := new(big.Int).Rsh(b, 64).Uint64()
	return Uint128{Hi: hi, Lo: lo}, true
}

// MaxUint128 is the largest Uint128
var MaxUint128 = Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}

// Big returns the value as a big.Int
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(u.Lo))
}

// String returns the decimal literal
func (u Uint128) String() string {
	return u.Big().String()
}

// MarshalEvents emits a u128 event
func (u Uint128) MarshalEvents(s Serializer[Ok]) (Ok, error) {
	return s.SerializeUint128(u)
}
