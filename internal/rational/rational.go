// Package rational implements exact arithmetic on fractions of
// arbitrary-precision integers. A Number is always stored in lowest terms
// with a positive denominator, is never mutated after construction, and
// none of +, -, *, / introduce rounding at any magnitude.
package rational

import (
	"fmt"
	"hash/fnv"
	"math/big"
)

var (
	intOne = big.NewInt(1)
	intTen = big.NewInt(10)
)

// Number is an immutable rational value. The zero value represents 0.
type Number struct {
	num *big.Int // sign lives here
	den *big.Int // always > 0 once constructed
}

// New returns num/den reduced to lowest terms with the sign moved into the
// numerator. A zero denominator is rejected with ErrDivideByZero.
func New(num, den *big.Int) (Number, error) {
	if den.Sign() == 0 {
		return Number{}, fmt.Errorf("%w: zero denominator", ErrDivideByZero)
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	if n.Sign() == 0 {
		return Number{num: n, den: big.NewInt(1)}, nil
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Cmp(intOne) != 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	return Number{num: n, den: d}, nil
}

// FromInt64 returns the integer v as an exact rational.
func FromInt64(v int64) Number {
	return Number{num: big.NewInt(v), den: big.NewInt(1)}
}

// FromFloat64 lifts the exact binary value of f into a rational. NaN and the
// infinities have no rational representation and are rejected with ErrDomain.
func FromFloat64(f float64) (Number, error) {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return Number{}, fmt.Errorf("%w: %g is not a finite number", ErrDomain, f)
	}
	return Number{
		num: new(big.Int).Set(r.Num()),
		den: new(big.Int).Set(r.Denom()),
	}, nil
}

// Zero returns the canonical zero value 0/1.
func Zero() Number {
	return Number{num: new(big.Int), den: big.NewInt(1)}
}

// One returns the canonical one value 1/1.
func One() Number {
	return FromInt64(1)
}

// numRef and denRef give every method a canonical view of the zero Number.
func (n Number) numRef() *big.Int {
	if n.num == nil {
		return new(big.Int)
	}
	return n.num
}

func (n Number) denRef() *big.Int {
	if n.den == nil {
		return big.NewInt(1)
	}
	return n.den
}

func mustNew(num, den *big.Int) Number {
	v, err := New(num, den)
	if err != nil {
		panic("rational: " + err.Error())
	}
	return v
}

// Add returns n + o exactly.
func (n Number) Add(o Number) Number {
	num := new(big.Int).Mul(n.numRef(), o.denRef())
	num.Add(num, new(big.Int).Mul(o.numRef(), n.denRef()))
	den := new(big.Int).Mul(n.denRef(), o.denRef())
	return mustNew(num, den)
}

// Sub returns n - o exactly.
func (n Number) Sub(o Number) Number {
	num := new(big.Int).Mul(n.numRef(), o.denRef())
	num.Sub(num, new(big.Int).Mul(o.numRef(), n.denRef()))
	den := new(big.Int).Mul(n.denRef(), o.denRef())
	return mustNew(num, den)
}

// Mul returns n * o exactly.
func (n Number) Mul(o Number) Number {
	num := new(big.Int).Mul(n.numRef(), o.numRef())
	den := new(big.Int).Mul(n.denRef(), o.denRef())
	return mustNew(num, den)
}

// Div returns n / o exactly, or ErrDivideByZero when o is zero.
func (n Number) Div(o Number) (Number, error) {
	if o.IsZero() {
		return Number{}, fmt.Errorf("%w: zero divisor", ErrDivideByZero)
	}
	num := new(big.Int).Mul(n.numRef(), o.denRef())
	den := new(big.Int).Mul(n.denRef(), o.numRef())
	return New(num, den)
}

// Neg returns -n.
func (n Number) Neg() Number {
	return Number{
		num: new(big.Int).Neg(n.numRef()),
		den: new(big.Int).Set(n.denRef()),
	}
}

// Abs returns |n|.
func (n Number) Abs() Number {
	return Number{
		num: new(big.Int).Abs(n.numRef()),
		den: new(big.Int).Set(n.denRef()),
	}
}

// Sign reports -1, 0 or +1 for negative, zero or positive n.
func (n Number) Sign() int {
	return n.numRef().Sign()
}

// IsZero reports whether n is exactly zero.
func (n Number) IsZero() bool {
	return n.numRef().Sign() == 0
}

// Cmp compares n and o by cross-multiplication, valid because denominators
// are positive by invariant. It returns -1, 0 or +1.
func (n Number) Cmp(o Number) int {
	lhs := new(big.Int).Mul(n.numRef(), o.denRef())
	rhs := new(big.Int).Mul(o.numRef(), n.denRef())
	return lhs.Cmp(rhs)
}

// Equal reports whether n and o represent the same value.
func (n Number) Equal(o Number) bool {
	return n.Cmp(o) == 0
}

// Num returns a copy of the numerator.
func (n Number) Num() *big.Int {
	return new(big.Int).Set(n.numRef())
}

// Denom returns a copy of the denominator.
func (n Number) Denom() *big.Int {
	return new(big.Int).Set(n.denRef())
}

// Float64 returns the nearest float64 approximation of n.
func (n Number) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(n.numRef(), n.denRef()).Float64()
	return f
}

// String returns the canonical fraction form "num/den", or just "num" when
// the denominator is 1. Equal values always render identically.
func (n Number) String() string {
	if n.denRef().Cmp(intOne) == 0 {
		return n.numRef().String()
	}
	return n.numRef().String() + "/" + n.denRef().String()
}

// Hash returns a 64-bit hash of the canonical value, stable across processes.
func (n Number) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(n.String()))
	return h.Sum64()
}
