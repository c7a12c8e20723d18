package rational

import (
	"fmt"
	"math"
	"math/big"
)

const sqrtMaxIterations = 50

// sqrtTolerance is the absolute convergence threshold 10^-30. It is absolute,
// not relative, so results for extremely large or small magnitudes carry
// proportionally fewer correct significant digits.
var sqrtTolerance = Number{
	num: big.NewInt(1),
	den: new(big.Int).Exp(intTen, big.NewInt(30), nil),
}

// Sqrt returns the square root of n, computed by Newton-Raphson iteration in
// exact rational arithmetic. The float64 approximation of n only seeds the
// first guess; every refinement step is exact. Iteration stops when two
// successive guesses differ by less than 10^-30 or after 50 rounds. Negative
// input is ErrDomain; zero input returns exact zero.
func (n Number) Sqrt() (Number, error) {
	if n.Sign() < 0 {
		return Number{}, fmt.Errorf("%w: square root of a negative number", ErrDomain)
	}
	if n.IsZero() {
		return Zero(), nil
	}

	x := One()
	if f := math.Sqrt(n.Float64()); !math.IsInf(f, 0) && f > 0 {
		if seed, err := FromFloat64(f); err == nil {
			x = seed
		}
	}

	two := FromInt64(2)
	for i := 0; i < sqrtMaxIterations; i++ {
		q, err := n.Div(x) // x > 0 throughout
		if err != nil {
			return Number{}, err
		}
		next, err := x.Add(q).Div(two)
		if err != nil {
			return Number{}, err
		}
		if next.Sub(x).Abs().Cmp(sqrtTolerance) < 0 {
			return next, nil
		}
		x = next
	}
	return x, nil
}
