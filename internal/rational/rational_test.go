package rational

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Number {
	t.Helper()
	v, err := Parse(s)
	require.NoError(t, err, "parsing %q", s)
	return v
}

func TestNewReducesAndNormalizesSign(t *testing.T) {
	tests := []struct {
		num, den   int64
		wantString string
	}{
		{6, 4, "3/2"},
		{-6, 4, "-3/2"},
		{6, -4, "-3/2"},
		{-6, -4, "3/2"},
		{0, 5, "0"},
		{0, -5, "0"},
		{7, 1, "7"},
		{10, 10, "1"},
	}
	for _, tc := range tests {
		v, err := New(big.NewInt(tc.num), big.NewInt(tc.den))
		require.NoError(t, err)
		assert.Equal(t, tc.wantString, v.String(), "%d/%d", tc.num, tc.den)
	}
}

func TestNewRejectsZeroDenominator(t *testing.T) {
	_, err := New(big.NewInt(1), big.NewInt(0))
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestArithmeticExactness(t *testing.T) {
	// (a / b) * b must recover a exactly for any nonzero b.
	pairs := [][2]string{
		{"1", "3"},
		{"0.1", "0.3"},
		{"-2.5", "7"},
		{"123456789123456789.123456789", "0.000000000000001"},
		{"1e20", "3e-20"},
	}
	for _, p := range pairs {
		a := mustParse(t, p[0])
		b := mustParse(t, p[1])
		q, err := a.Div(b)
		require.NoError(t, err)
		assert.True(t, q.Mul(b).Equal(a), "(%s / %s) * %s != %s", p[0], p[1], p[1], p[0])
	}
}

func TestOneThirdTimesThreeIsOne(t *testing.T) {
	third, err := One().Div(FromInt64(3))
	require.NoError(t, err)
	assert.True(t, third.Mul(FromInt64(3)).Equal(One()))
}

func TestCommutativityAndAssociativity(t *testing.T) {
	values := []Number{
		One(),
		mustParse(t, "0.5"),
		mustParse(t, "-0.25"),
		mustParse(t, "3.14159"),
		mustParse(t, "-2"),
	}
	for _, a := range values {
		for _, b := range values {
			assert.True(t, a.Add(b).Equal(b.Add(a)))
			assert.True(t, a.Mul(b).Equal(b.Mul(a)))
			for _, c := range values {
				assert.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))))
				assert.True(t, a.Mul(b).Mul(c).Equal(a.Mul(b.Mul(c))))
			}
		}
	}
}

func TestDivByZero(t *testing.T) {
	_, err := One().Div(Zero())
	require.ErrorIs(t, err, ErrDivideByZero)

	// A value that is zero without being the canonical Zero() literal.
	z := mustParse(t, "0.000")
	_, err = FromInt64(5).Div(z)
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestCmpCrossMultiplication(t *testing.T) {
	third, err := New(big.NewInt(1), big.NewInt(3))
	require.NoError(t, err)
	twoQuarters, err := New(big.NewInt(2), big.NewInt(4))
	require.NoError(t, err)

	assert.Equal(t, -1, third.Cmp(mustParse(t, "0.34")))
	assert.Equal(t, 1, third.Cmp(mustParse(t, "0.33")))
	assert.Equal(t, 0, mustParse(t, "0.5").Cmp(twoQuarters))
	assert.Equal(t, -1, mustParse(t, "-3").Cmp(mustParse(t, "-2")))
}

func TestNegAbsSign(t *testing.T) {
	v := mustParse(t, "-0.75")
	assert.Equal(t, "3/4", v.Neg().String())
	assert.Equal(t, "3/4", v.Abs().String())
	assert.Equal(t, -1, v.Sign())
	assert.Equal(t, 0, Zero().Sign())
	assert.True(t, Zero().Neg().Equal(Zero()))
}

func TestZeroValueBehavesAsZero(t *testing.T) {
	var v Number
	assert.True(t, v.IsZero())
	assert.Equal(t, "0", v.String())
	assert.True(t, v.Add(One()).Equal(One()))
	assert.True(t, One().Mul(v).IsZero())
}

func TestFromFloat64(t *testing.T) {
	v, err := FromFloat64(0.5)
	require.NoError(t, err)
	assert.Equal(t, "1/2", v.String())

	v, err = FromFloat64(-3)
	require.NoError(t, err)
	assert.Equal(t, "-3", v.String())

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FromFloat64(f)
		require.ErrorIs(t, err, ErrDomain)
	}
}

func TestHashStableForEqualValues(t *testing.T) {
	a, err := New(big.NewInt(2), big.NewInt(4))
	require.NoError(t, err)
	b := mustParse(t, "0.5")
	require.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), mustParse(t, "0.25").Hash())
}
