package rational

import (
	"bytes"
	"math/big"
	"strings"
)

// DecimalString renders the number in positional decimal notation with at
// most maxDigits fractional digits. Excess digits are truncated, never
// rounded, so the printed value is always between zero and the exact value.
// Trailing zeros in the fraction are stripped, and a fraction that strips to
// nothing drops the decimal point as well.
func (n Number) DecimalString(maxDigits int) string {
	den := n.denRef()
	magnitude := new(big.Int).Abs(n.numRef())

	intPart, rem := new(big.Int).QuoRem(magnitude, den, new(big.Int))

	var b strings.Builder
	b.WriteString(intPart.String())

	if rem.Sign() != 0 && maxDigits > 0 {
		frac := make([]byte, 0, maxDigits)
		digit := new(big.Int)
		for i := 0; i < maxDigits && rem.Sign() != 0; i++ {
			rem.Mul(rem, intTen)
			digit.QuoRem(rem, den, rem)
			frac = append(frac, byte('0'+digit.Int64()))
		}
		frac = bytes.TrimRight(frac, "0")
		if len(frac) > 0 {
			b.WriteByte('.')
			b.Write(frac)
		}
	}

	out := b.String()
	// The sign lives on the numerator, but a truncated magnitude can be all
	// zeros; "-0" is never a valid rendering.
	if n.numRef().Sign() < 0 && out != "0" {
		out = "-" + out
	}
	return out
}
