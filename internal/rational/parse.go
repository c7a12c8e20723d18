package rational

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// maxExponent bounds the scientific-notation exponent so a hostile input
// cannot demand a multi-megabyte power of ten.
const maxExponent = 10_000

// Parse converts decimal or scientific-notation text into an exact rational.
// It accepts an optional sign, integer digits, an optional '.' followed by
// fraction digits, and an optional e/E with a signed integer exponent.
// "1." and ".5" are valid; "." alone, repeated separators, and any other
// character are ErrFormat.
func Parse(s string) (Number, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Number{}, fmt.Errorf("%w: empty input", ErrFormat)
	}

	mantissa, exponent, err := splitExponent(text)
	if err != nil {
		return Number{}, err
	}

	num, fracDigits, err := parseMantissa(mantissa)
	if err != nil {
		return Number{}, err
	}

	den := new(big.Int).Exp(intTen, big.NewInt(int64(fracDigits)), nil)

	// The exponent scales the numerator when non-negative and the
	// denominator when negative, per base-ten positional semantics.
	if exponent != 0 {
		scale := new(big.Int).Exp(intTen, big.NewInt(abs64(exponent)), nil)
		if exponent > 0 {
			num.Mul(num, scale)
		} else {
			den.Mul(den, scale)
		}
	}

	return New(num, den)
}

// splitExponent separates the mantissa from an optional e/E exponent and
// validates that at most one marker is present.
func splitExponent(s string) (mantissa string, exponent int64, err error) {
	idx := strings.IndexAny(s, "eE")
	if idx < 0 {
		return s, 0, nil
	}
	mantissa, expText := s[:idx], s[idx+1:]
	if strings.ContainsAny(expText, "eE") {
		return "", 0, fmt.Errorf("%w: multiple exponent markers in %q", ErrFormat, s)
	}
	if mantissa == "" {
		return "", 0, fmt.Errorf("%w: missing mantissa in %q", ErrFormat, s)
	}
	exponent, perr := strconv.ParseInt(expText, 10, 64)
	if perr != nil {
		return "", 0, fmt.Errorf("%w: bad exponent in %q", ErrFormat, s)
	}
	if exponent > maxExponent || exponent < -maxExponent {
		return "", 0, fmt.Errorf("%w: exponent out of range in %q", ErrFormat, s)
	}
	return mantissa, exponent, nil
}

// parseMantissa converts "[sign]digits[.digits]" into a signed integer made
// of all digits and the count of digits that sat right of the point.
func parseMantissa(s string) (*big.Int, int, error) {
	body := s
	sign := ""
	if body != "" && (body[0] == '+' || body[0] == '-') {
		sign = body[:1]
		body = body[1:]
	}

	intPart := body
	fracPart := ""
	if dot := strings.IndexByte(body, '.'); dot >= 0 {
		intPart, fracPart = body[:dot], body[dot+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return nil, 0, fmt.Errorf("%w: multiple decimal points in %q", ErrFormat, s)
		}
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return nil, 0, fmt.Errorf("%w: unexpected character in %q", ErrFormat, s)
	}

	digits := intPart + fracPart
	if digits == "" {
		return nil, 0, fmt.Errorf("%w: no digits in %q", ErrFormat, s)
	}

	num, ok := new(big.Int).SetString(sign+digits, 10)
	if !ok {
		return nil, 0, fmt.Errorf("%w: cannot read digits in %q", ErrFormat, s)
	}
	return num, len(fracPart), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
