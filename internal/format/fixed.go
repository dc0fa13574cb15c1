package format

import (
	"math"
	"math/big"
	"strings"
)

// fixedPrec is wide enough to hold a float64 mantissa scaled by 10^20.
const fixedPrec = 256

// ToFixed renders x with the given number of fraction digits. Rounding is
// performed on the exact binary value with ties going away from zero, and
// negative zero prints without a sign.
func ToFixed(x float64, digits int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	if digits < 0 {
		digits = 0
	}

	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	scale := new(big.Float).SetPrec(fixedPrec).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
	v := new(big.Float).SetPrec(fixedPrec).SetFloat64(x)
	v.Mul(v, scale)
	v.Add(v, big.NewFloat(0.5))
	n, _ := v.Int(nil)

	s := n.String()
	if digits == 0 {
		return sign + s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	return sign + s[:len(s)-digits] + "." + s[len(s)-digits:]
}
