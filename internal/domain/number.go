package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber parses a numeric cell written under any locale. Both ',' and
// '.' are accepted as decimal separator; when both occur the last one wins
// and the other is treated as a thousands separator. Anything unparseable
// or out of float64 range yields 0.
func ParseNumber(s string) float64 {
	d, ok := parseDecimal(s)
	if !ok {
		return 0
	}
	return Finite(d.InexactFloat64())
}

// parseDecimal is ParseNumber without the float conversion
func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", ""))
	s = strings.ReplaceAll(s, " ", "")
	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, false
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Finite maps NaN and infinities to 0
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NonNegative clamps v to zero from below. Non-finite values become 0.
func NonNegative(v float64) float64 {
	v = Finite(v)
	if v < 0 {
		return 0
	}
	return v
}
