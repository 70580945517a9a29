// Package format renders monetary values and percentages for display.
// The functions are total: they never panic and fall back to a zero rendering
// for anything that is not a finite number.
package format

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

const (
	zeroCurrency   = "$0.00"
	zeroPercentage = "0.00%"
)

// Currency renders v as "$" followed by the value fixed to two decimals, e.g. "$1234.50".
// Non-numeric input renders as "$0.00".
func Currency(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return zeroCurrency
	}
	return "$" + fixed2(d)
}

// Percentage renders v signed and fixed to two decimals with a trailing "%", e.g. "+2.00%" or "-3.46%".
// Non-numeric input renders as "0.00%".
func Percentage(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return zeroPercentage
	}
	sign := ""
	if !d.IsNegative() {
		sign = "+"
	}
	return sign + fixed2(d) + "%"
}

// fixed2 rounds half away from zero and keeps the sign of values that round to zero.
func fixed2(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsNegative() && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// toDecimal converts the supported numeric representations, reporting false for anything else.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return fromString(strconv.FormatUint(uint64(n), 10))
	case uint32:
		return fromString(strconv.FormatUint(uint64(n), 10))
	case uint64:
		return fromString(strconv.FormatUint(n, 10))
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case model.Number:
		return n.Decimal, true
	case json.Number:
		return fromString(string(n))
	case string:
		return fromString(n)
	case *float64:
		if n == nil {
			return decimal.Zero, false
		}
		return fromFloat(*n)
	default:
		return decimal.Zero, false
	}
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func fromString(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
