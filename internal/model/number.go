package model

import (
	"bytes"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a decimal value decoded leniently from backend JSON.
// The backend (and the market data provider behind it) returns numerics either as
// JSON numbers or as quoted strings such as "110.25", and fields are often missing
// or malformed. Number accepts both encodings and decodes anything else, including
// null and non-numeric strings, to zero instead of failing the whole payload.
type Number struct {
	decimal.Decimal
}

// NewNumber creates a Number from a float64. NaN and infinities become zero.
func NewNumber(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{Decimal: decimal.Zero}
	}
	return Number{Decimal: decimal.NewFromFloat(f)}
}

// NumberFromString parses s, returning zero for anything that is not a number.
func NumberFromString(s string) Number {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Number{Decimal: decimal.Zero}
	}
	return Number{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	*n = NumberFromString(string(b))
	return nil
}

// MarshalJSON writes the value as a bare JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}
