package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxExponent bounds the decimal exponent of parsed numeric strings. A string
// whose exponent falls outside ±MaxExponent is not numeric.
const MaxExponent = 64

var (
	// ErrIncomparable is returned when two values have no common ordering,
	// e.g. a number and a non-numeric string.
	ErrIncomparable = errors.New("values are not comparable")

	// ErrNotNumeric is returned when a value cannot be read as a decimal number.
	ErrNotNumeric = errors.New("value is not numeric")
)

// ToDecimal converts a record or parameter value to an exact decimal.
// Numeric strings are parsed, floats use their shortest decimal form.
func ToDecimal(v any) (decimal.Decimal, error) {
	d, ok := toNumber(v)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %v (%T)", ErrNotNumeric, v, v)
	}
	return d, nil
}

// Compare orders two label values. Numbers (including numeric strings)
// compare numerically, other strings lexically, booleans false < true.
// Any other pairing returns ErrIncomparable.
func Compare(a, b any) (int, error) {
	if x, ok := toNumber(a); ok {
		if y, ok := toNumber(b); ok {
			return x.Cmp(y), nil
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: %v (%T) and %v (%T)", ErrIncomparable, a, a, b, b)
}

// Equal reports whether two label values are the same. Values with no
// common ordering are never equal.
func Equal(a, b any) bool {
	c, err := Compare(a, b)
	return err == nil && c == 0
}

func toNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromUint64(uint64(n)), true
	case uint8:
		return decimal.NewFromUint64(uint64(n)), true
	case uint16:
		return decimal.NewFromUint64(uint64(n)), true
	case uint32:
		return decimal.NewFromUint64(uint64(n)), true
	case uint64:
		return decimal.NewFromUint64(n), true
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		return fromString(n.String())
	case string:
		return fromString(n)
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
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Zero, false
	}
	return d, true
}
