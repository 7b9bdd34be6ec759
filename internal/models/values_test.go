package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"equal ints", 1, 1, 0},
		{"int less", 0, 1, -1},
		{"int greater", 1, 0, 1},
		{"int and float", 1, 1.0, 0},
		{"numeric string and int", "1", 1, 0},
		{"numeric strings compare numerically", "10", "9", 1},
		{"json number", json.Number("0"), 1, -1},
		{"plain strings", "apple", "banana", -1},
		{"equal strings", "fraud", "fraud", 0},
		{"bools", false, true, -1},
		{"equal bools", true, true, 0},
		{"decimal", decimal.RequireFromString("2.5"), 2.5, 0},
		{"uint and negative int", uint8(0), -1, 1},
		{"out of range exponents compare as text", "1e400000000", "1e400000001", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_Incomparable(t *testing.T) {
	tests := []struct {
		name string
		a, b any
	}{
		{"number and word", 1, "fraud"},
		{"bool and number", true, 1},
		{"nil", nil, 1},
		{"nan", math.NaN(), 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(tt.a, tt.b)
			require.ErrorIs(t, err, ErrIncomparable)
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("1", 1))
	assert.True(t, Equal("fraud", "fraud"))
	assert.False(t, Equal("fraud", 1))
	assert.False(t, Equal(nil, nil))
}

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 100, "100"},
		{"negative float", -12.5, "-12.5"},
		{"string", " 10.005 ", "10.005"},
		{"json number", json.Number("3.14"), "3.14"},
		{"float keeps shortest form", 0.1, "0.1"},
		{"largest accepted exponent", "1e64", "1e64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDecimal(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestToDecimal_NotNumeric(t *testing.T) {
	for _, in := range []any{"abc", "", true, nil, math.Inf(1), "1e400000000", json.Number("1e-400000000"), "1e65"} {
		_, err := ToDecimal(in)
		assert.ErrorIs(t, err, ErrNotNumeric, "input %v", in)
	}
}
