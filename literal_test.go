package toml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInteger(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"0xFF", 255},
		{"0o17", 15},
		{"0b101", 5},
		{"1_000", 1000},
		{"+42", 42},
		{"-17", -17},
		{"0", 0},
		{"0xdead_beef", 0xdeadbeef},
		{"9223372036854775807", math.MaxInt64},
		{"-9223372036854775808", math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, msg := decodeInteger(tt.raw)
			require.Empty(t, msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInteger_Errors(t *testing.T) {
	tests := []struct {
		raw string
		msg string
	}{
		{"99999999999999999999", "Integer is too large"},
		{"0x", "Incomplete 0x integer: 0x"},
		{"+0x10", "Sign not allowed on 0x integer: +0x10"},
		{"0o8", "Invalid digit in 0o integer: 0o8"},
		{"012", "Leading zeros not allowed: 012"},
		{"1__0", "Double underscore: 1__0"},
		{"10_", "Trailing underscore: 10_"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, msg := decodeInteger(tt.raw)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestDecodeFloat(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"3.14", 3.14},
		{"-0.01", -0.01},
		{"5e+22", 5e22},
		{"1E6", 1e6},
		{"-2E-2", -2e-2},
		{"6.626e-34", 6.626e-34},
		{"224_617.445_991", 224617.445991},
		{"0.0", 0},
		{"-0e10", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, msg := decodeFloat(tt.raw)
			require.Empty(t, msg)
			assert.InDelta(t, tt.want, got, 1e-12*math.Max(1, math.Abs(tt.want)))
		})
	}
}

func TestDecodeFloat_Specials(t *testing.T) {
	f, msg := decodeFloat("inf")
	require.Empty(t, msg)
	assert.True(t, math.IsInf(f, 1))

	f, msg = decodeFloat("-inf")
	require.Empty(t, msg)
	assert.True(t, math.IsInf(f, -1))

	for _, raw := range []string{"nan", "+nan", "-nan"} {
		f, msg = decodeFloat(raw)
		require.Empty(t, msg)
		assert.True(t, math.IsNaN(f), raw)
	}
}

func TestDecodeFloat_Errors(t *testing.T) {
	tests := []struct {
		raw string
		msg string
	}{
		{"1e400", "Float is too large"},
		{"1e-400", "Float is too small"},
		{"1.", "No digits after decimal point: 1."},
		{"1.2.3", "Multiple dots in float: 1.2.3"},
		{"1_.5", "Underscore before .: 1_.5"},
		{"1e_5", "Underscore after e: 1e_5"},
		{"03.14", "Leading zeros not allowed: 03.14"},
		{"1e", "No digits in exponent: 1e"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, msg := decodeFloat(tt.raw)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestDecodeBoolean(t *testing.T) {
	v, msg := decodeBoolean("true")
	require.Empty(t, msg)
	assert.True(t, v)

	v, msg = decodeBoolean("false")
	require.Empty(t, msg)
	assert.False(t, v)

	_, msg = decodeBoolean("True")
	assert.NotEmpty(t, msg)
}
