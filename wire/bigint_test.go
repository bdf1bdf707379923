package wire

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigInt(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name string
		in   any
		want BigIntString
	}{
		{name: "given int, then formats it", in: 42, want: "42"},
		{name: "given negative int64, then keeps sign", in: int64(-9007199254740993), want: "-9007199254740993"},
		{name: "given max uint64, then formats exactly", in: uint64(math.MaxUint64), want: "18446744073709551615"},
		{name: "given integral float, then drops fraction", in: 42.0, want: "42"},
		{name: "given decimal string, then canonicalizes", in: "0042", want: "42"},
		{name: "given padded string, then trims", in: " 7 ", want: "7"},
		{name: "given signed string, then keeps sign", in: "+7", want: "7"},
		{name: "given negative string, then keeps sign", in: "-0042", want: "-42"},
		{name: "given json number, then parses", in: json.Number("9223372036854775807"), want: "9223372036854775807"},
		{name: "given big int, then keeps all digits", in: huge, want: "123456789012345678901234567890"},
		{name: "given decimal, then formats", in: decimal.NewFromInt(-5), want: "-5"},
		{name: "given wire string, then round trips", in: BigIntString("10"), want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BigInt(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBigInt_SameValueAcrossKinds(t *testing.T) {
	inputs := []any{12345, int64(12345), uint32(12345), 12345.0, "12345", json.Number("12345"), big.NewInt(12345)}
	for _, in := range inputs {
		got, err := BigInt(in)
		require.NoError(t, err)
		assert.Equal(t, BigIntString("12345"), got, "%T", in)
	}
}

func TestBigInt_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{name: "given fractional string, then fails", in: "1.1"},
		{name: "given integral fraction string, then fails", in: "1.0"},
		{name: "given exponent string, then fails", in: "1e3"},
		{name: "given huge exponent string, then fails without expanding", in: "1e1000000000"},
		{name: "given exponent json number, then fails", in: json.Number("1e3")},
		{name: "given digit separators, then fails", in: "1_000"},
		{name: "given fractional float, then fails", in: 1.5},
		{name: "given NaN, then fails", in: math.NaN()},
		{name: "given infinity, then fails", in: math.Inf(1)},
		{name: "given empty string, then fails", in: ""},
		{name: "given garbage, then fails", in: "twelve"},
		{name: "given unsupported type, then fails", in: true},
		{name: "given nil big int, then fails", in: (*big.Int)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BigInt(tt.in)
			assert.ErrorIs(t, err, ErrInvalidInteger)
		})
	}
}

func TestBigIntString_Int64(t *testing.T) {
	n, err := BigIntString("-42").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), n)

	_, err = BigIntString("18446744073709551615").Int64()
	assert.ErrorIs(t, err, ErrInvalidInteger)

	u, err := BigIntString("18446744073709551615").Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u)

	_, err = BigIntString("abc").Big()
	assert.ErrorIs(t, err, ErrInvalidInteger)
}
