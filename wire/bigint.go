package wire

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BigIntString is the JSON wire form of a proto 64-bit integer field.
type BigIntString string

// ErrInvalidInteger is returned for input that is not an integral number.
var ErrInvalidInteger = errors.New("invalid integer")

// BigInt normalizes v into its canonical decimal representation. It accepts
// every Go integer and float type, json.Number, *big.Int, big.Int,
// decimal.Decimal and strings of decimal digits with an optional sign.
// Strings in exponent or fractional notation ("1e3", "1.0") are rejected.
func BigInt(v any) (BigIntString, error) {
	var d decimal.Decimal
	switch n := v.(type) {
	case int:
		return BigIntString(big.NewInt(int64(n)).String()), nil
	case int8:
		return BigIntString(big.NewInt(int64(n)).String()), nil
	case int16:
		return BigIntString(big.NewInt(int64(n)).String()), nil
	case int32:
		return BigIntString(big.NewInt(int64(n)).String()), nil
	case int64:
		return BigIntString(big.NewInt(n).String()), nil
	case uint:
		return BigIntString(new(big.Int).SetUint64(uint64(n)).String()), nil
	case uint8:
		return BigIntString(new(big.Int).SetUint64(uint64(n)).String()), nil
	case uint16:
		return BigIntString(new(big.Int).SetUint64(uint64(n)).String()), nil
	case uint32:
		return BigIntString(new(big.Int).SetUint64(uint64(n)).String()), nil
	case uint64:
		return BigIntString(new(big.Int).SetUint64(n).String()), nil
	case *big.Int:
		if n == nil {
			return "", errors.Wrap(ErrInvalidInteger, "nil *big.Int")
		}
		return BigIntString(n.String()), nil
	case big.Int:
		return BigIntString(n.String()), nil
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case decimal.Decimal:
		d = n
	case json.Number:
		return fromString(string(n))
	case string:
		return fromString(n)
	case BigIntString:
		return fromString(string(n))
	default:
		return "", errors.Wrapf(ErrInvalidInteger, "unsupported type %T", v)
	}
	return fromDecimal(d, d.String())
}

// MustBigInt is like BigInt but panics on error.
func MustBigInt(v any) BigIntString {
	s, err := BigInt(v)
	if err != nil {
		panic(err)
	}
	return s
}

func fromFloat(f float64) (BigIntString, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errors.Wrapf(ErrInvalidInteger, "%v", f)
	}
	return fromDecimal(decimal.NewFromFloat(f), big.NewFloat(f).Text('g', -1))
}

func fromString(s string) (BigIntString, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.Wrap(ErrInvalidInteger, "empty string")
	}
	n, ok := new(big.Int).SetString(t, 10)
	if !ok {
		return "", errors.Wrapf(ErrInvalidInteger, "%q", s)
	}
	return BigIntString(n.String()), nil
}

func fromDecimal(d decimal.Decimal, input string) (BigIntString, error) {
	if !d.IsInteger() {
		return "", errors.Wrapf(ErrInvalidInteger, "%s has a fractional part", input)
	}
	return BigIntString(d.BigInt().String()), nil
}

// Big parses s back into a big.Int.
func (s BigIntString) Big() (*big.Int, error) {
	n, ok := new(big.Int).SetString(string(s), 10)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInteger, "%q", string(s))
	}
	return n, nil
}

// Int64 parses s, failing when it does not fit into an int64.
func (s BigIntString) Int64() (int64, error) {
	n, err := s.Big()
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, errors.Wrapf(ErrInvalidInteger, "%s overflows int64", string(s))
	}
	return n.Int64(), nil
}

// Uint64 parses s, failing when it does not fit into an uint64.
func (s BigIntString) Uint64() (uint64, error) {
	n, err := s.Big()
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, errors.Wrapf(ErrInvalidInteger, "%s overflows uint64", string(s))
	}
	return n.Uint64(), nil
}
