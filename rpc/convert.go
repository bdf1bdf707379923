package rpc

import (
	"math/big"
	"reflect"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/wire"
)

// jsonNumber matches json.Number from both encoding/json and go-json.
type jsonNumber interface {
	String() string
	Float64() (float64, error)
	Int64() (int64, error)
}

// FromAny converts a Go value into a Value, copying it so that later use of
// the Value never observes or causes mutations of v.
//
// Maps with string keys become trees with lexically ordered keys, slices and
// arrays become sequences, []byte becomes a base64 string, *big.Int becomes
// a decimal string, proto messages are converted with FromMessage and any
// other type is converted through its JSON encoding.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Tree:
		return Object(x), nil
	case proto.Message:
		return FromMessage(x)
	case string:
		return String(x), nil
	case wire.BigIntString:
		return String(string(x)), nil
	case wire.BytesString:
		return String(string(x)), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case jsonNumber:
		return NumberLiteral(x.String()), nil
	case []byte:
		if x == nil {
			return Null(), nil
		}
		return String(string(wire.EncodeBytes(x))), nil
	case *big.Int:
		if x == nil {
			return Null(), nil
		}
		s, err := wire.BigInt(x)
		if err != nil {
			return Value{}, err
		}
		return String(string(s)), nil
	case map[string]any:
		if x == nil {
			return Null(), nil
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t := NewTree()
		for _, k := range keys {
			e, err := FromAny(x[k])
			if err != nil {
				return Value{}, errors.Wrapf(err, "field %q", k)
			}
			t.Set(k, e)
		}
		return Object(t), nil
	case []any:
		if x == nil {
			return Null(), nil
		}
		seq := make([]Value, len(x))
		for i, e := range x {
			var err error
			if seq[i], err = FromAny(e); err != nil {
				return Value{}, errors.Wrapf(err, "element %d", i)
			}
		}
		return Seq(seq...), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Kind() == reflect.Interface {
			return FromAny(rv.Elem().Interface())
		}
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		fallthrough
	case reflect.Array:
		seq := make([]Value, rv.Len())
		for i := range seq {
			var err error
			if seq[i], err = FromAny(rv.Index(i).Interface()); err != nil {
				return Value{}, errors.Wrapf(err, "element %d", i)
			}
		}
		return Seq(seq...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			if rv.IsNil() {
				return Null(), nil
			}
			m := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[iter.Key().String()] = iter.Value().Interface()
			}
			return FromAny(m)
		}
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	}
	// Structs and everything else go through their JSON form so that json
	// tags and custom marshalers are honoured.
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return Value{}, errors.Wrapf(err, "encoding %s", rv.Type())
	}
	return ParseJSON(data)
}

// TreeFrom converts v with FromAny and requires the result to be an object
// or null. A null result yields a nil tree.
func TreeFrom(v any) (*Tree, error) {
	val, err := FromAny(v)
	if err != nil {
		return nil, err
	}
	switch val.Kind() {
	case KindNull:
		return nil, nil
	case KindTree:
		t, _ := val.AsTree()
		return t, nil
	}
	return nil, errors.Errorf("rpc: request parameters must be an object, got %s", val.Kind())
}

// IsScalar reports whether v is a Go string, number or boolean (or a Value
// holding one). Wire string types count as strings.
func IsScalar(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case Value:
		return x.IsScalar()
	case jsonNumber:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
