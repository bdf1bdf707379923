package rpc

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/wire"
)

// wellKnown lists the messages whose JSON mapping is not a plain object of
// their fields.
var wellKnown = map[protoreflect.FullName]bool{
	"google.protobuf.Any":         true,
	"google.protobuf.Timestamp":   true,
	"google.protobuf.Duration":    true,
	"google.protobuf.FieldMask":   true,
	"google.protobuf.Struct":      true,
	"google.protobuf.Value":       true,
	"google.protobuf.ListValue":   true,
	"google.protobuf.Empty":       true,
	"google.protobuf.DoubleValue": true,
	"google.protobuf.FloatValue":  true,
	"google.protobuf.Int64Value":  true,
	"google.protobuf.UInt64Value": true,
	"google.protobuf.Int32Value":  true,
	"google.protobuf.UInt32Value": true,
	"google.protobuf.BoolValue":   true,
	"google.protobuf.StringValue": true,
	"google.protobuf.BytesValue":  true,
}

// FromMessage converts m into the tree grpc-gateway expects for it: keys are
// JSON field names in declaration order, unset fields are omitted, 64-bit
// integers become decimal strings and bytes become base64 strings.
func FromMessage(m proto.Message) (Value, error) {
	if m == nil {
		return Null(), nil
	}
	rm := m.ProtoReflect()
	if !rm.IsValid() {
		return Null(), nil
	}
	return messageValue(rm)
}

func messageValue(m protoreflect.Message) (Value, error) {
	if wellKnown[m.Descriptor().FullName()] {
		data, err := protojson.Marshal(m.Interface())
		if err != nil {
			return Value{}, errors.Wrapf(err, "encoding %s", m.Descriptor().FullName())
		}
		return ParseJSON(data)
	}
	t := NewTree()
	fields := m.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if !m.Has(fd) {
			continue
		}
		v, err := fieldValue(fd, m.Get(fd))
		if err != nil {
			return Value{}, errors.Wrapf(err, "field %s", fd.Name())
		}
		t.Set(fd.JSONName(), v)
	}
	return Object(t), nil
}

func fieldValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) (Value, error) {
	switch {
	case fd.IsList():
		list := v.List()
		seq := make([]Value, list.Len())
		for i := range seq {
			var err error
			if seq[i], err = singularValue(fd, list.Get(i)); err != nil {
				return Value{}, err
			}
		}
		return Seq(seq...), nil
	case fd.IsMap():
		type entry struct {
			key string
			val protoreflect.Value
		}
		var entries []entry
		v.Map().Range(func(k protoreflect.MapKey, mv protoreflect.Value) bool {
			entries = append(entries, entry{key: k.String(), val: mv})
			return true
		})
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		t := NewTree()
		for _, e := range entries {
			mv, err := singularValue(fd.MapValue(), e.val)
			if err != nil {
				return Value{}, err
			}
			t.Set(e.key, mv)
		}
		return Object(t), nil
	}
	return singularValue(fd, v)
}

func singularValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) (Value, error) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return Bool(v.Bool()), nil
	case protoreflect.StringKind:
		return String(v.String()), nil
	case protoreflect.BytesKind:
		return String(string(wire.EncodeBytes(v.Bytes()))), nil
	case protoreflect.EnumKind:
		if fd.Enum().FullName() == "google.protobuf.NullValue" {
			return Null(), nil
		}
		if ev := fd.Enum().Values().ByNumber(v.Enum()); ev != nil {
			return String(string(ev.Name())), nil
		}
		return Int(int64(v.Enum())), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return Int(v.Int()), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return Uint(v.Uint()), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		s, err := wire.BigInt(v.Int())
		return String(string(s)), err
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		s, err := wire.BigInt(v.Uint())
		return String(string(s)), err
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		f := v.Float()
		switch {
		case math.IsNaN(f):
			return String("NaN"), nil
		case math.IsInf(f, 1):
			return String("Infinity"), nil
		case math.IsInf(f, -1):
			return String("-Infinity"), nil
		}
		if fd.Kind() == protoreflect.FloatKind {
			return NumberLiteral(formatFloat32(float32(f))), nil
		}
		return Float(f)
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return messageValue(v.Message())
	}
	return Value{}, errors.Errorf("rpc: unsupported field kind %s", fd.Kind())
}
