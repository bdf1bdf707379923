package rpc

import (
	"bytes"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MarshalJSON encodes v preserving the key order of nested trees. Strings
// are not HTML-escaped, matching JSON.stringify.
func (v Value) MarshalJSON() ([]byte, error) {
	return appendJSON(nil, v)
}

// MarshalJSON encodes t as a JSON object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return appendJSON(nil, Object(t))
}

func appendJSON(buf []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindString:
		return appendString(buf, v.text)
	case KindNumber:
		return append(buf, v.text...), nil
	case KindBool:
		if v.b {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case KindSequence:
		buf = append(buf, '[')
		for i, e := range v.seq {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendJSON(buf, e); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindTree:
		buf = append(buf, '{')
		for i, key := range v.tree.keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendString(buf, key); err != nil {
				return nil, err
			}
			buf = append(buf, ':')
			if buf, err = appendJSON(buf, v.tree.vals[key]); err != nil {
				return nil, errors.Wrapf(err, "field %q", key)
			}
		}
		return append(buf, '}'), nil
	}
	return nil, errors.Errorf("rpc: cannot encode value of kind %s", v.kind)
}

func appendString(buf []byte, s string) ([]byte, error) {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

// ParseJSON decodes a JSON document into a Value. Numbers keep their
// literal form; object keys are ordered lexically.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, errors.Wrap(err, "decoding JSON parameters")
	}
	return FromAny(raw)
}

// UnmarshalJSON decodes an object into t.
func (t *Tree) UnmarshalJSON(data []byte) error {
	v, err := ParseJSON(data)
	if err != nil {
		return err
	}
	src, ok := v.AsTree()
	if !ok {
		return errors.Errorf("rpc: expected a JSON object, got %s", v.Kind())
	}
	*t = *src
	return nil
}
