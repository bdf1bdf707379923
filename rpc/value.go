package rpc

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind discriminates the variants of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindSequence:
		return "array"
	case KindTree:
		return "object"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one node of a request message: a scalar, a sequence or a nested
// Tree. The zero Value is null.
type Value struct {
	kind Kind
	// text holds strings and the canonical decimal form of numbers.
	text string
	b    bool
	seq  []Value
	tree *Tree
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a number scalar.
func Int(i int64) Value { return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)} }

// Uint returns a number scalar.
func Uint(u uint64) Value { return Value{kind: KindNumber, text: strconv.FormatUint(u, 10)} }

// Float returns a number scalar formatted the way JavaScript prints numbers.
// NaN and infinities have no JSON number form and are rejected.
func Float(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, errors.Errorf("rpc: %v is not representable in JSON", f)
	}
	return Value{kind: KindNumber, text: formatFloat(f)}, nil
}

// NumberLiteral returns a number scalar with the given textual form. The
// literal is used verbatim in JSON bodies and query strings.
func NumberLiteral(s string) Value { return Value{kind: KindNumber, text: s} }

// Seq returns a sequence of values.
func Seq(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindSequence, seq: vs}
}

// Object wraps t. A nil tree yields null.
func Object(t *Tree) Value {
	if t == nil {
		return Null()
	}
	return Value{kind: KindTree, tree: t}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is a string, number or boolean.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindString, KindNumber, KindBool:
		return true
	}
	return false
}

// AsString returns the string held by a string scalar.
func (v Value) AsString() (string, bool) {
	return v.text, v.kind == KindString
}

// AsBool returns the boolean held by a boolean scalar.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsSeq returns the elements of a sequence.
func (v Value) AsSeq() ([]Value, bool) {
	return v.seq, v.kind == KindSequence
}

// AsTree returns the tree of an object value.
func (v Value) AsTree() (*Tree, bool) {
	return v.tree, v.kind == KindTree
}

// Text stringifies a scalar the way it appears in a query string. It
// returns false for non-scalars.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString, KindNumber:
		return v.text, true
	case KindBool:
		return strconv.FormatBool(v.b), true
	}
	return "", false
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.text)
	case KindNumber, KindBool:
		s, _ := v.Text()
		return s
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString, KindNumber:
		return v.text == o.text
	case KindBool:
		return v.b == o.b
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	}
	return v.tree.Equal(o.tree)
}

// formatFloat mirrors ECMAScript Number::toString: plain notation between
// 1e-7 and 1e21, exponent notation outside of it.
func formatFloat(f float64) string {
	return formatFloatBits(f, 64)
}

func formatFloat32(f float32) string {
	return formatFloatBits(float64(f), 32)
}

func formatFloatBits(f float64, bitSize int) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	s := strconv.FormatFloat(f, 'e', -1, bitSize)
	// Go pads the exponent to two digits, JavaScript does not.
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

// FieldPath is a dotted reference to a (possibly nested) field.
type FieldPath []string

// ParseFieldPath splits a dotted path.
func ParseFieldPath(s string) FieldPath {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func (p FieldPath) String() string { return strings.Join(p, ".") }

// hasPrefix reports whether prefix equals p or is one of its ancestors.
func (p FieldPath) hasPrefix(prefix FieldPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}
