package genes

import (
	"strings"
)

// TSer is a TypeScript type expression.
type TSer interface {
	TSType() string
}

type simpleType string

func (s simpleType) TSType() string { return string(s) }

type arrayType struct {
	elem TSer
}

func (a arrayType) TSType() string {
	t := a.elem.TSType()
	if strings.ContainsAny(t, "|&") {
		return "(" + t + ")[]"
	}
	return t + "[]"
}

// mapType is a proto map. JSON object keys are always strings, whatever
// the proto key type.
type mapType struct {
	value TSer
}

func (m mapType) TSType() string { return "{ [key: string]: " + m.value.TSType() + " }" }

// nullableType lets a field be cleared explicitly by sending null.
type nullableType struct {
	TSer
}

func (n nullableType) TSType() string { return n.TSer.TSType() + " | null" }

// namedField is one property of an object type.
type namedField struct {
	TSer
	name     string
	required bool
	// doc is the rendered JSDoc block, indented for a top-level property.
	doc string
}

func (f *namedField) property() string {
	optionalIndicator := "?"
	if f.required {
		optionalIndicator = ""
	}
	return f.name + optionalIndicator + ": " + f.TSType()
}

type objectType struct {
	fields []*namedField
	// oneofs holds the members of each oneof; at most one member of a
	// group may be set.
	oneofs [][]*namedField
}

func (t *objectType) TSType() string {
	var sb strings.Builder
	if len(t.fields) == 0 {
		sb.WriteString("{}")
	} else {
		sb.WriteString("{\n")
		for _, f := range t.fields {
			sb.WriteString(f.doc)
			sb.WriteString("  " + f.property() + ";\n")
		}
		sb.WriteString("}")
	}
	for _, group := range t.oneofs {
		sb.WriteString(" & (\n")
		for _, f := range group {
			sb.WriteString("  | { " + f.property() + " }\n")
		}
		sb.WriteString(")")
	}
	return sb.String()
}
