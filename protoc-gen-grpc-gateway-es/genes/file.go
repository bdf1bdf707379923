package genes

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"github.com/golang/glog"
	"github.com/jhump/protoreflect/desc"
	"github.com/pkg/errors"
	"google.golang.org/genproto/googleapis/api/annotations"
	"google.golang.org/protobuf/types/descriptorpb"
)

var errNoDeclarations = errors.New("no enums, messages or services defined in the file")

var fileTemplate = template.Must(template.New("file").Parse(`{{.Header}}
{{range .Imports}}{{.}}
{{end}}{{if .Imports}}
{{end}}{{range $i, $d := .Decls}}{{if $i}}
{{end}}{{$d}}{{end}}`))

func header(source string) string {
	s := "// Code generated by protoc-gen-grpc-gateway-es. DO NOT EDIT.\n"
	if source != "" {
		s += "// source: " + source + "\n"
	}
	return s + "/* eslint-disable */\n// @ts-nocheck\n"
}

// fileEmitter renders the TypeScript module of one proto file and tracks
// the symbols it has to import.
type fileEmitter struct {
	params  *Parameters
	namer   *namer
	file    *desc.FileDescriptor
	outName string

	runtimeValues map[string]bool
	runtimeTypes  map[string]bool
	// typeImports maps module specifiers to imported type names.
	typeImports map[string]map[string]bool
}

func newFileEmitter(params *Parameters, n *namer, file *desc.FileDescriptor, outName string) *fileEmitter {
	return &fileEmitter{
		params:        params,
		namer:         n,
		file:          file,
		outName:       outName,
		runtimeValues: make(map[string]bool),
		runtimeTypes:  make(map[string]bool),
		typeImports:   make(map[string]map[string]bool),
	}
}

func (e *fileEmitter) render() (string, error) {
	var decls []string
	for _, en := range e.file.GetEnumTypes() {
		decls = append(decls, e.enum(en))
	}
	for _, m := range e.file.GetMessageTypes() {
		s, err := e.message(m)
		if err != nil {
			return "", err
		}
		decls = append(decls, s)
	}
	for _, svc := range e.file.GetServices() {
		s, err := e.service(svc)
		if err != nil {
			return "", err
		}
		if s != "" {
			decls = append(decls, s)
		}
	}
	if len(decls) == 0 {
		return "", errNoDeclarations
	}

	buf := new(bytes.Buffer)
	err := fileTemplate.Execute(buf, struct {
		Header  string
		Imports []string
		Decls   []string
	}{
		Header:  header(e.file.GetName()),
		Imports: e.imports(),
		Decls:   decls,
	})
	if err != nil {
		return "", errors.Wrapf(err, "rendering %s", e.file.GetName())
	}
	return buf.String(), nil
}

func (e *fileEmitter) imports() []string {
	var out []string
	runtime := importPath(e.outName, e.params.RuntimeFile)
	if names := sortedKeys(e.runtimeValues); len(names) > 0 {
		out = append(out, `import {`+strings.Join(names, ", ")+`} from "`+runtime+`";`)
	}
	if names := sortedKeys(e.runtimeTypes); len(names) > 0 {
		out = append(out, `import type {`+strings.Join(names, ", ")+`} from "`+runtime+`";`)
	}
	for _, module := range sortedKeys(e.typeImports) {
		names := sortedKeys(e.typeImports[module])
		out = append(out, `import type {`+strings.Join(names, ", ")+`} from "`+module+`";`)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *fileEmitter) runtimeType(name string) TSer {
	e.runtimeTypes[name] = true
	return simpleType(name)
}

// typeRef names a message or enum, importing it when it lives in another
// file.
func (e *fileEmitter) typeRef(d desc.Descriptor) (TSer, error) {
	name := localName(d)
	if d.GetFile().GetName() == e.file.GetName() {
		return simpleType(name), nil
	}
	target, err := e.namer.outputName(d.GetFile())
	if err != nil {
		return nil, err
	}
	module := importPath(e.outName, target)
	if e.typeImports[module] == nil {
		e.typeImports[module] = make(map[string]bool)
	}
	e.typeImports[module][name] = true
	return simpleType(name), nil
}

func (e *fileEmitter) enum(en *desc.EnumDescriptor) string {
	var sb strings.Builder
	sb.WriteString(jsDoc(en, ""))
	sb.WriteString("export enum " + localName(en) + " {\n")
	prefix := enumValuePrefix(en)
	for _, v := range en.GetValues() {
		sb.WriteString(jsDoc(v, "  "))
		sb.WriteString("  " + strings.TrimPrefix(v.GetName(), prefix) + ` = "` + v.GetName() + "\",\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (e *fileEmitter) message(m *desc.MessageDescriptor) (string, error) {
	required := openAPIRequired(m)
	obj := &objectType{}
	groups := make(map[*desc.OneOfDescriptor]int)
	for _, f := range m.GetFields() {
		field, err := e.field(f, required[f.GetName()])
		if err != nil {
			return "", errors.Wrapf(err, "field %s", f.GetFullyQualifiedName())
		}
		oo := f.GetOneOf()
		if oo == nil || f.IsProto3Optional() {
			obj.fields = append(obj.fields, field)
			continue
		}
		i, ok := groups[oo]
		if !ok {
			i = len(obj.oneofs)
			groups[oo] = i
			obj.oneofs = append(obj.oneofs, nil)
		}
		obj.oneofs[i] = append(obj.oneofs[i], field)
	}

	var sb strings.Builder
	sb.WriteString(jsDoc(m, ""))
	sb.WriteString("export type " + localName(m) + " = " + obj.TSType() + ";\n")
	for _, en := range m.GetNestedEnumTypes() {
		sb.WriteString("\n" + e.enum(en))
	}
	for _, nested := range m.GetNestedMessageTypes() {
		if nested.IsMapEntry() {
			continue
		}
		s, err := e.message(nested)
		if err != nil {
			return "", err
		}
		sb.WriteString("\n" + s)
	}
	return sb.String(), nil
}

func (e *fileEmitter) field(f *desc.FieldDescriptor, openAPIRequired bool) (*namedField, error) {
	required := openAPIRequired || hasBehavior(f, annotations.FieldBehavior_REQUIRED)
	t, err := e.fieldType(f, required)
	if err != nil {
		return nil, err
	}
	return &namedField{
		TSer:     t,
		name:     e.params.fieldName(f),
		required: required,
		doc:      jsDoc(f, "  "),
	}, nil
}

func (e *fileEmitter) fieldType(f *desc.FieldDescriptor, required bool) (TSer, error) {
	if f.IsMap() {
		v, _, err := e.singularType(f.GetMapValueType())
		if err != nil {
			return nil, err
		}
		return mapType{value: v}, nil
	}
	t, nullable, err := e.singularType(f)
	if err != nil {
		return nil, err
	}
	if f.IsRepeated() {
		return arrayType{elem: t}, nil
	}
	if nullable && !required && !hasBehavior(f, annotations.FieldBehavior_OUTPUT_ONLY) {
		return nullableType{t}, nil
	}
	return t, nil
}

// singularType maps the type of one value of f. nullable reports types
// whose JSON form must accept null to let the field be cleared.
func (e *fileEmitter) singularType(f *desc.FieldDescriptor) (t TSer, nullable bool, err error) {
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE,
		descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
		descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return simpleType("number"), false, nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return e.runtimeType(runtimeBigIntString), false, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return simpleType("boolean"), false, nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return simpleType("string"), false, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return e.runtimeType(runtimeBytesString), false, nil
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		en := f.GetEnumType()
		if en.GetFullyQualifiedName() == "google.protobuf.NullValue" {
			return simpleType("null"), false, nil
		}
		t, err := e.typeRef(en)
		return t, false, err
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE,
		descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return e.messageType(f.GetMessageType())
	}
	glog.Warningf("%s: unsupported field type %s", f.GetFullyQualifiedName(), f.GetType())
	return simpleType("unknown"), false, nil
}

// messageType maps well-known types to their JSON shapes and every other
// message to its generated type.
func (e *fileEmitter) messageType(m *desc.MessageDescriptor) (TSer, bool, error) {
	switch m.GetFullyQualifiedName() {
	case "google.protobuf.Timestamp", "google.protobuf.Duration":
		return simpleType("string"), true, nil
	case "google.protobuf.FieldMask", "google.protobuf.StringValue":
		return simpleType("string"), false, nil
	case "google.protobuf.Any":
		return simpleType(`{ "@type": string; [key: string]: unknown }`), false, nil
	case "google.protobuf.Struct":
		return simpleType("{ [key: string]: unknown }"), false, nil
	case "google.protobuf.Value":
		return simpleType("unknown"), false, nil
	case "google.protobuf.ListValue":
		return simpleType("unknown[]"), false, nil
	case "google.protobuf.Empty":
		return simpleType("Record<string, never>"), false, nil
	case "google.protobuf.DoubleValue", "google.protobuf.FloatValue",
		"google.protobuf.Int32Value", "google.protobuf.UInt32Value":
		return simpleType("number"), false, nil
	case "google.protobuf.Int64Value", "google.protobuf.UInt64Value":
		return e.runtimeType(runtimeBigIntString), false, nil
	case "google.protobuf.BoolValue":
		return simpleType("boolean"), false, nil
	case "google.protobuf.BytesValue":
		return e.runtimeType(runtimeBytesString), false, nil
	}
	t, err := e.typeRef(m)
	return t, false, err
}
