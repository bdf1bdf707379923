package genes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/api/annotations"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/httprule"
)

type fieldOpt func(*descriptorpb.FieldDescriptorProto)

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, opts ...fieldOpt) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(httprule.JSONName(name)),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     typ.Enum(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func typeName(name string) fieldOpt {
	return func(f *descriptorpb.FieldDescriptorProto) { f.TypeName = proto.String(name) }
}

func repeated(f *descriptorpb.FieldDescriptorProto) {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
}

func oneofIndex(i int32) fieldOpt {
	return func(f *descriptorpb.FieldDescriptorProto) { f.OneofIndex = proto.Int32(i) }
}

func behavior(b ...annotations.FieldBehavior) fieldOpt {
	return func(f *descriptorpb.FieldDescriptorProto) {
		if f.Options == nil {
			f.Options = &descriptorpb.FieldOptions{}
		}
		proto.SetExtension(f.Options, annotations.E_FieldBehavior, b)
	}
}

func deprecated(f *descriptorpb.FieldDescriptorProto) {
	if f.Options == nil {
		f.Options = &descriptorpb.FieldOptions{}
	}
	f.Options.Deprecated = proto.Bool(true)
}

func httpOption(rule *annotations.HttpRule) *descriptorpb.MethodOptions {
	opts := &descriptorpb.MethodOptions{}
	proto.SetExtension(opts, annotations.E_Http, rule)
	return opts
}

func method(name, in, out string, opts *descriptorpb.MethodOptions) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(in),
		OutputType: proto.String(out),
		Options:    opts,
	}
}

const (
	typeString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	typeInt64   = descriptorpb.FieldDescriptorProto_TYPE_INT64
	typeBytes   = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	typeEnum    = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	typeMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

func shelfFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("example/shelf/v1/shelf.proto"),
		Package: proto.String("example.shelf.v1"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name:  proto.String("Shelf"),
			Field: []*descriptorpb.FieldDescriptorProto{field("name", 1, typeString)},
		}},
	}
}

func libraryFile() *descriptorpb.FileDescriptorProto {
	book := &descriptorpb.DescriptorProto{
		Name: proto.String("Book"),
		Field: []*descriptorpb.FieldDescriptorProto{
			field("name", 1, typeString, behavior(annotations.FieldBehavior_REQUIRED)),
			field("page_count", 2, typeInt64),
			field("cover", 3, typeBytes, deprecated),
			field("publish_time", 4, typeMessage, typeName(".google.protobuf.Timestamp")),
			field("create_time", 5, typeMessage, typeName(".google.protobuf.Timestamp"), behavior(annotations.FieldBehavior_OUTPUT_ONLY)),
			field("authors", 6, typeString, repeated),
			field("ratings", 7, typeMessage, typeName(".example.library.v1.Book.RatingsEntry"), repeated),
			field("genre", 8, typeEnum, typeName(".example.library.v1.Genre")),
			field("shelf", 9, typeMessage, typeName(".example.shelf.v1.Shelf")),
			field("isbn", 10, typeString, oneofIndex(0)),
			field("ean", 11, typeString, oneofIndex(0)),
		},
		OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("source")}},
		NestedType: []*descriptorpb.DescriptorProto{
			{
				Name:    proto.String("RatingsEntry"),
				Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
				Field: []*descriptorpb.FieldDescriptorProto{
					field("key", 1, typeString),
					field("value", 2, typeInt32),
				},
			},
			{
				Name:  proto.String("Review"),
				Field: []*descriptorpb.FieldDescriptorProto{field("text", 1, typeString)},
			},
		},
	}
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("example/library/v1/library.proto"),
		Package:    proto.String("example.library.v1"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/timestamp.proto", "google/protobuf/field_mask.proto", "example/shelf/v1/shelf.proto"},
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("Genre"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("GENRE_UNSPECIFIED"), Number: proto.Int32(0)},
				{Name: proto.String("GENRE_FICTION"), Number: proto.Int32(1)},
			},
		}},
		MessageType: []*descriptorpb.DescriptorProto{
			book,
			{
				Name:  proto.String("GetBookRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{field("name", 1, typeString)},
			},
			{
				Name: proto.String("UpdateBookRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("book", 1, typeMessage, typeName(".example.library.v1.Book")),
					field("update_mask", 2, typeMessage, typeName(".google.protobuf.FieldMask")),
				},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Library"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("GetBook", ".example.library.v1.GetBookRequest", ".example.library.v1.Book", httpOption(&annotations.HttpRule{
					Pattern: &annotations.HttpRule_Get{Get: "/v1/{name=shelves/*/books/*}"},
				})),
				method("UpdateBook", ".example.library.v1.UpdateBookRequest", ".example.library.v1.Book", httpOption(&annotations.HttpRule{
					Pattern: &annotations.HttpRule_Patch{Patch: "/v1/{book.name=shelves/*/books/*}"},
					Body:    "book",
				})),
				method("ListBooks", ".example.library.v1.GetBookRequest", ".example.library.v1.Book", nil),
				method("ArchiveBook", ".example.library.v1.GetBookRequest", ".example.library.v1.Book", httpOption(&annotations.HttpRule{
					Pattern: &annotations.HttpRule_Custom{Custom: &annotations.CustomHttpPattern{Kind: "HEAD", Path: "/v1/books"}},
				})),
			},
		}},
		SourceCodeInfo: &descriptorpb.SourceCodeInfo{
			Location: []*descriptorpb.SourceCodeInfo_Location{
				{Path: []int32{4, 0}, Span: []int32{1, 0, 10}, LeadingComments: proto.String(" A book on a shelf.\n")},
				{Path: []int32{4, 0, 2, 1}, Span: []int32{2, 0, 10}, LeadingComments: proto.String(" Number of pages.\n")},
			},
		},
	}
}

func newRequest(parameter string, generate ...string) *pluginpb.CodeGeneratorRequest {
	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: generate,
		ProtoFile: []*descriptorpb.FileDescriptorProto{
			protodesc.ToFileDescriptorProto(timestamppb.File_google_protobuf_timestamp_proto),
			protodesc.ToFileDescriptorProto(fieldmaskpb.File_google_protobuf_field_mask_proto),
			shelfFile(),
			libraryFile(),
		},
	}
	if parameter != "" {
		req.Parameter = proto.String(parameter)
	}
	return req
}

func generate(t *testing.T, req *pluginpb.CodeGeneratorRequest, params *Parameters) map[string]string {
	t.Helper()
	g := New()
	g.Request = req
	g.GenerateAllFiles(params)
	require.Nil(t, g.Response.Error, g.Response.GetError())
	out := make(map[string]string)
	for _, f := range g.Response.File {
		out[f.GetName()] = f.GetContent()
	}
	return out
}

func TestGenerate_Files(t *testing.T) {
	files := generate(t, newRequest("", "example/shelf/v1/shelf.proto", "example/library/v1/library.proto"), &Parameters{})

	assert.ElementsMatch(t, []string{
		"example/shelf/v1/shelf_pb.ts",
		"example/library/v1/library_pb.ts",
		"runtime.ts",
	}, keysOf(files))
	assert.True(t, strings.HasPrefix(files["runtime.ts"], "// Code generated by protoc-gen-grpc-gateway-es. DO NOT EDIT.\n"))
	assert.Contains(t, files["runtime.ts"], "export class RPC<RequestMessage, ResponseMessage>")
	assert.Equal(t, `// Code generated by protoc-gen-grpc-gateway-es. DO NOT EDIT.
// source: example/shelf/v1/shelf.proto
/* eslint-disable */
// @ts-nocheck

export type Shelf = {
  name?: string;
};
`, files["example/shelf/v1/shelf_pb.ts"])
}

func TestGenerate_Library(t *testing.T) {
	files := generate(t, newRequest("", "example/library/v1/library.proto"), &Parameters{})
	lib := files["example/library/v1/library_pb.ts"]
	require.NotEmpty(t, lib)

	tests := []struct {
		name string
		want string
	}{
		{
			name: "given imports, then runtime values, runtime types and other files",
			want: `import {RPC} from "../../../runtime.js";
import type {BigIntString, BytesString} from "../../../runtime.js";
import type {Shelf} from "../../shelf/v1/shelf_pb.js";
`,
		},
		{
			name: "given enum with shared prefix, then prefix stripped from keys",
			want: `export enum Genre {
  UNSPECIFIED = "GENRE_UNSPECIFIED",
  FICTION = "GENRE_FICTION",
}
`,
		},
		{
			name: "given message, then fields, oneof union and comments",
			want: `/**
 * A book on a shelf.
 */
export type Book = {
  name: string;
  /**
   * Number of pages.
   */
  pageCount?: BigIntString;
  /**
   * @deprecated
   */
  cover?: BytesString;
  publishTime?: string | null;
  createTime?: string;
  authors?: string[];
  ratings?: { [key: string]: number };
  genre?: Genre;
  shelf?: Shelf;
} & (
  | { isbn?: string }
  | { ean?: string }
);

export type Book_Review = {
  text?: string;
};
`,
		},
		{
			name: "given field mask, then string",
			want: "  updateMask?: string;\n",
		},
		{
			name: "given get rule, then RPC constant",
			want: `export const Library_GetBook = new RPC<GetBookRequest, Book>("GET", "/v1/{name=shelves/*/books/*}");`,
		},
		{
			name: "given body selector, then passed as third argument",
			want: `export const Library_UpdateBook = new RPC<UpdateBookRequest, Book>("PATCH", "/v1/{book.name=shelves/*/books/*}", "book");`,
		},
		{
			name: "given no rule, then default POST path",
			want: `export const Library_ListBooks = new RPC<GetBookRequest, Book>("POST", "/example.library.v1.Library/ListBooks");`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, lib, tt.want)
		})
	}

	assert.NotContains(t, lib, "ArchiveBook", "custom verbs are skipped")
	assert.NotContains(t, lib, "RatingsEntry", "map entries are not emitted")
}

func TestGenerate_OriginalNames(t *testing.T) {
	files := generate(t, newRequest("", "example/library/v1/library.proto"), &Parameters{OriginalNames: true})
	lib := files["example/library/v1/library_pb.ts"]

	assert.Contains(t, lib, "  page_count?: BigIntString;\n")
	assert.Contains(t, lib, "  update_mask?: string;\n")
}

func TestGenerate_OutputPattern(t *testing.T) {
	files := generate(t, newRequest("", "example/shelf/v1/shelf.proto", "example/library/v1/library.proto"), &Parameters{
		OutputNamePattern: `{{.Descriptor.GetPackage | replace "." "/"}}/{{.BaseName}}.ts`,
		RuntimeFile:       "gen/runtime.ts",
	})

	assert.ElementsMatch(t, []string{
		"example/shelf/v1/shelf.ts",
		"example/library/v1/library.ts",
		"gen/runtime.ts",
	}, keysOf(files))
	assert.Contains(t, files["example/library/v1/library.ts"], `import type {Shelf} from "../../shelf/v1/shelf.js";`)
	assert.Contains(t, files["example/library/v1/library.ts"], `import {RPC} from "../../../gen/runtime.js";`)
}

func TestGenerate_EmptyFile(t *testing.T) {
	req := newRequest("")
	req.ProtoFile = append(req.ProtoFile, &descriptorpb.FileDescriptorProto{
		Name:    proto.String("empty.proto"),
		Package: proto.String("empty"),
		Syntax:  proto.String("proto3"),
	})
	req.FileToGenerate = []string{"empty.proto"}

	files := generate(t, req, &Parameters{})
	assert.Empty(t, files)
}

func TestGenerate_MissingFile(t *testing.T) {
	g := New()
	g.Request = newRequest("", "missing.proto")
	g.GenerateAllFiles(&Parameters{})
	require.NotNil(t, g.Response.Error)
	assert.Contains(t, g.Response.GetError(), "missing.proto")
}

func TestGenerate_BadOutputPattern(t *testing.T) {
	g := New()
	g.Request = newRequest("", "example/shelf/v1/shelf.proto")
	g.GenerateAllFiles(&Parameters{OutputNamePattern: "{{.Dir"})
	assert.NotNil(t, g.Response.Error)
}

func keysOf(m map[string]string) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
