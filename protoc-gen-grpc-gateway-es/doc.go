// protoc-gen-grpc-gateway-es generates TypeScript clients for services exposed through grpc-gateway. For every proto file it writes a module with the messages and enums as types matching the canonical JSON encoding, and one RPC constant per method that builds a fetch API Request following the google.api.http mapping.
//
// Installation
//
//	go install github.com/czabaj/protoc-gen-grpc-gateway-es/protoc-gen-grpc-gateway-es@latest
//
// Usage
//
//	protoc -I. --grpc-gateway-es_out=. library.proto
//
// or with buf:
//
//	plugins:
//	  - local: protoc-gen-grpc-gateway-es
//	    out: src/gen
//
// Options
//
// The following options are available:
//
//	original_names: use original field names, otherwise use lowerCamelCase (default false)
//	outpattern: control the output file paths (default {{.Dir}}/{{.BaseName}}_pb.ts)
//	runtime_file: path of the shared runtime module (default runtime.ts)
//	dump_request_descriptor: dump the CodeGeneratorRequest to stderr
//	v: log verbosity
//
// An example of running with a custom option set:
//
//	protoc -I. --grpc-gateway-es_out=original_names=true,outpattern={{.BaseName}}.ts:. library.proto
package main
