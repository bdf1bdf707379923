// Package genes generates TypeScript declarations and grpc-gateway request
// builders from proto files.
package genes

import (
	"os"
	"path"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/jhump/protoreflect/desc"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
)

// Generator turns a CodeGeneratorRequest into a CodeGeneratorResponse.
type Generator struct {
	Request  *pluginpb.CodeGeneratorRequest
	Response *pluginpb.CodeGeneratorResponse
}

// New returns a generator with an empty request, ready to be unmarshaled
// into.
func New() *Generator {
	return &Generator{
		Request:  &pluginpb.CodeGeneratorRequest{},
		Response: &pluginpb.CodeGeneratorResponse{},
	}
}

// GenerateAllFiles fills Response. Failures are reported through the
// response error field, the way protoc expects them.
func (g *Generator) GenerateAllFiles(params *Parameters) {
	g.Response.SupportedFeatures = proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL))
	files, err := g.Generate(params)
	if err != nil {
		g.Response.Error = proto.String(err.Error())
		return
	}
	g.Response.File = files
}

// Generate processes the files to generate and produces one TypeScript
// module per file with declarations, plus the shared runtime.
func (g *Generator) Generate(params *Parameters) ([]*pluginpb.CodeGeneratorResponse_File, error) {
	params = params.withDefaults()
	if params.DumpRequestDescriptor {
		spew.Fdump(os.Stderr, g.Request)
	}
	fds, err := desc.CreateFileDescriptors(g.Request.GetProtoFile())
	if err != nil {
		return nil, errors.Wrap(err, "building file descriptors")
	}
	n, err := newNamer(params.OutputNamePattern)
	if err != nil {
		return nil, err
	}

	var files []*pluginpb.CodeGeneratorResponse_File
	for _, name := range g.Request.GetFileToGenerate() {
		fd, ok := fds[name]
		if !ok {
			return nil, errors.Errorf("file to generate %s is missing from the request", name)
		}
		glog.V(1).Infof("Processing %s", name)
		output, err := n.outputName(fd)
		if err != nil {
			return nil, err
		}
		code, err := newFileEmitter(params, n, fd, output).render()
		if err == errNoDeclarations {
			glog.V(1).Infof("%s: %v", name, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		files = append(files, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(output),
			Content: proto.String(code),
		})
		glog.V(1).Infof("Will emit %s", output)
	}
	if len(files) > 0 {
		files = append(files, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(path.Clean(params.RuntimeFile)),
			Content: proto.String(runtimeContent()),
		})
	}
	return files, nil
}
