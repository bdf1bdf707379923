package genes

import (
	"bytes"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jhump/protoreflect/desc"
	"github.com/pkg/errors"
)

const (
	DefaultOutputNamePattern = "{{.Dir}}/{{.BaseName}}_pb.ts"
	DefaultRuntimeFile       = "runtime.ts"
)

// Parameters are the plugin options.
type Parameters struct {
	// OriginalNames keeps proto field names instead of lowerCamelCase JSON
	// names, both in types and in path placeholders.
	OriginalNames bool
	// OutputNamePattern is a text/template, with sprig functions, rendering
	// the output path of one proto file.
	OutputNamePattern string
	// RuntimeFile is the output path of the shared runtime.
	RuntimeFile string
	// DumpRequestDescriptor writes the incoming request to stderr.
	DumpRequestDescriptor bool
}

func (p *Parameters) withDefaults() *Parameters {
	out := *p
	if out.OutputNamePattern == "" {
		out.OutputNamePattern = DefaultOutputNamePattern
	}
	if out.RuntimeFile == "" {
		out.RuntimeFile = DefaultRuntimeFile
	}
	return &out
}

// outputNameData is the data OutputNamePattern is executed with.
type outputNameData struct {
	Descriptor *desc.FileDescriptor
	// Dir is the directory of the proto file, "." for the root.
	Dir string
	// BaseName is the proto file name without directory and extension.
	BaseName string
}

type namer struct {
	tmpl  *template.Template
	cache map[string]string
}

func newNamer(pattern string) (*namer, error) {
	tmpl, err := template.New("outpattern").Funcs(sprig.TxtFuncMap()).Parse(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing outpattern %q", pattern)
	}
	return &namer{tmpl: tmpl, cache: make(map[string]string)}, nil
}

func (n *namer) outputName(f *desc.FileDescriptor) (string, error) {
	if name, ok := n.cache[f.GetName()]; ok {
		return name, nil
	}
	dir, file := path.Split(f.GetName())
	if dir == "" {
		dir = "."
	}
	var buf bytes.Buffer
	err := n.tmpl.Execute(&buf, outputNameData{
		Descriptor: f,
		Dir:        strings.TrimSuffix(dir, "/"),
		BaseName:   strings.TrimSuffix(file, path.Ext(file)),
	})
	if err != nil {
		return "", errors.Wrapf(err, "rendering output name of %s", f.GetName())
	}
	name := path.Clean(buf.String())
	n.cache[f.GetName()] = name
	return name, nil
}
