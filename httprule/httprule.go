// Package httprule maps the google.api.http option of a gRPC method onto an
// rpc.Descriptor.
package httprule

import (
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genproto/googleapis/api/annotations"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/rpc"
)

// Options controls how field names in the rule are rendered.
type Options struct {
	// OriginalNames keeps proto field names in placeholders and the body
	// selector. By default they are converted to lowerCamelCase JSON names,
	// the form request messages take in JSON.
	OriginalNames bool
}

// Rule returns the google.api.http option of md, or nil.
func Rule(md protoreflect.MethodDescriptor) *annotations.HttpRule {
	opts, ok := md.Options().(*descriptorpb.MethodOptions)
	if !ok || opts == nil || !proto.HasExtension(opts, annotations.E_Http) {
		return nil
	}
	rule, _ := proto.GetExtension(opts, annotations.E_Http).(*annotations.HttpRule)
	return rule
}

// Resolve returns the descriptor grpc-gateway serves md under. Methods
// without a google.api.http option are exposed as
// POST /<package>.<Service>/<Method> with the whole message as body.
// Custom verbs fail with rpc.ErrUnsupportedMethod.
func Resolve(md protoreflect.MethodDescriptor, o Options) (*rpc.Descriptor, error) {
	rule := Rule(md)
	if rule == nil {
		svc := md.Parent().(protoreflect.ServiceDescriptor)
		return rpc.NewDescriptor(string(rpc.MethodPost), DefaultPath(svc.FullName(), md.Name()), "")
	}
	return FromRule(rule, o)
}

// DefaultPath is the path of a method without an HTTP rule.
func DefaultPath(service protoreflect.FullName, method protoreflect.Name) string {
	return "/" + string(service) + "/" + string(method)
}

// FromRule converts rule. additional_bindings are ignored.
func FromRule(rule *annotations.HttpRule, o Options) (*rpc.Descriptor, error) {
	var method, path string
	switch p := rule.GetPattern().(type) {
	case *annotations.HttpRule_Get:
		method, path = string(rpc.MethodGet), p.Get
	case *annotations.HttpRule_Put:
		method, path = string(rpc.MethodPut), p.Put
	case *annotations.HttpRule_Post:
		method, path = string(rpc.MethodPost), p.Post
	case *annotations.HttpRule_Delete:
		method, path = string(rpc.MethodDelete), p.Delete
	case *annotations.HttpRule_Patch:
		method, path = string(rpc.MethodPatch), p.Patch
	case *annotations.HttpRule_Custom:
		return nil, errors.Wrapf(rpc.ErrUnsupportedMethod, "custom verb %q", p.Custom.GetKind())
	default:
		return nil, errors.Wrap(rpc.ErrInvalidTemplate, "http rule has no pattern")
	}

	d, err := rpc.NewDescriptor(method, path, rule.GetBody())
	if err != nil {
		return nil, err
	}
	if o.OriginalNames {
		return d, nil
	}
	d.Template = d.Template.MapFieldPaths(func(p rpc.FieldPath) rpc.FieldPath {
		for i := range p {
			p[i] = JSONName(p[i])
		}
		return p
	})
	if d.Body != "" {
		d.Body = JSONName(d.Body)
	}
	return d, nil
}

// JSONName converts a proto field name to the lowerCamelCase name protoc
// assigns as its json_name: underscores are dropped and the following
// letter is upper-cased, digits reset the rule.
func JSONName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	capNext := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_':
			capNext = true
		case '0' <= c && c <= '9':
			sb.WriteByte(c)
			capNext = false
		default:
			if capNext && 'a' <= c && c <= 'z' {
				c -= 'a' - 'A'
			}
			capNext = false
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
