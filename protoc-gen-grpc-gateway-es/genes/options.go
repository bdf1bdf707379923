package genes

import (
	"github.com/grpc-ecosystem/grpc-gateway/v2/protoc-gen-openapiv2/options"
	"github.com/jhump/protoreflect/desc"
	"google.golang.org/genproto/googleapis/api/annotations"
	"google.golang.org/protobuf/proto"
)

func fieldBehaviors(f *desc.FieldDescriptor) []annotations.FieldBehavior {
	opts := f.GetFieldOptions()
	if opts == nil || !proto.HasExtension(opts, annotations.E_FieldBehavior) {
		return nil
	}
	fb, _ := proto.GetExtension(opts, annotations.E_FieldBehavior).([]annotations.FieldBehavior)
	return fb
}

func hasBehavior(f *desc.FieldDescriptor, want annotations.FieldBehavior) bool {
	for _, b := range fieldBehaviors(f) {
		if b == want {
			return true
		}
	}
	return false
}

// openAPIRequired returns the proto names listed as required by the
// openapiv2_schema option of m.
func openAPIRequired(m *desc.MessageDescriptor) map[string]bool {
	opts := m.GetMessageOptions()
	if opts == nil || !proto.HasExtension(opts, options.E_Openapiv2Schema) {
		return nil
	}
	schema, _ := proto.GetExtension(opts, options.E_Openapiv2Schema).(*options.Schema)
	required := schema.GetJsonSchema().GetRequired()
	if len(required) == 0 {
		return nil
	}
	out := make(map[string]bool, len(required))
	for _, name := range required {
		out[name] = true
	}
	return out
}

func isDeprecated(d desc.Descriptor) bool {
	type deprecatable interface{ GetDeprecated() bool }
	opts, ok := d.GetOptions().(deprecatable)
	return ok && opts.GetDeprecated()
}
