package genes

import (
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/jhump/protoreflect/desc"
	"github.com/pkg/errors"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/httprule"
	"github.com/czabaj/protoc-gen-grpc-gateway-es/rpc"
)

// service renders one RPC constant per method of svc:
//
//	export const Library_GetBook = new RPC<GetBookRequest, Book>("GET", "/v1/{name=shelves/*/books/*}");
func (e *fileEmitter) service(svc *desc.ServiceDescriptor) (string, error) {
	var sb strings.Builder
	for _, m := range svc.GetMethods() {
		glog.V(2).Infof("Method: %s", spew.Sdump(m.AsMethodDescriptorProto()))
		if m.IsClientStreaming() {
			glog.Warningf("%s: skipping client streaming method", m.GetFullyQualifiedName())
			continue
		}
		d, err := httprule.Resolve(m.UnwrapMethod(), httprule.Options{OriginalNames: e.params.OriginalNames})
		if errors.Is(err, rpc.ErrUnsupportedMethod) {
			glog.Warningf("%s: %v", m.GetFullyQualifiedName(), err)
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, "method %s", m.GetFullyQualifiedName())
		}
		in, _, err := e.messageType(m.GetInputType())
		if err != nil {
			return "", err
		}
		out, _, err := e.messageType(m.GetOutputType())
		if err != nil {
			return "", err
		}
		e.runtimeValues[runtimeRPC] = true

		args := []string{strconv.Quote(string(d.Method)), strconv.Quote(d.Template.String())}
		if d.Body != "" {
			args = append(args, strconv.Quote(d.Body))
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(jsDoc(m, ""))
		sb.WriteString("export const " + svc.GetName() + "_" + m.GetName() +
			" = new " + runtimeRPC + "<" + in.TSType() + ", " + out.TSType() + ">(" +
			strings.Join(args, ", ") + ");\n")
	}
	return sb.String(), nil
}
