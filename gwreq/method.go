package main

import (
	"os"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// loadDescriptorSet reads a FileDescriptorSet as written by
// `protoc --include_imports --descriptor_set_out`.
func loadDescriptorSet(path string) (map[string]*desc.FileDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading descriptor set")
	}
	fds := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(data, fds); err != nil {
		return nil, errors.Wrapf(err, "parsing descriptor set %s", path)
	}
	files, err := desc.CreateFileDescriptorsFromSet(fds)
	if err != nil {
		return nil, errors.Wrap(err, "linking descriptor set")
	}
	return files, nil
}

// splitMethodName accepts "pkg.Service/Method" and "pkg.Service.Method".
func splitMethodName(name string) (service, method string, err error) {
	name = strings.TrimPrefix(name, "/")
	i := strings.LastIndexAny(name, "/.")
	if i <= 0 || i == len(name)-1 {
		return "", "", errors.Errorf("method %q is not of the form pkg.Service/Method", name)
	}
	return name[:i], name[i+1:], nil
}

func findMethod(files map[string]*desc.FileDescriptor, name string) (*desc.MethodDescriptor, error) {
	service, method, err := splitMethodName(name)
	if err != nil {
		return nil, err
	}
	for _, fd := range files {
		sd := fd.FindService(service)
		if sd == nil {
			continue
		}
		md := sd.FindMethodByName(method)
		if md == nil {
			return nil, errors.Errorf("service %s has no method %s", service, method)
		}
		return md, nil
	}
	return nil, errors.Errorf("service %s not found", service)
}
