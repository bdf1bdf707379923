package rpc

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Method is one of the HTTP verbs a google.api.http rule can bind.
type Method string

const (
	MethodDelete Method = http.MethodDelete
	MethodGet    Method = http.MethodGet
	MethodPatch  Method = http.MethodPatch
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
)

// ParseMethod accepts a verb in any case.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(s)); m {
	case MethodDelete, MethodGet, MethodPatch, MethodPost, MethodPut:
		return m, nil
	}
	return "", errors.Wrapf(ErrUnsupportedMethod, "%q", s)
}

// HasBody reports whether requests with this verb carry a body.
func (m Method) HasBody() bool {
	return m != MethodGet && m != MethodDelete
}

// Descriptor describes how one RPC maps onto HTTP. It is immutable and safe
// for concurrent use.
type Descriptor struct {
	Method   Method
	Template *PathTemplate
	// Body names the top-level field sent as the request body. Empty means
	// the whole message (minus path parameters) is the body.
	Body string
}

// NewDescriptor parses the parts of a google.api.http rule. A body of "*"
// is the same as no body selector.
func NewDescriptor(method, path, body string) (*Descriptor, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	t, err := ParseTemplate(path)
	if err != nil {
		return nil, err
	}
	if body == "*" {
		body = ""
	}
	return &Descriptor{Method: m, Template: t, Body: body}, nil
}

// MustDescriptor is like NewDescriptor but panics on error.
func MustDescriptor(method, path, body string) *Descriptor {
	d, err := NewDescriptor(method, path, body)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Descriptor) String() string {
	s := string(d.Method) + " " + d.Template.String()
	if d.Body != "" {
		s += " body:" + d.Body
	}
	return s
}
