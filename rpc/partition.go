package rpc

import (
	"strconv"

	"github.com/pkg/errors"
)

// QueryEntry is one key=value pair of the query string.
type QueryEntry struct {
	Key   string
	Value string
}

// Warning describes a parameter that could not be expressed in the query
// string and was left out of the request.
type Warning struct {
	Key    string
	Kind   Kind
	Reason string
}

func (w Warning) String() string {
	return w.Key + ": " + w.Reason
}

// Partitioned is the outcome of Partition.
type Partitioned struct {
	// Body is the JSON request body, nil when the request has none.
	Body     []byte
	Query    []QueryEntry
	Warnings []Warning
}

// Partition splits params into a JSON body and query entries according to
// the verb and the body selector. Fields listed in consumed (the path
// parameters) never reach the query string, and are left out of the body
// unless they live inside the selected body field.
//
//	GET, DELETE             no body, remaining fields -> query
//	POST/PUT/PATCH, no body  remaining fields -> body, no query
//	POST/PUT/PATCH, body f   params[f] -> body, other fields -> query
func Partition(params *Tree, consumed []FieldPath, method Method, body string) (*Partitioned, error) {
	p := &Partitioned{}
	remaining := params.Without(consumed)

	var candidates *Tree
	switch {
	case !method.HasBody():
		candidates = remaining
	case body != "":
		if v, ok := params.Get(body); ok && !v.IsNull() {
			b, err := v.MarshalJSON()
			if err != nil {
				return nil, errors.Wrapf(err, "encoding body field %q", body)
			}
			p.Body = b
		}
		candidates = remaining.Without([]FieldPath{{body}})
	case params != nil:
		b, err := remaining.MarshalJSON()
		if err != nil {
			return nil, errors.Wrap(err, "encoding body")
		}
		p.Body = b
	}

	for _, key := range candidates.Keys() {
		v, _ := candidates.Get(key)
		p.addQuery(key, v)
	}
	return p, nil
}

func (p *Partitioned) addQuery(key string, v Value) {
	switch v.Kind() {
	case KindNull:
	case KindSequence:
		elems, _ := v.AsSeq()
		for i, e := range elems {
			if s, ok := e.Text(); ok {
				p.Query = append(p.Query, QueryEntry{Key: key, Value: s})
				continue
			}
			if e.IsNull() {
				continue
			}
			p.Warnings = append(p.Warnings, Warning{
				Key:    key,
				Kind:   e.Kind(),
				Reason: "element " + strconv.Itoa(i) + " is " + e.Kind().String() + ", only scalars can be sent as query parameters",
			})
		}
	case KindTree:
		p.Warnings = append(p.Warnings, Warning{
			Key:    key,
			Kind:   KindTree,
			Reason: "objects cannot be sent as query parameters",
		})
	default:
		s, _ := v.Text()
		p.Query = append(p.Query, QueryEntry{Key: key, Value: s})
	}
}
