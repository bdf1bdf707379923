package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/rpc"
)

// readParams loads request parameters from a JSON or YAML file, "-" being
// stdin. An empty path or document means no parameters. Key order of the
// document is kept.
func readParams(path string, stdin io.Reader) (*rpc.Tree, error) {
	if path == "" {
		return nil, nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading params")
	}
	return parseParams(data)
}

func parseParams(data []byte) (*rpc.Tree, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var v rpc.Value
	if trimmed[0] == '{' {
		// JSON keeps the literal form of large numbers
		parsed, err := rpc.ParseJSON(trimmed)
		if err != nil {
			return nil, err
		}
		v = parsed
	} else {
		var doc yaml.Node
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, errors.Wrap(err, "decoding YAML params")
		}
		parsed, err := nodeValue(&doc)
		if err != nil {
			return nil, err
		}
		v = parsed
	}
	return rpc.TreeFrom(v)
}

func nodeValue(n *yaml.Node) (rpc.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return rpc.Null(), nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		t := rpc.NewTree()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return rpc.Value{}, errors.Wrapf(err, "key %q", n.Content[i].Value)
			}
			t.Set(n.Content[i].Value, v)
		}
		return rpc.Object(t), nil
	case yaml.SequenceNode:
		seq := make([]rpc.Value, len(n.Content))
		for i, c := range n.Content {
			var err error
			if seq[i], err = nodeValue(c); err != nil {
				return rpc.Value{}, err
			}
		}
		return rpc.Seq(seq...), nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str", "!!binary", "!!timestamp":
			return rpc.String(n.Value), nil
		}
		var x any
		if err := n.Decode(&x); err != nil {
			return rpc.Value{}, errors.Wrapf(err, "line %d", n.Line)
		}
		v, err := rpc.FromAny(x)
		return v, errors.Wrapf(err, "line %d", n.Line)
	}
	return rpc.Value{}, errors.Errorf("unsupported YAML node at line %d", n.Line)
}
