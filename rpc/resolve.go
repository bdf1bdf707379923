package rpc

import "strings"

// ResolvePath substitutes every placeholder of t with the string found at
// its field path in params. It returns the literal path and the field paths
// it consumed, in template order; params itself is not modified.
//
// Values are inserted verbatim, without escaping. A placeholder whose value
// was already consumed by an earlier placeholder is reported as missing.
//
// Build later percent-encodes the characters that cannot appear in a URL
// path, so a value holding "?" or "#" stays part of the path instead of
// starting the query or fragment.
func ResolvePath(t *PathTemplate, params *Tree) (string, []FieldPath, error) {
	var sb strings.Builder
	consumed := make([]FieldPath, 0, len(t.placeholders))
	for i, ph := range t.placeholders {
		sb.WriteString(t.literals[i])
		if isConsumed(consumed, ph.Path) {
			return "", nil, &MissingPathParameterError{Path: ph.Path}
		}
		v, ok := params.Lookup(ph.Path)
		if !ok || v.IsNull() {
			return "", nil, &MissingPathParameterError{Path: ph.Path}
		}
		s, ok := v.AsString()
		if !ok {
			return "", nil, &InvalidPathParameterTypeError{Path: ph.Path, Type: v.Kind().String(), Value: v}
		}
		sb.WriteString(s)
		consumed = append(consumed, ph.Path)
	}
	sb.WriteString(t.literals[len(t.literals)-1])
	return sb.String(), consumed, nil
}

func isConsumed(consumed []FieldPath, p FieldPath) bool {
	for _, c := range consumed {
		if p.hasPrefix(c) {
			return true
		}
	}
	return false
}
