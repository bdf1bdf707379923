package rpc

import (
	"strings"

	"github.com/pkg/errors"
)

// Placeholder is one `{field.path=pattern}` segment of a PathTemplate.
type Placeholder struct {
	Path FieldPath
	// Pattern is the text after '=', empty when absent. It documents the
	// expected shape of the value and is not enforced.
	Pattern string
}

func (p Placeholder) String() string {
	if p.Pattern == "" {
		return "{" + p.Path.String() + "}"
	}
	return "{" + p.Path.String() + "=" + p.Pattern + "}"
}

// PathTemplate is a parsed google.api.http path: literal fragments
// interleaved with placeholders. literals always holds one more element
// than placeholders.
type PathTemplate struct {
	literals     []string
	placeholders []Placeholder
}

// ParseTemplate parses a path such as
// "/v1/{name=projects/*/documents/*}:publish".
func ParseTemplate(s string) (*PathTemplate, error) {
	t := &PathTemplate{}
	var lit strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			end := strings.IndexAny(s[i+1:], "{}")
			if end < 0 || s[i+1+end] != '}' {
				return nil, errors.Wrapf(ErrInvalidTemplate, "unterminated placeholder at offset %d in %q", i, s)
			}
			body := s[i+1 : i+1+end]
			ph, err := parsePlaceholder(body)
			if err != nil {
				return nil, errors.Wrapf(err, "in %q", s)
			}
			t.literals = append(t.literals, lit.String())
			t.placeholders = append(t.placeholders, ph)
			lit.Reset()
			i += end + 1
		case '}':
			return nil, errors.Wrapf(ErrInvalidTemplate, "unbalanced '}' at offset %d in %q", i, s)
		default:
			lit.WriteByte(c)
		}
	}
	t.literals = append(t.literals, lit.String())
	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(s string) *PathTemplate {
	t, err := ParseTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parsePlaceholder(body string) (Placeholder, error) {
	name, pattern, _ := strings.Cut(body, "=")
	path := ParseFieldPath(name)
	if len(path) == 0 {
		return Placeholder{}, errors.Wrap(ErrInvalidTemplate, "empty placeholder")
	}
	for _, seg := range path {
		if seg == "" {
			return Placeholder{}, errors.Wrapf(ErrInvalidTemplate, "empty segment in field path %q", name)
		}
	}
	return Placeholder{Path: path, Pattern: pattern}, nil
}

// Placeholders returns the placeholders in template order.
func (t *PathTemplate) Placeholders() []Placeholder {
	return append([]Placeholder(nil), t.placeholders...)
}

// MapFieldPaths returns a copy of t with every placeholder path replaced by
// fn(path). Literals and patterns are kept.
func (t *PathTemplate) MapFieldPaths(fn func(FieldPath) FieldPath) *PathTemplate {
	out := &PathTemplate{
		literals:     append([]string(nil), t.literals...),
		placeholders: make([]Placeholder, len(t.placeholders)),
	}
	for i, ph := range t.placeholders {
		out.placeholders[i] = Placeholder{Path: fn(append(FieldPath(nil), ph.Path...)), Pattern: ph.Pattern}
	}
	return out
}

func (t *PathTemplate) String() string {
	var sb strings.Builder
	for i, ph := range t.placeholders {
		sb.WriteString(t.literals[i])
		sb.WriteString(ph.String())
	}
	sb.WriteString(t.literals[len(t.literals)-1])
	return sb.String()
}
