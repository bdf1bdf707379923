package genes

import (
	"strings"
	"unicode"

	"github.com/jhump/protoreflect/desc"
)

// localName is the TypeScript name of a message or enum: its name relative
// to the package, nested names joined with "_".
func localName(d desc.Descriptor) string {
	name := d.GetFullyQualifiedName()
	if pkg := d.GetFile().GetPackage(); pkg != "" {
		name = strings.TrimPrefix(name, pkg+".")
	}
	return strings.ReplaceAll(name, ".", "_")
}

// enumValuePrefix returns the prefix shared by all values of e that is
// derived from the enum name (Color -> "COLOR_"), or "" when some value
// does not carry it or would become empty or start with a digit.
func enumValuePrefix(e *desc.EnumDescriptor) string {
	prefix := screamingSnake(e.GetName()) + "_"
	for _, v := range e.GetValues() {
		rest := strings.TrimPrefix(v.GetName(), prefix)
		if rest == v.GetName() || rest == "" || unicode.IsDigit(rune(rest[0])) {
			return ""
		}
	}
	return prefix
}

// screamingSnake converts MessageType to MESSAGE_TYPE.
func screamingSnake(s string) string {
	var sb strings.Builder
	prev := rune(0)
	for _, r := range s {
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
		prev = r
	}
	return sb.String()
}

// fieldName is the property name of f in the JSON mapping.
func (p *Parameters) fieldName(f *desc.FieldDescriptor) string {
	if p.OriginalNames {
		return f.GetName()
	}
	return f.GetJSONName()
}

// jsDoc renders the leading comment of d as a JSDoc block indented by
// indent, adding @deprecated when the element is deprecated. It returns ""
// when there is nothing to say.
func jsDoc(d desc.Descriptor, indent string) string {
	var lines []string
	if info := d.GetSourceInfo(); info != nil {
		comment := strings.TrimRight(info.GetLeadingComments(), "\n ")
		if comment != "" {
			for _, l := range strings.Split(comment, "\n") {
				lines = append(lines, strings.TrimPrefix(l, " "))
			}
		}
	}
	if isDeprecated(d) {
		lines = append(lines, "@deprecated")
	}
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, l := range lines {
		l = strings.ReplaceAll(l, "*/", "*\\/")
		if l == "" {
			sb.WriteString(indent + " *\n")
			continue
		}
		sb.WriteString(indent + " * " + l + "\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
