package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the Schema.
// Deterministic ordering: type/directive names sorted lexicographically,
// fields, arguments and enum values in declaration order. The root operation
// types close the document in a schema block.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	typeNames := make([]string, 0, len(s.Types))
	for name, typ := range s.Types {
		if isBuiltinTypeDef(typ) {
			continue
		}
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	for _, name := range typeNames {
		typ := s.Types[name]
		switch typ.Kind {
		case TypeKindScalar:
			renderScalar(&b, typ)
		case TypeKindEnum:
			renderEnum(&b, typ)
		case TypeKindInputObject:
			renderInputObject(&b, typ)
		case TypeKindObject:
			renderObject(&b, typ)
		case TypeKindInterface:
			renderInterface(&b, typ)
		case TypeKindUnion:
			renderUnion(&b, typ)
		}
	}

	directiveNames := make([]string, 0, len(s.Directives))
	for name, directive := range s.Directives {
		if isBuiltinDirective(directive) {
			continue
		}
		directiveNames = append(directiveNames, name)
	}
	sort.Strings(directiveNames)
	for _, name := range directiveNames {
		renderDirective(&b, s.Directives[name])
	}

	renderSchemaDefinition(&b, s)

	out := strings.TrimRight(b.String(), "\n") + "\n"
	return out
}

func isBuiltinTypeDef(t *Type) bool {
	for _, b := range builtinTypes {
		if b == t {
			return true
		}
	}
	return false
}

// ----- render helpers -----

func renderSchemaDefinition(b *strings.Builder, s *Schema) {
	if s.QueryType == "" && s.MutationType == "" && s.SubscriptionType == "" {
		return
	}
	renderDescription(b, s.Description)
	b.WriteString("schema {\n")
	if s.QueryType != "" {
		b.WriteString("  query: " + s.QueryType + "\n")
	}
	if s.MutationType != "" {
		b.WriteString("  mutation: " + s.MutationType + "\n")
	}
	if s.SubscriptionType != "" {
		b.WriteString("  subscription: " + s.SubscriptionType + "\n")
	}
	b.WriteString("}\n")
}

func renderDescription(b *strings.Builder, desc string) {
	if desc == "" {
		return
	}
	b.WriteString("\"\"\"\n")
	escaped := strings.ReplaceAll(desc, "\"\"\"", "\\\"\"\"")
	b.WriteString(escaped)
	b.WriteString("\n\"\"\"\n")
}

func renderDeprecation(b *strings.Builder, deprecated bool, reason string) {
	if !deprecated {
		return
	}
	b.WriteString(" @deprecated")
	if reason != "" {
		b.WriteString("(reason: ")
		b.WriteString(strconv.Quote(reason))
		b.WriteString(")")
	}
}

func renderScalar(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("scalar ")
	b.WriteString(typ.Name)
	if typ.SpecifiedByURL != nil {
		b.WriteString(" @specifiedBy(url: ")
		b.WriteString(strconv.Quote(*typ.SpecifiedByURL))
		b.WriteString(")")
	}
	b.WriteString("\n\n")
}

func renderEnum(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("enum ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, val := range typ.EnumValues {
		renderDescription(b, val.Description)
		b.WriteString("  ")
		b.WriteString(val.Name)
		renderDeprecation(b, val.IsDeprecated, val.DeprecationReason)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderInputObject(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("input ")
	b.WriteString(typ.Name)
	if typ.OneOf {
		b.WriteString(" @oneOf")
	}
	b.WriteString(" {\n")
	for _, field := range typ.InputFields {
		renderDescription(b, field.Description)
		b.WriteString("  ")
		renderInputValue(b, field)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderObject(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("type ")
	b.WriteString(typ.Name)
	renderImplements(b, typ.Interfaces)
	b.WriteString(" {\n")
	for _, field := range typ.Fields {
		renderField(b, field)
	}
	b.WriteString("}\n\n")
}

func renderInterface(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("interface ")
	b.WriteString(typ.Name)
	renderImplements(b, typ.Interfaces)
	b.WriteString(" {\n")
	for _, field := range typ.Fields {
		renderField(b, field)
	}
	b.WriteString("}\n\n")
}

func renderImplements(b *strings.Builder, interfaces []string) {
	if len(interfaces) == 0 {
		return
	}
	b.WriteString(" implements ")
	b.WriteString(strings.Join(interfaces, " & "))
}

func renderUnion(b *strings.Builder, typ *Type) {
	renderDescription(b, typ.Description)
	b.WriteString("union ")
	b.WriteString(typ.Name)
	b.WriteString(" = ")
	b.WriteString(strings.Join(typ.PossibleTypes, " | "))
	b.WriteString("\n\n")
}

func renderField(b *strings.Builder, field *Field) {
	renderDescription(b, field.Description)
	b.WriteString("  ")
	b.WriteString(field.Name)
	renderArguments(b, field.Arguments)
	b.WriteString(": ")
	b.WriteString(renderTypeRef(field.Type))
	renderDeprecation(b, field.IsDeprecated, field.DeprecationReason)
	b.WriteString("\n")
}

func renderArguments(b *strings.Builder, args []*InputValue) {
	if len(args) == 0 {
		return
	}
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		renderInputValue(b, arg)
	}
	b.WriteString(")")
}

func renderInputValue(b *strings.Builder, iv *InputValue) {
	b.WriteString(iv.Name)
	b.WriteString(": ")
	b.WriteString(renderTypeRef(iv.Type))
	if iv.DefaultValue != nil {
		b.WriteString(" = ")
		b.WriteString(renderValue(iv.DefaultValue))
	}
	renderDeprecation(b, iv.IsDeprecated, iv.DeprecationReason)
}

func renderDirective(b *strings.Builder, directive *Directive) {
	renderDescription(b, directive.Description)
	b.WriteString("directive @")
	b.WriteString(directive.Name)
	renderArguments(b, directive.Arguments)
	if directive.IsRepeatable {
		b.WriteString(" repeatable")
	}
	b.WriteString(" on ")
	b.WriteString(strings.Join(directive.Locations, " | "))
	b.WriteString("\n\n")
}

func renderTypeRef(typeRef *TypeRef) string {
	if typeRef == nil {
		return ""
	}

	switch typeRef.Kind {
	case TypeRefKindNamed:
		return typeRef.Named
	case TypeRefKindList:
		return "[" + renderTypeRef(typeRef.OfType) + "]"
	case TypeRefKindNonNull:
		return renderTypeRef(typeRef.OfType) + "!"
	default:
		return ""
	}
}

// renderValue renders a GraphQL value literal for default values.
// Object keys are sorted so the output is stable.
func renderValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case EnumLiteral:
		return string(v)
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return renderFloat(float64(v), 32)
	case float64:
		return renderFloat(v, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, renderValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+renderValue(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}

// renderFloat keeps a fractional part so Float defaults never read as Int.
func renderFloat(v float64, bits int) string {
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
