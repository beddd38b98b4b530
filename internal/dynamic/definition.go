package dynamic

import (
	"sort"

	schema "github.com/hanpama/gqlcompose/internal/schema"
)

// ResolverFunc computes one field value from its resolver context.
type ResolverFunc func(rc *ResolverContext) (FieldValue, error)

// Type is a named definition accepted by SchemaBuilder.Register.
type Type interface {
	Name() string
	kind() schema.TypeKind
}

// Field is an output field of an object or interface. Interface fields carry
// no resolver.
type Field struct {
	name        string
	typ         *schema.TypeRef
	description string
	arguments   []*InputValue
	resolve     ResolverFunc
	async       bool
	deprecated  *string
}

func NewField(name string, typ *schema.TypeRef, resolve ResolverFunc) *Field {
	return &Field{name: name, typ: typ, resolve: resolve}
}

func (f *Field) Name() string { return f.name }

func (f *Field) Type() *schema.TypeRef { return f.typ }

func (f *Field) Describe(description string) *Field {
	f.description = description
	return f
}

// Argument appends an argument definition.
func (f *Field) Argument(arg *InputValue) *Field {
	f.arguments = append(f.arguments, arg)
	return f
}

// Async marks the field for depth-wise batched, concurrent resolution.
func (f *Field) Async() *Field {
	f.async = true
	return f
}

func (f *Field) Deprecated(reason string) *Field {
	f.deprecated = &reason
	return f
}

// InputValue is an argument or an input object field.
type InputValue struct {
	name         string
	typ          *schema.TypeRef
	description  string
	defaultValue any
	deprecated   *string
}

func NewInputValue(name string, typ *schema.TypeRef) *InputValue {
	return &InputValue{name: name, typ: typ}
}

func (iv *InputValue) Name() string { return iv.name }

// Default sets the value used when the argument or field is omitted. Enum
// defaults are given as schema.EnumLiteral so they render as bare names.
func (iv *InputValue) Default(v any) *InputValue {
	iv.defaultValue = v
	return iv
}

func (iv *InputValue) Describe(description string) *InputValue {
	iv.description = description
	return iv
}

func (iv *InputValue) Deprecated(reason string) *InputValue {
	iv.deprecated = &reason
	return iv
}

// Object is an object type definition.
type Object struct {
	name        string
	description string
	fields      []*Field
	interfaces  []string
}

func NewObject(name string) *Object { return &Object{name: name} }

func (o *Object) Name() string          { return o.name }
func (o *Object) kind() schema.TypeKind { return schema.TypeKindObject }

func (o *Object) Describe(description string) *Object {
	o.description = description
	return o
}

// Field appends a field. Duplicate names are reported by SchemaBuilder.Finish.
func (o *Object) Field(f *Field) *Object {
	o.fields = append(o.fields, f)
	return o
}

// Implement declares that the object implements the named interface.
func (o *Object) Implement(iface string) *Object {
	for _, existing := range o.interfaces {
		if existing == iface {
			return o
		}
	}
	o.interfaces = append(o.interfaces, iface)
	return o
}

// FieldNames lists field names in declaration order.
func (o *Object) FieldNames() []string {
	names := make([]string, len(o.fields))
	for i, f := range o.fields {
		names[i] = f.name
	}
	return names
}

func (o *Object) HasField(name string) bool {
	for _, f := range o.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

func (o *Object) Interfaces() []string { return append([]string(nil), o.interfaces...) }

// SortFrom sorts fields from index fieldStart and interfaces from index
// interfaceStart by name, keeping the leading entries in place.
func (o *Object) SortFrom(fieldStart, interfaceStart int) *Object {
	if fieldStart < len(o.fields) {
		tail := o.fields[fieldStart:]
		sort.SliceStable(tail, func(i, j int) bool { return tail[i].name < tail[j].name })
	}
	if interfaceStart < len(o.interfaces) {
		sort.Strings(o.interfaces[interfaceStart:])
	}
	return o
}

// Interface is an interface type definition.
type Interface struct {
	name        string
	description string
	fields      []*Field
	interfaces  []string
}

func NewInterface(name string) *Interface { return &Interface{name: name} }

func (i *Interface) Name() string          { return i.name }
func (i *Interface) kind() schema.TypeKind { return schema.TypeKindInterface }

func (i *Interface) Describe(description string) *Interface {
	i.description = description
	return i
}

func (i *Interface) Field(f *Field) *Interface {
	i.fields = append(i.fields, f)
	return i
}

// Implement declares that the interface extends another interface.
func (i *Interface) Implement(iface string) *Interface {
	i.interfaces = append(i.interfaces, iface)
	return i
}

// Union is a union type definition.
type Union struct {
	name        string
	description string
	members     []string
}

func NewUnion(name string) *Union { return &Union{name: name} }

func (u *Union) Name() string          { return u.name }
func (u *Union) kind() schema.TypeKind { return schema.TypeKindUnion }

func (u *Union) Describe(description string) *Union {
	u.description = description
	return u
}

// PossibleType adds an object type to the union.
func (u *Union) PossibleType(name string) *Union {
	u.members = append(u.members, name)
	return u
}

// Enum is an enum type definition.
type Enum struct {
	name        string
	description string
	values      []*schema.EnumValue
}

func NewEnum(name string) *Enum { return &Enum{name: name} }

func (e *Enum) Name() string          { return e.name }
func (e *Enum) kind() schema.TypeKind { return schema.TypeKindEnum }

func (e *Enum) Describe(description string) *Enum {
	e.description = description
	return e
}

func (e *Enum) Item(name string) *Enum {
	e.values = append(e.values, schema.NewEnumValue(name, ""))
	return e
}

func (e *Enum) DeprecatedItem(name, reason string) *Enum {
	e.values = append(e.values, schema.NewEnumValue(name, "").Deprecate(reason))
	return e
}

// InputObject is an input object type definition.
type InputObject struct {
	name        string
	description string
	fields      []*InputValue
	oneOf       bool
}

func NewInputObject(name string) *InputObject { return &InputObject{name: name} }

func (io *InputObject) Name() string          { return io.name }
func (io *InputObject) kind() schema.TypeKind { return schema.TypeKindInputObject }

func (io *InputObject) Describe(description string) *InputObject {
	io.description = description
	return io
}

func (io *InputObject) Field(f *InputValue) *InputObject {
	io.fields = append(io.fields, f)
	return io
}

// OneOf requires exactly one non-null field to be supplied.
func (io *InputObject) OneOf() *InputObject {
	io.oneOf = true
	return io
}

// Scalar is a custom scalar definition.
type Scalar struct {
	name        string
	description string
	specifiedBy string
	serialize   func(any) (any, error)
}

func NewScalar(name string) *Scalar { return &Scalar{name: name} }

func (s *Scalar) Name() string          { return s.name }
func (s *Scalar) kind() schema.TypeKind { return schema.TypeKindScalar }

func (s *Scalar) Describe(description string) *Scalar {
	s.description = description
	return s
}

func (s *Scalar) SpecifiedBy(url string) *Scalar {
	s.specifiedBy = url
	return s
}

// Serialize sets the output coercion. Without one, values pass through.
func (s *Scalar) Serialize(fn func(any) (any, error)) *Scalar {
	s.serialize = fn
	return s
}
