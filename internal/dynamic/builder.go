package dynamic

import (
	"strings"

	executor "github.com/hanpama/gqlcompose/internal/executor"
	schema "github.com/hanpama/gqlcompose/internal/schema"
	"go.uber.org/zap"
)

// SchemaBuilder collects definitions and validates them into a Schema.
type SchemaBuilder struct {
	query        string
	mutation     string
	subscription string
	description  string
	types        []Type
	logger       *zap.Logger
}

// NewSchemaBuilder starts a schema with the given root operation type names.
// Empty mutation and subscription names mean the operation is absent.
func NewSchemaBuilder(query, mutation, subscription string) *SchemaBuilder {
	return &SchemaBuilder{
		query:        query,
		mutation:     mutation,
		subscription: subscription,
		logger:       zap.NewNop(),
	}
}

func (b *SchemaBuilder) Register(t Type) *SchemaBuilder {
	b.types = append(b.types, t)
	return b
}

func (b *SchemaBuilder) Describe(description string) *SchemaBuilder {
	b.description = description
	return b
}

// WithLogger sets the logger used by the finished schema's runtime.
func (b *SchemaBuilder) WithLogger(logger *zap.Logger) *SchemaBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Finish validates every registered definition and returns an executable
// schema, or a *SchemaError listing every violation found.
func (b *SchemaBuilder) Finish() (*Schema, error) {
	st := &buildState{
		raw:       schema.NewSchema(b.description),
		defs:      make(map[string]Type),
		resolvers: make(map[string]map[string]*Field),
		scalars:   make(map[string]*Scalar),
	}

	for _, t := range b.types {
		st.add(t)
	}
	for _, t := range b.types {
		if st.defs[t.Name()] != t {
			continue
		}
		st.checkReferences(t)
	}
	for _, t := range b.types {
		if st.defs[t.Name()] != t {
			continue
		}
		st.checkImplementations(t)
	}
	st.checkRoots(b.query, b.mutation, b.subscription)

	if len(st.violations) > 0 {
		return nil, &SchemaError{Violations: st.violations}
	}

	st.raw.SetQueryType(b.query)
	st.raw.SetMutationType(b.mutation)
	st.raw.SetSubscriptionType(b.subscription)

	s := &Schema{
		raw:       st.raw,
		resolvers: st.resolvers,
		scalars:   st.scalars,
		logger:    b.logger,
	}
	s.executor = executor.NewExecutor(&runtime{schema: s}, st.raw)
	b.logger.Debug("schema finished", zap.Int("types", len(st.defs)))
	return s, nil
}

type buildState struct {
	raw        *schema.Schema
	defs       map[string]Type
	resolvers  map[string]map[string]*Field
	scalars    map[string]*Scalar
	violations []*Violation
}

func (st *buildState) violate(v *Violation) { st.violations = append(st.violations, v) }

func (st *buildState) add(t Type) {
	name := t.Name()
	switch {
	case strings.HasPrefix(name, "__"):
		st.violate(violationReservedName("Type", name, name))
		return
	case schema.IsBuiltinType(name):
		st.violate(violationBuiltinType(name))
		return
	case st.defs[name] != nil:
		st.violate(violationDuplicateType(name))
		return
	}
	st.defs[name] = t

	switch def := t.(type) {
	case *Object:
		typ := schema.NewType(name, schema.TypeKindObject, def.description)
		resolvers := make(map[string]*Field, len(def.fields))
		st.addFields(typ, "object", def.fields, func(f *Field) {
			if f.resolve == nil {
				st.violate(violationMissingResolver(name, f.name))
			}
			resolvers[f.name] = f
		})
		for _, iface := range def.interfaces {
			typ.AddInterface(iface)
		}
		if len(def.fields) == 0 {
			st.violate(violationEmptyType("Object", name))
		}
		st.resolvers[name] = resolvers
		st.raw.AddType(typ)
	case *Interface:
		typ := schema.NewType(name, schema.TypeKindInterface, def.description)
		st.addFields(typ, "interface", def.fields, nil)
		for _, iface := range def.interfaces {
			typ.AddInterface(iface)
		}
		if len(def.fields) == 0 {
			st.violate(violationEmptyType("Interface", name))
		}
		st.raw.AddType(typ)
	case *Union:
		typ := schema.NewType(name, schema.TypeKindUnion, def.description)
		for _, member := range def.members {
			typ.AddPossibleType(member)
		}
		if len(def.members) == 0 {
			st.violate(violationEmptyType("Union", name))
		}
		st.raw.AddType(typ)
	case *Enum:
		typ := schema.NewType(name, schema.TypeKindEnum, def.description)
		for _, v := range def.values {
			if typ.HasEnumValue(v.Name) {
				st.violate(violationDuplicateField("enum", v.Name, name))
				continue
			}
			typ.AddEnumValue(v)
		}
		if len(def.values) == 0 {
			st.violate(violationEmptyType("Enum", name))
		}
		st.raw.AddType(typ)
	case *InputObject:
		typ := schema.NewType(name, schema.TypeKindInputObject, def.description).SetOneOf(def.oneOf)
		for _, f := range def.fields {
			if typ.InputFieldByName(f.name) != nil {
				st.violate(violationDuplicateField("input", f.name, name))
				continue
			}
			typ.AddInputField(f.build())
		}
		if len(def.fields) == 0 {
			st.violate(violationEmptyType("Input", name))
		}
		st.raw.AddType(typ)
	case *Scalar:
		typ := schema.NewType(name, schema.TypeKindScalar, def.description)
		if def.specifiedBy != "" {
			typ.SetSpecifiedByURL(def.specifiedBy)
		}
		st.scalars[name] = def
		st.raw.AddType(typ)
	}
}

func (st *buildState) addFields(typ *schema.Type, kind string, fields []*Field, each func(*Field)) {
	for _, f := range fields {
		if strings.HasPrefix(f.name, "__") {
			st.violate(violationReservedName("Field", f.name, typ.Name))
			continue
		}
		if typ.Field(f.name) != nil {
			st.violate(violationDuplicateField(kind, f.name, typ.Name))
			continue
		}
		sf := schema.NewField(f.name, f.typ, f.description).SetAsync(f.async)
		if f.deprecated != nil {
			sf.Deprecate(*f.deprecated)
		}
		for _, arg := range f.arguments {
			sf.AddArgument(arg.build())
		}
		typ.AddField(sf)
		if each != nil {
			each(f)
		}
	}
}

func (iv *InputValue) build() *schema.InputValue {
	out := schema.NewInputValue(iv.name, iv.typ, iv.description).SetDefault(iv.defaultValue)
	if iv.deprecated != nil {
		out.Deprecate(*iv.deprecated)
	}
	return out
}

func (st *buildState) checkReferences(t Type) {
	typ := st.raw.Types[t.Name()]
	switch typ.Kind {
	case schema.TypeKindObject, schema.TypeKindInterface:
		for _, f := range typ.Fields {
			owner := typ.Name + "." + f.Name
			st.checkOutputRef(f.Type, owner)
			for _, arg := range f.Arguments {
				st.checkInputRef(arg, owner+"("+arg.Name+":)")
			}
		}
	case schema.TypeKindInputObject:
		for _, f := range typ.InputFields {
			st.checkInputRef(f, typ.Name+"."+f.Name)
		}
	case schema.TypeKindUnion:
		for _, member := range typ.PossibleTypes {
			if mt := st.raw.Types[member]; mt == nil || mt.Kind != schema.TypeKindObject {
				st.violate(violationUnionMember(typ.Name, member))
			}
		}
	}
}

func (st *buildState) checkOutputRef(ref *schema.TypeRef, owner string) {
	name := schema.GetNamedType(ref)
	target := st.raw.Types[name]
	if target == nil {
		st.violate(violationUnknownType(name, owner))
		return
	}
	if !target.Kind.IsOutputKind() {
		st.violate(violationNotOutputType(name, owner))
	}
}

func (st *buildState) checkInputRef(iv *schema.InputValue, owner string) {
	name := schema.GetNamedType(iv.Type)
	target := st.raw.Types[name]
	if target == nil {
		st.violate(violationUnknownType(name, owner))
		return
	}
	if !target.Kind.IsInputKind() {
		st.violate(violationNotInputType(name, owner))
		return
	}
	if lit, ok := iv.DefaultValue.(schema.EnumLiteral); ok && target.Kind == schema.TypeKindEnum && !target.HasEnumValue(string(lit)) {
		st.violate(violationEnumDefault(owner, string(lit), name))
	}
}

func (st *buildState) checkImplementations(t Type) {
	typ := st.raw.Types[t.Name()]
	if typ.Kind != schema.TypeKindObject && typ.Kind != schema.TypeKindInterface {
		return
	}
	for _, ifaceName := range typ.Interfaces {
		iface := st.raw.Types[ifaceName]
		if iface == nil || iface.Kind != schema.TypeKindInterface {
			st.violate(violationNotInterface(typ.Name, ifaceName))
			continue
		}
		for _, want := range iface.Fields {
			got := typ.Field(want.Name)
			if got == nil {
				st.violate(violationMissingInterfaceField(typ.Name, want.Name, ifaceName))
				continue
			}
			if !st.satisfies(got.Type, want.Type) {
				st.violate(violationInterfaceFieldType(typ.Name, want.Name, ifaceName, want.Type.String(), got.Type.String()))
			}
		}
		if typ.Kind == schema.TypeKindObject {
			iface.AddPossibleType(typ.Name)
		}
	}
}

// satisfies reports whether a field of type got may implement an interface
// field of type want.
func (st *buildState) satisfies(got, want *schema.TypeRef) bool {
	if schema.IsNonNull(want) {
		return schema.IsNonNull(got) && st.satisfies(got.OfType, want.OfType)
	}
	if schema.IsNonNull(got) {
		return st.satisfies(got.OfType, want)
	}
	if want.Kind == schema.TypeRefKindList {
		return got.Kind == schema.TypeRefKindList && st.satisfies(got.OfType, want.OfType)
	}
	if got.Kind == schema.TypeRefKindList {
		return false
	}
	return got.Named == want.Named || st.raw.IsPossibleType(want.Named, got.Named)
}

func (st *buildState) checkRoots(query, mutation, subscription string) {
	if query == "" {
		st.violate(violationMissingQueryRoot())
	}
	for _, root := range []struct{ operation, name string }{
		{"query", query},
		{"mutation", mutation},
		{"subscription", subscription},
	} {
		if root.name == "" {
			continue
		}
		if t := st.raw.Types[root.name]; t == nil || t.Kind != schema.TypeKindObject {
			st.violate(violationRootType(root.operation, root.name))
		}
	}
}
