package schema

// NewSchema returns an empty schema preloaded with the built-in scalars and
// directives. Root operation types are set separately.
func NewSchema(description string) *Schema {
	s := &Schema{
		Types:       make(map[string]*Type),
		Directives:  make(map[string]*Directive),
		Description: description,
	}
	for _, t := range builtinTypes {
		s.Types[t.Name] = t
	}
	for _, d := range builtinDirectives {
		s.Directives[d.Name] = d
	}
	return s
}

func (s *Schema) SetQueryType(name string) *Schema {
	s.QueryType = name
	return s
}

func (s *Schema) SetMutationType(name string) *Schema {
	s.MutationType = name
	return s
}

func (s *Schema) SetSubscriptionType(name string) *Schema {
	s.SubscriptionType = name
	return s
}

// AddType adds t to the schema, replacing any type with the same name.
func (s *Schema) AddType(t *Type) *Schema {
	if s.Types == nil {
		s.Types = make(map[string]*Type)
	}
	s.Types[t.Name] = t
	return s
}

func (s *Schema) AddDirective(d *Directive) *Schema {
	if s.Directives == nil {
		s.Directives = make(map[string]*Directive)
	}
	s.Directives[d.Name] = d
	return s
}

func NewType(name string, kind TypeKind, description string) *Type {
	return &Type{Name: name, Kind: kind, Description: description}
}

func (t *Type) AddField(f *Field) *Type {
	t.Fields = append(t.Fields, f)
	return t
}

// Field returns the field named name, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *Type) AddInterface(name string) *Type {
	if !contains(t.Interfaces, name) {
		t.Interfaces = append(t.Interfaces, name)
	}
	return t
}

func (t *Type) AddPossibleType(name string) *Type {
	if !contains(t.PossibleTypes, name) {
		t.PossibleTypes = append(t.PossibleTypes, name)
	}
	return t
}

func (t *Type) AddEnumValue(v *EnumValue) *Type {
	t.EnumValues = append(t.EnumValues, v)
	return t
}

// HasEnumValue reports whether name is one of the enum's values.
func (t *Type) HasEnumValue(name string) bool {
	for _, v := range t.EnumValues {
		if v.Name == name {
			return true
		}
	}
	return false
}

func (t *Type) AddInputField(iv *InputValue) *Type {
	t.InputFields = append(t.InputFields, iv)
	return t
}

func (t *Type) SetOneOf(oneOf bool) *Type {
	t.OneOf = oneOf
	return t
}

func (t *Type) SetSpecifiedByURL(url string) *Type {
	t.SpecifiedByURL = &url
	return t
}

func NewField(name string, typ *TypeRef, description string) *Field {
	return &Field{Name: name, Type: typ, Description: description}
}

func (f *Field) SetAsync(async bool) *Field {
	f.Async = async
	return f
}

func (f *Field) Deprecate(reason string) *Field {
	f.IsDeprecated = true
	f.DeprecationReason = reason
	return f
}

func (f *Field) AddArgument(iv *InputValue) *Field {
	f.Arguments = append(f.Arguments, iv)
	return f
}

// Argument returns the argument named name, or nil.
func (f *Field) Argument(name string) *InputValue {
	for _, a := range f.Arguments {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func NewInputValue(name string, typ *TypeRef, description string) *InputValue {
	return &InputValue{Name: name, Type: typ, Description: description}
}

func (iv *InputValue) SetDefault(v any) *InputValue {
	iv.DefaultValue = v
	return iv
}

func (iv *InputValue) Deprecate(reason string) *InputValue {
	iv.IsDeprecated = true
	iv.DeprecationReason = reason
	return iv
}

func NewEnumValue(name, description string) *EnumValue {
	return &EnumValue{Name: name, Description: description}
}

func (v *EnumValue) Deprecate(reason string) *EnumValue {
	v.IsDeprecated = true
	v.DeprecationReason = reason
	return v
}

func NewDirective(name, description string, locations ...string) *Directive {
	return &Directive{Name: name, Description: description, Locations: locations}
}

func (d *Directive) AddArgument(iv *InputValue) *Directive {
	d.Arguments = append(d.Arguments, iv)
	return d
}

func (d *Directive) SetRepeatable(repeatable bool) *Directive {
	d.IsRepeatable = repeatable
	return d
}

// NewFieldMap collects fields in declaration order.
func NewFieldMap(fields ...*Field) []*Field {
	out := make([]*Field, 0, len(fields))
	return append(out, fields...)
}

// InputFieldByName returns the input field named name, or nil.
func (t *Type) InputFieldByName(name string) *InputValue {
	for _, f := range t.InputFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
