package dynamic

import "fmt"

type Violation struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// SchemaError collects every violation found while finishing a schema.
type SchemaError struct {
	Violations []*Violation
}

func (e *SchemaError) Error() string {
	msg := "schema violations found:\n"
	for _, v := range e.Violations {
		msg += "- " + v.Message + "\n"
	}
	return msg
}

// NOTE: Keep messages stable; tests match on them.

func violationDuplicateType(name string) *Violation {
	return &Violation{Type: name, Message: fmt.Sprintf("Type %q is defined more than once", name)}
}

func violationBuiltinType(name string) *Violation {
	return &Violation{Type: name, Message: fmt.Sprintf("Type %q redefines a built-in type", name)}
}

func violationEmptyType(kind, name string) *Violation {
	return &Violation{Type: name, Message: fmt.Sprintf("%s %q must define at least one member", kind, name)}
}

func violationDuplicateField(kind, fieldName, typeName string) *Violation {
	return &Violation{Type: typeName, Message: fmt.Sprintf("Duplicate field %q found in %s %q", fieldName, kind, typeName)}
}

func violationReservedName(kind, name, typeName string) *Violation {
	return &Violation{Type: typeName, Message: fmt.Sprintf("%s name %q cannot start with '__' (reserved prefix)", kind, name)}
}

func violationUnknownType(ref, owner string) *Violation {
	return &Violation{Type: owner, Message: fmt.Sprintf("Unknown type %q referenced by %s", ref, owner)}
}

func violationNotOutputType(ref, owner string) *Violation {
	return &Violation{Type: owner, Message: fmt.Sprintf("Type %q used by %s is not an output type", ref, owner)}
}

func violationNotInputType(ref, owner string) *Violation {
	return &Violation{Type: owner, Message: fmt.Sprintf("Type %q used by %s is not an input type", ref, owner)}
}

func violationMissingResolver(typeName, fieldName string) *Violation {
	return &Violation{Type: typeName, Message: fmt.Sprintf("Field %s.%s has no resolver", typeName, fieldName)}
}

func violationNotInterface(typeName, iface string) *Violation {
	return &Violation{Type: typeName, Message: fmt.Sprintf("Type %q implements %q which is not an interface", typeName, iface)}
}

func violationMissingInterfaceField(typeName, fieldName, iface string) *Violation {
	return &Violation{Type: typeName, Message: fmt.Sprintf("Type %q is missing field %q required by interface %q", typeName, fieldName, iface)}
}

func violationInterfaceFieldType(typeName, fieldName, iface, want, got string) *Violation {
	return &Violation{Type: typeName, Message: fmt.Sprintf("Field %s.%s has type %s which does not satisfy %s.%s of type %s", typeName, fieldName, got, iface, fieldName, want)}
}

func violationUnionMember(union, member string) *Violation {
	return &Violation{Type: union, Message: fmt.Sprintf("Union %q member %q is not an object type", union, member)}
}

func violationRootType(operation, name string) *Violation {
	return &Violation{Type: name, Message: fmt.Sprintf("Root %s type %q is not a defined object type", operation, name)}
}

func violationMissingQueryRoot() *Violation {
	return &Violation{Message: "Schema must define a query root type"}
}

func violationEnumDefault(owner, value, enum string) *Violation {
	return &Violation{Type: owner, Message: fmt.Sprintf("Default value %s of %s does not exist in enum %q", value, owner, enum)}
}
