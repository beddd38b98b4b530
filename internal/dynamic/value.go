package dynamic

import "reflect"

type valueKind uint8

const (
	kindNull valueKind = iota
	kindValue
	kindOwned
	kindBorrowed
	kindList
	kindItemError
)

// FieldValue is the result of one field resolver.
//
// A FieldValue is one of: null, a copied leaf value, an owned value, a
// borrowed reference into data held by a live ancestor, a list of field
// values, or a list element error. Owned and borrowed values may carry a type
// name; it is required when the field's declared type is an interface or a
// union and is how the concrete object type is selected.
type FieldValue struct {
	kind     valueKind
	value    any
	typeName string
	items    []FieldValue
	err      error
}

// Null is the null field value.
var Null = FieldValue{}

// Value wraps a leaf value (scalar or enum), copied into the result.
func Value(v any) FieldValue {
	if isNil(v) {
		return Null
	}
	return FieldValue{kind: kindValue, value: v}
}

// Owned wraps a value that the result now owns. typeName may be empty when
// the declared type is an object type.
func Owned(v any, typeName string) FieldValue {
	if isNil(v) {
		return Null
	}
	return FieldValue{kind: kindOwned, value: v, typeName: typeName}
}

// Borrowed wraps a pointer into data owned by a parent value. A nil pointer
// resolves to null.
func Borrowed(ref any, typeName string) FieldValue {
	if isNil(ref) {
		return Null
	}
	return FieldValue{kind: kindBorrowed, value: ref, typeName: typeName}
}

// ListValue builds a list result. Elements resolve independently.
func ListValue(items []FieldValue) FieldValue {
	if items == nil {
		items = []FieldValue{}
	}
	return FieldValue{kind: kindList, items: items}
}

// ErrorItem marks a list element whose resolution failed. The error is
// recorded at the element's index and the element becomes null.
func ErrorItem(err error) FieldValue {
	return FieldValue{kind: kindItemError, err: err}
}

func (v FieldValue) IsNull() bool { return v.kind == kindNull }

func (v FieldValue) IsList() bool { return v.kind == kindList }

// IsBorrowed reports whether the value references parent-owned data.
func (v FieldValue) IsBorrowed() bool { return v.kind == kindBorrowed }

// IsOwned reports whether the value was moved into the result.
func (v FieldValue) IsOwned() bool { return v.kind == kindOwned }

// TypeName returns the concrete GraphQL type name carried by the value.
func (v FieldValue) TypeName() string { return v.typeName }

// Any returns the wrapped Go value, or nil for null, lists and error items.
func (v FieldValue) Any() any { return v.value }

// Items returns the elements of a list value.
func (v FieldValue) Items() []FieldValue { return v.items }

// Err returns the error of an error item.
func (v FieldValue) Err() error { return v.err }

// WithTypeName returns a copy of v tagged with typeName.
func (v FieldValue) WithTypeName(typeName string) FieldValue {
	v.typeName = typeName
	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
