package output

import (
	"errors"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
)

// ErrMissingTypeName is returned when an AnyBox without a type name is
// resolved.
var ErrMissingTypeName = errors.New("any box has no type name")

// AnyBox holds a type-erased value for an interface or union field, tagged
// with the GraphQL name of its concrete object type.
type AnyBox struct {
	value    any
	typeName string
	borrowed bool
}

// NewOwned boxes a freshly built value.
func NewOwned[T any](v T, typeName string) AnyBox {
	return AnyBox{value: v, typeName: typeName}
}

// NewBorrowed boxes a reference to parent-owned data.
func NewBorrowed[T any](v *T, typeName string) AnyBox {
	return AnyBox{value: v, typeName: typeName, borrowed: true}
}

func (b AnyBox) TypeName() string { return b.typeName }

func (b AnyBox) IsBorrowed() bool { return b.borrowed }

// Value returns the boxed value: T for owned boxes, *T for borrowed ones.
func (b AnyBox) Value() any { return b.value }

func (b AnyBox) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	return b.resolve()
}

func (b *AnyBox) ResolveRef(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	return b.resolve()
}

func (b AnyBox) resolve() (dynamic.FieldValue, error) {
	if b.typeName == "" {
		return dynamic.Null, ErrMissingTypeName
	}
	if b.borrowed {
		return dynamic.Borrowed(b.value, b.typeName), nil
	}
	return dynamic.Owned(b.value, b.typeName), nil
}
