// Package output implements value resolution for field results.
//
// A value becomes a field result either by being consumed (ResolveOwned) or
// by being referenced from data a live parent still holds (ResolveRef). The
// composite types Option, Result and List delegate to their contents in the
// same mode they were resolved in.
package output

import (
	"fmt"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
)

// OwnedResolver is implemented, on value receivers, by types that can be
// moved into a field result.
type OwnedResolver interface {
	ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error)
}

// RefResolver is implemented, on pointer receivers, by types that can be
// exposed by reference without copying.
type RefResolver interface {
	ResolveRef(rc *dynamic.ResolverContext) (dynamic.FieldValue, error)
}

// ResolveOwned consumes v. Built-in scalars are copied.
func ResolveOwned[T any](rc *dynamic.ResolverContext, v T) (dynamic.FieldValue, error) {
	switch x := any(v).(type) {
	case OwnedResolver:
		return x.ResolveOwned(rc)
	case dynamic.FieldValue:
		return x, nil
	}
	if fv, ok := scalarValue(any(v)); ok {
		return fv, nil
	}
	return dynamic.Null, fmt.Errorf("%T cannot be resolved as an owned value", v)
}

// ResolveRef exposes the value v points to. A nil pointer is null. Built-in
// scalars and types that only implement OwnedResolver are copied.
func ResolveRef[T any](rc *dynamic.ResolverContext, v *T) (dynamic.FieldValue, error) {
	if v == nil {
		return dynamic.Null, nil
	}
	if r, ok := any(v).(RefResolver); ok {
		return r.ResolveRef(rc)
	}
	if fv, ok := scalarValue(any(*v)); ok {
		return fv, nil
	}
	if r, ok := any(*v).(OwnedResolver); ok {
		return r.ResolveOwned(rc)
	}
	return dynamic.Null, fmt.Errorf("%T cannot be resolved as a reference", v)
}

func scalarValue(v any) (dynamic.FieldValue, bool) {
	switch x := v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return dynamic.Value(x), true
	case ID:
		return dynamic.Value(string(x)), true
	}
	return dynamic.Null, false
}
