// Package foobar registers the FooBar union of Foo and Bar.
package foobar

import (
	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

type Foo struct{ A string }

type Bar struct{ B string }

// FooBar is implemented by Foo and Bar only.
type FooBar interface{ isFooBar() }

func (Foo) isFooBar() {}
func (Bar) isFooBar() {}

// Box tags a variant with its GraphQL type name. Values are owned by the
// box; pointers are borrowed.
func Box(v FooBar) output.AnyBox {
	switch x := v.(type) {
	case Foo:
		return output.NewOwned(x, "Foo")
	case Bar:
		return output.NewOwned(x, "Bar")
	case *Foo:
		return output.NewBorrowed(x, "Foo")
	case *Bar:
		return output.NewBorrowed(x, "Bar")
	}
	return output.AnyBox{}
}

// current is the value Query.foobar borrows from.
var current = &Bar{B: "x"}

const moduleName = "foobar"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	foo := dynamic.NewObject("Foo").
		Field(dynamic.NewField("a", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			f, err := dynamic.ParentAs[Foo](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &f.A)
		}))
	bar := dynamic.NewObject("Bar").
		Field(dynamic.NewField("b", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			b, err := dynamic.ParentAs[Bar](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &b.B)
		}))
	for _, obj := range []*dynamic.Object{foo, bar} {
		if err := r.RegisterObject(obj); err != nil {
			return err
		}
	}
	if err := r.RegisterUnion(dynamic.NewUnion("FooBar").PossibleType("Foo").PossibleType("Bar")); err != nil {
		return err
	}

	return r.InjectFields("Query", moduleName,
		dynamic.NewField("foobar", dynamic.NamedNN("FooBar"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			box := Box(current)
			return output.ResolveRef(rc, &box)
		}),
		dynamic.NewField("newFoobar", dynamic.NamedNN("FooBar"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			return output.ResolveOwned(rc, Box(Foo{A: "fresh"}))
		}),
	)
}
