// Package pets registers the Animal union and the Named interface.
package pets

import (
	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

type Dog struct {
	Name  string
	Barks bool
}

type Cat struct {
	Name  string
	Lives int
}

// Snake is an Animal but not Named.
type Snake struct {
	Length float64
}

type Animal interface{ isAnimal() }

func (Dog) isAnimal()   {}
func (Cat) isAnimal()   {}
func (Snake) isAnimal() {}

func box(a Animal) output.AnyBox {
	switch x := a.(type) {
	case Dog:
		return output.NewOwned(x, "Dog")
	case Cat:
		return output.NewOwned(x, "Cat")
	case Snake:
		return output.NewOwned(x, "Snake")
	}
	return output.AnyBox{}
}

// Zoo is the fixed animal list served by Query.animals.
var Zoo = []Animal{
	Dog{Name: "Rex", Barks: true},
	Cat{Name: "Tom", Lives: 9},
	Snake{Length: 2.5},
}

const moduleName = "pets"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	if err := r.RegisterInterface(dynamic.NewInterface("Named").
		Field(dynamic.NewField("name", dynamic.NamedNN("String"), nil))); err != nil {
		return err
	}

	dog := dynamic.NewObject("Dog").Implement("Named").
		Field(dynamic.NewField("name", dynamic.NamedNN("String"), field(func(d *Dog) any { return d.Name }))).
		Field(dynamic.NewField("barks", dynamic.NamedNN("Boolean"), field(func(d *Dog) any { return d.Barks })))
	cat := dynamic.NewObject("Cat").Implement("Named").
		Field(dynamic.NewField("name", dynamic.NamedNN("String"), field(func(c *Cat) any { return c.Name }))).
		Field(dynamic.NewField("lives", dynamic.NamedNN("Int"), field(func(c *Cat) any { return c.Lives })))
	snake := dynamic.NewObject("Snake").
		Field(dynamic.NewField("length", dynamic.NamedNN("Float"), field(func(s *Snake) any { return s.Length })))
	for _, obj := range []*dynamic.Object{dog, cat, snake} {
		if err := r.RegisterObject(obj); err != nil {
			return err
		}
	}
	if err := r.RegisterUnion(dynamic.NewUnion("Animal").
		PossibleType("Dog").PossibleType("Cat").PossibleType("Snake")); err != nil {
		return err
	}

	return r.ExpandObject("Query", func(q *dynamic.Object) *dynamic.Object {
		return q.Field(dynamic.NewField("animals", dynamic.NamedNNListNN("Animal"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			boxes := make(output.List[output.AnyBox], len(Zoo))
			for i, a := range Zoo {
				boxes[i] = box(a)
			}
			return output.ResolveOwned(rc, boxes)
		}))
	}, registry.Provenance{Module: moduleName, Field: "animals"})
}

// field adapts a getter on the parent type into a resolver.
func field[T any](get func(*T) any) dynamic.ResolverFunc {
	return func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
		p, err := dynamic.ParentAs[T](rc)
		if err != nil {
			return dynamic.Null, err
		}
		return output.ResolveOwned(rc, get(p))
	}
}
