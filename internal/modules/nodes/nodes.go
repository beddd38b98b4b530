// Package nodes registers the Node interface with two implementors.
package nodes

import (
	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

type FooNode struct {
	ID  output.ID
	Foo string
}

type BarNode struct {
	ID  output.ID
	Bar int
}

// store holds the nodes Query.nodes lends out.
type store struct {
	foos []FooNode
	bars []BarNode
}

var fixtures = &store{
	foos: []FooNode{{ID: "foo-1", Foo: "first"}, {ID: "foo-2", Foo: "second"}},
	bars: []BarNode{{ID: "bar-1", Bar: 1}},
}

// borrowed boxes every node by reference.
func (s *store) borrowed() output.List[output.AnyBox] {
	out := make(output.List[output.AnyBox], 0, len(s.foos)+len(s.bars))
	for i := range s.foos {
		out = append(out, output.NewBorrowed(&s.foos[i], "FooNode"))
	}
	for i := range s.bars {
		out = append(out, output.NewBorrowed(&s.bars[i], "BarNode"))
	}
	return out
}

// owned boxes a copy of every node.
func (s *store) owned() output.List[output.AnyBox] {
	out := make(output.List[output.AnyBox], 0, len(s.foos)+len(s.bars))
	for _, n := range s.foos {
		out = append(out, output.NewOwned(n, "FooNode"))
	}
	for _, n := range s.bars {
		out = append(out, output.NewOwned(n, "BarNode"))
	}
	return out
}

func (s *store) lookup(id output.ID) output.Option[output.AnyBox] {
	for _, n := range s.foos {
		if n.ID == id {
			return output.Some(output.NewOwned(n, "FooNode"))
		}
	}
	for _, n := range s.bars {
		if n.ID == id {
			return output.Some(output.NewOwned(n, "BarNode"))
		}
	}
	return output.None[output.AnyBox]()
}

const moduleName = "nodes"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	if err := r.RegisterInterface(dynamic.NewInterface("Node").
		Field(dynamic.NewField("id", dynamic.NamedNN("ID"), nil))); err != nil {
		return err
	}

	fooNode := dynamic.NewObject("FooNode").Implement("Node").
		Field(dynamic.NewField("id", dynamic.NamedNN("ID"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			n, err := dynamic.ParentAs[FooNode](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &n.ID)
		})).
		Field(dynamic.NewField("foo", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			n, err := dynamic.ParentAs[FooNode](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &n.Foo)
		}))
	barNode := dynamic.NewObject("BarNode").Implement("Node").
		Field(dynamic.NewField("id", dynamic.NamedNN("ID"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			n, err := dynamic.ParentAs[BarNode](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &n.ID)
		})).
		Field(dynamic.NewField("bar", dynamic.NamedNN("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			n, err := dynamic.ParentAs[BarNode](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &n.Bar)
		}))
	for _, obj := range []*dynamic.Object{fooNode, barNode} {
		if err := r.RegisterObject(obj); err != nil {
			return err
		}
	}

	return r.InjectFields("Query", moduleName,
		dynamic.NewField("node", dynamic.Named("Node"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			id, err := dynamic.Arg[output.ID](rc, "id")
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveOwned(rc, fixtures.lookup(id))
		}).Argument(dynamic.NewInputValue("id", dynamic.NamedNN("ID"))),
		dynamic.NewField("nodes", dynamic.NamedNNListNN("Node"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			list := fixtures.borrowed()
			return output.ResolveRef(rc, &list)
		}),
		dynamic.NewField("newNodes", dynamic.NamedNNListNN("Node"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			return output.ResolveOwned(rc, fixtures.owned())
		}),
	)
}
