// Package root registers the operation root types.
package root

import (
	"fmt"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

const (
	QueryType    = "Query"
	MutationType = "Mutation"
)

// Root is the parent value of every root field.
type Root struct {
	Greeting string
}

func New() *Root { return &Root{Greeting: "Hello"} }

var Module = registry.Module{Name: "root", Register: Register}

// Register defines Query with a hello field and an empty Mutation that other
// modules extend.
func Register(r *registry.Registry) error {
	query := dynamic.NewObject(QueryType).
		Field(dynamic.NewField("hello", dynamic.NamedNN("String"), resolveHello).
			Argument(dynamic.NewInputValue("name", dynamic.Named("String")).Default("world")))
	if err := r.RegisterObject(query); err != nil {
		return err
	}
	return r.RegisterObject(dynamic.NewObject(MutationType))
}

func resolveHello(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	root, err := dynamic.ParentAs[Root](rc)
	if err != nil {
		return dynamic.Null, err
	}
	name, err := dynamic.ArgOr(rc, "name", "world")
	if err != nil {
		return dynamic.Null, err
	}
	return output.ResolveOwned(rc, fmt.Sprintf("%s, %s!", root.Greeting, name))
}
