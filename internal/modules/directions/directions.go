// Package directions registers the Direction enum and two fields over it.
package directions

import (
	"fmt"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
	schema "github.com/hanpama/gqlcompose/internal/schema"
)

type Direction string

const (
	North Direction = "NORTH"
	East  Direction = "EAST"
	South Direction = "SOUTH"
	West  Direction = "WEST"
)

// clockwise is the enum declaration order.
var clockwise = []Direction{North, East, South, West}

func (d Direction) index() (int, error) {
	for i, c := range clockwise {
		if c == d {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", string(d))
}

// Next turns d a quarter clockwise.
func (d Direction) Next() (Direction, error) {
	i, err := d.index()
	if err != nil {
		return "", err
	}
	return clockwise[(i+1)%len(clockwise)], nil
}

func (d Direction) Opposite() (Direction, error) {
	i, err := d.index()
	if err != nil {
		return "", err
	}
	return clockwise[(i+2)%len(clockwise)], nil
}

func (d Direction) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	return dynamic.Value(string(d)), nil
}

const moduleName = "directions"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	enum := dynamic.NewEnum("Direction")
	for _, d := range clockwise {
		enum.Item(string(d))
	}
	if err := r.RegisterEnum(enum); err != nil {
		return err
	}

	return r.InjectFields("Query", moduleName,
		dynamic.NewField("next", dynamic.NamedNN("Direction"), turn(Direction.Next)).
			Argument(dynamic.NewInputValue("direction", dynamic.NamedNN("Direction"))),
		dynamic.NewField("opposite", dynamic.NamedNN("Direction"), turn(Direction.Opposite)).
			Argument(dynamic.NewInputValue("direction", dynamic.Named("Direction")).Default(schema.EnumLiteral(North))),
	)
}

func turn(fn func(Direction) (Direction, error)) dynamic.ResolverFunc {
	return func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
		d, err := dynamic.ArgOr(rc, "direction", North)
		if err != nil {
			return dynamic.Null, err
		}
		out, err := fn(d)
		if err != nil {
			return dynamic.Null, err
		}
		return output.ResolveOwned(rc, out)
	}
}
