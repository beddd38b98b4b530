// Package echo registers fields that return their arguments, covering input
// objects, oneOf inputs and argument defaults for every built-in scalar.
package echo

import (
	"fmt"
	"strings"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

// BarInput carries exactly one of its fields.
type BarInput struct {
	A *int `json:"a"`
	B *int `json:"b"`
}

func (in BarInput) String() string {
	switch {
	case in.A != nil:
		return fmt.Sprintf("a=%d", *in.A)
	case in.B != nil:
		return fmt.Sprintf("b=%d", *in.B)
	}
	return ""
}

type EchoInput struct {
	Text   string `json:"text"`
	Repeat int    `json:"repeat"`
}

const moduleName = "echo"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	if err := r.RegisterInputObject(dynamic.NewInputObject("BarInput").OneOf().
		Field(dynamic.NewInputValue("a", dynamic.Named("Int"))).
		Field(dynamic.NewInputValue("b", dynamic.Named("Int")))); err != nil {
		return err
	}
	if err := r.RegisterInputObject(dynamic.NewInputObject("EchoInput").
		Field(dynamic.NewInputValue("text", dynamic.NamedNN("String")).Default("default")).
		Field(dynamic.NewInputValue("repeat", dynamic.Named("Int")).Default(1))); err != nil {
		return err
	}

	return r.InjectFields("Query", moduleName,
		dynamic.NewField("byBar", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			in, err := dynamic.Arg[BarInput](rc, "input")
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveOwned(rc, in.String())
		}).Argument(dynamic.NewInputValue("input", dynamic.NamedNN("BarInput"))),
		dynamic.NewField("byObject", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			in, err := dynamic.ArgOr(rc, "input", EchoInput{Text: "default", Repeat: 1})
			if err != nil {
				return dynamic.Null, err
			}
			if in.Repeat < 0 {
				return dynamic.Null, fmt.Errorf("repeat must not be negative, got %d", in.Repeat)
			}
			return output.ResolveOwned(rc, strings.Repeat(in.Text, in.Repeat))
		}).Argument(dynamic.NewInputValue("input", dynamic.Named("EchoInput")).Default(map[string]any{"text": "default"})),
		scalar[string]("byString", "String", "hello"),
		scalar[int]("byInt", "Int", 42),
		scalar[float64]("byFloat", "Float", 1.0),
		scalar[bool]("byBool", "Boolean", true),
		scalar[string]("byId", "ID", "id-1"),
		dynamic.NewField("byList", dynamic.NamedNNListNN("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			in, err := dynamic.Arg[output.List[int]](rc, "input")
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveOwned(rc, in)
		}).Argument(dynamic.NewInputValue("input", dynamic.NamedNNListNN("Int")).Default([]any{1, 2, 3})),
	)
}

// scalar declares a field named name returning its nullable input argument
// of type typ, which defaults to def.
func scalar[T any](name, typ string, def T) *dynamic.Field {
	return dynamic.NewField(name, dynamic.NamedNN(typ), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
		v, err := dynamic.ArgOr(rc, "input", def)
		if err != nil {
			return dynamic.Null, err
		}
		return output.ResolveOwned(rc, v)
	}).Argument(dynamic.NewInputValue("input", dynamic.Named(typ)).Default(def))
}
