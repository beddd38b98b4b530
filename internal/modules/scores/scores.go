// Package scores serves a list whose entries fail independently.
package scores

import (
	"strconv"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

// Raw holds the unparsed score entries.
var Raw = []string{"10", "x", "30"}

// Parse converts every raw entry; unparsable entries carry their error.
func Parse(raw []string) output.List[output.Result[int]] {
	out := make(output.List[output.Result[int]], len(raw))
	for i, s := range raw {
		out[i] = output.ResultOf(strconv.Atoi(s))
	}
	return out
}

// At returns the parsed score at index, or None when the index is out of
// range or the entry does not parse.
func At(raw []string, index int) output.Option[int] {
	if index < 0 || index >= len(raw) {
		return output.None[int]()
	}
	n, err := strconv.Atoi(raw[index])
	if err != nil {
		return output.None[int]()
	}
	return output.Some(n)
}

const moduleName = "scores"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	return r.InjectFields("Query", moduleName,
		dynamic.NewField("scores", dynamic.NamedListNN("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			return output.ResolveOwned(rc, Parse(Raw))
		}),
		dynamic.NewField("maybeScore", dynamic.Named("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			index, err := dynamic.Arg[int](rc, "index")
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveOwned(rc, At(Raw, index))
		}).Argument(dynamic.NewInputValue("index", dynamic.NamedNN("Int"))),
	)
}
