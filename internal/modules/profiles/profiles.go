// Package profiles registers the Aged interface and makes User implement it.
package profiles

import (
	"hash/fnv"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	"github.com/hanpama/gqlcompose/internal/modules/users"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

const moduleName = "profiles"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	aged := dynamic.NewInterface("Aged").
		Field(dynamic.NewField("age", dynamic.NamedNN("Int"), nil))
	if err := r.RegisterInterface(aged); err != nil {
		return err
	}
	return r.ExpandObject("User", func(u *dynamic.Object) *dynamic.Object {
		return u.Implement("Aged").Field(dynamic.NewField("age", dynamic.NamedNN("Int"), resolveAge))
	}, registry.Provenance{Module: moduleName, Field: "age"})
}

func resolveAge(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	u, err := dynamic.ParentAs[users.User](rc)
	if err != nil {
		return dynamic.Null, err
	}
	return output.ResolveOwned(rc, AgeOf(u.ID))
}

// AgeOf derives a stable age between 18 and 67 from a user id.
func AgeOf(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return 18 + int(h.Sum32()%50)
}
