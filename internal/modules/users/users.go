// Package users registers the User type and Query.me.
package users

import (
	"strings"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

// UserNameHeader is the forwarded request header naming the caller.
const UserNameHeader = "x-user-name"

type User struct {
	ID   string
	Name string
}

func (u User) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	return dynamic.Owned(u, "User"), nil
}

func (u *User) ResolveRef(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	return dynamic.Borrowed(u, "User"), nil
}

const moduleName = "users"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	user := dynamic.NewObject("User").
		Field(dynamic.NewField("id", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			u, err := dynamic.ParentAs[User](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &u.ID)
		})).
		Field(dynamic.NewField("name", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			u, err := dynamic.ParentAs[User](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &u.Name)
		}))
	if err := r.RegisterObject(user); err != nil {
		return err
	}
	return r.ExpandObject("Query", func(q *dynamic.Object) *dynamic.Object {
		return q.Field(dynamic.NewField("me", dynamic.NamedNN("User"), resolveMe))
	}, registry.Provenance{Module: moduleName, Field: "me"})
}

func resolveMe(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	name := "guest"
	if values := rc.Metadata().Get(UserNameHeader); len(values) > 0 && values[0] != "" {
		name = values[0]
	}
	u := User{ID: "user-" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))}
	// name is the only field that needs the header value.
	if rc.HasSelectedField("name") {
		u.Name = name
	}
	return output.ResolveOwned(rc, u)
}
