// Package avatars registers Image and injects User.avatar.
package avatars

import (
	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	"github.com/hanpama/gqlcompose/internal/modules/users"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

const baseURL = "https://avatars.example.com/"

type Image struct {
	URL    string
	Width  output.Option[int]
	Height output.Option[int]
}

func (i Image) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	return dynamic.Owned(i, "Image"), nil
}

const moduleName = "avatars"

var Module = registry.Module{Name: moduleName, Register: Register}

func Register(r *registry.Registry) error {
	image := dynamic.NewObject("Image").
		Field(dynamic.NewField("url", dynamic.NamedNN("String"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			img, err := dynamic.ParentAs[Image](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &img.URL)
		})).
		Field(dynamic.NewField("width", dynamic.Named("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			img, err := dynamic.ParentAs[Image](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &img.Width)
		})).
		Field(dynamic.NewField("height", dynamic.Named("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			img, err := dynamic.ParentAs[Image](rc)
			if err != nil {
				return dynamic.Null, err
			}
			return output.ResolveRef(rc, &img.Height)
		}))
	if err := r.RegisterObject(image); err != nil {
		return err
	}
	return r.ExpandObject("User", func(u *dynamic.Object) *dynamic.Object {
		return u.Field(dynamic.NewField("avatar", dynamic.Named("Image"), resolveAvatar).Async())
	}, registry.Provenance{Module: moduleName, Field: "avatar"})
}

func resolveAvatar(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	u, err := dynamic.ParentAs[users.User](rc)
	if err != nil {
		return dynamic.Null, err
	}
	return output.ResolveOwned(rc, Image{
		URL:    baseURL + u.ID + ".png",
		Width:  output.Some(128),
		Height: output.Some(128),
	})
}
