// Package reqid carries a per-request identifier through a context.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

type key struct{}

// Header is the response header and forwarded metadata key carrying the id.
const Header = "x-request-id"

// NewContext stores a fresh random id in parent and returns it.
func NewContext(parent context.Context) (context.Context, string) {
	return WithID(parent, uuid.NewString())
}

// WithID stores id in parent. A client supplied id that is not a valid UUID
// is replaced with a fresh one.
func WithID(parent context.Context, id string) (context.Context, string) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the request id from ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}
