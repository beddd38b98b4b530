package dynamic

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	executor "github.com/hanpama/gqlcompose/internal/executor"
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc/metadata"
)

var argJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// ResolverContext is the per-field execution context handed to resolvers.
type ResolverContext struct {
	ctx    context.Context
	parent FieldValue
	task   executor.ResolveTask
}

func newResolverContext(ctx context.Context, task executor.ResolveTask) *ResolverContext {
	rc := &ResolverContext{ctx: ctx, task: task}
	if fv, ok := task.Source.(FieldValue); ok {
		rc.parent = fv
	}
	return rc
}

// NewResolverContext builds a context outside of execution. It is meant for
// tests of resolvers and value implementations.
func NewResolverContext(ctx context.Context, parent FieldValue, args map[string]any, path executor.Path) *ResolverContext {
	return &ResolverContext{ctx: ctx, parent: parent, task: executor.ResolveTask{Args: args, Path: path}}
}

func (rc *ResolverContext) Context() context.Context { return rc.ctx }

// Parent returns the value of the enclosing object.
func (rc *ResolverContext) Parent() FieldValue { return rc.parent }

// Args returns the coerced arguments with defaults applied.
func (rc *ResolverContext) Args() map[string]any { return rc.task.Args }

// Path is the response path of the field being resolved.
func (rc *ResolverContext) Path() executor.Path { return rc.task.Path }

// ObjectType is the name of the object type owning the field.
func (rc *ResolverContext) ObjectType() string { return rc.task.ObjectType }

func (rc *ResolverContext) FieldName() string { return rc.task.Field }

// SelectedFieldNames lists the sub-selection as dot-delimited paths.
func (rc *ResolverContext) SelectedFieldNames() []string { return rc.task.SelectedFieldNames() }

// HasSelectedField reports whether the dot-delimited path is selected.
func (rc *ResolverContext) HasSelectedField(path string) bool {
	for _, name := range rc.task.SelectedFieldNames() {
		if name == path {
			return true
		}
	}
	return false
}

// Metadata returns request headers forwarded by the transport.
func (rc *ResolverContext) Metadata() metadata.MD {
	md, ok := metadata.FromIncomingContext(rc.ctx)
	if !ok {
		return metadata.MD{}
	}
	return md
}

// DowncastError reports a value whose concrete Go type differs from the one
// a resolver expected.
type DowncastError struct {
	Expected string
	Actual   string
	Path     executor.Path
}

func (e *DowncastError) Error() string {
	msg := fmt.Sprintf("expected parent of type %s, got %s", e.Expected, e.Actual)
	if len(e.Path) > 0 {
		msg += " at " + pathString(e.Path)
	}
	return msg
}

// Downcast converts an owned value or a borrowed reference to *T. Owned
// values are copied.
func Downcast[T any](v FieldValue) (*T, error) {
	switch x := v.value.(type) {
	case *T:
		return x, nil
	case T:
		return &x, nil
	}
	return nil, &DowncastError{
		Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
		Actual:   actualType(v.value),
	}
}

// ParentAs downcasts the parent value to *T.
func ParentAs[T any](rc *ResolverContext) (*T, error) {
	p, err := Downcast[T](rc.parent)
	if err != nil {
		err.(*DowncastError).Path = rc.task.Path
		return nil, err
	}
	return p, nil
}

// Arg decodes the named argument into T. Values that are not directly
// assignable are converted through their JSON representation.
func Arg[T any](rc *ResolverContext, name string) (T, error) {
	var out T
	raw, ok := rc.task.Args[name]
	if !ok {
		return out, fmt.Errorf("argument %q was not provided", name)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	data, err := argJSON.Marshal(raw)
	if err != nil {
		return out, fmt.Errorf("argument %q: %w", name, err)
	}
	if err := argJSON.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("argument %q: %w", name, err)
	}
	return out, nil
}

// ArgOr decodes the named argument, returning fallback when it is absent or
// null.
func ArgOr[T any](rc *ResolverContext, name string, fallback T) (T, error) {
	if raw, ok := rc.task.Args[name]; !ok || raw == nil {
		return fallback, nil
	}
	return Arg[T](rc, name)
}

func actualType(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}

func pathString(path executor.Path) string {
	var b strings.Builder
	for i, elem := range path {
		switch e := elem.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", e)
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, e)
		}
	}
	return b.String()
}
