package output

import dynamic "github.com/hanpama/gqlcompose/internal/dynamic"

// ID is a GraphQL ID value.
type ID string

func (id ID) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	return dynamic.Value(string(id)), nil
}

// Option is a value that may be absent. None resolves to null without error.
type Option[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

func None[T any]() Option[T] { return Option[T]{} }

// OptionOf copies *v into an Option; a nil pointer is None.
func OptionOf[T any](v *T) Option[T] {
	if v == nil {
		return None[T]()
	}
	return Some(*v)
}

func (o Option[T]) IsSome() bool { return o.ok }

func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

func (o Option[T]) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	if !o.ok {
		return dynamic.Null, nil
	}
	return ResolveOwned(rc, o.value)
}

func (o *Option[T]) ResolveRef(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	if !o.ok {
		return dynamic.Null, nil
	}
	return ResolveRef(rc, &o.value)
}

// Result is a value or the error that prevented producing it. Err becomes an
// error of the current field; siblings are unaffected.
type Result[T any] struct {
	value T
	err   error
}

func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

func Err[T any](err error) Result[T] { return Result[T]{err: err} }

func ResultOf[T any](v T, err error) Result[T] { return Result[T]{value: v, err: err} }

func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }

func (r Result[T]) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	if r.err != nil {
		return dynamic.Null, r.err
	}
	return ResolveOwned(rc, r.value)
}

func (r *Result[T]) ResolveRef(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	if r.err != nil {
		return dynamic.Null, r.err
	}
	return ResolveRef(rc, &r.value)
}

// List resolves each element independently. An element error is recorded at
// its index and that element becomes null.
type List[T any] []T

func (l List[T]) ResolveOwned(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	items := make([]dynamic.FieldValue, len(l))
	for i, v := range l {
		fv, err := ResolveOwned(rc, v)
		if err != nil {
			fv = dynamic.ErrorItem(err)
		}
		items[i] = fv
	}
	return dynamic.ListValue(items), nil
}

func (l *List[T]) ResolveRef(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
	if l == nil {
		return dynamic.Null, nil
	}
	items := make([]dynamic.FieldValue, len(*l))
	for i := range *l {
		fv, err := ResolveRef(rc, &(*l)[i])
		if err != nil {
			fv = dynamic.ErrorItem(err)
		}
		items[i] = fv
	}
	return dynamic.ListValue(items), nil
}
