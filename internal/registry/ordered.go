package registry

// ordered is a name-keyed map that remembers insertion order. Replacing an
// entry keeps its position.
type ordered[T any] struct {
	names []string
	items map[string]T
}

func newOrdered[T any]() *ordered[T] {
	return &ordered[T]{items: make(map[string]T)}
}

func (o *ordered[T]) get(name string) (T, bool) {
	v, ok := o.items[name]
	return v, ok
}

func (o *ordered[T]) has(name string) bool {
	_, ok := o.items[name]
	return ok
}

func (o *ordered[T]) set(name string, v T) {
	if _, ok := o.items[name]; !ok {
		o.names = append(o.names, name)
	}
	o.items[name] = v
}

func (o *ordered[T]) values() []T {
	out := make([]T, len(o.names))
	for i, name := range o.names {
		out[i] = o.items[name]
	}
	return out
}
