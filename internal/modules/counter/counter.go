// Package counter keeps a process-wide counter behind Query.count and the
// increment and decrement mutations.
package counter

import (
	"sync"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	output "github.com/hanpama/gqlcompose/internal/output"
	registry "github.com/hanpama/gqlcompose/internal/registry"
)

// Store is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	value int
}

func NewStore() *Store { return &Store{} }

func (s *Store) Get() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Add adjusts the counter and returns the new value.
func (s *Store) Add(by int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value += by
	return s.value
}

// Module returns the counter module bound to store.
func Module(store *Store) registry.Module {
	return registry.Module{Name: "counter", Register: func(r *registry.Registry) error {
		return register(r, store)
	}}
}

func register(r *registry.Registry, store *Store) error {
	err := r.ExpandObject("Query", func(q *dynamic.Object) *dynamic.Object {
		return q.Field(dynamic.NewField("count", dynamic.NamedNN("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
			return output.ResolveOwned(rc, store.Get())
		}))
	}, registry.Provenance{Module: "counter", Field: "count"})
	if err != nil {
		return err
	}

	for _, m := range []struct {
		name string
		sign int
	}{{"increment", 1}, {"decrement", -1}} {
		err := r.ExpandObject("Mutation", func(mu *dynamic.Object) *dynamic.Object {
			return mu.Field(dynamic.NewField(m.name, dynamic.NamedNN("Int"), func(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) {
				by, err := dynamic.Arg[int](rc, "by")
				if err != nil {
					return dynamic.Null, err
				}
				return output.ResolveOwned(rc, store.Add(m.sign*by))
			}).Argument(dynamic.NewInputValue("by", dynamic.Named("Int")).Default(1)))
		}, registry.Provenance{Module: "counter", Field: m.name})
		if err != nil {
			return err
		}
	}
	return nil
}
