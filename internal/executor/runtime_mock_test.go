package executor

import (
	"context"
	"fmt"
	"sync"
)

// MockResolver resolves one task for MockRuntime, keyed by "Type.field".
type MockResolver func(ctx context.Context, source any, args map[string]any) (any, error)

const (
	CallKindSync  = "sync"
	CallKindAsync = "async"
)

func NewMockValueResolver(val any) MockResolver {
	return func(context.Context, any, map[string]any) (any, error) { return val, nil }
}

func NewMockErrorResolver(err error) MockResolver {
	return func(context.Context, any, map[string]any) (any, error) { return nil, err }
}

// Call records one resolver invocation. Async calls from the same flush
// share a BatchID; sync calls have BatchID 0.
type Call struct {
	Kind       string
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
	BatchID    int
}

// MockRuntime resolves from a fixed resolver table and logs every call.
// Abstract values are typed by their "__typename" map key unless
// SetTypeResolver overrides it. Leaf values pass through unchanged.
type MockRuntime struct {
	mu           sync.Mutex
	resolvers    map[string]MockResolver
	calls        []Call
	batches      int
	typeResolver func(value any) (string, error)
}

func NewMockRuntime(resolvers map[string]MockResolver) *MockRuntime {
	return &MockRuntime{resolvers: resolvers, typeResolver: typenameOf}
}

func typenameOf(value any) (string, error) {
	if m, ok := value.(map[string]any); ok {
		if name, ok := m["__typename"].(string); ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("cannot resolve type of %T", value)
}

func (m *MockRuntime) SetTypeResolver(f func(value any) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typeResolver = f
}

func (m *MockRuntime) record(kind string, t ResolveTask, batch int) MockResolver {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Kind: kind, ObjectType: t.ObjectType, Field: t.Field, Source: t.Source, Args: t.Args, BatchID: batch})
	return m.resolvers[t.ObjectType+"."+t.Field]
}

func (m *MockRuntime) ResolveSync(ctx context.Context, task ResolveTask) (any, error) {
	r := m.record(CallKindSync, task, 0)
	if r == nil {
		return nil, nil
	}
	return r(ctx, task.Source, task.Args)
}

// BatchResolveAsync resolves tasks one by one in the given order.
func (m *MockRuntime) BatchResolveAsync(ctx context.Context, tasks []ResolveTask) []ResolveResult {
	if len(tasks) == 0 {
		return nil
	}
	m.mu.Lock()
	m.batches++
	batch := m.batches
	m.mu.Unlock()

	results := make([]ResolveResult, len(tasks))
	for i, t := range tasks {
		if r := m.record(CallKindAsync, t, batch); r != nil {
			v, err := r(ctx, t.Source, t.Args)
			results[i] = ResolveResult{Value: v, Error: err}
		}
	}
	return results
}

func (m *MockRuntime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	m.mu.Lock()
	f := m.typeResolver
	m.mu.Unlock()
	return f(value)
}

func (m *MockRuntime) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	return value, nil
}

// GetCalls returns the recorded calls in order.
func (m *MockRuntime) GetCalls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
