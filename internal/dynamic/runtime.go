package dynamic

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	events "github.com/hanpama/gqlcompose/internal/events"
	executor "github.com/hanpama/gqlcompose/internal/executor"
	schema "github.com/hanpama/gqlcompose/internal/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runtime adapts Schema resolvers to executor.Runtime. Executor values are
// FieldValues; lists are expanded into []any so the executor can walk them.
type runtime struct {
	schema *Schema
}

var _ executor.Runtime = (*runtime)(nil)

func (r *runtime) ResolveSync(ctx context.Context, task executor.ResolveTask) (any, error) {
	fv, err := r.call(ctx, task)
	if err != nil {
		return nil, err
	}
	if fv.kind == kindItemError {
		return nil, fv.err
	}
	return toExecutorValue(fv), nil
}

// BatchResolveAsync resolves every task of one depth concurrently.
func (r *runtime) BatchResolveAsync(ctx context.Context, tasks []executor.ResolveTask) []executor.ResolveResult {
	results := make([]executor.ResolveResult, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i := range tasks {
		g.Go(func() error {
			v, err := r.ResolveSync(gctx, tasks[i])
			results[i] = executor.ResolveResult{Value: v, Error: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ResolveType reads the type name the resolver attached to the value.
func (r *runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	fv, ok := value.(FieldValue)
	if !ok || fv.typeName == "" {
		return "", fmt.Errorf("value for abstract type %s carries no type name", abstractType)
	}
	return fv.typeName, nil
}

func (r *runtime) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	v := value
	if fv, ok := value.(FieldValue); ok {
		v = fv.value
	}
	if ptr := reflect.ValueOf(v); ptr.Kind() == reflect.Ptr {
		if ptr.IsNil() {
			return nil, nil
		}
		v = ptr.Elem().Interface()
	}

	switch typeName {
	case "Int":
		return serializeInt(v)
	case "Float":
		return serializeFloat(v)
	case "String":
		return serializeString(v, typeName)
	case "Boolean":
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent %v (%T)", v, v)
	case "ID":
		return serializeID(v)
	}

	typ := r.schema.raw.Types[typeName]
	if typ == nil {
		return nil, fmt.Errorf("unknown leaf type %s", typeName)
	}
	if typ.Kind == schema.TypeKindEnum {
		s, err := serializeString(v, typeName)
		if err != nil {
			return nil, err
		}
		if !typ.HasEnumValue(s.(string)) {
			return nil, fmt.Errorf("enum %s has no value %q", typeName, s)
		}
		return s, nil
	}
	if sc := r.schema.scalars[typeName]; sc != nil && sc.serialize != nil {
		return sc.serialize(v)
	}
	return v, nil
}

// call runs the field resolver, turning a panic into a field error.
func (r *runtime) call(ctx context.Context, task executor.ResolveTask) (fv FieldValue, err error) {
	field := r.schema.resolvers[task.ObjectType][task.Field]
	if field == nil || field.resolve == nil {
		return Null, fmt.Errorf("no resolver for %s.%s", task.ObjectType, task.Field)
	}
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.schema.logger.Error("resolver panicked",
				zap.String("field", task.ObjectType+"."+task.Field),
				zap.Any("panic", p),
				zap.Stack("stack"),
			)
			fv, err = Null, fmt.Errorf("internal error resolving %s.%s", task.ObjectType, task.Field)
		}
		eventbus.Publish(ctx, events.ResolverFinish{
			ObjectType: task.ObjectType,
			Field:      task.Field,
			Async:      field.async,
			Err:        err,
			Duration:   time.Since(start),
		})
	}()
	return field.resolve(newResolverContext(ctx, task))
}

func toExecutorValue(fv FieldValue) any {
	switch fv.kind {
	case kindNull:
		return nil
	case kindList:
		out := make([]any, len(fv.items))
		for i, item := range fv.items {
			out[i] = toExecutorValue(item)
		}
		return out
	case kindItemError:
		return executor.ItemError{Err: fv.err}
	}
	return fv
}

func serializeInt(v any) (any, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint:
		if uint64(x) > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent value %d", x)
		}
		n = int64(x)
	case uint64:
		if x > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent value %d", x)
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("Int cannot represent non-integer value %v", x)
		}
		n = int64(x)
	default:
		return nil, fmt.Errorf("Int cannot represent %v (%T)", v, v)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil, fmt.Errorf("Int cannot represent value %d", n)
	}
	return int(n), nil
}

func serializeFloat(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	return nil, fmt.Errorf("Float cannot represent %v (%T)", v, v)
}

func serializeString(v any, typeName string) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return nil, fmt.Errorf("%s cannot represent %v (%T)", typeName, v, v)
}

func serializeID(v any) (any, error) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	}
	return serializeString(v, "ID")
}
