package dynamic

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	executor "github.com/hanpama/gqlcompose/internal/executor"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/metadata"
)

type pet struct {
	Name  string
	Lives int
}

type store struct {
	pets []pet
}

func newPetSchema(t *testing.T, logger *zap.Logger) *Schema {
	t.Helper()
	s, err := NewSchemaBuilder("Query", "", "").
		WithLogger(logger).
		Register(NewInterface("Named").Field(NewField("name", NamedNN("String"), nil))).
		Register(NewObject("Cat").Implement("Named").
			Field(NewField("name", NamedNN("String"), func(rc *ResolverContext) (FieldValue, error) {
				p, err := ParentAs[pet](rc)
				if err != nil {
					return Null, err
				}
				return Value(p.Name), nil
			})).
			Field(NewField("lives", NamedNN("Int"), func(rc *ResolverContext) (FieldValue, error) {
				p, err := ParentAs[pet](rc)
				if err != nil {
					return Null, err
				}
				return Value(p.Lives), nil
			}))).
		Register(NewObject("Query").
			Field(NewField("pets", NamedNNListNN("Cat"), func(rc *ResolverContext) (FieldValue, error) {
				st, err := ParentAs[store](rc)
				if err != nil {
					return Null, err
				}
				items := make([]FieldValue, len(st.pets))
				for i := range st.pets {
					items[i] = Borrowed(&st.pets[i], "Cat")
				}
				return ListValue(items), nil
			})).
			Field(NewField("first", Named("Named"), func(rc *ResolverContext) (FieldValue, error) {
				st, err := ParentAs[store](rc)
				if err != nil {
					return Null, err
				}
				return Owned(st.pets[0], "Cat"), nil
			})).
			Field(NewField("untagged", Named("Named"), func(rc *ResolverContext) (FieldValue, error) {
				return Owned(pet{Name: "Nobody"}, ""), nil
			})).
			Field(NewField("greet", NamedNN("String"), func(rc *ResolverContext) (FieldValue, error) {
				name, err := Arg[string](rc, "name")
				if err != nil {
					return Null, err
				}
				times, err := Arg[int32](rc, "times")
				if err != nil {
					return Null, err
				}
				return Value(fmt.Sprintf("%s x%d", name, times)), nil
			}).
				Argument(NewInputValue("name", Named("String")).Default("world")).
				Argument(NewInputValue("times", Named("Int")).Default(1))).
			Field(NewField("header", Named("String"), func(rc *ResolverContext) (FieldValue, error) {
				values := rc.Metadata().Get("x-user")
				if len(values) == 0 {
					return Null, nil
				}
				return Value(values[0]), nil
			})).
			Field(NewField("slow", Named("String"), func(rc *ResolverContext) (FieldValue, error) {
				return Value("slow"), nil
			}).Async()).
			Field(NewField("wrongParent", Named("String"), func(rc *ResolverContext) (FieldValue, error) {
				if _, err := ParentAs[pet](rc); err != nil {
					return Null, err
				}
				return Value("unreachable"), nil
			})).
			Field(NewField("scores", NamedList("Int"), func(rc *ResolverContext) (FieldValue, error) {
				return ListValue([]FieldValue{Value(1), ErrorItem(errors.New("bad score")), Value(3)}), nil
			})).
			Field(NewField("boom", Named("String"), func(rc *ResolverContext) (FieldValue, error) {
				panic("kaboom")
			}))).
		Finish()
	require.NoError(t, err)
	return s
}

func newStore() *store {
	return &store{pets: []pet{{Name: "Tom", Lives: 9}, {Name: "Felix", Lives: 3}}}
}

func requireResult(t *testing.T, want, got *executor.ExecutionResult) {
	t.Helper()
	opts := []cmp.Option{cmpopts.EquateEmpty(), cmpopts.IgnoreFields(executor.GraphQLError{}, "Locations")}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_OwnedAndBorrowed(t *testing.T) {
	st := newStore()
	s := newPetSchema(t, zap.NewNop())
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-user", "ana"))

	got := s.Execute(ctx, Request{
		Query: `{
			pets { name lives }
			first { __typename name ... on Cat { lives } }
			greet
			again: greet(name: "gopher", times: 2)
			header
			slow
		}`,
		Root: Borrowed(st, ""),
	})

	requireResult(t, &executor.ExecutionResult{Data: map[string]any{
		"pets": []any{
			map[string]any{"name": "Tom", "lives": 9},
			map[string]any{"name": "Felix", "lives": 3},
		},
		"first":  map[string]any{"__typename": "Cat", "name": "Tom", "lives": 9},
		"greet":  "world x1",
		"again":  "gopher x2",
		"header": "ana",
		"slow":   "slow",
	}}, got)
}

func TestExecute_FieldScopedErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := newPetSchema(t, zap.New(core))

	got := s.Execute(context.Background(), Request{
		Query: "{ untagged { name } wrongParent scores boom header }",
		Root:  Owned(newStore(), ""),
	})

	requireResult(t, &executor.ExecutionResult{
		Data: map[string]any{
			"untagged":    nil,
			"wrongParent": nil,
			"scores":      []any{1, nil, 3},
			"boom":        nil,
			"header":      nil,
		},
		Errors: []executor.GraphQLError{
			{Message: "value for abstract type Named carries no type name", Path: executor.Path{"untagged"}},
			{Message: "expected parent of type dynamic.pet, got *dynamic.store at wrongParent", Path: executor.Path{"wrongParent"}},
			{Message: "bad score", Path: executor.Path{"scores", 1}},
			{Message: "internal error resolving Query.boom", Path: executor.Path{"boom"}},
		},
	}, got)

	entries := logs.FilterMessage("resolver panicked").All()
	require.Len(t, entries, 1)
	require.Equal(t, "Query.boom", entries[0].ContextMap()["field"])
}

func TestExecute_ParseError(t *testing.T) {
	s := newPetSchema(t, zap.NewNop())

	got := s.Execute(context.Background(), Request{Query: "{ pets { name }"})

	require.Nil(t, got.Data)
	require.Len(t, got.Errors, 1)
	require.NotEmpty(t, got.Errors[0].Locations)
}

func TestArg_Decoding(t *testing.T) {
	type echo struct {
		Text   string `json:"text"`
		Repeat int    `json:"repeat"`
	}
	rc := NewResolverContext(context.Background(), Null, map[string]any{
		"input": map[string]any{"text": "hi", "repeat": 2},
		"ids":   []any{1, 2, 3},
		"none":  nil,
	}, executor.Path{"byObject"})

	in, err := Arg[echo](rc, "input")
	require.NoError(t, err)
	require.Equal(t, echo{Text: "hi", Repeat: 2}, in)

	ids, err := Arg[[]int64](rc, "ids")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids)

	fallback, err := ArgOr(rc, "none", "fallback")
	require.NoError(t, err)
	require.Equal(t, "fallback", fallback)

	_, err = Arg[string](rc, "missing")
	require.EqualError(t, err, `argument "missing" was not provided`)

	_, err = Arg[string](rc, "ids")
	require.Error(t, err)
}

func TestDowncast(t *testing.T) {
	p := &pet{Name: "Tom"}

	got, err := Downcast[pet](Borrowed(p, "Cat"))
	require.NoError(t, err)
	require.Same(t, p, got)

	copied, err := Downcast[pet](Owned(*p, "Cat"))
	require.NoError(t, err)
	require.Equal(t, p, copied)
	require.NotSame(t, p, copied)

	_, err = Downcast[store](Value("x"))
	var downcastErr *DowncastError
	require.True(t, errors.As(err, &downcastErr))
	require.Equal(t, "dynamic.store", downcastErr.Expected)
	require.Equal(t, "string", downcastErr.Actual)
}

func TestFieldValue_Constructors(t *testing.T) {
	var nilPet *pet
	require.True(t, Borrowed(nilPet, "Cat").IsNull())
	require.True(t, Value(nil).IsNull())
	require.True(t, Owned(pet{}, "Cat").IsOwned())
	require.True(t, Borrowed(&pet{}, "Cat").IsBorrowed())
	require.Equal(t, "Dog", Owned(pet{}, "Cat").WithTypeName("Dog").TypeName())
	require.Equal(t, []FieldValue{}, ListValue(nil).Items())
	require.EqualError(t, ErrorItem(errors.New("x")).Err(), "x")
}
