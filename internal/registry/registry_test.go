package registry

import (
	"errors"
	"testing"

	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resolveNull(rc *dynamic.ResolverContext) (dynamic.FieldValue, error) { return dynamic.Null, nil }

func field(name, typ string) *dynamic.Field {
	return dynamic.NewField(name, dynamic.NamedNN(typ), resolveNull)
}

func newUser() *dynamic.Object {
	return dynamic.NewObject("User").Field(field("id", "String")).Field(field("name", "String"))
}

func newQuery() *dynamic.Object {
	return dynamic.NewObject("Query").Field(field("hello", "String"))
}

func newImage() *dynamic.Object {
	return dynamic.NewObject("Image").Field(field("url", "String"))
}

func injectAvatar(r *Registry) error {
	return r.ExpandObject("User", func(o *dynamic.Object) *dynamic.Object {
		return o.Field(dynamic.NewField("avatar", dynamic.Named("Image"), resolveNull))
	}, Provenance{Module: "avatars", Field: "avatar"})
}

// permutations returns every ordering of 0..n-1.
func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestFinish_InjectionsCommute(t *testing.T) {
	steps := []func(r *Registry) error{
		func(r *Registry) error { return r.RegisterObject(newUser()) },
		func(r *Registry) error {
			if err := r.RegisterObject(newImage()); err != nil {
				return err
			}
			return r.RegisterInterface(dynamic.NewInterface("Aged").Field(dynamic.NewField("age", dynamic.NamedNN("Int"), nil)))
		},
		func(r *Registry) error { return r.RegisterObject(newQuery()) },
		injectAvatar,
		func(r *Registry) error {
			return r.ExpandObject("User", func(o *dynamic.Object) *dynamic.Object {
				return o.Implement("Aged").Field(field("age", "Int"))
			}, Provenance{Module: "profiles", Field: "age"})
		},
		func(r *Registry) error {
			return r.ExpandObject("Query", func(o *dynamic.Object) *dynamic.Object {
				return o.Field(field("me", "User"))
			}, Provenance{Module: "users", Field: "me"})
		},
	}
	want := `interface Aged {
  age: Int!
}

type Image {
  url: String!
}

type Query {
  hello: String!
  me: User!
}

type User implements Aged {
  id: String!
  name: String!
  age: Int!
  avatar: Image
}

schema {
  query: Query
}
`

	for _, order := range permutations(len(steps)) {
		r := New()
		for _, i := range order {
			require.NoError(t, steps[i](r))
		}
		s, err := r.Finish("Query", "", "")
		require.NoError(t, err, "order %v", order)
		require.Equal(t, want, s.SDL(), "order %v", order)
		require.Equal(t, Finalized, r.State())
	}
}

func TestFinish_AvatarInjectionMatchesDirectDeclaration(t *testing.T) {
	r := New()
	require.NoError(t, injectAvatar(r))
	require.NoError(t, r.RegisterObject(newUser()))
	require.NoError(t, r.RegisterObject(newImage()))
	require.NoError(t, r.RegisterObject(newQuery()))
	injected, err := r.Finish("Query", "", "")
	require.NoError(t, err)

	direct, err := dynamic.NewSchemaBuilder("Query", "", "").
		Register(newUser().Field(dynamic.NewField("avatar", dynamic.Named("Image"), resolveNull))).
		Register(newImage()).
		Register(newQuery()).
		Finish()
	require.NoError(t, err)

	require.Equal(t, direct.SDL(), injected.SDL())
	require.Contains(t, injected.SDL(), "type User {\n  id: String!\n  name: String!\n  avatar: Image\n}\n")
}

func TestFinish_ReportsEveryStuckInjection(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := New(WithLogger(zap.New(core)))
	require.NoError(t, r.RegisterObject(newUser()))
	require.NoError(t, r.RegisterObject(newImage()))
	require.NoError(t, r.RegisterObject(newQuery()))
	require.NoError(t, r.RegisterInterface(dynamic.NewInterface("Aged").Field(dynamic.NewField("age", dynamic.NamedNN("Int"), nil))))
	require.NoError(t, r.ExpandObject("Ghost", func(o *dynamic.Object) *dynamic.Object { return o }, Provenance{Module: "haunt", Field: "boo"}))
	require.NoError(t, injectAvatar(r))
	require.NoError(t, r.ExpandObject("Aged", func(o *dynamic.Object) *dynamic.Object { return o }, Provenance{Module: "profiles", Field: "years"}))
	require.NoError(t, r.ExpandObject("Ghost", func(o *dynamic.Object) *dynamic.Object { return o }, Provenance{Module: "haunt", Field: "chains"}))

	_, err := r.Finish("Query", "", "")

	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr), "expected *RegistrationError, got %v", err)
	require.Equal(t, []StuckInjection{
		{Target: "Ghost", Provenance: Provenance{Module: "haunt", Field: "boo"}, Reason: "target type is not registered"},
		{Target: "Aged", Provenance: Provenance{Module: "profiles", Field: "years"}, Reason: "target is an interface, not an object"},
		{Target: "Ghost", Provenance: Provenance{Module: "haunt", Field: "chains"}, Reason: "target type is not registered"},
	}, regErr.Stuck)
	require.Equal(t, []string{"Aged", "Ghost"}, regErr.Targets())
	require.Equal(t, `unresolved field injections:
- Ghost.boo requested by module "haunt": target type is not registered
- Aged.years requested by module "profiles": target is an interface, not an object
- Ghost.chains requested by module "haunt": target type is not registered
`, err.Error())
	require.Equal(t, Failed, r.State())
	require.Equal(t, 3, logs.FilterMessage("field injection stuck").Len())
}

func TestFinish_InvalidTransforms(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterObject(newQuery()))
	require.NoError(t, r.ExpandObject("Query", func(o *dynamic.Object) *dynamic.Object { return nil }, Provenance{Module: "a", Field: "x"}))
	require.NoError(t, r.ExpandObject("Query", func(o *dynamic.Object) *dynamic.Object {
		return dynamic.NewObject("Other").Field(field("y", "String"))
	}, Provenance{Module: "b", Field: "y"}))

	_, err := r.Finish("Query", "", "")

	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr))
	require.Equal(t, []StuckInjection{
		{Target: "Query", Provenance: Provenance{Module: "a", Field: "x"}, Reason: "transform returned nil"},
		{Target: "Query", Provenance: Provenance{Module: "b", Field: "y"}, Reason: `transform renamed the object to "Other"`},
	}, regErr.Stuck)
}

func TestFinish_InjectedFieldCollision(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterObject(newQuery()))
	require.NoError(t, r.ExpandObject("Query", func(o *dynamic.Object) *dynamic.Object {
		return o.Field(field("hello", "String"))
	}, Provenance{Module: "again", Field: "hello"}))

	_, err := r.Finish("Query", "", "")

	var schemaErr *dynamic.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Len(t, schemaErr.Violations, 1)
	require.Equal(t, `Duplicate field "hello" found in object "Query"`, schemaErr.Violations[0].Message)
	require.Equal(t, Failed, r.State())
}

// Registering the same name twice is rejected rather than silently
// replacing the first definition; replacement must go through
// OverrideObject.
func TestRegister_DuplicateIsRejectedNotOverwritten(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterObject(newUser()))

	err := r.RegisterObject(dynamic.NewObject("User").Field(field("login", "String")))
	require.ErrorIs(t, err, ErrDuplicateDefinition)
	var dupErr *DuplicateDefinitionError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "object", dupErr.Category)
	assert.Equal(t, "User", dupErr.Name)
	assert.EqualError(t, err, `object "User" is already registered`)

	for _, dup := range []func() error{
		func() error { return r.RegisterEnum(dynamic.NewEnum("Direction").Item("NORTH")) },
		func() error { return r.RegisterUnion(dynamic.NewUnion("FooBar").PossibleType("User")) },
		func() error { return r.RegisterInterface(dynamic.NewInterface("Node")) },
		func() error { return r.RegisterInputObject(dynamic.NewInputObject("EchoInput")) },
		func() error { return r.RegisterScalar(dynamic.NewScalar("Time")) },
	} {
		require.NoError(t, dup())
		require.ErrorIs(t, dup(), ErrDuplicateDefinition)
	}

	require.NoError(t, r.OverrideObject(newUser().Field(field("login", "String"))))
	require.Error(t, r.OverrideObject(dynamic.NewObject("Missing")))
}

func TestOverrideObject_KeepsInjectionsPending(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterObject(dynamic.NewObject("User").Field(field("id", "String"))))
	require.NoError(t, injectAvatar(r))
	require.NoError(t, r.OverrideObject(newUser()))
	require.NoError(t, r.RegisterObject(newImage()))
	require.NoError(t, r.RegisterObject(newQuery()))

	s, err := r.Finish("Query", "", "")
	require.NoError(t, err)
	require.Contains(t, s.SDL(), "type User {\n  id: String!\n  name: String!\n  avatar: Image\n}\n")
}

func TestFinish_IsOneShot(t *testing.T) {
	r := New()
	require.Equal(t, Accumulating, r.State())
	require.NoError(t, r.RegisterObject(newQuery()))

	_, err := r.Finish("Query", "", "")
	require.NoError(t, err)
	require.Equal(t, Finalized, r.State())

	_, err = r.Finish("Query", "", "")
	require.ErrorIs(t, err, ErrNotAccumulating)
	require.ErrorIs(t, r.RegisterObject(newUser()), ErrNotAccumulating)
	require.ErrorIs(t, r.RegisterEnum(dynamic.NewEnum("E").Item("A")), ErrNotAccumulating)
	require.ErrorIs(t, injectAvatar(r), ErrNotAccumulating)
	require.Equal(t, Finalized, r.State(), "a rejected call must not change state")

	failed := New()
	_, err = failed.Finish("Query", "", "")
	require.Error(t, err)
	require.Equal(t, Failed, failed.State())
	_, err = failed.Finish("Query", "", "")
	require.ErrorIs(t, err, ErrNotAccumulating)
}

func TestRegister_Modules(t *testing.T) {
	var order []string
	ok := func(name string) Module {
		return Module{Name: name, Register: func(r *Registry) error {
			order = append(order, name)
			return nil
		}}
	}
	boom := errors.New("boom")
	r := New()

	err := r.Register(ok("a"), ok("b"), Module{Name: "bad", Register: func(*Registry) error { return boom }}, ok("c"))

	require.ErrorIs(t, err, boom)
	require.EqualError(t, err, "module bad: boom")
	require.Equal(t, []string{"a", "b"}, order)
}

func TestInjectFields_AttributesEachField(t *testing.T) {
	r := New()
	require.NoError(t, r.InjectFields("Ghost", "haunt", field("boo", "String"), field("chains", "Int")))

	_, err := r.Finish("Query", "", "")

	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr), "expected *RegistrationError, got %v", err)
	require.Equal(t, []StuckInjection{
		{Target: "Ghost", Provenance: Provenance{Module: "haunt", Field: "boo"}, Reason: "target type is not registered"},
		{Target: "Ghost", Provenance: Provenance{Module: "haunt", Field: "chains"}, Reason: "target type is not registered"},
	}, regErr.Stuck)
}

func TestInjectFields_SortsAfterBaseFields(t *testing.T) {
	r := New()
	require.NoError(t, r.InjectFields("Query", "extras", field("b", "String"), field("a", "String")))
	require.NoError(t, r.RegisterObject(newQuery()))

	s, err := r.Finish("Query", "", "")
	require.NoError(t, err)
	assert.Equal(t, `type Query {
  hello: String!
  a: String!
  b: String!
}

schema {
  query: Query
}
`, s.SDL())
}

func TestInjectFields_NilField(t *testing.T) {
	require.Error(t, New().InjectFields("Query", "m", nil))
}

func TestExpandObject_NilTransform(t *testing.T) {
	require.Error(t, New().ExpandObject("User", nil, Provenance{Module: "m", Field: "f"}))
}

func TestState_String(t *testing.T) {
	for state, want := range map[State]string{
		Accumulating: "accumulating",
		Finalizing:   "finalizing",
		Finalized:    "finalized",
		Failed:       "failed",
		State(42):    "unknown",
	} {
		require.Equal(t, want, state.String())
	}
}
