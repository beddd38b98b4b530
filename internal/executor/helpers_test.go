package executor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	language "github.com/hanpama/gqlcompose/internal/language"
	schema "github.com/hanpama/gqlcompose/internal/schema"
)

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

var ignoreLocations = cmpopts.IgnoreFields(GraphQLError{}, "Locations")

func requireResult(t *testing.T, want, got *ExecutionResult, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, append([]cmp.Option{ignoreLocations}, opts...)...); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func newSchemaWithQueryType(query *schema.Type, additional ...*schema.Type) *schema.Schema {
	sch := schema.NewSchema("")
	if query != nil {
		sch.SetQueryType(query.Name)
		sch.AddType(query)
	}
	for _, t := range additional {
		sch.AddType(t)
	}
	return sch
}

func newObjectType(name string, fields ...*schema.Field) *schema.Type {
	t := schema.NewType(name, schema.TypeKindObject, "")
	for _, field := range fields {
		t.AddField(field)
	}
	return t
}

func field(name string, typ *schema.TypeRef) *schema.Field {
	return schema.NewField(name, typ, "")
}

func asyncField(name string, typ *schema.TypeRef) *schema.Field {
	return schema.NewField(name, typ, "").SetAsync(true)
}

var (
	str   = schema.NamedType("String")
	strNN = schema.NonNullType(schema.NamedType("String"))
)
