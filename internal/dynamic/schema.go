package dynamic

import (
	"context"

	executor "github.com/hanpama/gqlcompose/internal/executor"
	language "github.com/hanpama/gqlcompose/internal/language"
	schema "github.com/hanpama/gqlcompose/internal/schema"
	"go.uber.org/zap"
)

// Schema is a finished, immutable executable schema. It is safe for
// concurrent use.
type Schema struct {
	raw       *schema.Schema
	resolvers map[string]map[string]*Field
	scalars   map[string]*Scalar
	executor  *executor.Executor
	logger    *zap.Logger
}

// Request is a single GraphQL operation request.
type Request struct {
	Query         string
	OperationName string
	Variables     map[string]any
	// Root is the parent value of root fields.
	Root FieldValue
}

// SDL renders the schema in Schema Definition Language. The output is sorted
// by type name and stable for a given set of definitions.
func (s *Schema) SDL() string { return schema.Render(s.raw) }

// Raw exposes the underlying schema model.
func (s *Schema) Raw() *schema.Schema { return s.raw }

// Execute parses and runs a request. Parse failures are reported as
// response errors.
func (s *Schema) Execute(ctx context.Context, req Request) *executor.ExecutionResult {
	doc, err := language.ParseQuery(req.Query)
	if err != nil {
		return &executor.ExecutionResult{Errors: []executor.GraphQLError{ParseError(err)}}
	}
	return s.ExecuteDocument(ctx, doc, req.OperationName, req.Variables, req.Root)
}

// ExecuteDocument runs an already parsed document.
func (s *Schema) ExecuteDocument(ctx context.Context, doc *language.QueryDocument, operationName string, variables map[string]any, root FieldValue) *executor.ExecutionResult {
	var initial any
	if !root.IsNull() {
		initial = root
	}
	return s.executor.ExecuteRequest(ctx, doc, operationName, variables, initial)
}

// ParseError converts a document parse failure into a response error.
func ParseError(err error) executor.GraphQLError {
	gqlErr := language.AsError(err)
	out := executor.GraphQLError{Message: gqlErr.Message}
	for _, loc := range gqlErr.Locations {
		out.Locations = append(out.Locations, executor.Location{Line: loc.Line, Column: loc.Column})
	}
	return out
}
