package executor

import (
	"context"

	language "github.com/hanpama/gqlcompose/internal/language"
)

// Runtime defines the host integration surface for field resolution, batching,
// abstract type resolution, and leaf-value serialization used by the Executor.
//
// General contract
//   - The Executor performs a breadth-first execution. At each depth it drains all
//     synchronous fields first via ResolveSync, then calls BatchResolveAsync ONCE
//     with all async tasks collected at that depth. The next depth does not begin
//     until BatchResolveAsync returns and those results are completed.
//   - ResolveSync is never invoked for fields marked async, except for root
//     mutation fields, which always run one after another through ResolveSync.
//   - Errors returned from any method are converted into located GraphQL errors.
//     If the field's return type is Non-Null, the Executor propagates the null
//     up to the nearest nullable ancestor.
//   - Implementations must be safe for concurrent use across operations and must
//     not mutate source or args values.
//
// Abstract types and leaf values
//   - ResolveType must return the concrete object type name for an interface or
//     union value.
//   - SerializeLeafValue must coerce scalars and enums into JSON-safe Go values.
//     For enums, return the enum name as string.
//
// Partial success
//   - BatchResolveAsync returns one ResolveResult per task, in task order.
//     Failures in one element do not affect the others.
//   - A resolved list may carry ItemError elements; each one is recorded at its
//     own index and completed as null.
type Runtime interface {
	// ResolveSync resolves a synchronous field value immediately.
	// Return (nil, nil) to produce a GraphQL null for nullable fields.
	ResolveSync(ctx context.Context, task ResolveTask) (any, error)

	// BatchResolveAsync resolves one execution depth of async field tasks.
	// It must return len(tasks) results, results[i] answering tasks[i].
	BatchResolveAsync(ctx context.Context, tasks []ResolveTask) []ResolveResult

	// ResolveType determines the concrete runtime type name for a value of an
	// abstract GraphQL type (interface or union).
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue serializes a scalar or enum value to a JSON-safe Go
	// value according to the GraphQL schema.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

// ResolveTask describes one field resolution.
type ResolveTask struct {
	// ObjectType is the parent GraphQL object type name for the field.
	ObjectType string
	// Field is the GraphQL field name to resolve.
	Field string
	// Source is the parent object value (the initial value for root fields).
	Source any
	// Args are the field arguments, coerced to Go values per the schema with
	// defaults applied.
	Args map[string]any
	// Path is the response path of the field.
	Path Path
	// Fields are the merged AST nodes selecting this response key.
	Fields []*language.Field
	// Document is the request document, used to expand fragment spreads.
	Document *language.QueryDocument
}

type ResolveResult struct {
	// Value is the resolved raw value prior to completion, or nil on error.
	Value any
	// Error contains a failure specific to this element; other elements in the
	// same batch are unaffected.
	Error error
}

// ItemError marks a list element whose resolution failed. The executor
// records Err at the element's index and completes the element as null.
type ItemError struct {
	Err error
}

func (e ItemError) Error() string { return e.Err.Error() }

func (e ItemError) Unwrap() error { return e.Err }
