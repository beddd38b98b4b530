// Package executor implements a breadth-first, batch-friendly GraphQL executor
// with explicit runtime hooks for synchronous resolution, depth-wise batching of
// asynchronous work, abstract-type resolution, and leaf serialization.
//
// # Execution Model
//
// Each depth is processed in two phases:
//
//	A. Sync expansion
//	   - For each field in the current selection set, coerce arguments (variables,
//	     defaults, input objects, oneOf constraints) and look up the field's async
//	     flag (schema.Field.Async).
//	   - Sync fields call Runtime.ResolveSync and complete immediately. Object
//	     results keep expanding without increasing depth.
//	   - Async fields become ResolveTasks queued for the current depth.
//
//	B. Batch execution
//	   - Runtime.BatchResolveAsync is called once with every live task of the
//	     depth. Results are completed in task order; their async children form
//	     the next depth.
//
// For a graph with asynchronous depth d, BatchResolveAsync is invoked exactly d
// times. Root mutation fields are never batched: they run one after another in
// document order.
//
// # Value Completion
//
//   - Non-Null: complete the inner type; a null result records a violation and
//     propagates null to the nearest nullable ancestor.
//   - List: complete each element at its own index. An ItemError element is
//     recorded at that index and becomes null; siblings are unaffected.
//   - Leaf: Runtime.SerializeLeafValue.
//   - Abstract: Runtime.ResolveType picks the concrete object type, which must
//     be a possible type of the abstract type. Fragments whose type condition
//     names the object, one of its interfaces, or a union containing it apply.
//   - Object: collect subfields and expand.
//
// # Errors and Partial Success
//
// Errors are accumulated as located GraphQL errors (message, locations, path).
// The nearest nullable ancestor of every field is tracked during expansion so
// that async completions bubble nulls to the same place a synchronous
// completion would. Queued tasks under nullified paths are dropped before the
// next batch.
package executor
