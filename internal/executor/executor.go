package executor

import (
	"context"
	"fmt"
	"reflect"

	language "github.com/hanpama/gqlcompose/internal/language"
	schema "github.com/hanpama/gqlcompose/internal/schema"
)

type Path []PathElement

type PathElement any

// executionState holds the state during query execution
type executionState struct {
	runtime        Runtime
	schema         *schema.Schema
	document       *language.QueryDocument
	operation      *language.OperationDefinition
	variableValues map[string]any
	context        context.Context
	asyncTaskGroup []asyncTask
	errors         []GraphQLError
	// prefixes of paths that have been nullified (tombstoned)
	nullifiedPrefix map[string]struct{}
	// set when null propagation reached the response root
	dataNull bool
}

// asyncTask represents a pending async field resolution
type asyncTask struct {
	Task      ResolveTask
	FieldType *schema.TypeRef
	// Boundary is the path of the nearest nullable ancestor, including the
	// field itself. An empty boundary is the data root.
	Boundary Path
}

type asyncPending struct{}

type Executor struct {
	runtime Runtime
	schema  *schema.Schema
}

func NewExecutor(runtime Runtime, schema *schema.Schema) *Executor {
	return &Executor{runtime: runtime, schema: schema}
}

// Schema returns the schema the executor runs against.
func (e *Executor) Schema() *schema.Schema { return e.schema }

func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	operation := getOperation(document, operationName)
	if operation == nil {
		if operationName != "" {
			return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("operation %q not found", operationName)}}}
		}
		return &ExecutionResult{Errors: []GraphQLError{{Message: "operation not found"}}}
	}

	coercedVariableValues, err := coerceVariableValues(e.schema, operation, variableValues)
	if err != nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: err.Error()}}}
	}

	var rootType *schema.Type
	switch operation.Operation {
	case language.Query, "":
		rootType = e.schema.GetQueryType()
	case language.Mutation:
		rootType = e.schema.GetMutationType()
	case language.Subscription:
		return &ExecutionResult{Errors: []GraphQLError{{Message: "subscriptions are not supported"}}}
	default:
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("unsupported operation type: %s", operation.Operation)}}}
	}

	if rootType == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("root type not found for %s operation", operation.Operation)}}}
	}

	state := &executionState{
		runtime:         e.runtime,
		schema:          e.schema,
		document:        document,
		operation:       operation,
		variableValues:  coercedVariableValues,
		context:         ctx,
		errors:          []GraphQLError{},
		nullifiedPrefix: make(map[string]struct{}),
	}

	// Root selection set: sync immediate expansion, async queued
	responseRoot := executeSelectionSet(state, rootType, operation.SelectionSet, initialValue, Path{}, Path{})
	if responseRoot == nil {
		state.dataNull = true
	}

	// Depth-wise batch loop
	for len(state.asyncTaskGroup) > 0 && !state.dataNull {
		tasks, results := flushAsyncTasks(state)
		for i, r := range results {
			completeAsyncField(state, tasks[i], r, responseRoot)
			if state.dataNull {
				break
			}
		}
	}

	if state.dataNull {
		return &ExecutionResult{Data: nil, Errors: state.errors}
	}
	return &ExecutionResult{Data: responseRoot, Errors: state.errors}
}

// executeSelectionSet executes a selection set without flushing. It returns nil
// when a Non-Null child completed as null.
func executeSelectionSet(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet, objectValue any, path Path, boundary Path) map[string]any {
	groupedFields := collectFields(state, objectType, selectionSet)
	resultMap := make(map[string]any, len(groupedFields.orderedFields()))

	for _, collectedField := range groupedFields.orderedFields() {
		responseName := collectedField.ResponseName
		fields := collectedField.Fields
		fieldPath := appendPath(path, responseName)

		if fields[0].Name == "__typename" {
			resultMap[responseName] = objectType.Name
			continue
		}

		fieldDef := objectType.Field(fields[0].Name)
		if fieldDef == nil {
			state.addError(fmt.Sprintf("Cannot query field '%s' on type '%s'", fields[0].Name, objectType.Name), fieldPath, fields)
			continue
		}

		fieldBoundary := boundary
		if !schema.IsNonNull(fieldDef.Type) {
			fieldBoundary = fieldPath
		}

		fieldResult := executeField(state, objectType, objectValue, fieldDef, fields, fieldPath, fieldBoundary)
		if _, pending := fieldResult.(asyncPending); pending {
			resultMap[responseName] = fieldResult
			continue
		}

		if isNullish(fieldResult) {
			if schema.IsNonNull(fieldDef.Type) {
				state.markNullifiedPrefix(path)
				return nil
			}
			// For nullable fields, coerce typed-nil to interface-nil
			resultMap[responseName] = nil
			continue
		}
		resultMap[responseName] = fieldResult
	}

	return resultMap
}

func executeField(state *executionState, objectType *schema.Type, objectValue any, fieldDef *schema.Field, fields []*language.Field, path Path, boundary Path) any {
	argumentValues, err := coerceArgumentValues(state, fieldDef, fields[0].Arguments)
	if err != nil {
		state.addFieldError(err, path, fields)
		return nil
	}

	task := ResolveTask{
		ObjectType: objectType.Name,
		Field:      fieldDef.Name,
		Source:     objectValue,
		Args:       argumentValues,
		Path:       path,
		Fields:     fields,
		Document:   state.document,
	}

	if fieldDef.Async && !state.isSerialRootField(path) {
		state.asyncTaskGroup = append(state.asyncTaskGroup, asyncTask{
			Task:      task,
			FieldType: fieldDef.Type,
			Boundary:  boundary,
		})
		return asyncPending{}
	}

	value, err := state.runtime.ResolveSync(state.context, task)
	if err != nil {
		state.addFieldError(err, path, fields)
		return nil
	}
	return completeValue(state, fieldDef.Type, fields, value, path, boundary)
}

// isSerialRootField reports whether path is a root field of a mutation; those
// must resolve in document order.
func (state *executionState) isSerialRootField(path Path) bool {
	return state.operation.Operation == language.Mutation && len(path) == 1
}

// flushAsyncTasks flushes tasks and returns results (filtered by tombstones)
func flushAsyncTasks(state *executionState) ([]asyncTask, []ResolveResult) {
	filtered := make([]asyncTask, 0, len(state.asyncTaskGroup))
	for _, at := range state.asyncTaskGroup {
		if state.hasNullifiedPrefix(at.Task.Path) {
			continue
		}
		filtered = append(filtered, at)
	}

	tasks := make([]ResolveTask, len(filtered))
	for i, at := range filtered {
		tasks[i] = at.Task
	}

	// Clear group before executing
	state.asyncTaskGroup = nil
	if len(tasks) == 0 {
		return nil, nil
	}

	results := state.runtime.BatchResolveAsync(state.context, tasks)
	if len(results) != len(tasks) {
		out := make([]ResolveResult, len(tasks))
		for i := range out {
			if i < len(results) {
				out[i] = results[i]
			} else {
				out[i] = ResolveResult{Error: fmt.Errorf("runtime returned %d results for %d tasks", len(results), len(tasks))}
			}
		}
		results = out
	}
	return filtered, results
}

// completeAsyncField completes a single async result, with non-null propagation and pruning
func completeAsyncField(state *executionState, at asyncTask, res ResolveResult, responseRoot map[string]any) {
	path := at.Task.Path
	// If this path is already nullified by an ancestor, ignore
	if state.hasNullifiedPrefix(path) {
		return
	}

	var completed any
	if res.Error != nil {
		state.addFieldError(res.Error, path, at.Task.Fields)
	} else {
		completed = completeValue(state, at.FieldType, at.Task.Fields, res.Value, path, at.Boundary)
	}

	if isNullish(completed) {
		if schema.IsNonNull(at.FieldType) {
			state.nullify(responseRoot, at.Boundary)
			return
		}
		setValueAtPath(responseRoot, path, nil)
		return
	}
	setValueAtPath(responseRoot, path, completed)
}

// nullify writes null at the boundary path and drops any work beneath it.
func (state *executionState) nullify(responseRoot map[string]any, boundary Path) {
	if len(boundary) == 0 {
		state.dataNull = true
		return
	}
	setValueAtPath(responseRoot, boundary, nil)
	state.markNullifiedPrefix(boundary)
}

// completeValue completes a value
func completeValue(state *executionState, fieldType *schema.TypeRef, fields []*language.Field, result any, path Path, boundary Path) any {
	if itemErr, ok := result.(ItemError); ok {
		state.addFieldError(itemErr.Err, path, fields)
		result = nil
	}

	if schema.IsNonNull(fieldType) {
		if isNullish(result) {
			if !state.hasErrorAtPath(path) {
				state.addError(fmt.Sprintf("Cannot return null for non-nullable field %s", pathToString(path)), path, fields)
			}
			return nil
		}
		completed := completeValue(state, schema.Unwrap(fieldType), fields, result, path, boundary)
		if isNullish(completed) {
			// Error already recorded at original path; propagate only
			return nil
		}
		return completed
	}

	if isNullish(result) {
		return nil
	}

	if schema.IsList(fieldType) {
		return completeListValue(state, fieldType, fields, result, path, boundary)
	}
	namedType := schema.GetNamedType(fieldType)
	typeObj := state.schema.Types[namedType]
	if typeObj == nil {
		state.addError(fmt.Sprintf("Unknown type: %s", namedType), path, fields)
		return nil
	}

	switch typeObj.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		serialized, err := state.runtime.SerializeLeafValue(state.context, namedType, result)
		if err != nil {
			state.addFieldError(err, path, fields)
			return nil
		}
		return serialized
	case schema.TypeKindObject:
		return completeObjectValue(state, typeObj, fields, result, path, boundary)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return completeAbstractValue(state, typeObj, fields, result, path, boundary)
	default:
		state.addError(fmt.Sprintf("Cannot complete value of unexpected type: %s", typeObj.Kind), path, fields)
		return nil
	}
}

// completeListValue completes a list value
func completeListValue(state *executionState, listType *schema.TypeRef, fields []*language.Field, result any, path Path, boundary Path) any {
	var items []any
	if direct, ok := result.([]any); ok {
		items = direct
	} else {
		rv := reflect.ValueOf(result)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			state.addError(fmt.Sprintf("Expected list value, got %T", result), path, fields)
			return nil
		}
		items = make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
	}

	inner := schema.Unwrap(listType)
	completed := make([]any, len(items))
	for i, item := range items {
		p := appendPath(path, i)
		itemBoundary := boundary
		if !schema.IsNonNull(inner) {
			itemBoundary = p
		}
		v := completeValue(state, inner, fields, item, p, itemBoundary)
		if isNullish(v) {
			if schema.IsNonNull(inner) {
				// Propagate null to the list field; error already recorded by inner completion
				state.markNullifiedPrefix(path)
				return nil
			}
			v = nil
		}
		completed[i] = v
	}
	return completed
}

func completeObjectValue(state *executionState, objectType *schema.Type, fields []*language.Field, result any, path Path, boundary Path) any {
	sub := mergeSelectionSets(fields)
	obj := executeSelectionSet(state, objectType, sub, result, path, boundary)
	if obj == nil {
		return nil
	}
	return obj
}

func completeAbstractValue(state *executionState, abstractType *schema.Type, fields []*language.Field, result any, path Path, boundary Path) any {
	typeName, err := state.runtime.ResolveType(state.context, abstractType.Name, result)
	if err != nil {
		state.addFieldError(err, path, fields)
		return nil
	}
	objectType := state.schema.Types[typeName]
	if objectType == nil || objectType.Kind != schema.TypeKindObject {
		state.addError(fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime. Got: %s", abstractType.Name, typeName), path, fields)
		return nil
	}
	if !state.schema.IsPossibleType(abstractType.Name, typeName) {
		state.addError(fmt.Sprintf("Runtime Object type %s is not a possible type for %s", typeName, abstractType.Name), path, fields)
		return nil
	}
	return completeObjectValue(state, objectType, fields, result, path, boundary)
}

func pathToString(path Path) string {
	result := ""
	for i, elem := range path {
		if i > 0 {
			result += "."
		}
		switch v := elem.(type) {
		case string:
			result += v
		case int:
			result += fmt.Sprintf("[%d]", v)
		}
	}
	return result
}

func appendPath(path Path, elem PathElement) Path {
	newPath := make(Path, len(path)+1)
	copy(newPath, path)
	newPath[len(path)] = elem
	return newPath
}

// Prefix tombstone helpers
func (s *executionState) markNullifiedPrefix(p Path) {
	key := pathToString(p)
	if key != "" {
		s.nullifiedPrefix[key] = struct{}{}
	}
}

func (s *executionState) hasNullifiedPrefix(p Path) bool {
	if len(s.nullifiedPrefix) == 0 {
		return false
	}
	cur := Path{}
	for _, elem := range p {
		cur = append(cur, elem)
		if _, ok := s.nullifiedPrefix[pathToString(cur)]; ok {
			return true
		}
	}
	return false
}

// getOperation retrieves the operation from the document
func getOperation(document *language.QueryDocument, operationName string) *language.OperationDefinition {
	if operationName == "" && len(document.Operations) == 1 {
		return document.Operations[0]
	}
	for _, op := range document.Operations {
		if op.Name == operationName {
			return op
		}
	}
	return nil
}

func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return schema.NonNullType(typeRefFromAST(&language.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return schema.NamedType(t.NamedType)
	}
	if t.Elem != nil {
		return schema.ListType(typeRefFromAST(t.Elem))
	}
	return nil
}

func (state *executionState) addError(message string, path Path, fields []*language.Field) {
	state.errors = append(state.errors, GraphQLError{Message: message, Path: path, Locations: locationsOf(fields)})
}

func (state *executionState) addFieldError(err error, path Path, fields []*language.Field) {
	state.errors = append(state.errors, GraphQLError{
		Message:    err.Error(),
		Path:       path,
		Locations:  locationsOf(fields),
		Extensions: extensionsOf(err),
	})
}

func locationsOf(fields []*language.Field) []Location {
	if len(fields) == 0 || fields[0].Position == nil {
		return nil
	}
	return []Location{{Line: fields[0].Position.Line, Column: fields[0].Position.Column}}
}

// hasErrorAtPath reports whether an error with the given path already exists.
func (state *executionState) hasErrorAtPath(path Path) bool {
	for _, err := range state.errors {
		if reflect.DeepEqual(err.Path, path) {
			return true
		}
	}
	return false
}

// Helper function to set value at a specific path in response tree
func setValueAtPath(responseRoot map[string]any, path Path, value any) {
	if len(path) == 0 || responseRoot == nil {
		return
	}
	current := any(responseRoot)
	for _, elem := range path[:len(path)-1] {
		switch e := elem.(type) {
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return
			}
			next, exists := m[e]
			if !exists {
				return
			}
			current = next
		case int:
			slice, ok := current.([]any)
			if !ok || e >= len(slice) {
				return
			}
			current = slice[e]
		}
	}
	switch fe := path[len(path)-1].(type) {
	case string:
		if m, ok := current.(map[string]any); ok {
			m[fe] = value
		}
	case int:
		if slice, ok := current.([]any); ok && fe < len(slice) {
			slice[fe] = value
		}
	}
}

// mergeSelectionSets merges selection sets from multiple fields
func mergeSelectionSets(fields []*language.Field) language.SelectionSet {
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

// isNullish returns true for nil interfaces and typed nils (map, slice, ptr, interface)
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
