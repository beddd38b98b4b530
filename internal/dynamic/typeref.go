package dynamic

import schema "github.com/hanpama/gqlcompose/internal/schema"

// Named references a nullable named type: T
func Named(name string) *schema.TypeRef { return schema.NamedType(name) }

// NamedNN references a non-null named type: T!
func NamedNN(name string) *schema.TypeRef { return schema.NonNullType(schema.NamedType(name)) }

// NamedList references a nullable list of nullable items: [T]
func NamedList(name string) *schema.TypeRef { return schema.ListType(schema.NamedType(name)) }

// NamedListNN references a non-null list of nullable items: [T]!
func NamedListNN(name string) *schema.TypeRef {
	return schema.NonNullType(schema.ListType(schema.NamedType(name)))
}

// NamedNNList references a nullable list of non-null items: [T!]
func NamedNNList(name string) *schema.TypeRef {
	return schema.ListType(schema.NonNullType(schema.NamedType(name)))
}

// NamedNNListNN references a non-null list of non-null items: [T!]!
func NamedNNListNN(name string) *schema.TypeRef {
	return schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType(name))))
}

// List wraps any reference in a list.
func List(of *schema.TypeRef) *schema.TypeRef { return schema.ListType(of) }

// NonNull wraps a reference with Non-Null. Wrapping twice is a no-op.
func NonNull(of *schema.TypeRef) *schema.TypeRef {
	if schema.IsNonNull(of) {
		return of
	}
	return schema.NonNullType(of)
}
