// Package dynamic builds executable GraphQL schemas at runtime.
//
// Definitions (Object, Interface, Union, Enum, InputObject, Scalar) are
// registered with a SchemaBuilder and validated together by Finish. Field
// resolvers receive a ResolverContext and return a FieldValue, which records
// whether the result owns its value or borrows it from the parent, and which
// concrete type an interface or union value has.
package dynamic
