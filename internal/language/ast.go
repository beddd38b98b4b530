package language

import "github.com/vektah/gqlparser/v2/ast"

// Aliases for the gqlparser AST nodes the executor walks.
type (
	QueryDocument       = ast.QueryDocument
	SchemaDocument      = ast.SchemaDocument
	OperationDefinition = ast.OperationDefinition
	SelectionSet        = ast.SelectionSet
	Field               = ast.Field
	InlineFragment      = ast.InlineFragment
	FragmentDefinition  = ast.FragmentDefinition
	FragmentSpread      = ast.FragmentSpread
	Directive           = ast.Directive
	DirectiveList       = ast.DirectiveList
	ArgumentList        = ast.ArgumentList
	Value               = ast.Value
	Type                = ast.Type
)

const (
	Query        = ast.Query
	Mutation     = ast.Mutation
	Subscription = ast.Subscription
)

// Value kinds, as found in argument and variable literals.
const (
	Variable     = ast.Variable
	IntValue     = ast.IntValue
	FloatValue   = ast.FloatValue
	StringValue  = ast.StringValue
	BlockValue   = ast.BlockValue
	BooleanValue = ast.BooleanValue
	NullValue    = ast.NullValue
	EnumValue    = ast.EnumValue
	ListValue    = ast.ListValue
	ObjectValue  = ast.ObjectValue
)
