package executor

import "errors"

// Location is a 1-based position in the request document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       Path           `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// ExtensionsProvider is implemented by resolver errors that contribute to the
// "extensions" entry of the response error.
type ExtensionsProvider interface {
	Extensions() map[string]any
}

// ExecutionResult represents the result of executing a GraphQL query
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

func extensionsOf(err error) map[string]any {
	var ep ExtensionsProvider
	if errors.As(err, &ep) {
		return ep.Extensions()
	}
	return nil
}
