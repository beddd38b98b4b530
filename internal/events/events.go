// Package events defines the payloads published on the event bus. The
// publishing context carries the request id where one exists.
package events

import (
	"net/http"
	"time"
)

type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish follows the handler writing its response.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}

// GraphQLStart precedes execution of one operation. A batch yields one per
// entry.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}

// SchemaAssembled reports the end of module registration and schema
// assembly, successful or not.
type SchemaAssembled struct {
	Modules  int
	Err      error
	Duration time.Duration
}

// ResolverFinish is published after every field resolver call, async or not.
type ResolverFinish struct {
	ObjectType string
	Field      string
	Async      bool
	Err        error
	Duration   time.Duration
}
