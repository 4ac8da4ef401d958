package actions

import (
	"context"
)

// Action defines the interface for any mitigation hook the responder can
// trigger alongside its blocklist bookkeeping. Each action must have a
// name and an execution method.
type Action interface {
	// Name returns the unique name of the action.
	Name() string
	// Execute performs the action. It is passed a context for cancellation
	// and a map of data with any relevant information (e.g. the identifier
	// under mitigation and the threat level that triggered it).
	Execute(ctx context.Context, data map[string]interface{}) error
}
