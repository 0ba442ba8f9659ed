package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrEdgeNotFound    = errors.New("edge not found")
	ErrIncompleteNode  = errors.New("incomplete node record")
	ErrInvalidEndpoint = errors.New("invalid edge endpoint")
)

// GraphError provides structured error information for store operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "AddEdge", "SetHidden")
	Entity string // "node" or "edge"
	ID     string // Node or edge key
	Cause  error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func nodeNotFound(op, id string) error {
	return &GraphError{Op: op, Entity: "node", ID: id, Cause: ErrNodeNotFound}
}

func edgeNotFound(op, key string) error {
	return &GraphError{Op: op, Entity: "edge", ID: key, Cause: ErrEdgeNotFound}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrEdgeNotFound)
}
